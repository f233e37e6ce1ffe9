/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package wallet

import (
	"context"
	"time"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/model"
)

// applyBalance writes newBalance to a locked account, conditioned on the version it was
// locked at, and advances the in-memory snapshot to match.
func applyBalance(ctx context.Context, tx database.Tx, account *model.Account, newBalance model.Money, at time.Time) error {
	if err := tx.UpdateAccountBalance(ctx, account.ID, newBalance, account.Version, at); err != nil {
		return err
	}
	account.Balance = newBalance
	account.Version++
	account.UpdatedAt = at
	return nil
}
