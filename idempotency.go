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
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/wallet/internal/apierror"
	redlock "github.com/blnkfinance/wallet/internal/lock"
	"github.com/blnkfinance/wallet/model"
)

// findCompleted returns the transaction already recorded under key, with its ledger entries,
// or nil when the key is unused.
func (w *Wallet) findCompleted(ctx context.Context, key string) (*model.Transaction, error) {
	txn, err := w.datasource.GetTransactionByIdempotencyKey(ctx, key)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if txn.Status != model.StatusCompleted {
		return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with idempotency key '%s' is %s", key, txn.Status), nil)
	}

	entries, err := w.datasource.GetLedgerEntriesByTransaction(ctx, txn.ID)
	if err != nil {
		return nil, err
	}
	txn.LedgerEntries = entries
	return txn, nil
}

// acquireKeyGuard takes a short Redis lease on the idempotency key so a concurrent retry of the
// same request fails fast with Conflict. The unique index on the key remains the real guarantee,
// so an unreachable Redis only logs.
func (w *Wallet) acquireKeyGuard(ctx context.Context, key string) (func(), error) {
	if w.redis == nil {
		return func() {}, nil
	}

	locker := redlock.NewLocker(w.redis, "idempotency:"+key, model.GenerateUUID())
	if err := locker.Lock(ctx, w.guardTTL); err != nil {
		if errors.Is(err, redlock.ErrLockHeld) {
			return nil, apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("A request with idempotency key '%s' is already in progress", key), nil)
		}
		logrus.WithError(err).WithField("idempotency_key", key).Warn("idempotency guard unavailable")
		return func() {}, nil
	}

	return func() {
		if err := locker.Unlock(context.Background()); err != nil {
			logrus.WithError(err).WithField("idempotency_key", key).Warn("failed to release idempotency guard")
		}
	}, nil
}
