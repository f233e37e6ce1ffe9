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

// movement is one transfer of amount from source to destination, with both resulting balances.
type movement struct {
	transactionID    string
	sourceID         string
	destinationID    string
	amount           model.Money
	sourceAfter      model.Money
	destinationAfter model.Money
	at               time.Time
}

// writeLedgerEntries appends the DEBIT on the source and the CREDIT on the destination.
func writeLedgerEntries(ctx context.Context, tx database.Tx, m movement) ([]model.LedgerEntry, error) {
	entries := []model.LedgerEntry{
		{
			ID:            model.GenerateUUID(),
			TransactionID: m.transactionID,
			AccountID:     m.sourceID,
			EntryType:     model.EntryDebit,
			Amount:        m.amount,
			BalanceAfter:  m.sourceAfter,
			CreatedAt:     m.at,
		},
		{
			ID:            model.GenerateUUID(),
			TransactionID: m.transactionID,
			AccountID:     m.destinationID,
			EntryType:     model.EntryCredit,
			Amount:        m.amount,
			BalanceAfter:  m.destinationAfter,
			CreatedAt:     m.at,
		},
	}

	for i := range entries {
		if err := tx.InsertLedgerEntry(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
