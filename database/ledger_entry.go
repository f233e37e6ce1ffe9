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

package database

import (
	"context"
	"database/sql"

	"github.com/blnkfinance/wallet/model"
)

const ledgerEntryColumns = `id, transaction_id, account_id, entry_type, amount, balance_after, created_at`

func scanLedgerEntries(rows *sql.Rows, err error) ([]model.LedgerEntry, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.LedgerEntry{}
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.TransactionID, &e.AccountID, &e.EntryType, &e.Amount, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d Datasource) GetLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]model.LedgerEntry, error) {
	entries, err := scanLedgerEntries(d.Conn.QueryContext(ctx,
		`SELECT `+ledgerEntryColumns+` FROM ledger_entries WHERE transaction_id = $1 ORDER BY entry_type, created_at`, transactionID))
	if err != nil {
		return nil, classifyError(err, "Failed to retrieve ledger entries")
	}
	return entries, nil
}

func (d Datasource) GetLedgerEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, int64, error) {
	var total int64
	err := d.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&total)
	if err != nil {
		return nil, 0, classifyError(err, "Failed to count ledger entries")
	}

	entries, err := scanLedgerEntries(d.Conn.QueryContext(ctx, `
		SELECT `+ledgerEntryColumns+`
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, accountID, limit, offset))
	if err != nil {
		return nil, 0, classifyError(err, "Failed to retrieve ledger entries")
	}
	return entries, total, nil
}

// InsertLedgerEntry appends one side of a movement. Entries are never updated.
func (t *txStore) InsertLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (`+ledgerEntryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.TransactionID, entry.AccountID, entry.EntryType, entry.Amount, entry.BalanceAfter, entry.CreatedAt)
	if err != nil {
		return classifyError(err, "Failed to record ledger entry")
	}
	return nil
}
