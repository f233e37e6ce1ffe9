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
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

const transactionColumns = `id, idempotency_key, type, status, source_account_id, dest_account_id, asset_type_id, amount, description, reference_id, metadata, created_at, updated_at`

func scanTransaction(row interface{ Scan(...interface{}) error }) (*model.Transaction, error) {
	var (
		txn          model.Transaction
		description  sql.NullString
		referenceID  sql.NullString
		metaDataJSON []byte
	)
	err := row.Scan(&txn.ID, &txn.IdempotencyKey, &txn.Type, &txn.Status, &txn.SourceAccountID, &txn.DestinationAccountID,
		&txn.AssetTypeID, &txn.Amount, &description, &referenceID, &metaDataJSON, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	txn.Description = description.String
	txn.ReferenceID = referenceID.String
	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &txn.MetaData); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal metadata", err)
		}
	}
	return &txn, nil
}

func (d Datasource) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	ctx, span := otel.Tracer("wallet.database").Start(ctx, "Getting transaction from db")
	defer span.End()

	txn, err := scanTransaction(d.Conn.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Transaction with ID '%s' not found", id)
		}
		return nil, classifyError(err, "Failed to retrieve transaction")
	}
	return txn, nil
}

func (d Datasource) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*model.Transaction, error) {
	ctx, span := otel.Tracer("wallet.database").Start(ctx, "Getting transaction from db by idempotency key")
	defer span.End()

	txn, err := scanTransaction(d.Conn.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE idempotency_key = $1`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Transaction with idempotency key '%s' not found", key)
		}
		return nil, classifyError(err, "Failed to retrieve transaction")
	}
	return txn, nil
}

func transactionFilterClause(filter model.TransactionFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("(source_account_id = $%d OR dest_account_id = $%d)", len(args), len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (d Datasource) GetTransactions(ctx context.Context, filter model.TransactionFilter, limit, offset int) ([]model.Transaction, int64, error) {
	where, args := transactionFilterClause(filter)

	var total int64
	if err := d.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, classifyError(err, "Failed to count transactions")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM transactions%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)-1, len(args))

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyError(err, "Failed to retrieve transactions")
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, classifyError(err, "Failed to scan transaction")
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyError(err, "Failed to retrieve transactions")
	}
	return transactions, total, nil
}

// InsertTransaction records txn inside the unit. A reused idempotency key is a Conflict.
func (t *txStore) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	var metaData interface{}
	if len(txn.MetaData) > 0 {
		metaDataJSON, err := json.Marshal(txn.MetaData)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal metadata", err)
		}
		metaData = metaDataJSON
	}

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		txn.ID, txn.IdempotencyKey, txn.Type, txn.Status, txn.SourceAccountID, txn.DestinationAccountID, txn.AssetTypeID,
		txn.Amount, nullString(txn.Description), nullString(txn.ReferenceID), metaData, txn.CreatedAt, txn.UpdatedAt,
	)
	if err != nil {
		if isIdempotencyViolation(err) {
			return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Transaction with idempotency key '%s' already exists", txn.IdempotencyKey), err)
		}
		return classifyError(err, "Failed to record transaction")
	}
	return nil
}

func (t *txStore) UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus, at time.Time) error {
	result, err := t.tx.ExecContext(ctx, `UPDATE transactions SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return classifyError(err, "Failed to update transaction status")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError(err, "Failed to get rows affected")
	}
	if rowsAffected == 0 {
		return notFound("Transaction with ID '%s' not found", id)
	}
	return nil
}
