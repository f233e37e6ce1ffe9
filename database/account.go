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
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

const accountColumns = `id, external_id, account_type, name, email, asset_type_id, balance, version, created_at, updated_at`

func scanAccount(row interface{ Scan(...interface{}) error }) (*model.Account, error) {
	var (
		acc        model.Account
		externalID sql.NullString
		email      sql.NullString
	)
	err := row.Scan(&acc.ID, &externalID, &acc.AccountType, &acc.Name, &email, &acc.AssetTypeID, &acc.Balance, &acc.Version, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	acc.ExternalID = externalID.String
	acc.Email = email.String
	return &acc, nil
}

func getAccount(ctx context.Context, q queryer, query string, args ...interface{}) (*model.Account, error) {
	return scanAccount(q.QueryRowContext(ctx, query, args...))
}

func (d Datasource) CreateAccount(ctx context.Context, account *model.Account) error {
	ctx, span := otel.Tracer("wallet.database").Start(ctx, "Saving account to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO accounts (id, external_id, account_type, name, email, asset_type_id, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, nullString(account.ExternalID), account.AccountType, account.Name, nullString(account.Email),
		account.AssetTypeID, account.Balance, account.Version, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return classifyError(err, fmt.Sprintf("Account with external ID '%s' already exists", account.ExternalID))
	}
	return nil
}

func (d Datasource) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	acc, err := getAccount(ctx, d.Conn, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Account '%s' not found", id)
		}
		return nil, classifyError(err, "Failed to retrieve account")
	}
	return acc, nil
}

func (d Datasource) GetAccountByExternalID(ctx context.Context, externalID string) (*model.Account, error) {
	acc, err := getAccount(ctx, d.Conn, `SELECT `+accountColumns+` FROM accounts WHERE external_id = $1`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Account with external ID '%s' not found", externalID)
		}
		return nil, classifyError(err, "Failed to retrieve account")
	}
	return acc, nil
}

// LockAccount reads the account and holds its row lock until the unit ends.
func (t *txStore) LockAccount(ctx context.Context, id string) (*model.Account, error) {
	acc, err := getAccount(ctx, t.tx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Account '%s' not found", id)
		}
		return nil, classifyError(err, "Failed to lock account")
	}
	return acc, nil
}

func (t *txStore) GetSystemAccount(ctx context.Context, assetTypeID string, role model.SystemRole) (*model.Account, error) {
	acc, err := getAccount(ctx, t.tx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_type = 'SYSTEM'
		  AND asset_type_id = $1
		  AND external_id = 'SYSTEM_' || $2::text || '_' || (SELECT symbol FROM asset_types WHERE id = $1)`,
		assetTypeID, strings.ToUpper(string(role)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("System %s account for asset type '%s' not found", strings.ToLower(string(role)), assetTypeID)
		}
		return nil, classifyError(err, "Failed to resolve system account")
	}
	return acc, nil
}

// UpdateAccountBalance writes the new balance only if the row still carries expectedVersion.
func (t *txStore) UpdateAccountBalance(ctx context.Context, id string, balance model.Money, expectedVersion int64, at time.Time) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		id, balance, at, expectedVersion)
	if err != nil {
		return classifyError(err, "Failed to update account balance")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyError(err, "Failed to get rows affected")
	}
	if rowsAffected == 0 {
		return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Concurrent modification on account '%s'", id), nil)
	}
	return nil
}
