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
	"fmt"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

// CreateAccount opens a USER account at a zero balance. Balances only ever change through
// TopUp, Bonus and Spend.
func (w *Wallet) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "CreateAccount")
	defer span.End()

	if req.Name == "" || req.AssetTypeID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Name and asset type ID are required", nil)
	}
	assetTypeID, err := lookupID(req.AssetTypeID, "Asset type")
	if err != nil {
		return nil, err
	}
	req.AssetTypeID = assetTypeID
	if _, err := w.datasource.GetAssetTypeByID(ctx, req.AssetTypeID); err != nil {
		return nil, err
	}
	if req.ExternalID != "" {
		if err := w.ensureExternalIDFree(ctx, req.ExternalID); err != nil {
			return nil, err
		}
	}

	return w.insertAccount(ctx, model.AccountTypeUser, req)
}

func (w *Wallet) ensureExternalIDFree(ctx context.Context, externalID string) error {
	_, err := w.datasource.GetAccountByExternalID(ctx, externalID)
	switch {
	case err == nil:
		return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf("Account with external ID '%s' already exists", externalID), nil)
	case apierror.Is(err, apierror.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (w *Wallet) insertAccount(ctx context.Context, accountType model.AccountType, req model.CreateAccountRequest) (*model.Account, error) {
	now := w.clock.Now()
	account := &model.Account{
		ID:          model.GenerateUUID(),
		ExternalID:  req.ExternalID,
		AccountType: accountType,
		Name:        req.Name,
		Email:       req.Email,
		AssetTypeID: req.AssetTypeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := w.datasource.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (w *Wallet) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	id, err := lookupID(id, "Account")
	if err != nil {
		return nil, err
	}
	return w.datasource.GetAccountByID(ctx, id)
}

// GetBalance reads the committed balance. It takes no lock and may be stale by the
// time the caller acts on it.
func (w *Wallet) GetBalance(ctx context.Context, id string) (*model.AccountBalance, error) {
	account, err := w.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.AccountBalance{
		AccountID:   account.ID,
		AssetTypeID: account.AssetTypeID,
		Balance:     account.Balance,
	}, nil
}

// GetAccountLedgerEntries pages through an account's entries, newest first.
func (w *Wallet) GetAccountLedgerEntries(ctx context.Context, id string, page, limit int) ([]model.LedgerEntry, model.Pagination, error) {
	ctx, span := tracer.Start(ctx, "GetAccountLedgerEntries")
	defer span.End()

	id, err := lookupID(id, "Account")
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if _, err := w.datasource.GetAccountByID(ctx, id); err != nil {
		return nil, model.Pagination{}, err
	}
	page, limit = model.NormalizePage(page, limit)
	entries, total, err := w.datasource.GetLedgerEntriesByAccount(ctx, id, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return entries, model.NewPagination(page, limit, total), nil
}
