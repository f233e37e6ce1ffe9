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

// Package memory is an in-process IDataSource. Accounts carry real row locks and units
// stage their writes until commit, so concurrency behaviour matches the PostgreSQL store
// closely enough for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

type Store struct {
	mu sync.RWMutex

	assetTypes   map[string]model.AssetType
	accounts     map[string]model.Account
	transactions map[string]model.Transaction
	txnOrder     []string
	byKey        map[string]string
	reservedKeys map[string]struct{}
	entries      []model.LedgerEntry

	rowLocks map[string]chan struct{}
}

var _ database.IDataSource = (*Store)(nil)

func New() *Store {
	return &Store{
		assetTypes:   make(map[string]model.AssetType),
		accounts:     make(map[string]model.Account),
		transactions: make(map[string]model.Transaction),
		byKey:        make(map[string]string),
		reservedKeys: make(map[string]struct{}),
		rowLocks:     make(map[string]chan struct{}),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func notFound(format string, args ...interface{}) error {
	return apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf(format, args...), nil)
}

func conflict(format string, args ...interface{}) error {
	return apierror.NewAPIError(apierror.ErrConflict, fmt.Sprintf(format, args...), nil)
}

func (s *Store) CreateAssetType(_ context.Context, assetType *model.AssetType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assetTypes {
		if existing.Symbol == assetType.Symbol || existing.Name == assetType.Name {
			return conflict("Asset type '%s' already exists", assetType.Symbol)
		}
	}
	s.assetTypes[assetType.ID] = *assetType
	return nil
}

func (s *Store) GetAssetTypeByID(_ context.Context, id string) (*model.AssetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.assetTypes[id]
	if !ok {
		return nil, notFound("Asset type '%s' not found", id)
	}
	return &at, nil
}

func (s *Store) GetAssetTypeBySymbol(_ context.Context, symbol string) (*model.AssetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, at := range s.assetTypes {
		if at.Symbol == symbol {
			at := at
			return &at, nil
		}
	}
	return nil, notFound("Asset type with symbol '%s' not found", symbol)
}

func (s *Store) GetAllAssetTypes(_ context.Context) ([]model.AssetType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AssetType, 0, len(s.assetTypes))
	for _, at := range s.assetTypes {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateAssetTypeStatus(_ context.Context, id string, active bool, at time.Time) (*model.AssetType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assetType, ok := s.assetTypes[id]
	if !ok {
		return nil, notFound("Asset type '%s' not found", id)
	}
	assetType.IsActive = active
	assetType.UpdatedAt = at
	s.assetTypes[id] = assetType
	return &assetType, nil
}

func (s *Store) CreateAccount(_ context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assetTypes[account.AssetTypeID]; !ok {
		return apierror.NewAPIError(apierror.ErrBadRequest, "Referenced record does not exist", nil)
	}
	if account.ExternalID != "" {
		for _, existing := range s.accounts {
			if existing.ExternalID == account.ExternalID {
				return conflict("Account with external ID '%s' already exists", account.ExternalID)
			}
		}
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, notFound("Account '%s' not found", id)
	}
	return &acc, nil
}

func (s *Store) GetAccountByExternalID(_ context.Context, externalID string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.ExternalID == externalID {
			acc := acc
			return &acc, nil
		}
	}
	return nil, notFound("Account with external ID '%s' not found", externalID)
}

func (s *Store) GetTransaction(_ context.Context, id string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[id]
	if !ok {
		return nil, notFound("Transaction with ID '%s' not found", id)
	}
	return &txn, nil
}

func (s *Store) GetTransactionByIdempotencyKey(_ context.Context, key string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, notFound("Transaction with idempotency key '%s' not found", key)
	}
	txn := s.transactions[id]
	return &txn, nil
}

func (s *Store) GetTransactions(_ context.Context, filter model.TransactionFilter, limit, offset int) ([]model.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []model.Transaction{}
	for i := len(s.txnOrder) - 1; i >= 0; i-- {
		txn := s.transactions[s.txnOrder[i]]
		if filter.AccountID != "" && txn.SourceAccountID != filter.AccountID && txn.DestinationAccountID != filter.AccountID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		matched = append(matched, txn)
	}
	return page(matched, limit, offset), int64(len(matched)), nil
}

func (s *Store) GetLedgerEntriesByTransaction(_ context.Context, transactionID string) ([]model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.LedgerEntry{}
	for _, e := range s.entries {
		if e.TransactionID == transactionID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryType == model.EntryDebit && out[j].EntryType != model.EntryDebit })
	return out, nil
}

func (s *Store) GetLedgerEntriesByAccount(_ context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []model.LedgerEntry{}
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].AccountID == accountID {
			matched = append(matched, s.entries[i])
		}
	}
	return page(matched, limit, offset), int64(len(matched)), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// rowLock returns the lock channel for an account, creating it on first use.
func (s *Store) rowLock(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.rowLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[id] = ch
	}
	return ch
}

func (s *Store) systemAccount(assetTypeID string, role model.SystemRole) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.assetTypes[assetTypeID]
	if ok {
		externalID := model.SystemExternalID(role, at.Symbol)
		for _, acc := range s.accounts {
			if acc.AccountType == model.AccountTypeSystem && acc.AssetTypeID == assetTypeID && acc.ExternalID == externalID {
				acc := acc
				return &acc, nil
			}
		}
	}
	return nil, notFound("System %s account for asset type '%s' not found", strings.ToLower(string(role)), assetTypeID)
}
