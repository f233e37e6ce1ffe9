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

package memory

import (
	"context"
	"time"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/model"
)

// unit is one RunInTx invocation. Writes are staged and only become visible on commit.
type unit struct {
	store *Store

	held     []chan struct{}
	heldIDs  map[string]struct{}
	accounts map[string]model.Account
	txns     []model.Transaction
	entries  []model.LedgerEntry
	keys     []string
}

var _ database.Tx = (*unit)(nil)

// RunInTx serialises conflicting units through the per-account row locks taken by LockAccount.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	u := &unit{
		store:    s,
		heldIDs:  make(map[string]struct{}),
		accounts: make(map[string]model.Account),
	}
	defer u.release()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(ctx, u); err != nil {
		u.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		u.rollback()
		return err
	}
	u.commit()
	return nil
}

func (u *unit) LockAccount(ctx context.Context, id string) (*model.Account, error) {
	if _, ok := u.heldIDs[id]; !ok {
		if _, err := u.store.GetAccountByID(ctx, id); err != nil {
			return nil, err
		}

		lock := u.store.rowLock(id)
		select {
		case lock <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		u.held = append(u.held, lock)
		u.heldIDs[id] = struct{}{}
	}
	return u.current(id)
}

// current returns the unit's view of an account: its staged copy, else the committed row.
func (u *unit) current(id string) (*model.Account, error) {
	if acc, ok := u.accounts[id]; ok {
		return &acc, nil
	}
	return u.store.GetAccountByID(context.Background(), id)
}

func (u *unit) GetSystemAccount(_ context.Context, assetTypeID string, role model.SystemRole) (*model.Account, error) {
	return u.store.systemAccount(assetTypeID, role)
}

func (u *unit) InsertTransaction(_ context.Context, txn *model.Transaction) error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, committed := s.byKey[txn.IdempotencyKey]
	_, reserved := s.reservedKeys[txn.IdempotencyKey]
	if committed || reserved {
		return conflict("Transaction with idempotency key '%s' already exists", txn.IdempotencyKey)
	}
	s.reservedKeys[txn.IdempotencyKey] = struct{}{}
	u.keys = append(u.keys, txn.IdempotencyKey)
	u.txns = append(u.txns, *txn)
	return nil
}

func (u *unit) UpdateTransactionStatus(_ context.Context, id string, status model.TransactionStatus, at time.Time) error {
	for i := range u.txns {
		if u.txns[i].ID == id {
			u.txns[i].Status = status
			u.txns[i].UpdatedAt = at
			return nil
		}
	}
	return notFound("Transaction with ID '%s' not found", id)
}

func (u *unit) InsertLedgerEntry(_ context.Context, entry *model.LedgerEntry) error {
	u.entries = append(u.entries, *entry)
	return nil
}

func (u *unit) UpdateAccountBalance(_ context.Context, id string, balance model.Money, expectedVersion int64, at time.Time) error {
	acc, err := u.current(id)
	if err != nil {
		return err
	}
	if acc.Version != expectedVersion {
		return conflict("Concurrent modification on account '%s'", id)
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = at
	u.accounts[id] = *acc
	return nil
}

func (u *unit) commit() {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range u.accounts {
		s.accounts[id] = acc
	}
	for _, txn := range u.txns {
		s.transactions[txn.ID] = txn
		s.txnOrder = append(s.txnOrder, txn.ID)
		s.byKey[txn.IdempotencyKey] = txn.ID
	}
	s.entries = append(s.entries, u.entries...)
	for _, key := range u.keys {
		delete(s.reservedKeys, key)
	}
}

func (u *unit) rollback() {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range u.keys {
		delete(s.reservedKeys, key)
	}
	u.accounts = nil
	u.txns = nil
	u.entries = nil
}

func (u *unit) release() {
	for i := len(u.held) - 1; i >= 0; i-- {
		<-u.held[i]
	}
	u.held = nil
}
