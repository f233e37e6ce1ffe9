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
	"time"

	"github.com/blnkfinance/wallet/model"
)

// IDataSource is everything the wallet needs from storage.
type IDataSource interface {
	assetType   // Asset type catalogue
	account     // Account lookups and creation
	transaction // Completed transaction reads
	ledgerEntry // Ledger entry reads

	// RunInTx runs fn inside one serializable database transaction.
	// fn's error rolls the whole unit back and is returned unchanged.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx holds the operations that are only valid inside RunInTx.
type Tx interface {
	LockAccount(ctx context.Context, id string) (*model.Account, error)                                                      // SELECT ... FOR UPDATE on one account
	GetSystemAccount(ctx context.Context, assetTypeID string, role model.SystemRole) (*model.Account, error)                 // Resolves SYSTEM_<ROLE>_<SYMBOL>
	InsertTransaction(ctx context.Context, txn *model.Transaction) error                                                     // Conflict on a reused idempotency key
	UpdateTransactionStatus(ctx context.Context, id string, status model.TransactionStatus, at time.Time) error              // Moves a transaction to a new status
	InsertLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error                                                   // Appends one side of a movement
	UpdateAccountBalance(ctx context.Context, id string, balance model.Money, expectedVersion int64, at time.Time) error      // Version checked balance write
}

type assetType interface {
	CreateAssetType(ctx context.Context, assetType *model.AssetType) error                                   // Creates a new asset type
	GetAssetTypeByID(ctx context.Context, id string) (*model.AssetType, error)                               // Retrieves an asset type by ID
	GetAssetTypeBySymbol(ctx context.Context, symbol string) (*model.AssetType, error)                       // Retrieves an asset type by symbol
	GetAllAssetTypes(ctx context.Context) ([]model.AssetType, error)                                         // Lists every asset type
	UpdateAssetTypeStatus(ctx context.Context, id string, active bool, at time.Time) (*model.AssetType, error) // Toggles the active flag
}

type account interface {
	CreateAccount(ctx context.Context, account *model.Account) error                        // Creates a new account
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)                  // Retrieves an account by ID
	GetAccountByExternalID(ctx context.Context, externalID string) (*model.Account, error)  // Retrieves an account by external ID
}

type transaction interface {
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)                                                 // Retrieves a transaction by ID
	GetTransactionByIdempotencyKey(ctx context.Context, key string) (*model.Transaction, error)                                 // Retrieves a transaction by idempotency key
	GetTransactions(ctx context.Context, filter model.TransactionFilter, limit, offset int) ([]model.Transaction, int64, error) // Newest first, with the unpaged total
}

type ledgerEntry interface {
	GetLedgerEntriesByTransaction(ctx context.Context, transactionID string) ([]model.LedgerEntry, error)                  // Debit first, then credit
	GetLedgerEntriesByAccount(ctx context.Context, accountID string, limit, offset int) ([]model.LedgerEntry, int64, error) // Newest first, with the unpaged total
}
