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
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

var tracer = otel.Tracer("wallet.transactions")

// operation is the shape shared by top-ups, bonuses and spends: one user account against
// one system counter-party of the same asset type.
type operation struct {
	txnType        model.TransactionType
	role           model.SystemRole
	userPays       bool
	idempotencyKey string
	accountID      string
	assetTypeID    string
	amount         model.Money
	description    string
	referenceID    string
	metaData       map[string]interface{}
}

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.WithError(err).Error(msg)
	return err
}

// validate checks the request and rewrites its ids in canonical form, so the same account
// always sorts to the same lock position however the caller spelled it.
func (op *operation) validate() error {
	switch {
	case op.idempotencyKey == "":
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Idempotency key is required", nil)
	case op.accountID == "":
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Account ID is required", nil)
	case op.assetTypeID == "":
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Asset type ID is required", nil)
	case !op.amount.IsPositive():
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Amount must be greater than zero", nil)
	case op.amount > model.MaxMoney:
		return apierror.NewAPIError(apierror.ErrInvalidInput, "Amount is out of range", nil)
	}

	accountID, ok := model.CanonicalID(op.accountID)
	if !ok {
		return apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Account ID '%s' is not a valid UUID", op.accountID), nil)
	}
	assetTypeID, ok := model.CanonicalID(op.assetTypeID)
	if !ok {
		return apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Asset type ID '%s' is not a valid UUID", op.assetTypeID), nil)
	}
	op.accountID, op.assetTypeID = accountID, assetTypeID
	return nil
}

// TopUp credits a user account from the treasury of its asset type.
func (w *Wallet) TopUp(ctx context.Context, req model.TopUpRequest) (*model.Transaction, error) {
	return w.execute(ctx, operation{
		txnType:        model.TransactionTypeTopUp,
		role:           model.RoleTreasury,
		idempotencyKey: req.IdempotencyKey,
		accountID:      req.AccountID,
		assetTypeID:    req.AssetTypeID,
		amount:         req.Amount,
		description:    req.Description,
		referenceID:    req.ReferenceID,
		metaData:       req.MetaData,
	})
}

// Bonus grants a promotional credit from the treasury. It moves value exactly like a top-up.
func (w *Wallet) Bonus(ctx context.Context, req model.BonusRequest) (*model.Transaction, error) {
	return w.execute(ctx, operation{
		txnType:        model.TransactionTypeBonus,
		role:           model.RoleTreasury,
		idempotencyKey: req.IdempotencyKey,
		accountID:      req.AccountID,
		assetTypeID:    req.AssetTypeID,
		amount:         req.Amount,
		description:    req.Description,
		metaData:       req.MetaData,
	})
}

// Spend debits a user account into the revenue account of its asset type.
// It fails with INSUFFICIENT_BALANCE, leaving nothing behind, when the locked balance is short.
func (w *Wallet) Spend(ctx context.Context, req model.SpendRequest) (*model.Transaction, error) {
	return w.execute(ctx, operation{
		txnType:        model.TransactionTypeSpend,
		role:           model.RoleRevenue,
		userPays:       true,
		idempotencyKey: req.IdempotencyKey,
		accountID:      req.AccountID,
		assetTypeID:    req.AssetTypeID,
		amount:         req.Amount,
		description:    req.Description,
		referenceID:    req.ReferenceID,
		metaData:       req.MetaData,
	})
}

func (w *Wallet) execute(ctx context.Context, op operation) (txn *model.Transaction, err error) {
	ctx, span := tracer.Start(ctx, string(op.txnType), trace.WithAttributes(
		attribute.String("wallet.idempotency_key", op.idempotencyKey),
		attribute.String("wallet.account_id", op.accountID),
		attribute.String("wallet.asset_type_id", op.assetTypeID),
	))
	defer span.End()

	started := time.Now()
	outcome := outcomeCompleted
	defer func() {
		if err != nil {
			outcome = outcomeOf(err)
		}
		w.metrics.observe(op.txnType, outcome, started)
	}()

	if err := op.validate(); err != nil {
		return nil, err
	}
	existing, err := w.replay(ctx, op)
	if err != nil || existing != nil {
		if existing != nil {
			outcome = outcomeReplayed
		}
		return existing, err
	}

	if err := w.requireActiveAssetType(ctx, op.assetTypeID); err != nil {
		return nil, err
	}

	release, err := w.acquireKeyGuard(ctx, op.idempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()

	// A retry that held the guard before us may have finished in the meantime.
	existing, err = w.replay(ctx, op)
	if err != nil || existing != nil {
		if existing != nil {
			outcome = outcomeReplayed
		}
		return existing, err
	}

	err = w.datasource.RunInTx(ctx, func(ctx context.Context, tx database.Tx) error {
		var applyErr error
		txn, applyErr = w.apply(ctx, tx, op)
		return applyErr
	})
	if err != nil {
		return nil, logAndRecordError(span, fmt.Sprintf("%s failed", op.txnType), err)
	}

	span.SetAttributes(attribute.String("wallet.transaction_id", txn.ID))
	logrus.WithFields(logrus.Fields{
		"transaction_id":  txn.ID,
		"type":            txn.Type,
		"account_id":      op.accountID,
		"amount":          txn.Amount.String(),
		"idempotency_key": txn.IdempotencyKey,
	}).Info("transaction completed")
	return txn, nil
}

// replay returns the stored result of an earlier call with the same key.
func (w *Wallet) replay(ctx context.Context, op operation) (*model.Transaction, error) {
	existing, err := w.findCompleted(ctx, op.idempotencyKey)
	if err != nil || existing == nil {
		return nil, err
	}
	if existing.Type != op.txnType || existing.Amount != op.amount || existing.AssetTypeID != op.assetTypeID ||
		(existing.SourceAccountID != op.accountID && existing.DestinationAccountID != op.accountID) {
		logrus.WithFields(logrus.Fields{
			"idempotency_key": op.idempotencyKey,
			"transaction_id":  existing.ID,
		}).Warn("idempotency key reused with a different payload, returning the original transaction")
	}
	return existing, nil
}

// apply runs inside the atomic unit. Any error it returns discards every write it made.
func (w *Wallet) apply(ctx context.Context, tx database.Tx, op operation) (*model.Transaction, error) {
	counterParty, err := resolveSystemAccount(ctx, tx, op.assetTypeID, op.role)
	if err != nil {
		return nil, err
	}
	if counterParty.ID == op.accountID {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "A system account cannot transact with itself", nil)
	}

	locked, err := lockAccounts(ctx, tx, op.accountID, counterParty.ID)
	if err != nil {
		return nil, err
	}
	user, system := locked[op.accountID], locked[counterParty.ID]

	if user.AssetTypeID != op.assetTypeID {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput,
			fmt.Sprintf("Account '%s' does not hold asset type '%s'", user.ID, op.assetTypeID), nil)
	}

	source, destination := system, user
	if op.userPays {
		source, destination = user, system
		if user.Balance < op.amount {
			return nil, apierror.NewAPIError(apierror.ErrInsufficientBalance,
				fmt.Sprintf("Insufficient balance. Available: %s, Required: %s", user.Balance, op.amount), nil)
		}
	}

	now := w.clock.Now()
	txn := &model.Transaction{
		ID:                   model.GenerateUUID(),
		IdempotencyKey:       op.idempotencyKey,
		Type:                 op.txnType,
		Status:               model.StatusPending,
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		AssetTypeID:          op.assetTypeID,
		Amount:               op.amount,
		Description:          op.description,
		ReferenceID:          op.referenceID,
		MetaData:             op.metaData,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return nil, err
	}

	sourceAfter, err := source.Balance.Sub(op.amount)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Amount overflows the source balance", err)
	}
	destinationAfter, err := destination.Balance.Add(op.amount)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Amount overflows the destination balance", err)
	}

	entries, err := writeLedgerEntries(ctx, tx, movement{
		transactionID:    txn.ID,
		sourceID:         source.ID,
		destinationID:    destination.ID,
		amount:           op.amount,
		sourceAfter:      sourceAfter,
		destinationAfter: destinationAfter,
		at:               now,
	})
	if err != nil {
		return nil, err
	}

	if err := applyBalance(ctx, tx, source, sourceAfter, now); err != nil {
		return nil, err
	}
	if err := applyBalance(ctx, tx, destination, destinationAfter, now); err != nil {
		return nil, err
	}

	if err := tx.UpdateTransactionStatus(ctx, txn.ID, model.StatusCompleted, now); err != nil {
		return nil, err
	}
	txn.Status = model.StatusCompleted
	txn.LedgerEntries = entries
	return txn, nil
}

// GetTransaction returns a transaction with both of its ledger entries.
func (w *Wallet) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "GetTransaction")
	defer span.End()

	id, err := lookupID(id, "Transaction")
	if err != nil {
		return nil, err
	}
	txn, err := w.datasource.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := w.datasource.GetLedgerEntriesByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.LedgerEntries = entries
	return txn, nil
}

func (w *Wallet) GetTransactionLedgerEntries(ctx context.Context, id string) ([]model.LedgerEntry, error) {
	id, err := lookupID(id, "Transaction")
	if err != nil {
		return nil, err
	}
	if _, err := w.datasource.GetTransaction(ctx, id); err != nil {
		return nil, err
	}
	return w.datasource.GetLedgerEntriesByTransaction(ctx, id)
}

// ListTransactions returns one page of transactions, newest first, with pagination info.
func (w *Wallet) ListTransactions(ctx context.Context, filter model.TransactionFilter, page, limit int) ([]model.Transaction, model.Pagination, error) {
	ctx, span := tracer.Start(ctx, "ListTransactions")
	defer span.End()

	filter, err := validateFilter(filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	page, limit = model.NormalizePage(page, limit)
	txns, total, err := w.datasource.GetTransactions(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return txns, model.NewPagination(page, limit, total), nil
}

func validateFilter(filter model.TransactionFilter) (model.TransactionFilter, error) {
	if filter.AccountID != "" {
		accountID, ok := model.CanonicalID(filter.AccountID)
		if !ok {
			return filter, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Account ID '%s' is not a valid UUID", filter.AccountID), nil)
		}
		filter.AccountID = accountID
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return filter, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown transaction type '%s'", filter.Type), nil)
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return filter, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Unknown transaction status '%s'", filter.Status), nil)
	}
	return filter, nil
}
