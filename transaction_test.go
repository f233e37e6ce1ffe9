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
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

func TestTopUp_MovesValueFromTreasury(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	txn, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "topup-1",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("50"),
		Description:    "Card purchase",
		ReferenceID:    "order-42",
		MetaData:       map[string]interface{}{"channel": "web"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, txn.Status)
	assert.Equal(t, model.TransactionTypeTopUp, txn.Type)
	assert.Equal(t, env.treasury.ID, txn.SourceAccountID)
	assert.Equal(t, env.alice.ID, txn.DestinationAccountID)
	assert.Equal(t, "50.0000", txn.Amount.String())
	assert.Equal(t, testNow, txn.CreatedAt)

	assert.Equal(t, "1050.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, "9950.0000", env.balance(t, env.treasury.ID))
	assert.Equal(t, int64(1), env.version(t, env.alice.ID))
	assert.Equal(t, int64(1), env.version(t, env.treasury.ID))

	require.Len(t, txn.LedgerEntries, 2)
	debit, credit := txn.LedgerEntries[0], txn.LedgerEntries[1]
	assert.Equal(t, model.EntryDebit, debit.EntryType)
	assert.Equal(t, env.treasury.ID, debit.AccountID)
	assert.Equal(t, "9950.0000", debit.BalanceAfter.String())
	assert.Equal(t, model.EntryCredit, credit.EntryType)
	assert.Equal(t, env.alice.ID, credit.AccountID)
	assert.Equal(t, "1050.0000", credit.BalanceAfter.String())
	assert.Equal(t, debit.Amount, credit.Amount)

	stored, err := env.wallet.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.Equal(t, "order-42", stored.ReferenceID)
	assert.Len(t, stored.LedgerEntries, 2)
}

func TestBonus_CreditsFromTreasury(t *testing.T) {
	env := newTestEnv(t)

	txn, err := env.wallet.Bonus(context.Background(), model.BonusRequest{
		IdempotencyKey: "bonus-1",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("12.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.TransactionTypeBonus, txn.Type)
	assert.Empty(t, txn.ReferenceID)
	assert.Equal(t, "1012.5000", env.balance(t, env.alice.ID))
	assert.Equal(t, "9987.5000", env.balance(t, env.treasury.ID))
}

func TestSpend_MovesValueToRevenue(t *testing.T) {
	env := newTestEnv(t)

	txn, err := env.wallet.Spend(context.Background(), model.SpendRequest{
		IdempotencyKey: "spend-1",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("999.9999"),
	})
	require.NoError(t, err)

	assert.Equal(t, env.alice.ID, txn.SourceAccountID)
	assert.Equal(t, env.revenue.ID, txn.DestinationAccountID)
	assert.Equal(t, "0.0001", env.balance(t, env.alice.ID))
	assert.Equal(t, "999.9999", env.balance(t, env.revenue.ID))
	assert.Equal(t, "10000.0000", env.balance(t, env.treasury.ID))
}

func TestSpend_ExactBalance(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.Spend(context.Background(), model.SpendRequest{
		IdempotencyKey: "spend-all",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0000", env.balance(t, env.alice.ID))
}

func TestSpend_InsufficientBalanceLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.wallet.Spend(ctx, model.SpendRequest{
		IdempotencyKey: "spend-too-much",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("1000.0001"),
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrInsufficientBalance))
	assert.EqualError(t, err, "INSUFFICIENT_BALANCE: Insufficient balance. Available: 1000.0000, Required: 1000.0001")

	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, int64(0), env.version(t, env.alice.ID))

	_, err = env.store.GetTransactionByIdempotencyKey(ctx, "spend-too-much")
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))

	entries, total, err := env.store.GetLedgerEntriesByAccount(ctx, env.alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)
}

func TestTopUp_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := model.TopUpRequest{
		IdempotencyKey: "replay-1",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("50"),
	}

	first, err := env.wallet.TopUp(ctx, req)
	require.NoError(t, err)
	second, err := env.wallet.TopUp(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.LedgerEntries, 2)
	assert.Equal(t, "1050.0000", env.balance(t, env.alice.ID))

	// A different payload under a used key still returns the original.
	req.Amount = model.MustParseMoney("70")
	third, err := env.wallet.TopUp(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, "50.0000", third.Amount.String())
	assert.Equal(t, "1050.0000", env.balance(t, env.alice.ID))

	txns, _, err := env.wallet.ListTransactions(ctx, model.TransactionFilter{AccountID: env.alice.ID}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestOperations_RejectInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.TopUpRequest
	}{
		{name: "zero amount", req: model.TopUpRequest{IdempotencyKey: "k", AccountID: env.alice.ID, AssetTypeID: env.asset.ID}},
		{name: "negative amount", req: model.TopUpRequest{IdempotencyKey: "k", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("-1")}},
		{name: "missing key", req: model.TopUpRequest{AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: 1}},
		{name: "missing account", req: model.TopUpRequest{IdempotencyKey: "k", AssetTypeID: env.asset.ID, Amount: 1}},
		{name: "missing asset type", req: model.TopUpRequest{IdempotencyKey: "k", AccountID: env.alice.ID, Amount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.wallet.TopUp(ctx, tt.req)
			assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)
		})
	}
	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
}

func TestTopUp_UnknownAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.TopUp(context.Background(), model.TopUpRequest{
		IdempotencyKey: "ghost",
		AccountID:      model.GenerateUUID(),
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
	assert.Equal(t, "10000.0000", env.balance(t, env.treasury.ID))
}

func TestTopUp_AssetTypeMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	diamonds, err := env.wallet.CreateAssetType(ctx, "Diamonds", "DM", "")
	require.NoError(t, err)
	require.NoError(t, env.store.CreateAccount(ctx, &model.Account{
		ID: model.GenerateUUID(), ExternalID: "SYSTEM_TREASURY_DM", AccountType: model.AccountTypeSystem,
		Name: "Treasury (DM)", AssetTypeID: diamonds.ID,
	}))

	_, err = env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "mismatch",
		AccountID:      env.alice.ID,
		AssetTypeID:    diamonds.ID,
		Amount:         model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))
	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
}

func TestTopUp_SystemAccountNotProvisioned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	points, err := env.wallet.CreateAssetType(ctx, "Loyalty Points", "LP", "")
	require.NoError(t, err)
	bob, err := env.wallet.CreateAccount(ctx, model.CreateAccountRequest{Name: "Bob", AssetTypeID: points.ID})
	require.NoError(t, err)

	_, err = env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "no-treasury",
		AccountID:      bob.ID,
		AssetTypeID:    points.ID,
		Amount:         model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}

func TestTopUp_SystemAccountAsUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.TopUp(context.Background(), model.TopUpRequest{
		IdempotencyKey: "self",
		AccountID:      env.treasury.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))
	assert.Equal(t, int64(0), env.version(t, env.treasury.ID))
}

func TestTopUp_UppercaseIDsAreCanonicalized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	txn, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "upper-1",
		AccountID:      strings.ToUpper(env.alice.ID),
		AssetTypeID:    strings.ToUpper(env.asset.ID),
		Amount:         model.MustParseMoney("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, env.alice.ID, txn.DestinationAccountID)
	assert.Equal(t, env.asset.ID, txn.AssetTypeID)
	assert.Equal(t, "1005.0000", env.balance(t, env.alice.ID))

	replayed, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "upper-1",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, txn.ID, replayed.ID)
	assert.Equal(t, "1005.0000", env.balance(t, env.alice.ID))
}

func TestTopUp_UppercaseSystemAccountAsUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.wallet.TopUp(context.Background(), model.TopUpRequest{
		IdempotencyKey: "self-upper",
		AccountID:      strings.ToUpper(env.treasury.ID),
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)
	assert.Equal(t, int64(0), env.version(t, env.treasury.ID))
}

func TestOperations_RejectMalformedIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.wallet.Spend(ctx, model.SpendRequest{
		IdempotencyKey: "bad-account", AccountID: "alice", AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)

	_, err = env.wallet.Bonus(ctx, model.BonusRequest{
		IdempotencyKey: "bad-asset", AccountID: env.alice.ID, AssetTypeID: "GC", Amount: model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)

	_, err = env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "too-large", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MaxMoney + 1,
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)
	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
}

func TestTopUp_ConcurrentMixedCaseIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 40
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accountID := env.alice.ID
			if i%2 == 0 {
				accountID = strings.ToUpper(accountID)
			}
			_, err := env.wallet.TopUp(ctx, model.TopUpRequest{
				IdempotencyKey: fmt.Sprintf("mixed-%d", i),
				AccountID:      accountID,
				AssetTypeID:    env.asset.ID,
				Amount:         model.MustParseMoney("1"),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, "1040.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, "9960.0000", env.balance(t, env.treasury.ID))
}

func TestTopUp_InactiveAssetType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	done, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "before-freeze", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
	})
	require.NoError(t, err)

	_, err = env.wallet.SetAssetTypeActive(ctx, env.asset.ID, false)
	require.NoError(t, err)

	_, err = env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "after-freeze", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
	})
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput))

	replayed, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "before-freeze", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, done.ID, replayed.ID)
}

func TestTopUp_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "cancelled", AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
}

func TestTopUp_ConcurrentDistinctKeys(t *testing.T) {
	env := newTestEnv(t)
	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.wallet.TopUp(context.Background(), model.TopUpRequest{
				IdempotencyKey: fmt.Sprintf("concurrent-%d", i),
				AccountID:      env.alice.ID,
				AssetTypeID:    env.asset.ID,
				Amount:         model.MustParseMoney("1"),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, "1050.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, "9950.0000", env.balance(t, env.treasury.ID))
	assert.Equal(t, int64(workers), env.version(t, env.alice.ID))

	_, total, err := env.store.GetLedgerEntriesByAccount(context.Background(), env.alice.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), total)
}

func TestTopUp_ConcurrentSameKey(t *testing.T) {
	env := newTestEnv(t)
	const workers = 20

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := env.wallet.TopUp(context.Background(), model.TopUpRequest{
				IdempotencyKey: "same-key",
				AccountID:      env.alice.ID,
				AssetTypeID:    env.asset.ID,
				Amount:         model.MustParseMoney("5"),
			})
			if err != nil {
				assert.True(t, apierror.Is(err, apierror.ErrConflict), "unexpected error %v", err)
				return
			}
			mu.Lock()
			ids[txn.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	assert.Equal(t, "1005.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, int64(1), env.version(t, env.alice.ID))
}

func TestSpend_ConcurrentNeverOverdraws(t *testing.T) {
	env := newTestEnv(t)
	const workers = 30

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.wallet.Spend(context.Background(), model.SpendRequest{
				IdempotencyKey: fmt.Sprintf("spend-%d", i),
				AccountID:      env.alice.ID,
				AssetTypeID:    env.asset.ID,
				Amount:         model.MustParseMoney("50"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apierror.Is(err, apierror.ErrInsufficientBalance):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, succeeded)
	assert.Equal(t, 10, insufficient)
	assert.Equal(t, "0.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, "1000.0000", env.balance(t, env.revenue.ID))
}

func TestMixedOperations_LedgerBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_, _ = env.wallet.TopUp(ctx, model.TopUpRequest{IdempotencyKey: fmt.Sprintf("t-%d", i), AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("3.3333")})
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = env.wallet.Bonus(ctx, model.BonusRequest{IdempotencyKey: fmt.Sprintf("b-%d", i), AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("0.0001")})
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = env.wallet.Spend(ctx, model.SpendRequest{IdempotencyKey: fmt.Sprintf("s-%d", i), AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("7.25")})
		}(i)
	}
	wg.Wait()

	// Every account's balance equals its opening balance plus its signed entries,
	// and the system as a whole neither creates nor destroys value.
	opening := map[string]model.Money{
		env.treasury.ID: model.MustParseMoney("10000"),
		env.revenue.ID:  0,
		env.alice.ID:    model.MustParseMoney("1000"),
	}
	var total model.Money
	for id, open := range opening {
		entries, _, err := env.store.GetLedgerEntriesByAccount(ctx, id, 1000, 0)
		require.NoError(t, err)

		running := open
		for _, e := range entries {
			if e.EntryType == model.EntryDebit {
				running -= e.Amount
			} else {
				running += e.Amount
			}
		}
		assert.Equal(t, env.balance(t, id), running.String(), "account %s", id)
		total += running
	}
	assert.Equal(t, "11000.0000", total.String())
}

// staleTx hands out lock snapshots one version behind the stored row, as if another writer
// had slipped in between the read and the write.
type staleTx struct {
	database.Tx
}

func (s staleTx) LockAccount(ctx context.Context, id string) (*model.Account, error) {
	acc, err := s.Tx.LockAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	acc.Version--
	return acc, nil
}

type staleSource struct {
	database.IDataSource
}

func (s staleSource) RunInTx(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	return s.IDataSource.RunInTx(ctx, func(ctx context.Context, tx database.Tx) error {
		return fn(ctx, staleTx{Tx: tx})
	})
}

func TestTopUp_VersionConflictAbortsUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	w, err := NewWallet(staleSource{IDataSource: env.store})
	require.NoError(t, err)

	_, err = w.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "stale",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("10"),
	})
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.ErrConflict))

	assert.Equal(t, "1000.0000", env.balance(t, env.alice.ID))
	assert.Equal(t, "10000.0000", env.balance(t, env.treasury.ID))
	_, err = env.store.GetTransactionByIdempotencyKey(ctx, "stale")
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))

	// The same key succeeds once the conflict is gone.
	txn, err := env.wallet.TopUp(ctx, model.TopUpRequest{
		IdempotencyKey: "stale",
		AccountID:      env.alice.ID,
		AssetTypeID:    env.asset.ID,
		Amount:         model.MustParseMoney("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, txn.Status)
}

func TestListTransactions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		env.clock.Advance(1)
		_, err := env.wallet.TopUp(ctx, model.TopUpRequest{
			IdempotencyKey: gofakeit.UUID(), AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("1"),
		})
		require.NoError(t, err)
	}
	last, err := env.wallet.Spend(ctx, model.SpendRequest{
		IdempotencyKey: gofakeit.UUID(), AccountID: env.alice.ID, AssetTypeID: env.asset.ID, Amount: model.MustParseMoney("2"),
	})
	require.NoError(t, err)

	txns, pagination, err := env.wallet.ListTransactions(ctx, model.TransactionFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, last.ID, txns[0].ID)
	assert.Equal(t, model.Pagination{Page: 1, Limit: 2, Total: 4, TotalPages: 2}, pagination)

	_, _, err = env.wallet.ListTransactions(ctx, model.TransactionFilter{Type: "FOO"}, 1, 20)
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)
	_, _, err = env.wallet.ListTransactions(ctx, model.TransactionFilter{Status: "DONE"}, 1, 20)
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)
	_, _, err = env.wallet.ListTransactions(ctx, model.TransactionFilter{AccountID: "x"}, 1, 20)
	assert.True(t, apierror.Is(err, apierror.ErrInvalidInput), "got %v", err)

	byAccount, _, err := env.wallet.ListTransactions(ctx, model.TransactionFilter{AccountID: strings.ToUpper(env.alice.ID)}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, byAccount, 4)

	spends, pagination, err := env.wallet.ListTransactions(ctx, model.TransactionFilter{Type: model.TransactionTypeSpend}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, spends, 1)
	assert.Equal(t, model.DefaultPageLimit, pagination.Limit)

	entries, err := env.wallet.GetTransactionLedgerEntries(ctx, last.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, env.revenue.ID, entries[1].AccountID)

	_, err = env.wallet.GetTransactionLedgerEntries(ctx, "missing")
	assert.True(t, apierror.Is(err, apierror.ErrNotFound))
}
