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
	"sort"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/model"
)

// resolveSystemAccount finds the treasury or revenue account of an asset type.
// It is looked up inside every unit; system accounts are never cached.
func resolveSystemAccount(ctx context.Context, tx database.Tx, assetTypeID string, role model.SystemRole) (*model.Account, error) {
	ctx, span := tracer.Start(ctx, "ResolveSystemAccount")
	defer span.End()

	return tx.GetSystemAccount(ctx, assetTypeID, role)
}

// lockOrder returns ids deduplicated and ascending. Every unit locks in this order,
// so two units sharing accounts can never wait on each other in a cycle.
func lockOrder(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	ordered := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)
	return ordered
}

// lockAccounts row-locks every account in lockOrder and returns the locked snapshots by id.
func lockAccounts(ctx context.Context, tx database.Tx, ids ...string) (map[string]*model.Account, error) {
	ctx, span := tracer.Start(ctx, "LockAccounts")
	defer span.End()

	locked := make(map[string]*model.Account, len(ids))
	for _, id := range lockOrder(ids) {
		acc, err := tx.LockAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = acc
	}
	return locked, nil
}
