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

	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

type seedAssetType struct {
	name        string
	symbol      string
	description string
}

type seedUser struct {
	name     string
	email    string
	balances map[string]string
}

var (
	seedAssetTypes = []seedAssetType{
		{name: "Gold Coins", symbol: "GC", description: "Primary in-game currency"},
		{name: "Diamonds", symbol: "DM", description: "Premium currency"},
		{name: "Loyalty Points", symbol: "LP", description: "Reward points"},
	}
	seedUsers = []seedUser{
		{name: "Alice", email: "alice@example.com", balances: map[string]string{"GC": "1000", "DM": "50", "LP": "500"}},
		{name: "Bob", email: "bob@example.com", balances: map[string]string{"GC": "500", "DM": "25", "LP": "200"}},
	}
)

// Seed provisions the default asset types, their treasury and revenue accounts and two demo
// users. User balances are funded with top-ups keyed on the account's external id, so running
// Seed again changes nothing.
func (w *Wallet) Seed(ctx context.Context) error {
	for _, at := range seedAssetTypes {
		assetType, err := w.seedAssetType(ctx, at)
		if err != nil {
			return err
		}

		for _, role := range []model.SystemRole{model.RoleTreasury, model.RoleRevenue} {
			_, err := w.seedAccount(ctx, model.AccountTypeSystem, model.CreateAccountRequest{
				ExternalID:  model.SystemExternalID(role, assetType.Symbol),
				Name:        fmt.Sprintf("%s (%s)", roleName(role), assetType.Symbol),
				AssetTypeID: assetType.ID,
			})
			if err != nil {
				return err
			}
		}

		for _, user := range seedUsers {
			account, err := w.seedAccount(ctx, model.AccountTypeUser, model.CreateAccountRequest{
				ExternalID:  fmt.Sprintf("USER_%s_%s", strings.ToUpper(user.name), assetType.Symbol),
				Name:        fmt.Sprintf("%s (%s)", user.name, assetType.Symbol),
				Email:       user.email,
				AssetTypeID: assetType.ID,
			})
			if err != nil {
				return err
			}

			amount, ok := user.balances[assetType.Symbol]
			if !ok {
				continue
			}
			_, err = w.TopUp(ctx, model.TopUpRequest{
				IdempotencyKey: "seed:" + account.ExternalID,
				AccountID:      account.ID,
				AssetTypeID:    assetType.ID,
				Amount:         model.MustParseMoney(amount),
				Description:    "Initial balance",
			})
			if err != nil {
				return err
			}
		}
	}

	logrus.Info("seeding completed")
	return nil
}

func roleName(role model.SystemRole) string {
	if role == model.RoleRevenue {
		return "Revenue"
	}
	return "Treasury"
}

func (w *Wallet) seedAssetType(ctx context.Context, at seedAssetType) (*model.AssetType, error) {
	existing, err := w.datasource.GetAssetTypeBySymbol(ctx, at.symbol)
	if err == nil {
		logrus.Infof("asset type '%s' already exists, skipping", at.symbol)
		return existing, nil
	}
	if !apierror.Is(err, apierror.ErrNotFound) {
		return nil, err
	}

	created, err := w.CreateAssetType(ctx, at.name, at.symbol, at.description)
	if err != nil {
		return nil, err
	}
	logrus.Infof("created asset type %s (%s)", created.Name, created.Symbol)
	return created, nil
}

func (w *Wallet) seedAccount(ctx context.Context, accountType model.AccountType, req model.CreateAccountRequest) (*model.Account, error) {
	existing, err := w.datasource.GetAccountByExternalID(ctx, req.ExternalID)
	if err == nil {
		logrus.Infof("account '%s' already exists, skipping", req.ExternalID)
		return existing, nil
	}
	if !apierror.Is(err, apierror.ErrNotFound) {
		return nil, err
	}

	created, err := w.insertAccount(ctx, accountType, req)
	if err != nil {
		return nil, err
	}
	logrus.Infof("created %s account %s", strings.ToLower(string(accountType)), created.Name)
	return created, nil
}
