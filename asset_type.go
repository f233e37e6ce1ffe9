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
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/internal/cache"
	"github.com/blnkfinance/wallet/model"
)

func assetTypeCacheKey(id string) string {
	return "asset_type:" + id
}

// CreateAssetType registers a new asset type. Symbols are stored upper case.
func (w *Wallet) CreateAssetType(ctx context.Context, name, symbol, description string) (*model.AssetType, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if name == "" || symbol == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "Name and symbol are required", nil)
	}

	now := w.clock.Now()
	assetType := &model.AssetType{
		ID:          model.GenerateUUID(),
		Name:        name,
		Symbol:      symbol,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := w.datasource.CreateAssetType(ctx, assetType); err != nil {
		return nil, err
	}
	return assetType, nil
}

func (w *Wallet) ListAssetTypes(ctx context.Context) ([]model.AssetType, error) {
	return w.datasource.GetAllAssetTypes(ctx)
}

// GetAssetType reads through the cache when one is configured. Cache failures fall back
// to the datasource.
func (w *Wallet) GetAssetType(ctx context.Context, id string) (*model.AssetType, error) {
	id, err := lookupID(id, "Asset type")
	if err != nil {
		return nil, err
	}
	if w.cache != nil {
		var cached model.AssetType
		err := w.cache.Get(ctx, assetTypeCacheKey(id), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logrus.WithError(err).WithField("asset_type_id", id).Warn("asset type cache read failed")
		}
	}

	assetType, err := w.datasource.GetAssetTypeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if w.cache != nil {
		if err := w.cache.Set(ctx, assetTypeCacheKey(id), assetType, w.assetTypeTTL); err != nil {
			logrus.WithError(err).WithField("asset_type_id", id).Warn("asset type cache write failed")
		}
	}
	return assetType, nil
}

// SetAssetTypeActive toggles whether new operations may use the asset type.
func (w *Wallet) SetAssetTypeActive(ctx context.Context, id string, active bool) (*model.AssetType, error) {
	id, err := lookupID(id, "Asset type")
	if err != nil {
		return nil, err
	}
	assetType, err := w.datasource.UpdateAssetTypeStatus(ctx, id, active, w.clock.Now())
	if err != nil {
		return nil, err
	}
	if w.cache != nil {
		if err := w.cache.Delete(ctx, assetTypeCacheKey(id)); err != nil {
			logrus.WithError(err).WithField("asset_type_id", id).Warn("asset type cache invalidation failed")
		}
	}
	return assetType, nil
}

func (w *Wallet) requireActiveAssetType(ctx context.Context, id string) error {
	assetType, err := w.GetAssetType(ctx, id)
	if err != nil {
		return err
	}
	if !assetType.IsActive {
		return apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("Asset type '%s' is not active", assetType.Symbol), nil)
	}
	return nil
}
