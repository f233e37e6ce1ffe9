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
	"time"

	"github.com/blnkfinance/wallet/model"
)

const assetTypeColumns = `id, name, symbol, description, is_active, created_at, updated_at`

func scanAssetType(row interface{ Scan(...interface{}) error }) (*model.AssetType, error) {
	var (
		at          model.AssetType
		description sql.NullString
	)
	if err := row.Scan(&at.ID, &at.Name, &at.Symbol, &description, &at.IsActive, &at.CreatedAt, &at.UpdatedAt); err != nil {
		return nil, err
	}
	at.Description = description.String
	return &at, nil
}

func (d Datasource) CreateAssetType(ctx context.Context, assetType *model.AssetType) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO asset_types (`+assetTypeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		assetType.ID, assetType.Name, assetType.Symbol, nullString(assetType.Description), assetType.IsActive, assetType.CreatedAt, assetType.UpdatedAt)
	if err != nil {
		return classifyError(err, fmt.Sprintf("Asset type '%s' already exists", assetType.Symbol))
	}
	return nil
}

func (d Datasource) GetAssetTypeByID(ctx context.Context, id string) (*model.AssetType, error) {
	at, err := scanAssetType(d.Conn.QueryRowContext(ctx, `SELECT `+assetTypeColumns+` FROM asset_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Asset type '%s' not found", id)
		}
		return nil, classifyError(err, "Failed to retrieve asset type")
	}
	return at, nil
}

func (d Datasource) GetAssetTypeBySymbol(ctx context.Context, symbol string) (*model.AssetType, error) {
	at, err := scanAssetType(d.Conn.QueryRowContext(ctx, `SELECT `+assetTypeColumns+` FROM asset_types WHERE symbol = $1`, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Asset type with symbol '%s' not found", symbol)
		}
		return nil, classifyError(err, "Failed to retrieve asset type")
	}
	return at, nil
}

func (d Datasource) GetAllAssetTypes(ctx context.Context) ([]model.AssetType, error) {
	rows, err := d.Conn.QueryContext(ctx, `SELECT `+assetTypeColumns+` FROM asset_types ORDER BY name`)
	if err != nil {
		return nil, classifyError(err, "Failed to retrieve asset types")
	}
	defer rows.Close()

	assetTypes := []model.AssetType{}
	for rows.Next() {
		at, err := scanAssetType(rows)
		if err != nil {
			return nil, classifyError(err, "Failed to scan asset type")
		}
		assetTypes = append(assetTypes, *at)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError(err, "Failed to retrieve asset types")
	}
	return assetTypes, nil
}

func (d Datasource) UpdateAssetTypeStatus(ctx context.Context, id string, active bool, at time.Time) (*model.AssetType, error) {
	assetType, err := scanAssetType(d.Conn.QueryRowContext(ctx, `
		UPDATE asset_types SET is_active = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+assetTypeColumns, id, active, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("Asset type '%s' not found", id)
		}
		return nil, classifyError(err, "Failed to update asset type")
	}
	return assetType, nil
}
