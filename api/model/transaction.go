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

package model

import (
	"github.com/blnkfinance/wallet/model"
)

type TopUp struct {
	AccountID   string                 `json:"account_id"`
	AssetTypeID string                 `json:"asset_type_id"`
	Amount      model.Money            `json:"amount"`
	Description string                 `json:"description"`
	ReferenceID string                 `json:"reference_id"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

type Bonus struct {
	AccountID   string                 `json:"account_id"`
	AssetTypeID string                 `json:"asset_type_id"`
	Amount      model.Money            `json:"amount"`
	Description string                 `json:"description"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

type Spend struct {
	AccountID   string                 `json:"account_id"`
	AssetTypeID string                 `json:"asset_type_id"`
	Amount      model.Money            `json:"amount"`
	Description string                 `json:"description"`
	ReferenceID string                 `json:"reference_id"`
	MetaData    map[string]interface{} `json:"meta_data"`
}

func (t *TopUp) ToTopUpRequest(idempotencyKey string) model.TopUpRequest {
	return model.TopUpRequest{
		IdempotencyKey: idempotencyKey,
		AccountID:      t.AccountID,
		AssetTypeID:    t.AssetTypeID,
		Amount:         t.Amount,
		Description:    t.Description,
		ReferenceID:    t.ReferenceID,
		MetaData:       t.MetaData,
	}
}

func (b *Bonus) ToBonusRequest(idempotencyKey string) model.BonusRequest {
	return model.BonusRequest{
		IdempotencyKey: idempotencyKey,
		AccountID:      b.AccountID,
		AssetTypeID:    b.AssetTypeID,
		Amount:         b.Amount,
		Description:    b.Description,
		MetaData:       b.MetaData,
	}
}

func (s *Spend) ToSpendRequest(idempotencyKey string) model.SpendRequest {
	return model.SpendRequest{
		IdempotencyKey: idempotencyKey,
		AccountID:      s.AccountID,
		AssetTypeID:    s.AssetTypeID,
		Amount:         s.Amount,
		Description:    s.Description,
		ReferenceID:    s.ReferenceID,
		MetaData:       s.MetaData,
	}
}

// Paginated is the envelope of every list endpoint.
type Paginated struct {
	Data       interface{}      `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}
