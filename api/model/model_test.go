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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blnkfinance/wallet/model"
)

const (
	accountID   = "0b9f3a52-4a8a-4c1d-9c57-2f3d8c3c7a10"
	assetTypeID = "7d1c1c8e-53a4-4d0c-8f0e-0d7b1b2f9a21"
)

func TestValidateTopUp(t *testing.T) {
	tests := []struct {
		name    string
		topUp   TopUp
		wantErr bool
	}{
		{
			name:  "Valid",
			topUp: TopUp{AccountID: accountID, AssetTypeID: assetTypeID, Amount: model.MustParseMoney("50")},
		},
		{
			name:    "Zero amount",
			topUp:   TopUp{AccountID: accountID, AssetTypeID: assetTypeID},
			wantErr: true,
		},
		{
			name:    "Negative amount",
			topUp:   TopUp{AccountID: accountID, AssetTypeID: assetTypeID, Amount: model.MustParseMoney("-5")},
			wantErr: true,
		},
		{
			name:    "Account is not a UUID",
			topUp:   TopUp{AccountID: "alice", AssetTypeID: assetTypeID, Amount: 1},
			wantErr: true,
		},
		{
			name:    "Missing asset type",
			topUp:   TopUp{AccountID: accountID, Amount: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.topUp.ValidateTopUp()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSpendAndBonus(t *testing.T) {
	spend := Spend{AccountID: accountID, AssetTypeID: assetTypeID, Amount: model.MustParseMoney("0.0001")}
	assert.NoError(t, spend.ValidateSpend())

	bonus := Bonus{AccountID: accountID, AssetTypeID: assetTypeID}
	err := bonus.ValidateBonus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestTopUp_DecodesAmount(t *testing.T) {
	var topUp TopUp
	require.NoError(t, json.Unmarshal([]byte(`{"account_id":"a","asset_type_id":"b","amount":"50.25"}`), &topUp))
	assert.Equal(t, "50.2500", topUp.Amount.String())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":12}`), &topUp))
	assert.Equal(t, "12.0000", topUp.Amount.String())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1.00001"}`), &topUp))
}

func TestToRequests(t *testing.T) {
	topUp := TopUp{AccountID: accountID, AssetTypeID: assetTypeID, Amount: 10, ReferenceID: "order-1"}
	req := topUp.ToTopUpRequest("key-1")
	assert.Equal(t, "key-1", req.IdempotencyKey)
	assert.Equal(t, "order-1", req.ReferenceID)

	spend := Spend{AccountID: accountID, Amount: 20}
	assert.Equal(t, model.Money(20), spend.ToSpendRequest("key-2").Amount)

	bonus := Bonus{AccountID: accountID, Description: "welcome"}
	assert.Equal(t, "welcome", bonus.ToBonusRequest("key-3").Description)
}

func TestValidateCreateAccount(t *testing.T) {
	valid := CreateAccount{Name: "Alice", Email: "alice@example.com", AssetTypeID: assetTypeID}
	assert.NoError(t, valid.ValidateCreateAccount())

	badEmail := CreateAccount{Name: "Alice", Email: "not-an-email", AssetTypeID: assetTypeID}
	assert.Error(t, badEmail.ValidateCreateAccount())

	noName := CreateAccount{AssetTypeID: assetTypeID}
	assert.Error(t, noName.ValidateCreateAccount())
}

func TestValidateUpdateAssetType(t *testing.T) {
	var missing UpdateAssetType
	assert.Error(t, missing.ValidateUpdateAssetType())

	off := false
	assert.NoError(t, (&UpdateAssetType{IsActive: &off}).ValidateUpdateAssetType())
}
