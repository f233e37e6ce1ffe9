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

import "time"

type AccountType string

const (
	AccountTypeUser   AccountType = "USER"
	AccountTypeSystem AccountType = "SYSTEM"
)

// SystemRole names the counter-party a system account plays for its asset type.
type SystemRole string

const (
	RoleTreasury SystemRole = "TREASURY"
	RoleRevenue  SystemRole = "REVENUE"
)

type Account struct {
	ID          string      `json:"id"`
	ExternalID  string      `json:"external_id,omitempty"`
	AccountType AccountType `json:"account_type"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	AssetTypeID string      `json:"asset_type_id"`
	Balance     Money       `json:"balance"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AccountBalance is the read model returned for balance lookups.
type AccountBalance struct {
	AccountID   string `json:"account_id"`
	AssetTypeID string `json:"asset_type_id"`
	Balance     Money  `json:"balance"`
}

// CreateAccountRequest opens a USER account. New accounts always start at a zero balance.
type CreateAccountRequest struct {
	ExternalID  string
	Name        string
	Email       string
	AssetTypeID string
}
