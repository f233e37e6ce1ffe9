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
	"time"
)

type TransactionType string

const (
	TransactionTypeTopUp TransactionType = "TOP_UP"
	TransactionTypeBonus TransactionType = "BONUS"
	TransactionTypeSpend TransactionType = "SPEND"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeTopUp, TransactionTypeBonus, TransactionTypeSpend:
		return true
	}
	return false
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Transaction struct {
	ID                   string                 `json:"id"`
	IdempotencyKey       string                 `json:"idempotency_key"`
	Type                 TransactionType        `json:"type"`
	Status               TransactionStatus      `json:"status"`
	SourceAccountID      string                 `json:"source_account_id"`
	DestinationAccountID string                 `json:"destination_account_id"`
	AssetTypeID          string                 `json:"asset_type_id"`
	Amount               Money                  `json:"amount"`
	Description          string                 `json:"description,omitempty"`
	ReferenceID          string                 `json:"reference_id,omitempty"`
	MetaData             map[string]interface{} `json:"meta_data,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
	LedgerEntries        []LedgerEntry          `json:"ledger_entries,omitempty"`
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}

// TransactionFilter narrows a transaction listing. Empty fields do not filter.
// AccountID matches either side of the movement.
type TransactionFilter struct {
	AccountID string
	Type      TransactionType
	Status    TransactionStatus
}

// TopUpRequest credits a user account from its asset type's treasury.
type TopUpRequest struct {
	IdempotencyKey string
	AccountID      string
	AssetTypeID    string
	Amount         Money
	Description    string
	ReferenceID    string
	MetaData       map[string]interface{}
}

// BonusRequest grants a promotional credit from the treasury.
type BonusRequest struct {
	IdempotencyKey string
	AccountID      string
	AssetTypeID    string
	Amount         Money
	Description    string
	MetaData       map[string]interface{}
}

// SpendRequest debits a user account into its asset type's revenue account.
type SpendRequest struct {
	IdempotencyKey string
	AccountID      string
	AssetTypeID    string
	Amount         Money
	Description    string
	ReferenceID    string
	MetaData       map[string]interface{}
}
