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
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/blnkfinance/wallet/model"
)

func positiveAmount(value interface{}) error {
	amount, ok := value.(model.Money)
	if !ok {
		return errors.New("invalid amount")
	}
	if !amount.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

// movementRules are the field rules shared by top-ups, bonuses and spends.
func movementRules(accountID, assetTypeID *string, amount *model.Money, description *string) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(accountID, validation.Required, is.UUID),
		validation.Field(assetTypeID, validation.Required, is.UUID),
		validation.Field(amount, validation.By(positiveAmount)),
		validation.Field(description, validation.Length(0, 500)),
	}
}

func (t *TopUp) ValidateTopUp() error {
	rules := movementRules(&t.AccountID, &t.AssetTypeID, &t.Amount, &t.Description)
	rules = append(rules, validation.Field(&t.ReferenceID, validation.Length(0, 255)))
	return validation.ValidateStruct(t, rules...)
}

func (b *Bonus) ValidateBonus() error {
	return validation.ValidateStruct(b, movementRules(&b.AccountID, &b.AssetTypeID, &b.Amount, &b.Description)...)
}

func (s *Spend) ValidateSpend() error {
	rules := movementRules(&s.AccountID, &s.AssetTypeID, &s.Amount, &s.Description)
	rules = append(rules, validation.Field(&s.ReferenceID, validation.Length(0, 255)))
	return validation.ValidateStruct(s, rules...)
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&a.Email, is.EmailFormat),
		validation.Field(&a.ExternalID, validation.Length(0, 255)),
		validation.Field(&a.AssetTypeID, validation.Required, is.UUID),
	)
}

func (u *UpdateAssetType) ValidateUpdateAssetType() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.IsActive, validation.NotNil),
	)
}
