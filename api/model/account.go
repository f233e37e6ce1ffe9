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

type CreateAccount struct {
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AssetTypeID string `json:"asset_type_id"`
}

func (a *CreateAccount) ToCreateAccountRequest() model.CreateAccountRequest {
	return model.CreateAccountRequest{
		ExternalID:  a.ExternalID,
		Name:        a.Name,
		Email:       a.Email,
		AssetTypeID: a.AssetTypeID,
	}
}
