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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blnkfinance/wallet/api/middleware"
	model2 "github.com/blnkfinance/wallet/api/model"
	"github.com/blnkfinance/wallet/model"
)

// TopUp credits an account from its treasury.
//
// Responses:
// - 400 Bad Request: missing Idempotency-Key, malformed body or failed validation.
// - 404 Not Found: unknown account or unprovisioned treasury.
// - 409 Conflict: the same key is being processed concurrently.
// - 201 Created: the completed transaction, or the one already recorded under the key.
func (a Api) TopUp(c *gin.Context) {
	var req model2.TopUp
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateTopUp(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.wallet.TopUp(c.Request.Context(), req.ToTopUpRequest(middleware.IdempotencyKey(c)))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Bonus grants a promotional credit. Responses match TopUp.
func (a Api) Bonus(c *gin.Context) {
	var req model2.Bonus
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateBonus(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.wallet.Bonus(c.Request.Context(), req.ToBonusRequest(middleware.IdempotencyKey(c)))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Spend debits an account into revenue. A short balance is a 422.
func (a Api) Spend(c *gin.Context) {
	var req model2.Spend
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateSpend(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.wallet.Spend(c.Request.Context(), req.ToSpendRequest(middleware.IdempotencyKey(c)))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetTransaction(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.wallet.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTransactions pages through transactions, newest first. It filters on the
// account_id, type and status query parameters.
func (a Api) ListTransactions(c *gin.Context) {
	page, limit := pageParams(c)
	filter := model.TransactionFilter{
		AccountID: c.Query("account_id"),
		Type:      model.TransactionType(c.Query("type")),
		Status:    model.TransactionStatus(c.Query("status")),
	}

	txns, pagination, err := a.wallet.ListTransactions(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model2.Paginated{Data: txns, Pagination: pagination})
}
