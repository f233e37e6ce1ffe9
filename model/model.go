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
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a new random identifier in canonical lowercase form.
// Canonical form keeps string ordering identical to the database's uuid ordering.
func GenerateUUID() string {
	return uuid.New().String()
}

// CanonicalID returns id in the canonical lowercase UUID form. The second result is false
// when id is not a UUID.
func CanonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// SystemExternalID builds the external id a system account is provisioned under,
// e.g. SYSTEM_TREASURY_GC.
func SystemExternalID(role SystemRole, symbol string) string {
	return fmt.Sprintf("SYSTEM_%s_%s", strings.ToUpper(string(role)), symbol)
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination computes the page count for total rows split into pages of limit.
func NewPagination(page, limit int, total int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// NormalizePage clamps page to at least 1 and limit into [1, MaxPageLimit],
// substituting DefaultPageLimit for an unset limit.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
