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
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/internal/cache"
	"github.com/blnkfinance/wallet/internal/clock"
	"github.com/blnkfinance/wallet/model"
)

//go:embed sql/*.sql
var SQLFiles embed.FS

const (
	defaultGuardTTL     = 30 * time.Second
	defaultAssetTypeTTL = 5 * time.Minute
)

// Wallet moves value between accounts. Every movement is atomic, double-entry balanced
// and applied at most once per idempotency key.
type Wallet struct {
	datasource   database.IDataSource
	redis        redis.UniversalClient
	cache        cache.Cache
	clock        clock.Clock
	metrics      *Metrics
	guardTTL     time.Duration
	assetTypeTTL time.Duration
}

type Option func(*Wallet)

// WithRedis enables the in-flight idempotency guard.
func WithRedis(client redis.UniversalClient) Option {
	return func(w *Wallet) { w.redis = client }
}

// WithCache enables read-through caching of asset types.
func WithCache(c cache.Cache) Option {
	return func(w *Wallet) { w.cache = c }
}

func WithClock(c clock.Clock) Option {
	return func(w *Wallet) { w.clock = c }
}

func WithMetrics(m *Metrics) Option {
	return func(w *Wallet) { w.metrics = m }
}

func WithIdempotencyGuardTTL(ttl time.Duration) Option {
	return func(w *Wallet) {
		if ttl > 0 {
			w.guardTTL = ttl
		}
	}
}

func WithAssetTypeCacheTTL(ttl time.Duration) Option {
	return func(w *Wallet) {
		if ttl > 0 {
			w.assetTypeTTL = ttl
		}
	}
}

func NewWallet(db database.IDataSource, opts ...Option) (*Wallet, error) {
	if db == nil {
		return nil, errors.New("wallet requires a datasource")
	}
	w := &Wallet{
		datasource:   db,
		clock:        clock.RealClock{},
		guardTTL:     defaultGuardTTL,
		assetTypeTTL: defaultAssetTypeTTL,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.metrics == nil {
		w.metrics = NewMetrics(nil)
	}
	return w, nil
}

// lookupID canonicalizes a caller supplied id for a read. An id that is not a UUID
// cannot name a record, so it is reported as not found.
func lookupID(id, kind string) (string, error) {
	canonical, ok := model.CanonicalID(id)
	if !ok {
		return "", apierror.NewAPIError(apierror.ErrNotFound, fmt.Sprintf("%s '%s' not found", kind, id), nil)
	}
	return canonical, nil
}

// Health reports whether the datasource is reachable.
func (w *Wallet) Health(ctx context.Context) error {
	return w.datasource.Ping(ctx)
}
