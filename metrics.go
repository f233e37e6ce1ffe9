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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/blnkfinance/wallet/internal/apierror"
	"github.com/blnkfinance/wallet/model"
)

const (
	outcomeCompleted           = "completed"
	outcomeReplayed            = "replayed"
	outcomeInsufficientBalance = "insufficient_balance"
	outcomeConflict            = "conflict"
	outcomeNotFound            = "not_found"
	outcomeInvalid             = "invalid"
	outcomeError               = "error"
)

// Metrics counts orchestrated operations by type and outcome.
type Metrics struct {
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet",
				Name:      "transactions_total",
				Help:      "Orchestrated wallet operations by type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wallet",
				Name:      "transaction_duration_seconds",
				Help:      "Wall time of orchestrated wallet operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.transactions, m.duration)
	}
	return m
}

func (m *Metrics) observe(txnType model.TransactionType, outcome string, started time.Time) {
	m.transactions.WithLabelValues(string(txnType), outcome).Inc()
	m.duration.WithLabelValues(string(txnType)).Observe(time.Since(started).Seconds())
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeCompleted
	}
	apiErr, ok := apierror.As(err)
	if !ok {
		return outcomeError
	}
	switch apiErr.Code {
	case apierror.ErrInsufficientBalance:
		return outcomeInsufficientBalance
	case apierror.ErrConflict:
		return outcomeConflict
	case apierror.ErrNotFound:
		return outcomeNotFound
	case apierror.ErrInvalidInput, apierror.ErrBadRequest:
		return outcomeInvalid
	default:
		return outcomeError
	}
}
