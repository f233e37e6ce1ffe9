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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/blnkfinance/wallet"
	"github.com/blnkfinance/wallet/api/middleware"
	"github.com/blnkfinance/wallet/config"
)

type Api struct {
	wallet *wallet.Wallet
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	transactions := router.Group("/transactions")
	transactions.POST("/top-up", middleware.RequireIdempotencyKey(), a.TopUp)
	transactions.POST("/bonus", middleware.RequireIdempotencyKey(), a.Bonus)
	transactions.POST("/spend", middleware.RequireIdempotencyKey(), a.Spend)
	transactions.GET("", a.ListTransactions)
	transactions.GET("/:id", a.GetTransaction)

	router.POST("/accounts", a.CreateAccount)
	router.GET("/accounts/:id", a.GetAccount)
	router.GET("/accounts/:id/balance", a.GetBalance)
	router.GET("/accounts/:id/ledger", a.GetAccountLedger)

	router.GET("/asset-types", a.ListAssetTypes)
	router.GET("/asset-types/:id", a.GetAssetType)
	router.PATCH("/asset-types/:id", a.UpdateAssetType)

	return a.router
}

// NewAPI wires the wallet behind a gin engine. Metrics are served from gatherer, or from the
// default Prometheus registry when gatherer is nil.
func NewAPI(w *wallet.Wallet, gatherer prometheus.Gatherer) (*Api, error) {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if conf.EnableTelemetry {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}

	// Probes stay reachable without credentials and outside the rate limit.
	r.GET("/health", func(c *gin.Context) {
		if err := w.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	return &Api{wallet: w, router: r}, nil
}
