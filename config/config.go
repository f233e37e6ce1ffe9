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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5001"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	Port      string `json:"port" envconfig:"WALLET_SERVER_PORT"`
	Secure    bool   `json:"secure" envconfig:"WALLET_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"WALLET_SERVER_SECRET_KEY"`
}

type DataSourceConfig struct {
	Dns                string `json:"dns" envconfig:"WALLET_DATA_SOURCE_DNS"`
	MaxOpenConns       int    `json:"max_open_conns" envconfig:"WALLET_DATA_SOURCE_MAX_OPEN_CONNS"`
	MaxIdleConns       int    `json:"max_idle_conns" envconfig:"WALLET_DATA_SOURCE_MAX_IDLE_CONNS"`
	ConnMaxLifetimeSec int    `json:"conn_max_lifetime_sec" envconfig:"WALLET_DATA_SOURCE_CONN_MAX_LIFETIME_SEC"`
	ConnectTimeoutSec  int    `json:"connect_timeout_sec" envconfig:"WALLET_DATA_SOURCE_CONNECT_TIMEOUT_SEC"`
}

// RedisConfig is optional. Without it the idempotency guard and the asset type cache are off.
type RedisConfig struct {
	Dns           string `json:"dns" envconfig:"WALLET_REDIS_DNS"`
	SkipTLSVerify bool   `json:"skip_tls_verify" envconfig:"WALLET_REDIS_SKIP_TLS_VERIFY"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"WALLET_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"WALLET_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"WALLET_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type TransactionConfig struct {
	IdempotencyGuardTTLSec int `json:"idempotency_guard_ttl_sec" envconfig:"WALLET_TRANSACTION_IDEMPOTENCY_GUARD_TTL_SEC"`
	AssetTypeCacheTTLSec   int `json:"asset_type_cache_ttl_sec" envconfig:"WALLET_TRANSACTION_ASSET_TYPE_CACHE_TTL_SEC"`
}

type Configuration struct {
	ProjectName     string            `json:"project_name" envconfig:"WALLET_PROJECT_NAME"`
	EnableTelemetry bool              `json:"enable_telemetry" envconfig:"WALLET_ENABLE_TELEMETRY"`
	Server          ServerConfig      `json:"server"`
	DataSource      DataSourceConfig  `json:"data_source"`
	Redis           RedisConfig       `json:"redis"`
	RateLimit       RateLimitConfig   `json:"rate_limit"`
	Transaction     TransactionConfig `json:"transaction"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// environment variables win over the file
	err = envconfig.Process("wallet", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok || c == nil {
		return nil, errors.New("config not loaded. Create a json file called wallet.json or set WALLET_* env variables")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.ProjectName == "" {
		cnf.ProjectName = "Wallet Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Warning: Redis DNS is empty. Idempotency guard and asset type cache are disabled.")
	}

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.DataSource.MaxOpenConns <= 0 {
		cnf.DataSource.MaxOpenConns = 25
	}
	if cnf.DataSource.MaxIdleConns <= 0 {
		cnf.DataSource.MaxIdleConns = 10
	}
	if cnf.DataSource.ConnMaxLifetimeSec <= 0 {
		cnf.DataSource.ConnMaxLifetimeSec = 1800
	}
	if cnf.DataSource.ConnectTimeoutSec <= 0 {
		cnf.DataSource.ConnectTimeoutSec = 30
	}

	if cnf.Transaction.IdempotencyGuardTTLSec <= 0 {
		cnf.Transaction.IdempotencyGuardTTLSec = 30
	}
	if cnf.Transaction.AssetTypeCacheTTLSec <= 0 {
		cnf.Transaction.AssetTypeCacheTTLSec = 300
	}

	// Rate limiting stays off unless RPS or burst is set.
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(logger.Writer())
}
