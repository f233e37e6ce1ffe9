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

package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blnkfinance/wallet"
	"github.com/blnkfinance/wallet/config"
	"github.com/blnkfinance/wallet/database"
	"github.com/blnkfinance/wallet/database/memory"
	"github.com/blnkfinance/wallet/internal/cache"
	redis_db "github.com/blnkfinance/wallet/internal/redis-db"
)

const memoryDNS = "memory://"

// Wallet represents the CLI application, encapsulating the root Cobra command.
type Wallet struct {
	cmd *cobra.Command
}

// walletInstance holds what every command needs once configuration is loaded.
type walletInstance struct {
	wallet  *wallet.Wallet
	cnf     *config.Configuration
	closers []func() error
}

func (w *walletInstance) close() {
	for _, c := range w.closers {
		if err := c(); err != nil {
			logrus.WithError(err).Warn("error closing resource")
		}
	}
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the wallet before any command runs.
func preRun(app *walletInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		if err := setupWallet(app, cnf); err != nil {
			log.Fatal(err)
		}
		app.cnf = cnf
		return nil
	}
}

// setupWallet connects the datasource named by the configuration. "memory://" selects the
// in-process store. A configured Redis enables the idempotency guard and the asset type cache.
func setupWallet(app *walletInstance, cfg *config.Configuration) error {
	var (
		db  database.IDataSource
		err error
	)
	if strings.HasPrefix(cfg.DataSource.Dns, memoryDNS) {
		logrus.Warn("using the in-memory datasource, nothing will be persisted")
		db = memory.New()
	} else {
		db, err = database.NewDataSource(cfg)
		if err != nil {
			return fmt.Errorf("error getting datasource: %v", err)
		}
	}

	opts := []wallet.Option{
		wallet.WithIdempotencyGuardTTL(time.Duration(cfg.Transaction.IdempotencyGuardTTLSec) * time.Second),
		wallet.WithAssetTypeCacheTTL(time.Duration(cfg.Transaction.AssetTypeCacheTTLSec) * time.Second),
	}
	if cfg.Redis.Dns != "" {
		rdb, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns}, cfg.Redis.SkipTLSVerify)
		if err != nil {
			return fmt.Errorf("error connecting to redis: %v", err)
		}
		app.closers = append(app.closers, rdb.Close)
		opts = append(opts,
			wallet.WithRedis(rdb.Client()),
			wallet.WithCache(cache.NewRedisCache(rdb.Client())),
		)
	}

	opts = append(opts, wallet.WithMetrics(wallet.NewMetrics(prometheus.DefaultRegisterer)))
	w, err := wallet.NewWallet(db, opts...)
	if err != nil {
		return fmt.Errorf("error creating wallet: %v", err)
	}
	app.wallet = w
	return nil
}

// NewCLI creates the command-line interface with its start, migrate, seed and config commands.
func NewCLI() *Wallet {
	var configFile string
	w := &walletInstance{}

	var rootCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Wallet transaction engine",
		Run:   func(cmd *cobra.Command, args []string) {},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			w.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./wallet.json", "Configuration file for the wallet server")
	rootCmd.PersistentPreRunE = preRun(w, &configFile)

	rootCmd.AddCommand(serverCommands(w))
	rootCmd.AddCommand(migrateCommands(w))
	rootCmd.AddCommand(seedCommands(w))
	rootCmd.AddCommand(configCommands(w))

	return &Wallet{cmd: rootCmd}
}

func (w Wallet) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
