// File path: cmd/liveforge/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/liveforge-ai/liveforge/internal/api"
	"github.com/liveforge-ai/liveforge/internal/build"
	"github.com/liveforge-ai/liveforge/internal/common"
	"github.com/liveforge-ai/liveforge/internal/config"
	"github.com/liveforge-ai/liveforge/internal/history"
	"github.com/liveforge-ai/liveforge/internal/ledger"
	"github.com/liveforge-ai/liveforge/internal/llm"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("forge: .env file not loaded", "error", err)
	} else {
		logger.Info("forge: environment loaded from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("forge: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "listen address")
	historyPath := flag.String("history", cfg.HistoryPath, "path to the SQLite build archive (empty to disable)")
	ledgerEndpoint := flag.String("ledger-endpoint", cfg.Ledger.Endpoint, "base URL of the verification ledger gateway (empty to disable)")
	flag.Parse()

	cfg.Addr = *addr
	cfg.HistoryPath = strings.TrimSpace(*historyPath)
	cfg.Ledger.Endpoint = strings.TrimSpace(*ledgerEndpoint)

	logger.Info("forge: startup initiated", "addr", cfg.Addr, "history", cfg.HistoryPath)

	store := build.NewStore()

	var archiver build.Archiver
	if cfg.HistoryPath != "" {
		archive, err := history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn("forge: build archive unavailable, records held in memory only", "path", cfg.HistoryPath, "error", err)
		} else {
			defer archive.Close()
			archiver = archive
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			records, err := archive.LoadRecords(ctx)
			cancel()
			if err != nil {
				logger.Warn("forge: could not reload archived builds", "error", err)
			} else if loaded := store.Seed(records); loaded > 0 {
				logger.Info("forge: reloaded archived builds", "count", loaded)
			}
		}
	} else {
		logger.Warn("forge: build archive disabled; records are lost on restart and retention is unbounded")
	}

	var chain ledger.Client
	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), cfg.Ledger.Timeout)
	gateway, err := ledger.NewGatewayClient(gatewayCtx, cfg.Ledger)
	gatewayCancel()
	if err != nil {
		logger.Warn("forge: ledger gateway unavailable", "error", err)
	} else if gateway != nil {
		chain = gateway
	}
	if chain == nil {
		logger.Warn("forge: on-chain verification disabled")
	}

	provider := llm.NewProvider()
	logger.Info("forge: content generator ready", "provider", provider.Name())

	runner := build.NewRunner(store, provider, chain, archiver,
		build.WithGeneratorTimeout(cfg.GeneratorTimeout),
		build.WithLedgerTimeout(cfg.Ledger.Timeout))

	server, err := api.NewServer(store, runner, provider)
	if err != nil {
		logger.Error("forge: server init failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("forge: listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		logger.Error("forge: server stopped", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
}
