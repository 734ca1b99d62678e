package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClipFinance/rwa-bridge/bridge"
	"github.com/ClipFinance/rwa-bridge/chainmanager"
	"github.com/ClipFinance/rwa-bridge/chains"
	"github.com/ClipFinance/rwa-bridge/common/types"
	"github.com/ClipFinance/rwa-bridge/config"
	"github.com/ClipFinance/rwa-bridge/dbconfig"
	"github.com/ClipFinance/rwa-bridge/eventfeed"
	"github.com/ClipFinance/rwa-bridge/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger, err := cfg.Logger()
	if err != nil {
		logrus.WithError(err).Fatal("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("bridged exited")
	}
	logger.Info("bridged stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	var db *dbconfig.DBConfig
	if cfg.DatabaseURL != "" {
		var err error
		db, err = dbconfig.NewDBConfig(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Ping(ctx); err != nil {
			return err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	chainConfigs, err := loadChainConfigs(ctx, cfg, db)
	if err != nil {
		return err
	}

	registry := chainmanager.NewChainRegistry(chains.NewChainFactory(), logger)
	opts := make([]bridge.Option, 0, 2*len(chainConfigs))
	for i := range chainConfigs {
		chainCfg := chainConfigs[i]
		log := logger.WithField("chain", chainCfg.ChainID)

		if err := registry.Add(ctx, &chainCfg); err != nil {
			log.WithError(err).Error("failed to add chain, skipping")
			continue
		}

		codec, err := chains.CodecFor(chainCfg.ChainType)
		if err != nil {
			return errors.Wrapf(err, "codec for chain %s", chainCfg.ChainID)
		}
		opts = append(opts, bridge.WithPayloadCodec(chainCfg.ChainID, codec))
		if chainCfg.BridgeContract != "" {
			opts = append(opts, bridge.WithBridgeContract(chainCfg.ChainID, chainCfg.BridgeContract))
		}
		log.WithField("type", chainCfg.ChainType).Info("chain registered")
	}
	defer func() {
		for _, id := range registry.Chains() {
			registry.Remove(id)
		}
	}()

	var journal *dbconfig.TransferJournal
	if db != nil {
		journal = dbconfig.NewTransferJournal(db, logger)
		defer journal.Close()
	}

	engine := bridge.New(registry, logger, opts...)
	defer engine.Close()

	engine.Subscribe(metrics.Observe)
	if journal != nil {
		engine.Subscribe(journal.Handle)
	}

	hub := eventfeed.NewHub(logger)
	defer hub.Close()
	engine.Subscribe(hub.Handle)

	if cfg.LoadDemo {
		seeded := engine.LoadDemoTransfers()
		logger.WithField("count", len(seeded)).Info("demo transfers loaded")
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	feedMux := http.NewServeMux()
	feedMux.Handle("/ws", hub)

	servers := []*http.Server{
		{Addr: cfg.MetricsAddr, Handler: metricsMux, ReadHeaderTimeout: 5 * time.Second},
		{Addr: cfg.FeedAddr, Handler: feedMux, ReadHeaderTimeout: 5 * time.Second},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "serve %s", srv.Addr)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).WithField("addr", srv.Addr).Warn("server shutdown")
			}
		}
		return nil
	})

	return g.Wait()
}

// loadChainConfigs prefers the database when configured and falls back to the environment.
func loadChainConfigs(ctx context.Context, cfg *config.Config, db *dbconfig.DBConfig) ([]types.ChainConfig, error) {
	if db != nil {
		configs, err := db.GetChainConfigs(ctx)
		if err != nil {
			return nil, err
		}
		if len(configs) > 0 {
			return cfg.Overlay(configs), nil
		}
	}
	return cfg.ChainConfigs()
}
