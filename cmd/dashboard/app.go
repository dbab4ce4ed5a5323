// Package main
package main

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/agent"
	"github.com/M-QiiQ/TMU-AI-DAO/cache"
	"github.com/M-QiiQ/TMU-AI-DAO/cfg"
	"github.com/M-QiiQ/TMU-AI-DAO/contracts"
	"github.com/M-QiiQ/TMU-AI-DAO/dashboard"
	"github.com/M-QiiQ/TMU-AI-DAO/db"
	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
)

const closeTimeout = 5 * time.Second

// app wires the configured infrastructure around one dashboard controller.
type app struct {
	cfg    cfg.DashboardConfig
	logger *zap.Logger

	metrics    *metrics.Collector
	guard      cache.Guard
	journal    db.Journal
	controller *dashboard.Controller
}

func newApp(serviceCfg cfg.DashboardConfig, logger *zap.Logger) (*app, error) {
	a := &app{cfg: serviceCfg, logger: logger}
	if serviceCfg.MetricsEnabled {
		a.metrics = metrics.New()
	}

	guard, err := cache.New(cache.Config{
		Adapter:  cache.Adapter(serviceCfg.CacheEngine),
		URL:      serviceCfg.CacheURL,
		DB:       serviceCfg.CacheDB,
		Password: serviceCfg.CachePassword,
		KeyTTL:   serviceCfg.SubmitKeyTTL,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	a.guard = guard

	journal, err := db.NewJournal(db.Config{
		DbAdapter: db.Adapter(serviceCfg.StorageDriver),
		DbName:    serviceCfg.StorageDB,
		URL:       serviceCfg.StorageURI,
		MinConn:   serviceCfg.StorageMinConn,
		MaxConn:   serviceCfg.StorageMaxConn,
		Logger:    logger,
	})
	if err != nil {
		a.closeGuard()
		return nil, err
	}
	a.journal = journal

	contractCfg := func(address string) contracts.Config {
		return contracts.Config{
			Address:    address,
			MaxRetries: serviceCfg.RPCMaxRetries,
			Timeout:    serviceCfg.RPCTimeout,
			Metrics:    a.metrics,
			Logger:     logger,
		}
	}
	bootstrap := dashboard.SessionBootstrapper(agent.Config{
		URL:            serviceCfg.NetworkURL,
		TrustPreloaded: serviceCfg.TrustMaterialPreloaded(),
		ChainID:        serviceCfg.ChainID,
		IdentityKey:    serviceCfg.IdentityKey,
		Logger:         logger,
	}, contractCfg(serviceCfg.GovernanceAddress), contractCfg(serviceCfg.TokenAddress))

	a.controller = dashboard.New(dashboard.Config{
		Bootstrap: bootstrap,
		Guard:     guard,
		Journal:   journal,
		Metrics:   a.metrics,
		Logger:    logger,
	})
	return a, nil
}

func (a *app) Close() {
	a.controller.Close()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := a.journal.Close(ctx); err != nil {
		a.logger.Warn("cannot close journal", zap.Error(err))
	}
	a.closeGuard()
}

func (a *app) closeGuard() {
	if closer, ok := a.guard.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("cannot close cache", zap.Error(err))
		}
	}
}
