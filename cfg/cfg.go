/*
 *  Copyright 2018 KardiaChain
 *  This file is part of the go-kardia library.
 *
 *  The go-kardia library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The go-kardia library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the go-kardia library. If not, see <http://www.gnu.org/licenses/>.
 */

// Package cfg
package cfg

import (
	"errors"
	"io/ioutil"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeDev        = "dev"
	ModeProduction = "prod"
)

const (
	NetworkLocal = "local"
	NetworkTest  = "test"
	NetworkMain  = "main"
)

const ServerVersion = "1.0.0"

var (
	ErrMissingNetworkURL = errors.New("missing NETWORK_URL in config")
	ErrMissingGovernance = errors.New("missing GOVERNANCE_ADDRESS in config")
	ErrMissingToken      = errors.New("missing TOKEN_ADDRESS in config")
)

type DashboardConfig struct {
	ServerMode string
	Port       string
	LogLevel   string
	SentryDSN  string

	Network           string
	NetworkURL        string
	ChainID           *big.Int
	GovernanceAddress string
	TokenAddress      string
	IdentityKey       string

	RPCMaxRetries int
	RPCTimeout    time.Duration

	CacheEngine   string
	CacheURL      string
	CacheDB       int
	CachePassword string
	SubmitKeyTTL  time.Duration

	StorageDriver  string
	StorageURI     string
	StorageDB      string
	StorageMinConn int
	StorageMaxConn int

	SubmitRateLimit float64
	SubmitRateBurst int

	MetricsEnabled bool
}

func New() (DashboardConfig, error) {
	networkURL := os.Getenv("NETWORK_URL")
	if networkURL == "" {
		return DashboardConfig{}, ErrMissingNetworkURL
	}
	governanceAddress := os.Getenv("GOVERNANCE_ADDRESS")
	if governanceAddress == "" {
		return DashboardConfig{}, ErrMissingGovernance
	}
	tokenAddress := os.Getenv("TOKEN_ADDRESS")
	if tokenAddress == "" {
		return DashboardConfig{}, ErrMissingToken
	}

	identityKey := os.Getenv("IDENTITY_KEY")
	if identityKey == "" {
		if identityFile := os.Getenv("IDENTITY_FILE"); identityFile != "" {
			data, err := ioutil.ReadFile(identityFile)
			if err != nil {
				return DashboardConfig{}, err
			}
			identityKey = strings.TrimSpace(string(data))
		}
	}

	var chainID *big.Int
	if chainIDStr := os.Getenv("CHAIN_ID"); chainIDStr != "" {
		id, ok := new(big.Int).SetString(chainIDStr, 10)
		if ok {
			chainID = id
		}
	}

	rpcMaxRetries, err := strconv.Atoi(os.Getenv("RPC_MAX_RETRIES"))
	if err != nil || rpcMaxRetries < 0 {
		rpcMaxRetries = 0
	}
	rpcTimeout, err := time.ParseDuration(os.Getenv("RPC_TIMEOUT"))
	if err != nil {
		rpcTimeout = 0
	}

	cacheDB, err := strconv.Atoi(os.Getenv("CACHE_DB"))
	if err != nil {
		cacheDB = 0
	}
	submitKeyTTL, err := time.ParseDuration(os.Getenv("SUBMIT_KEY_TTL"))
	if err != nil {
		submitKeyTTL = 10 * time.Minute
	}

	storageMinConn, err := strconv.Atoi(os.Getenv("STORAGE_MIN_CONN"))
	if err != nil {
		storageMinConn = 1
	}
	storageMaxConn, err := strconv.Atoi(os.Getenv("STORAGE_MAX_CONN"))
	if err != nil {
		storageMaxConn = 4
	}

	submitRateLimit, err := strconv.ParseFloat(os.Getenv("SUBMIT_RATE_LIMIT"), 64)
	if err != nil || submitRateLimit < 0 {
		submitRateLimit = 0
	}
	submitRateBurst, err := strconv.Atoi(os.Getenv("SUBMIT_RATE_BURST"))
	if err != nil || submitRateBurst < 1 {
		submitRateBurst = 1
	}

	metricsEnabled, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED"))
	if err != nil {
		metricsEnabled = true
	}

	cfg := DashboardConfig{
		ServerMode: stringOr(os.Getenv("SERVER_MODE"), ModeDev),
		Port:       stringOr(os.Getenv("PORT"), ":8080"),
		LogLevel:   stringOr(os.Getenv("LOG_LEVEL"), "info"),
		SentryDSN:  os.Getenv("SENTRY_DSN"),

		Network:           stringOr(os.Getenv("NETWORK"), NetworkLocal),
		NetworkURL:        networkURL,
		ChainID:           chainID,
		GovernanceAddress: governanceAddress,
		TokenAddress:      tokenAddress,
		IdentityKey:       identityKey,

		RPCMaxRetries: rpcMaxRetries,
		RPCTimeout:    rpcTimeout,

		CacheEngine:   stringOr(os.Getenv("CACHE_ENGINE"), "memory"),
		CacheURL:      os.Getenv("CACHE_URI"),
		CacheDB:       cacheDB,
		CachePassword: os.Getenv("CACHE_PASSWORD"),
		SubmitKeyTTL:  submitKeyTTL,

		StorageDriver:  os.Getenv("STORAGE_DRIVER"),
		StorageURI:     os.Getenv("STORAGE_URI"),
		StorageDB:      stringOr(os.Getenv("STORAGE_DB"), "dashboard"),
		StorageMinConn: storageMinConn,
		StorageMaxConn: storageMaxConn,

		SubmitRateLimit: submitRateLimit,
		SubmitRateBurst: submitRateBurst,

		MetricsEnabled: metricsEnabled,
	}

	return cfg, nil
}

// TrustMaterialPreloaded reports whether the network ships its trust material, so bootstrap must not fetch it.
func (c DashboardConfig) TrustMaterialPreloaded() bool {
	return c.Network == NetworkMain
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
