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

// Package agent bootstraps the session every service call goes through: the network
// connection, the caller identity and the chain id used to sign transactions.
package agent

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

type Config struct {
	URL string
	// TrustPreloaded is set on networks whose chain id is distributed with the config;
	// bootstrap then never asks the node for it.
	TrustPreloaded bool
	ChainID        *big.Int
	IdentityKey    string

	Logger *zap.Logger
}

// Backend is what typed contract clients need from a session.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type Session struct {
	rpc    *rpc.Client
	client *ethclient.Client

	key       *ecdsa.PrivateKey
	principal common.Address

	chainID *big.Int
	trusted bool

	logger *zap.Logger
}

// Bootstrap dials the network and prepares a session. Only configuration faults are
// returned; failing to fetch the chain id is logged and the configured one is kept.
func Bootstrap(ctx context.Context, cfg Config) (*Session, error) {
	lgr := cfg.Logger.With(zap.String("method", "Bootstrap"))
	lgr.Info("Dial network", zap.String("url", cfg.URL))
	client, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "dial network")
	}
	s, err := bootstrap(ctx, client, cfg)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func bootstrap(ctx context.Context, client *rpc.Client, cfg Config) (*Session, error) {
	s, err := NewSession(client, cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.TrustPreloaded {
		s.FetchTrustMaterial(ctx)
	}
	return s, nil
}

// NewSession builds a session over an existing client without any network round-trip.
func NewSession(client *rpc.Client, cfg Config) (*Session, error) {
	key, principal, err := loadIdentity(cfg.IdentityKey)
	if err != nil {
		return nil, err
	}
	s := &Session{
		rpc:       client,
		client:    ethclient.NewClient(client),
		key:       key,
		principal: principal,
		logger:    cfg.Logger.With(zap.String("agent", principal.Hex())),
	}
	if cfg.ChainID != nil {
		s.chainID = new(big.Int).Set(cfg.ChainID)
	}
	return s, nil
}

// FetchTrustMaterial asks the node for its chain id. A failure is tolerated once and
// swallowed: the session stays usable with the configured chain id.
func (s *Session) FetchTrustMaterial(ctx context.Context) {
	lgr := s.logger.With(zap.String("method", "FetchTrustMaterial"))
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		lgr.Warn("fetch chain id failed (ok on mainnet)", zap.Error(err))
		return
	}
	if s.chainID != nil && s.chainID.Cmp(chainID) != 0 {
		lgr.Warn("node chain id differs from config, using node value",
			zap.String("configured", s.chainID.String()), zap.String("node", chainID.String()))
	}
	s.chainID = chainID
	s.trusted = true
}

func (s *Session) Principal() common.Address {
	return s.principal
}

func (s *Session) Anonymous() bool {
	return s.key == nil
}

func (s *Session) ChainID() *big.Int {
	if s.chainID == nil {
		return nil
	}
	return new(big.Int).Set(s.chainID)
}

// Trusted reports whether the chain id came from the node during bootstrap.
func (s *Session) Trusted() bool {
	return s.trusted
}

func (s *Session) Backend() Backend {
	return s.client
}

// Transactor returns signing options bound to ctx.
func (s *Session) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	if s.key == nil {
		return nil, types.ErrAnonymousIdentity
	}
	if s.chainID == nil {
		return nil, types.ErrNoChainID
	}
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "build transactor")
	}
	opts.Context = ctx
	return opts, nil
}

func (s *Session) Close() {
	s.rpc.Close()
}
