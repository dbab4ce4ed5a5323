// Package contracts
package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

type Token interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
}

type TokenClient struct {
	address  common.Address
	contract *bind.BoundContract
	invoker  invoker

	logger *zap.Logger
}

func NewToken(cfg Config) (*TokenClient, error) {
	if !common.IsHexAddress(cfg.Address) {
		return nil, errors.Wrapf(types.ErrInvalidAddress, "token %q", cfg.Address)
	}
	address := common.HexToAddress(cfg.Address)
	return &TokenClient{
		address:  address,
		contract: bind.NewBoundContract(address, tokenABI, cfg.Backend, cfg.Backend, cfg.Backend),
		invoker: invoker{
			service:    ServiceToken,
			maxRetries: cfg.MaxRetries,
			timeout:    cfg.Timeout,
			metrics:    cfg.Metrics,
		},
		logger: cfg.Logger.With(zap.String("service", ServiceToken), zap.String("address", address.Hex())),
	}, nil
}

func (c *TokenClient) Address() common.Address {
	return c.address
}

// BalanceOf returns the raw balance; no conversion to a fixed width happens here.
func (c *TokenClient) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	err := c.invoker.read(ctx, MethodBalanceOf, func(ctx context.Context) error {
		out = nil
		return c.contract.Call(&bind.CallOpts{Context: ctx}, &out, MethodBalanceOf, owner)
	})
	if err != nil {
		return nil, errors.Wrap(err, MethodBalanceOf)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(types.ErrEmptyResult, MethodBalanceOf)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}
