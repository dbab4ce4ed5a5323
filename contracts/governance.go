// Package contracts
package contracts

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/agent"
	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

type Governance interface {
	ListProposals(ctx context.Context) ([]*types.ProposalView, error)
	// SubmitProposal returns the id of the created proposal, nil when the contract did not report one.
	// A transaction that was broadcast but never confirmed yields types.ErrTxPending.
	SubmitProposal(ctx context.Context, title, description string, durationSeconds *big.Int) (*big.Int, error)
}

// Signer produces transaction signing options; *agent.Session is one.
type Signer interface {
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
}

type Config struct {
	Address string
	Backend agent.Backend
	// Signer may be nil for read-only clients.
	Signer Signer

	MaxRetries int
	Timeout    time.Duration

	Metrics *metrics.Collector
	Logger  *zap.Logger
}

type GovernanceClient struct {
	address  common.Address
	contract *bind.BoundContract
	backend  agent.Backend
	signer   Signer
	invoker  invoker

	logger *zap.Logger
}

// proposalTuple mirrors the tuple listProposals returns.
type proposalTuple struct {
	Title       string
	Description string
	VotesYes    *big.Int
	VotesNo     *big.Int
	Deadline    *big.Int
}

type proposalSubmitted struct {
	Id       *big.Int
	Proposer common.Address
}

func NewGovernance(cfg Config) (*GovernanceClient, error) {
	if !common.IsHexAddress(cfg.Address) {
		return nil, errors.Wrapf(types.ErrInvalidAddress, "governance %q", cfg.Address)
	}
	address := common.HexToAddress(cfg.Address)
	return &GovernanceClient{
		address:  address,
		contract: bind.NewBoundContract(address, governanceABI, cfg.Backend, cfg.Backend, cfg.Backend),
		backend:  cfg.Backend,
		signer:   cfg.Signer,
		invoker: invoker{
			service:    ServiceGovernance,
			maxRetries: cfg.MaxRetries,
			timeout:    cfg.Timeout,
			metrics:    cfg.Metrics,
		},
		logger: cfg.Logger.With(zap.String("service", ServiceGovernance), zap.String("address", address.Hex())),
	}, nil
}

func (c *GovernanceClient) Address() common.Address {
	return c.address
}

// ListProposals returns the proposals in contract order.
func (c *GovernanceClient) ListProposals(ctx context.Context) ([]*types.ProposalView, error) {
	var out []interface{}
	err := c.invoker.read(ctx, MethodListProposals, func(ctx context.Context) error {
		out = nil
		return c.contract.Call(&bind.CallOpts{Context: ctx}, &out, MethodListProposals)
	})
	if err != nil {
		return nil, errors.Wrap(err, MethodListProposals)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(types.ErrEmptyResult, MethodListProposals)
	}

	raw := *abi.ConvertType(out[0], new([]proposalTuple)).(*[]proposalTuple)
	proposals := make([]*types.ProposalView, 0, len(raw))
	for _, p := range raw {
		proposals = append(proposals, &types.ProposalView{
			Title:       p.Title,
			Description: p.Description,
			VotesYes:    p.VotesYes,
			VotesNo:     p.VotesNo,
			Deadline:    p.Deadline,
		})
	}
	return proposals, nil
}

// SubmitProposal sends the transaction and waits for it to be mined. It is never retried.
func (c *GovernanceClient) SubmitProposal(ctx context.Context, title, description string, durationSeconds *big.Int) (*big.Int, error) {
	start := time.Now()
	id, err := c.submitProposal(ctx, title, description, durationSeconds)
	c.invoker.metrics.ObserveCall(ServiceGovernance, MethodSubmitProposal, start, err)
	return id, err
}

func (c *GovernanceClient) submitProposal(ctx context.Context, title, description string, durationSeconds *big.Int) (*big.Int, error) {
	lgr := c.logger.With(zap.String("method", MethodSubmitProposal))
	if c.signer == nil {
		return nil, types.ErrAnonymousIdentity
	}
	ctx, cancel := c.invoker.withTimeout(ctx)
	defer cancel()

	opts, err := c.signer.Transactor(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := c.contract.Transact(opts, MethodSubmitProposal, title, description, durationSeconds)
	if err != nil {
		return nil, errors.Wrap(err, "send submitProposal")
	}
	lgr.Info("Sent proposal transaction", zap.String("tx", tx.Hash().Hex()))

	// From here on the proposal may exist on chain.
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, errors.Wrapf(types.ErrTxPending, "tx %s: %v", tx.Hash().Hex(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(types.ErrTxReverted, "tx %s", tx.Hash().Hex())
	}

	id, err := c.proposalID(receipt)
	if err != nil {
		lgr.Warn("cannot decode proposal id", zap.String("tx", tx.Hash().Hex()), zap.Error(err))
		return nil, nil
	}
	if id == nil {
		lgr.Warn("receipt carries no ProposalSubmitted event", zap.String("tx", tx.Hash().Hex()))
	}
	return id, nil
}

func (c *GovernanceClient) proposalID(receipt *gethtypes.Receipt) (*big.Int, error) {
	eventID := governanceABI.Events[EventProposalSubmitted].ID
	for _, log := range receipt.Logs {
		if log == nil || log.Address != c.address || len(log.Topics) == 0 || log.Topics[0] != eventID {
			continue
		}
		var ev proposalSubmitted
		if err := c.contract.UnpackLog(&ev, EventProposalSubmitted, *log); err != nil {
			return nil, errors.Wrap(err, "unpack ProposalSubmitted")
		}
		return ev.Id, nil
	}
	return nil, nil
}
