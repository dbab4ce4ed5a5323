// Package dashboard holds the controller that owns all dashboard state and drives the
// governance and token services.
package dashboard

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/cache"
	"github.com/M-QiiQ/TMU-AI-DAO/contracts"
	"github.com/M-QiiQ/TMU-AI-DAO/db"
	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

const defaultGuardTTL = 10 * time.Minute

// Services are the handles available once the session is up.
type Services struct {
	Principal  common.Address
	Governance contracts.Governance
	Token      contracts.Token
	// Trusted reports whether the session fetched its trust material.
	Trusted bool

	Close func()
}

// Bootstrapper establishes the session and binds the service handles.
type Bootstrapper func(ctx context.Context) (*Services, error)

type Config struct {
	Bootstrap Bootstrapper
	Guard     cache.Guard
	Journal   db.Journal
	Metrics   *metrics.Collector
	Logger    *zap.Logger
}

type Controller struct {
	bootstrap Bootstrapper
	guard     cache.Guard
	journal   db.Journal
	metrics   *metrics.Collector
	logger    *zap.Logger

	mu        sync.RWMutex
	phase     Phase
	services  *Services
	proposals []*types.ProposalView
	balance   *big.Int
	draft     types.ProposalDraft

	// settled is the last draft whose key is bound to a proposal that may exist on chain.
	settled types.ProposalDraft
}

// Snapshot is a deep copy of the controller state for presentation.
type Snapshot struct {
	Phase     Phase
	Connected bool
	Trusted   bool
	Principal common.Address
	Balance   *big.Int
	Proposals []*types.ProposalView
	Draft     types.ProposalDraft
}

func New(cfg Config) *Controller {
	guard := cfg.Guard
	if guard == nil {
		guard = cache.NewMemory(defaultGuardTTL)
	}
	return &Controller{
		bootstrap: cfg.Bootstrap,
		guard:     guard,
		journal:   cfg.Journal,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With(zap.String("component", "dashboard")),
		phase:     PhaseUninitialized,
		proposals: []*types.ProposalView{},
		balance:   new(big.Int),
		draft:     types.NewDraft(),
	}
}

// Init bootstraps the session and loads proposals and balance. It runs once; every
// failure is logged and leaves the affected field at its previous value.
func (c *Controller) Init(ctx context.Context) {
	lgr := c.logger.With(zap.String("method", "Init"))
	if !c.transition(PhaseUninitialized, PhaseBootstrapping) {
		lgr.Debug("already initialized")
		return
	}
	defer c.setPhase(PhaseReady)

	services, err := c.bootstrap(ctx)
	if err != nil {
		lgr.Error("bootstrap failed", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.services = services
	c.mu.Unlock()
	lgr.Info("Session ready", zap.String("principal", services.Principal.Hex()), zap.Bool("trusted", services.Trusted))

	c.fetchAll(ctx, services)
}

// Refresh reloads proposals and balance without touching the draft.
func (c *Controller) Refresh(ctx context.Context) error {
	services := c.currentServices()
	if services == nil {
		return types.ErrNotConnected
	}
	c.fetchAll(ctx, services)
	return nil
}

// fetchAll issues both reads concurrently; each writes only its own field.
func (c *Controller) fetchAll(ctx context.Context, services *Services) {
	lgr := c.logger.With(zap.String("method", "fetchAll"))
	tasks := []func(){
		func() { c.loadProposals(ctx, services) },
		func() { c.loadBalance(ctx, services) },
	}

	p, err := ants.NewPool(len(tasks))
	if err != nil {
		lgr.Warn("cannot create worker pool, loading sequentially", zap.Error(err))
		for _, task := range tasks {
			task()
		}
		return
	}
	defer p.Release()

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			lgr.Warn("cannot submit task, running inline", zap.Error(err))
			task()
			wg.Done()
		}
	}
	wg.Wait()
}

func (c *Controller) loadProposals(ctx context.Context, services *Services) {
	list, err := services.Governance.ListProposals(ctx)
	if err != nil {
		c.logger.Error("Failed to load proposals", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.proposals = list
	c.mu.Unlock()
}

func (c *Controller) loadBalance(ctx context.Context, services *Services) {
	balance, err := services.Token.BalanceOf(ctx, services.Principal)
	if err != nil {
		c.logger.Error("Failed to load balance", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.balance = balance
	c.mu.Unlock()
}

// SetDraft binds form input to the draft. An empty key keeps the current one.
func (c *Controller) SetDraft(draft types.ProposalDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if draft.Key == "" {
		draft.Key = c.draft.Key
	}
	c.draft = c.rekey(draft)
}

// Submit sends draft to the governance service and reloads the proposal list. On success
// the list is replaced and the draft reset; on any failure both are left as they were and
// the error is returned for the caller to surface.
//
// Cancelling ctx does not abort the submission. A key stays consumed while the proposal
// may exist on chain; editing such a draft gives it a fresh key.
func (c *Controller) Submit(ctx context.Context, draft types.ProposalDraft) (*big.Int, error) {
	lgr := c.logger.With(zap.String("method", "Submit"))
	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return nil, types.ErrSubmitInFlight
	}
	if draft.Key == "" {
		draft.Key = c.draft.Key
	}
	draft = c.rekey(draft)
	c.draft = draft
	services := c.services
	if services == nil || c.phase != PhaseReady {
		c.mu.Unlock()
		return nil, types.ErrNotConnected
	}
	c.phase = PhaseSubmitting
	c.mu.Unlock()
	defer c.setPhase(PhaseReady)

	acquired, err := c.guard.Acquire(ctx, draft.Key)
	if err != nil {
		lgr.Warn("submission guard unavailable, submitting unguarded", zap.Error(err))
	} else if !acquired {
		c.finish(ctx, draft, services.Principal, nil, types.ErrDuplicateSubmission)
		return nil, types.ErrDuplicateSubmission
	}

	id, err := services.Governance.SubmitProposal(ctx, draft.Title, draft.Description, draft.Duration())
	if err != nil {
		lgr.Error("submitProposal error", zap.Error(err))
		if errors.Is(err, types.ErrTxPending) {
			c.settle(draft)
		} else if acquired {
			if err := c.guard.Release(ctx, draft.Key); err != nil {
				lgr.Warn("cannot release submission key", zap.Error(err))
			}
		}
		c.finish(ctx, draft, services.Principal, nil, err)
		return nil, errors.Wrap(err, "submit proposal")
	}

	list, err := services.Governance.ListProposals(ctx)
	if err != nil {
		lgr.Error("reload proposals after submit failed", zap.Error(err))
		c.settle(draft)
		c.finish(ctx, draft, services.Principal, id, err)
		return id, errors.Wrap(err, "reload proposals")
	}

	c.mu.Lock()
	c.proposals = list
	c.draft = types.NewDraft()
	c.settled = draft
	c.mu.Unlock()
	c.finish(ctx, draft, services.Principal, id, nil)
	lgr.Info("Proposal submitted", zap.Stringer("id", id))
	return id, nil
}

func (c *Controller) settle(draft types.ProposalDraft) {
	c.mu.Lock()
	c.settled = draft
	c.mu.Unlock()
}

// rekey gives draft a fresh key when it reuses a settled key for different content.
// Callers hold c.mu.
func (c *Controller) rekey(draft types.ProposalDraft) types.ProposalDraft {
	if c.settled.Key == "" || draft.Key != c.settled.Key || draft.SameContent(c.settled) {
		return draft
	}
	draft.Key = types.NewDraft().Key
	return draft
}

func (c *Controller) finish(ctx context.Context, draft types.ProposalDraft, principal common.Address, id *big.Int, err error) {
	c.metrics.ObserveSubmission(err)
	if c.journal == nil {
		return
	}
	submission := &types.Submission{
		Key:             draft.Key,
		Title:           draft.Title,
		Description:     draft.Description,
		DurationSeconds: draft.DurationSeconds,
		Proposer:        principal.Hex(),
		Outcome:         types.SubmissionOK,
		CreatedAt:       time.Now().UTC(),
	}
	if id != nil {
		submission.ProposalID = id.String()
	}
	if err != nil {
		submission.Outcome = types.SubmissionFailed
		submission.Error = err.Error()
	}
	if err := c.journal.Record(ctx, submission); err != nil {
		c.logger.Warn("cannot journal submission", zap.String("key", draft.Key), zap.Error(err))
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Snapshot{
		Phase:     c.phase,
		Connected: c.services != nil,
		Balance:   new(big.Int).Set(c.balance),
		Proposals: make([]*types.ProposalView, 0, len(c.proposals)),
		Draft:     c.draft,
	}
	if c.services != nil {
		s.Principal = c.services.Principal
		s.Trusted = c.services.Trusted
	}
	for _, p := range c.proposals {
		s.Proposals = append(s.Proposals, p.Copy())
	}
	return s
}

func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.services != nil && c.services.Close != nil {
		c.services.Close()
	}
}

func (c *Controller) currentServices() *Services {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services
}

func (c *Controller) transition(from, to Phase) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != from {
		return false
	}
	c.phase = to
	return true
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
