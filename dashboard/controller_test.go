// Package dashboard
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/cache"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

var testPrincipal = common.HexToAddress("0x71562b71999873DB5b286dF957af199Ec94617F7")

type fakeGovernance struct {
	mu        sync.Mutex
	proposals []*types.ProposalView
	listErr   error
	submitErr error
	// createErr is returned after the proposal has been created.
	createErr error
	ctxErr    error
	listCalls int
	submits   []types.ProposalDraft
	nextID    int64

	// onList and onSubmit run before the fake answers, outside its lock.
	onList   func()
	onSubmit func()
}

func (g *fakeGovernance) ListProposals(ctx context.Context) ([]*types.ProposalView, error) {
	if g.onList != nil {
		g.onList()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listCalls++
	if g.listErr != nil {
		return nil, g.listErr
	}
	out := make([]*types.ProposalView, 0, len(g.proposals))
	for _, p := range g.proposals {
		out = append(out, p.Copy())
	}
	return out, nil
}

func (g *fakeGovernance) SubmitProposal(ctx context.Context, title, description string, durationSeconds *big.Int) (*big.Int, error) {
	if g.onSubmit != nil {
		g.onSubmit()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submits = append(g.submits, types.ProposalDraft{Title: title, Description: description, DurationSeconds: durationSeconds.Int64()})
	g.ctxErr = ctx.Err()
	if g.submitErr != nil {
		return nil, g.submitErr
	}
	g.nextID++
	g.proposals = append(g.proposals, &types.ProposalView{
		Title:       title,
		Description: description,
		VotesYes:    new(big.Int),
		VotesNo:     new(big.Int),
		Deadline:    new(big.Int).Mul(durationSeconds, big.NewInt(int64(time.Second))),
	})
	if g.createErr != nil {
		return nil, g.createErr
	}
	return big.NewInt(g.nextID), nil
}

func (g *fakeGovernance) counts() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls, len(g.submits)
}

type fakeToken struct {
	balance *big.Int
	err     error
	owner   common.Address
	onCall  func()
}

func (t *fakeToken) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	if t.onCall != nil {
		t.onCall()
	}
	t.owner = owner
	if t.err != nil {
		return nil, t.err
	}
	return new(big.Int).Set(t.balance), nil
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*types.Submission
}

func (j *fakeJournal) Record(ctx context.Context, s *types.Submission) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, s)
	return nil
}

func (j *fakeJournal) Submissions(ctx context.Context, p *types.Pagination) ([]*types.Submission, uint64, error) {
	return j.records, uint64(len(j.records)), nil
}

func (j *fakeJournal) Close(ctx context.Context) error { return nil }

func fakeProposals(n int) []*types.ProposalView {
	out := make([]*types.ProposalView, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &types.ProposalView{
			Title:       faker.Sentence(),
			Description: faker.Paragraph(),
			VotesYes:    big.NewInt(int64(i * 3)),
			VotesNo:     big.NewInt(int64(i)),
			Deadline:    big.NewInt(int64(i) * 60000000000),
		})
	}
	return out
}

func setupController(gov *fakeGovernance, token *fakeToken, journal *fakeJournal) *Controller {
	cfg := Config{
		Bootstrap: func(ctx context.Context) (*Services, error) {
			return &Services{Principal: testPrincipal, Governance: gov, Token: token}, nil
		},
		Guard:  cache.NewMemory(time.Minute),
		Logger: zap.NewNop(),
	}
	if journal != nil {
		cfg.Journal = journal
	}
	return New(cfg)
}

func TestController_InitialState(t *testing.T) {
	c := setupController(&fakeGovernance{}, &fakeToken{balance: big.NewInt(1)}, nil)
	s := c.Snapshot()
	assert.Equal(t, PhaseUninitialized, s.Phase)
	assert.False(t, s.Connected)
	assert.Equal(t, int64(0), s.Balance.Int64())
	assert.Empty(t, s.Proposals)
	assert.Equal(t, "", s.Draft.Title)
	assert.Equal(t, int64(60), s.Draft.DurationSeconds)
	assert.NotEmpty(t, s.Draft.Key)
}

func TestController_Init(t *testing.T) {
	proposals := fakeProposals(4)
	proposals = append(proposals, proposals[1].Copy())
	huge, _ := new(big.Int).SetString("9007199254740993", 10)
	gov := &fakeGovernance{proposals: proposals}
	token := &fakeToken{balance: huge}
	c := setupController(gov, token, nil)

	c.Init(context.Background())

	s := c.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.True(t, s.Connected)
	assert.Equal(t, testPrincipal, s.Principal)
	assert.Equal(t, testPrincipal, token.owner)
	assert.Equal(t, proposals, s.Proposals)
	assert.Equal(t, "9007199254740993", s.Balance.String())
}

func TestController_InitRunsOnce(t *testing.T) {
	gov := &fakeGovernance{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(0)}, nil)
	c.Init(context.Background())
	c.Init(context.Background())

	listCalls, _ := gov.counts()
	assert.Equal(t, 1, listCalls)
}

func TestController_InitReadFailuresAreIsolated(t *testing.T) {
	t.Run("proposals fail", func(t *testing.T) {
		gov := &fakeGovernance{proposals: fakeProposals(2), listErr: errors.New("canister trapped")}
		c := setupController(gov, &fakeToken{balance: big.NewInt(42)}, nil)
		assert.NotPanics(t, func() { c.Init(context.Background()) })

		s := c.Snapshot()
		assert.Equal(t, PhaseReady, s.Phase)
		assert.Empty(t, s.Proposals)
		assert.Equal(t, int64(42), s.Balance.Int64())
	})
	t.Run("balance fails", func(t *testing.T) {
		proposals := fakeProposals(2)
		c := setupController(&fakeGovernance{proposals: proposals}, &fakeToken{err: errors.New("timeout")}, nil)
		c.Init(context.Background())

		s := c.Snapshot()
		assert.Equal(t, proposals, s.Proposals)
		assert.Equal(t, int64(0), s.Balance.Int64())
	})
}

func TestController_BootstrapFailure(t *testing.T) {
	c := New(Config{
		Bootstrap: func(ctx context.Context) (*Services, error) { return nil, errors.New("bad identity") },
		Logger:    zap.NewNop(),
	})
	c.Init(context.Background())

	s := c.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.False(t, s.Connected)

	draft := types.ProposalDraft{Title: "t", Description: "d", DurationSeconds: 30}
	_, err := c.Submit(context.Background(), draft)
	assert.Equal(t, types.ErrNotConnected, err)
	assert.Equal(t, "t", c.Snapshot().Draft.Title)
	assert.Equal(t, types.ErrNotConnected, c.Refresh(context.Background()))
}

func TestController_ConcurrentFetchesWriteOwnFields(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)
	barrier := func() {
		started.Done()
		started.Wait()
	}
	proposals := fakeProposals(3)
	gov := &fakeGovernance{proposals: proposals, onList: barrier}
	token := &fakeToken{balance: big.NewInt(77), onCall: barrier}
	c := setupController(gov, token, nil)

	done := make(chan struct{})
	go func() {
		c.Init(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fetches were not issued concurrently")
	}

	s := c.Snapshot()
	assert.Equal(t, proposals, s.Proposals)
	assert.Equal(t, int64(77), s.Balance.Int64())
}

func TestController_SubmitSuccess(t *testing.T) {
	gov := &fakeGovernance{proposals: fakeProposals(1)}
	journal := &fakeJournal{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, journal)
	c.Init(context.Background())
	before := c.Snapshot()

	draft := types.ProposalDraft{Title: "Fund research", Description: "Allocate 10%", DurationSeconds: 3600, Key: before.Draft.Key}
	id, err := c.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), id)

	listCalls, submits := gov.counts()
	assert.Equal(t, 2, listCalls)
	assert.Equal(t, 1, submits)
	assert.Equal(t, int64(3600), gov.submits[0].DurationSeconds)

	s := c.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	require.Len(t, s.Proposals, 2)
	assert.Equal(t, "Fund research", s.Proposals[1].Title)
	assert.Equal(t, "", s.Draft.Title)
	assert.Equal(t, "", s.Draft.Description)
	assert.Equal(t, int64(60), s.Draft.DurationSeconds)
	assert.NotEqual(t, before.Draft.Key, s.Draft.Key)

	require.Len(t, journal.records, 1)
	assert.Equal(t, types.SubmissionOK, journal.records[0].Outcome)
	assert.Equal(t, "1", journal.records[0].ProposalID)
	assert.Equal(t, testPrincipal.Hex(), journal.records[0].Proposer)
}

func TestController_SubmitFailureKeepsDraft(t *testing.T) {
	proposals := fakeProposals(2)
	gov := &fakeGovernance{proposals: proposals, submitErr: errors.New("rejected")}
	journal := &fakeJournal{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, journal)
	c.Init(context.Background())

	draft := types.ProposalDraft{Title: "Title", Description: "Desc", DurationSeconds: 90, Key: "draft-key"}
	_, err := c.Submit(context.Background(), draft)
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, draft, s.Draft)
	assert.Equal(t, proposals, s.Proposals)
	assert.Equal(t, PhaseReady, s.Phase)
	listCalls, _ := gov.counts()
	assert.Equal(t, 1, listCalls)
	require.Len(t, journal.records, 1)
	assert.Equal(t, types.SubmissionFailed, journal.records[0].Outcome)
	assert.Contains(t, journal.records[0].Error, "rejected")

	// the same draft can be retried once the service recovers
	gov.mu.Lock()
	gov.submitErr = nil
	gov.mu.Unlock()
	_, err = c.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Len(t, c.Snapshot().Proposals, 3)
}

func TestController_SubmitReloadFailureKeepsState(t *testing.T) {
	proposals := fakeProposals(1)
	gov := &fakeGovernance{proposals: proposals}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, nil)
	c.Init(context.Background())

	gov.mu.Lock()
	gov.listErr = errors.New("query failed")
	gov.mu.Unlock()

	draft := types.ProposalDraft{Title: "Title", Description: "Desc", DurationSeconds: 90, Key: "k1"}
	id, err := c.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.Equal(t, big.NewInt(1), id)

	s := c.Snapshot()
	assert.Equal(t, draft, s.Draft)
	assert.Equal(t, proposals, s.Proposals)

	gov.mu.Lock()
	gov.listErr = nil
	gov.mu.Unlock()

	// the proposal exists, so an identical retry is refused
	_, err = c.Submit(context.Background(), draft)
	assert.Equal(t, types.ErrDuplicateSubmission, err)

	// an edited draft is a new proposal and gets its own key
	edited := draft
	edited.Description = "Desc, revised"
	c.SetDraft(edited)
	s = c.Snapshot()
	assert.NotEqual(t, "k1", s.Draft.Key)
	assert.Equal(t, edited.Description, s.Draft.Description)

	id, err = c.Submit(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), id)
	_, submits := gov.counts()
	assert.Equal(t, 2, submits)
	assert.Len(t, c.Snapshot().Proposals, 3)
}

func TestController_SubmitUnconfirmedKeepsKey(t *testing.T) {
	gov := &fakeGovernance{createErr: fmt.Errorf("tx 0xabc: %w", types.ErrTxPending)}
	journal := &fakeJournal{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, journal)
	c.Init(context.Background())

	draft := types.ProposalDraft{Title: "Title", Description: "Desc", DurationSeconds: 90, Key: "pending-key"}
	_, err := c.Submit(context.Background(), draft)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTxPending))
	assert.Equal(t, draft, c.Snapshot().Draft)

	gov.mu.Lock()
	gov.createErr = nil
	gov.mu.Unlock()

	_, err = c.Submit(context.Background(), draft)
	assert.Equal(t, types.ErrDuplicateSubmission, err)
	_, submits := gov.counts()
	assert.Equal(t, 1, submits)
	assert.Len(t, gov.proposals, 1)

	require.Len(t, journal.records, 2)
	assert.Equal(t, types.SubmissionFailed, journal.records[0].Outcome)
}

func TestController_SubmitOutlivesCaller(t *testing.T) {
	gov := &fakeGovernance{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, nil)
	c.Init(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	id, err := c.Submit(ctx, types.ProposalDraft{Title: "a", Description: "b", DurationSeconds: 1, Key: "k1"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), id)

	gov.mu.Lock()
	defer gov.mu.Unlock()
	assert.NoError(t, gov.ctxErr)
}

func TestController_DuplicateSubmission(t *testing.T) {
	gov := &fakeGovernance{}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, nil)
	c.Init(context.Background())

	draft := types.ProposalDraft{Title: "Title", Description: "Desc", DurationSeconds: 90, Key: "same-key"}
	_, err := c.Submit(context.Background(), draft)
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), draft)
	assert.Equal(t, types.ErrDuplicateSubmission, err)
	_, submits := gov.counts()
	assert.Equal(t, 1, submits)
	assert.Equal(t, draft, c.Snapshot().Draft)
}

func TestController_SubmitInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gov := &fakeGovernance{}
	gov.onSubmit = func() {
		close(entered)
		<-release
	}
	c := setupController(gov, &fakeToken{balance: big.NewInt(5)}, nil)
	c.Init(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), types.ProposalDraft{Title: "a", Description: "b", DurationSeconds: 1, Key: "k1"})
		errCh <- err
	}()
	<-entered
	assert.Equal(t, PhaseSubmitting, c.Phase())

	_, err := c.Submit(context.Background(), types.ProposalDraft{Title: "a", Description: "b", DurationSeconds: 1, Key: "k2"})
	assert.Equal(t, types.ErrSubmitInFlight, err)

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestController_SetDraftKeepsKey(t *testing.T) {
	c := setupController(&fakeGovernance{}, &fakeToken{balance: big.NewInt(0)}, nil)
	key := c.Snapshot().Draft.Key

	c.SetDraft(types.ProposalDraft{Title: "typing", DurationSeconds: 120})
	s := c.Snapshot()
	assert.Equal(t, "typing", s.Draft.Title)
	assert.Equal(t, int64(120), s.Draft.DurationSeconds)
	assert.Equal(t, key, s.Draft.Key)
}

func TestController_Refresh(t *testing.T) {
	gov := &fakeGovernance{proposals: fakeProposals(1)}
	token := &fakeToken{balance: big.NewInt(1)}
	c := setupController(gov, token, nil)
	c.Init(context.Background())

	gov.mu.Lock()
	gov.proposals = fakeProposals(3)
	gov.mu.Unlock()
	token.balance = big.NewInt(2)

	require.NoError(t, c.Refresh(context.Background()))
	s := c.Snapshot()
	assert.Len(t, s.Proposals, 3)
	assert.Equal(t, int64(2), s.Balance.Int64())
}

func TestController_SnapshotIsACopy(t *testing.T) {
	c := setupController(&fakeGovernance{proposals: fakeProposals(1)}, &fakeToken{balance: big.NewInt(10)}, nil)
	c.Init(context.Background())

	s := c.Snapshot()
	s.Balance.SetInt64(999)
	s.Proposals[0].Title = "mutated"

	fresh := c.Snapshot()
	assert.Equal(t, int64(10), fresh.Balance.Int64())
	assert.NotEqual(t, "mutated", fresh.Proposals[0].Title)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	text, err := PhaseBootstrapping.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "bootstrapping", string(text))
}
