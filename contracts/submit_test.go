package contracts

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/agent"
	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

const testIdentityKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// setupSigningGovernance wires a governance client to chain through a session that
// learns its chain id from the node.
func setupSigningGovernance(t *testing.T, chain *fakeChain, timeout time.Duration, m *metrics.Collector) (*GovernanceClient, *agent.Session) {
	session, err := agent.NewSession(setupRPC(t, chain), agent.Config{IdentityKey: testIdentityKey, Logger: zap.NewNop()})
	require.NoError(t, err)
	session.FetchTrustMaterial(context.Background())
	require.True(t, session.Trusted())

	gov, err := NewGovernance(Config{
		Address: testGovernance,
		Backend: session.Backend(),
		Signer:  session,
		Timeout: timeout,
		Metrics: m,
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	return gov, session
}

func TestGovernance_SubmitProposal(t *testing.T) {
	chain := newFakeChain()
	m := metrics.New()
	gov, session := setupSigningGovernance(t, chain, 0, m)

	id, err := gov.SubmitProposal(context.Background(), "Fund the lab", "Buy two GPUs", big.NewInt(60))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), id)

	sent := chain.sentProposals()
	require.Len(t, sent, 1)
	assert.Equal(t, session.Principal(), sent[0].From)
	assert.Equal(t, "Fund the lab", sent[0].Title)
	assert.Equal(t, "Buy two GPUs", sent[0].Description)
	assert.Equal(t, int64(60), sent[0].Duration.Int64())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls().WithLabelValues(ServiceGovernance, MethodSubmitProposal, metrics.OutcomeOK)))

	id, err = gov.SubmitProposal(context.Background(), "Second", "Nonce moves on", big.NewInt(120))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), id)
}

func TestGovernance_SubmitProposalReverted(t *testing.T) {
	chain := newFakeChain()
	chain.outcome = mineReverted
	gov, _ := setupSigningGovernance(t, chain, 0, nil)

	id, err := gov.SubmitProposal(context.Background(), "t", "d", big.NewInt(60))
	assert.Nil(t, id)
	assert.True(t, errors.Is(err, types.ErrTxReverted))
	assert.False(t, errors.Is(err, types.ErrTxPending))
}

func TestGovernance_SubmitProposalWithoutEvent(t *testing.T) {
	chain := newFakeChain()
	chain.outcome = mineWithoutEvent
	gov, _ := setupSigningGovernance(t, chain, 0, nil)

	id, err := gov.SubmitProposal(context.Background(), "t", "d", big.NewInt(60))
	assert.NoError(t, err)
	assert.Nil(t, id)
	assert.Len(t, chain.sentProposals(), 1)
}

func TestGovernance_SubmitProposalUnconfirmed(t *testing.T) {
	chain := newFakeChain()
	chain.outcome = neverMined
	gov, _ := setupSigningGovernance(t, chain, 200*time.Millisecond, nil)

	id, err := gov.SubmitProposal(context.Background(), "t", "d", big.NewInt(60))
	assert.Nil(t, id)
	assert.True(t, errors.Is(err, types.ErrTxPending))
	assert.Len(t, chain.sentProposals(), 1)
}

func TestGovernance_SubmitProposalNoChainID(t *testing.T) {
	chain := newFakeChain()
	session, err := agent.NewSession(setupRPC(t, chain), agent.Config{IdentityKey: testIdentityKey, Logger: zap.NewNop()})
	require.NoError(t, err)
	gov, err := NewGovernance(Config{Address: testGovernance, Backend: session.Backend(), Signer: session, Logger: zap.NewNop()})
	require.NoError(t, err)

	_, err = gov.SubmitProposal(context.Background(), "t", "d", big.NewInt(60))
	assert.Equal(t, types.ErrNoChainID, err)
	assert.Empty(t, chain.sentProposals())
}
