// Package types
package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProposalDraft_Validate(t *testing.T) {
	type testCase struct {
		name  string
		draft ProposalDraft
		valid bool
	}
	cases := []testCase{
		{name: "complete", draft: ProposalDraft{Title: "t", Description: "d", DurationSeconds: 1}, valid: true},
		{name: "missing title", draft: ProposalDraft{Description: "d", DurationSeconds: 60}},
		{name: "blank description", draft: ProposalDraft{Title: "t", Description: "   ", DurationSeconds: 60}},
		{name: "zero duration", draft: ProposalDraft{Title: "t", Description: "d"}},
		{name: "negative duration", draft: ProposalDraft{Title: "t", Description: "d", DurationSeconds: -5}},
		{name: "no upper bound", draft: ProposalDraft{Title: "t", Description: "d", DurationSeconds: 1 << 62}, valid: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.draft.Validate()
			if c.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, ErrInvalidDraft, err)
		})
	}
}

func TestNewDraft(t *testing.T) {
	a, b := NewDraft(), NewDraft()
	assert.Equal(t, "", a.Title)
	assert.Equal(t, "", a.Description)
	assert.Equal(t, int64(DefaultDurationSeconds), a.DurationSeconds)
	assert.NotEmpty(t, a.Key)
	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, big.NewInt(60), a.Duration())
}

func TestProposalView_Copy(t *testing.T) {
	p := &ProposalView{Title: "t", VotesYes: big.NewInt(3), VotesNo: big.NewInt(1), Deadline: big.NewInt(9)}
	c := p.Copy()
	assert.Equal(t, p, c)

	c.VotesYes.SetInt64(100)
	assert.Equal(t, int64(3), p.VotesYes.Int64())
	assert.Nil(t, (*ProposalView)(nil).Copy())
}

func TestProposalDraft_SameContent(t *testing.T) {
	d := ProposalDraft{Title: "t", Description: "d", DurationSeconds: 60, Key: "a"}
	assert.True(t, d.SameContent(ProposalDraft{Title: "t", Description: "d", DurationSeconds: 60, Key: "b"}))
	assert.False(t, d.SameContent(ProposalDraft{Title: "t", Description: "d2", DurationSeconds: 60, Key: "a"}))
	assert.False(t, d.SameContent(ProposalDraft{Title: "t", Description: "d", DurationSeconds: 61, Key: "a"}))
}
