// Package types
package types

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// DefaultDurationSeconds is the duration a fresh draft starts with.
const DefaultDurationSeconds = 60

// ProposalView is a read-only snapshot of one governance proposal as the governance contract returned it.
type ProposalView struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VotesYes    *big.Int `json:"votesYes"`
	VotesNo     *big.Int `json:"votesNo"`
	// Deadline is nanoseconds since epoch, the contract's native unit.
	Deadline *big.Int `json:"deadline"`
}

func (p *ProposalView) Copy() *ProposalView {
	if p == nil {
		return nil
	}
	return &ProposalView{
		Title:       p.Title,
		Description: p.Description,
		VotesYes:    copyInt(p.VotesYes),
		VotesNo:     copyInt(p.VotesNo),
		Deadline:    copyInt(p.Deadline),
	}
}

// ProposalDraft is the transient state of the submission form.
type ProposalDraft struct {
	Title           string `json:"title" form:"title"`
	Description     string `json:"description" form:"description"`
	DurationSeconds int64  `json:"duration" form:"duration"`
	// Key identifies one fill of the form so a resubmitted draft is recognised.
	Key string `json:"key" form:"key"`
}

// NewDraft returns the default form state with a fresh submission key.
func NewDraft() ProposalDraft {
	return ProposalDraft{
		DurationSeconds: DefaultDurationSeconds,
		Key:             uuid.New().String(),
	}
}

// Validate applies the form constraints: both texts present, duration positive.
func (d ProposalDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return ErrInvalidDraft
	}
	if d.DurationSeconds < 1 {
		return ErrInvalidDraft
	}
	return nil
}

// SameContent reports whether d and o describe the same proposal, ignoring the key.
func (d ProposalDraft) SameContent(o ProposalDraft) bool {
	return d.Title == o.Title && d.Description == o.Description && d.DurationSeconds == o.DurationSeconds
}

// Duration returns the duration as the arbitrary precision integer the contract takes.
func (d ProposalDraft) Duration() *big.Int {
	return big.NewInt(d.DurationSeconds)
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
