package view

import (
	"math/big"
	"time"

	"github.com/M-QiiQ/TMU-AI-DAO/dashboard"
	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

const (
	AppName  = "TMU-AI-DAO"
	AppTitle = "Governance Dashboard"

	EmptyProposals     = "No proposals yet."
	AlertSubmitFailed  = "Failed to submit proposal. Check the server log."
	AlertSubmitPending = "Proposal sent but not confirmed yet. Refresh shortly to see it."
)

type ProposalRow struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VotesYes    string `json:"votesYes"`
	VotesNo     string `json:"votesNo"`
	Deadline    string `json:"deadline"`
	// DeadlineNs is the raw nanosecond value in decimal.
	DeadlineNs  string `json:"deadlineNs"`
}

// Page is everything a renderer needs, already formatted.
type Page struct {
	Name       string
	Title      string
	Phase      string
	Connected  bool
	Trusted    bool
	Principal  string
	Balance    string
	Proposals  []ProposalRow
	Draft      types.ProposalDraft
	Submitting bool
	Alert      string
}

func NewPage(s dashboard.Snapshot) *Page {
	return NewPageIn(s, time.Local)
}

// NewPageIn builds the page with deadlines rendered in loc. Rows keep the order of the
// snapshot.
func NewPageIn(s dashboard.Snapshot, loc *time.Location) *Page {
	p := &Page{
		Name:       AppName,
		Title:      AppTitle,
		Phase:      s.Phase.String(),
		Connected:  s.Connected,
		Trusted:    s.Trusted,
		Balance:    BalanceString(s.Balance),
		Proposals:  make([]ProposalRow, 0, len(s.Proposals)),
		Draft:      s.Draft,
		Submitting: s.Phase == dashboard.PhaseSubmitting,
	}
	if s.Connected {
		p.Principal = s.Principal.Hex()
	}
	for _, proposal := range s.Proposals {
		if proposal == nil {
			continue
		}
		p.Proposals = append(p.Proposals, ProposalRow{
			Title:       proposal.Title,
			Description: proposal.Description,
			VotesYes:    intText(proposal.VotesYes),
			VotesNo:     intText(proposal.VotesNo),
			Deadline:    FmtDeadlineIn(proposal.Deadline, loc),
			DeadlineNs:  intText(proposal.Deadline),
		})
	}
	return p
}

// WithAlert sets the blocking message shown after a failed submit.
func (p *Page) WithAlert(msg string) *Page {
	p.Alert = msg
	return p
}

func intText(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
