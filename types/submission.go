// Package types
package types

import "time"

const (
	SubmissionOK     = "ok"
	SubmissionFailed = "failed"
)

// Submission is one journaled submit attempt.
type Submission struct {
	Key             string    `json:"key" bson:"key"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	DurationSeconds int64     `json:"duration" bson:"duration"`
	Proposer        string    `json:"proposer" bson:"proposer"`
	ProposalID      string    `json:"proposalId,omitempty" bson:"proposalId,omitempty"`
	Outcome         string    `json:"outcome" bson:"outcome"`
	Error           string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
