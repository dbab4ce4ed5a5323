// Package types
package types

import (
	"errors"
)

var ErrNotConnected = errors.New("session not connected")
var ErrAnonymousIdentity = errors.New("anonymous identity cannot sign")
var ErrNoChainID = errors.New("chain id unknown")
var ErrInvalidAddress = errors.New("invalid address")

var ErrInvalidDraft = errors.New("title and description are required and duration must be positive")
var ErrSubmitInFlight = errors.New("a submission is already in flight")
var ErrDuplicateSubmission = errors.New("draft already submitted")
var ErrTxReverted = errors.New("transaction reverted")

// ErrTxPending marks a transaction that was broadcast but whose receipt never arrived.
var ErrTxPending = errors.New("transaction sent but not confirmed")
var ErrEmptyResult = errors.New("empty result")
