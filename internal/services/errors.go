package services

import "errors"

var (
	// ErrInputRejected covers empty submissions and input received out of turn.
	ErrInputRejected = errors.New("input rejected")
	// ErrUpstream wraps failures of the reply and transcription services.
	ErrUpstream = errors.New("upstream service error")
	// ErrLedgerWrite wraps best-effort verdict recording failures.
	ErrLedgerWrite     = errors.New("ledger write failed")
	ErrSessionNotFound = errors.New("session not found")
	ErrNothingPending  = errors.New("no pending messages")
	ErrInvalidState    = errors.New("action not allowed in current state")
	ErrNotConfigured   = errors.New("service not configured")
)
