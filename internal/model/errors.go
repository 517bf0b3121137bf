package model

import "errors"

// Sentinel errors for the detector taxonomy. Decode-time errors are
// per-item; classification-time errors become terminal non-actionable
// states rather than propagating.
var (
	// ErrMalformedLog marks a log or storage payload with an unexpected
	// byte width. Fatal for that single event only.
	ErrMalformedLog = errors.New("malformed log")

	// ErrIlliquidPool marks a pool with a zero reserve or zero price.
	// The pool is excluded from the current evaluation, not retried.
	ErrIlliquidPool = errors.New("illiquid pool")

	// ErrStaleCexData marks a CEX sample whose timestamp is too far from
	// the block under evaluation.
	ErrStaleCexData = errors.New("stale cex data")

	// ErrUnknownToken marks a token address missing from the registry.
	// Fails the specific pool construction, not the whole batch.
	ErrUnknownToken = errors.New("unknown token")
)
