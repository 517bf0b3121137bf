package storage

import "arbScope/internal/model"

// CandidateSink receives aggregated arbitrage candidates.
type CandidateSink interface {
	PutCandidates(candidates []model.ArbCandidate) error
}

// ClassificationSink receives per-pair spread classifications.
type ClassificationSink interface {
	PutClassifications(classifications []model.Classification) error
}

// DecodeErrorSink receives per-item decode failures.
type DecodeErrorSink interface {
	PutDecodeErrors(errors []model.DecodeError) error
}
