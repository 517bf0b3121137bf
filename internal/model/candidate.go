package model

import "github.com/ethereum/go-ethereum/common"

// CandidateKind tags how an arbitrage candidate was recognized.
type CandidateKind string

const (
	// CandidateCrossDex covers transactions swapping on two or more pools
	// of one configured tracked pair.
	CandidateCrossDex CandidateKind = "CrossDex"
	// CandidateMultiDex covers transactions swapping on two or more
	// distinct pools regardless of tracked-pair membership.
	CandidateMultiDex CandidateKind = "MultiDex"
	// CandidateCexDex covers block-boundary CEX-vs-DEX discrepancies.
	CandidateCexDex CandidateKind = "CexDex"
)

// ArbCandidate is one suspected arbitrage transaction. Ephemeral: built
// per evaluation and never mutated afterwards.
type ArbCandidate struct {
	TxHash      common.Hash      `json:"tx_hash"`
	BlockNumber uint64           `json:"block_number"`
	TxIndex     uint64           `json:"tx_index"`
	Pools       []common.Address `json:"pools"`
	SpreadBps   uint64           `json:"spread_bps"`
	Kind        CandidateKind    `json:"kind"`
}
