package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"arbScope/internal/arb"
	"arbScope/internal/chain"
	"arbScope/internal/dex"
	"arbScope/internal/model"
	"arbScope/internal/price"
	"arbScope/internal/registry"
	"arbScope/internal/spread"
	"arbScope/internal/storage"
)

// RunConfig controls one scan run.
type RunConfig struct {
	FromBlock uint64
	// ToBlock of zero means scan up to the chain head.
	ToBlock   uint64
	Addresses []common.Address
	BatchSize uint64

	CheckpointPath    string
	CheckpointEnabled bool

	MaxRetries   int
	RetryBackoff time.Duration

	// EnrichSpreads turns on pre-state spread computation for CrossDex
	// candidates. It costs extra storage reads per candidate.
	EnrichSpreads bool
}

// Runner scans a block range for swap logs, decodes them, aggregates
// arbitrage candidates per transaction, and persists results batch by
// batch with checkpoint-based resume.
type Runner struct {
	cfg        RunConfig
	client     *chain.Client
	decoder    *dex.SwapDecoder
	aggregator *arb.Aggregator
	tokens     *registry.Registry
	candidates storage.CandidateSink
	decodeErrs storage.DecodeErrorSink
	checkpoint *CheckpointStore
	logger     *zap.Logger

	// sampleCache memoizes pre-state prices per pool and block within a
	// run, since tracked venues recur across candidates.
	sampleCache map[sampleKey]model.PriceSample
}

type sampleKey struct {
	pool  common.Address
	block uint64
}

// NewRunner wires a runner. The decode error sink may be nil; decode
// failures are then only counted.
func NewRunner(
	cfg RunConfig,
	client *chain.Client,
	aggregator *arb.Aggregator,
	tokens *registry.Registry,
	candidates storage.CandidateSink,
	decodeErrs storage.DecodeErrorSink,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:         cfg,
		client:      client,
		decoder:     dex.NewSwapDecoder(),
		aggregator:  aggregator,
		tokens:      tokens,
		candidates:  candidates,
		decodeErrs:  decodeErrs,
		checkpoint:  NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
		logger:      logger,
		sampleCache: make(map[sampleKey]model.PriceSample),
	}
}

// Run executes the scan over the configured range.
func (r *Runner) Run(ctx context.Context) error {
	chainID, err := r.client.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		to, err = r.client.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
	}

	if cp, ok, err := r.checkpoint.Load(); err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	} else if ok && cp.LastScannedBlock+1 > from {
		r.logger.Info("resuming from checkpoint",
			zap.Uint64("last_scanned_block", cp.LastScannedBlock),
		)
		from = cp.LastScannedBlock + 1
	}

	if from > to {
		r.logger.Info("nothing to scan",
			zap.Uint64("from", from),
			zap.Uint64("to", to),
		)
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("split range: %w", err)
	}

	r.logger.Info("scan started",
		zap.Uint64("chain_id", chainID.Uint64()),
		zap.Uint64("from", from),
		zap.Uint64("to", to),
		zap.Int("batches", len(ranges)),
		zap.Int("addresses", len(r.cfg.Addresses)),
	)

	for _, batch := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.scanBatch(ctx, chainID.Uint64(), batch); err != nil {
			return fmt.Errorf("scan batch [%d,%d]: %w", batch.From, batch.To, err)
		}
		if err := r.checkpoint.Save(batch.To); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}

	r.logger.Info("scan finished", zap.Uint64("last_scanned_block", to))
	return nil
}

func (r *Runner) scanBatch(ctx context.Context, chainID uint64, batch BlockRange) error {
	started := time.Now()

	var logs []types.Log
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = r.client.FilterLogs(ctx, batch.From, batch.To, r.cfg.Addresses,
			[]common.Hash{dex.TopicV2Swap, dex.TopicV3Swap})
		return err
	})
	if err != nil {
		return fmt.Errorf("filter logs: %w", err)
	}

	events := make([]model.SwapEventRecord, 0, len(logs))
	var decodeErrors []model.DecodeError
	for _, log := range logs {
		if log.Removed {
			continue
		}
		timestamp, err := r.client.BlockTimestamp(ctx, log.BlockNumber)
		if err != nil {
			return fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
		}

		record := buildLogRecord(chainID, log, timestamp)
		event, err := r.decoder.Decode(record)
		if err != nil {
			decodeErrors = append(decodeErrors, decodeErrorFromRecord(record, err))
			continue
		}
		events = append(events, *event)
	}

	candidates := r.aggregator.Aggregate(events)
	if r.cfg.EnrichSpreads {
		for i := range candidates {
			r.enrichSpread(ctx, &candidates[i])
		}
	}

	if len(candidates) > 0 && r.candidates != nil {
		if err := r.candidates.PutCandidates(candidates); err != nil {
			return fmt.Errorf("store candidates: %w", err)
		}
	}
	if len(decodeErrors) > 0 && r.decodeErrs != nil {
		if err := r.decodeErrs.PutDecodeErrors(decodeErrors); err != nil {
			return fmt.Errorf("store decode errors: %w", err)
		}
	}

	r.logger.Info("batch scanned",
		zap.Uint64("from", batch.From),
		zap.Uint64("to", batch.To),
		zap.Int("logs", len(logs)),
		zap.Int("swaps", len(events)),
		zap.Int("candidates", len(candidates)),
		zap.Int("decode_errors", len(decodeErrors)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return nil
}

// enrichSpread fills SpreadBps for CrossDex candidates from the tracked
// pair's pre-state prices, taken one block before the transaction
// landed. Venues whose state cannot be priced are skipped; the spread
// stays zero when fewer than two venues price. Only V2 venues
// contribute: their reserves slot is readable without knowing the fee
// tier, and a V3 pool reads as illiquid there and drops out.
func (r *Runner) enrichSpread(ctx context.Context, candidate *model.ArbCandidate) {
	if candidate.Kind != model.CandidateCrossDex || candidate.BlockNumber == 0 {
		return
	}
	pair, ok := r.aggregator.TrackedPairFor(candidate.Pools)
	if !ok {
		return
	}

	touched := make(map[common.Address]struct{}, len(candidate.Pools))
	for _, pool := range candidate.Pools {
		touched[pool] = struct{}{}
	}

	preBlock := candidate.BlockNumber - 1
	samples := make([]model.PriceSample, 0, len(pair.Pools))
	for _, venue := range pair.Pools {
		if _, ok := touched[venue]; !ok {
			continue
		}
		sample, err := r.preStateSample(ctx, venue, preBlock)
		if err != nil {
			r.logger.Debug("pre-state price unavailable",
				zap.String("pool", venue.Hex()),
				zap.Uint64("block", preBlock),
				zap.Error(err),
			)
			continue
		}
		samples = append(samples, sample)
	}
	if len(samples) < 2 {
		return
	}

	var maxSpread uint64
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			spreadBps, err := spread.SpreadBps(samples[i], samples[j])
			if err != nil {
				continue
			}
			if spreadBps > maxSpread {
				maxSpread = spreadBps
			}
		}
	}
	candidate.SpreadBps = maxSpread
}

func (r *Runner) preStateSample(ctx context.Context, pool common.Address, block uint64) (model.PriceSample, error) {
	key := sampleKey{pool: pool, block: block}
	if sample, ok := r.sampleCache[key]; ok {
		return sample, nil
	}

	token0, token1, err := dex.FetchPoolTokens(ctx, r.client, pool)
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("pool tokens: %w", err)
	}
	reserve0, reserve1, lastTs, err := dex.FetchV2Reserves(ctx, r.client, pool, block)
	if err != nil {
		return model.PriceSample{}, fmt.Errorf("reserves: %w", err)
	}

	snapshot, err := r.tokens.NewV2Pool(pool, token0, token1, reserve0, reserve1, lastTs)
	if err != nil {
		return model.PriceSample{}, err
	}
	sample, err := price.PriceOf(snapshot)
	if err != nil {
		return model.PriceSample{}, err
	}

	r.sampleCache[key] = sample
	return sample, nil
}
