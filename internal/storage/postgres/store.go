package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbScope/internal/model"
)

// Store provides Postgres persistence for scan output.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutCandidates inserts or updates arbitrage candidates keyed by
// transaction hash.
func (s *Store) PutCandidates(candidates []model.ArbCandidate) error {
	if len(candidates) == 0 {
		return nil
	}
	ctx := context.Background()

	batch := &pgx.Batch{}
	for _, candidate := range candidates {
		pools := make([]string, 0, len(candidate.Pools))
		for _, pool := range candidate.Pools {
			pools = append(pools, pool.Hex())
		}
		batch.Queue(`
			INSERT INTO arb_candidates (
				tx_hash, block_number, tx_index, pools, spread_bps, kind, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (tx_hash)
			DO UPDATE SET
				pools = EXCLUDED.pools,
				spread_bps = GREATEST(arb_candidates.spread_bps, EXCLUDED.spread_bps),
				kind = EXCLUDED.kind,
				updated_at = now()
		`,
			candidate.TxHash.Hex(),
			int64(candidate.BlockNumber),
			int64(candidate.TxIndex),
			pools,
			spreadBpsColumn(candidate.SpreadBps),
			string(candidate.Kind),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range candidates {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutClassifications inserts or updates pair classifications keyed by
// block and pool pair.
func (s *Store) PutClassifications(classifications []model.Classification) error {
	if len(classifications) == 0 {
		return nil
	}
	ctx := context.Background()

	batch := &pgx.Batch{}
	for _, c := range classifications {
		batch.Queue(`
			INSERT INTO pair_classifications (
				block_number, pool_a, pool_b, cex_dex, spread_bps, status, price_a, price_b, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
			ON CONFLICT (block_number, pool_a, pool_b, cex_dex)
			DO UPDATE SET
				spread_bps = EXCLUDED.spread_bps,
				status = EXCLUDED.status,
				price_a = EXCLUDED.price_a,
				price_b = EXCLUDED.price_b,
				updated_at = now()
		`,
			int64(c.BlockNumber),
			c.PoolA.Hex(),
			c.PoolB.Hex(),
			c.CexDex,
			spreadBpsColumn(c.SpreadBps),
			string(c.Status),
			c.PriceA,
			c.PriceB,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range classifications {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// spreadBpsColumn clamps a saturated spread to what a bigint column can
// hold. SpreadBps saturates at MaxUint64, which would wrap to -1.
func spreadBpsColumn(spreadBps uint64) int64 {
	if spreadBps > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(spreadBps)
}

// PutDecodeErrors records decode failures for later inspection.
func (s *Store) PutDecodeErrors(errors []model.DecodeError) error {
	if len(errors) == 0 {
		return nil
	}
	ctx := context.Background()

	batch := &pgx.Batch{}
	for _, e := range errors {
		batch.Queue(`
			INSERT INTO decode_errors (
				block_number, tx_hash, log_index, address, topic0, error, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (tx_hash, log_index) DO NOTHING
		`,
			int64(e.BlockNumber),
			e.TxHash,
			int64(e.LogIndex),
			e.Address,
			e.Topic0,
			e.Error,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range errors {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
