package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"arbScope/internal/cex"
	"arbScope/internal/chain"
	"arbScope/internal/config"
	"arbScope/internal/detect"
	"arbScope/internal/dex"
	"arbScope/internal/model"
	"arbScope/internal/registry"
	"arbScope/internal/scan"
	"arbScope/internal/storage"
	"arbScope/internal/storage/postgres"
)

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEvaluate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Block == 0 {
		return fmt.Errorf("block is required")
	}

	v2Pools, err := scan.ParseAddresses(cfg.V2Pools)
	if err != nil {
		return err
	}
	v3Pools, err := scan.ParseAddresses(cfg.V3Pools)
	if err != nil {
		return err
	}
	total := len(v2Pools) + len(v3Pools)
	if total == 0 {
		return fmt.Errorf("at least one pool is required")
	}
	if total < 2 && cfg.CexSeries == "" {
		return fmt.Errorf("need two pools or a cex series to compare against")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	// State is read one block before the block under analysis so the
	// comparison sees what a trader saw entering that block.
	preBlock := cfg.Block - 1
	blockTs, err := chainClient.BlockTimestamp(ctx, preBlock)
	if err != nil {
		return fmt.Errorf("block timestamp %d: %w", preBlock, err)
	}

	tokens := registry.Default()
	pools := make([]model.Pool, 0, total)
	for _, address := range v2Pools {
		pool, updated, err := loadV2Pool(ctx, chainClient, tokens, address, preBlock)
		if err != nil {
			return fmt.Errorf("load v2 pool %s: %w", address.Hex(), err)
		}
		tokens = updated
		pools = append(pools, pool)
	}
	for _, address := range v3Pools {
		pool, updated, err := loadV3Pool(ctx, chainClient, tokens, address, preBlock)
		if err != nil {
			return fmt.Errorf("load v3 pool %s: %w", address.Hex(), err)
		}
		tokens = updated
		pools = append(pools, pool)
	}

	var cexSample *detect.CexSample
	if cfg.CexSeries != "" {
		series, err := cex.LoadCSV(cfg.CexSeries, "cex")
		if err != nil {
			return err
		}
		point, ok := series.Nearest(blockTs)
		if !ok {
			return fmt.Errorf("cex series %s is empty", cfg.CexSeries)
		}
		cexSample = &detect.CexSample{Sample: point.Sample(), Timestamp: point.Timestamp}
	}

	// All supplied pools are treated as venues of one pair so every
	// combination is compared.
	trackedPairs := []registry.TrackedPair{{Name: "evaluate", Pools: poolAddresses(pools)}}

	evaluator := detect.NewEvaluator(cfg.Thresholds, logger)
	classifications := evaluator.Evaluate(cfg.Block, blockTs, pools, trackedPairs, cexSample)

	encoder := json.NewEncoder(os.Stdout)
	for _, classification := range classifications {
		if err := encoder.Encode(classification); err != nil {
			return fmt.Errorf("encode classification: %w", err)
		}
	}

	if cfg.Out != "" {
		if err := storage.NewJsonlFile(cfg.Out).PutClassifications(classifications); err != nil {
			return err
		}
	}
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.PutClassifications(classifications); err != nil {
			return err
		}
	}

	logger.Info("evaluate complete",
		zap.Uint64("block", cfg.Block),
		zap.Int("pools", len(pools)),
		zap.Int("classifications", len(classifications)),
	)

	return nil
}

func loadV2Pool(ctx context.Context, client *chain.Client, tokens *registry.Registry, address common.Address, block uint64) (model.Pool, *registry.Registry, error) {
	token0, token1, err := dex.FetchPoolTokens(ctx, client, address)
	if err != nil {
		return model.Pool{}, tokens, err
	}
	tokens, err = ensureTokens(ctx, client, tokens, token0, token1)
	if err != nil {
		return model.Pool{}, tokens, err
	}

	reserve0, reserve1, lastTs, err := dex.FetchV2Reserves(ctx, client, address, block)
	if err != nil {
		return model.Pool{}, tokens, err
	}

	pool, err := tokens.NewV2Pool(address, token0, token1, reserve0, reserve1, lastTs)
	return pool, tokens, err
}

func loadV3Pool(ctx context.Context, client *chain.Client, tokens *registry.Registry, address common.Address, block uint64) (model.Pool, *registry.Registry, error) {
	token0, token1, err := dex.FetchPoolTokens(ctx, client, address)
	if err != nil {
		return model.Pool{}, tokens, err
	}
	tokens, err = ensureTokens(ctx, client, tokens, token0, token1)
	if err != nil {
		return model.Pool{}, tokens, err
	}

	sqrtPrice, err := dex.FetchV3SqrtPrice(ctx, client, address, block)
	if err != nil {
		return model.Pool{}, tokens, err
	}

	pool, err := tokens.NewV3Pool(address, token0, token1, sqrtPrice, 0)
	return pool, tokens, err
}

// ensureTokens extends the registry with live ERC-20 metadata for tokens
// outside the built-in set.
func ensureTokens(ctx context.Context, client *chain.Client, tokens *registry.Registry, addresses ...common.Address) (*registry.Registry, error) {
	for _, address := range addresses {
		if _, err := tokens.Token(address); err == nil {
			continue
		}
		meta, err := dex.FetchTokenMeta(ctx, client, address)
		if err != nil {
			return tokens, fmt.Errorf("token metadata %s: %w", address.Hex(), err)
		}
		tokens = tokens.Add(meta)
	}
	return tokens, nil
}

func poolAddresses(pools []model.Pool) []common.Address {
	out := make([]common.Address, 0, len(pools))
	for _, pool := range pools {
		out = append(out, pool.Address)
	}
	return out
}
