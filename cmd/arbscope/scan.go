package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"arbScope/internal/arb"
	"arbScope/internal/chain"
	"arbScope/internal/config"
	"arbScope/internal/registry"
	"arbScope/internal/scan"
	"arbScope/internal/storage"
	"arbScope/internal/storage/postgres"
)

func runScan(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScan(cfgFile, cmd.Flags())
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

	trackedPairs := registry.DefaultTrackedPairs()
	if len(cfg.TrackedPairs) > 0 {
		trackedPairs, err = registry.ParseTrackedPairs(cfg.TrackedPairs)
		if err != nil {
			return err
		}
	}

	addresses, err := scan.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		addresses = trackedPairVenues(trackedPairs)
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var candidateSink storage.CandidateSink
	if cfg.PgDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		candidateSink = store
	} else {
		candidateSink = storage.NewJsonlFile(cfg.Out)
	}
	errorSink := storage.NewJsonlFile(cfg.Errors)

	aggregator := arb.NewAggregator(trackedPairs, logger)
	runner := scan.NewRunner(scan.RunConfig{
		FromBlock:         cfg.FromBlock,
		ToBlock:           cfg.ToBlock,
		Addresses:         addresses,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
		EnrichSpreads:     cfg.EnrichSpreads,
	}, chainClient, aggregator, registry.Default(), candidateSink, errorSink, logger)

	logger.Info("scan start",
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("addresses", len(addresses)),
		zap.Int("tracked_pairs", len(trackedPairs)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.Bool("enrich_spreads", cfg.EnrichSpreads),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	return runner.Run(ctx)
}

func trackedPairVenues(pairs []registry.TrackedPair) []common.Address {
	seen := make(map[common.Address]struct{})
	var out []common.Address
	for _, pair := range pairs {
		for _, pool := range pair.Pools {
			if _, ok := seen[pool]; ok {
				continue
			}
			seen[pool] = struct{}{}
			out = append(out, pool)
		}
	}
	return out
}
