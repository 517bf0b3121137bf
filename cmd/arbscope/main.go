package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "arbscope",
		Short:        "On-chain arbitrage opportunity detector",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a block range for arbitrage candidates",
		RunE:  runScan,
	}

	scanCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	scanCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	scanCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	scanCmd.Flags().StringSlice("address", nil, "pool addresses to scan (comma-separated); defaults to tracked pair venues")
	scanCmd.Flags().StringSlice("tracked-pair", nil, "tracked pairs as name=addr1+addr2 (comma-separated)")
	scanCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	scanCmd.Flags().String("out", "./data/candidates.jsonl", "candidates JSONL path")
	scanCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL path")
	scanCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	scanCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	scanCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	scanCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	scanCmd.Flags().Bool("enrich-spreads", true, "compute pre-state spreads for CrossDex candidates")
	scanCmd.Flags().String("pg-dsn", "", "Postgres DSN (writes candidates to Postgres instead of JSONL)")
	scanCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scanCmd)

	evaluateCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Classify pool spreads at one block",
		RunE:  runEvaluate,
	}

	evaluateCmd.Flags().String("rpc", "", "Ethereum RPC URL")
	evaluateCmd.Flags().Uint64("block", 0, "block under analysis; state is read one block earlier")
	evaluateCmd.Flags().StringSlice("v2-pool", nil, "V2 pair addresses (comma-separated)")
	evaluateCmd.Flags().StringSlice("v3-pool", nil, "V3 pool addresses (comma-separated)")
	evaluateCmd.Flags().String("cex-series", "", "CSV of timestamp,price CEX observations")
	evaluateCmd.Flags().String("out", "", "optional classifications JSONL path")
	evaluateCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for classifications")
	evaluateCmd.Flags().Uint64("prefilter-bps", 10, "ignore spreads strictly below this")
	evaluateCmd.Flags().Uint64("fee-floor-bps", 60, "round-trip AMM fee floor")
	evaluateCmd.Flags().Uint64("cex-dex-threshold-bps", 30, "fee floor for CEX-DEX comparisons")
	evaluateCmd.Flags().Uint64("v3-fee-floor-bps", 0, "fee floor override when a V3 pool is involved, 0 uses fee-floor-bps")
	evaluateCmd.Flags().Uint64("max-staleness-seconds", 3, "maximum CEX sample age relative to the block")
	evaluateCmd.Flags().Bool("fee-floor-strict", false, "require spread strictly above the fee floor")
	evaluateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(evaluateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
