package config

import (
	"github.com/spf13/pflag"

	"arbScope/internal/spread"
)

// EvaluateConfig holds configuration for the evaluate command.
type EvaluateConfig struct {
	RPCURL   string
	Block    uint64
	V2Pools  []string
	V3Pools  []string
	Out      string
	PgDSN    string
	LogLevel string

	// CexSeries is a CSV of timestamped CEX mid prices; empty disables
	// the CEX comparison.
	CexSeries string

	Thresholds spread.Thresholds
}

// LoadEvaluate merges config file, environment variables, and flags into
// EvaluateConfig.
func LoadEvaluate(cfgFile string, flags *pflag.FlagSet) (EvaluateConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return EvaluateConfig{}, err
	}

	defaults := spread.DefaultThresholds()
	v.SetDefault("prefilter-bps", defaults.PrefilterBps)
	v.SetDefault("fee-floor-bps", defaults.FeeFloorBps)
	v.SetDefault("cex-dex-threshold-bps", defaults.CexDexThresholdBps)
	v.SetDefault("v3-fee-floor-bps", defaults.V3FeeFloorBps)
	v.SetDefault("max-staleness-seconds", defaults.MaxStalenessSeconds)
	v.SetDefault("fee-floor-strict", defaults.FeeFloorStrict)
	v.SetDefault("log-level", "info")

	cfg := EvaluateConfig{
		RPCURL:    v.GetString("rpc"),
		Block:     v.GetUint64("block"),
		V2Pools:   getStringSlice(v, "v2-pool"),
		V3Pools:   getStringSlice(v, "v3-pool"),
		Out:       v.GetString("out"),
		PgDSN:     v.GetString("pg-dsn"),
		LogLevel:  v.GetString("log-level"),
		CexSeries: v.GetString("cex-series"),
		Thresholds: spread.Thresholds{
			PrefilterBps:        v.GetUint64("prefilter-bps"),
			FeeFloorBps:         v.GetUint64("fee-floor-bps"),
			CexDexThresholdBps:  v.GetUint64("cex-dex-threshold-bps"),
			V3FeeFloorBps:       v.GetUint64("v3-fee-floor-bps"),
			MaxStalenessSeconds: v.GetUint64("max-staleness-seconds"),
			FeeFloorStrict:      v.GetBool("fee-floor-strict"),
		},
	}

	return cfg, nil
}
