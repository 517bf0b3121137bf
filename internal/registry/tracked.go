package registry

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// TrackedPair names one token pair and the pool venues trading it. Two
// swaps inside one transaction on pools of the same tracked pair are the
// CrossDex signature.
type TrackedPair struct {
	Name  string
	Pools []common.Address
}

// Contains reports whether the pool is a venue of this pair.
func (p TrackedPair) Contains(pool common.Address) bool {
	for _, candidate := range p.Pools {
		if candidate == pool {
			return true
		}
	}
	return false
}

// DefaultTrackedPairs returns the canonical Uniswap V2 / SushiSwap
// WETH-stable venues on mainnet.
func DefaultTrackedPairs() []TrackedPair {
	return []TrackedPair{
		{
			Name: "WETH/USDC",
			Pools: []common.Address{
				common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc"),
				common.HexToAddress("0x397FF1542f962076d0BFE58eA045FfA2d347ACa0"),
			},
		},
		{
			Name: "WETH/DAI",
			Pools: []common.Address{
				common.HexToAddress("0xA478c2975Ab1Ea89e8196811F51A7B7Ade33eB11"),
				common.HexToAddress("0xC3D03e4F041Fd4cD388c549Ee2A29a9E5075882f"),
			},
		},
		{
			Name: "WETH/USDT",
			Pools: []common.Address{
				common.HexToAddress("0x0d4a11d5EEaaC28EC3F61d100daF4d40471f1852"),
				common.HexToAddress("0x06da0fd433C1A5d7a4faa01111c044910A184553"),
			},
		},
	}
}

// ParseTrackedPairs parses "name=addr1+addr2" entries into tracked
// pairs.
func ParseTrackedPairs(entries []string) ([]TrackedPair, error) {
	pairs := make([]TrackedPair, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name := ""
		poolsPart := entry
		if eq := strings.IndexByte(entry, '='); eq >= 0 {
			name = strings.TrimSpace(entry[:eq])
			poolsPart = entry[eq+1:]
		}

		var pools []common.Address
		for _, raw := range strings.Split(poolsPart, "+") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if !common.IsHexAddress(raw) {
				return nil, fmt.Errorf("invalid pool address in tracked pair %q: %s", entry, raw)
			}
			pools = append(pools, common.HexToAddress(raw))
		}
		if len(pools) < 2 {
			return nil, fmt.Errorf("tracked pair %q needs at least two pools", entry)
		}
		if name == "" {
			name = fmt.Sprintf("pair-%d", len(pairs))
		}
		pairs = append(pairs, TrackedPair{Name: name, Pools: pools})
	}
	return pairs, nil
}
