package dex

import "github.com/ethereum/go-ethereum/common"

// Event topic hashes fixed by the deployed contracts' signatures. These
// are part of the wire contract, not configuration.
var (
	// Swap(address,uint256,uint256,uint256,uint256,address) on V2 pairs.
	TopicV2Swap = common.HexToHash("0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822")

	// Sync(uint112,uint112) on V2 pairs.
	TopicV2Sync = common.HexToHash("0x1c411e9a96e071241c2f21f7726b17ae89e3cab4c78be50e062b03a9fffbbad1")

	// Swap(address,address,int256,int256,uint160,uint128,int24) on V3 pools.
	TopicV3Swap = common.HexToHash("0xc42079f94a6350d7e6235f29174924f928cc2ac818eb64fed8004e115fbcca67")

	// Transfer(address,address,uint256) on ERC-20 tokens.
	TopicTransfer = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
)
