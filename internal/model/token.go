package model

import "github.com/ethereum/go-ethereum/common"

// Token is an ERC-20 identity with its decimal precision. Immutable,
// looked up from the registry.
type Token struct {
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
	Symbol   string         `json:"symbol"`
}
