package registry

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/model"
)

// Registry is a static token lookup. Reads are concurrent-safe because
// the map is never mutated after construction.
type Registry struct {
	tokens map[common.Address]model.Token
}

// New builds a registry from a token list.
func New(tokens []model.Token) *Registry {
	m := make(map[common.Address]model.Token, len(tokens))
	for _, token := range tokens {
		m[token.Address] = token
	}
	return &Registry{tokens: m}
}

// Default returns a registry of the canonical mainnet tokens the stock
// tracked pairs trade.
func Default() *Registry {
	return New([]model.Token{
		{Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6, Symbol: "USDC"},
		{Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18, Symbol: "WETH"},
		{Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18, Symbol: "DAI"},
		{Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6, Symbol: "USDT"},
	})
}

// Token looks up a token by address.
func (r *Registry) Token(address common.Address) (model.Token, error) {
	token, ok := r.tokens[address]
	if !ok {
		return model.Token{}, fmt.Errorf("%w: %s", model.ErrUnknownToken, address.Hex())
	}
	return token, nil
}

// Add returns a copy of the registry extended with a token. The receiver
// is left untouched.
func (r *Registry) Add(token model.Token) *Registry {
	tokens := make([]model.Token, 0, len(r.tokens)+1)
	for _, existing := range r.tokens {
		tokens = append(tokens, existing)
	}
	tokens = append(tokens, token)
	return New(tokens)
}

// NewV2Pool constructs a V2 pool snapshot, enforcing the on-chain
// token0 < token1 address ordering.
func (r *Registry) NewV2Pool(address, token0, token1 common.Address, reserve0, reserve1 *big.Int, blockTimestampLast uint32) (model.Pool, error) {
	t0, t1, err := r.orderedTokens(token0, token1)
	if err != nil {
		return model.Pool{}, err
	}
	return model.Pool{
		Address:            address,
		Protocol:           model.ProtocolV2,
		Token0:             t0,
		Token1:             t1,
		Reserve0:           reserve0,
		Reserve1:           reserve1,
		BlockTimestampLast: blockTimestampLast,
	}, nil
}

// NewV3Pool constructs a V3 pool snapshot with the same ordering rules.
func (r *Registry) NewV3Pool(address, token0, token1 common.Address, sqrtPriceX96 *big.Int, tick int32) (model.Pool, error) {
	t0, t1, err := r.orderedTokens(token0, token1)
	if err != nil {
		return model.Pool{}, err
	}
	return model.Pool{
		Address:      address,
		Protocol:     model.ProtocolV3,
		Token0:       t0,
		Token1:       t1,
		SqrtPriceX96: sqrtPriceX96,
		Tick:         tick,
	}, nil
}

func (r *Registry) orderedTokens(token0, token1 common.Address) (model.Token, model.Token, error) {
	if bytes.Compare(token0.Bytes(), token1.Bytes()) >= 0 {
		return model.Token{}, model.Token{}, fmt.Errorf("token0 %s must sort below token1 %s", token0.Hex(), token1.Hex())
	}

	t0, err := r.Token(token0)
	if err != nil {
		return model.Token{}, model.Token{}, err
	}
	t1, err := r.Token(token1)
	if err != nil {
		return model.Token{}, model.Token{}, err
	}
	return t0, t1, nil
}
