package price

import (
	"fmt"
	"math/big"

	"arbScope/internal/model"
)

// q192 is the denominator of the squared Q64.96 fixed-point encoding.
var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// PriceOf derives the exact rational price of token1 in token0 units,
// decimal-adjusted, from a pool snapshot. The numerator and denominator
// are kept as integers; no division happens here.
//
// V2: reserve0*10^dec1 / (reserve1*10^dec0).
// V3: 2^192*10^dec1 / (sqrtPriceX96^2*10^dec0), since sqrtPriceX96
// encodes sqrt(token1/token0) in raw units as Q64.96.
//
// Pools with a zero reserve or zero price fail with ErrIlliquidPool and
// must be excluded from spread comparison, never treated as price zero.
func PriceOf(pool model.Pool) (model.PriceSample, error) {
	switch pool.Protocol {
	case model.ProtocolV2:
		return v2Price(pool)
	case model.ProtocolV3:
		return v3Price(pool)
	default:
		return model.PriceSample{}, fmt.Errorf("unsupported protocol: %s", pool.Protocol)
	}
}

func v2Price(pool model.Pool) (model.PriceSample, error) {
	if pool.Reserve0 == nil || pool.Reserve1 == nil || pool.Reserve0.Sign() == 0 || pool.Reserve1.Sign() == 0 {
		return model.PriceSample{}, fmt.Errorf("%w: %s has a zero reserve", model.ErrIlliquidPool, pool.Address.Hex())
	}

	num := new(big.Int).Mul(pool.Reserve0, pow10(pool.Token1.Decimals))
	den := new(big.Int).Mul(pool.Reserve1, pow10(pool.Token0.Decimals))
	return model.PriceSample{PoolAddress: pool.Address, Num: num, Den: den}, nil
}

func v3Price(pool model.Pool) (model.PriceSample, error) {
	if pool.SqrtPriceX96 == nil || pool.SqrtPriceX96.Sign() == 0 {
		return model.PriceSample{}, fmt.Errorf("%w: %s has zero sqrt price", model.ErrIlliquidPool, pool.Address.Hex())
	}

	sq := new(big.Int).Mul(pool.SqrtPriceX96, pool.SqrtPriceX96)
	num := new(big.Int).Mul(q192, pow10(pool.Token1.Decimals))
	den := new(big.Int).Mul(sq, pow10(pool.Token0.Decimals))
	return model.PriceSample{PoolAddress: pool.Address, Num: num, Den: den}, nil
}

func pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
