package price

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/model"
)

var (
	usdc = model.Token{Address: common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), Decimals: 6, Symbol: "USDC"}
	weth = model.Token{Address: common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), Decimals: 18, Symbol: "WETH"}
)

func v2Pool(reserve0, reserve1 *big.Int) model.Pool {
	return model.Pool{
		Address:  common.HexToAddress("0xb4e16d0168e52d35cacd2c6185b44281ec28c9dc"),
		Protocol: model.ProtocolV2,
		Token0:   usdc,
		Token1:   weth,
		Reserve0: reserve0,
		Reserve1: reserve1,
	}
}

func TestV2PriceRational(t *testing.T) {
	// 1,000,000 USDC vs 500 WETH: 2000 USDC per WETH.
	reserve0 := big.NewInt(1_000_000_000000)
	reserve1 := new(big.Int).Mul(big.NewInt(500), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	sample, err := PriceOf(v2Pool(reserve0, reserve1))
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	wantNum := new(big.Int).Mul(reserve0, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	wantDen := new(big.Int).Mul(reserve1, new(big.Int).Exp(big.NewInt(10), big.NewInt(6), nil))
	if sample.Num.Cmp(wantNum) != 0 || sample.Den.Cmp(wantDen) != 0 {
		t.Fatalf("rational mismatch: %s/%s", sample.Num, sample.Den)
	}

	if got := sample.Display(2); got != "2000.00" {
		t.Fatalf("display mismatch: %s", got)
	}
}

func TestV2PriceIlliquid(t *testing.T) {
	_, err := PriceOf(v2Pool(big.NewInt(123456), big.NewInt(0)))
	if !errors.Is(err, model.ErrIlliquidPool) {
		t.Fatalf("expected illiquid pool, got %v", err)
	}

	_, err = PriceOf(v2Pool(big.NewInt(0), big.NewInt(123456)))
	if !errors.Is(err, model.ErrIlliquidPool) {
		t.Fatalf("expected illiquid pool, got %v", err)
	}
}

func TestV3PriceExactSquare(t *testing.T) {
	// sqrtPriceX96 = 2*2^96 means raw token1/token0 = 4, so the price of
	// token1 in token0 units is 1/4 for an equal-decimals pair.
	tokenA := model.Token{Address: common.HexToAddress("0x1000000000000000000000000000000000000001"), Decimals: 18}
	tokenB := model.Token{Address: common.HexToAddress("0x2000000000000000000000000000000000000002"), Decimals: 18}

	sqrtPrice := new(big.Int).Lsh(big.NewInt(2), 96)
	pool := model.Pool{
		Address:      common.HexToAddress("0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8"),
		Protocol:     model.ProtocolV3,
		Token0:       tokenA,
		Token1:       tokenB,
		SqrtPriceX96: sqrtPrice,
	}

	sample, err := PriceOf(pool)
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	// num/den must reduce to exactly 1/4.
	lhs := new(big.Int).Mul(sample.Num, big.NewInt(4))
	if lhs.Cmp(sample.Den) != 0 {
		t.Fatalf("price not exactly 1/4: %s/%s", sample.Num, sample.Den)
	}
}

func TestV3PriceZeroSqrt(t *testing.T) {
	pool := model.Pool{
		Address:      common.HexToAddress("0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8"),
		Protocol:     model.ProtocolV3,
		Token0:       usdc,
		Token1:       weth,
		SqrtPriceX96: big.NewInt(0),
	}
	if _, err := PriceOf(pool); !errors.Is(err, model.ErrIlliquidPool) {
		t.Fatalf("expected illiquid pool, got %v", err)
	}
}

func TestV2V3PriceAgreement(t *testing.T) {
	// A V3 pool whose sqrt price encodes the same 2000 USDC/WETH level as
	// the V2 reserves must agree with the V2 rational when compared by
	// cross-multiplication within integer sqrt precision.
	reserve0 := big.NewInt(1_000_000_000000)
	reserve1 := new(big.Int).Mul(big.NewInt(500), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	v2Sample, err := PriceOf(v2Pool(reserve0, reserve1))
	if err != nil {
		t.Fatalf("v2 price: %v", err)
	}

	// sqrt(reserve1/reserve0 in raw units) * 2^96
	ratio := new(big.Int).Lsh(reserve1, 192)
	ratio.Quo(ratio, reserve0)
	sqrtPrice := new(big.Int).Sqrt(ratio)

	pool := model.Pool{
		Address:      common.HexToAddress("0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8"),
		Protocol:     model.ProtocolV3,
		Token0:       usdc,
		Token1:       weth,
		SqrtPriceX96: sqrtPrice,
	}
	v3Sample, err := PriceOf(pool)
	if err != nil {
		t.Fatalf("v3 price: %v", err)
	}

	v2Rat := new(big.Rat).SetFrac(v2Sample.Num, v2Sample.Den)
	v3Rat := new(big.Rat).SetFrac(v3Sample.Num, v3Sample.Den)
	diff := new(big.Rat).Sub(v2Rat, v3Rat)
	diff.Abs(diff)
	rel := new(big.Rat).Quo(diff, v2Rat)

	tolerance := big.NewRat(1, 1_000_000_000)
	if rel.Cmp(tolerance) > 0 {
		t.Fatalf("v2/v3 price divergence too large: %s", rel.FloatString(12))
	}
}
