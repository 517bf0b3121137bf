package cex

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"arbScope/internal/model"
)

// PriceScaleDecimals is the fixed-point scale of stored CEX prices:
// price * 10^8, matching exchange kline precision.
const PriceScaleDecimals = 8

var priceScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(PriceScaleDecimals), nil)

// Point is one CEX price observation. PriceScaled is the quote price
// (token0 per token1, e.g. USDC per WETH) times 10^8.
type Point struct {
	Timestamp   uint64
	PriceScaled *big.Int
}

// Series is an immutable, timestamp-sorted CEX price series for one
// pair. Safe for concurrent reads.
type Series struct {
	pair   string
	points []Point
}

// NewSeries builds a series from observations, sorting by timestamp.
func NewSeries(pair string, points []Point) *Series {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })
	return &Series{pair: pair, points: sorted}
}

// Pair returns the series pair label.
func (s *Series) Pair() string { return s.pair }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.points) }

// Nearest returns the observation closest in time to ts. Staleness is
// the caller's concern; this only finds the candidate.
func (s *Series) Nearest(ts uint64) (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}

	idx := sort.Search(len(s.points), func(i int) bool { return s.points[i].Timestamp >= ts })
	if idx == 0 {
		return s.points[0], true
	}
	if idx == len(s.points) {
		return s.points[len(s.points)-1], true
	}

	before := s.points[idx-1]
	after := s.points[idx]
	if ts-before.Timestamp <= after.Timestamp-ts {
		return before, true
	}
	return after, true
}

// Sample converts an observation into a price rational comparable with
// DEX samples: PriceScaled / 10^8.
func (p Point) Sample() model.PriceSample {
	return model.PriceSample{Num: new(big.Int).Set(p.PriceScaled), Den: new(big.Int).Set(priceScale)}
}

// LoadCSV reads a "unix_timestamp,price" series file. Prices are decimal
// strings parsed into scaled integers; no float conversion happens.
func LoadCSV(path, pair string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cex series: %w", err)
	}
	defer file.Close()

	var points []Point
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("cex series line %d: expected timestamp,price", lineNo)
		}

		ts, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cex series line %d: timestamp: %w", lineNo, err)
		}
		scaled, err := ParsePriceScaled(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("cex series line %d: %w", lineNo, err)
		}

		points = append(points, Point{Timestamp: ts, PriceScaled: scaled})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan cex series: %w", err)
	}

	return NewSeries(pair, points), nil
}

// ParsePriceScaled converts a positive decimal string into price*10^8
// using string arithmetic only.
func ParsePriceScaled(value string) (*big.Int, error) {
	whole := value
	frac := ""
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		whole = value[:dot]
		frac = value[dot+1:]
	}
	if whole == "" {
		whole = "0"
	}

	if len(frac) > PriceScaleDecimals {
		frac = frac[:PriceScaleDecimals]
	}
	for len(frac) < PriceScaleDecimals {
		frac += "0"
	}

	scaled, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok || scaled.Sign() <= 0 {
		return nil, fmt.Errorf("invalid cex price: %q", value)
	}
	return scaled, nil
}
