package model

import "time"

// Line is one indicator curve: a period label plus values aligned
// index-for-index with the owning Bundle's Dates. math.NaN() marks indices
// that carry no value (warm-up, undefined division).
type Line struct {
	Period int
	Values []float64
}

// KDLines holds the stochastic K and D curves.
type KDLines struct {
	K []float64
	D []float64
}

// MACDLines holds the DIF, DEA and histogram curves.
type MACDLines struct {
	DIF       []float64
	DEA       []float64
	Histogram []float64
}

// Bundle is the fully computed view of one symbol: raw OHLCV plus the whole
// indicator battery, every array exactly len(Dates) long. A Bundle is rebuilt
// from scratch on each update and must not be mutated after publication.
type Bundle struct {
	Symbol     string
	Dates      []time.Time
	Opens      []float64
	Highs      []float64
	Lows       []float64
	Closes     []float64
	Volumes    []int64
	MA         []Line
	RSI        []Line
	KD         KDLines
	BIAS       []Line
	MACD       MACDLines
	ComputedAt time.Time
}

// Empty reports whether the bundle holds no bars.
func (b *Bundle) Empty() bool { return len(b.Dates) == 0 }
