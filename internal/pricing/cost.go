package pricing

import "github.com/xtding233/pull-estimator/internal/gacha"

// DrawCost describes the premium-currency price of draws for a banner.
type DrawCost struct {
	TokenName  string `json:"token_name" yaml:"token_name"`     // e.g. "Stellar Jade"
	PerDraw    int    `json:"per_draw" yaml:"per_draw"`         // tokens per single draw, e.g. 160
	PerTenDraw int    `json:"per_ten_draw" yaml:"per_ten_draw"` // discounted batch of ten; 0 means 10*PerDraw
}

// TokensForDraws returns the tokens needed to fund n draws, buying
// ten-batches first when a discount exists.
func (c DrawCost) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if c.PerTenDraw > 0 && n >= 10 {
		tens := n / 10
		rem := n % 10
		return tens*c.PerTenDraw + rem*c.PerDraw
	}
	return n * c.PerDraw
}

// DrawsForConfidence returns the smallest draw count whose cumulative
// share reaches the given confidence percentage (0..100). Returns 0 for
// an empty distribution or an unreachable confidence.
func DrawsForConfidence(dist gacha.Distribution, confidence float64) int {
	for _, e := range dist.Entries {
		if e.CumPct >= confidence {
			return e.Draws
		}
	}
	return 0
}
