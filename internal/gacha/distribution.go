package gacha

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Entry is one draw-count row of the emitted distribution.
type Entry struct {
	Draws  int     `json:"draws"`
	Count  int     `json:"count"`
	Pct    float64 `json:"pct"`     // share of all sessions, 3 decimal places
	CumPct float64 `json:"cum_pct"` // cumulative share up to this draw count, 2 decimal places
}

// Distribution is the per-draw-count view handed to the display layer.
// Entries cover every draw count with observations, every count up to the
// guarantee threshold, and every 10th count as filler so a chart can plot
// a smooth axis; filler rows always carry Count == 0.
type Distribution struct {
	Entries []Entry `json:"entries"`
}

// Summary condenses one aggregation run.
type Summary struct {
	Sessions       int     `json:"sessions"`
	TotalDraws     int     `json:"total_draws"`
	MeanDraws      float64 `json:"mean_draws"`
	MedianDraws    int     `json:"median_draws"`
	GuaranteeCount int     `json:"guarantee_count"`
	GuaranteeRate  float64 `json:"guarantee_rate"`
	MaxDraws       int     `json:"max_draws"`
	StdDevDraws    float64 `json:"stddev_draws"`
	P90Draws       float64 `json:"p90_draws"`
	P99Draws       float64 `json:"p99_draws"`
}

// medianDraws picks the element at index len/2 of the sorted samples.
// Deliberately not the two-middle average: the display layer reports a
// draw count someone actually hit.
func medianDraws(samples []int) int {
	if len(samples) == 0 {
		return 0
	}
	cp := append([]int(nil), samples...)
	sort.Ints(cp)
	return cp[len(cp)/2]
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// Run drives SimulateSession until the cumulative draw budget
// cfg.TargetTotalPulls is met, then reduces the samples into a
// Distribution and Summary. Sessions are the unit of work, so the final
// session may overshoot the budget; the overshoot is kept, not corrected.
//
// cfg.TargetTotalPulls <= 0 runs zero sessions and returns empty records
// rather than letting a division by zero leak NaN to the display layer.
func Run(cfg Config, rng RandomSource) (Distribution, Summary) {
	if rng == nil {
		rng = DefaultRNG()
	}

	freq := make(map[int]int)
	samples := make([]int, 0, 1024)
	totalDraws := 0
	guaranteeCount := 0
	maxDraws := 0

	for totalDraws < cfg.TargetTotalPulls {
		res := SimulateSession(cfg, rng)
		totalDraws += res.Draws
		freq[res.Draws]++
		samples = append(samples, res.Draws)
		if res.GuaranteeTriggered {
			guaranteeCount++
		}
		if res.Draws > maxDraws {
			maxDraws = res.Draws
		}
	}

	sessions := len(samples)
	if sessions == 0 {
		return Distribution{}, Summary{}
	}

	// Emit rows from 1 up to whichever is larger, the worst observed
	// session or the guarantee threshold. The cumulative sum walks every
	// draw count even when the row itself is filtered out.
	span := maxDraws
	if cfg.TargetGuarantee > span {
		span = cfg.TargetGuarantee
	}
	entries := make([]Entry, 0, span/2)
	cum := 0
	for d := 1; d <= span; d++ {
		cum += freq[d]
		if freq[d] == 0 && d > cfg.TargetGuarantee && d%10 != 0 {
			continue
		}
		entries = append(entries, Entry{
			Draws:  d,
			Count:  freq[d],
			Pct:    round3(float64(freq[d]) * 100 / float64(sessions)),
			CumPct: round2(float64(cum) * 100 / float64(sessions)),
		})
	}

	fs := make([]float64, sessions)
	for i, v := range samples {
		fs[i] = float64(v)
	}
	stddev, _ := stats.StandardDeviation(fs)
	p90, _ := stats.Percentile(fs, 90)
	p99, _ := stats.Percentile(fs, 99)

	sum := Summary{
		Sessions:       sessions,
		TotalDraws:     totalDraws,
		MeanDraws:      float64(totalDraws) / float64(sessions),
		MedianDraws:    medianDraws(samples),
		GuaranteeCount: guaranteeCount,
		GuaranteeRate:  float64(guaranteeCount) / float64(sessions),
		MaxDraws:       maxDraws,
		StdDevDraws:    stddev,
		P90Draws:       p90,
		P99Draws:       p99,
	}
	return Distribution{Entries: entries}, sum
}
