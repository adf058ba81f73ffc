package gacha

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidProb = errors.New("invalid probability p; must be 0..1")

// Config describes one banner's draw mechanics plus the aggregation budget.
// The engine itself assumes every field is well-formed; boundary callers
// run ValidateConfig before handing a Config in.
type Config struct {
	BaseRateRare      float64 `json:"base_rate_rare"`      // base rare-tier probability per draw
	BaseRateCommon    float64 `json:"base_rate_common"`    // base common-tier probability per draw
	PityStartRare     int     `json:"pity_start_rare"`     // draws since last rare hit before escalation begins
	PityIncrementRare float64 `json:"pity_increment_rare"` // probability added per draw beyond PityStartRare
	HardPityRare      int     `json:"hard_pity_rare"`      // draws since last rare hit at which p is forced to 1
	HardPityCommon    int     `json:"hard_pity_common"`    // draws since last common hit at which its p is forced to 1
	TargetGuarantee   int     `json:"target_guarantee"`    // session draw count that grants the target outright; 0 disables
	TargetTotalPulls  int     `json:"target_total_pulls"`  // total draws across sessions before the aggregator stops
}

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// ValidateConfig checks semantic constraints of a Config. The engine never
// calls this; it exists for the API/CLI boundary.
func ValidateConfig(cfg Config) error {
	var errs []string

	if validateProb(cfg.BaseRateRare) != nil {
		errs = append(errs, "base_rate_rare must be in [0,1]")
	}
	if validateProb(cfg.BaseRateCommon) != nil {
		errs = append(errs, "base_rate_common must be in [0,1]")
	}
	if cfg.PityStartRare < 0 {
		errs = append(errs, "pity_start_rare must be >= 0")
	}
	if cfg.PityIncrementRare < 0 || math.IsNaN(cfg.PityIncrementRare) || math.IsInf(cfg.PityIncrementRare, 0) {
		errs = append(errs, "pity_increment_rare must be a finite value >= 0")
	}
	if cfg.HardPityRare <= cfg.PityStartRare {
		errs = append(errs, "hard_pity_rare must be > pity_start_rare")
	}
	if cfg.HardPityCommon < 1 {
		errs = append(errs, "hard_pity_common must be >= 1")
	}
	if cfg.TargetGuarantee < 0 {
		errs = append(errs, "target_guarantee must be >= 0")
	}
	if cfg.TargetTotalPulls <= 0 {
		errs = append(errs, "target_total_pulls must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
