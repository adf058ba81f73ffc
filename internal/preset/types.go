package preset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/pull-estimator/internal/gacha"
)

// Raw mirrors the preset YAML schema. Pointer fields distinguish "absent"
// from zero so merging can layer a named preset over default.yaml.
type Raw struct {
	Version   string   `yaml:"version"`
	Notes     string   `yaml:"notes,omitempty"`
	Rates     RatesCfg `yaml:"rates"`
	Pity      PityCfg  `yaml:"pity"`
	Guarantee *int     `yaml:"guarantee,omitempty"`
	Budget    *int     `yaml:"budget,omitempty"`
}

type RatesCfg struct {
	Rare   *float64 `yaml:"rare"`
	Common *float64 `yaml:"common"`
}

type PityCfg struct {
	Start      *int     `yaml:"start"`
	Increment  *float64 `yaml:"increment"`
	HardRare   *int     `yaml:"hard_rare"`
	HardCommon *int     `yaml:"hard_common"`
}

var ErrIncomplete = errors.New("preset incomplete")

// Normalize flattens a merged Raw into engine parameters. Fields with no
// sensible default must be present after merging; the rest fall back.
func Normalize(raw Raw) (gacha.Config, error) {
	var missing []string
	need := func(ok bool, field string) {
		if !ok {
			missing = append(missing, field)
		}
	}
	need(raw.Rates.Rare != nil, "rates.rare")
	need(raw.Rates.Common != nil, "rates.common")
	need(raw.Pity.Start != nil, "pity.start")
	need(raw.Pity.Increment != nil, "pity.increment")
	need(raw.Pity.HardRare != nil, "pity.hard_rare")
	need(raw.Pity.HardCommon != nil, "pity.hard_common")
	if len(missing) > 0 {
		return gacha.Config{}, fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}

	cfg := gacha.Config{
		BaseRateRare:      *raw.Rates.Rare,
		BaseRateCommon:    *raw.Rates.Common,
		PityStartRare:     *raw.Pity.Start,
		PityIncrementRare: *raw.Pity.Increment,
		HardPityRare:      *raw.Pity.HardRare,
		HardPityCommon:    *raw.Pity.HardCommon,
		TargetTotalPulls:  200000,
	}
	if raw.Guarantee != nil {
		cfg.TargetGuarantee = *raw.Guarantee
	}
	if raw.Budget != nil {
		cfg.TargetTotalPulls = *raw.Budget
	}
	return cfg, nil
}

// merge performs a shallow-deep merge: b overrides a where provided.
func merge(a, b Raw) Raw {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if b.Rates.Rare != nil {
		out.Rates.Rare = b.Rates.Rare
	}
	if b.Rates.Common != nil {
		out.Rates.Common = b.Rates.Common
	}
	if b.Pity.Start != nil {
		out.Pity.Start = b.Pity.Start
	}
	if b.Pity.Increment != nil {
		out.Pity.Increment = b.Pity.Increment
	}
	if b.Pity.HardRare != nil {
		out.Pity.HardRare = b.Pity.HardRare
	}
	if b.Pity.HardCommon != nil {
		out.Pity.HardCommon = b.Pity.HardCommon
	}
	if b.Guarantee != nil {
		out.Guarantee = b.Guarantee
	}
	if b.Budget != nil {
		out.Budget = b.Budget
	}
	return out
}
