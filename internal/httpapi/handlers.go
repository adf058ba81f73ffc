package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xtding233/pull-estimator/internal/gacha"
	"github.com/xtding233/pull-estimator/internal/preset"
	"github.com/xtding233/pull-estimator/internal/pricing"
)

// Overrides patch individual engine parameters on top of a preset, the
// way a form collaborator tweaks one field at a time.
type Overrides struct {
	BaseRateRare      *float64 `json:"base_rate_rare,omitempty"`
	BaseRateCommon    *float64 `json:"base_rate_common,omitempty"`
	PityStartRare     *int     `json:"pity_start_rare,omitempty"`
	PityIncrementRare *float64 `json:"pity_increment_rare,omitempty"`
	HardPityRare      *int     `json:"hard_pity_rare,omitempty"`
	HardPityCommon    *int     `json:"hard_pity_common,omitempty"`
	TargetGuarantee   *int     `json:"target_guarantee,omitempty"`
	TargetTotalPulls  *int     `json:"target_total_pulls,omitempty"`
}

func (o *Overrides) apply(cfg *gacha.Config) {
	if o == nil {
		return
	}
	if o.BaseRateRare != nil {
		cfg.BaseRateRare = *o.BaseRateRare
	}
	if o.BaseRateCommon != nil {
		cfg.BaseRateCommon = *o.BaseRateCommon
	}
	if o.PityStartRare != nil {
		cfg.PityStartRare = *o.PityStartRare
	}
	if o.PityIncrementRare != nil {
		cfg.PityIncrementRare = *o.PityIncrementRare
	}
	if o.HardPityRare != nil {
		cfg.HardPityRare = *o.HardPityRare
	}
	if o.HardPityCommon != nil {
		cfg.HardPityCommon = *o.HardPityCommon
	}
	if o.TargetGuarantee != nil {
		cfg.TargetGuarantee = *o.TargetGuarantee
	}
	if o.TargetTotalPulls != nil {
		cfg.TargetTotalPulls = *o.TargetTotalPulls
	}
}

type simulateRequest struct {
	Preset    string        `json:"preset,omitempty"`
	Config    *gacha.Config `json:"config,omitempty"`
	Overrides *Overrides    `json:"overrides,omitempty"`
	Seed      *uint64       `json:"seed,omitempty"` // reproducible runs; absent means crypto source
}

type simulateResponse struct {
	RunID        string             `json:"run_id"`
	Config       gacha.Config       `json:"config"`
	Summary      gacha.Summary      `json:"summary"`
	Distribution gacha.Distribution `json:"distribution"`
	ElapsedMS    int64              `json:"elapsed_ms"`
}

// resolveConfig turns a request into validated engine parameters:
// explicit config wins, otherwise preset (name "" means default.yaml),
// then overrides, then boundary validation. The engine never validates.
func (s *Server) resolveConfig(req simulateRequest) (gacha.Config, error) {
	var cfg gacha.Config
	if req.Config != nil {
		cfg = *req.Config
	} else {
		var err error
		cfg, err = s.presets.Load(req.Preset)
		if err != nil {
			return gacha.Config{}, err
		}
	}
	req.Overrides.apply(&cfg)
	if err := gacha.ValidateConfig(cfg); err != nil {
		return gacha.Config{}, err
	}
	return cfg, nil
}

func requestRNG(seed *uint64) gacha.RandomSource {
	if seed != nil {
		return gacha.NewSeededRNG(*seed)
	}
	return gacha.DefaultRNG()
}

func (s *Server) runSimulation(cfg gacha.Config, seed *uint64) simulateResponse {
	id := uuid.NewString()
	start := time.Now()
	dist, sum := gacha.Run(cfg, requestRNG(seed))
	elapsed := time.Since(start)

	s.log.Info("simulation run finished",
		"run_id", id,
		"sessions", sum.Sessions,
		"total_draws", sum.TotalDraws,
		"mean", sum.MeanDraws,
		"elapsed", elapsed,
	)
	return simulateResponse{
		RunID:        id,
		Config:       cfg,
		Summary:      sum,
		Distribution: dist,
		ElapsedMS:    elapsed.Milliseconds(),
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := s.resolveConfig(req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, preset.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeErr(w, status, err.Error())
		return
	}

	if !s.busy.TryLock() {
		writeErr(w, http.StatusConflict, "a simulation is already running")
		return
	}
	defer s.busy.Unlock()

	writeJSON(w, http.StatusOK, s.runSimulation(cfg, req.Seed))
}

type budgetRequest struct {
	simulateRequest
	Confidence float64                `json:"confidence,omitempty"` // cumulative %, default 90
	Cost       pricing.DrawCost       `json:"cost"`
	Catalog    pricing.Catalog        `json:"catalog"`
	FirstTime  pricing.FirstTimeState `json:"first_time,omitempty"`
}

type budgetResponse struct {
	RunID        string        `json:"run_id"`
	Confidence   float64       `json:"confidence"`
	DrawsNeeded  int           `json:"draws_needed"`
	TokensNeeded int           `json:"tokens_needed"`
	Plan         pricing.Plan  `json:"plan"`
	Summary      gacha.Summary `json:"summary"`
}

// handleBudget runs a simulation, then prices the draw count needed to
// hit the requested cumulative confidence.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Confidence == 0 {
		req.Confidence = 90
	}
	if req.Confidence < 0 || req.Confidence > 100 {
		writeErr(w, http.StatusBadRequest, "confidence must be in [0,100]")
		return
	}
	if req.Cost.PerDraw <= 0 {
		writeErr(w, http.StatusBadRequest, "cost.per_draw must be >= 1")
		return
	}
	cfg, err := s.resolveConfig(req.simulateRequest)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, preset.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeErr(w, status, err.Error())
		return
	}

	if !s.busy.TryLock() {
		writeErr(w, http.StatusConflict, "a simulation is already running")
		return
	}
	defer s.busy.Unlock()

	run := s.runSimulation(cfg, req.Seed)
	draws := pricing.DrawsForConfidence(run.Distribution, req.Confidence)
	tokens := req.Cost.TokensForDraws(draws)
	plan := pricing.CheapestPlanForTokens(req.Catalog, tokens, req.FirstTime)

	writeJSON(w, http.StatusOK, budgetResponse{
		RunID:        run.RunID,
		Confidence:   req.Confidence,
		DrawsNeeded:  draws,
		TokensNeeded: tokens,
		Plan:         plan,
		Summary:      run.Summary,
	})
}
