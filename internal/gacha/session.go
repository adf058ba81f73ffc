package gacha

// SessionResult reports how one simulated session ended.
type SessionResult struct {
	Draws              int  `json:"draws"`               // draws consumed, always >= 1
	GuaranteeTriggered bool `json:"guarantee_triggered"` // true if the absolute guarantee ended the session
}

// sessionState holds the counters of a single session. One value per
// SimulateSession call; nothing aliases it.
type sessionState struct {
	draws       int // draws taken this session
	sinceRare   int // draws since the last rare-tier hit
	sinceCommon int // draws since the last common-tier hit
}

// rareProb computes the rare-tier probability for the upcoming draw:
// base rate, plus the escalation ramp once sinceRare passes PityStartRare,
// clamped to 1, then forced to 1 outright at HardPityRare. The ramp is
// expected to reach 1 before the hard threshold for sane configs; the
// force stays regardless.
func rareProb(cfg Config, sinceRare int) float64 {
	p := cfg.BaseRateRare
	if sinceRare > cfg.PityStartRare {
		p += float64(sinceRare-cfg.PityStartRare) * cfg.PityIncrementRare
	}
	if p > 1 {
		p = 1
	}
	if sinceRare >= cfg.HardPityRare {
		p = 1
	}
	return p
}

// SimulateSession runs one independent trial: draw until the target drops
// or the absolute guarantee fires. rng may be nil, in which case the
// default crypto source is used.
//
// Per draw:
//   - the guarantee check precedes the roll; at exactly TargetGuarantee
//     draws the session ends without consuming a random value
//   - a single uniform r decides both tiers: r < pRare is a rare-tier hit,
//     else r < pRare+pCommon lands in the common slice stacked above it
//   - a rare-tier hit resets rare pity and flips a 50/50 coin for the
//     target; a non-target rare keeps the session going and skips the
//     common-tier check for that draw
func SimulateSession(cfg Config, rng RandomSource) SessionResult {
	if rng == nil {
		rng = DefaultRNG()
	}

	var st sessionState
	for {
		st.draws++
		st.sinceRare++
		st.sinceCommon++

		if cfg.TargetGuarantee > 0 && st.draws == cfg.TargetGuarantee {
			return SessionResult{Draws: st.draws, GuaranteeTriggered: true}
		}

		pRare := rareProb(cfg, st.sinceRare)
		r := rng.Float64()

		if r < pRare {
			st.sinceRare = 0
			if rng.Float64() < 0.5 {
				return SessionResult{Draws: st.draws}
			}
			// off-target rare; tiers are mutually exclusive per draw,
			// so no common-tier check on this one
			continue
		}

		pCommon := cfg.BaseRateCommon
		if st.sinceCommon >= cfg.HardPityCommon {
			pCommon = 1
		}
		if r < pRare+pCommon {
			// common-tier hit; tracked only for its own pity counter
			st.sinceCommon = 0
		}
	}
}
