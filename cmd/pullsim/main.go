package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xtding233/pull-estimator/internal/gacha"
	"github.com/xtding233/pull-estimator/internal/httpapi"
	"github.com/xtding233/pull-estimator/internal/logging"
	"github.com/xtding233/pull-estimator/internal/preset"
)

var (
	presetsDir string
	debug      bool

	// serve flags
	serveAddr  string
	watchEvery time.Duration

	// run flags
	presetName string
	seed       uint64
	jsonOut    bool
	runCfg     gacha.Config
)

var rootCmd = &cobra.Command{
	Use:   "pullsim",
	Short: "Monte Carlo pull-count estimator for pity-based banners",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON/HTTP estimator service",
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging()

		loader := preset.NewLoader(presetsDir)
		watcher := preset.NewDirWatcher(presetsDir, watchEvery, loader.Invalidate)
		watcher.Start()
		defer watcher.Stop()

		srv := httpapi.NewServer(loader, logging.L())
		slog.Info("listening", "addr", serveAddr, "presets", presetsDir)
		return http.ListenAndServe(serveAddr, srv.Router())
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one aggregation and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		initLogging()

		// flags alone form a complete config; a preset supplies the
		// base instead, with explicitly set flags layered on top
		cfg := runCfg
		if presetName != "" {
			loaded, err := preset.NewLoader(presetsDir).Load(presetName)
			if err != nil {
				return err
			}
			applyChangedFlags(cmd, &loaded)
			cfg = loaded
		}
		if err := gacha.ValidateConfig(cfg); err != nil {
			return err
		}

		var rng gacha.RandomSource
		if cmd.Flags().Changed("seed") {
			rng = gacha.NewSeededRNG(seed)
		}

		start := time.Now()
		dist, sum := gacha.Run(cfg, rng)
		elapsed := time.Since(start)

		if jsonOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Config       gacha.Config       `json:"config"`
				Summary      gacha.Summary      `json:"summary"`
				Distribution gacha.Distribution `json:"distribution"`
			}{cfg, sum, dist})
		}

		fmt.Printf("sessions:        %d (%d total draws, %s)\n", sum.Sessions, sum.TotalDraws, elapsed.Round(time.Millisecond))
		fmt.Printf("mean draws:      %.2f\n", sum.MeanDraws)
		fmt.Printf("median draws:    %d\n", sum.MedianDraws)
		fmt.Printf("p90 / p99:       %.0f / %.0f\n", sum.P90Draws, sum.P99Draws)
		fmt.Printf("max draws:       %d\n", sum.MaxDraws)
		fmt.Printf("guarantee rate:  %.2f%% (%d sessions)\n", sum.GuaranteeRate*100, sum.GuaranteeCount)
		return nil
	},
}

// applyChangedFlags layers explicitly set flags over a loaded preset.
func applyChangedFlags(cmd *cobra.Command, cfg *gacha.Config) {
	set := map[string]func(){
		"rate-rare":        func() { cfg.BaseRateRare = runCfg.BaseRateRare },
		"rate-common":      func() { cfg.BaseRateCommon = runCfg.BaseRateCommon },
		"pity-start":       func() { cfg.PityStartRare = runCfg.PityStartRare },
		"pity-increment":   func() { cfg.PityIncrementRare = runCfg.PityIncrementRare },
		"hard-pity":        func() { cfg.HardPityRare = runCfg.HardPityRare },
		"hard-pity-common": func() { cfg.HardPityCommon = runCfg.HardPityCommon },
		"guarantee":        func() { cfg.TargetGuarantee = runCfg.TargetGuarantee },
		"pulls":            func() { cfg.TargetTotalPulls = runCfg.TargetTotalPulls },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

func initLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(&logging.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&presetsDir, "presets", "configs/presets", "directory holding banner preset YAML files")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&watchEvery, "watch-interval", 2*time.Second, "preset hot-reload poll interval")

	runCmd.Flags().StringVar(&presetName, "preset", "", "banner preset name (empty uses default.yaml)")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible run (omit for crypto randomness)")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the full distribution as JSON")
	runCmd.Flags().Float64Var(&runCfg.BaseRateRare, "rate-rare", 0.006, "base rare-tier probability per draw")
	runCmd.Flags().Float64Var(&runCfg.BaseRateCommon, "rate-common", 0.051, "base common-tier probability per draw")
	runCmd.Flags().IntVar(&runCfg.PityStartRare, "pity-start", 73, "draws since last rare hit before escalation starts")
	runCmd.Flags().Float64Var(&runCfg.PityIncrementRare, "pity-increment", 0.06, "probability added per draw past the pity start")
	runCmd.Flags().IntVar(&runCfg.HardPityRare, "hard-pity", 90, "draw count forcing a rare hit")
	runCmd.Flags().IntVar(&runCfg.HardPityCommon, "hard-pity-common", 10, "draw count forcing a common hit")
	runCmd.Flags().IntVar(&runCfg.TargetGuarantee, "guarantee", 180, "session draw count granting the target outright (0 disables)")
	runCmd.Flags().IntVar(&runCfg.TargetTotalPulls, "pulls", 200000, "total draw budget across sessions")

	rootCmd.AddCommand(serveCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
