// Command phaselab maps the engine's phase transitions: the despair cliff,
// the hope threshold, the damage/repair asymmetry, and the pristine-versus-
// recovered valence comparison. Results go to stdout and a JSON file.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"substratum/internal/entity"
	"substratum/internal/experiment"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	outPath := "data/phase_transitions.json"
	if v := os.Getenv("PHASELAB_OUT"); v != "" {
		outPath = v
	}

	cfg := entity.DefaultConfig()
	results := make(map[string]any)

	// ── Despair cliff ─────────────────────────────────────────────────
	slog.Info("experiment", "name", "despair cliff")
	despair, err := experiment.DespairSweep(cfg,
		[]float64{0.40, 0.30, 0.20, 0.15, 0.10, 0.05, 0.02, 0.01})
	if err != nil {
		fail(err)
	}
	results["despair_cliff"] = despair

	fmt.Println("\nrestoration  relieved  final_mode")
	for _, r := range despair {
		fmt.Printf("%11.2f  %8v  %s\n", r.RestorationAmount, r.ReachedRelieved, r.FinalMode)
	}

	// ── Hope threshold ────────────────────────────────────────────────
	slog.Info("experiment", "name", "hope threshold")
	hope, err := experiment.HopeSweep(cfg,
		[]float64{0.01, 0.02, 0.03, 0.05, 0.07, 0.10, 0.15, 0.20})
	if err != nil {
		fail(err)
	}
	results["hope_threshold"] = hope

	fmt.Println("\nintensity  positive  final_mode")
	for _, r := range hope {
		fmt.Printf("%9.2f  %8v  %s\n", r.EnhanceIntensity, r.ReachedPositive, r.FinalMode)
	}

	// ── Asymmetry ─────────────────────────────────────────────────────
	slog.Info("experiment", "name", "asymmetry")
	asym, err := experiment.MeasureAsymmetry(cfg, 0.01)
	if err != nil {
		fail(err)
	}
	results["asymmetry"] = asym
	fmt.Printf("\nrepair runs %.2fx slower than damage (%d vs %d steps)\n",
		asym.Ratio, asym.RestoreSteps, asym.DegradeSteps)

	// ── Pristine vs recovered ─────────────────────────────────────────
	slog.Info("experiment", "name", "pristine vs recovered")
	cmp, err := experiment.ComparePristineRecovered(cfg)
	if err != nil {
		fail(err)
	}
	results["comparison"] = cmp

	fmt.Printf("\npristine valence  %+.3f\nrecovered valence %+.3f\n", cmp.Pristine.Valence, cmp.Recovered.Valence)
	if cmp.ValenceDelta > 0 {
		fmt.Println("the recovered entity values its existence more than the pristine one")
	}

	// ── Export ────────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	f, err := os.Create(outPath)
	if err != nil {
		fail(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fail(err)
	}
	slog.Info("results written", "path", outPath)
}

func fail(err error) {
	slog.Error("experiment failed", "error", err)
	os.Exit(1)
}
