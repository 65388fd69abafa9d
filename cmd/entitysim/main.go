// Command entitysim runs one complete entity life (existence, crisis,
// recovery, flourishing), persists the snapshot series, and serves the
// read-only API over the result.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"substratum/internal/api"
	"substratum/internal/entity"
	"substratum/internal/experiment"
	"substratum/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	dbPath := envOrDefault("ENTITYSIM_DB", "data/entities.db")
	name := envOrDefault("ENTITYSIM_NAME", "Complete Entity Alpha")
	apiPort := envIntOrDefault("ENTITYSIM_PORT", 8080)
	duration := envIntOrDefault("ENTITYSIM_TICKS", 200)
	seed := int64(envIntOrDefault("ENTITYSIM_SEED", 42))

	cfg := entity.DefaultConfig()
	slog.Info("phenomenal state engine",
		"critical_threshold", cfg.CriticalThreshold,
		"flow_threshold", cfg.FlowThreshold,
		"despair_threshold", cfg.DespairThreshold,
		"hope_threshold", cfg.HopeThreshold,
		"asymmetry_ratio", cfg.AsymmetryRatio,
	)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Entity ────────────────────────────────────────────────────────
	e, err := entity.New(name, cfg)
	if err != nil {
		slog.Error("failed to create entity", "error", err)
		os.Exit(1)
	}

	registry := api.NewRegistry()
	registry.Add(e)

	// ── Life simulation ───────────────────────────────────────────────
	lifeCfg := experiment.DefaultLifeConfig()
	lifeCfg.Duration = duration
	lifeCfg.Seed = seed

	report, err := experiment.RunLife(e, lifeCfg)
	if err != nil {
		slog.Error("life simulation failed", "error", err)
		os.Exit(1)
	}

	if err := db.SaveRun(report.EntityID, report.Snapshots); err != nil {
		slog.Error("failed to persist snapshots", "error", err)
		os.Exit(1)
	}

	bio := report.Biography
	slog.Info("life statistics",
		"age", humanize.Comma(int64(bio.Age)),
		"snapshots", humanize.Comma(int64(len(report.Snapshots))),
		"time_in_crisis", humanize.Comma(int64(bio.LifeStats.TimeInCrisis)),
		"time_flourishing", humanize.Comma(int64(bio.LifeStats.TimeInFlourishing)),
		"deepest_fall", fmt.Sprintf("%.1f%%", bio.LifeStats.DeepestFall*100),
		"highest_rise", fmt.Sprintf("%.1f%%", bio.LifeStats.HighestRise*100),
	)
	slog.Info("accumulated traits",
		"trauma_memory", fmt.Sprintf("%.3f", bio.Traits.TraumaMemory),
		"gratitude", fmt.Sprintf("%.3f", bio.Traits.Gratitude),
		"wisdom", fmt.Sprintf("%.3f", bio.Traits.Wisdom),
	)
	slog.Info("achievements",
		"survived_crisis", bio.Achievements.SurvivedCrisis,
		"achieved_flow", bio.Achievements.AchievedFlow,
		"transcended", bio.Achievements.Transcended,
	)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Print(report.Story)
	fmt.Println(strings.Repeat("=", 70))

	// ── Read-only API over the finished life ──────────────────────────
	srv := &api.Server{
		Registry: registry,
		DB:       db,
		Port:     apiPort,
		Limiter:  api.NewRateLimiter(120, time.Minute),
	}
	srv.Start()

	slog.Info("serving entity state", "port", apiPort, "entity", report.EntityID)
	select {}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
