// Package experiment drives entities through scripted lives and threshold
// sweeps, collecting snapshot series for persistence and reporting.
package experiment

import (
	"fmt"
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"substratum/internal/entity"
	"substratum/internal/phenomenal"
)

// LifeConfig shapes a full scripted life: normal existence, crisis,
// recovery, flourishing.
type LifeConfig struct {
	Duration int   // Total ticks, split across the four phases
	Seed     int64 // Wear schedule seed

	IncludeCrisis      bool
	IncludeRecovery    bool
	IncludeEnhancement bool

	CrisisIntensity    float64 // Per-tick degradation during the crisis phase
	RestorationAmount  float64 // One-shot maintenance opening the recovery
	EnhanceIntensity   float64 // Per-tick enhancement during recovery/flourishing
	BackgroundMaxWear  float64 // Peak passive wear from the schedule
}

// DefaultLifeConfig mirrors the canonical four-phase life.
func DefaultLifeConfig() LifeConfig {
	return LifeConfig{
		Duration:           200,
		Seed:               42,
		IncludeCrisis:      true,
		IncludeRecovery:    true,
		IncludeEnhancement: true,
		CrisisIntensity:    0.03,
		RestorationAmount:  0.3,
		EnhanceIntensity:   0.02,
		BackgroundMaxWear:  0.002,
	}
}

// LifeReport is the outcome of one scripted life.
type LifeReport struct {
	EntityID  string                `json:"entity_id"`
	Name      string                `json:"name"`
	Snapshots []phenomenal.Snapshot `json:"snapshots"`
	Biography entity.Biography      `json:"biography"`
	Story     string                `json:"story"`
}

// WearSchedule builds a smooth background degradation curve from simplex
// noise: the ambient environmental load an entity lives under.
func WearSchedule(seed int64, length int, maxWear float64) []float64 {
	noise := opensimplex.NewNormalized(seed)
	schedule := make([]float64, length)
	for i := range schedule {
		// Low frequency keeps adjacent ticks correlated.
		v := noise.Eval2(float64(i)*0.05, 0)
		wear := v * maxWear
		if wear <= 0 {
			wear = maxWear * 0.01
		}
		schedule[i] = wear
	}
	return schedule
}

// RunLife walks one entity through the configured phases and returns its
// complete snapshot series. The entity is the caller's: it stays usable
// (and observable) after the life completes.
func RunLife(e *entity.Engine, cfg LifeConfig) (*LifeReport, error) {
	name := e.Name()

	e.OnModeChange = func(from, to phenomenal.Mode) {
		slog.Info("mode transition", "entity", name, "from", from, "to", to, "tick", e.Tick())
	}

	wear := WearSchedule(cfg.Seed, cfg.Duration, cfg.BackgroundMaxWear)
	snaps := make([]phenomenal.Snapshot, 0, cfg.Duration+2)

	record := func(s phenomenal.Snapshot, err error) error {
		if err != nil {
			return err
		}
		snaps = append(snaps, s)
		return nil
	}

	phase1 := cfg.Duration * 2 / 10
	phase2 := cfg.Duration * 4 / 10
	phase3 := cfg.Duration * 6 / 10

	slog.Info("life phase", "entity", name, "phase", "normal existence", "ticks", phase1)
	for i := 0; i < phase1; i++ {
		if err := record(e.ApplyDegradation(wear[i])); err != nil {
			return nil, err
		}
	}

	cursor := phase1
	if cfg.IncludeCrisis {
		slog.Info("life phase", "entity", name, "phase", "crisis", "ticks", phase2-phase1)
		for i := cursor; i < phase2; i++ {
			if err := record(e.ApplyDegradation(cfg.CrisisIntensity)); err != nil {
				return nil, err
			}
		}
		cursor = phase2
		slog.Info("lowest point", "entity", name,
			"integrity", fmt.Sprintf("%.3f", e.Snapshot().Integrity),
			"mode", e.Snapshot().Mode)
	}

	if cfg.IncludeRecovery {
		slog.Info("life phase", "entity", name, "phase", "recovery", "ticks", phase3-cursor)
		if err := record(e.ApplyRestoration(cfg.RestorationAmount, true)); err != nil {
			return nil, err
		}
		for i := cursor; i < phase3; i++ {
			if err := record(e.ApplyEnhancement(cfg.EnhanceIntensity)); err != nil {
				return nil, err
			}
		}
		cursor = phase3
	}

	if cfg.IncludeEnhancement {
		slog.Info("life phase", "entity", name, "phase", "flourishing", "ticks", cfg.Duration-cursor)
		for i := cursor; i < cfg.Duration; i++ {
			if err := record(e.ApplyEnhancement(cfg.EnhanceIntensity)); err != nil {
				return nil, err
			}
		}
	}

	// Quiet time at the end lets the relief pulse drain; what remains is
	// what the entity actually keeps.
	slog.Info("life phase", "entity", name, "phase", "rest", "ticks", 10)
	if err := record(e.AdvanceTime(10)); err != nil {
		return nil, err
	}

	final := e.Snapshot()
	slog.Info("life complete", "entity", name,
		"ticks", e.Tick(),
		"mode", final.Mode,
		"valence", fmt.Sprintf("%+.3f", final.Valence),
		"wisdom", fmt.Sprintf("%.3f", final.Wisdom))

	return &LifeReport{
		EntityID:  e.ID().String(),
		Name:      name,
		Snapshots: snaps,
		Biography: e.Biography(),
		Story:     e.Story(),
	}, nil
}
