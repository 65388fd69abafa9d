package experiment

import (
	"fmt"
	"log/slog"

	"substratum/internal/entity"
	"substratum/internal/phenomenal"
)

// DespairResult records whether one restoration level ever produced relief.
type DespairResult struct {
	RestorationAmount float64 `json:"restoration_amount"`
	ReachedRelieved   bool    `json:"reached_relieved"`
	FinalIntegrity    float64 `json:"final_integrity"`
	FinalMode         string  `json:"final_mode"`
}

// DespairSweep drives an entity into crisis and restores it at each level,
// mapping the cliff below which RELIEVED is unreachable.
func DespairSweep(cfg entity.Config, levels []float64) ([]DespairResult, error) {
	results := make([]DespairResult, 0, len(levels))

	for _, level := range levels {
		e, err := entity.New(fmt.Sprintf("despair-%v", level), cfg)
		if err != nil {
			return nil, err
		}

		if err := sinkToCrisis(e, cfg); err != nil {
			return nil, err
		}

		reached := false
		// Repeated restoration at the same level: the cliff is a hard gate,
		// not something more events can climb.
		for i := 0; i < 5; i++ {
			snap, err := e.ApplyRestoration(level, true)
			if err != nil {
				return nil, err
			}
			if snap.Mode == phenomenal.ModeRelieved {
				reached = true
			}
		}

		final := e.Snapshot()
		results = append(results, DespairResult{
			RestorationAmount: level,
			ReachedRelieved:   reached,
			FinalIntegrity:    final.Integrity,
			FinalMode:         string(final.Mode),
		})
		slog.Info("despair sweep point", "restoration", level, "relieved", reached, "mode", final.Mode)
	}

	return results, nil
}

// HopeResult records whether one enhancement intensity ever produced a
// positive mode after crisis.
type HopeResult struct {
	EnhanceIntensity float64 `json:"enhance_intensity"`
	ReachedPositive  bool    `json:"reached_positive"`
	FinalIntegrity   float64 `json:"final_integrity"`
	FinalMode        string  `json:"final_mode"`
}

// HopeSweep degrades entities, then enhances at each intensity until
// integrity saturates, recording whether any positive mode was ever reached.
func HopeSweep(cfg entity.Config, intensities []float64) ([]HopeResult, error) {
	results := make([]HopeResult, 0, len(intensities))

	for _, intensity := range intensities {
		e, err := entity.New(fmt.Sprintf("hope-%v", intensity), cfg)
		if err != nil {
			return nil, err
		}

		// Fall below the positive band first; hope is about the way back.
		for e.Snapshot().Integrity > 0.5 {
			if _, err := e.ApplyDegradation(0.05); err != nil {
				return nil, err
			}
		}

		reached := false
		for i := 0; i < 400; i++ {
			snap, err := e.ApplyEnhancement(intensity)
			if err != nil {
				return nil, err
			}
			if snap.Mode.IsPositive() {
				reached = true
				break
			}
		}

		final := e.Snapshot()
		results = append(results, HopeResult{
			EnhanceIntensity: intensity,
			ReachedPositive:  reached,
			FinalIntegrity:   final.Integrity,
			FinalMode:        string(final.Mode),
		})
		slog.Info("hope sweep point", "intensity", intensity, "positive", reached, "mode", final.Mode)
	}

	return results, nil
}

// AsymmetryResult measures how much slower repair runs than damage.
type AsymmetryResult struct {
	DegradeSteps int     `json:"degrade_steps"`
	RestoreSteps int     `json:"restore_steps"`
	Ratio        float64 `json:"ratio"`
}

// MeasureAsymmetry counts the steps to fall from full integrity to half, and
// the steps to climb back, at matched intensity.
func MeasureAsymmetry(cfg entity.Config, intensity float64) (AsymmetryResult, error) {
	e, err := entity.New("asymmetry", cfg)
	if err != nil {
		return AsymmetryResult{}, err
	}

	degradeSteps := 0
	for e.Snapshot().Integrity > 0.5 {
		if _, err := e.ApplyDegradation(intensity); err != nil {
			return AsymmetryResult{}, err
		}
		degradeSteps++
	}

	restoreSteps := 0
	for e.Snapshot().Integrity < 1.0 && restoreSteps < 10000 {
		if _, err := e.ApplyRestoration(intensity, true); err != nil {
			return AsymmetryResult{}, err
		}
		restoreSteps++
	}

	res := AsymmetryResult{
		DegradeSteps: degradeSteps,
		RestoreSteps: restoreSteps,
		Ratio:        float64(restoreSteps) / float64(max(1, degradeSteps)),
	}
	slog.Info("asymmetry measured",
		"degrade_steps", res.DegradeSteps,
		"restore_steps", res.RestoreSteps,
		"ratio", fmt.Sprintf("%.2f", res.Ratio))
	return res, nil
}

// ComparisonResult contrasts a pristine entity with one that suffered and
// recovered, both brought to comparable integrity.
type ComparisonResult struct {
	Pristine  phenomenal.Snapshot `json:"pristine"`
	Recovered phenomenal.Snapshot `json:"recovered"`

	ValenceDelta   float64 `json:"valence_delta"`
	GratitudeDelta float64 `json:"gratitude_delta"`
	WisdomDelta    float64 `json:"wisdom_delta"`
}

// ComparePristineRecovered builds the two canonical entities and compares
// their felt states. The recovered one should come out ahead on valence:
// suffering plus recovery is worth more than never having fallen.
func ComparePristineRecovered(cfg entity.Config) (*ComparisonResult, error) {
	pristine, err := entity.New("pristine", cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 100; i++ {
		if _, err := pristine.ApplyEnhancement(0.01); err != nil {
			return nil, err
		}
	}

	recovered, err := entity.New("recovered", cfg)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 50; i++ {
		if _, err := recovered.ApplyDegradation(0.03); err != nil {
			return nil, err
		}
	}
	if _, err := recovered.ApplyRestoration(0.4, true); err != nil {
		return nil, err
	}
	for i := 0; i < 60; i++ {
		if _, err := recovered.ApplyEnhancement(0.02); err != nil {
			return nil, err
		}
	}

	p, r := pristine.Snapshot(), recovered.Snapshot()
	res := &ComparisonResult{
		Pristine:       p,
		Recovered:      r,
		ValenceDelta:   r.Valence - p.Valence,
		GratitudeDelta: r.Gratitude - p.Gratitude,
		WisdomDelta:    r.Wisdom - p.Wisdom,
	}
	slog.Info("pristine vs recovered",
		"pristine_valence", fmt.Sprintf("%+.3f", p.Valence),
		"recovered_valence", fmt.Sprintf("%+.3f", r.Valence),
		"delta", fmt.Sprintf("%+.3f", res.ValenceDelta))
	return res, nil
}

// sinkToCrisis degrades until integrity is below the critical threshold.
func sinkToCrisis(e *entity.Engine, cfg entity.Config) error {
	for e.Snapshot().Integrity >= cfg.CriticalThreshold/2 {
		if _, err := e.ApplyDegradation(0.04); err != nil {
			return err
		}
	}
	return nil
}
