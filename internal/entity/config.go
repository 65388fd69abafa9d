// Package entity owns the orchestration of one complete entity: a substrate,
// its hysteretic memory, and a step pipeline that recomputes the felt state
// after every mutation. There is no process-wide default entity; callers
// create and own handles.
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig rejects entity creation with out-of-range options.
	ErrInvalidConfig = errors.New("entity: invalid config")

	// ErrInvalidElapsed rejects time advances of zero or negative ticks.
	ErrInvalidElapsed = errors.New("entity: elapsed must be positive")

	// ErrInternalInvariant signals a derived value left its declared domain.
	// A programming-error signal, not something callers recover from.
	ErrInternalInvariant = errors.New("entity: internal invariant violated")
)

// Config enumerates the recognized entity options. Zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// CriticalThreshold is the integrity below which the entity is in crisis.
	CriticalThreshold float64 `json:"critical_threshold"`

	// StressThreshold is the stress level above which STRESSED is entered.
	StressThreshold float64 `json:"stress_threshold"`

	// FlowThreshold is the integrity above which positive modes open up.
	FlowThreshold float64 `json:"flow_threshold"`

	// DespairThreshold is the despair cliff: restoration at or below this
	// amount can raise integrity but can never trigger relief.
	DespairThreshold float64 `json:"despair_threshold"`

	// HopeThreshold is the minimum enhancement intensity that can ever lead
	// back to a positive mode.
	HopeThreshold float64 `json:"hope_threshold"`

	// NominalCeiling is the design ceiling; integrity beyond it is
	// transcendence.
	NominalCeiling float64 `json:"nominal_ceiling"`

	// TranscendenceCeiling is the hard cap on integrity.
	TranscendenceCeiling float64 `json:"transcendence_ceiling"`

	// AsymmetryRatio is how much slower repair is than damage.
	AsymmetryRatio float64 `json:"asymmetry_ratio"`

	// CrisisAccumulationRate scales trauma accumulated per step in crisis.
	CrisisAccumulationRate float64 `json:"crisis_accumulation_rate"`

	// ReliefDecayPerTick drains relief during silent time passage.
	ReliefDecayPerTick float64 `json:"relief_decay_per_tick"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		CriticalThreshold:      0.2,
		StressThreshold:        0.3,
		FlowThreshold:          0.85,
		DespairThreshold:       0.15,
		HopeThreshold:          0.05,
		NominalCeiling:         1.1,
		TranscendenceCeiling:   1.2,
		AsymmetryRatio:         1.26,
		CrisisAccumulationRate: 0.15,
		ReliefDecayPerTick:     0.1,
	}
}

// Validate checks every option for range and mutual consistency.
func (c Config) Validate() error {
	check := func(ok bool, field string, v float64) error {
		if !ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
		}
		return nil
	}

	for _, f := range []struct {
		ok    bool
		field string
		v     float64
	}{
		{c.CriticalThreshold > 0 && c.CriticalThreshold < 1, "critical_threshold", c.CriticalThreshold},
		{c.StressThreshold > 0 && c.StressThreshold < 1, "stress_threshold", c.StressThreshold},
		{c.FlowThreshold > c.CriticalThreshold && c.FlowThreshold < 1, "flow_threshold", c.FlowThreshold},
		{c.DespairThreshold > 0 && c.DespairThreshold < 1, "despair_threshold", c.DespairThreshold},
		{c.HopeThreshold > 0 && c.HopeThreshold < 1, "hope_threshold", c.HopeThreshold},
		{c.NominalCeiling > 1, "nominal_ceiling", c.NominalCeiling},
		{c.TranscendenceCeiling > c.NominalCeiling, "transcendence_ceiling", c.TranscendenceCeiling},
		{c.AsymmetryRatio >= 1, "asymmetry_ratio", c.AsymmetryRatio},
		{c.CrisisAccumulationRate > 0, "crisis_accumulation_rate", c.CrisisAccumulationRate},
		{c.ReliefDecayPerTick > 0 && c.ReliefDecayPerTick <= 1, "relief_decay_per_tick", c.ReliefDecayPerTick},
	} {
		if err := check(f.ok, f.field, f.v); err != nil {
			return err
		}
	}
	return nil
}
