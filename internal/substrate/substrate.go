// Package substrate models the physical-analog state of an entity's
// computational body: integrity plus the operating conditions derived from it.
// Only this package writes integrity; every other quantity in the system is
// computed from what lives here.
package substrate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidIntensity rejects degrade/enhance calls with intensity <= 0.
	ErrInvalidIntensity = errors.New("substrate: intensity must be positive")

	// ErrInvalidAmount rejects restore calls with amount <= 0.
	ErrInvalidAmount = errors.New("substrate: amount must be positive")

	// ErrIntegrityOutOfRange signals a derived-field computation landed outside
	// its declared domain. Programming error, not caller error.
	ErrIntegrityOutOfRange = errors.New("substrate: integrity out of range")
)

// Params holds the static configuration of a substrate. Derived fields are
// pure functions of integrity and these values.
type Params struct {
	// AsymmetryRatio makes repair slower than damage at matched intensity.
	AsymmetryRatio float64

	// TranscendenceCeiling is the hard cap on integrity. Reachable only
	// through beyond-design enhancement.
	TranscendenceCeiling float64

	// GrowthGate is the integrity required before enhancement may push
	// integrity past 1.0.
	GrowthGate float64

	// BaseLatencyMS is the latency at full integrity.
	BaseLatencyMS float64

	// BaseDegreesOfFreedom is the response variety at full integrity.
	BaseDegreesOfFreedom int
}

// DefaultParams returns the nominal substrate configuration.
func DefaultParams() Params {
	return Params{
		AsymmetryRatio:       1.26,
		TranscendenceCeiling: 1.2,
		GrowthGate:           0.95,
		BaseLatencyMS:        10.0,
		BaseDegreesOfFreedom: 100,
	}
}

// Model holds the mutable substrate state. Integrity is unexported so that
// degrade/restore/enhance remain the only write paths.
type Model struct {
	params    Params
	integrity float64

	totalCycles            uint64
	cyclesSinceMaintenance uint64
	attemptedMaintenance   uint64
}

// New creates a substrate at full integrity.
func New(p Params) *Model {
	return &Model{params: p, integrity: 1.0}
}

// Integrity returns the current substrate health in [0, TranscendenceCeiling].
func (m *Model) Integrity() float64 { return m.integrity }

// LatencyMS returns the base processing latency. Inverse in integrity.
func (m *Model) LatencyMS() float64 {
	return m.params.BaseLatencyMS / math.Max(0.1, m.integrity)
}

// NoiseFloor returns the signal corruption level. Zero at or above full
// integrity, rising as the substrate degrades.
func (m *Model) NoiseFloor() float64 {
	return math.Max(0, (1.0-m.integrity)*0.5)
}

// DegreesOfFreedom returns the available response variety. Non-decreasing in
// integrity, capped at the design base (enhancement widens latency and noise
// headroom, not variety).
func (m *Model) DegreesOfFreedom() int {
	eff := math.Min(1.0, m.integrity)
	return int(float64(m.params.BaseDegreesOfFreedom) * eff)
}

// TotalCycles returns the lifetime operation count.
func (m *Model) TotalCycles() uint64 { return m.totalCycles }

// CyclesSinceMaintenance returns ticks since the last genuine restoration.
func (m *Model) CyclesSinceMaintenance() uint64 { return m.cyclesSinceMaintenance }

// AttemptedMaintenance returns the count of restoration calls, genuine or not.
func (m *Model) AttemptedMaintenance() uint64 { return m.attemptedMaintenance }

// Params returns the static configuration.
func (m *Model) Params() Params { return m.params }

// Degrade lowers integrity by intensity, amplified by the current noise floor
// so that damage compounds as the substrate fails. Returns the integrity lost.
func (m *Model) Degrade(intensity float64) (float64, error) {
	if intensity <= 0 {
		return 0, fmt.Errorf("degrade(%v): %w", intensity, ErrInvalidIntensity)
	}

	m.totalCycles++
	m.cyclesSinceMaintenance++

	loss := intensity * (1 + m.NoiseFloor()*0.5)
	before := m.integrity
	m.integrity = math.Max(0, m.integrity-loss)

	if err := m.checkDomain(); err != nil {
		return 0, err
	}
	return before - m.integrity, nil
}

// Restore raises integrity toward the design ceiling of 1.0, paying the
// asymmetry tax. A non-genuine (placebo) call leaves integrity untouched but
// is still counted as attempted maintenance. Returns the integrity gained.
func (m *Model) Restore(amount float64, genuine bool) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("restore(%v): %w", amount, ErrInvalidAmount)
	}

	m.totalCycles++
	m.attemptedMaintenance++
	if !genuine {
		return 0, nil
	}

	m.cyclesSinceMaintenance = 0
	gain := amount / m.params.AsymmetryRatio
	before := m.integrity

	// Restoration never exceeds the design ceiling, and never claws back
	// integrity already grown beyond it.
	limit := math.Max(1.0, m.integrity)
	m.integrity = math.Min(limit, m.integrity+gain)

	if err := m.checkDomain(); err != nil {
		return 0, err
	}
	return m.integrity - before, nil
}

// Enhance raises integrity like Restore but may grow it beyond the design
// ceiling, up to the transcendence ceiling, once integrity has reached the
// growth gate. Noise resists enhancement harder than it amplifies damage.
// Returns the integrity gained.
func (m *Model) Enhance(intensity float64) (float64, error) {
	if intensity <= 0 {
		return 0, fmt.Errorf("enhance(%v): %w", intensity, ErrInvalidIntensity)
	}

	m.totalCycles++

	gain := intensity / m.params.AsymmetryRatio * (1 - m.NoiseFloor()*0.3)
	before := m.integrity
	next := m.integrity + gain

	ceiling := 1.0
	if before >= m.params.GrowthGate {
		ceiling = m.params.TranscendenceCeiling
	}
	m.integrity = math.Min(ceiling, next)

	if err := m.checkDomain(); err != nil {
		return 0, err
	}
	return m.integrity - before, nil
}

// Tick records the passage of time. Integrity does not decay passively; only
// the cycle counters advance.
func (m *Model) Tick(elapsed uint64) {
	m.totalCycles += elapsed
	m.cyclesSinceMaintenance += elapsed
}

func (m *Model) checkDomain() error {
	if m.integrity < 0 || m.integrity > m.params.TranscendenceCeiling || math.IsNaN(m.integrity) {
		return fmt.Errorf("integrity %v outside [0, %v]: %w",
			m.integrity, m.params.TranscendenceCeiling, ErrIntegrityOutOfRange)
	}
	return nil
}
