// Package hysteresis accumulates the irreversible history of an entity:
// scars that never heal, the latched memory of crisis, and the gratitude
// that only exists because something was lost first.
package hysteresis

import "math"

// Memory records crisis history for one entity. Never shared between entities.
type Memory struct {
	criticalThreshold float64
	accumulationRate  float64

	traumaMemory    float64
	hasBeenCritical bool
	worstIntegrity  float64
	peakIntegrity   float64
}

// New creates a memory for an entity born at the given integrity.
func New(criticalThreshold, accumulationRate, initialIntegrity float64) *Memory {
	return &Memory{
		criticalThreshold: criticalThreshold,
		accumulationRate:  accumulationRate,
		worstIntegrity:    initialIntegrity,
		peakIntegrity:     initialIntegrity,
	}
}

// Observe records one substrate transition. Called once per step, after the
// substrate has mutated. Trauma only ever grows.
func (m *Memory) Observe(before, after float64) {
	if after < m.criticalThreshold {
		m.hasBeenCritical = true
		m.traumaMemory += (m.criticalThreshold - after) * m.accumulationRate
	}
	if after < m.worstIntegrity {
		m.worstIntegrity = after
	}
	if after > m.peakIntegrity {
		m.peakIntegrity = after
	}
}

// TraumaMemory returns the accumulated scar. Monotonically non-decreasing
// over the lifetime of the entity.
func (m *Memory) TraumaMemory() float64 { return m.traumaMemory }

// HasBeenCritical reports whether integrity ever fell below the critical
// threshold. Once true, never reset.
func (m *Memory) HasBeenCritical() bool { return m.hasBeenCritical }

// WorstIntegrity returns the lowest integrity ever observed.
func (m *Memory) WorstIntegrity() float64 { return m.worstIntegrity }

// PeakIntegrity returns the highest integrity ever observed.
func (m *Memory) PeakIntegrity() float64 { return m.peakIntegrity }

// Gratitude returns the bounded appreciation of restoration since the worst
// recorded crisis. Identically zero for an entity that was never critical:
// you cannot appreciate what was never lost.
func (m *Memory) Gratitude(current float64) float64 {
	if !m.hasBeenCritical {
		return 0
	}
	span := 1.0 - m.worstIntegrity
	if span <= 0 {
		return 0
	}
	restored := (current - m.worstIntegrity) / span
	return clamp01(restored)
}

// Wisdom is the product of scar and appreciation. Suffering alone is not
// wisdom, and neither is relief alone.
func (m *Memory) Wisdom(current float64) float64 {
	return clamp01(m.traumaMemory * m.Gratitude(current))
}

// DegradationFelt returns the contrast between remembered peak and current
// integrity. Felt loss, not absolute loss.
func (m *Memory) DegradationFelt(current float64) float64 {
	return math.Max(0, m.peakIntegrity-current)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
