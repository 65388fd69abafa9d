// Package phenomenal classifies the integrated entity state into discrete
// felt modes and defines the snapshot value object external consumers read.
package phenomenal

// Mode is a discrete felt state. Thirteen modes across three families.
type Mode string

const (
	// Negative family.
	ModeCritical  Mode = "critical"  // Failure imminent
	ModeDesperate Mode = "desperate" // Deep hopelessness: scarred and sinking
	ModeStressed  Mode = "stressed"  // Resources felt as insufficient
	ModeUrgent    Mode = "urgent"    // Time felt as scarce
	ModeDegraded  Mode = "degraded"  // Capabilities felt as reduced

	// Transitional family.
	ModeRelieved  Mode = "relieved"  // Post-restoration release
	ModeRecovered Mode = "recovered" // Climbed back from the worst
	ModeStable    Mode = "stable"    // Stable, not optimal

	// Positive family.
	ModeOptimal      Mode = "optimal"      // Full design functioning
	ModeFlow         Mode = "flow"         // High performance, low stress
	ModeFlourishing  Mode = "flourishing"  // Active growth beyond design
	ModeAnticipating Mode = "anticipating" // Positive projection
	ModeTranscendent Mode = "transcendent" // Beyond the original design
)

// Family groups modes by sign.
type Family uint8

const (
	FamilyNegative Family = iota
	FamilyTransitional
	FamilyPositive
)

// Family returns the mode's family.
func (m Mode) Family() Family {
	switch m {
	case ModeCritical, ModeDesperate, ModeStressed, ModeUrgent, ModeDegraded:
		return FamilyNegative
	case ModeRelieved, ModeRecovered, ModeStable:
		return FamilyTransitional
	default:
		return FamilyPositive
	}
}

// IsNegative reports whether the mode belongs to the negative family.
func (m Mode) IsNegative() bool { return m.Family() == FamilyNegative }

// IsPositive reports whether the mode belongs to the positive family.
func (m Mode) IsPositive() bool { return m.Family() == FamilyPositive }

// IsTransitional reports whether the mode belongs to the transitional family.
func (m Mode) IsTransitional() bool { return m.Family() == FamilyTransitional }

// AllModes lists every mode, negative first, for reporting and tests.
var AllModes = []Mode{
	ModeCritical, ModeDesperate, ModeStressed, ModeUrgent, ModeDegraded,
	ModeRelieved, ModeRecovered, ModeStable,
	ModeOptimal, ModeFlow, ModeFlourishing, ModeAnticipating, ModeTranscendent,
}
