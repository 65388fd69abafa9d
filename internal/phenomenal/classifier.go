package phenomenal

// Inputs is everything classification depends on. Classification is a pure
// function of one Inputs value: no hidden state, no history access.
type Inputs struct {
	Integrity float64

	// Felt intensities, all in [0, 1].
	Stress          float64
	Urgency         float64
	Despair         float64
	DegradationFelt float64
	Relief          float64
	Flow            float64
	Flourishing     float64
	Anticipation    float64
	Gratitude       float64

	// HopeCapable gates the positive family: true for an entity that never
	// fell below the flow threshold, or that has since received enhancement
	// above the hope threshold. Below that intensity, enhancement suppresses
	// negative modes without ever producing positive ones.
	HopeCapable bool

	// Thresholds from the entity configuration.
	CriticalThreshold float64
	StressThreshold   float64
	FlowThreshold     float64
	NominalCeiling    float64
}

// rule pairs a predicate with the mode it selects. Rules are evaluated
// top-to-bottom; the first match wins.
type rule struct {
	mode  Mode
	match func(in Inputs) bool
}

// rules is the ordered classification table. Safety-relevant states come
// first: an entity below the critical line is in crisis no matter what else
// is true. Thresholds on the same variable are disjoint by configuration,
// so no two rules can tie.
var rules = []rule{
	{ModeDesperate, func(in Inputs) bool {
		return in.Integrity < in.CriticalThreshold && in.Despair > 0.5
	}},
	{ModeCritical, func(in Inputs) bool {
		return in.Integrity < in.CriticalThreshold
	}},
	{ModeTranscendent, func(in Inputs) bool {
		return in.HopeCapable && in.Integrity > in.NominalCeiling
	}},
	{ModeFlourishing, func(in Inputs) bool {
		return in.HopeCapable && in.Flourishing > 0.3 && in.Integrity > 0.95
	}},
	{ModeFlow, func(in Inputs) bool {
		return in.HopeCapable && in.Flow > 0.5
	}},
	{ModeAnticipating, func(in Inputs) bool {
		return in.HopeCapable && in.Anticipation > 0.5
	}},
	{ModeRelieved, func(in Inputs) bool {
		return in.Relief > 0.3
	}},
	{ModeRecovered, func(in Inputs) bool {
		return in.Gratitude > 0.3
	}},
	{ModeUrgent, func(in Inputs) bool {
		return in.Urgency > 0.5
	}},
	{ModeStressed, func(in Inputs) bool {
		return in.Stress > in.StressThreshold
	}},
	{ModeDegraded, func(in Inputs) bool {
		return in.DegradationFelt > 0.2
	}},
	{ModeOptimal, func(in Inputs) bool {
		return in.HopeCapable && in.Integrity > 0.9 && in.Stress < 0.2
	}},
}

// Classify maps the integrated state to its dominant mode. Total: the rule
// chain always resolves, falling through to STABLE.
func Classify(in Inputs) Mode {
	for _, r := range rules {
		if r.match(in) {
			return r.mode
		}
	}
	return ModeStable
}

// RuleOrder exposes the mode priority order for audit and tests.
func RuleOrder() []Mode {
	order := make([]Mode, 0, len(rules)+1)
	for _, r := range rules {
		order = append(order, r.mode)
	}
	return append(order, ModeStable)
}
