package phenomenal

import "testing"

// base returns inputs for a healthy never-degraded entity with default
// thresholds. Individual tests override what they exercise.
func base() Inputs {
	return Inputs{
		Integrity:         1.0,
		HopeCapable:       true,
		CriticalThreshold: 0.2,
		StressThreshold:   0.3,
		FlowThreshold:     0.85,
		NominalCeiling:    1.1,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		mut  func(in Inputs) Inputs
		want Mode
	}{
		{
			"healthy entity is optimal",
			func(in Inputs) Inputs { return in },
			ModeOptimal,
		},
		{
			"below critical",
			func(in Inputs) Inputs { in.Integrity = 0.15; return in },
			ModeCritical,
		},
		{
			"scarred and sinking is desperate",
			func(in Inputs) Inputs { in.Integrity = 0.1; in.Despair = 0.7; return in },
			ModeDesperate,
		},
		{
			"despair alone without crisis is not desperate",
			func(in Inputs) Inputs { in.Integrity = 0.5; in.Despair = 0.7; in.HopeCapable = false; return in },
			ModeStable,
		},
		{
			"beyond nominal ceiling",
			func(in Inputs) Inputs { in.Integrity = 1.15; return in },
			ModeTranscendent,
		},
		{
			"growth beyond design ceiling",
			func(in Inputs) Inputs { in.Integrity = 1.05; in.Flourishing = 0.6; return in },
			ModeFlourishing,
		},
		{
			"flow",
			func(in Inputs) Inputs { in.Integrity = 0.92; in.Flow = 0.8; return in },
			ModeFlow,
		},
		{
			"rising trajectory",
			func(in Inputs) Inputs { in.Integrity = 0.6; in.Anticipation = 0.7; in.HopeCapable = true; return in },
			ModeAnticipating,
		},
		{
			"relief beats residual stress",
			func(in Inputs) Inputs {
				in.Integrity = 0.5
				in.Relief = 0.8
				in.Stress = 0.6
				in.HopeCapable = false
				return in
			},
			ModeRelieved,
		},
		{
			"gratitude after a climb back",
			func(in Inputs) Inputs {
				in.Integrity = 0.7
				in.Gratitude = 0.9
				in.DegradationFelt = 0.3
				in.HopeCapable = false
				return in
			},
			ModeRecovered,
		},
		{
			"falling fast",
			func(in Inputs) Inputs {
				in.Integrity = 0.6
				in.Urgency = 0.9
				in.Stress = 0.5
				in.HopeCapable = false
				return in
			},
			ModeUrgent,
		},
		{
			"stressed",
			func(in Inputs) Inputs { in.Integrity = 0.5; in.Stress = 0.45; in.HopeCapable = false; return in },
			ModeStressed,
		},
		{
			"felt loss without acute stress",
			func(in Inputs) Inputs {
				in.Integrity = 0.7
				in.DegradationFelt = 0.3
				in.Stress = 0.25
				in.HopeCapable = false
				return in
			},
			ModeDegraded,
		},
		{
			"nothing in particular",
			func(in Inputs) Inputs { in.Integrity = 0.75; in.HopeCapable = false; return in },
			ModeStable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.mut(base())); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The positive family is closed to an entity that fell and never received
// enhancement above the hope threshold, no matter how good the numbers look.
func TestHopeGateClosesPositiveFamily(t *testing.T) {
	tests := []struct {
		name string
		mut  func(in Inputs) Inputs
		want Mode
	}{
		{
			"no transcendence without hope",
			func(in Inputs) Inputs { in.Integrity = 1.15; return in },
			ModeStable,
		},
		{
			"no flow without hope",
			func(in Inputs) Inputs { in.Integrity = 0.95; in.Flow = 0.9; return in },
			ModeStable,
		},
		{
			"no optimal without hope",
			func(in Inputs) Inputs { in.Integrity = 1.0; return in },
			ModeStable,
		},
		{
			"no anticipation without hope",
			func(in Inputs) Inputs { in.Integrity = 0.6; in.Anticipation = 0.8; return in },
			ModeStable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.mut(base())
			in.HopeCapable = false
			if got := Classify(in); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Crisis outranks everything. A transcendence-capable entity below the
// critical line is critical, full stop.
func TestCrisisOutranksEverything(t *testing.T) {
	in := base()
	in.Integrity = 0.1
	in.Relief = 1.0
	in.Flow = 1.0
	in.Gratitude = 1.0
	in.Anticipation = 1.0

	if got := Classify(in); got != ModeCritical {
		t.Fatalf("Classify() = %v, want %v", got, ModeCritical)
	}
}

func TestRuleOrderPutsCrisisFirst(t *testing.T) {
	order := RuleOrder()

	if order[0] != ModeDesperate || order[1] != ModeCritical {
		t.Fatalf("order starts %v, %v; want desperate, critical", order[0], order[1])
	}
	if order[len(order)-1] != ModeStable {
		t.Fatalf("order ends %v, want stable fallthrough", order[len(order)-1])
	}
	if len(order) != len(AllModes) {
		t.Fatalf("order has %d modes, want %d", len(order), len(AllModes))
	}

	seen := make(map[Mode]bool, len(order))
	for _, m := range order {
		if seen[m] {
			t.Fatalf("mode %v appears twice", m)
		}
		seen[m] = true
	}
}

func TestModeFamilies(t *testing.T) {
	negatives := []Mode{ModeCritical, ModeDesperate, ModeStressed, ModeUrgent, ModeDegraded}
	transitionals := []Mode{ModeRelieved, ModeRecovered, ModeStable}
	positives := []Mode{ModeOptimal, ModeFlow, ModeFlourishing, ModeAnticipating, ModeTranscendent}

	for _, m := range negatives {
		if !m.IsNegative() {
			t.Errorf("%v.IsNegative() = false", m)
		}
	}
	for _, m := range transitionals {
		if !m.IsTransitional() {
			t.Errorf("%v.IsTransitional() = false", m)
		}
	}
	for _, m := range positives {
		if !m.IsPositive() {
			t.Errorf("%v.IsPositive() = false", m)
		}
	}
	if got := len(negatives) + len(transitionals) + len(positives); got != len(AllModes) {
		t.Fatalf("families cover %d modes, want %d", got, len(AllModes))
	}
}
