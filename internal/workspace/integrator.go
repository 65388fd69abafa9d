// Package workspace derives global behavioral biases from substrate and
// memory. The substrate state is not just reported; it changes how
// everything downstream processes.
package workspace

// Inputs carries the current substrate and memory readings the integrator
// depends on. All derived from integrity and accumulated history.
type Inputs struct {
	Integrity         float64
	NoiseFloor        float64
	TraumaMemory      float64
	DegradationFelt   float64
	CriticalThreshold float64
}

// Params are the workspace-level behavioral biases, each in [0, 1].
type Params struct {
	// ExplorationVsExploitation: 1 = free exploration, 0 = conservative
	// exploitation. Falls with noise and with remembered trauma.
	ExplorationVsExploitation float64 `json:"exploration_vs_exploitation"`

	// SpeedVsAccuracy: 1 = fast and rough, 0 = slow and careful. A degraded
	// substrate triages, trading accuracy for responsiveness.
	SpeedVsAccuracy float64 `json:"speed_vs_accuracy"`

	// RiskTolerance falls with felt degradation and with trauma: an entity
	// that has been hurt stays cautious even at full current integrity.
	RiskTolerance float64 `json:"risk_tolerance"`

	// Openness to novel input. Rises with integrity, falls with noise.
	Openness float64 `json:"openness"`

	// SurvivalPriority saturates to 1 below the critical line and rises with
	// trauma everywhere else. The behavioral trace of hysteresis.
	SurvivalPriority float64 `json:"survival_priority"`
}

// Integrate computes behavioral biases. Stateless: identical inputs always
// yield identical outputs. Each output is monotone in each input, with a
// fixed sign per parameter.
func Integrate(in Inputs) Params {
	p := Params{
		ExplorationVsExploitation: clamp01(in.Integrity - in.NoiseFloor*0.5 - in.TraumaMemory*0.2),
		SpeedVsAccuracy:           clamp01((1-in.Integrity)*0.6 + in.NoiseFloor*0.4),
		RiskTolerance:             clamp01(1 - in.DegradationFelt - in.TraumaMemory*0.3),
		Openness:                  clamp01(0.4 + in.Integrity*0.6 - in.NoiseFloor*0.3),
		SurvivalPriority:          clamp01((1-in.Integrity)*0.5 + in.TraumaMemory*0.5),
	}
	if in.Integrity < in.CriticalThreshold {
		p.SurvivalPriority = 1.0
	}
	return p
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
