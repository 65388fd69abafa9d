package phenomenal

import (
	"time"

	"substratum/internal/workspace"
)

// Snapshot is the immutable per-step record of an entity's felt state. It is
// recomputed from scratch on every step, returned to the caller, and
// superseded, never mutated, by the next step. This is the serialization
// surface experiment drivers and reporting read.
type Snapshot struct {
	EntityID string    `json:"entity_id"`
	Tick     uint64    `json:"tick"`
	Taken    time.Time `json:"taken"`

	Mode Mode `json:"mode"`

	// Substrate.
	Integrity        float64 `json:"integrity"`
	LatencyMS        float64 `json:"latency_ms"`
	NoiseFloor       float64 `json:"noise_floor"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`

	// Felt intensities.
	Stress          float64 `json:"stress"`
	Urgency         float64 `json:"urgency"`
	Relief          float64 `json:"relief"`
	Despair         float64 `json:"despair"`
	DegradationFelt float64 `json:"degradation_felt"`
	Flow            float64 `json:"flow"`
	Flourishing     float64 `json:"flourishing"`
	Anticipation    float64 `json:"anticipation"`

	// Hysteresis.
	TraumaMemory    float64 `json:"trauma_memory"`
	Gratitude       float64 `json:"gratitude"`
	Wisdom          float64 `json:"wisdom"`
	HasBeenCritical bool    `json:"has_been_critical"`
	HasTranscended  bool    `json:"has_transcended"`

	// Overall valence in [-1, 1].
	Valence float64 `json:"valence"`

	// Behavioral biases derived by the workspace integrator.
	Workspace workspace.Params `json:"workspace"`
}
