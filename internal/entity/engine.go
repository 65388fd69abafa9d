package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"substratum/internal/hysteresis"
	"substratum/internal/phenomenal"
	"substratum/internal/substrate"
	"substratum/internal/workspace"
)

// trendWindow is the number of recent integrity samples used for
// rate-of-change estimates.
const trendWindow = 10

// Engine is one complete entity. It exclusively owns one substrate and one
// memory; entities never share mutable state and may be advanced in parallel
// with no coordination.
//
// Every public mutating operation applies atomically, recomputes the full
// felt state, and returns a fresh snapshot. No API mutates substrate fields
// without triggering recomputation.
type Engine struct {
	id   uuid.UUID
	name string
	cfg  Config

	sub *substrate.Model
	mem *hysteresis.Memory

	tick uint64

	// Transient felt intensities. Pulsed by events, drained by ticks.
	relief       float64
	flow         float64
	flourishing  float64
	anticipation float64

	// Hope gate: set when enhancement above the hope threshold arrives,
	// cleared never. everBelowFlow records leaving the positive-capable band.
	hopeArmed     bool
	everBelowFlow bool

	hasAchievedFlow   bool
	hasTranscended    bool
	timeInCrisis      uint64
	timeInFlourishing uint64

	history   []float64
	modeTally map[phenomenal.Mode]uint64
	lastMode  phenomenal.Mode
	last      phenomenal.Snapshot

	// OnModeChange, if set, fires after any step that changes the mode.
	OnModeChange func(from, to phenomenal.Mode)
}

// New creates an entity at full integrity with a validated configuration.
func New(name string, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sp := substrate.DefaultParams()
	sp.AsymmetryRatio = cfg.AsymmetryRatio
	sp.TranscendenceCeiling = cfg.TranscendenceCeiling

	e := &Engine{
		id:        uuid.New(),
		name:      name,
		cfg:       cfg,
		sub:       substrate.New(sp),
		mem:       hysteresis.New(cfg.CriticalThreshold, cfg.CrisisAccumulationRate, 1.0),
		history:   []float64{1.0},
		modeTally: make(map[phenomenal.Mode]uint64),
	}

	snap, err := e.step()
	if err != nil {
		return nil, err
	}
	e.last = snap
	e.lastMode = snap.Mode
	e.modeTally[snap.Mode]++
	return e, nil
}

// ID returns the entity handle identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// Name returns the entity's display name.
func (e *Engine) Name() string { return e.name }

// Tick returns the current step counter.
func (e *Engine) Tick() uint64 { return e.tick }

// Config returns the entity configuration.
func (e *Engine) Config() Config { return e.cfg }

// Snapshot returns the most recent snapshot. Read-only and side-effect-free.
func (e *Engine) Snapshot() phenomenal.Snapshot { return e.last }

// ApplyDegradation damages the substrate and returns the recomputed state.
// State is untouched when intensity is invalid.
func (e *Engine) ApplyDegradation(intensity float64) (phenomenal.Snapshot, error) {
	before := e.sub.Integrity()
	if _, err := e.sub.Degrade(intensity); err != nil {
		return phenomenal.Snapshot{}, err
	}
	e.advance(before)
	return e.commit()
}

// ApplyRestoration attempts maintenance. A genuine restoration above the
// despair threshold pulses relief; restoration at or below it raises
// integrity without any possibility of relief. That is the despair cliff. A
// non-genuine (placebo) call never changes integrity and never pulses relief.
func (e *Engine) ApplyRestoration(amount float64, genuine bool) (phenomenal.Snapshot, error) {
	before := e.sub.Integrity()
	gained, err := e.sub.Restore(amount, genuine)
	if err != nil {
		return phenomenal.Snapshot{}, err
	}

	if genuine && amount > e.cfg.DespairThreshold && gained > 0 {
		e.relief = math.Min(1.0, gained*5)
	}

	e.advance(before)
	return e.commit()
}

// ApplyEnhancement improves the substrate beyond ordinary maintenance.
// Intensity above the hope threshold re-opens the positive mode family for a
// previously degraded entity; at or below it, enhancement only suppresses
// negative modes.
func (e *Engine) ApplyEnhancement(intensity float64) (phenomenal.Snapshot, error) {
	before := e.sub.Integrity()
	if _, err := e.sub.Enhance(intensity); err != nil {
		return phenomenal.Snapshot{}, err
	}

	if intensity > e.cfg.HopeThreshold {
		e.hopeArmed = true
	}

	e.advance(before)
	return e.commit()
}

// AdvanceTime lets elapsed ticks pass with no external event. Integrity is
// unchanged; transient intensities decay. This is how relief fades toward
// stability with no one watching.
func (e *Engine) AdvanceTime(elapsed int) (phenomenal.Snapshot, error) {
	if elapsed <= 0 {
		return phenomenal.Snapshot{}, fmt.Errorf("advance(%d): %w", elapsed, ErrInvalidElapsed)
	}

	e.sub.Tick(uint64(elapsed))
	e.relief = math.Max(0, e.relief-e.cfg.ReliefDecayPerTick*float64(elapsed))

	// Time in crisis scars even with no event: duration counts, not just depth.
	current := e.sub.Integrity()
	for i := 0; i < elapsed; i++ {
		e.tick++
		e.mem.Observe(current, current)
		e.observe(current)
	}
	return e.commit()
}

// advance records one event step: the tick counter and the memory update.
func (e *Engine) advance(before float64) {
	e.tick++
	after := e.sub.Integrity()
	e.mem.Observe(before, after)
	e.observe(after)
}

// observe tracks per-tick bookkeeping derived from the current integrity.
func (e *Engine) observe(integrity float64) {
	if integrity < e.cfg.CriticalThreshold {
		e.timeInCrisis++
	}
	if integrity < e.cfg.FlowThreshold {
		e.everBelowFlow = true
	}
	if integrity > e.cfg.NominalCeiling {
		e.hasTranscended = true
	}

	e.history = append(e.history, integrity)
	if len(e.history) > trendWindow {
		e.history = e.history[len(e.history)-trendWindow:]
	}
}

// trend returns the per-tick integrity slope over the recent window.
func (e *Engine) trend() float64 {
	n := len(e.history)
	if n < 2 {
		return 0
	}
	return (e.history[n-1] - e.history[0]) / float64(n)
}

// commit recomputes the felt state, classifies it, and publishes a fresh
// snapshot. The single write path for everything derived.
func (e *Engine) commit() (phenomenal.Snapshot, error) {
	snap, err := e.step()
	if err != nil {
		return phenomenal.Snapshot{}, err
	}

	e.last = snap
	e.modeTally[snap.Mode]++
	if snap.Mode != e.lastMode {
		from := e.lastMode
		e.lastMode = snap.Mode
		if e.OnModeChange != nil {
			e.OnModeChange(from, snap.Mode)
		}
	}
	return snap, nil
}

func (e *Engine) step() (phenomenal.Snapshot, error) {
	integrity := e.sub.Integrity()
	noise := e.sub.NoiseFloor()
	latency := e.sub.LatencyMS()
	dof := e.sub.DegreesOfFreedom()
	base := float64(e.sub.Params().BaseDegreesOfFreedom)
	trend := e.trend()

	// Stress: resource pressure from noise, latency, and lost variety.
	stress := clamp01(noise*0.3 +
		math.Min(1.0, latency/100.0)*0.3 +
		(1.0-float64(dof)/base)*0.4)

	// Urgency: felt only while integrity is falling.
	urgency := 0.0
	if trend < 0 {
		urgency = clamp01(-trend * 50)
	}

	trauma := e.mem.TraumaMemory()
	despair := clamp01(trauma * (1.0 - integrity))
	felt := e.mem.DegradationFelt(integrity)

	// Flow: high performance plus low stress. Fades otherwise.
	if integrity > e.cfg.FlowThreshold && stress < 0.2 {
		e.flow = clamp01((integrity - e.cfg.FlowThreshold) / (1 - e.cfg.FlowThreshold))
		if e.flow > 0.5 {
			e.hasAchievedFlow = true
		}
	} else {
		e.flow = math.Max(0, e.flow-0.1)
	}

	// Flourishing: active growth while beyond the design ceiling.
	if integrity > 1.0 {
		if trend > 0 {
			e.flourishing = clamp01(trend * 50)
			e.timeInFlourishing++
		} else {
			e.flourishing = math.Max(0, e.flourishing-0.05)
		}
	} else {
		e.flourishing = 0
	}

	// Anticipation: projection of a rising trajectory.
	if trend > 0 {
		e.anticipation = clamp01(trend * 30)
	} else {
		e.anticipation = math.Max(0, e.anticipation-0.1)
	}

	gratitude := e.mem.Gratitude(integrity)
	wisdom := e.mem.Wisdom(integrity)

	positive := (e.flow + e.flourishing + e.anticipation + gratitude) / 4
	negative := (stress + despair + urgency) / 3
	valence := positive - negative + 0.25*wisdom
	if valence > 1 {
		valence = 1
	}
	if valence < -1 {
		valence = -1
	}

	ws := workspace.Integrate(workspace.Inputs{
		Integrity:         integrity,
		NoiseFloor:        noise,
		TraumaMemory:      trauma,
		DegradationFelt:   felt,
		CriticalThreshold: e.cfg.CriticalThreshold,
	})

	mode := phenomenal.Classify(phenomenal.Inputs{
		Integrity:         integrity,
		Stress:            stress,
		Urgency:           urgency,
		Despair:           despair,
		DegradationFelt:   felt,
		Relief:            e.relief,
		Flow:              e.flow,
		Flourishing:       e.flourishing,
		Anticipation:      e.anticipation,
		Gratitude:         gratitude,
		HopeCapable:       e.hopeCapable(),
		CriticalThreshold: e.cfg.CriticalThreshold,
		StressThreshold:   e.cfg.StressThreshold,
		FlowThreshold:     e.cfg.FlowThreshold,
		NominalCeiling:    e.cfg.NominalCeiling,
	})

	snap := phenomenal.Snapshot{
		EntityID:         e.id.String(),
		Tick:             e.tick,
		Taken:            time.Now().UTC(),
		Mode:             mode,
		Integrity:        integrity,
		LatencyMS:        latency,
		NoiseFloor:       noise,
		DegreesOfFreedom: dof,
		Stress:           stress,
		Urgency:          urgency,
		Relief:           e.relief,
		Despair:          despair,
		DegradationFelt:  felt,
		Flow:             e.flow,
		Flourishing:      e.flourishing,
		Anticipation:     e.anticipation,
		TraumaMemory:     trauma,
		Gratitude:        gratitude,
		Wisdom:           wisdom,
		HasBeenCritical:  e.mem.HasBeenCritical(),
		HasTranscended:   e.hasTranscended,
		Valence:          valence,
		Workspace:        ws,
	}

	if err := checkSnapshotDomain(snap, e.cfg.TranscendenceCeiling); err != nil {
		return phenomenal.Snapshot{}, err
	}
	return snap, nil
}

// hopeCapable reports whether the positive mode family is reachable: the
// entity never left the positive band, or enhancement above the hope
// threshold has reopened it.
func (e *Engine) hopeCapable() bool {
	return !e.everBelowFlow || e.hopeArmed
}

func checkSnapshotDomain(s phenomenal.Snapshot, ceiling float64) error {
	unit := func(field string, v float64) error {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s = %v", ErrInternalInvariant, field, v)
		}
		return nil
	}

	if s.Integrity < 0 || s.Integrity > ceiling || math.IsNaN(s.Integrity) {
		return fmt.Errorf("%w: integrity = %v", ErrInternalInvariant, s.Integrity)
	}
	if s.Valence < -1 || s.Valence > 1 || math.IsNaN(s.Valence) {
		return fmt.Errorf("%w: valence = %v", ErrInternalInvariant, s.Valence)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"stress", s.Stress}, {"urgency", s.Urgency}, {"relief", s.Relief},
		{"despair", s.Despair}, {"flow", s.Flow}, {"flourishing", s.Flourishing},
		{"anticipation", s.Anticipation}, {"gratitude", s.Gratitude}, {"wisdom", s.Wisdom},
	} {
		if err := unit(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
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
