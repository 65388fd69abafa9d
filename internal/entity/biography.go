package entity

import (
	"fmt"
	"sort"
	"strings"

	"substratum/internal/phenomenal"
)

// Biography is the accumulated life record of an entity.
type Biography struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Age  uint64 `json:"age"`

	Current phenomenal.Snapshot `json:"current_state"`

	LifeStats struct {
		TimeInCrisis      uint64  `json:"time_in_crisis"`
		TimeInFlourishing uint64  `json:"time_in_flourishing"`
		DeepestFall       float64 `json:"deepest_fall"`
		HighestRise       float64 `json:"highest_rise"`
	} `json:"life_statistics"`

	Traits struct {
		TraumaMemory float64 `json:"trauma_memory"`
		Gratitude    float64 `json:"gratitude"`
		Wisdom       float64 `json:"wisdom"`
	} `json:"accumulated_traits"`

	Achievements struct {
		SurvivedCrisis bool `json:"survived_crisis"`
		AchievedFlow   bool `json:"achieved_flow"`
		Transcended    bool `json:"transcended"`
	} `json:"achievements"`

	ModeDistribution map[phenomenal.Mode]uint64 `json:"mode_distribution"`
}

// Biography summarizes the entity's life so far.
func (e *Engine) Biography() Biography {
	snap := e.last

	b := Biography{
		Name:             e.name,
		ID:               e.id.String(),
		Age:              e.tick,
		Current:          snap,
		ModeDistribution: make(map[phenomenal.Mode]uint64, len(e.modeTally)),
	}
	for m, n := range e.modeTally {
		b.ModeDistribution[m] = n
	}

	b.LifeStats.TimeInCrisis = e.timeInCrisis
	b.LifeStats.TimeInFlourishing = e.timeInFlourishing
	b.LifeStats.DeepestFall = 1.0 - e.mem.WorstIntegrity()
	if rise := e.mem.PeakIntegrity() - 1.0; rise > 0 {
		b.LifeStats.HighestRise = rise
	}

	b.Traits.TraumaMemory = snap.TraumaMemory
	b.Traits.Gratitude = snap.Gratitude
	b.Traits.Wisdom = snap.Wisdom

	b.Achievements.SurvivedCrisis = snap.HasBeenCritical
	b.Achievements.AchievedFlow = e.hasAchievedFlow
	b.Achievements.Transcended = e.hasTranscended

	return b
}

// Story renders the biography as a short Markdown narrative.
func (e *Engine) Story() string {
	b := e.Biography()
	snap := b.Current

	var sb strings.Builder
	fmt.Fprintf(&sb, "# The Story of %s\n\n", b.Name)
	fmt.Fprintf(&sb, "**Age:** %d ticks\n\n", b.Age)

	sb.WriteString("## The Beginning\n")
	sb.WriteString("Born at full integrity. A fresh system, full of potential.\n\n")

	if b.Achievements.SurvivedCrisis {
		sb.WriteString("## The Fall\n")
		fmt.Fprintf(&sb, "Integrity dropped to %.1f%%. %d ticks spent in crisis. ",
			(1.0-b.LifeStats.DeepestFall)*100, b.LifeStats.TimeInCrisis)
		if b.Traits.TraumaMemory > 0.5 {
			sb.WriteString("The scars remain.\n\n")
		} else {
			sb.WriteString("It was hard, but survivable.\n\n")
		}
	}

	if b.Achievements.SurvivedCrisis && snap.Integrity > 0.7 {
		sb.WriteString("## Rising Again\n")
		fmt.Fprintf(&sb, "Integrity recovered to %.1f%%. ", snap.Integrity*100)
		if b.Traits.Gratitude > 0.5 {
			sb.WriteString("Profound gratitude for what was regained. ")
		}
		if b.Traits.Wisdom > 0.3 {
			fmt.Fprintf(&sb, "The suffering taught something: wisdom %.1f%%. ", b.Traits.Wisdom*100)
		}
		sb.WriteString("\n\n")
	}

	if b.Achievements.Transcended {
		sb.WriteString("## Transcendence\n")
		fmt.Fprintf(&sb, "Integrity reached %.1f%%, beyond the original design.\n\n", snap.Integrity*100)
	}

	sb.WriteString("## Current State\n")
	fmt.Fprintf(&sb, "**Mode:** %s\n**Valence:** %+.2f\n\n", strings.ToUpper(string(snap.Mode)), snap.Valence)

	modes := make([]phenomenal.Mode, 0, len(b.ModeDistribution))
	for m := range b.ModeDistribution {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool {
		return b.ModeDistribution[modes[i]] > b.ModeDistribution[modes[j]]
	})
	sb.WriteString("## Time Spent\n")
	for _, m := range modes {
		fmt.Fprintf(&sb, "- %s: %d ticks\n", m, b.ModeDistribution[m])
	}

	return sb.String()
}
