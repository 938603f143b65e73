package fatigue

import (
	"time"

	"biodaemon/internal/core/model"
)

// HealingKind classifies the effect of a break.
type HealingKind int

const (
	HealNone HealingKind = iota
	HealPartial
	HealFullReset
)

func (kind HealingKind) String() string {
	switch kind {
	case HealPartial:
		return "partial"
	case HealFullReset:
		return "full_reset"
	default:
		return "none"
	}
}

// HealingResult is the recovery granted for a break of Minutes length.
// Amount is only meaningful for HealPartial.
type HealingResult struct {
	Kind    HealingKind
	Amount  int
	Minutes int
}

// BreakMinutes converts a break into whole fatigue minutes. Negative
// durations count as zero.
func BreakMinutes(duration, minute time.Duration) int {
	if duration <= 0 || minute <= 0 {
		return 0
	}
	return int(duration / minute)
}

// HealingFor applies the break rules to a break length in minutes.
func HealingFor(minutes int, config model.HealingConfig) HealingResult {
	switch {
	case minutes < config.MinBreak:
		return HealingResult{Kind: HealNone, Minutes: minutes}
	case minutes >= config.FullReset:
		return HealingResult{Kind: HealFullReset, Minutes: minutes}
	case minutes < config.LongBreak:
		return HealingResult{Kind: HealPartial, Amount: minutes * config.ShortFactor, Minutes: minutes}
	default:
		return HealingResult{Kind: HealPartial, Amount: minutes * config.LongFactor, Minutes: minutes}
	}
}

// Clamp bounds a score to [0, death].
func Clamp(score, death int) int {
	return max(0, min(score, death))
}

// StateFor maps a score onto its visual state.
func StateFor(score int, thresholds model.Thresholds) State {
	switch {
	case score < thresholds.Round:
		return StateRound
	case score < thresholds.Slouch:
		return StateSlouch
	case score < thresholds.Melt:
		return StateMelt
	case score < thresholds.Flat:
		return StateFlat
	default:
		return StateTombstone
	}
}
