package model

import (
	"time"

	"github.com/pkg/errors"
)

// Thresholds are the fatigue scores at which the visual state steps up.
// Death doubles as the hard cap of the score.
type Thresholds struct {
	Round  int
	Slouch int
	Melt   int
	Flat   int
	Death  int
}

// HealingConfig sizes the recovery granted by a break, in minutes.
type HealingConfig struct {
	MinBreak    int
	FullReset   int
	LongBreak   int
	ShortFactor int
	LongFactor  int
}

// Timescale maps wall-clock time onto fatigue minutes.
type Timescale struct {
	Debug         bool
	TickPeriod    time.Duration
	Minute        time.Duration
	IdleThreshold time.Duration
}

// FatigueConfig contains the startup settings of the fatigue subsystem.
type FatigueConfig struct {
	Thresholds Thresholds
	Healing    HealingConfig
	Timescale  Timescale
}

var (
	ErrThresholdOrder = errors.New("thresholds must be ascending and positive with death equal to flat")
	ErrHealingConfig  = errors.New("healing constants must be positive and ordered")
	ErrTimescale      = errors.New("timescale durations must be positive")
)

// DefaultThresholds returns the stock score boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Round: 45, Slouch: 60, Melt: 70, Flat: 80, Death: 80}
}

// DefaultHealing returns the stock break rules.
func DefaultHealing() HealingConfig {
	return HealingConfig{MinBreak: 2, FullReset: 15, LongBreak: 5, ShortFactor: 2, LongFactor: 4}
}

// NewTimescale returns the normal timescale, or the accelerated one where a
// second counts as a minute.
func NewTimescale(debug bool) Timescale {
	if debug {
		return Timescale{
			Debug:         true,
			TickPeriod:    time.Second,
			Minute:        time.Second,
			IdleThreshold: 10 * time.Second,
		}
	}
	return Timescale{
		TickPeriod:    time.Minute,
		Minute:        time.Minute,
		IdleThreshold: time.Minute,
	}
}

// DefaultFatigueConfig returns the stock configuration for the given timescale.
func DefaultFatigueConfig(debug bool) FatigueConfig {
	return FatigueConfig{
		Thresholds: DefaultThresholds(),
		Healing:    DefaultHealing(),
		Timescale:  NewTimescale(debug),
	}
}

// Validate reports configurations the engine cannot honour. The tombstone
// threshold and the cap must coincide so a tombstone is always dead.
func (config FatigueConfig) Validate() error {
	t := config.Thresholds
	if t.Round <= 0 || t.Slouch < t.Round || t.Melt < t.Slouch || t.Flat < t.Melt || t.Death != t.Flat {
		return errors.Wrapf(ErrThresholdOrder, "round=%d slouch=%d melt=%d flat=%d death=%d",
			t.Round, t.Slouch, t.Melt, t.Flat, t.Death)
	}
	h := config.Healing
	if h.MinBreak <= 0 || h.LongBreak < h.MinBreak || h.FullReset < h.LongBreak || h.ShortFactor <= 0 || h.LongFactor <= 0 {
		return errors.Wrapf(ErrHealingConfig, "min_break=%d long_break=%d full_reset=%d", h.MinBreak, h.LongBreak, h.FullReset)
	}
	s := config.Timescale
	if s.TickPeriod <= 0 || s.Minute <= 0 || s.IdleThreshold <= 0 {
		return ErrTimescale
	}
	return nil
}

// Settings are the startup options of the daemon.
type Settings struct {
	Fatigue      FatigueConfig
	LogLevel     string
	LogFormat    string
	ForcePolling bool
}

// DefaultSettings returns the stock daemon settings.
func DefaultSettings() Settings {
	return Settings{
		Fatigue:   DefaultFatigueConfig(false),
		LogLevel:  "info",
		LogFormat: "text",
	}
}
