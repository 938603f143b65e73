package platform

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const interactiveDesktop = "default"

// DesktopProbe names the desktop currently receiving user input.
type DesktopProbe interface {
	InputDesktopName() (string, error)
}

// LockStatus is what a single probe could tell about the session.
type LockStatus int

const (
	// LockUnknown means the probe failed; the tracked state stands.
	LockUnknown LockStatus = iota
	LockUnlocked
	LockLocked
)

func (status LockStatus) String() string {
	switch status {
	case LockUnlocked:
		return "unlocked"
	case LockLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// Prober answers whether the session looks locked right now.
type Prober interface {
	Probe() LockStatus
}

// LockProber checks the input desktop first and, where that API does not
// exist, treats long idle time as a lock.
type LockProber struct {
	desktop       DesktopProbe
	idle          IdleProvider
	idleThreshold time.Duration
	logger        *logrus.Entry
}

// NewLockProber creates a prober. Either source may be nil.
func NewLockProber(desktop DesktopProbe, idle IdleProvider, idleThreshold time.Duration, logger *logrus.Entry) *LockProber {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LockProber{
		desktop:       desktop,
		idle:          idle,
		idleThreshold: idleThreshold,
		logger:        logger.WithField("component", "lock-prober"),
	}
}

// Probe never fails: errors and panics below it degrade to LockUnknown, which
// leaves the tracked state untouched.
func (prober *LockProber) Probe() (status LockStatus) {
	defer func() {
		if recovered := recover(); recovered != nil {
			prober.logger.WithField("panic", recovered).Warn("lock probe crashed, keeping last state")
			status = LockUnknown
		}
	}()

	if prober.desktop == nil {
		return prober.idleStatus()
	}

	name, err := prober.desktop.InputDesktopName()
	if errors.Is(err, ErrDesktopUnreadable) {
		return LockLocked
	}
	switch Classify(err) {
	case OutcomeOK:
		if name == interactiveDesktop {
			return LockUnlocked
		}
		return LockLocked
	case OutcomeFallback:
		return prober.idleStatus()
	default:
		prober.logger.WithError(err).Debug("desktop probe failed, keeping last state")
		return LockUnknown
	}
}

func (prober *LockProber) idleStatus() LockStatus {
	if prober.idle == nil {
		return LockUnknown
	}
	idle, err := prober.idle.IdleDuration()
	if Classify(err) != OutcomeOK {
		prober.logger.WithError(err).Debug("idle probe failed, keeping last state")
		return LockUnknown
	}
	if idle >= prober.idleThreshold {
		return LockLocked
	}
	return LockUnlocked
}

var _ Prober = (*LockProber)(nil)
