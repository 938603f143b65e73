package platform

import "github.com/pkg/errors"

var (
	// ErrUnsupported indicates the native API is not available on this system.
	ErrUnsupported = errors.New("native api unsupported")
	// ErrDesktopUnreadable indicates the input desktop could not be opened or
	// named, which is what happens while the lock screen owns it.
	ErrDesktopUnreadable = errors.New("input desktop unreadable")
	ErrHookSwap          = errors.New("replace window procedure")
	ErrHookRegister      = errors.New("register session notification")
	ErrHostTimeout       = errors.New("message context did not start in time")
)

// Outcome is how a native call result is handled at the monitor boundary.
type Outcome int

const (
	// OutcomeOK means the call succeeded and its value is trusted.
	OutcomeOK Outcome = iota
	// OutcomeFallback means the API is missing and the next strategy applies.
	OutcomeFallback
	// OutcomeIgnore means a transient failure: no transition, the tracked
	// state stands.
	OutcomeIgnore
)

// Classify maps a native call error onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrUnsupported):
		return OutcomeFallback
	default:
		return OutcomeIgnore
	}
}
