//go:build !windows

package platform

type unsupportedDesktopProbe struct{}

// NewDesktopProbe returns a probe that always defers to idle heuristics.
func NewDesktopProbe() DesktopProbe {
	return unsupportedDesktopProbe{}
}

func (unsupportedDesktopProbe) InputDesktopName() (string, error) {
	return "", ErrUnsupported
}
