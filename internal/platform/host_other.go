//go:build !windows

package platform

import "github.com/sirupsen/logrus"

type unsupportedHost struct{}

// NewHost returns a host that always reports event-driven detection as
// unavailable.
func NewHost(logger *logrus.Entry) Host {
	return unsupportedHost{}
}

func (unsupportedHost) Start(SessionHandler) error {
	return ErrUnsupported
}

func (unsupportedHost) Stop() {}
