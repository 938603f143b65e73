package platform

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type idleProvider struct {
	xprintidlePath string
}

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{xprintidlePath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return 0, errors.Wrap(ErrUnsupported, "xprintidle cannot see wayland input")
	}
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0, errors.Wrap(err, "xprintidle")
	}
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse idle milliseconds")
	}
	return time.Duration(max(idleMillis, 0)) * time.Millisecond, nil
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrUnsupported
}
