//go:build windows

package platform

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	desktopReadObjects = 0x0001
	uoiName            = 2
)

type inputDesktopProbe struct{}

// NewDesktopProbe returns a probe reading the name of the input desktop.
func NewDesktopProbe() DesktopProbe {
	return inputDesktopProbe{}
}

func (inputDesktopProbe) InputDesktopName() (string, error) {
	if err := findProcs(procOpenInputDesktop, procCloseDesktop, procGetUserObjectInformationW); err != nil {
		return "", err
	}

	desktop, _, err := procOpenInputDesktop.Call(0, 0, desktopReadObjects)
	if desktop == 0 {
		return "", errors.Wrapf(ErrDesktopUnreadable, "open input desktop: %v", err)
	}
	defer procCloseDesktop.Call(desktop)

	var buffer [256]uint16
	var needed uint32
	ok, _, err := procGetUserObjectInformationW.Call(
		desktop,
		uoiName,
		uintptr(unsafe.Pointer(&buffer[0])),
		uintptr(len(buffer)*2),
		uintptr(unsafe.Pointer(&needed)),
	)
	if ok == 0 {
		return "", errors.Wrapf(ErrDesktopUnreadable, "read desktop name: %v", err)
	}
	return strings.ToLower(windows.UTF16ToString(buffer[:])), nil
}
