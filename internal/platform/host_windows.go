//go:build windows

package platform

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

const (
	wmApp         = 0x8000
	wmShutdown    = wmApp + 1
	startTimeout  = 5 * time.Second
	stopTimeout   = 3 * time.Second
	hostClassName = "STATIC"
	hostTitle     = "BioDaemon"
)

type nativePoint struct {
	X int32
	Y int32
}

type nativeMsg struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       nativePoint
	LPrivate uint32
}

type windowsHost struct {
	logger    *logrus.Entry
	hwnd      atomic.Uintptr
	abandoned atomic.Bool
	done      chan struct{}
	stopOnce  sync.Once
}

// NewHost returns the Win32 message-handling context.
func NewHost(logger *logrus.Entry) Host {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &windowsHost{logger: logger.WithField("component", "message-host")}
}

func (host *windowsHost) Start(handler SessionHandler) error {
	err := findProcs(
		procGetWindowLongPtrW, procSetWindowLongPtrW, procCallWindowProcW, procDefWindowProcW,
		procCreateWindowExW, procDestroyWindow, procGetMessageW, procTranslateMessage,
		procDispatchMessageW, procPostMessageW,
		procWTSRegisterSessionNotification, procWTSUnRegisterSession,
	)
	if err != nil {
		return err
	}

	ready := make(chan error, 1)
	host.done = make(chan struct{})
	go host.run(handler, ready)

	select {
	case err := <-ready:
		return err
	case <-time.After(startTimeout):
		host.abandoned.Store(true)
		return ErrHostTimeout
	}
}

func (host *windowsHost) Stop() {
	host.stopOnce.Do(func() {
		host.abandoned.Store(true)
		if host.done == nil {
			return
		}
		if hwnd := host.hwnd.Load(); hwnd != 0 {
			if ok, _, err := procPostMessageW.Call(hwnd, wmShutdown, 0, 0); ok == 0 {
				host.logger.WithError(err).Debug("post shutdown message failed")
			}
		}
		select {
		case <-host.done:
		case <-time.After(stopTimeout):
			host.logger.Warn("message context did not acknowledge shutdown")
		}
	})
}

// run is the message-handling context. Window creation, hook installation,
// dispatch and teardown all happen on this one OS thread.
func (host *windowsHost) run(handler SessionHandler, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(host.done)

	hwnd, err := createHiddenWindow()
	if err != nil {
		ready <- err
		return
	}

	hook := NewSessionHook(win32API{}, hwnd, sessionWndProc(), handler, host.logger)
	activeHook.Store(hook)
	if err := hook.Install(); err != nil {
		activeHook.Store(nil)
		destroyWindow(hwnd, host.logger)
		ready <- err
		return
	}
	if host.abandoned.Load() {
		hook.Uninstall()
		activeHook.Store(nil)
		destroyWindow(hwnd, host.logger)
		return
	}
	host.hwnd.Store(hwnd)
	ready <- nil
	host.logger.WithField("hwnd", hwnd).Info("session notifications installed")

	var msg nativeMsg
	for {
		result, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(result) <= 0 || msg.Message == wmShutdown {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}

	hook.Uninstall()
	activeHook.Store(nil)
	host.hwnd.Store(0)
	destroyWindow(hwnd, host.logger)
	host.logger.Info("session notifications removed")
}

func createHiddenWindow() (uintptr, error) {
	className, err := windows.UTF16PtrFromString(hostClassName)
	if err != nil {
		return 0, errors.Wrap(err, "encode class name")
	}
	title, err := windows.UTF16PtrFromString(hostTitle)
	if err != nil {
		return 0, errors.Wrap(err, "encode window title")
	}
	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		return 0, callError("CreateWindowExW", callErr)
	}
	return hwnd, nil
}

func destroyWindow(hwnd uintptr, logger *logrus.Entry) {
	if ok, _, err := procDestroyWindow.Call(hwnd); ok == 0 {
		logger.WithError(err).Debug("destroy window failed")
	}
}
