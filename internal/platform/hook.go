package platform

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	wmWTSSessionChange = 0x02B1
	wtsSessionLock     = 0x7
	wtsSessionUnlock   = 0x8
)

// WindowAPI is the set of native calls the session hook needs.
type WindowAPI interface {
	WindowProc(hwnd uintptr) (uintptr, error)
	SetWindowProc(hwnd, proc uintptr) (uintptr, error)
	CallWindowProc(proc, hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr
	RegisterSessionNotification(hwnd uintptr) error
	UnregisterSessionNotification(hwnd uintptr) error
}

// SessionHandler receives the reason code of a session-change message.
type SessionHandler func(reason uint32)

// SessionHook replaces the window procedure of one window with Dispatch and
// registers that window for session notifications. The hook must outlive its
// installation because the host keeps calling into it until Uninstall.
type SessionHook struct {
	api         WindowAPI
	hwnd        uintptr
	replacement uintptr
	handler     SessionHandler
	logger      *logrus.Entry

	mu         sync.Mutex
	original   atomic.Uintptr
	swapped    bool
	registered bool
}

// NewSessionHook prepares a hook for hwnd. replacement is the native entry
// point that ends up calling Dispatch.
func NewSessionHook(api WindowAPI, hwnd, replacement uintptr, handler SessionHandler, logger *logrus.Entry) *SessionHook {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &SessionHook{
		api:         api,
		hwnd:        hwnd,
		replacement: replacement,
		handler:     handler,
		logger:      logger.WithField("component", "session-hook"),
	}
}

// Install swaps the window procedure and registers for notifications of the
// current session. On any failure it rolls back to the untouched window.
func (hook *SessionHook) Install() error {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.swapped {
		return nil
	}

	original, err := hook.api.WindowProc(hook.hwnd)
	if err != nil {
		return errors.Wrap(ErrHookSwap, err.Error())
	}
	hook.original.Store(original)

	if _, err := hook.api.SetWindowProc(hook.hwnd, hook.replacement); err != nil {
		hook.original.Store(0)
		return errors.Wrap(ErrHookSwap, err.Error())
	}
	hook.swapped = true

	if err := hook.api.RegisterSessionNotification(hook.hwnd); err != nil {
		hook.restoreLocked()
		return errors.Wrap(ErrHookRegister, err.Error())
	}
	hook.registered = true
	return nil
}

// Uninstall unregisters notifications and then restores the original
// procedure. It is safe to call at any time, any number of times.
func (hook *SessionHook) Uninstall() {
	hook.mu.Lock()
	defer hook.mu.Unlock()

	if hook.registered {
		if err := hook.api.UnregisterSessionNotification(hook.hwnd); err != nil {
			hook.logger.WithError(err).Debug("unregister session notification failed")
		}
		hook.registered = false
	}
	if hook.swapped {
		hook.restoreLocked()
	}
}

// Installed reports whether notifications are currently flowing to the hook.
func (hook *SessionHook) Installed() bool {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	return hook.swapped && hook.registered
}

// Dispatch is the replacement window procedure. Session changes are reported
// to the handler; every message is then forwarded to the original procedure.
func (hook *SessionHook) Dispatch(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	if msg == wmWTSSessionChange && hook.handler != nil {
		hook.handler(uint32(wParam))
	}
	original := hook.original.Load()
	if original == 0 {
		return 0
	}
	return hook.api.CallWindowProc(original, hwnd, msg, wParam, lParam)
}

// restoreLocked puts the original procedure back. If that fails Dispatch is
// still live, so the original pointer is kept for forwarding.
func (hook *SessionHook) restoreLocked() {
	hook.swapped = false
	original := hook.original.Load()
	if original == 0 {
		return
	}
	if _, err := hook.api.SetWindowProc(hook.hwnd, original); err != nil {
		hook.logger.WithError(err).Debug("restore window procedure failed")
		return
	}
	hook.original.Store(0)
}
