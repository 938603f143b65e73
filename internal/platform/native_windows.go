//go:build windows

package platform

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	gwlpWndProc          int32 = -4
	notifyForThisSession       = 0x0
)

var (
	user32DLL   = windows.NewLazySystemDLL("user32.dll")
	wtsapi32DLL = windows.NewLazySystemDLL("wtsapi32.dll")
	kernel32DLL = windows.NewLazySystemDLL("kernel32.dll")

	procGetWindowLongPtrW              = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW              = user32DLL.NewProc("SetWindowLongPtrW")
	procCallWindowProcW                = user32DLL.NewProc("CallWindowProcW")
	procDefWindowProcW                 = user32DLL.NewProc("DefWindowProcW")
	procCreateWindowExW                = user32DLL.NewProc("CreateWindowExW")
	procDestroyWindow                  = user32DLL.NewProc("DestroyWindow")
	procGetMessageW                    = user32DLL.NewProc("GetMessageW")
	procTranslateMessage               = user32DLL.NewProc("TranslateMessage")
	procDispatchMessageW               = user32DLL.NewProc("DispatchMessageW")
	procPostMessageW                   = user32DLL.NewProc("PostMessageW")
	procOpenInputDesktop               = user32DLL.NewProc("OpenInputDesktop")
	procCloseDesktop                   = user32DLL.NewProc("CloseDesktop")
	procGetUserObjectInformationW      = user32DLL.NewProc("GetUserObjectInformationW")
	procGetLastInputInfo               = user32DLL.NewProc("GetLastInputInfo")
	procGetTickCount64                 = kernel32DLL.NewProc("GetTickCount64")
	procWTSRegisterSessionNotification = wtsapi32DLL.NewProc("WTSRegisterSessionNotification")
	procWTSUnRegisterSession           = wtsapi32DLL.NewProc("WTSUnRegisterSessionNotification")
)

// findProcs resolves procs up front; LazyProc.Call panics on a missing export.
func findProcs(procs ...*windows.LazyProc) error {
	for _, proc := range procs {
		if err := proc.Find(); err != nil {
			return errors.Wrapf(ErrUnsupported, "%s: %v", proc.Name, err)
		}
	}
	return nil
}

func indexArg(value int32) uintptr {
	return uintptr(uint32(value))
}

func callError(name string, err error) error {
	if err == nil || errors.Is(err, windows.ERROR_SUCCESS) {
		return errors.Errorf("%s failed", name)
	}
	return errors.Wrap(err, name)
}

// win32API binds WindowAPI to user32 and wtsapi32.
type win32API struct{}

func (win32API) WindowProc(hwnd uintptr) (uintptr, error) {
	proc, _, err := procGetWindowLongPtrW.Call(hwnd, indexArg(gwlpWndProc))
	if proc == 0 {
		return 0, callError("GetWindowLongPtrW", err)
	}
	return proc, nil
}

func (win32API) SetWindowProc(hwnd, proc uintptr) (uintptr, error) {
	previous, _, err := procSetWindowLongPtrW.Call(hwnd, indexArg(gwlpWndProc), proc)
	if previous == 0 {
		return 0, callError("SetWindowLongPtrW", err)
	}
	return previous, nil
}

func (win32API) CallWindowProc(proc, hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	result, _, _ := procCallWindowProcW.Call(proc, hwnd, uintptr(msg), wParam, lParam)
	return result
}

func (win32API) RegisterSessionNotification(hwnd uintptr) error {
	ok, _, err := procWTSRegisterSessionNotification.Call(hwnd, notifyForThisSession)
	if ok == 0 {
		return callError("WTSRegisterSessionNotification", err)
	}
	return nil
}

func (win32API) UnregisterSessionNotification(hwnd uintptr) error {
	ok, _, err := procWTSUnRegisterSession.Call(hwnd)
	if ok == 0 {
		return callError("WTSUnRegisterSessionNotification", err)
	}
	return nil
}

// The runtime caps the number of callbacks a process may create, so one
// trampoline is created for the process and routed to the live hook.
var (
	activeHook     atomic.Pointer[SessionHook]
	trampolineOnce sync.Once
	trampoline     uintptr
)

func sessionWndProc() uintptr {
	trampolineOnce.Do(func() {
		trampoline = windows.NewCallback(func(hwnd, msg, wParam, lParam uintptr) uintptr {
			if hook := activeHook.Load(); hook != nil {
				return hook.Dispatch(hwnd, uint32(msg), wParam, lParam)
			}
			result, _, _ := procDefWindowProcW.Call(hwnd, msg, wParam, lParam)
			return result
		})
	})
	return trampoline
}

var _ WindowAPI = win32API{}
