package platform

import (
	"time"
	"unsafe"
)

type idleProvider struct{}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	return &idleProvider{}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	if err := findProcs(procGetLastInputInfo, procGetTickCount64); err != nil {
		return 0, err
	}

	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		return 0, callError("GetLastInputInfo", err)
	}

	tick, _, _ := procGetTickCount64.Call()

	// dwTime is a 32-bit tick count, so compare in 32 bits to survive wraparound.
	idleMillis := uint32(tick) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}

