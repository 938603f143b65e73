package platform

import (
	"fmt"
	"hash/fnv"
	"net"
	"sync"

	"github.com/pkg/errors"
)

// ErrAlreadyRunning indicates another daemon already watches this session.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	guardPortMin = 20000
	guardPortMax = 39999
)

// InstanceGuard keeps a second daemon from double-counting fatigue by holding
// a loopback port derived from the application name.
type InstanceGuard struct {
	listener net.Listener
	once     sync.Once
}

// AcquireSingleInstance binds the guard port or reports ErrAlreadyRunning.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	listener, err := net.Listen("tcp", guardAddress(appName))
	if err != nil {
		return nil, errors.Wrap(ErrAlreadyRunning, err.Error())
	}
	return &InstanceGuard{listener: listener}, nil
}

// Release frees the guard port. Safe on a nil guard and on repeated calls.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	var err error
	guard.once.Do(func() {
		err = guard.listener.Close()
	})
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

func guardAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	span := uint32(guardPortMax - guardPortMin + 1)
	return fmt.Sprintf("127.0.0.1:%d", guardPortMin+int(hash.Sum32()%span))
}
