// Package clock abstracts time so the tick loop and the lock monitor can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reads the current time and creates tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) *time.Ticker
}

// Real implements Clock with the system time.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// Mock is a manually advanced Clock. Its tickers are real but tests drive
// ticks directly instead of waiting on them.
type Mock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMock returns a Mock frozen at start.
func NewMock(start time.Time) *Mock {
	return &Mock{current: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Mock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// Advance moves the mocked time forward.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

// Set pins the mocked time.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

var (
	_ Clock = Real{}
	_ Clock = (*Mock)(nil)
)
