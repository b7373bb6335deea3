package telemetry

import "sync"

// Latest holds the most recent reading for concurrent readers.
type Latest struct {
	mu sync.RWMutex
	r  Reading
	ok bool
}

func (l *Latest) Set(r Reading) {
	l.mu.Lock()
	l.r, l.ok = r, true
	l.mu.Unlock()
}

// Get returns the last reading and whether one has arrived yet.
func (l *Latest) Get() (Reading, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.r, l.ok
}
