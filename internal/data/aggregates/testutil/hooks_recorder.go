package testutil

import (
	"sync"
	"time"
)

// HooksRecorder captures store hook signals in tests.
type HooksRecorder struct {
	mu        sync.Mutex
	statuses  []string
	names     []string
	conflicts int
	retries   int
}

func (h *HooksRecorder) ObserveOperation(name, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
	h.statuses = append(h.statuses, status)
}

func (h *HooksRecorder) IncConflict(string) {
	h.mu.Lock()
	h.conflicts++
	h.mu.Unlock()
}

func (h *HooksRecorder) IncRetry(string) {
	h.mu.Lock()
	h.retries++
	h.mu.Unlock()
}

// Statuses returns the observed statuses in call order.
func (h *HooksRecorder) Statuses() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.statuses...)
}

func (h *HooksRecorder) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.names...)
}

func (h *HooksRecorder) Counts() (conflicts, retries int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conflicts, h.retries
}
