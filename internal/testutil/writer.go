package testutil

import (
	"bytes"
	"sync"
)

// SeqWriter is a thread-safe capture buffer for writer-shaped collaborators
// under concurrent test load. Each Write is recorded whole, so tests can
// assert on write boundaries as well as total content.
type SeqWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes []string
}

// Write appends p to the buffer and records it as one write.
func (w *SeqWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, string(p))
	return w.buf.Write(p)
}

// String returns everything written so far.
func (w *SeqWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Writes returns each Write call's payload in order.
func (w *SeqWriter) Writes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.writes...)
}
