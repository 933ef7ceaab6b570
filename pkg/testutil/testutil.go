// Package testutil provides shared fault-injection helpers for writer
// and concurrency tests.
package testutil

import (
	"errors"
	"sync"
)

// ErrFault is the sentinel error returned by the fault injection
// helpers.
var ErrFault = errors.New("injected fault")

// FailingWriter is an io.Writer that fails once more than Limit bytes
// have been written. A zero Limit fails every Write immediately.
type FailingWriter struct {
	written int
	Limit   int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.Limit {
		remaining := w.Limit - w.written
		if remaining > 0 {
			w.written += remaining
			return remaining, ErrFault
		}
		return 0, ErrFault
	}
	w.written += len(p)
	return len(p), nil
}

// FailingWriteCloser accepts every Write but fails on Close, the shape
// of a disk-full error surfacing at flush time.
type FailingWriteCloser struct {
	buf      []byte
	CloseErr error
}

func NewFailingWriteCloser() *FailingWriteCloser {
	return &FailingWriteCloser{CloseErr: ErrFault}
}

func (w *FailingWriteCloser) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *FailingWriteCloser) Close() error {
	return w.CloseErr
}

// Bytes returns everything written so far.
func (w *FailingWriteCloser) Bytes() []byte {
	return w.buf
}

// RunConcurrently starts fn count times on separate goroutines, released
// together, and waits for all of them.
func RunConcurrently(count int, fn func(i int)) {
	var wg sync.WaitGroup
	start := make(chan struct{})
	wg.Add(count)
	for i := range count {
		go func() {
			defer wg.Done()
			<-start
			fn(i)
		}()
	}
	close(start)
	wg.Wait()
}
