// Package iohelper provides bounded I/O helpers for report downloads
// and for keeping HTTP connections reusable.
package iohelper

import (
	"io"
)

const (
	// SmallMaxBodySize bounds error pages and API envelopes (8KB).
	SmallMaxBodySize int64 = 8 * 1024

	// ReportMaxBodySize bounds one findings report download (16MB).
	// Published contest reports run to several megabytes of markdown.
	ReportMaxBodySize int64 = 16 * 1024 * 1024
)

// ReadBody reads from r up to maxSize bytes. A nil reader yields an
// empty slice, and oversized input is silently truncated at the cap
// rather than exhausting memory.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadReport reads a findings report body with the report size cap.
func ReadReport(r io.Reader) ([]byte, error) {
	return ReadBody(r, ReportMaxBodySize)
}

// ReadSmall reads short bodies such as error pages.
func ReadSmall(r io.Reader) ([]byte, error) {
	return ReadBody(r, SmallMaxBodySize)
}

// DrainAndClose consumes what remains of r and closes it when it is a
// ReadCloser, so the underlying connection returns to the pool. The
// drain is capped at 64KB. Always returns nil for use in defer.
func DrainAndClose(r io.Reader) error {
	if r == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64*1024))
	if rc, ok := r.(io.ReadCloser); ok {
		rc.Close()
	}
	return nil
}
