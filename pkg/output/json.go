package output

import (
	"fmt"
	"io"

	"github.com/wardenbench/wardenbench/pkg/jsonutil"
	"github.com/wardenbench/wardenbench/pkg/pipeline"
)

// Compile-time interface check.
var _ Writer = (*JSONWriter)(nil)

// JSONWriter writes the outcome as a single indented JSON document.
type JSONWriter struct {
	w io.WriteCloser
}

// NewJSONWriter creates a JSON writer targeting w.
func NewJSONWriter(w io.WriteCloser) *JSONWriter {
	return &JSONWriter{w: w}
}

// Write encodes the outcome.
func (jw *JSONWriter) Write(o *pipeline.Outcome) error {
	enc := jsonutil.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return fmt.Errorf("output: encode json: %w", err)
	}
	return nil
}

// Close releases the sink.
func (jw *JSONWriter) Close() error {
	return jw.w.Close()
}
