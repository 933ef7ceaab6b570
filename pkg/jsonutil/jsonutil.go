// Package jsonutil wraps github.com/go-json-experiment/json behind the
// familiar encoding/json surface. Report envelopes round-trip through
// here so the codec choice stays in one place.
package jsonutil

import (
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent returns the JSON encoding of v indented with indent.
// The prefix argument exists for encoding/json compatibility and is
// ignored.
func MarshalIndent(v any, _ string, indent string) ([]byte, error) {
	return json.Marshal(v, jsontext.WithIndent(indent))
}

// Unmarshal parses data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Encoder streams JSON values to w, one per Encode call, each followed
// by a newline the way encoding/json.Encoder does it.
type Encoder struct {
	w      io.Writer
	indent string
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// SetIndent formats subsequent values with the given indentation. The
// prefix argument is ignored.
func (e *Encoder) SetIndent(_, indent string) {
	e.indent = indent
}

// Encode writes the JSON encoding of v followed by a newline.
func (e *Encoder) Encode(v any) error {
	var err error
	if e.indent != "" {
		err = json.MarshalWrite(e.w, v, jsontext.WithIndent(e.indent))
	} else {
		err = json.MarshalWrite(e.w, v)
	}
	if err != nil {
		return err
	}
	_, err = e.w.Write([]byte{'\n'})
	return err
}
