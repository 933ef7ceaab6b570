// Package overrides provides per-contest submitter-handle corrections.
//
// Contest reports occasionally credit a warden under a misspelled
// handle, and automated contestants ("bots") appear in issue credit
// lines without being listed in the report's warden roster. Both kinds
// of correction are keyed by contest ID so a fix for one report never
// leaks into another.
package overrides

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BotPrefix marks submitter handles that belong to automated
// contestants. Bot handles are rewritten during normalization so a
// baseline tool is identifiable under one stable name across contests.
const BotPrefix = "bot-"

// ErrNotFound is returned when an overrides file does not exist.
var ErrNotFound = errors.New("overrides file not found")

// ErrInvalid is returned when an overrides file is malformed.
var ErrInvalid = errors.New("invalid overrides file")

// Overrides maps contest IDs to their handle corrections.
type Overrides struct {
	Contests map[string]Contest `json:"contests" yaml:"contests"`
}

// Contest holds the corrections for one contest.
type Contest struct {
	// Typos maps a misspelled handle, exactly as it appears in the
	// report, to the canonical handle from the warden roster.
	Typos map[string]string `json:"typos,omitempty" yaml:"typos,omitempty"`

	// Bots lists the bare handles of automated contestants credited
	// in this contest's report.
	Bots []string `json:"bots,omitempty" yaml:"bots,omitempty"`
}

// Default returns the built-in corrections for known report defects.
func Default() *Overrides {
	return &Overrides{
		Contests: map[string]Contest{
			"2022-11-size":    {Typos: map[string]string{"_141345_": "__141345__"}},
			"2023-10-wildcat": {Bots: []string{"henry"}},
			"2023-08-dopex":   {Bots: []string{"IllIllI"}},
		},
	}
}

// Load reads and parses an overrides file from the given path.
// Returns ErrNotFound if the file doesn't exist and ErrInvalid if it
// is malformed.
func Load(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading overrides file: %w", err)
	}
	return Parse(data)
}

// Parse parses overrides YAML data.
func Parse(data []byte) (*Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if o.Contests == nil {
		o.Contests = make(map[string]Contest)
	}
	return &o, nil
}

// Merge overlays other on top of o: contests present in other replace
// the same contest in o wholesale. Returns o for chaining.
func (o *Overrides) Merge(other *Overrides) *Overrides {
	if other == nil {
		return o
	}
	if o.Contests == nil {
		o.Contests = make(map[string]Contest)
	}
	for id, c := range other.Contests {
		o.Contests[id] = c
	}
	return o
}

// CanonicalHandle returns the corrected form of a submitter handle for
// the given contest: known typos are rewritten to the roster handle,
// then known bot handles get the bot prefix. Safe on a nil receiver.
func (o *Overrides) CanonicalHandle(contestID, handle string) string {
	if o == nil {
		return handle
	}
	c, ok := o.Contests[contestID]
	if !ok {
		return handle
	}
	if fixed, ok := c.Typos[handle]; ok {
		handle = fixed
	}
	for _, bot := range c.Bots {
		if handle == bot {
			return BotPrefix + handle
		}
	}
	return handle
}

// Bots returns the prefixed handles of the automated contestants known
// for the given contest. Safe on a nil receiver.
func (o *Overrides) Bots(contestID string) []string {
	if o == nil {
		return nil
	}
	c, ok := o.Contests[contestID]
	if !ok || len(c.Bots) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.Bots))
	for _, b := range c.Bots {
		out = append(out, BotPrefix+b)
	}
	return out
}

// IsBotHandle reports whether a handle carries the bot prefix.
func IsBotHandle(handle string) bool {
	return strings.HasPrefix(handle, BotPrefix)
}
