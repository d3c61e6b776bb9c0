// Package fixtures assembles asciicast recordings for tests.
package fixtures

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/penwyp/castgrep/internal/core/model"
)

// CastBuilder builds a recording line by line: one header record
// followed by event records.
type CastBuilder struct {
	header model.Header
	lines  []string
}

// NewCastBuilder starts a recording with the given viewport size and
// session start epoch.
func NewCastBuilder(width, height int, startEpoch int64) *CastBuilder {
	return &CastBuilder{
		header: model.Header{
			Version:   2,
			Width:     width,
			Height:    height,
			Timestamp: startEpoch,
		},
	}
}

// WithEnv attaches environment metadata to the header.
func (b *CastBuilder) WithEnv(env map[string]string) *CastBuilder {
	b.header.Env = env
	return b
}

// Output appends a terminal-output event.
func (b *CastBuilder) Output(ts float64, data string) *CastBuilder {
	return b.event(ts, model.KindOutput, data)
}

// Input appends a terminal-input (keystroke) event.
func (b *CastBuilder) Input(ts float64, data string) *CastBuilder {
	return b.event(ts, model.KindInput, data)
}

// Marker appends a marker event.
func (b *CastBuilder) Marker(ts float64, label string) *CastBuilder {
	return b.event(ts, model.KindMarker, label)
}

// Raw appends a literal line, for malformed-record tests.
func (b *CastBuilder) Raw(line string) *CastBuilder {
	b.lines = append(b.lines, line)
	return b
}

func (b *CastBuilder) event(ts float64, kind model.EventKind, data string) *CastBuilder {
	line, err := sonic.Marshal(model.Event{Timestamp: ts, Kind: kind, Data: data})
	if err != nil {
		panic(err)
	}
	b.lines = append(b.lines, string(line))
	return b
}

// Build returns the recording as a string.
func (b *CastBuilder) Build() string {
	head, err := sonic.Marshal(b.header)
	if err != nil {
		panic(err)
	}
	all := append([]string{string(head)}, b.lines...)
	return strings.Join(all, "\n") + "\n"
}

// WriteFile writes the recording under dir and returns its path.
func (b *CastBuilder) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.Build()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
