package model

// EventKind identifies the channel a recorded event belongs to.
// The single-letter values match the on-disk record format.
type EventKind string

const (
	KindInput  EventKind = "i"
	KindOutput EventKind = "o"
	KindMarker EventKind = "m"
	KindResize EventKind = "r"
	KindFlags  EventKind = "f"
)

// Theme is the optional color theme block of a recording header.
type Theme struct {
	Fg      string `json:"fg"`
	Bg      string `json:"bg"`
	Palette string `json:"palette"`
}

// Header is the first record of a recording.
// Example: {"version": 2, "width": 179, "height": 50, "timestamp": 1696956471,
// "env": {"SHELL": "/bin/bash", "TERM": "screen-256color"}}
type Header struct {
	Version       int               `json:"version"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	Timestamp     int64             `json:"timestamp,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	Command       string            `json:"command,omitempty"`
	IdleTimeLimit float64           `json:"idle_time_limit,omitempty"`
	Theme         *Theme            `json:"theme,omitempty"`
}

// Event is one recorded record after the header. Timestamp is seconds
// since session start.
type Event struct {
	Timestamp float64   `json:"timestamp"`
	Kind      EventKind `json:"kind"`
	Data      string    `json:"data"`
}

// Cursor is a zero-based viewport position.
type Cursor struct {
	Row int
	Col int
}

// Frame is a snapshot of the visible screen, taken when the screen
// last changed. Text is the flattened viewport: rows right-trimmed,
// rows that trim to empty dropped entirely, remaining rows joined
// with single newlines.
type Frame struct {
	Index     int
	Timestamp float64
	Text      string
	Cursor    Cursor
}

// Range is a half-open byte range [From, To) into a frame's text.
type Range struct {
	From int
	To   int
}

// Span is one logical, user-facing match event: the pattern was
// continuously visible from StartFrame through EndFrame. Text is
// always the text of EndFrame, never an amalgam; Ranges index into it.
type Span struct {
	StartFrame int
	EndFrame   int
	StartTime  float64
	EndTime    float64
	Text       string
	Ranges     []Range
}
