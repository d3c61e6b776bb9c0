// Package coalesce merges per-frame match occurrences into spans: runs
// of matches on consecutive frames become one reported span with a
// start/end time range, while a break in contiguity flushes the open
// span and starts a new one.
package coalesce

import "github.com/penwyp/castgrep/internal/core/model"

// State is the coalescer state between occurrences: either idle (no
// open span) or holding the one open span. The zero value is idle.
type State struct {
	open *model.Span
}

// Idle reports whether no span is currently open.
func (s State) Idle() bool {
	return s.open == nil
}

// Open returns a copy of the open span, or nil when idle.
func (s State) Open() *model.Span {
	if s.open == nil {
		return nil
	}
	span := *s.open
	return &span
}

// Update consumes one match occurrence and returns the next state plus
// a span to flush, if contiguity broke. Occurrences must arrive with
// frames in ascending index order and, within a frame, ranges in
// ascending offset order.
//
// Transition table:
//   - idle: open a new single-frame span.
//   - same frame as the open span's end: append the range.
//   - immediately next frame: extend the span, replacing its text and
//     ranges with this frame's (matched text may have shifted; earlier
//     positions are not retained).
//   - anything else: flush the open span, open a new one here.
func Update(st State, frameIndex int, timestamp float64, text string, r model.Range) (State, *model.Span) {
	span := st.open
	if span == nil {
		return State{open: newSpan(frameIndex, timestamp, text, r)}, nil
	}

	switch frameIndex {
	case span.EndFrame:
		span.Ranges = append(span.Ranges, r)
		return st, nil
	case span.EndFrame + 1:
		span.EndFrame = frameIndex
		span.EndTime = timestamp
		span.Text = text
		span.Ranges = []model.Range{r}
		return st, nil
	default:
		flushed := span
		return State{open: newSpan(frameIndex, timestamp, text, r)}, flushed
	}
}

// Finish flushes the open span at end of stream, if any.
func Finish(st State) *model.Span {
	return st.open
}

func newSpan(frameIndex int, timestamp float64, text string, r model.Range) *model.Span {
	return &model.Span{
		StartFrame: frameIndex,
		EndFrame:   frameIndex,
		StartTime:  timestamp,
		EndTime:    timestamp,
		Text:       text,
		Ranges:     []model.Range{r},
	}
}
