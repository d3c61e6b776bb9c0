// Package frames reconstructs screen snapshots from a recording's raw
// event stream by driving a terminal emulator and snapshotting the
// viewport whenever the visible state changes.
package frames

import (
	"strings"

	"github.com/penwyp/castgrep/internal/core/model"
	"github.com/penwyp/castgrep/internal/terminal"
)

// Viewport bounds. Generous on purpose: larger than any real terminal
// so recorded content is never truncated.
const (
	ViewportCols = 1000
	ViewportRows = 100
)

// EventSource yields recording events in order; io.EOF ends the stream.
type EventSource interface {
	Next() (*model.Event, error)
}

// Reconstructor is a lazy, single-pass frame stream: it pulls events
// for one channel, feeds them to the emulator, and emits a Frame only
// when at least one row changed or the cursor moved since the previous
// emission. No-op escape sequences produce no frame.
type Reconstructor struct {
	source  EventSource
	screen  *terminal.Screen
	channel model.EventKind
	index   int
	emitted model.Cursor
}

// NewReconstructor builds a frame stream over src for one channel.
func NewReconstructor(src EventSource, channel model.EventKind) *Reconstructor {
	return &Reconstructor{
		source:  src,
		screen:  terminal.NewScreen(ViewportRows, ViewportCols),
		channel: channel,
	}
}

// Next returns the next frame, or io.EOF when the event stream ends.
func (r *Reconstructor) Next() (*model.Frame, error) {
	for {
		event, err := r.source.Next()
		if err != nil {
			return nil, err
		}
		if event.Kind != r.channel {
			continue
		}

		data := event.Data
		if r.channel == model.KindInput {
			// Recorded keystrokes carry bare carriage returns; a live
			// terminal's local echo would have added the line feed.
			data = strings.ReplaceAll(data, "\r", "\r\n")
		}
		r.screen.Feed(data)

		changed := r.screen.TakeChanged()
		cursor := r.screen.Cursor()
		if len(changed) == 0 && cursor == r.emitted {
			continue
		}
		r.emitted = cursor

		frame := &model.Frame{
			Index:     r.index,
			Timestamp: event.Timestamp,
			Text:      r.screen.Text(),
			Cursor:    cursor,
		}
		r.index++
		return frame, nil
	}
}
