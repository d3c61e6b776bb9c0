// Package presenter renders flushed match spans as console output
// under the configured display mode.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/penwyp/castgrep/internal/core/model"
	"github.com/penwyp/castgrep/internal/util"
)

// ColorMode controls when match highlighting is emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options selects the display mode for one run.
type Options struct {
	ListOnly    bool // print only the file name, once, then stop
	FullScreen  bool // print the whole representative frame
	LineNumbers bool // prefix matching lines with 1-based numbers
	Color       ColorMode
}

// Presenter renders the spans of one recording.
type Presenter struct {
	out         io.Writer
	opts        Options
	colored     bool
	name        string
	startEpoch  int64
	namePrinted bool
}

// New creates a presenter for one recording. startEpoch is the
// session start from the recording header; span offsets are added to
// it when timestamps are rendered.
func New(out io.Writer, name string, startEpoch int64, opts Options) *Presenter {
	return &Presenter{
		out:        out,
		opts:       opts,
		colored:    resolveColor(out, opts.Color),
		name:       name,
		startEpoch: startEpoch,
	}
}

// resolveColor applies the coloring policy: explicit always/never
// override, auto only when stdout is an interactive terminal.
func resolveColor(out io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if file, ok := out.(*os.File); ok {
			return term.IsTerminal(int(file.Fd()))
		}
		return false
	}
}

// PrintHeading prints the per-file heading once. List-only mode skips
// it; there the name itself is the whole output.
func (p *Presenter) PrintHeading() {
	if p.opts.ListOnly {
		return
	}
	fmt.Fprintln(p.out, util.FormatFileHeading(p.name, p.colored))
}

// Present renders one flushed span. It returns false to request that
// scanning of this recording stop (list-only mode needs nothing past
// the first flush).
func (p *Presenter) Present(span *model.Span) bool {
	if p.opts.ListOnly {
		if !p.namePrinted {
			fmt.Fprintln(p.out, p.name)
			p.namePrinted = true
		}
		return false
	}

	tp := util.GetTimeProvider()
	frames := span.EndFrame - span.StartFrame + 1
	plural := "s"
	if frames == 1 {
		plural = ""
	}
	fmt.Fprintf(p.out, "match over %d frame%s from %s to %s\n",
		frames, plural,
		tp.FormatStamp(p.startEpoch, span.StartTime),
		tp.FormatStamp(p.startEpoch, span.EndTime))

	if p.opts.FullScreen {
		p.printFullScreen(span)
	} else {
		p.printMatchingLines(span)
	}
	return true
}

// printFullScreen emits the whole representative text, wrapping each
// range with highlight markers when coloring is enabled.
func (p *Presenter) printFullScreen(span *model.Span) {
	fmt.Fprintln(p.out, highlight(span.Text, span.Ranges, p.colored))
}

// printMatchingLines emits only the lines of the representative text
// that intersect at least one range, with the intersecting sub-ranges
// highlighted. Lines with no intersecting range are omitted entirely.
func (p *Presenter) printMatchingLines(span *model.Span) {
	lines := strings.Split(span.Text, "\n")
	offset := 0
	for i, line := range lines {
		lineStart := offset
		lineEnd := offset + len(line)
		offset = lineEnd + 1 // the split-away newline

		var clipped []model.Range
		for _, r := range span.Ranges {
			if r.From >= lineEnd || r.To <= lineStart {
				continue
			}
			clipped = append(clipped, model.Range{
				From: max(r.From, lineStart) - lineStart,
				To:   min(r.To, lineEnd) - lineStart,
			})
		}
		if len(clipped) == 0 {
			continue
		}

		if p.opts.LineNumbers {
			fmt.Fprintf(p.out, "%4d  %s\n", i+1, highlight(line, clipped, p.colored))
		} else {
			fmt.Fprintln(p.out, highlight(line, clipped, p.colored))
		}
	}
}

// highlight wraps every range of text with the highlight markers.
// Ranges must be ascending and non-overlapping, which is what the
// coalescer guarantees for flushed spans.
func highlight(text string, ranges []model.Range, colored bool) string {
	if !colored || len(ranges) == 0 {
		return text
	}
	var b strings.Builder
	pos := 0
	for _, r := range ranges {
		if r.From < pos || r.To > len(text) {
			continue
		}
		b.WriteString(text[pos:r.From])
		b.WriteString(util.HighlightStart)
		b.WriteString(text[r.From:r.To])
		b.WriteString(util.HighlightEnd)
		pos = r.To
	}
	b.WriteString(text[pos:])
	return b.String()
}
