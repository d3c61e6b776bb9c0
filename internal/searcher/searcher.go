// Package searcher wires the search pipeline together: event source,
// frame reconstructor, pattern matcher, match coalescer, presenter.
// Files are processed strictly sequentially in command-line order.
package searcher

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/castgrep/internal/core/coalesce"
	"github.com/penwyp/castgrep/internal/core/frames"
	"github.com/penwyp/castgrep/internal/core/matcher"
	"github.com/penwyp/castgrep/internal/core/model"
	"github.com/penwyp/castgrep/internal/data/cast"
	"github.com/penwyp/castgrep/internal/presentation/presenter"
	"github.com/penwyp/castgrep/internal/util"
)

type Config struct {
	Pattern         string
	Files           []string
	CaseInsensitive bool
	MaxCount        int // 0 = unlimited
	ListOnly        bool
	LineNumbers     bool
	Color           string // auto, always, never
	FullScreen      bool
	Channel         string // output, input
	Follow          bool
	Output          io.Writer
}

type Searcher struct {
	config  *Config
	matcher *matcher.RegexpMatcher
	channel model.EventKind
	ceiling int
	out     io.Writer
}

// New validates the configuration and compiles the pattern. All errors
// here are fatal configuration errors.
func New(config *Config) (*Searcher, error) {
	if len(config.Files) == 0 {
		config.Files = []string{cast.StdinName}
	}

	stdinCount := 0
	for _, file := range config.Files {
		if file == cast.StdinName {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return nil, fmt.Errorf("standard input specified more than once")
	}

	var channel model.EventKind
	switch config.Channel {
	case "", "output":
		channel = model.KindOutput
	case "input":
		channel = model.KindInput
	default:
		return nil, fmt.Errorf("invalid channel %q (expected output or input)", config.Channel)
	}

	m, err := matcher.Compile(config.Pattern, config.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	// List-only needs nothing past the first match.
	ceiling := config.MaxCount
	if config.ListOnly && (ceiling == 0 || ceiling > 1) {
		ceiling = 1
	}

	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	return &Searcher{
		config:  config,
		matcher: m,
		channel: channel,
		ceiling: ceiling,
		out:     out,
	}, nil
}

// Run searches every file in order. Open failures are fatal; decode
// errors inside a file end that file's stream cleanly.
func (s *Searcher) Run() error {
	start := time.Now()
	util.LogDebug(fmt.Sprintf("Starting search for %q over %d file(s)", s.config.Pattern, len(s.config.Files)))

	for _, file := range s.config.Files {
		if err := s.searchFile(file); err != nil {
			return err
		}
	}

	util.LogDebug(fmt.Sprintf("Search finished, total duration: %v", time.Since(start)))
	return nil
}

func (s *Searcher) searchFile(path string) error {
	fileStart := time.Now()

	follow := s.config.Follow && path != cast.StdinName
	source, err := cast.Open(path, follow)
	if err != nil {
		return err
	}
	defer source.Close()

	header := source.Header()
	pres := presenter.New(s.out, path, header.Timestamp, presenter.Options{
		ListOnly:    s.config.ListOnly,
		FullScreen:  s.config.FullScreen,
		LineNumbers: s.config.LineNumbers,
		Color:       presenter.ColorMode(s.config.Color),
	})
	pres.PrintHeading()

	recon := frames.NewReconstructor(source, s.channel)
	state := coalesce.State{}
	matches := 0
	frameCount := 0
	stopped := false

	for !stopped {
		frame, err := recon.Next()
		if err != nil {
			break
		}
		frameCount++

		s.matcher.Scan(frame.Text, func(from, to int) bool {
			var flushed *model.Span
			state, flushed = coalesce.Update(state, frame.Index, frame.Timestamp, frame.Text,
				model.Range{From: from, To: to})
			if flushed != nil && !pres.Present(flushed) {
				stopped = true
				return false
			}
			matches++
			if s.ceiling > 0 && matches >= s.ceiling {
				stopped = true
				return false
			}
			return true
		})
	}

	if final := coalesce.Finish(state); final != nil {
		pres.Present(final)
	}

	util.LogDebug(fmt.Sprintf("Searched %s: %d frame(s), %d match(es), duration %v",
		path, frameCount, matches, time.Since(fileStart)))
	return nil
}
