// Package cast reads asciicast recordings: one JSON header record
// followed by newline-delimited event records.
package cast

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/penwyp/castgrep/internal/core/model"
	"github.com/penwyp/castgrep/internal/util"
)

// StdinName is the command-line marker that selects standard input.
const StdinName = "-"

// Source yields the events of one recording in order. A truncated or
// malformed trailing record ends the stream cleanly; recordings
// captured live are expected to sometimes be truncated.
type Source struct {
	name    string
	scanner *bufio.Scanner
	closers []io.Closer
	header  model.Header
	line    int
	done    bool
}

// Open prepares a recording for reading. StdinName selects standard
// input; a ".gz" or ".bz2" suffix selects the matching decompression
// transform. With follow set, reads on a plain file block at EOF until
// the file grows, ends, or is replaced.
func Open(path string, follow bool) (*Source, error) {
	s := &Source{name: path}

	var reader io.Reader
	if path == StdinName {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		s.closers = append(s.closers, file)

		switch {
		case strings.HasSuffix(path, ".gz"):
			gz, err := gzip.NewReader(file)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("cannot read %s: %w", path, err)
			}
			s.closers = append(s.closers, gz)
			reader = gz
		case strings.HasSuffix(path, ".bz2"):
			reader = bzip2.NewReader(file)
		case follow:
			tail, err := newTailReader(file, path)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("cannot follow %s: %w", path, err)
			}
			s.closers = s.closers[:0]
			s.closers = append(s.closers, tail)
			reader = tail
		default:
			reader = file
		}
	}

	s.scanner = bufio.NewScanner(reader)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	s.readHeader()
	return s, nil
}

// readHeader consumes record 0. A missing or malformed header is a
// soft end of stream for this file only, not a run-level failure.
func (s *Source) readHeader() {
	if !s.scanner.Scan() {
		util.LogDebug(fmt.Sprintf("Empty recording: %s", s.name))
		s.done = true
		return
	}
	s.line++
	if err := sonic.Unmarshal(s.scanner.Bytes(), &s.header); err != nil {
		util.LogWarn(fmt.Sprintf("Malformed header in %s: %v", s.name, err))
		s.done = true
	}
}

// Name returns the display name of this source.
func (s *Source) Name() string {
	return s.name
}

// Header returns the recording header. Zero-valued when the header
// record was missing or malformed.
func (s *Source) Header() model.Header {
	return s.header
}

// Next returns the next event, or io.EOF when the stream ends. A
// malformed record ends the stream the same way.
func (s *Source) Next() (*model.Event, error) {
	if s.done {
		return nil, io.EOF
	}
	if !s.scanner.Scan() {
		s.done = true
		if err := s.scanner.Err(); err != nil {
			util.LogDebug(fmt.Sprintf("Read error in %s:%d - %v", s.name, s.line+1, err))
		}
		return nil, io.EOF
	}
	s.line++

	var event model.Event
	if err := sonic.Unmarshal(s.scanner.Bytes(), &event); err != nil {
		util.LogDebug(fmt.Sprintf("Truncated record %s:%d ends stream - %v", s.name, s.line, err))
		s.done = true
		return nil, io.EOF
	}
	return &event, nil
}

// Close releases the underlying file and transforms.
func (s *Source) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
