package searcher

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/castgrep/internal/testing/fixtures"
	"github.com/penwyp/castgrep/internal/util"
)

func init() {
	util.InitializeTimeProvider("UTC")
}

func runSearch(t *testing.T, config *Config) string {
	t.Helper()
	var buf bytes.Buffer
	config.Output = &buf
	if config.Color == "" {
		config.Color = "never"
	}
	s, err := New(config)
	require.NoError(t, err)
	require.NoError(t, s.Run())
	return buf.String()
}

func TestNewRejectsInvalidPattern(t *testing.T) {
	_, err := New(&Config{Pattern: "f(oo", Files: []string{"x.cast"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestNewRejectsDuplicateStdin(t *testing.T) {
	_, err := New(&Config{Pattern: "x", Files: []string{"-", "a.cast", "-"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard input")
}

func TestNewRejectsUnknownChannel(t *testing.T) {
	_, err := New(&Config{Pattern: "x", Files: []string{"a.cast"}, Channel: "both"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid channel")
}

func TestRunMissingFileIsFatal(t *testing.T) {
	s, err := New(&Config{
		Pattern: "x",
		Files:   []string{"/no/such/file.cast"},
		Color:   "never",
		Output:  &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Error(t, s.Run())
}

// One output event renders "hello"; pattern "ell" matches once on
// frame 0 at bytes [1, 4).
func TestSingleFrameSingleMatch(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.5, "hello").
		WriteFile(dir, "a.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{
		Pattern:    "ell",
		Files:      []string{path},
		FullScreen: true,
		Color:      "always",
	})

	assert.Equal(t, 1, strings.Count(out, "match over"))
	assert.Contains(t, out, "match over 1 frame from")
	assert.Contains(t, out, "h"+util.HighlightStart+"ell"+util.HighlightEnd+"o")
}

// The pattern stays visible across two consecutive frames: one span,
// not two.
func TestConsecutiveMatchingFramesCoalesce(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "foo").
		Output(0.2, "X").
		WriteFile(dir, "b.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "foo", Files: []string{path}})

	assert.Equal(t, 1, strings.Count(out, "match over"))
	assert.Contains(t, out, "match over 2 frames from")
}

// A non-matching frame in between splits the report into two spans,
// flushed in order.
func TestGapFrameSplitsSpans(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "foo").
		Output(0.2, "\x1b[2J").
		Output(0.3, "foo again").
		WriteFile(dir, "c.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "foo", Files: []string{path}})

	assert.Equal(t, 2, strings.Count(out, "match over 1 frame from"))
}

// Two occurrences inside one frame accumulate into one span with two
// highlighted ranges.
func TestTwoOccurrencesInOneFrame(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "foo and foo").
		WriteFile(dir, "d.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "foo", Files: []string{path}, Color: "always"})

	assert.Equal(t, 1, strings.Count(out, "match over"))
	highlighted := util.HighlightStart + "foo" + util.HighlightEnd
	assert.Equal(t, 2, strings.Count(out, highlighted))
}

// Match ceiling one plus list-only: the file name exactly once, and no
// frames after the first match are scanned.
func TestListOnlyWithCeilingPrintsNameOnce(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "needle").
		Output(0.2, "needle needle").
		WriteFile(dir, "e.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{
		Pattern:  "needle",
		Files:    []string{path},
		MaxCount: 1,
		ListOnly: true,
	})

	assert.Equal(t, path+"\n", out)
}

func TestListOnlyImpliesCeilingOfOne(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "needle").
		Output(0.2, "more needle").
		WriteFile(dir, "f.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "needle", Files: []string{path}, ListOnly: true})
	assert.Equal(t, path+"\n", out)
}

func TestMaxCountStopsScanningFile(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "hit one\r\n").
		Output(0.2, "hit two\r\n").
		Output(0.3, "hit three\r\n").
		WriteFile(dir, "g.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "hit", Files: []string{path}, MaxCount: 2})

	// Two occurrences were admitted; their span still flushes once.
	assert.Equal(t, 1, strings.Count(out, "match over"))
}

func TestInputChannelSearchesKeystrokes(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "prompt$ ").
		Input(0.2, "secret command\r").
		WriteFile(dir, "h.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "secret", Files: []string{path}, Channel: "input"})
	assert.Contains(t, out, "secret command")

	out = runSearch(t, &Config{Pattern: "secret", Files: []string{path}})
	assert.NotContains(t, out, "match over", "output channel must not see keystrokes")
}

func TestFilesProcessedInCommandLineOrder(t *testing.T) {
	dir := t.TempDir()
	first, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "alpha match").
		WriteFile(dir, "one.cast")
	require.NoError(t, err)
	second, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "beta match").
		WriteFile(dir, "two.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "match", Files: []string{second, first}})

	assert.Less(t, strings.Index(out, second+":"), strings.Index(out, first+":"))
}

func TestLineNumbersInOutput(t *testing.T) {
	dir := t.TempDir()
	path, err := fixtures.NewCastBuilder(80, 24, 100).
		Output(0.1, "one\r\ntwo\r\nthree needle").
		WriteFile(dir, "i.cast")
	require.NoError(t, err)

	out := runSearch(t, &Config{Pattern: "needle", Files: []string{path}, LineNumbers: true})
	assert.Contains(t, out, "   3  three needle")
}
