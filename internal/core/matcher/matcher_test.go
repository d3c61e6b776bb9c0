package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(m *RegexpMatcher, text string) [][2]int {
	var got [][2]int
	m.Scan(text, func(from, to int) bool {
		got = append(got, [2]int{from, to})
		return true
	})
	return got
}

func TestCompileInvalidPattern(t *testing.T) {
	_, err := Compile("f(oo", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestScanReportsAscendingNonOverlapping(t *testing.T) {
	m, err := Compile("ab", false)
	require.NoError(t, err)

	got := collect(m, "ab..ab..ab")
	assert.Equal(t, [][2]int{{0, 2}, {4, 6}, {8, 10}}, got)
}

func TestScanLeftmostStart(t *testing.T) {
	m, err := Compile("ell", false)
	require.NoError(t, err)

	got := collect(m, "hello")
	assert.Equal(t, [][2]int{{1, 4}}, got)
}

func TestScanCaseInsensitive(t *testing.T) {
	m, err := Compile("foo", true)
	require.NoError(t, err)

	got := collect(m, "FOO foo FoO")
	assert.Equal(t, [][2]int{{0, 3}, {4, 7}, {8, 11}}, got)
}

func TestScanCaseSensitiveByDefault(t *testing.T) {
	m, err := Compile("foo", false)
	require.NoError(t, err)

	assert.Empty(t, collect(m, "FOO"))
}

func TestScanEarlyStop(t *testing.T) {
	m, err := Compile("x", false)
	require.NoError(t, err)

	calls := 0
	m.Scan("xxxxx", func(from, to int) bool {
		calls++
		return calls < 2
	})
	assert.Equal(t, 2, calls, "scan must stop once the callback declines")
}

func TestScanNoMatch(t *testing.T) {
	m, err := Compile("zzz", false)
	require.NoError(t, err)

	assert.Empty(t, collect(m, "hello world"))
}

func TestScanEmptyMatchesMakeProgress(t *testing.T) {
	m, err := Compile("a*", false)
	require.NoError(t, err)

	got := collect(m, "ba")
	// Must terminate and never report overlapping ranges.
	prev := -1
	for _, r := range got {
		assert.GreaterOrEqual(t, r[0], prev)
		prev = r[1]
	}
	assert.NotEmpty(t, got)
}

func TestScanMultibyteOffsetsAreBytes(t *testing.T) {
	m, err := Compile("世界", false)
	require.NoError(t, err)

	text := "你好 世界"
	got := collect(m, text)
	require.Len(t, got, 1)
	assert.Equal(t, "世界", text[got[0][0]:got[0][1]])
}
