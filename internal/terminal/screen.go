package terminal

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/penwyp/castgrep/internal/core/model"
)

// Screen is a fixed-size virtual terminal viewport. It interprets the
// subset of control sequences that affect visible content or the cursor;
// everything else (SGR colors, mode switches, OSC titles) is consumed
// without effect, so feeding them never reports a change.
type Screen struct {
	rows      int
	cols      int
	buffer    [][]rune
	cursorRow int
	cursorCol int
	dirty     map[int]bool
}

// NewScreen creates a blank screen of rows x cols cells.
func NewScreen(rows, cols int) *Screen {
	buffer := make([][]rune, rows)
	for i := range buffer {
		buffer[i] = blankRow(cols)
	}
	return &Screen{
		rows:   rows,
		cols:   cols,
		buffer: buffer,
		dirty:  make(map[int]bool),
	}
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// Feed interprets data against the current screen state.
func (s *Screen) Feed(data string) {
	runes := []rune(data)
	i := 0
	for i < len(runes) {
		switch {
		case runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.handleCSI(runes, i)
		case runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == ']':
			i = s.skipOSC(runes, i)
		case runes[i] == '\x1b':
			// Bare escape plus one final byte (e.g. ESC M, ESC 7).
			i += 2
		case runes[i] == '\r':
			s.cursorCol = 0
			i++
		case runes[i] == '\n':
			s.cursorRow++
			s.cursorCol = 0
			if s.cursorRow >= s.rows {
				s.scrollUp()
			}
			i++
		case runes[i] == '\b':
			if s.cursorCol > 0 {
				s.cursorCol--
			}
			i++
		case runes[i] == '\t':
			s.cursorCol = min(s.cols-1, (s.cursorCol/8+1)*8)
			i++
		case runes[i] == '\a':
			i++
		default:
			s.putRune(runes[i])
			i++
		}
	}
}

// TakeChanged returns the rows written since the previous call and
// resets the change set.
func (s *Screen) TakeChanged() []int {
	if len(s.dirty) == 0 {
		return nil
	}
	changed := make([]int, 0, len(s.dirty))
	for row := range s.dirty {
		changed = append(changed, row)
	}
	s.dirty = make(map[int]bool)
	return changed
}

// Cursor returns the current cursor position.
func (s *Screen) Cursor() model.Cursor {
	return model.Cursor{Row: s.cursorRow, Col: s.cursorCol}
}

// Text flattens the viewport: each row right-trimmed, rows that trim
// to empty dropped without a delimiter, the rest joined by newlines.
func (s *Screen) Text() string {
	var lines []string
	for _, row := range s.buffer {
		line := strings.TrimRight(string(row), " ")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Line returns one row, right-trimmed.
func (s *Screen) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.buffer[row]), " ")
}

// handleCSI parses an ESC[ sequence starting at index start and
// returns the index just past it.
func (s *Screen) handleCSI(runes []rune, start int) int {
	i := start + 2
	params := []int{}
	current := 0
	for i < len(runes) {
		switch {
		case runes[i] >= '0' && runes[i] <= '9':
			current = current*10 + int(runes[i]-'0')
		case runes[i] == ';':
			params = append(params, current)
			current = 0
		case runes[i] == '?' || runes[i] == '>' || runes[i] == '!':
			// Private-mode prefix; parameters follow as usual.
		default:
			params = append(params, current)
			s.handleCommand(runes[i], params)
			return i + 1
		}
		i++
	}
	return i
}

// skipOSC consumes an ESC] sequence through its BEL or ST terminator.
func (s *Screen) skipOSC(runes []rune, start int) int {
	i := start + 2
	for i < len(runes) {
		if runes[i] == '\a' {
			return i + 1
		}
		if runes[i] == '\x1b' && i+1 < len(runes) && runes[i+1] == '\\' {
			return i + 2
		}
		i++
	}
	return i
}

func (s *Screen) handleCommand(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f': // Cursor position
		row, col := 1, 1
		if len(params) > 0 && params[0] > 0 {
			row = params[0]
		}
		if len(params) > 1 && params[1] > 0 {
			col = params[1]
		}
		s.cursorRow = min(s.rows-1, row-1)
		s.cursorCol = min(s.cols-1, col-1)

	case 'J': // Clear screen
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearFromCursor()
		case 1:
			s.clearToCursor()
		case 2, 3:
			s.clear()
		}

	case 'K': // Clear line
		mode := 0
		if len(params) > 0 {
			mode = params[0]
		}
		switch mode {
		case 0:
			s.clearLineFromCursor()
		case 1:
			s.clearLineToCursor()
		case 2:
			s.clearLine()
		}

	case 'A': // Cursor up
		s.cursorRow = max(0, s.cursorRow-param(params, 1))
	case 'B': // Cursor down
		s.cursorRow = min(s.rows-1, s.cursorRow+param(params, 1))
	case 'C': // Cursor forward
		s.cursorCol = min(s.cols-1, s.cursorCol+param(params, 1))
	case 'D': // Cursor backward
		s.cursorCol = max(0, s.cursorCol-param(params, 1))
	case 'G': // Cursor horizontal absolute
		s.cursorCol = min(s.cols-1, max(0, param(params, 1)-1))
	case 'd': // Cursor vertical absolute
		s.cursorRow = min(s.rows-1, max(0, param(params, 1)-1))
	}
	// 'm' (SGR) and everything else: no visible effect.
}

func param(params []int, def int) int {
	if len(params) > 0 && params[0] > 0 {
		return params[0]
	}
	return def
}

// putRune writes a printable rune at the cursor and advances by its
// display width. Wide runes occupy their leading cell plus blank
// filler cells; zero-width runes are dropped.
func (s *Screen) putRune(ch rune) {
	w := runewidth.RuneWidth(ch)
	if w == 0 {
		return
	}
	if s.cursorCol+w > s.cols {
		s.cursorCol = 0
		s.cursorRow++
		if s.cursorRow >= s.rows {
			s.scrollUp()
		}
	}
	s.writeCell(s.cursorRow, s.cursorCol, ch)
	for i := 1; i < w; i++ {
		s.writeCell(s.cursorRow, s.cursorCol+i, ' ')
	}
	s.cursorCol += w
	if s.cursorCol >= s.cols {
		s.cursorCol = 0
		s.cursorRow++
		if s.cursorRow >= s.rows {
			s.scrollUp()
		}
	}
}

func (s *Screen) writeCell(row, col int, ch rune) {
	if s.buffer[row][col] == ch {
		return
	}
	s.buffer[row][col] = ch
	s.dirty[row] = true
}

func (s *Screen) clear() {
	for i := 0; i < s.rows; i++ {
		s.clearRow(i)
	}
}

func (s *Screen) clearFromCursor() {
	s.clearCells(s.cursorRow, s.cursorCol, s.cols)
	for i := s.cursorRow + 1; i < s.rows; i++ {
		s.clearRow(i)
	}
}

func (s *Screen) clearToCursor() {
	for i := 0; i < s.cursorRow; i++ {
		s.clearRow(i)
	}
	s.clearCells(s.cursorRow, 0, s.cursorCol+1)
}

func (s *Screen) clearLine() {
	s.clearRow(s.cursorRow)
}

func (s *Screen) clearLineFromCursor() {
	s.clearCells(s.cursorRow, s.cursorCol, s.cols)
}

func (s *Screen) clearLineToCursor() {
	s.clearCells(s.cursorRow, 0, s.cursorCol+1)
}

func (s *Screen) clearRow(row int) {
	s.clearCells(row, 0, s.cols)
}

func (s *Screen) clearCells(row, from, to int) {
	for j := from; j < to; j++ {
		s.writeCell(row, j, ' ')
	}
}

// scrollUp shifts every row up by one; rows whose content actually
// moves are marked changed.
func (s *Screen) scrollUp() {
	for i := 0; i < s.rows-1; i++ {
		if string(s.buffer[i]) != string(s.buffer[i+1]) {
			s.dirty[i] = true
		}
		s.buffer[i] = s.buffer[i+1]
	}
	last := blankRow(s.cols)
	if string(s.buffer[s.rows-1]) != string(last) {
		s.dirty[s.rows-1] = true
	}
	s.buffer[s.rows-1] = last
	s.cursorRow = s.rows - 1
}
