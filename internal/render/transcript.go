package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	r        rune
	emphasis bool
}

// Transcript is the text region the typewriter writes into. It keeps logical
// lines and wraps them only when drawn.
type Transcript struct {
	lines [][]cell
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	t := &Transcript{}
	t.Reset()
	return t
}

// Reset clears the transcript.
func (t *Transcript) Reset() { t.lines = [][]cell{nil} }

// Put appends r to the current line.
func (t *Transcript) Put(r rune, emphasis bool) {
	last := len(t.lines) - 1
	t.lines[last] = append(t.lines[last], cell{r: r, emphasis: emphasis})
}

// Break starts a new line.
func (t *Transcript) Break() { t.lines = append(t.lines, nil) }

// String returns the plain text, lines joined by newlines.
func (t *Transcript) String() string {
	out := make([]string, len(t.lines))
	for i, line := range t.lines {
		var b strings.Builder
		for _, c := range line {
			b.WriteRune(c.r)
		}
		out[i] = b.String()
	}
	return strings.Join(out, "\n")
}

// Emphasized returns each run of emphasized text, in order.
func (t *Transcript) Emphasized() []string {
	var spans []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			spans = append(spans, cur.String())
			cur.Reset()
		}
	}
	for _, line := range t.lines {
		for _, c := range line {
			if c.emphasis {
				cur.WriteRune(c.r)
			} else {
				flush()
			}
		}
		flush()
	}
	return spans
}

// wrap splits every logical line into rows no wider than width columns,
// breaking at the last space when one is available.
func (t *Transcript) wrap(width int) [][]cell {
	if width <= 0 {
		return nil
	}
	var rows [][]cell
	for _, line := range t.lines {
		var row []cell
		w := 0
		for _, c := range line {
			cw := runewidth.RuneWidth(c.r)
			if w+cw > width && len(row) > 0 {
				cut := lastSpace(row)
				if cut > 0 {
					rows = append(rows, row[:cut])
					row = append([]cell(nil), row[cut+1:]...)
				} else {
					rows = append(rows, row)
					row = nil
				}
				w = rowWidth(row)
			}
			row = append(row, c)
			w += cw
		}
		rows = append(rows, row)
	}
	return rows
}

func lastSpace(row []cell) int {
	for i := len(row) - 1; i >= 0; i-- {
		if row[i].r == ' ' {
			return i
		}
	}
	return -1
}

func rowWidth(row []cell) int {
	w := 0
	for _, c := range row {
		w += runewidth.RuneWidth(c.r)
	}
	return w
}

// Draw renders the transcript into the box at (x, y) sized w by h. When the
// text is taller than the box, the newest rows are shown.
func (t *Transcript) Draw(screen tcell.Screen, x, y, w, h int) {
	if h <= 0 {
		return
	}
	rows := t.wrap(w)
	if len(rows) > h {
		rows = rows[len(rows)-h:]
	}
	for i, row := range rows {
		col := x
		for _, c := range row {
			style := BodyStyle
			if c.emphasis {
				style = EmphasisStyle
			}
			screen.SetContent(col, y+i, c.r, nil, style)
			col += runewidth.RuneWidth(c.r)
		}
	}
}
