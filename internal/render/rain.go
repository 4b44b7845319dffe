package render

import (
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Rain glyphs: katakana followed by digits.
const (
	Katakana = "アァカサタナハマヤラワガザダバパイィキシチニヒミリヰギジヂビピウゥクズツヌフムユルグズブプエェケセテネヘメレヱゲゼデベペオォコソトノホモヨロヲゴゾドボポ"
	Digits   = "0123456789"
)

// Rain tuning.
const (
	HeadRows    = 3     // a drop's head is white while it is this close to the top
	TrailLength = 12    // frames before a glyph fades out
	resetChance = 0.025 // per-frame chance that a drop past the bottom restarts
	minSpeed    = 0.5   // rows per frame
	speedRange  = 2.0
)

type drop struct {
	y     float64 // row, fractional
	speed float64
}

type glyph struct {
	r   rune
	age int
}

// Rain is the decorative falling-glyph background. It holds no game state.
type Rain struct {
	rng      *rand.Rand
	glyphs   []rune
	colWidth int

	width, height int
	drops         []drop
	grid          [][]glyph // [row][column]; r == 0 is empty
}

// NewRain returns an empty rain; call Resize before the first Step.
func NewRain(rng *rand.Rand) *Rain {
	glyphs := []rune(Katakana + Digits)
	w := 1
	for _, g := range glyphs {
		w = max(w, runewidth.RuneWidth(g))
	}
	return &Rain{rng: rng, glyphs: glyphs, colWidth: w}
}

// Columns returns the number of drop columns.
func (r *Rain) Columns() int { return len(r.drops) }

// Resize re-lays the columns for a width by height screen. Drops in columns
// that still exist keep their position.
func (r *Rain) Resize(width, height int) {
	r.width, r.height = width, height
	cols := 0
	if r.colWidth > 0 && width > 0 {
		cols = width / r.colWidth
	}
	old := r.drops
	r.drops = make([]drop, cols)
	for i := range r.drops {
		if i < len(old) {
			r.drops[i] = old[i]
			continue
		}
		r.drops[i] = drop{y: r.rng.Float64() * float64(height), speed: r.newSpeed()}
	}
	r.grid = make([][]glyph, max(height, 0))
	for y := range r.grid {
		r.grid[y] = make([]glyph, cols)
	}
}

func (r *Rain) newSpeed() float64 { return r.rng.Float64()*speedRange + minSpeed }

// Step advances one frame: trails age and every drop writes a fresh glyph.
func (r *Rain) Step() {
	for y := range r.grid {
		for x := range r.grid[y] {
			g := &r.grid[y][x]
			if g.r == 0 {
				continue
			}
			g.age++
			if g.age > TrailLength {
				*g = glyph{}
			}
		}
	}
	for i := range r.drops {
		d := &r.drops[i]
		row := int(d.y)
		if row >= 0 && row < r.height {
			r.grid[row][i] = glyph{r: r.glyphs[r.rng.Intn(len(r.glyphs))]}
		}
		if row >= r.height && r.rng.Float64() < resetChance {
			d.y = 0
			d.speed = r.newSpeed()
		}
		d.y += d.speed
	}
}

// Draw paints the current frame onto screen.
func (r *Rain) Draw(screen tcell.Screen) {
	for y, row := range r.grid {
		for i, g := range row {
			if g.r == 0 {
				continue
			}
			color := trailColor(g.age, TrailLength)
			if g.age == 0 && y < HeadRows {
				color = HeadWhite
			}
			screen.SetContent(i*r.colWidth, y, g.r, nil, tcell.StyleDefault.Foreground(color).Background(tcell.ColorBlack))
		}
	}
}
