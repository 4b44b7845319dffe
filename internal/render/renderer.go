package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// panelMaxWidth caps the terminal window so long lines stay readable.
const panelMaxWidth = 96

// Renderer composes one frame: rain behind, terminal window on top.
type Renderer struct {
	screen     tcell.Screen
	rain       *Rain
	transcript *Transcript
}

// NewRenderer binds a screen to the rain and transcript it draws. rain may be
// nil to disable the background.
func NewRenderer(screen tcell.Screen, rain *Rain, transcript *Transcript) *Renderer {
	r := &Renderer{screen: screen, rain: rain, transcript: transcript}
	r.Resize()
	return r
}

// Resize re-lays the background for the current screen size.
func (r *Renderer) Resize() {
	if r.rain != nil {
		w, h := r.screen.Size()
		r.rain.Resize(w, h)
	}
}

// panel returns the terminal window's outer box.
func (r *Renderer) panel() (x0, y0, w, h int) {
	sw, sh := r.screen.Size()
	w = min(sw-4, panelMaxWidth)
	h = sh - 4
	if w < 20 || h < 6 {
		return 0, 0, sw, sh
	}
	return (sw - w) / 2, 2, w, h
}

// Draw renders a full frame. label is the stage prompt and input the
// operator's unsent buffer.
func (r *Renderer) Draw(label, input string) {
	r.screen.Clear()
	if r.rain != nil {
		r.rain.Draw(r.screen)
	}

	x0, y0, w, h := r.panel()
	r.drawBox(x0, y0, w, h, " MATRIX TERMINAL ")

	innerX, innerY := x0+2, y0+1
	innerW, innerH := w-4, h-2
	r.transcript.Draw(r.screen, innerX, innerY, innerW, innerH-2)

	r.drawHLine(innerX, innerY+innerH-2, innerW)
	promptY := innerY + innerH - 1
	col := r.drawText(innerX, promptY, label+" ", PromptStyle)
	col = r.drawText(col, promptY, input, InputStyle)
	r.screen.SetContent(col, promptY, '_', nil, InputStyle.Blink(true))

	r.screen.Show()
}

// DrawConfirm renders a centered yes/no box over the current frame.
func (r *Renderer) DrawConfirm(prompt string) {
	width := runewidth.StringWidth(prompt) + 4
	sw, sh := r.screen.Size()
	x0, y0 := (sw-width)/2, (sh-3)/2
	r.drawBox(x0, y0, width, 3, "")
	r.drawText(x0+2, y0+1, prompt, TitleStyle)
	r.screen.Show()
}

// drawBox fills a bordered rectangle with the panel background.
func (r *Renderer) drawBox(x0, y0, w, h int, title string) {
	for row := y0; row < y0+h; row++ {
		for col := x0; col < x0+w; col++ {
			r.screen.SetContent(col, row, ' ', nil, BodyStyle)
		}
	}
	for col := x0; col < x0+w; col++ {
		r.screen.SetContent(col, y0, '─', nil, BorderStyle)
		r.screen.SetContent(col, y0+h-1, '─', nil, BorderStyle)
	}
	for row := y0; row < y0+h; row++ {
		r.screen.SetContent(x0, row, '│', nil, BorderStyle)
		r.screen.SetContent(x0+w-1, row, '│', nil, BorderStyle)
	}
	r.screen.SetContent(x0, y0, '┌', nil, BorderStyle)
	r.screen.SetContent(x0+w-1, y0, '┐', nil, BorderStyle)
	r.screen.SetContent(x0, y0+h-1, '└', nil, BorderStyle)
	r.screen.SetContent(x0+w-1, y0+h-1, '┘', nil, BorderStyle)
	if title != "" {
		r.drawText(x0+(w-runewidth.StringWidth(title))/2, y0, title, TitleStyle)
	}
}

func (r *Renderer) drawHLine(x, y, w int) {
	for col := x; col < x+w; col++ {
		r.screen.SetContent(col, y, '─', nil, BorderStyle)
	}
}

// drawText writes text at (x, y) and returns the column after it.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
	return col
}
