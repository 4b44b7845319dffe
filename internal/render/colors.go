package render

import "github.com/gdamore/tcell/v2"

// Palette for the terminal window and the rain behind it.
var (
	MatrixGreen = tcell.NewRGBColor(0, 255, 65)
	HeadWhite   = tcell.ColorWhite
	PanelBlack  = tcell.ColorBlack
	BorderGreen = tcell.NewRGBColor(0, 110, 30)
)

// Styles used inside the terminal window.
var (
	BodyStyle     = tcell.StyleDefault.Foreground(MatrixGreen).Background(PanelBlack)
	EmphasisStyle = tcell.StyleDefault.Foreground(HeadWhite).Background(PanelBlack).Bold(true)
	PromptStyle   = tcell.StyleDefault.Foreground(MatrixGreen).Background(PanelBlack).Bold(true)
	InputStyle    = tcell.StyleDefault.Foreground(HeadWhite).Background(PanelBlack)
	BorderStyle   = tcell.StyleDefault.Foreground(BorderGreen).Background(PanelBlack)
	TitleStyle    = tcell.StyleDefault.Foreground(MatrixGreen).Background(PanelBlack).Bold(true)
)

// trailColor fades a rain glyph from bright to dark green as it ages.
func trailColor(age, length int) tcell.Color {
	if length <= 0 {
		return MatrixGreen
	}
	g := int32(255 - (255-40)*age/length)
	if g < 40 {
		g = 40
	}
	return tcell.NewRGBColor(0, g, g/4)
}
