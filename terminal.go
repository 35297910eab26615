package enviro

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

const halfBlock = "▀"

// Terminal previews frames in a true-colour terminal, two pixel rows per
// text line. The backlight level scales brightness, so an off backlight
// shows a black frame.
type Terminal struct {
	out      *termenv.Output
	renderer *lipgloss.Renderer
	level    float64
	last     image.Image
}

func NewTerminal(w io.Writer) *Terminal {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.TrueColor)
	return &Terminal{
		out:      termenv.NewOutput(w, termenv.WithProfile(termenv.TrueColor)),
		renderer: r,
		level:    1,
	}
}

func (t *Terminal) PushFrame(img image.Image) error {
	t.last = img
	return t.draw()
}

func (t *Terminal) SetBacklight(level float64) error {
	t.level = min(max(level, 0), 1)
	if t.last == nil {
		return nil
	}
	return t.draw()
}

func (t *Terminal) draw() error {
	b := t.last.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := t.renderer.NewStyle().Foreground(t.cell(t.last.At(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(t.cell(t.last.At(x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
		sb.WriteByte('\n')
	}

	t.out.MoveCursor(1, 1)
	_, err := io.WriteString(t.out, sb.String())
	return err
}

func (t *Terminal) cell(c color.Color) lipgloss.Color {
	cf, _ := colorful.MakeColor(c)
	dimmed := colorful.Color{R: cf.R * t.level, G: cf.G * t.level, B: cf.B * t.level}
	return lipgloss.Color(dimmed.Hex())
}

// Close clears the preview.
func (t *Terminal) Close() error {
	t.out.ClearScreen()
	return nil
}
