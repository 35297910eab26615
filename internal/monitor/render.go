package monitor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	graphTop    = 25
	gridOffsetX = 2
	gridOffsetY = 2
	gridColumns = 2

	// Label sizes in pixels. The large label fits above graphTop; the small
	// one fits a grid cell for every variable's usual range.
	largeTextSize = 16
	smallTextSize = 8
)

var labelFont = mustParse(gomedium.TTF)

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}

func newFace(size float64) font.Face {
	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	return face
}

// Renderer composes complete frames for the display. Every call returns a
// freshly drawn image; nothing carries over between frames.
type Renderer struct {
	width  int
	height int
	large  font.Face
	small  font.Face
}

// NewRenderer creates a renderer for a width x height display.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		large:  newFace(largeTextSize),
		small:  newFace(smallTextSize),
	}
}

// Bounds returns the frame rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Single draws the graph page for one variable: a colored column per history
// slot running from red (high) to blue (low), a black marker at each slot's
// height, and the label in the top-left corner.
func (r *Renderer) Single(v Variable, value float64, normalized []float64) *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	if n := len(normalized); n > 0 {
		colWidth := r.width / n
		if colWidth < 1 {
			colWidth = 1
		}
		for i, level := range normalized {
			x := i * colWidth
			if x >= r.width {
				break
			}
			fill(img, image.Rect(x, graphTop, x+colWidth, r.height), GradientColor(level))

			y := r.height - int(level*float64(r.height-graphTop))
			if y >= r.height {
				y = r.height - 1
			}
			fill(img, image.Rect(x, y, x+colWidth, y+1), color.Black)
		}
	}

	text(img, r.large, 0, 0, v.Label(value), color.Black)
	return img
}

// Grid draws every variable's latest value in two columns on black, each
// colored by its severity.
func (r *Renderer) Grid(vars []Variable, latest []float64) *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	rows := (len(vars) + gridColumns - 1) / gridColumns
	if rows == 0 {
		return img
	}
	for i, v := range vars {
		x := gridOffsetX + (r.width/gridColumns)*(i/rows)
		y := gridOffsetY + (r.height/rows)*(i%rows)
		text(img, r.small, x, y, v.Label(latest[i]), Classify(latest[i], v.Limits).Color())
	}
	return img
}

// GradientColor maps a normalized level to the graph hue: (1-level)*0.6 of
// the HSV circle at full saturation and value. Channels are truncated, not
// rounded, to 8 bits.
func GradientColor(level float64) color.RGBA {
	hue := (1 - level) * 0.6
	c := colorful.Hsv(hue*360, 1, 1)
	return color.RGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// text draws s in face with its top-left corner at (x, y).
func text(img *image.RGBA, face font.Face, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
