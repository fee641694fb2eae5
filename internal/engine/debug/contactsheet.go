package debug

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
)

// Layer is one reflection array layer read back from the GPU.
type Layer struct {
	Label  string
	Pixels []byte // RGBA, OpenGL row order
	Width  int
	Height int
	// Active marks layers written this frame; they get a highlighted frame.
	Active bool
}

// Contact sheet layout.
const (
	sheetPadding     = 8
	sheetLabelHeight = 18
	sheetTitleHeight = 22
)

// ContactSheet lays out layers side by side under a title, each with a
// label underneath.
func ContactSheet(title string, layers []Layer) (image.Image, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("contact sheet: no layers")
	}

	cellW, cellH := 0, 0
	images := make([]*image.RGBA, len(layers))
	for i, l := range layers {
		img, err := FlipRGBA(l.Pixels, l.Width, l.Height)
		if err != nil {
			return nil, fmt.Errorf("contact sheet layer %d: %w", i, err)
		}
		images[i] = img
		cellW = max(cellW, l.Width)
		cellH = max(cellH, l.Height)
	}

	width := sheetPadding + len(layers)*(cellW+sheetPadding)
	height := sheetTitleHeight + cellH + sheetLabelHeight + sheetPadding

	dc := gg.NewContext(width, height)
	dc.SetRGB(0.08, 0.08, 0.1)
	dc.Clear()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(title, float64(sheetPadding), float64(sheetTitleHeight)/2, 0, 0.5)

	for i, l := range layers {
		x := sheetPadding + i*(cellW+sheetPadding)
		y := sheetTitleHeight

		dc.DrawImage(images[i], x, y)

		if l.Active {
			dc.SetRGB(0.3, 0.9, 0.4)
		} else {
			dc.SetRGB(0.35, 0.35, 0.4)
		}
		dc.SetLineWidth(2)
		dc.DrawRectangle(float64(x)-1, float64(y)-1, float64(l.Width)+2, float64(l.Height)+2)
		dc.Stroke()

		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawStringAnchored(l.Label, float64(x)+float64(cellW)/2, float64(y+cellH)+float64(sheetLabelHeight)/2, 0.5, 0.5)
	}

	return dc.Image(), nil
}

// SaveContactSheet renders a contact sheet and writes it as a PNG.
func (sc *ScreenshotCapture) SaveContactSheet(title string, layers []Layer) (string, error) {
	img, err := ContactSheet(title, layers)
	if err != nil {
		return "", err
	}
	return sc.CaptureFromImage(img)
}
