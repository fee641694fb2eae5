package debug

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solid returns GL-ordered pixels whose bottom row is red and the rest blue.
func solid(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := (y*width + x) * 4
			if y == 0 {
				pixels[o] = 255
			} else {
				pixels[o+2] = 255
			}
			pixels[o+3] = 255
		}
	}
	return pixels
}

func TestFlipRGBA(t *testing.T) {
	img, err := FlipRGBA(solid(4, 3), 4, 3)
	require.NoError(t, err)

	// GL bottom row ends up at the bottom of the image
	r, _, b, _ := img.At(0, 2).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, b)

	r, _, b, _ = img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestFlipRGBASizeMismatch(t *testing.T) {
	_, err := FlipRGBA(make([]byte, 10), 4, 3)
	assert.Error(t, err)
}

func TestContactSheetLayout(t *testing.T) {
	layers := []Layer{
		{Label: "slot 0", Pixels: solid(16, 16), Width: 16, Height: 16, Active: true},
		{Label: "slot 1", Pixels: solid(16, 16), Width: 16, Height: 16},
		{Label: "slot 2", Pixels: solid(16, 16), Width: 16, Height: 16},
	}

	img, err := ContactSheet("floor", layers)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, sheetPadding+3*(16+sheetPadding), b.Dx())
	assert.Equal(t, sheetTitleHeight+16+sheetLabelHeight+sheetPadding, b.Dy())

	// Middle of the second cell holds the layer's blue pixels
	x := sheetPadding + (16 + sheetPadding) + 8
	y := sheetTitleHeight + 8
	r, _, bl, _ := img.At(x, y).RGBA()
	assert.Zero(t, r>>8)
	assert.Equal(t, uint32(255), bl>>8)
}

func TestContactSheetErrors(t *testing.T) {
	_, err := ContactSheet("empty", nil)
	assert.Error(t, err)

	_, err = ContactSheet("bad", []Layer{{Pixels: make([]byte, 3), Width: 2, Height: 2}})
	assert.Error(t, err)
}

func TestSaveContactSheet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "mirror")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	path, err := sc.SaveContactSheet("floor", []Layer{{Label: "slot 0", Pixels: solid(8, 8), Width: 8, Height: 8}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "mirror_2024-05-01_12-30-00"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, sheetPadding+8+sheetPadding, sheetTitleHeight+8+sheetLabelHeight+sheetPadding), img.Bounds())
}

func TestCaptureFromPixels(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "screen")

	path, err := sc.CaptureFromPixels(solid(4, 4), 4, 4)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = sc.CaptureFromPixels(make([]byte, 5), 4, 4)
	assert.Error(t, err)
}
