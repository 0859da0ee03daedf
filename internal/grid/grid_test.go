package grid

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestMakeGrid(t *testing.T) {
	t.Run("four images make a 2x2 grid", func(t *testing.T) {
		images := []image.Image{filled(8, 6, red), filled(8, 6, green), filled(8, 6, blue), filled(8, 6, white)}

		got, err := MakeGrid(images, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 16, 12), got.Bounds())
		assert.Equal(t, red, got.RGBAAt(0, 0))
		assert.Equal(t, green, got.RGBAAt(8, 0))
		assert.Equal(t, blue, got.RGBAAt(0, 6))
		assert.Equal(t, white, got.RGBAAt(15, 11))
	})

	t.Run("three images make one row", func(t *testing.T) {
		images := []image.Image{filled(4, 4, red), filled(4, 4, green), filled(4, 4, blue)}

		got, err := MakeGrid(images, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 12, 4), got.Bounds())
		assert.Equal(t, blue, got.RGBAAt(11, 3))
	})

	t.Run("five images leave the last cell blank", func(t *testing.T) {
		images := []image.Image{
			filled(2, 2, red), filled(2, 2, red), filled(2, 2, red),
			filled(2, 2, green), filled(2, 2, green),
		}

		got, err := MakeGrid(images, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 6, 4), got.Bounds())
		assert.Equal(t, green, got.RGBAAt(2, 2))
		assert.Equal(t, black, got.RGBAAt(4, 2))
	})

	t.Run("explicit rows and cols", func(t *testing.T) {
		images := []image.Image{filled(3, 2, red), filled(3, 2, green)}

		got, err := MakeGrid(images, 2, 1)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 3, 4), got.Bounds())
		assert.Equal(t, green, got.RGBAAt(0, 3))
	})

	t.Run("images beyond the grid are dropped", func(t *testing.T) {
		images := []image.Image{filled(2, 2, red), filled(2, 2, green), filled(2, 2, blue)}

		got, err := MakeGrid(images, 1, 2)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 2), got.Bounds())
		assert.Equal(t, green, got.RGBAAt(3, 1))
	})

	t.Run("larger cells are clipped to the canvas", func(t *testing.T) {
		images := []image.Image{filled(2, 2, red), filled(5, 5, blue)}

		got, err := MakeGrid(images, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 4, 2), got.Bounds())
		assert.Equal(t, blue, got.RGBAAt(3, 1))
	})

	t.Run("no images", func(t *testing.T) {
		_, err := MakeGrid(nil, 0, 0)
		assert.ErrorIs(t, err, ErrNoImages)
	})
}
