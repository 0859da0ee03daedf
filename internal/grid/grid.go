package grid

import (
	"errors"
	"image"
	"image/draw"
	"math"
)

var ErrNoImages = errors.New("grid needs at least one image")

// MakeGrid pastes images row-major onto one canvas. Every cell takes the size
// of the first image. When rows or cols is not positive the grid is made as
// square as possible.
func MakeGrid(images []image.Image, rows, cols int) (*image.RGBA, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if rows <= 0 || cols <= 0 {
		rows = int(math.Floor(math.Sqrt(float64(len(images)))))
		cols = int(math.Ceil(float64(len(images)) / float64(rows)))
	}

	cell := images[0].Bounds().Size()
	canvas := image.NewRGBA(image.Rect(0, 0, cell.X*cols, cell.Y*rows))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)

	i := 0
	for r := 0; r < rows && i < len(images); r++ {
		for c := 0; c < cols && i < len(images); c++ {
			src := images[i]
			at := image.Pt(c*cell.X, r*cell.Y)
			draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}, src, src.Bounds().Min, draw.Src)
			i++
		}
	}
	return canvas, nil
}
