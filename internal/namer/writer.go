// Package namer assigns sequential file names to generated images and writes
// them with their prompt embedded.
package namer

import (
	"context"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/dmorgan81/dreamwriter/internal/log"
)

type FileRecord struct {
	Path string
	Seed int64
}

// ImageSaver persists an image together with its prompt text.
type ImageSaver interface {
	Save(ctx context.Context, img image.Image, prompt, path string) error
}

// Writer names and saves the images of one generation session. It is not
// safe for concurrent use.
type Writer struct {
	prompt    string
	batchSize int
	saver     ImageSaver
	allocator FilenameAllocator

	path  string
	files []FileRecord
}

// NewWriter creates dir if needed. A batch size below 1 is treated as 1.
func NewWriter(ctx context.Context, dir, prompt string, batchSize int, saver ImageSaver) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	batchSize = max(batchSize, 1)
	return &Writer{
		prompt:    prompt,
		batchSize: batchSize,
		saver:     saver,
		allocator: NewSequentialAllocator(ctx, dir, batchSize),
	}, nil
}

// WithAllocator swaps the naming scheme.
func (w *Writer) WithAllocator(a FilenameAllocator) *Writer {
	w.allocator = a
	return w
}

// WriteImage claims the next path and saves img there with the session
// prompt and seed embedded. A failed save is logged; the path stays claimed
// and no record is kept. Upscaled images are never recorded.
func (w *Writer) WriteImage(ctx context.Context, img image.Image, seed int64, upscaled bool) string {
	log := log.FromContextOrDiscard(ctx).WithGroup("writer")

	w.path = w.allocator.NextPath(seed, upscaled, w.path)
	text := w.prompt + " -S" + strconv.FormatInt(seed, 10)

	if err := w.saver.Save(ctx, img, text, w.path); err != nil {
		log.Error("saving image", "path", w.path, "seed", seed, "error", err)
		return w.path
	}
	log.Debug("saved image", "path", w.path, "seed", seed, "upscaled", upscaled)

	if !upscaled {
		w.files = append(w.files, FileRecord{Path: w.path, Seed: seed})
	}
	return w.path
}

// Path is the last path handed out, or "" before the first write.
func (w *Writer) Path() string { return w.path }

func (w *Writer) Files() []FileRecord {
	return append([]FileRecord(nil), w.files...)
}
