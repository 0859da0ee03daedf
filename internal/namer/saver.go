package namer

import (
	"bytes"
	"context"
	"image"

	"github.com/dmorgan81/dreamwriter/internal/pngmeta"
	"github.com/dmorgan81/dreamwriter/internal/store"
)

// PromptKey is the PNG text keyword holding the prompt.
const PromptKey = "Dream"

// PNGSaver encodes images as PNG with the prompt in a text chunk and hands
// the bytes to an Uploader.
type PNGSaver struct {
	Uploader store.Uploader
}

func (s *PNGSaver) Save(ctx context.Context, img image.Image, prompt, path string) error {
	var buf bytes.Buffer
	if err := pngmeta.Encode(&buf, img, PromptKey, prompt); err != nil {
		return err
	}
	return s.Uploader.Upload(ctx, store.UploadParams{
		Name:        path,
		Data:        buf.Bytes(),
		ContentType: "image/png",
		Metadata:    map[string]string{"dream": prompt},
	})
}
