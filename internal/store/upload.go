package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmorgan81/dreamwriter/internal/log"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// FileUploader writes to the local path in Name. The data lands in a temp
// file next to the target and is renamed into place.
type FileUploader struct{}

func (*FileUploader) Upload(ctx context.Context, params UploadParams) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("file")
	log.Info("writing", "file", params.Name)

	tmp, err := os.CreateTemp(filepath.Dir(params.Name), "."+filepath.Base(params.Name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(params.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", params.Name, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), params.Name)
}

// MultiUploader uploads to each Uploader in order and stops at the first error.
type MultiUploader []Uploader

func (m MultiUploader) Upload(ctx context.Context, params UploadParams) error {
	for _, u := range m {
		if err := u.Upload(ctx, params); err != nil {
			return err
		}
	}
	return nil
}
