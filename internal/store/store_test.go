package store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

type fakeCreator struct {
	input *cloudfront.CreateInvalidationInput
}

func (f *fakeCreator) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	f.input = in
	return &cloudfront.CreateInvalidationOutput{}, nil
}

type recordingUploader struct {
	names []string
	err   error
}

func (r *recordingUploader) Upload(_ context.Context, p UploadParams) error {
	r.names = append(r.names, p.Name)
	return r.err
}

func TestFileUploader(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the file and leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		name := filepath.Join(dir, "000001.42.png")

		require.NoError(t, (&FileUploader{}).Upload(ctx, UploadParams{Name: name, Data: []byte("png")}))

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "000001.42.png")
		require.NoError(t, os.WriteFile(name, []byte("old"), 0644))

		require.NoError(t, (&FileUploader{}).Upload(ctx, UploadParams{Name: name, Data: []byte("new")}))

		data, err := os.ReadFile(name)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	})

	t.Run("missing directory fails", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "nope", "000001.42.png")
		assert.Error(t, (&FileUploader{}).Upload(ctx, UploadParams{Name: name}))
	})
}

func TestMultiUploader(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	first := &recordingUploader{}
	second := &recordingUploader{err: boom}
	third := &recordingUploader{}

	err := MultiUploader{first, second, third}.Upload(ctx, UploadParams{Name: "a.png"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a.png"}, first.names)
	assert.Equal(t, []string{"a.png"}, second.names)
	assert.Empty(t, third.names)
}

func TestS3Uploader(t *testing.T) {
	putter := &fakePutter{}
	u := &S3Uploader{Client: putter, Bucket: "dreams", Prefix: "samples"}

	err := u.Upload(context.Background(), UploadParams{
		Name:        "/tmp/out/000003.7.01.png",
		Data:        []byte("png"),
		ContentType: "image/png",
		Metadata:    map[string]string{"dream": "owl -S7"},
	})

	require.NoError(t, err)
	assert.Equal(t, "dreams", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "samples/000003.7.01.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "owl -S7", putter.input.Metadata["dream"])
	assert.Equal(t, "png", string(putter.body))
}

func TestCloudFrontInvalidator(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one invalidation for all paths", func(t *testing.T) {
		creator := &fakeCreator{}
		inv := &CloudFrontInvalidator{Client: creator, Distribution: "E123", Prefix: "samples"}

		require.NoError(t, inv.Invalidate(ctx, []string{"/tmp/out/a.png", "b.png"}))

		require.NotNil(t, creator.input)
		assert.Equal(t, "E123", aws.ToString(creator.input.DistributionId))
		assert.Equal(t, int32(2), aws.ToInt32(creator.input.InvalidationBatch.Paths.Quantity))
		assert.Equal(t, []string{"/samples/a.png", "/samples/b.png"}, creator.input.InvalidationBatch.Paths.Items)
	})

	t.Run("no paths is a no-op", func(t *testing.T) {
		creator := &fakeCreator{}
		inv := &CloudFrontInvalidator{Client: creator, Distribution: "E123"}

		require.NoError(t, inv.Invalidate(ctx, nil))
		assert.Nil(t, creator.input)
	})
}
