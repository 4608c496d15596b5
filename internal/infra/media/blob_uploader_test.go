package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidhub/config"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

func newTestUploader(t *testing.T, cfg config.MediaConfig) (*blobUploader, *blob.Bucket) {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newBlobUploader(bucket, cfg, logger), bucket
}

func writePNG(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}

	filePath := filepath.Join(t.TempDir(), "avatar.png")
	f, err := os.Create(filePath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	return filePath
}

func writeJPEG(t *testing.T, width, height int) string {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 10, G: 120, B: 30, A: 255})
	filePath := filepath.Join(t.TempDir(), "cover.jpeg")
	require.NoError(t, imaging.Save(img, filePath))

	return filePath
}

func TestBlobUploader_UploadPNG(t *testing.T) {
	uploader, bucket := newTestUploader(t, config.MediaConfig{
		PublicBaseURL: "https://cdn.example.com/",
		KeyPrefix:     "/avatars/",
	})
	localPath := writePNG(t, 32, 16)

	result, err := uploader.Upload(context.Background(), localPath)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "avatars/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.URL)

	attrs, err := bucket.Attributes(context.Background(), result.Key)
	require.NoError(t, err)
	assert.Equal(t, "image/png", attrs.ContentType)

	_, err = os.Stat(localPath)
	assert.True(t, os.IsNotExist(err), "staged file should be removed")
}

func TestBlobUploader_SameContentSameKey(t *testing.T) {
	uploader, _ := newTestUploader(t, config.MediaConfig{})

	first := writePNG(t, 8, 8)
	second := writePNG(t, 8, 8)

	a, err := uploader.Upload(context.Background(), first)
	require.NoError(t, err)
	b, err := uploader.Upload(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, a.Key, b.Key)
}

func TestBlobUploader_JPEGIsFittedWithinBounds(t *testing.T) {
	uploader, bucket := newTestUploader(t, config.MediaConfig{MaxWidth: 100, MaxHeight: 100})
	localPath := writeJPEG(t, 400, 200)

	result, err := uploader.Upload(context.Background(), localPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))

	data, err := bucket.ReadAll(context.Background(), result.Key)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestBlobUploader_RejectsNonImage(t *testing.T) {
	uploader, _ := newTestUploader(t, config.MediaConfig{})

	localPath := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(localPath, []byte("just some text"), 0o600))

	_, err := uploader.Upload(context.Background(), localPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedMedia))

	_, statErr := os.Stat(localPath)
	assert.True(t, os.IsNotExist(statErr), "rejected file should be removed")
}

func TestBlobUploader_MissingFile(t *testing.T) {
	uploader, _ := newTestUploader(t, config.MediaConfig{})

	_, err := uploader.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrMediaUploadFailed))
}

// writePNGHeader writes a grayscale PNG that declares width x height but carries no pixel data.
func writePNGHeader(t *testing.T, width, height uint32) string {
	t.Helper()

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth, color type 0 (gray)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(len(ihdr))))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	require.NoError(t, binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk)))

	filePath := filepath.Join(t.TempDir(), "huge.png")
	require.NoError(t, os.WriteFile(filePath, buf.Bytes(), 0o600))

	return filePath
}

func TestBlobUploader_RejectsOversizedDimensions(t *testing.T) {
	uploader, bucket := newTestUploader(t, config.MediaConfig{})
	localPath := writePNGHeader(t, 20000, 20000)

	_, err := uploader.Upload(context.Background(), localPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedMedia))
	assert.Contains(t, err.(*domainerrors.BaseError).Details(), "20000x20000")

	_, statErr := os.Stat(localPath)
	assert.True(t, os.IsNotExist(statErr), "rejected file should be removed")

	iter := bucket.List(nil)
	_, err = iter.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF, "nothing should be stored")
}

func TestBlobUploader_PixelCapFromConfig(t *testing.T) {
	uploader, _ := newTestUploader(t, config.MediaConfig{MaxPixels: 100})

	_, err := uploader.Upload(context.Background(), writePNG(t, 32, 16))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedMedia))

	result, err := uploader.Upload(context.Background(), writePNG(t, 10, 10))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
}
