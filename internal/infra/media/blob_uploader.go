// Package media stores user supplied images in a gocloud.dev blob bucket.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"vidhub/config"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/service"
	"vidhub/internal/errors"
	"vidhub/internal/util"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const (
	defaultJPEGQuality = 85
	defaultMaxPixels   = 25_000_000
	pngMIME            = "image/png"
)

type blobUploader struct {
	bucket        *blob.Bucket
	publicBaseURL string
	keyPrefix     string
	maxWidth      int
	maxHeight     int
	maxPixels     int
	jpegQuality   int
	logger        *slog.Logger
}

// UploaderParams holds dependencies for the blob uploader
type UploaderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// NewBlobUploader opens the configured bucket and closes it on shutdown.
func NewBlobUploader(params UploaderParams) (service.MediaUploader, error) {
	cfg := params.Config.Media
	if strings.TrimSpace(cfg.BucketURL) == "" {
		return nil, errors.New("media.bucketUrl is required")
	}

	bucket, err := blob.OpenBucket(context.Background(), cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return errors.Wrap(bucket.Close(), "close media bucket")
		},
	})

	params.Logger.Info("Media bucket opened", slog.String("bucket_url", cfg.BucketURL))

	return newBlobUploader(bucket, cfg, params.Logger), nil
}

func newBlobUploader(bucket *blob.Bucket, cfg config.MediaConfig, logger *slog.Logger) *blobUploader {
	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}
	maxPixels := cfg.MaxPixels
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}

	return &blobUploader{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		maxWidth:      cfg.MaxWidth,
		maxHeight:     cfg.MaxHeight,
		maxPixels:     maxPixels,
		jpegQuality:   quality,
		logger:        logger,
	}
}

// Upload normalises the image at localPath and writes it under a content addressed key.
// The local file is removed in every case.
func (u *blobUploader) Upload(ctx context.Context, localPath string) (*service.UploadResult, error) {
	defer u.removeLocal(localPath)

	start := time.Now()

	mtype, err := mimetype.DetectFile(localPath)
	if err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("detected " + mtype.String())
	}

	checksum, sourceSize, err := util.FileDigest(localPath)
	if err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}

	if err := u.checkDimensions(localPath); err != nil {
		return nil, err
	}

	img, err := imaging.Open(localPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails("cannot decode " + mtype.String())
	}

	if u.maxWidth > 0 && u.maxHeight > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > u.maxWidth || bounds.Dy() > u.maxHeight {
			img = imaging.Fit(img, u.maxWidth, u.maxHeight, imaging.Lanczos)
		}
	}

	format, ext, contentType := imaging.JPEG, ".jpg", "image/jpeg"
	if mtype.Is(pngMIME) {
		format, ext, contentType = imaging.PNG, ".png", pngMIME
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(u.jpegQuality)); err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}

	key := checksum + ext
	if u.keyPrefix != "" {
		key = path.Join(u.keyPrefix, key)
	}

	if err := u.bucket.WriteAll(ctx, key, buf.Bytes(), &blob.WriterOptions{ContentType: contentType}); err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}

	u.logger.DebugContext(ctx, "Media uploaded",
		slog.String("key", key),
		slog.String("source_size", util.FormatBytes(sourceSize)),
		slog.String("stored_size", util.FormatBytes(int64(buf.Len()))),
		slog.String("took", util.FormatDuration(time.Since(start))),
	)

	return &service.UploadResult{
		URL: u.publicBaseURL + "/" + key,
		Key: key,
	}, nil
}

// checkDimensions reads only the image header so oversized images are rejected before any pixel buffer is allocated.
func (u *blobUploader) checkDimensions(localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domainerrors.ErrUnsupportedMedia.WithDetails("cannot read image header")
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(u.maxPixels) {
		return domainerrors.ErrUnsupportedMedia.WithDetails(fmt.Sprintf("image %dx%d exceeds %d pixels", cfg.Width, cfg.Height, u.maxPixels))
	}

	return nil
}

func (u *blobUploader) removeLocal(localPath string) {
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		u.logger.Warn("Failed to remove staged upload",
			slog.String("path", localPath),
			slog.Any("error", err),
		)
	}
}
