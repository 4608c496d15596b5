package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"vidhub/config"
	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// fileStager copies multipart files into the media temp directory.
type fileStager struct {
	dir     string
	maxSize int64
}

func newFileStager(cfg config.MediaConfig) *fileStager {
	return &fileStager{
		dir:     cfg.TempDir,
		maxSize: cfg.MaxFileSize,
	}
}

// stage saves the single file sent under field and returns its local path.
// It returns an empty path when the field is absent.
func (s *fileStager) stage(c echo.Context, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}

		return "", errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("malformed multipart body"), err.Error())
	}

	if form := c.Request().MultipartForm; form != nil && len(form.File[field]) > 1 {
		return "", domainerrors.ErrValidationFailed.WithDetails("only one " + field + " file is allowed")
	}
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", domainerrors.ErrFileTooLarge.WithDetails(field + " exceeds the upload limit")
	}

	src, err := header.Open()
	if err != nil {
		return "", errors.Wrapf(err, "open uploaded %s", field)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", errors.Wrap(err, "create media temp dir")
	}

	path := filepath.Join(s.dir, uuid.NewString()+safeExt(header.Filename))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", errors.Wrap(err, "create staged file")
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)

		return "", errors.Wrapf(err, "stage %s", field)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)

		return "", errors.Wrapf(err, "stage %s", field)
	}

	return path, nil
}

// discard removes staged files the usecase did not consume.
func discard(paths ...string) {
	for _, path := range paths {
		if path != "" {
			_ = os.Remove(path)
		}
	}
}

func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}

	return ext
}
