package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	domainerrors "vidhub/internal/domain/errors"
	"vidhub/internal/domain/service"
)

// Uploader is a fake MediaUploader. Like the real one it removes the local file.
type Uploader struct {
	mu       sync.Mutex
	BaseURL  string
	Failures map[string]error // keyed by file base name
	Uploaded []string         // base names in upload order
}

var _ service.MediaUploader = (*Uploader)(nil)

// NewUploader returns an uploader serving files from baseURL.
func NewUploader(baseURL string) *Uploader {
	return &Uploader{
		BaseURL:  baseURL,
		Failures: make(map[string]error),
	}
}

// FailOn makes uploads of files named name fail with err.
func (u *Uploader) FailOn(name string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Failures[name] = err
}

// Calls returns the base names uploaded so far.
func (u *Uploader) Calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]string(nil), u.Uploaded...)
}

func (u *Uploader) Upload(_ context.Context, localPath string) (*service.UploadResult, error) {
	defer os.Remove(localPath)

	name := filepath.Base(localPath)

	u.mu.Lock()
	defer u.mu.Unlock()

	if err, ok := u.Failures[name]; ok {
		return nil, err
	}
	if _, err := os.Stat(localPath); err != nil {
		return nil, domainerrors.ErrMediaUploadFailed.WrapMessage(err.Error())
	}

	u.Uploaded = append(u.Uploaded, name)

	return &service.UploadResult{
		URL: u.BaseURL + "/" + name,
		Key: name,
	}, nil
}

// StageFile writes content into dir under name and returns the path.
func StageFile(dir, name string, content []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return "", err
	}

	return path, nil
}
