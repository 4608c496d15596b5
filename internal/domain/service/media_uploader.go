package service

import "context"

// UploadResult describes a stored media object.
type UploadResult struct {
	URL string // Public URL of the object
	Key string // Object key within the bucket
}

// MediaUploader stores a locally staged file and returns where it can be fetched.
// The local file is removed once the attempt has finished, whatever the outcome.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
}
