package object

import "errors"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrDownloadFailed = errors.New("failed to download object")
	ErrUploadFailed   = errors.New("failed to upload object")
	ErrStorageError   = errors.New("storage error")
)
