package watermark

import "errors"

var (
	ErrArchiveDisabled = errors.New("archive storage is disabled")
	ErrArchiveNotFound = errors.New("archived image not found")
)
