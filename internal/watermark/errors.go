package watermark

import "errors"

var (
	ErrDecode = errors.New("failed to decode image")
	ErrFont   = errors.New("font resource unavailable")
	ErrEncode = errors.New("failed to encode image")
)
