package domain

import "time"

// ObjectRequest is one S3 Object Lambda style processing request: the
// presigned source URL plus the route/token pair used to hand the
// transformed bytes back.
type ObjectRequest struct {
	InputURL    string
	OutputRoute string
	OutputToken string
	RequestURL  string
}

// ProcessedEvent is published after each processing attempt.
type ProcessedEvent struct {
	ID          string        `json:"id"`
	Source      string        `json:"source"`
	Text        string        `json:"text"`
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	InputBytes  int           `json:"input_bytes"`
	OutputBytes int           `json:"output_bytes"`
	ArchivePath string        `json:"archive_path,omitempty"`
	Status      ProcessStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ProcessStatus string

const (
	StatusCompleted ProcessStatus = "completed"
	StatusPassed    ProcessStatus = "passed-through"
	StatusFailed    ProcessStatus = "failed"
)

const (
	// ParamUserCode carries the watermark text in the user request URL.
	ParamUserCode = "usercode"

	DefaultWatermarkText = "WATERMARK"

	DefaultMaxUploadSize = 32 << 20
)

const (
	PathPrefixProcessed = "processed/"
	ContentTypeJPEG     = "image/jpeg"
)
