package watermark

import (
	"context"
	"io"

	"github.com/wb-go/wbf/retry"

	"watermark-service/internal/domain"
)

type objectProxy interface {
	Download(ctx context.Context, url string) ([]byte, error)
	WriteResponse(ctx context.Context, route, token string, data []byte) error
}

// FileRepository archives processed images. Optional collaborator.
type FileRepository interface {
	SaveProcessed(ctx context.Context, path string, data io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)
}

// EventProducer publishes processing events. Optional collaborator.
type EventProducer interface {
	SendEvent(ctx context.Context, strategy retry.Strategy, event *domain.ProcessedEvent) error
}
