package watermark

import (
	"context"
	"io"

	"watermark-service/internal/domain"
	watermark_uc "watermark-service/internal/usecase/watermark"
)

type watermarkUsecase interface {
	ProcessObject(ctx context.Context, req domain.ObjectRequest) (*watermark_uc.Result, error)
	Apply(ctx context.Context, source string, data []byte, text string) (*watermark_uc.Result, error)
	GetArchive(ctx context.Context, id string) (io.ReadCloser, error)
}
