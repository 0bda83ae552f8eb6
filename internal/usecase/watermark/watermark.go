package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/domain"
	"watermark-service/internal/repository/object"
	wm "watermark-service/internal/watermark"
)

// Result is one finished processing attempt.
type Result struct {
	ID          string
	Output      []byte
	ArchivePath string
	Status      domain.ProcessStatus
}

type WatermarkUsecase struct {
	engine   *wm.Engine
	proxy    objectProxy
	archive  FileRepository
	producer EventProducer
	logger   *zlog.Zerolog
	retries  retry.Strategy
}

// NewWatermarkUsecase wires the engine and its collaborators. archive
// and producer may be nil; archiving and event publishing are then
// skipped.
func NewWatermarkUsecase(engine *wm.Engine, proxy objectProxy, archive FileRepository, producer EventProducer, logger *zlog.Zerolog, retries retry.Strategy) *WatermarkUsecase {
	return &WatermarkUsecase{
		engine:   engine,
		proxy:    proxy,
		archive:  archive,
		producer: producer,
		logger:   logger,
		retries:  retries,
	}
}

// ProcessObject runs the full object-transformation flow: download the
// source through its presigned URL, watermark it, and hand the bytes
// back through the write-response route.
func (u *WatermarkUsecase) ProcessObject(ctx context.Context, req domain.ObjectRequest) (*Result, error) {
	text := watermarkText(req.RequestURL)

	data, err := u.proxy.Download(ctx, req.InputURL)
	if err != nil {
		u.logger.Error().Err(err).Str("url", req.InputURL).Msg("Failed to download source image")
		return nil, err
	}

	res, err := u.Apply(ctx, "s3-object", data, text)
	if err != nil {
		return nil, err
	}

	if err := u.proxy.WriteResponse(ctx, req.OutputRoute, req.OutputToken, res.Output); err != nil {
		u.logger.Error().Err(err).Str("route", req.OutputRoute).Msg("Failed to write processed object back")
		return nil, err
	}

	u.logger.Info().
		Str("id", res.ID).
		Str("route", req.OutputRoute).
		Int("size", len(res.Output)).
		Msg("Object processed")

	return res, nil
}

// Apply watermarks one image held in memory. Empty text passes the
// input through unchanged; otherwise the result is JPEG. The processed
// image is archived and an event published, both best-effort.
func (u *WatermarkUsecase) Apply(ctx context.Context, source string, data []byte, text string) (*Result, error) {
	id := uuid.New().String()

	out, err := u.engine.Apply(data, text)
	if err != nil {
		u.publishEvent(ctx, &domain.ProcessedEvent{
			ID:         id,
			Source:     source,
			Text:       text,
			InputBytes: len(data),
			Status:     domain.StatusFailed,
			Error:      err.Error(),
			CreatedAt:  time.Now(),
		})
		return nil, err
	}

	res := &Result{ID: id, Output: out, Status: domain.StatusCompleted}
	if text == "" {
		res.Status = domain.StatusPassed
	}

	if res.Status == domain.StatusCompleted && u.archive != nil {
		path := domain.PathPrefixProcessed + id + ".jpg"
		if err := u.archive.SaveProcessed(ctx, path, bytes.NewReader(out), int64(len(out)), domain.ContentTypeJPEG); err != nil {
			u.logger.Error().Err(err).Str("path", path).Msg("Failed to archive processed image")
		} else {
			res.ArchivePath = path
		}
	}

	width, height := imageSize(data)
	u.publishEvent(ctx, &domain.ProcessedEvent{
		ID:          id,
		Source:      source,
		Text:        text,
		Width:       width,
		Height:      height,
		InputBytes:  len(data),
		OutputBytes: len(out),
		ArchivePath: res.ArchivePath,
		Status:      res.Status,
		CreatedAt:   time.Now(),
	})

	return res, nil
}

// GetArchive streams one archived processed image by its id.
func (u *WatermarkUsecase) GetArchive(ctx context.Context, id string) (io.ReadCloser, error) {
	if u.archive == nil {
		return nil, ErrArchiveDisabled
	}

	reader, err := u.archive.GetObject(ctx, domain.PathPrefixProcessed+id+".jpg")
	if err != nil {
		if errors.Is(err, object.ErrObjectNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to get archived image: %w", err)
	}

	return reader, nil
}

func (u *WatermarkUsecase) publishEvent(ctx context.Context, event *domain.ProcessedEvent) {
	if u.producer == nil {
		return
	}
	if err := u.producer.SendEvent(ctx, u.retries, event); err != nil {
		u.logger.Error().Err(err).Str("id", event.ID).Msg("Failed to publish processing event")
	}
}

// watermarkText extracts the text from the user request URL. A missing
// parameter selects the default text; a present but empty value means
// "no watermark" and passes the image through.
func watermarkText(requestURL string) string {
	parsed, err := url.Parse(requestURL)
	if err != nil {
		return domain.DefaultWatermarkText
	}

	params := parsed.Query()
	if !params.Has(domain.ParamUserCode) {
		return domain.DefaultWatermarkText
	}
	return params.Get(domain.ParamUserCode)
}

func imageSize(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
