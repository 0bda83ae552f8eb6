package watermark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/domain"
	"watermark-service/internal/http-server/handler/watermark/dto"
	"watermark-service/internal/repository/object"
	watermark_uc "watermark-service/internal/usecase/watermark"
	wm "watermark-service/internal/watermark"
)

const (
	maxMemory = 32 << 20
)

type WatermarkHandler struct {
	usecase  watermarkUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewWatermarkHandler(usecase watermarkUsecase, logger *zlog.Zerolog) *WatermarkHandler {
	return &WatermarkHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate handles one object-transformation event: the image behind
// the presigned URL is watermarked and written back to the output
// route, and the caller receives a JSON status.
func (h *WatermarkHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode generate request")
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Warn().Err(err).Msg("Generate request failed validation")
		h.respondError(w, http.StatusBadRequest, "Missing required object context fields", nil)
		return
	}

	h.logger.Info().Str("input_url", req.GetObjectContext.InputS3URL).Msg("Received watermarking request")

	res, err := h.usecase.ProcessObject(ctx, domain.ObjectRequest{
		InputURL:    req.GetObjectContext.InputS3URL,
		OutputRoute: req.GetObjectContext.OutputRoute,
		OutputToken: req.GetObjectContext.OutputToken,
		RequestURL:  req.UserRequest.URL,
	})
	if err != nil {
		h.handleProcessError(w, err, req.GetObjectContext.InputS3URL)
		return
	}

	message := "Image successfully watermarked"
	if res.Status == domain.StatusPassed {
		message = "Empty watermark text, image passed through"
	}

	h.respondJSON(w, http.StatusOK, dto.GenerateResponse{
		Status:    "success",
		Message:   message,
		ID:        res.ID,
		ArchiveID: archiveID(res.ArchivePath),
	})
}

// Watermark handles a direct multipart upload and responds with the
// watermarked JPEG bytes.
func (h *WatermarkHandler) Watermark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, domain.DefaultMaxUploadSize)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn().Err(err).Msg("File not found in request")
		h.respondError(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	if err := h.validateFile(handler); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", handler.Filename).Msg("Failed to read file")
		h.respondError(w, http.StatusInternalServerError, "Failed to read file", err)
		return
	}

	text := domain.DefaultWatermarkText
	if r.Form.Has("text") {
		text = r.Form.Get("text")
	}

	res, err := h.usecase.Apply(ctx, "upload", data, text)
	if err != nil {
		h.handleProcessError(w, err, handler.Filename)
		return
	}

	h.logger.Info().
		Str("id", res.ID).
		Str("filename", handler.Filename).
		Str("status", string(res.Status)).
		Msg("Image watermarked")

	w.Header().Set("Content-Type", domain.ContentTypeJPEG)
	w.Header().Set("X-Image-Id", res.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Output); err != nil {
		h.logger.Error().Err(err).Str("id", res.ID).Msg("Failed to write image response")
	}
}

// GetArchive streams one previously processed image from the archive.
func (h *WatermarkHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Archive ID is required", nil)
		return
	}

	reader, err := h.usecase.GetArchive(ctx, id)
	if err != nil {
		h.handleArchiveError(w, err, id)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", domain.ContentTypeJPEG)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s.jpg\"", id))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error().Err(err).Str("archive_id", id).Msg("Failed to stream archived image")
	}
}

func (h *WatermarkHandler) validateFile(handler *multipart.FileHeader) error {
	if handler.Size > domain.DefaultMaxUploadSize {
		return fmt.Errorf("File is too large (max %d MB)", domain.DefaultMaxUploadSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !h.isValidExtension(ext) {
		return fmt.Errorf("Unsupported file format. Allowed: jpg, jpeg, png, gif, webp, bmp, tiff")
	}

	contentType := handler.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("File must be an image")
	}

	return nil
}

func (h *WatermarkHandler) isValidExtension(ext string) bool {
	allowed := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
		".bmp":  true,
		".tiff": true,
	}
	return allowed[ext]
}

func (h *WatermarkHandler) handleProcessError(w http.ResponseWriter, err error, source string) {
	switch {
	case errors.Is(err, wm.ErrDecode):
		h.logger.Warn().Err(err).Str("source", source).Msg("Unsupported or corrupt image")
		h.respondError(w, http.StatusBadRequest, "Unsupported or corrupt image", nil)
	case errors.Is(err, wm.ErrFont):
		h.logger.Error().Err(err).Msg("Font resource unavailable")
		h.respondError(w, http.StatusInternalServerError, "Font resource unavailable", nil)
	case errors.Is(err, wm.ErrEncode):
		h.logger.Error().Err(err).Str("source", source).Msg("Failed to encode image")
		h.respondError(w, http.StatusInternalServerError, "Failed to encode image", nil)
	case errors.Is(err, object.ErrObjectNotFound):
		h.logger.Info().Str("source", source).Msg("Source object not found")
		h.respondError(w, http.StatusNotFound, "Source object not found", nil)
	case errors.Is(err, object.ErrDownloadFailed):
		h.logger.Error().Err(err).Str("source", source).Msg("Failed to download source image")
		h.respondError(w, http.StatusBadGateway, "Failed to download source image", err)
	case errors.Is(err, object.ErrUploadFailed):
		h.logger.Error().Err(err).Str("source", source).Msg("Failed to deliver processed image")
		h.respondError(w, http.StatusBadGateway, "Failed to deliver processed image", err)
	default:
		h.logger.Error().Err(err).Str("source", source).Msg("Processing failed")
		h.respondError(w, http.StatusInternalServerError, "Processing failed", err)
	}
}

func (h *WatermarkHandler) handleArchiveError(w http.ResponseWriter, err error, id string) {
	switch {
	case errors.Is(err, watermark_uc.ErrArchiveNotFound), errors.Is(err, watermark_uc.ErrArchiveDisabled):
		h.respondError(w, http.StatusNotFound, "Archived image not found", nil)
	default:
		h.logger.Error().Err(err).Str("archive_id", id).Msg("Failed to get archived image")
		h.respondError(w, http.StatusInternalServerError, "Failed to get archived image", err)
	}
}

func archiveID(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(path), ".jpg")
}

func (h *WatermarkHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Interface("data", data).Msg("Failed to encode response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *WatermarkHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
