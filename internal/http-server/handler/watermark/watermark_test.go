package watermark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/domain"
	"watermark-service/internal/http-server/handler/watermark/dto"
	watermark_uc "watermark-service/internal/usecase/watermark"
	wm "watermark-service/internal/watermark"
)

type fakeUsecase struct {
	processErr error
	applyErr   error
	lastReq    domain.ObjectRequest
	lastText   string
}

func (f *fakeUsecase) ProcessObject(ctx context.Context, req domain.ObjectRequest) (*watermark_uc.Result, error) {
	f.lastReq = req
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &watermark_uc.Result{
		ID:          "id-1",
		Output:      []byte("jpeg-bytes"),
		ArchivePath: domain.PathPrefixProcessed + "id-1.jpg",
		Status:      domain.StatusCompleted,
	}, nil
}

func (f *fakeUsecase) Apply(ctx context.Context, source string, data []byte, text string) (*watermark_uc.Result, error) {
	f.lastText = text
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &watermark_uc.Result{ID: "id-2", Output: []byte("jpeg-bytes"), Status: domain.StatusCompleted}, nil
}

func (f *fakeUsecase) GetArchive(ctx context.Context, id string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader([]byte("archived"))), nil
}

func generateBody(t *testing.T) string {
	t.Helper()
	req := dto.GenerateRequest{
		GetObjectContext: dto.ObjectContext{
			InputS3URL:  "https://s3.example/presigned",
			OutputRoute: "route-1",
			OutputToken: "token-1",
		},
		ProtocolVersion: "1.0",
		UserRequest: dto.UserRequest{
			URL: "https://bucket/photo.jpg?usercode=abc",
		},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGenerate(t *testing.T) {
	uc := &fakeUsecase{}
	h := NewWatermarkHandler(uc, &zlog.Logger)

	r := httptest.NewRequest(http.MethodPost, "/generate/", strings.NewReader(generateBody(t)))
	w := httptest.NewRecorder()

	h.Generate(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp dto.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %s, want success", resp.Status)
	}
	if resp.ArchiveID != "id-1" {
		t.Errorf("archive id = %s, want id-1", resp.ArchiveID)
	}

	if uc.lastReq.InputURL != "https://s3.example/presigned" {
		t.Errorf("input url = %s", uc.lastReq.InputURL)
	}
	if uc.lastReq.RequestURL != "https://bucket/photo.jpg?usercode=abc" {
		t.Errorf("request url = %s", uc.lastReq.RequestURL)
	}
}

func TestGenerateMissingContext(t *testing.T) {
	h := NewWatermarkHandler(&fakeUsecase{}, &zlog.Logger)

	body := `{"getObjectContext":{"inputS3Url":"https://s3/x"}}`
	r := httptest.NewRequest(http.MethodPost, "/generate/", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Generate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	h := NewWatermarkHandler(&fakeUsecase{}, &zlog.Logger)

	r := httptest.NewRequest(http.MethodPost, "/generate/", strings.NewReader("{broken"))
	w := httptest.NewRecorder()

	h.Generate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateDecodeErrorMapsToBadRequest(t *testing.T) {
	uc := &fakeUsecase{processErr: wm.ErrDecode}
	h := NewWatermarkHandler(uc, &zlog.Logger)

	r := httptest.NewRequest(http.MethodPost, "/generate/", strings.NewReader(generateBody(t)))
	w := httptest.NewRecorder()

	h.Generate(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenerateFontErrorMapsToInternal(t *testing.T) {
	uc := &fakeUsecase{processErr: wm.ErrFont}
	h := NewWatermarkHandler(uc, &zlog.Logger)

	r := httptest.NewRequest(http.MethodPost, "/generate/", strings.NewReader(generateBody(t)))
	w := httptest.NewRecorder()

	h.Generate(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func multipartBody(t *testing.T, filename, text string) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatal(err)
	}
	if text != "" {
		if err := mw.WriteField("text", text); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, mw.FormDataContentType()
}

func TestWatermarkUpload(t *testing.T) {
	uc := &fakeUsecase{}
	h := NewWatermarkHandler(uc, &zlog.Logger)

	body, contentType := multipartBody(t, "photo.jpg", "hello")
	r := httptest.NewRequest(http.MethodPost, "/api/watermark", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Watermark(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != domain.ContentTypeJPEG {
		t.Errorf("content type = %s, want image/jpeg", got)
	}
	if uc.lastText != "hello" {
		t.Errorf("text = %q, want hello", uc.lastText)
	}
}

func TestWatermarkUploadRejectsUnknownExtension(t *testing.T) {
	h := NewWatermarkHandler(&fakeUsecase{}, &zlog.Logger)

	body, contentType := multipartBody(t, "notes.txt", "")
	r := httptest.NewRequest(http.MethodPost, "/api/watermark", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	h.Watermark(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
