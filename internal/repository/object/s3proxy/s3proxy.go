// Package s3proxy talks to the object-store proxy the service sits
// behind: it fetches source images through presigned URLs and hands
// transformed bytes back via the write-response callback route.
package s3proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/config"
	"watermark-service/internal/domain"
	"watermark-service/internal/repository/object"
)

type Client struct {
	http    *http.Client
	baseURL string
	logger  *zlog.Zerolog
}

func NewClient(cfg *config.Config, logger *zlog.Zerolog) *Client {
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: cfg.HTTP.ConnectTimeout}).DialContext,
		MaxIdleConns:        cfg.HTTP.PoolMaxIdle,
		MaxIdleConnsPerHost: cfg.HTTP.PoolMaxIdle,
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.HTTP.RequestTimeout,
		},
		baseURL: strings.TrimSuffix(cfg.HTTP.OutputBaseURL, "/"),
		logger:  logger,
	}
}

// Download fetches the object behind a presigned URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", object.ErrDownloadFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", object.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, object.ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", object.ErrDownloadFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", object.ErrDownloadFailed, err)
	}

	return data, nil
}

// WriteResponse posts the processed object back to the caller-supplied
// route, authenticated by the request token.
func (c *Client) WriteResponse(ctx context.Context, route, token string, data []byte) error {
	url := c.baseURL + "/" + strings.TrimPrefix(route, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", object.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", domain.ContentTypeJPEG)
	req.Header.Set("x-amz-request-route", route)
	req.Header.Set("x-amz-request-token", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", object.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %s", object.ErrUploadFailed, resp.Status)
	}

	c.logger.Debug().Str("route", route).Int("size", len(data)).Msg("Processed object written back")
	return nil
}
