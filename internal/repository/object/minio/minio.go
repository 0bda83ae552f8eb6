// Package minio stores archived copies of processed images in object
// storage.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"watermark-service/internal/config"
	"watermark-service/internal/repository/object"
)

type FileRepository struct {
	client  *minio.Client
	bucket  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewFileRepository(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	repo := &FileRepository{
		client:  client,
		bucket:  cfg.Minio.Bucket,
		retries: retries,
		logger:  logger,
	}

	if err := repo.ensureBucket(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *FileRepository) ensureBucket() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket: %v", object.ErrStorageError, err)
	}
	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: make bucket: %v", object.ErrStorageError, err)
	}

	r.logger.Info().Str("bucket", r.bucket).Msg("Created archive bucket")
	return nil
}

// SaveProcessed uploads one processed image under the given path.
func (r *FileRepository) SaveProcessed(ctx context.Context, path string, data io.Reader, size int64, contentType string) error {
	// Buffer once so a retried attempt does not see a drained reader.
	buf, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", object.ErrUploadFailed, path, err)
	}

	err = retry.Do(func() error {
		_, err := r.client.PutObject(ctx, r.bucket, path, bytes.NewReader(buf), size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	}, r.retries)
	if err != nil {
		return fmt.Errorf("%w: put %s: %v", object.ErrUploadFailed, path, err)
	}

	return nil
}

// GetObject streams one archived object.
func (r *FileRepository) GetObject(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", object.ErrStorageError, path, err)
	}

	// GetObject is lazy; Stat surfaces missing keys.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, object.ErrObjectNotFound
		}
		return nil, fmt.Errorf("%w: stat %s: %v", object.ErrStorageError, path, err)
	}

	return obj, nil
}
