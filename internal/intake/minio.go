package intake

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"legado/internal/platform/config"
)

// ObjectStore persists uploads in S3-compatible object storage.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the configured endpoint and verifies the bucket
// exists.
func NewObjectStore(ctx context.Context, cfg config.S3Config) (*ObjectStore, error) {
	endpoint, secure, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", cfg.Bucket)
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *ObjectStore) Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error) {
	key := objectKey(nowFromContext(ctx), originalName)

	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &StoredFile{
		Path:         s.bucket + "/" + key,
		OriginalName: filepath.Base(originalName),
		Size:         info.Size,
	}, nil
}

// normalizeEndpoint accepts "minio:9000" or "http(s)://minio:9000".
func normalizeEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty object storage endpoint")
	}
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid object storage endpoint")
		}
		return u.Host, u.Scheme == "https", nil
	}
	return raw, false, nil
}
