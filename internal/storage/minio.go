package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sebbdxia/OCR-developpement-interface/internal/models"
)

// ObjectStore lists and downloads invoice scans from a MinIO/S3-compatible
// bucket. It also accepts uploads so local scans can be pushed into the
// container the pipeline reads from.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the configured endpoint and verifies the bucket
// exists before returning.
func NewObjectStore(cfg models.StorageConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// List enumerates scan objects in the bucket, skipping anything that does not
// look like an invoice scan.
func (s *ObjectStore) List(ctx context.Context) ([]Item, error) {
	var items []Item
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, obj.Err)
		}
		if !IsScanFile(obj.Key) {
			continue
		}
		items = append(items, Item{
			Name: obj.Key,
			URL:  fmt.Sprintf("%s/%s", s.bucket, obj.Key),
		})
	}
	return items, nil
}

// Fetch downloads one object in full.
func (s *ObjectStore) Fetch(ctx context.Context, item Item) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, item.Name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", item.Name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", item.Name, err)
	}
	return data, nil
}

// Upload stores a new scan in the bucket and returns its bucket-relative
// path. Content type is derived from the file name.
func (s *ObjectStore) Upload(ctx context.Context, name string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: ContentTypeForFile(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return fmt.Sprintf("%s/%s", s.bucket, name), nil
}
