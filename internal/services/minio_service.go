package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService stores the raw payload of every tree import so a batch can
// be audited or replayed later.
type ArchiveService interface {
	ArchiveImport(ctx context.Context, importID uuid.UUID, filename, contentType string, payload []byte) (string, error)
	EnsureBucketExists(ctx context.Context) error
	CheckBucket(ctx context.Context) error
}

type minioClient struct {
	client *minio.Client
	bucket string
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioClient{client: client, bucket: bucket}, nil
}

// ArchiveObjectName places imports under a date prefix so buckets stay
// browsable.
func ArchiveObjectName(importID uuid.UUID, filename string, at time.Time) string {
	if filename == "" {
		filename = "import.tsv"
	}
	return path.Join("bom-imports", at.UTC().Format("2006/01/02"), fmt.Sprintf("%s-%s", importID, path.Base(filename)))
}

func (m *minioClient) ArchiveImport(ctx context.Context, importID uuid.UUID, filename, contentType string, payload []byte) (string, error) {
	objectName := ArchiveObjectName(importID, filename, time.Now())
	if contentType == "" {
		contentType = "text/tab-separated-values"
	}
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"import-id": importID.String()},
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (m *minioClient) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// CheckBucket fails when the archive bucket is unreachable or missing.
func (m *minioClient) CheckBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
