package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DocumentService stores tenant KYC documents (ID proofs, agreements)
// in object storage, keyed by hostel and tenant.
type DocumentService interface {
	Upload(ctx context.Context, hostelID, tenantID uuid.UUID, name, contentType string, reader io.Reader, size int64) (string, error)
	GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	EnsureBucketExists(ctx context.Context) error
}

type documentService struct {
	client *minio.Client
	bucket string
}

func NewDocumentService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (DocumentService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &documentService{client: client, bucket: bucket}, nil
}

func (d *documentService) Upload(ctx context.Context, hostelID, tenantID uuid.UUID, name, contentType string, reader io.Reader, size int64) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := fmt.Sprintf("%s/%s/%s", hostelID.String(), tenantID.String(), name)
	_, err := d.client.PutObject(ctx, d.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (d *documentService) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := d.client.PresignedGetObject(ctx, d.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (d *documentService) Delete(ctx context.Context, objectName string) error {
	return d.client.RemoveObject(ctx, d.bucket, objectName, minio.RemoveObjectOptions{})
}

func (d *documentService) EnsureBucketExists(ctx context.Context) error {
	found, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return err
	}
	if !found {
		return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{})
	}
	return nil
}
