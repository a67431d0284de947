package minio_storage

import (
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// CourseMediaStorage resolves protected course content (videos, PDFs) stored
// as objects into short-lived presigned GET URLs. Upload of these objects
// happens in the CRUD surface outside this engine.
type CourseMediaStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCourseMediaStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CourseMediaStorage, error) {
	exists, err := storage.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = storage.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &CourseMediaStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func (s *CourseMediaStorage) GetMediaURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	u, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
