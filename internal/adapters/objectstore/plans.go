// Package objectstore keeps rendered plan documents in an S3-compatible
// bucket for the report generator.
package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"bizready/internal/domain"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// PlanStore implements ports.PlanStore on MinIO.
type PlanStore struct {
	client *minio.Client
	bucket string
}

func New(cfg Config) (*PlanStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("objectstore: bucket is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: %w", err)
	}
	return &PlanStore{client: client, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *PlanStore) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *PlanStore) PutPlan(ctx context.Context, plan domain.Plan, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, ObjectKey(plan), bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

// ObjectKey is plans/<business type>/<as of>/<assessment id>.json.
func ObjectKey(plan domain.Plan) string {
	return fmt.Sprintf("plans/%s/%s/%s.json", plan.BusinessTypeID, plan.AsOf, plan.ID)
}
