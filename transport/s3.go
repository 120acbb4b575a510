package transport

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/models"
)

// S3Sink archives catalog artifacts to a bucket alongside (or instead of)
// the SFTP drop. Keys mirror the output layout.
type S3Sink struct {
	client *s3.Client
	bucket string
	log    *zap.SugaredLogger
}

// NewS3Sink builds a sink from the default AWS credential chain.
func NewS3Sink(ctx context.Context, region, bucket string, log *zap.SugaredLogger) (*S3Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &S3Sink{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		log:    log,
	}, nil
}

// UploadArtifacts puts each file under <country>/<brand>-<country>/.
func (s *S3Sink) UploadArtifacts(ctx context.Context, store models.StoreInfo, paths []string) error {
	prefix := catalog.StorePrefix(store)

	for _, localPath := range paths {
		key := path.Join(prefix, filepath.Base(localPath))
		if err := s.putFile(ctx, localPath, key); err != nil {
			return err
		}
		s.log.Infow("archived to s3", "bucket", s.bucket, "key", key)
	}
	return nil
}

func (s *S3Sink) putFile(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	contentType := "application/json"
	switch filepath.Ext(localPath) {
	case ".gz":
		contentType = "application/gzip"
	case ".jsonl":
		contentType = "application/x-ndjson"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	return nil
}
