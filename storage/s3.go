package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config holds explicit construction parameters. Credentials come from the
// default AWS chain (AWS_ACCESS_KEY_ID etc.).
type S3Config struct {
	Region    string
	Bucket    string
	Prefix    string
	Endpoint  string // optional; set for MinIO
	PathStyle bool
}

// S3Slot stores each key as one JSON object in a single bucket.
type S3Slot struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Slot creates an S3 slot from cfg.
func NewS3Slot(ctx context.Context, cfg S3Config) (*S3Slot, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3SlotWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3SlotWithClient wraps an already configured client.
func NewS3SlotWithClient(client *s3.Client, bucket, prefix string) *S3Slot {
	return &S3Slot{client: client, bucket: bucket, prefix: strings.TrimPrefix(prefix, "/")}
}

func (s *S3Slot) Driver() Driver { return DriverS3 }

func (s *S3Slot) objectKey(key string) string { return s.prefix + key + ".json" }

func (s *S3Slot) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

func (s *S3Slot) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
