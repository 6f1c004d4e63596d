// Package objectstore implementa users.ImageStore sobre S3 (o compatible) y
// sobre el filesystem local para desarrollo.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"vetly/internal/domain/users"
	"vetly/internal/platform/httpclient"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket string
	Region string
	// Endpoint para MinIO/LocalStack; activa path-style.
	Endpoint        string
	PublicBaseURL   string
	AccessKeyID     string
	SecretAccessKey string
	// HTTPTimeout cubre el request completo; 0 usa httpclient.DefaultTimeout.
	HTTPTimeout time.Duration
}

type S3 struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

var _ users.ImageStore = (*S3)(nil)

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("objectstore: bucket must not be empty")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}
	// BuildableClient y no *http.Client: el SDK necesita WithTransportOptions
	// para sumar AWS_CA_BUNDLE a los RootCAs.
	opts = append(opts, config.WithHTTPClient(
		awshttp.NewBuildableClient().
			WithTimeout(timeout).
			WithTransportOptions(httpclient.TuneTransport),
	))

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  publicBase(cfg),
	}, nil
}

func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.uploader.Upload(ctx, in); err != nil {
		return "", fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// publicBase: S3_PUBLIC_BASE_URL > endpoint/bucket > virtual-hosted de AWS.
func publicBase(cfg S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}
