package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures the S3-compatible backend. Endpoint is optional;
// when set the client uses path-style addressing, which hosted
// S3-compatible stores require.
type S3Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// S3Store stores blobs in an S3-compatible bucket.
type S3Store struct {
	bucket    string
	publicURL string
	client    *s3.Client
	uploader  *manager.Uploader
}

// NewS3Store builds a long-lived S3 client from static credentials. The
// client is created once at process start and reused for the process
// lifetime.
func NewS3Store(opts S3Options) (*S3Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(opts.Region) == "" {
		return nil, fmt.Errorf("s3 region is required")
	}

	clientOpts := []func(*s3.Options){}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		})
	}

	awsCfg := aws.Config{
		Region: opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		),
	}
	client := s3.NewFromConfig(awsCfg, clientOpts...)

	return &S3Store{
		bucket:    opts.Bucket,
		publicURL: strings.TrimRight(strings.TrimSpace(publicBaseURL(opts)), "/"),
		client:    client,
		uploader:  manager.NewUploader(client),
	}, nil
}

// Put uploads the blob at key using the multipart-capable uploader.
func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return fmt.Errorf("reader is required")
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// Open streams the blob at key.
func (s *S3Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return out.Body, nil
}

// Probe issues a HeadObject and classifies the outcome. Only the typed
// NotFound response counts as absence; any other failure (throttling,
// auth, network, timeout) is ambiguous.
func (s *S3Store) Probe(ctx context.Context, key string) (ProbeResult, error) {
	if s == nil {
		return ProbeAmbiguous, fmt.Errorf("blob store is not configured")
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return classifyProbeError(err)
}

// Delete removes the blob at key. S3 DeleteObject succeeds on missing
// keys, which gives the idempotent-delete contract for free.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PublicURL derives the retrieval URL for key without any network call.
func (s *S3Store) PublicURL(key string) string {
	if s == nil || s.publicURL == "" {
		return ""
	}
	parts := strings.Split(key, "/")
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return s.publicURL + "/" + strings.Join(escaped, "/")
}

func classifyProbeError(err error) (ProbeResult, error) {
	if err == nil {
		return ProbeExists, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return ProbeNotFound, nil
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return ProbeNotFound, nil
	}
	return ProbeAmbiguous, err
}

func publicBaseURL(opts S3Options) string {
	if opts.PublicBaseURL != "" {
		return opts.PublicBaseURL
	}
	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}
