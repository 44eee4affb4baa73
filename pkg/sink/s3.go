package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/df07/go-raycaster/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// S3Config holds the connection settings of an S3-compatible bucket
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix prepended to every name
}

// S3ConfigFromEnv reads S3_ENDPOINT, S3_REGION, S3_BUCKET, S3_ACCESS_KEY,
// S3_SECRET_KEY and S3_PREFIX
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
		Bucket:    os.Getenv("S3_BUCKET"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Prefix:    os.Getenv("S3_PREFIX"),
	}
}

// Validate reports missing settings
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("S3 bucket not set: %w", core.ErrInvalidConfig)
	}
	if c.Region == "" {
		return fmt.Errorf("S3 region not set: %w", core.ErrInvalidConfig)
	}
	return nil
}

type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Sink uploads PNG images to a bucket
type S3Sink struct {
	config S3Config
	client objectPutter
	logger core.Logger
}

// NewS3Sink opens a session against the configured endpoint
func NewS3Sink(config S3Config, logger core.Logger) (*S3Sink, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return newS3Sink(config, s3.New(sess), logger), nil
}

func newS3Sink(config S3Config, client objectPutter, logger core.Logger) *S3Sink {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &S3Sink{config: config, client: client, logger: logger}
}

// Key returns the object key name is stored under
func (s *S3Sink) Key(name string) string {
	return path.Join(s.config.Prefix, name)
}

// Write encodes img as PNG and uploads it
func (s *S3Sink) Write(ctx context.Context, name string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := s.Key(name)
	size := int64(len(data))
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, s.config.Bucket, size)
	return nil
}
