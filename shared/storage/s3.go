package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds S3 settings for storing uploaded profile photos. It is parsed
// from the environment as part of the application configuration.
type Config struct {
	Endpoint     string `env:"S3_ENDPOINT"`
	Region       string `env:"AWS_REGION"`
	Bucket       string `env:"S3_BUCKET_NAME"`
	AccessKey    string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	// PublicBaseURL is the prefix of publicly reachable object URLs. When
	// empty, the standard virtual-hosted AWS URL is used.
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// Validate checks that the required S3 settings are present.
func (c Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("missing AWS_REGION environment variable")
	}
	if c.Bucket == "" {
		return fmt.Errorf("missing S3_BUCKET_NAME environment variable")
	}
	return nil
}

// Uploader stores binary objects in an S3 bucket and hands back their public
// URL. The rest of the application only ever persists the URL.
type Uploader struct {
	client *s3.Client
	config Config
}

// NewUploader creates an S3-backed Uploader from the given configuration.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Uploader{
		client: client,
		config: cfg,
	}, nil
}

// Upload stores the object under the given key and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return u.objectURL(key), nil
}

func (u *Uploader) objectURL(key string) string {
	if u.config.PublicBaseURL != "" {
		return strings.TrimSuffix(u.config.PublicBaseURL, "/") + "/" + key
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.config.Bucket, u.config.Region, key)
}
