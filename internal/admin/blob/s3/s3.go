// Package s3 implements blob.Storage on any S3-compatible object store
// (AWS S3 in production, MinIO locally).
package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // custom endpoint for MinIO-compatible stores
	AccessKey string // static credentials; empty falls back to the default chain
	SecretKey string
	PathStyle bool

	// PublicBaseURL overrides the derived public URL prefix, for stores
	// fronted by a CDN. Empty derives the standard virtual-hosted URL.
	PublicBaseURL string
}

type Client struct {
	client *s3.Client
	cfg    Config
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		// Static credentials (MinIO, or AWS with explicit keys)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		// Default credential chain (IAM roles, env vars, etc.)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
	})

	return &Client{client: client, cfg: cfg}, nil
}

// Upload stores data under key, overwriting any previous object. S3 puts
// are last-writer-wins by key, which gives the QR re-upload its overwrite
// semantics for free.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %q: %w", key, err)
	}
	return nil
}

// PublicURL derives the public URL for a key.
func (c *Client) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(c.cfg.PublicBaseURL, "/") + "/" + key
	}
	if c.cfg.Endpoint != "" {
		return strings.TrimSuffix(c.cfg.Endpoint, "/") + "/" + c.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.cfg.Bucket, c.cfg.Region, key)
}
