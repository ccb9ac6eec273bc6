package s3backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// Archiver copies raw webhook payloads to an S3 bucket for auditing.
// The database rows keep the payload too, the bucket is the off-site copy.
type Archiver struct {
	s3Client *s3.Client
	config   *Config
}

// NewArchiver creates an archiver from an already validated config.
func NewArchiver(cfg *Config) (*Archiver, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 archive is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// Backblaze B2 specific settings
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	log.Infof("[S3Archive] Initialized S3 client for bucket: %s", cfg.GetBucketName())
	return &Archiver{
		s3Client: s3Client,
		config:   cfg,
	}, nil
}

// NewArchiverFromEnv builds an archiver from environment configuration.
// Returns (nil, nil) when S3_BACKUP_ENABLED is not set, callers treat a
// nil archiver as "archiving off".
func NewArchiverFromEnv() (*Archiver, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.IsEnabled() {
		return nil, nil
	}
	return NewArchiver(cfg)
}

// Archive uploads one payload under a date-partitioned key derived from the id.
func (a *Archiver) Archive(ctx context.Context, id string, receivedAt time.Time, payload []byte) error {
	key := a.config.GetObjectKey(id, receivedAt)
	_, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.GetBucketName()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Debugf("[S3Archive] Stored payload at %s", key)
	return nil
}
