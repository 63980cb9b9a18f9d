package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/domain"
)

type s3AudioStore struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3AudioStore(s3Svc s3iface.S3API, s3Config *config.S3Config, logger outbound.LoggerPort) outbound.AudioStorePort {
	return &s3AudioStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3AudioStore) Save(ctx context.Context, runID string, audio []byte) (string, error) {
	itemPath := s.getS3ItemPath(runID)

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          bytes.NewReader(audio),
		ContentLength: aws.Int64(int64(len(audio))),
		ContentType:   aws.String(domain.AudioContentType),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload audio to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    itemPath,
		})
		return "", err
	}

	s.logger.DebugWithFields("Successfully uploaded audio to S3", map[string]interface{}{
		"bucket": s.s3Config.BucketName,
		"key":    itemPath,
	})

	return itemPath, nil
}

func (s *s3AudioStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(location),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to fetch audio from S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    location,
		})
		return nil, err
	}
	return out.Body, nil
}

func (s *s3AudioStore) Remove(ctx context.Context, location string) error {
	_, err := s.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(location),
	})
	return err
}

func (s *s3AudioStore) getS3ItemPath(runID string) string {
	return fmt.Sprintf("audio/%s%s", runID, audioFileExtension)
}
