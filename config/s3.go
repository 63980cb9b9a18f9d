package config

import (
	"fmt"
)

type S3Config struct {
	BucketName string
	Region     string
	Endpoint   string
}

func GetS3Config(src *Source) (*S3Config, error) {
	bucketName := src.Get("BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("BUCKET_NAME must be set")
	}

	region := src.Get("REGION")
	if region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	return &S3Config{
		BucketName: bucketName,
		Region:     region,
		Endpoint:   src.Get("S3_ENDPOINT"),
	}, nil
}
