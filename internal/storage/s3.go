// Package storage provides media storage using S3-compatible services.
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client wraps the S3 client for media upload and deletion.
type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3Client creates a new S3 client configured for the given endpoint.
// publicURL is the CDN/base URL media is served from; when empty, the
// endpoint itself is used.
func NewS3Client(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) *S3Client {
	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	endpointURL := protocol + "://" + endpoint

	// Create custom resolver for MinIO/S3-compatible endpoints
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpointURL,
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"), // MinIO requires a region
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		log.Fatalf("Failed to load S3 config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true // Required for MinIO
	})

	if publicURL == "" {
		publicURL = fmt.Sprintf("%s/%s", endpointURL, bucket)
	}
	publicURL = strings.TrimRight(publicURL, "/")

	log.Printf("Connected to S3 at %s", endpointURL)

	return &S3Client{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

// Upload stores an object and returns the public URL it is served from.
func (s *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// Delete removes an object by key.
func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// KeyFromURL derives the object key from a public URL returned by Upload.
func (s *S3Client) KeyFromURL(publicURL string) (string, error) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", fmt.Errorf("url %q is not served from this bucket", publicURL)
	}
	key := strings.TrimPrefix(publicURL, prefix)
	if key == "" {
		return "", fmt.Errorf("url %q has no object key", publicURL)
	}
	return key, nil
}
