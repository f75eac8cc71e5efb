package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config points at an S3 compatible object store.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// PublicURL is the base of returned file URLs. When empty it is derived
	// from the endpoint as https://<bucket>.<endpoint host>.
	PublicURL string
}

type Uploader struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewUploader(cfg S3Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("empty bucket")
	}
	awsCfg := &aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create s3 session: %w", err)
	}

	base, err := publicBase(cfg)
	if err != nil {
		return nil, err
	}
	return NewUploaderWithClient(s3.New(sess), cfg.Bucket, base), nil
}

func NewUploaderWithClient(client s3iface.S3API, bucket, publicURL string) *Uploader {
	return &Uploader{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload stores file under folder/fileName as a public object and returns its URL.
func (u *Uploader) Upload(ctx context.Context, file []byte, fileName, folder, contentType string) (string, error) {
	key := path.Join(folder, fileName)

	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return u.publicURL + "/" + key, nil
}

func publicBase(cfg S3Config) (string, error) {
	if cfg.PublicURL != "" {
		return cfg.PublicURL, nil
	}
	if cfg.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region), nil
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid s3 endpoint %q", cfg.Endpoint)
	}
	return fmt.Sprintf("%s://%s.%s", u.Scheme, cfg.Bucket, u.Host), nil
}
