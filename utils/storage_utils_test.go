package utils

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestUploaderUpload(t *testing.T) {
	fake := &fakeS3{}
	u := NewUploaderWithClient(fake, "media", "https://cdn.example.com/")

	url, err := u.Upload(context.Background(), []byte("png-bytes"), "a.png", "market", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/market/a.png", url)
	assert.Equal(t, "media", aws.StringValue(fake.input.Bucket))
	assert.Equal(t, "market/a.png", aws.StringValue(fake.input.Key))
	assert.Equal(t, "image/png", aws.StringValue(fake.input.ContentType))
	assert.Equal(t, "public-read", aws.StringValue(fake.input.ACL))
	assert.Equal(t, int64(9), aws.Int64Value(fake.input.ContentLength))
	assert.Equal(t, []byte("png-bytes"), fake.body)
}

func TestUploaderUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("denied")}
	u := NewUploaderWithClient(fake, "media", "https://cdn.example.com")

	_, err := u.Upload(context.Background(), []byte("x"), "a.png", "market", "image/png")
	assert.ErrorContains(t, err, "denied")
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"explicit", S3Config{PublicURL: "https://cdn.example.com", Bucket: "b"}, "https://cdn.example.com"},
		{"endpoint", S3Config{Endpoint: "https://object.pscloud.io", Bucket: "udg"}, "https://udg.object.pscloud.io"},
		{"aws", S3Config{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := publicBase(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := publicBase(S3Config{Endpoint: "::bad", Bucket: "b"})
	assert.Error(t, err)
}
