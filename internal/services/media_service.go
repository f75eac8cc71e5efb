package services

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"communityBack/internal/errors"
)

const MaxMediaSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// FileUploader is implemented by *utils.Uploader.
type FileUploader interface {
	Upload(ctx context.Context, file []byte, fileName, folder, contentType string) (string, error)
}

type MediaService struct {
	Uploader FileUploader
}

// UploadImage sniffs the content type, stores the image under a fresh name
// inside folder and returns its public URL.
func (s *MediaService) UploadImage(ctx context.Context, folder string, data []byte) (string, error) {
	if s.Uploader == nil {
		return "", errors.Unavailable("media storage is not configured", nil)
	}
	if len(data) == 0 {
		return "", errors.InvalidInput("empty file", nil)
	}
	if len(data) > MaxMediaSize {
		return "", errors.InvalidInput("file is too large", nil)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", errors.InvalidInput("unsupported file type "+contentType, nil)
	}

	url, err := s.Uploader.Upload(ctx, data, uuid.NewString()+ext, folder, contentType)
	if err != nil {
		return "", errors.Unavailable("failed to upload file", err)
	}
	return url, nil
}
