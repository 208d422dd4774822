package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/weanovas/agency-api/internal/storage"
)

// Upload validation failures, surfaced to clients as 400s.
var (
	ErrUploadTooLarge   = errors.New("uploaded file too large")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrEmptyUpload      = errors.New("uploaded file is empty")
	ErrImageUndecodable = errors.New("uploaded file is not a valid image")
)

// ImageUpload carries a raw uploaded file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// StoredImage describes an image persisted to object storage.
type StoredImage struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

var imageFormats = map[string]struct {
	format imaging.Format
	ext    string
}{
	"image/jpeg": {imaging.JPEG, ".jpg"},
	"image/png":  {imaging.PNG, ".png"},
	"image/gif":  {imaging.GIF, ".gif"},
}

// ImageService validates, normalizes, and persists uploaded images. Stored
// copies are re-encoded (stripping metadata) and downscaled to a maximum
// dimension.
type ImageService struct {
	storage      *storage.Storage
	maxBytes     int64
	maxDimension int
	logger       *slog.Logger
}

func NewImageService(store *storage.Storage, maxBytes int64, maxDimension int, logger *slog.Logger) *ImageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{
		storage:      store,
		maxBytes:     maxBytes,
		maxDimension: maxDimension,
		logger:       logger,
	}
}

// Store validates and persists an uploaded image under the given folder,
// returning its public URL and deletable storage key.
func (s *ImageService) Store(ctx context.Context, folder string, upload ImageUpload) (StoredImage, error) {
	if len(upload.Data) == 0 {
		return StoredImage{}, ErrEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(upload.Data)) > s.maxBytes {
		return StoredImage{}, ErrUploadTooLarge
	}

	contentType := http.DetectContentType(upload.Data)
	spec, ok := imageFormats[contentType]
	if !ok {
		return StoredImage{}, ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return StoredImage{}, ErrImageUndecodable
	}

	bounds := img.Bounds()
	if s.maxDimension > 0 && (bounds.Dx() > s.maxDimension || bounds.Dy() > s.maxDimension) {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, img, spec.format); err != nil {
		return StoredImage{}, err
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), spec.ext)
	if err := s.storage.Put(ctx, key, bytes.NewReader(encoded.Bytes()), int64(encoded.Len()), contentType); err != nil {
		return StoredImage{}, err
	}

	return StoredImage{
		URL:         s.storage.PublicURL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(encoded.Len()),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// Delete removes a stored image by key.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// Remove deletes a stored image best-effort. Failures are logged and
// swallowed so record mutations never hinge on blob cleanup.
func (s *ImageService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("delete stored image", "key", key, "error", err)
	}
}
