package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"path/filepath"
	"strings"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/repository/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	MaxImageSize        = 5 * 1024 * 1024 // 5MB
	MinImageWidth       = 50
	MinImageHeight      = 50
	AvatarThumbSize     = 96
	AvatarDisplaySize   = 400
	JPEGQuality         = 85
	AvatarURLExpiry     = 15 * time.Minute
	avatarDisplaySuffix = "_display.jpg"
	avatarThumbSuffix   = "_thumb.jpg"
)

var (
	ErrImageTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat             = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData          = errors.New("invalid image data")
	ErrImageStorageNotConfigured = errors.New("image storage not configured")
)

// AllowedExtensions maps accepted upload extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Avatar is the stored object of a member picture
type Avatar struct {
	ObjectPath string    `json:"-"`
	URL        string    `json:"url"`
	ThumbURL   string    `json:"thumbUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// AvatarService crops, resizes and stores member pictures
type AvatarService struct {
	store storage.ObjectStore
}

// NewAvatarService creates an AvatarService. A nil store disables uploads.
func NewAvatarService(store storage.ObjectStore) *AvatarService {
	return &AvatarService{store: store}
}

// IsEnabled reports whether avatar storage is configured
func (s *AvatarService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// ValidateImage checks size, extension, decodability and minimum dimensions
func (s *AvatarService) ValidateImage(data []byte, filename string) error {
	_, err := s.decode(data, filename)
	return err
}

func (s *AvatarService) decode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}
	if _, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]; !ok {
		return nil, ErrInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if b := img.Bounds(); b.Dx() < MinImageWidth || b.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

// Store crops the picture to a centered square and uploads a display and a thumbnail
// variant. It returns the display object path, which is what the member row keeps.
func (s *AvatarService) Store(ctx context.Context, groupID, memberID int32, data []byte, filename string) (string, error) {
	if !s.IsEnabled() {
		return "", ErrImageStorageNotConfigured
	}

	img, err := s.decode(data, filename)
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("%d/members/%d/%s", groupID, memberID, uuid.New().String())
	variants := []struct {
		suffix string
		size   int
	}{
		{avatarDisplaySuffix, AvatarDisplaySize},
		{avatarThumbSuffix, AvatarThumbSize},
	}

	var uploaded []string
	for _, v := range variants {
		square := imaging.Fill(img, v.size, v.size, imaging.Center, imaging.Lanczos)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, square, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			s.cleanup(ctx, uploaded)
			return "", fmt.Errorf("failed to encode avatar: %w", err)
		}

		path, err := s.store.Upload(ctx, base+v.suffix, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanup(ctx, uploaded)
			return "", fmt.Errorf("failed to upload avatar: %w", err)
		}
		uploaded = append(uploaded, path)
	}

	return base + avatarDisplaySuffix, nil
}

func (s *AvatarService) cleanup(ctx context.Context, paths []string) {
	for _, p := range paths {
		_ = s.store.Delete(ctx, p)
	}
}

// Delete removes both variants of a stored avatar. Missing objects are not an error.
func (s *AvatarService) Delete(ctx context.Context, displayPath string) error {
	if displayPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrImageStorageNotConfigured
	}
	base := basePath(displayPath)
	if base == "" {
		return nil
	}
	if err := s.store.Delete(ctx, base+avatarDisplaySuffix); err != nil {
		return err
	}
	return s.store.Delete(ctx, base+avatarThumbSuffix)
}

// Presign returns short-lived URLs for a stored avatar
func (s *AvatarService) Presign(ctx context.Context, displayPath string) (*Avatar, error) {
	if !s.IsEnabled() {
		return nil, ErrImageStorageNotConfigured
	}
	url, err := s.store.GeneratePresignedURL(ctx, displayPath, AvatarURLExpiry)
	if err != nil {
		return nil, err
	}
	thumb := url
	if base := basePath(displayPath); base != "" {
		if thumb, err = s.store.GeneratePresignedURL(ctx, base+avatarThumbSuffix, AvatarURLExpiry); err != nil {
			return nil, err
		}
	}
	return &Avatar{
		ObjectPath: displayPath,
		URL:        url,
		ThumbURL:   thumb,
		ExpiresAt:  time.Now().Add(AvatarURLExpiry),
	}, nil
}

// basePath strips the variant suffix from an avatar object path
func basePath(objectPath string) string {
	for _, suffix := range []string{avatarDisplaySuffix, avatarThumbSuffix} {
		if strings.HasSuffix(objectPath, suffix) {
			return strings.TrimSuffix(objectPath, suffix)
		}
	}
	return ""
}

// GetContentType returns the content type for a file extension
func GetContentType(filename string) string {
	if ct, ok := AllowedExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
