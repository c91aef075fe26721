package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImage encodes a solid-colour picture of the given size
func testImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 120, B: 60, A: 255})
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		_ = png.Encode(&buf, img)
		return buf.Bytes(), "avatar.png"
	}
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	return buf.Bytes(), "avatar.jpg"
}

func TestAvatarService_ValidateImage(t *testing.T) {
	svc := NewAvatarService(nil)
	validJPEG, jpegName := testImage(120, 80, "jpeg")
	validPNG, pngName := testImage(64, 64, "png")
	tiny, tinyName := testImage(20, 20, "jpeg")

	tests := []struct {
		name     string
		data     []byte
		filename string
		want     error
	}{
		{"jpeg", validJPEG, jpegName, nil},
		{"png", validPNG, pngName, nil},
		{"too large", make([]byte, MaxImageSize+1), "big.jpg", ErrImageTooLarge},
		{"unsupported extension", validJPEG, "avatar.gif", ErrInvalidFormat},
		{"too small", tiny, tinyName, ErrImageTooSmall},
		{"not an image", []byte("hello"), "avatar.jpg", ErrInvalidImageData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ValidateImage(tt.data, tt.filename))
		})
	}
}

func TestAvatarService_StoreUploadsBothVariants(t *testing.T) {
	store := testutil.NewMockAvatarStore()
	svc := NewAvatarService(store)
	data, name := testImage(600, 300, "jpeg")

	path, err := svc.Store(context.Background(), 4, 11, data, name)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "4/members/11/"))
	assert.True(t, strings.HasSuffix(path, "_display.jpg"))

	paths := store.Paths()
	require.Len(t, paths, 2)

	display, _, err := image.Decode(bytes.NewReader(store.Objects[path]))
	require.NoError(t, err)
	assert.Equal(t, AvatarDisplaySize, display.Bounds().Dx())
	assert.Equal(t, AvatarDisplaySize, display.Bounds().Dy())
}

func TestAvatarService_StoreCleansUpOnFailure(t *testing.T) {
	store := testutil.NewMockAvatarStore()
	store.UploadFn = func(objectPath string) error {
		if strings.HasSuffix(objectPath, "_thumb.jpg") {
			return errors.New("bucket unavailable")
		}
		return nil
	}
	svc := NewAvatarService(store)
	data, name := testImage(100, 100, "png")

	_, err := svc.Store(context.Background(), 1, 1, data, name)
	require.Error(t, err)
	assert.Empty(t, store.Paths())
}

func TestAvatarService_Disabled(t *testing.T) {
	svc := NewAvatarService(nil)
	data, name := testImage(100, 100, "jpeg")

	_, err := svc.Store(context.Background(), 1, 1, data, name)
	assert.Equal(t, ErrImageStorageNotConfigured, err)

	_, err = svc.Presign(context.Background(), "1/members/1/x_display.jpg")
	assert.Equal(t, ErrImageStorageNotConfigured, err)
}

func TestAvatarService_PresignAndDelete(t *testing.T) {
	store := testutil.NewMockAvatarStore()
	svc := NewAvatarService(store)
	data, name := testImage(100, 100, "jpeg")
	ctx := context.Background()

	path, err := svc.Store(ctx, 2, 3, data, name)
	require.NoError(t, err)

	avatar, err := svc.Presign(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, avatar.URL, "_display.jpg")
	assert.Contains(t, avatar.ThumbURL, "_thumb.jpg")

	require.NoError(t, svc.Delete(ctx, path))
	assert.Empty(t, store.Paths())
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetContentType("me.JPG"))
	assert.Equal(t, "image/png", GetContentType("me.png"))
	assert.Equal(t, "application/octet-stream", GetContentType("me.gif"))
}
