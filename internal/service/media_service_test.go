package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillswap/internal/config"
	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaService_UploadResizesToWebP(t *testing.T) {
	dir := t.TempDir()
	svc := NewMediaService(&config.Config{UploadDir: dir, UploadMaxSizeMB: 1, UploadMaxEdgePx: 256})

	res, err := svc.Upload(context.Background(), UploadMediaInput{
		UserID:      7,
		Filename:    "avatar.png",
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 800, 400),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, UploadURLPrefix+"/"))
	assert.True(t, strings.HasSuffix(res.URL, ".webp"))
	assert.Equal(t, 256, res.Width)
	assert.Equal(t, 128, res.Height)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(res.URL, UploadURLPrefix+"/")))
	require.NoError(t, err)
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestMediaService_SmallImagesKeepSize(t *testing.T) {
	svc := NewMediaService(&config.Config{UploadDir: t.TempDir()})
	res, err := svc.Upload(context.Background(), UploadMediaInput{UserID: 1, Content: testutil.TinyPNG(t, 40, 30)})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
}

func TestMediaService_Rejects(t *testing.T) {
	svc := NewMediaService(&config.Config{UploadDir: t.TempDir(), UploadMaxSizeMB: 1})
	ctx := context.Background()

	tests := []struct {
		name string
		in   UploadMediaInput
	}{
		{"no user", UploadMediaInput{Content: testutil.TinyPNG(t, 4, 4)}},
		{"empty", UploadMediaInput{UserID: 1}},
		{"not an image", UploadMediaInput{UserID: 1, Content: []byte("hello, plain text")}},
		{"too large", UploadMediaInput{UserID: 1, Content: make([]byte, 2*1024*1024)}},
		{"type mismatch", UploadMediaInput{UserID: 1, ContentType: "image/jpeg", Content: testutil.TinyPNG(t, 4, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}
