package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skillswap/internal/config"
	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "./uploads"
	DefaultUploadMaxSizeMB = 10
	DefaultMaxEdgePx       = 1024
	DefaultWebPQuality     = 75

	// UploadURLPrefix is where stored media is served from.
	UploadURLPrefix = "/uploads"
)

type UploadMediaInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

type UploadResult struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

// MediaService normalizes uploaded images to WebP files on local disk.
type MediaService struct {
	uploadDir          string
	maxUploadSizeBytes int64
	maxEdge            int
	quality            int
}

func NewMediaService(cfg *config.Config) *MediaService {
	s := &MediaService{
		uploadDir:          DefaultUploadDir,
		maxUploadSizeBytes: DefaultUploadMaxSizeMB * 1024 * 1024,
		maxEdge:            DefaultMaxEdgePx,
		quality:            DefaultWebPQuality,
	}
	if cfg != nil {
		if cfg.UploadDir != "" {
			s.uploadDir = cfg.UploadDir
		}
		if cfg.UploadMaxSizeMB > 0 {
			s.maxUploadSizeBytes = int64(cfg.UploadMaxSizeMB) * 1024 * 1024
		}
		if cfg.UploadMaxEdgePx > 0 {
			s.maxEdge = cfg.UploadMaxEdgePx
		}
		if cfg.UploadWebPQuality > 0 {
			s.quality = cfg.UploadWebPQuality
		}
	}
	return s
}

// Dir is the directory files are written to.
func (s *MediaService) Dir() string {
	return s.uploadDir
}

func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*UploadResult, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	resized := resizeToFit(decoded, s.maxEdge, s.maxEdge)
	encoded, err := encodeWebP(resized, s.quality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := uuid.NewString() + ".webp"
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	b := resized.Bounds()
	middleware.Logger.InfoContext(ctx, "media uploaded",
		"user_id", in.UserID, "file", name, "source_format", format, "bytes", len(encoded))
	return &UploadResult{
		URL:    UploadURLPrefix + "/" + name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  len(encoded),
	}, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p, d := normalizeContentType(provided), normalizeContentType(detected)
	return p == d || (p == "image/jpg" && d == "image/jpeg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + strings.ToLower(format)
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
