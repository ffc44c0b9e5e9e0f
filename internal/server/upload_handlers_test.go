package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillswap/internal/service"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	fx := testutil.NewFixture(t)
	alice := fx.User("alice")
	s, app := newTestServer(t, fx, nil)
	token := tokenFor(t, s, alice)

	t.Run("PNG is stored as WebP and served back", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "avatar.png", testutil.TinyPNG(t, 32, 16))
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

		res := decode[service.UploadResult](t, raw)
		assert.True(t, strings.HasPrefix(res.URL, service.UploadURLPrefix+"/"))
		assert.True(t, strings.HasSuffix(res.URL, ".webp"))
		assert.Equal(t, 32, res.Width)
		assert.Equal(t, 16, res.Height)

		_, err = os.Stat(filepath.Join(s.mediaService.Dir(), filepath.Base(res.URL)))
		require.NoError(t, err)

		served, err := app.Test(httptest.NewRequest(http.MethodGet, res.URL, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, served.StatusCode)
	})

	t.Run("Missing file field", func(t *testing.T) {
		body, contentType := multipartUpload(t, "other", "avatar.png", testutil.TinyPNG(t, 4, 4))
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Not an image", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "notes.txt", []byte("just text"))
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
