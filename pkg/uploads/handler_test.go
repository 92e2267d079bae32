package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

var testTokens = auth.NewTokenManager("test-secret", "foundernet", time.Hour)

// a 1x1 transparent PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func setupRouter(t *testing.T, maxBytes int64) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := NewStore(t.TempDir(), "https://api.example.com/")
	require.NoError(t, err)
	r := gin.New()
	NewUploadHandler(store, auth.NewMiddleware(testTokens, auth.CookieSettings{}), maxBytes).RegisterRoutes(r)
	return r, store
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, r *gin.Engine, body *bytes.Buffer, contentType string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	if authed {
		token, _, err := testTokens.Issue("u1", "founder")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_PNG(t *testing.T) {
	r, store := setupRouter(t, 1<<20)
	body, ct := multipartBody(t, "file", "avatar.exe", pngBytes)

	w := post(t, r, body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		response.APIResponse
		Data Upload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "image/png", resp.Data.ContentType)
	require.True(t, strings.HasSuffix(resp.Data.Filename, ".png"))
	require.Equal(t, "https://api.example.com/files/"+resp.Data.Filename, resp.Data.URL)
	require.EqualValues(t, len(pngBytes), resp.Data.Size)

	stored, err := os.ReadFile(filepath.Join(store.Dir(), resp.Data.Filename))
	require.NoError(t, err)
	require.Equal(t, pngBytes, stored)

	get := httptest.NewRequest(http.MethodGet, "/files/"+resp.Data.Filename, nil)
	gw := httptest.NewRecorder()
	r.ServeHTTP(gw, get)
	require.Equal(t, http.StatusOK, gw.Code)
}

func TestUpload_Rejections(t *testing.T) {
	r, _ := setupRouter(t, 1<<20)

	body, ct := multipartBody(t, "file", "notes.txt", []byte("just some text"))
	require.Equal(t, http.StatusUnsupportedMediaType, post(t, r, body, ct, true).Code)

	body, ct = multipartBody(t, "other", "a.png", pngBytes)
	require.Equal(t, http.StatusBadRequest, post(t, r, body, ct, true).Code)

	body, ct = multipartBody(t, "file", "empty.png", nil)
	require.Equal(t, http.StatusBadRequest, post(t, r, body, ct, true).Code)
}

func TestUpload_TooLarge(t *testing.T) {
	r, _ := setupRouter(t, 64)
	body, ct := multipartBody(t, "file", "a.png", bytes.Repeat(pngBytes, 10))

	require.Equal(t, http.StatusRequestEntityTooLarge, post(t, r, body, ct, true).Code)
}

func TestUpload_AnonymousImagesOnly(t *testing.T) {
	r, _ := setupRouter(t, 1<<20)
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

	body, ct := multipartBody(t, "file", "a.png", pngBytes)
	require.Equal(t, http.StatusCreated, post(t, r, body, ct, false).Code)

	body, ct = multipartBody(t, "file", "deck.pdf", pdf)
	require.Equal(t, http.StatusUnsupportedMediaType, post(t, r, body, ct, false).Code)

	body, ct = multipartBody(t, "file", "deck.pdf", pdf)
	require.Equal(t, http.StatusCreated, post(t, r, body, ct, true).Code)
}
