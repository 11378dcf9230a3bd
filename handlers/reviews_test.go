package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akinalp/kbbsite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	reviews []models.Review
	err     error
}

func (c *stubCatalog) List(context.Context) ([]models.Review, error) { return c.reviews, c.err }
func (c *stubCatalog) ImportFile(context.Context, string) (*models.ReviewImport, bool, error) {
	return nil, false, nil
}
func (c *stubCatalog) Import(context.Context, string, []byte) (*models.ReviewImport, bool, error) {
	return nil, false, nil
}

func TestReviewsHandler_List(t *testing.T) {
	h := NewReviewsHandler(&stubCatalog{reviews: []models.Review{{
		AuthorName:  "Ayşe K.",
		Rating:      5,
		Text:        "Çok memnun kaldım",
		PublishedAt: time.Date(2024, 5, 29, 12, 0, 0, 0, time.UTC),
	}}})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"reviews":[{
		"author_name":"Ayşe K.",
		"rating":5,
		"text":"Çok memnun kaldım",
		"createdAt":"2024-05-29T12:00:00Z"
	}]}`, rec.Body.String())

	// yanıt tekrar çözülebilmeli; resolver aynı biçimi okur
	var payload struct {
		Reviews json.RawMessage `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	decoded, err := models.DecodeReviewList(payload.Reviews)
	require.NoError(t, err)
	assert.True(t, decoded[0].HasTimestamp())
}

func TestReviewsHandler_ListEmptyIsArray(t *testing.T) {
	h := NewReviewsHandler(&stubCatalog{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reviews":[]}`, rec.Body.String())
}

func TestReviewsHandler_ListError(t *testing.T) {
	h := NewReviewsHandler(&stubCatalog{err: errors.New("disk gone")})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/google-reviews", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk gone")
}

func imageRequest(name string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/images/x", nil)
	r.SetPathValue("name", name)
	return r
}

func TestImageHandler_Serve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero.png"), []byte("\x89PNG\r\n\x1a\nfake"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secret.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.png"), 0o755))

	h := NewImageHandler(dir)

	rec := httptest.NewRecorder()
	h.Serve(rec, imageRequest("hero.png"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))

	for _, name := range []string{"missing.jpg", ".secret.png", "notes.txt", "dir.png", "../hero.png", `..\hero.png`, ""} {
		t.Run("placeholder "+name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Serve(rec, imageRequest(name))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<svg")
		})
	}
}

func TestImageHandler_NoDir(t *testing.T) {
	rec := httptest.NewRecorder()
	NewImageHandler("").Serve(rec, imageRequest("hero.png"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

func TestValidImageName(t *testing.T) {
	assert.True(t, validImageName("gallery-1.JPG"))
	assert.True(t, validImageName("op.webp"))
	assert.False(t, validImageName("a/b.jpg"))
	assert.False(t, validImageName("a..b.jpg"))
	assert.False(t, validImageName("script.js"))
}
