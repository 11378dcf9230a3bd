package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/seo"
	"github.com/akinalp/kbbsite/services"
	"github.com/akinalp/kbbsite/static"
	"github.com/akinalp/kbbsite/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSiteService struct {
	page *services.PageData
	err  error
}

func (s *stubSiteService) Content() *models.SiteContent { return s.page.Content }
func (s *stubSiteService) Reload() error                 { return nil }
func (s *stubSiteService) BuildPage(context.Context) (*services.PageData, error) {
	return s.page, s.err
}

func testPage() *services.PageData {
	cards := []ws.ReviewCard{
		{AuthorName: "Ayşe <K.>", Rating: 5, FilledStars: 5, Text: "Harika", Label: "3 gün önce"},
		{AuthorName: "Mehmet", Rating: 4, FilledStars: 4},
	}
	return &services.PageData{
		Lang: "tr",
		Content: &models.SiteContent{
			Practice: models.Practice{Name: "Op. Dr. Test", Phone: "0262 323 02 02"},
			Links:    models.Links{Tel: "tel:+902623230202", WhatsApp: "https://wa.me/905017256051"},
			Nav:      []models.NavItem{{Anchor: "hakkinda", Label: "Hakkında"}},
		},
		Head: []seo.Script{{
			ID:      services.PhysicianSchemaID,
			Type:    seo.JSONLDType,
			Content: `{"@type":"Physician"}`,
		}},
		ViewID: "view-123",
		Year:   2024,
		Reviews: services.ReviewsSection{
			Snapshot: ws.SnapshotData{
				Source: "fallback", Cards: cards, MaxIndex: 0, VisibleCount: 3, Total: 2,
			},
			Grid: cards,
		},
	}
}

func newTestSiteHandler(t *testing.T, svc services.SiteService) *SiteHandler {
	t.Helper()
	h, err := NewSiteHandler(svc, static.Templates())
	require.NoError(t, err)
	return h
}

func TestSiteHandler_Index(t *testing.T) {
	h := newTestSiteHandler(t, &stubSiteService{page: testPage()})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="tr">`)
	assert.Contains(t, body, `data-view="view-123"`)
	assert.Contains(t, body, `href="tel:`)
	assert.NotContains(t, body, "ZgotmplZ")
	assert.Contains(t, body, `id="schema-physician"`)
	assert.Contains(t, body, "Google Yorumları")
	assert.Contains(t, body, "© 2024 Op. Dr. Test")
	assert.Contains(t, body, "3 gün önce")
	// yazar adı kaçışlanır
	assert.Contains(t, body, "Ayşe &lt;K.&gt;")
	assert.NotContains(t, body, "Ayşe <K.>")
	// tek sayfalık pencerede iki düğme de kapalı
	assert.Equal(t, 2, strings.Count(body, " disabled>"))
	// aynı iki kart hem şeritte hem ızgarada: (5 + 4) * 2
	assert.Equal(t, 18, strings.Count(body, "star star--on"))
}

func TestSiteHandler_IndexBuildError(t *testing.T) {
	h := newTestSiteHandler(t, &stubSiteService{page: testPage(), err: errors.New("boom")})

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestTemplateFuncs(t *testing.T) {
	tel := templateFuncs["tel"].(func(string) template.URL)
	assert.Equal(t, template.URL("tel:+90262"), tel("tel:+90262"))
	assert.Equal(t, template.URL("#"), tel("javascript:alert(1)"))

	stars := templateFuncs["stars"].(func(int) []bool)
	assert.Equal(t, []bool{true, true, false, false, false}, stars(2))
	assert.Len(t, stars(9), 5)

	image := templateFuncs["image"].(func(string) string)
	assert.Equal(t, "/images/gallery-1.jpg", image("gallery-1.jpg"))
}
