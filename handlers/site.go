// Package handlers, HTTP request handler'larını içerir.
//
// Thin handler prensibi: Parse → Service → Response.
package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg/i18n"
	"github.com/akinalp/kbbsite/services"
)

// SiteHandler, ana sayfayı html/template ile çizer.
type SiteHandler struct {
	site services.SiteService
	tmpl *template.Template
}

// pageView, şablona verilen veri: sayfa verisi + sayfanın dilinde çeviri.
//
//	{{.T "page.about"}}
type pageView struct {
	*services.PageData
	loc *i18n.Localizer
}

// T, çeviri anahtarını sayfanın diline çevirir.
func (v pageView) T(key string) string {
	return v.loc.T(key)
}

var templateFuncs = template.FuncMap{
	"stars": func(filled int) []bool {
		return models.Review{Rating: filled}.Stars()
	},
	"image": func(name string) string {
		return "/images/" + name
	},
	// html/template sadece http, https ve mailto şemalarına izin verir.
	"tel": func(link string) template.URL {
		if !strings.HasPrefix(link, "tel:") {
			return "#"
		}
		return template.URL(link)
	},
}

// NewSiteHandler, templates içindeki index.html'i parse eder.
func NewSiteHandler(site services.SiteService, templates fs.FS) (*SiteHandler, error) {
	tmpl, err := template.New("index.html").Funcs(templateFuncs).ParseFS(templates, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &SiteHandler{site: site, tmpl: tmpl}, nil
}

// Index godoc
// GET /
// Sayfa, yorumlar çözülmüş halde tek seferde çizilir. Yorum kaynağı
// erişilemezse örnek liste gösterilir; bu durum yanıttan ayırt edilemez.
func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.site.BuildPage(r.Context())
	if err != nil {
		log.Printf("[site] failed to build page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// Şablon hatası yarım sayfa göndermesin diye önce buffer'a yazılır.
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, pageView{PageData: page, loc: i18n.NewLocalizer(page.Lang)}); err != nil {
		log.Printf("[site] failed to render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store") // sayfa kimliği her istekte yenidir
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
