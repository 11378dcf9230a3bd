package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akinalp/kbbsite/static"
)

// allowedImageExts, /images altından sunulabilecek dosya uzantıları.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".svg":  true,
}

// ImageHandler, IMAGES_DIR altındaki sayfa görsellerini sunar.
//
// Dosya yoksa veya ad geçersizse gömülü yer tutucu döner. Sayfa bozuk görsel
// göstermez; tarayıcı tarafındaki onerror geçişi de aynı dosyaya düşer.
type ImageHandler struct {
	dir string
}

// NewImageHandler, constructor. dir boş olabilir; o zaman her istek yer tutucuya düşer.
func NewImageHandler(dir string) *ImageHandler {
	return &ImageHandler{dir: dir}
}

// Serve godoc
// GET /images/{name}
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if name == static.PlaceholderImage || !validImageName(name) || h.dir == "" {
		servePlaceholder(w, r)
		return
	}

	path := filepath.Join(h.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		servePlaceholder(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

func servePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeFileFS(w, r, static.Images(), static.PlaceholderImage)
}

// validImageName, yalnızca tek seviyeli, gizli olmayan ve izinli uzantılı
// dosya adlarını kabul eder.
func validImageName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}
