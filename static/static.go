// Package static, sayfa şablonunu, css/js dosyalarını, yer tutucu görseli ve
// varsayılan site içeriğini binary'ye gömer.
//
// İçerik (content/) SITE_CONTENT_DIR ile diskten ezilebilir; diğerleri her
// zaman gömülü kopyadan servis edilir.
package static

import (
	"embed"
	"io/fs"
)

//go:embed templates assets images content
var files embed.FS

// PlaceholderImage, eksik veya bozuk görsellerin yerine servis edilen dosyanın adı.
const PlaceholderImage = "placeholder.svg"

// Templates, html/template dosyaları.
func Templates() fs.FS { return sub("templates") }

// Assets, /assets altında servis edilen css/js dosyaları.
func Assets() fs.FS { return sub("assets") }

// Images, gömülü görseller (yer tutucu).
func Images() fs.FS { return sub("images") }

// Content, varsayılan site.yaml ve about.md.
func Content() fs.FS { return sub("content") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		// dir sabit ve gömülü; buraya düşmek build hatasıdır
		panic(err)
	}
	return f
}
