package i18n

import "embed"

// EmbeddedLocales, locales/ dizinindeki JSON dosyalarını içerir.
// Deploy edilen binary harici çeviri dosyasına ihtiyaç duymaz.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
