// Package i18n, sitenin Türkçe/İngilizce metinlerini sağlar.
//
// Yorum zaman etiketleri ("3 gün önce"), yorum bölümü başlıkları ve API
// mesajları bu paketten okunur. Dil şu sırayla belirlenir:
//  1. ?lang= query parametresi
//  2. Accept-Language HTTP header'ı
//  3. Varsayılan dil (tr)
//
// Kullanım:
//
//	localizer := i18n.NewLocalizer("tr")
//	msg := localizer.TPlural("relativeTime.past.day", 3)
//	// → "3 gün önce"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"strings"
	"sync"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"tr", "en"}

// DefaultLanguage, varsayılan dil. Site içeriği Türkçe olduğu için tr.
const DefaultLanguage = "tr"

// translations, map[lang]map[key]value formatında tüm çevirileri tutar.
// Bir kere yüklenir, sonra sadece okunur.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, çeviri dosyalarını fs.FS'ten yükler (tr.json, en.json).
// Birden fazla çağrı güvenlidir; sadece ilk çağrı dosyaları okur.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			log.Printf("[i18n] loaded %d keys for language: %s", len(flat), lang)
		}

		translations = loaded
	})

	return loadErr
}

// LoadEmbedded, binary'ye gömülü locales/ dizinini yükler.
func LoadEmbedded() error {
	sub, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(sub)
}

// Localizer, belirli bir dil için çeviri yapan struct.
type Localizer struct {
	lang string
}

// NewLocalizer, belirli bir dil için Localizer oluşturur.
// Desteklenmeyen dil verilirse varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !IsSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın dil kodunu döner.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, çeviri anahtarına karşılık gelen metni döner.
// Anahtar kullanıcının dilinde yoksa varsayılan dile, orada da yoksa
// anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	ensureLoaded()

	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, çeviri metnindeki {{param}} yer tutucularını değerlerle değiştirir.
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// TPlural, sayıya göre "one" / "other" formunu seçer ve {{count}}'u doldurur.
//
//	TPlural("relativeTime.past.day", 1) → key: relativeTime.past.day.one
//	TPlural("relativeTime.past.day", 3) → key: relativeTime.past.day.other
func (l *Localizer) TPlural(key string, count int) string {
	form := "other"
	if count == 1 {
		form = "one"
	}
	return l.TWithParams(key+"."+form, map[string]string{"count": strconv.Itoa(count)})
}

// DetectLanguage, Accept-Language header'ından en uygun dili belirler.
// Header formatı: "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	// Basit parsing: ilk eşleşen desteklenen dili döndür
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		lang = strings.ToLower(strings.Split(lang, "-")[0])

		if IsSupported(lang) {
			return lang
		}
	}

	return DefaultLanguage
}

// IsSupported, dil kodunun desteklenip desteklenmediğini döner.
func IsSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// ─── Helpers ───

// ensureLoaded, Load hiç çağrılmadıysa gömülü çevirileri yükler.
// Test'ler ve küçük araçlar main'deki wire-up olmadan da çalışabilsin diye.
func ensureLoaded() {
	if err := LoadEmbedded(); err != nil {
		log.Printf("[i18n] %v", err)
	}
}

// flattenMap, nested JSON'u "dot notation" key'lere dönüştürür.
// {"reviews": {"title": "Google Yorumları"}} → {"reviews.title": "Google Yorumları"}
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
