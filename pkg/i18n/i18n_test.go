package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizer_TPlural(t *testing.T) {
	tr := NewLocalizer("tr")
	en := NewLocalizer("en")

	assert.Equal(t, "3 gün önce", tr.TPlural("relativeTime.past.day", 3))
	assert.Equal(t, "1 day ago", en.TPlural("relativeTime.past.day", 1))
	assert.Equal(t, "in 2 weeks", en.TPlural("relativeTime.future.week", 2))
}

func TestLocalizer_FallsBackToDefaultThenKey(t *testing.T) {
	l := NewLocalizer("de")

	assert.Equal(t, "tr", l.Lang())
	assert.Equal(t, "Google Yorumları", l.T("reviews.title"))
	assert.Equal(t, "missing.key", l.T("missing.key"))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "tr", DetectLanguage("tr-TR,tr;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", DetectLanguage("de-DE, en;q=0.5"))
	assert.Equal(t, DefaultLanguage, DetectLanguage(""))
	assert.Equal(t, DefaultLanguage, DetectLanguage("fr-FR"))
}
