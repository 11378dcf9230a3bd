package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// EpochSecondsThreshold, epoch sayısının saniye mi milisaniye mi olduğuna
// karar veren sınır. Altındaki değerler saniye kabul edilir.
//
// 10_000_000_000 saniye ≈ 2286 yılı; milisaniye tarafında ise 1970'in ilk
// ~4 ayı yanlış yorumlanır. Google yorumları için sorun değil, ama uzun ömürlü
// veya güvenilmeyen verilerde açık bir birim alanı kullanılmalı.
const EpochSecondsThreshold = 10_000_000_000

// MaxStars, kart üzerinde çizilen yıldız sayısı.
const MaxStars = 5

// Review, tek bir hasta yorumunu temsil eder.
//
// Zaman damgası giriş noktasında (UnmarshalJSON) normalize edilir:
// PublishedAt doluysa göreli etiket ondan hesaplanır, değilse kaynağın
// verdiği hazır etiket (RelativeLabel) kullanılır.
type Review struct {
	AuthorName    string    `json:"author_name"`
	Rating        int       `json:"rating"`
	Text          string    `json:"text,omitempty"`
	PublishedAt   time.Time `json:"-"`
	RelativeLabel string    `json:"relative_time_description,omitempty"`
}

// FilledStars, dolu çizilecek yıldız sayısını döner: rating [0, 5] aralığına kırpılır.
func (r Review) FilledStars() int {
	return min(max(r.Rating, 0), MaxStars)
}

// Stars, 5 elemanlı bir dizi döner; true → dolu yıldız. Template'ler için.
func (r Review) Stars() []bool {
	stars := make([]bool, MaxStars)
	filled := r.FilledStars()
	for i := range stars {
		stars[i] = i < filled
	}
	return stars
}

// HasTimestamp, yorumun çözülebilir bir zaman damgası taşıyıp taşımadığını döner.
func (r Review) HasTimestamp() bool {
	return !r.PublishedAt.IsZero()
}

// TimestampKind, ham zaman damgasının hangi biçimde geldiğini belirtir.
type TimestampKind int

const (
	TimestampNone TimestampKind = iota
	TimestampISO
	TimestampEpochSeconds
	TimestampEpochMillis
)

// Timestamp, JSON'dan gelen çok biçimli zaman damgasının etiketli (tagged) hali.
// Sadece giriş sınırında yaşar; Review'a sadece normalize edilmiş time.Time geçer.
type Timestamp struct {
	Kind TimestampKind
	At   time.Time
}

// ParseTimestamp, ham JSON değerini Timestamp'e çevirir.
//
//   - "2024-01-01T00:00:00Z"  → ISO-8601 (RFC3339, nano saniyeli dahil)
//   - 1704067200              → epoch saniye
//   - 1704067200000           → epoch milisaniye
//   - "1704067200"            → string içinde epoch (aynı kural)
//   - null / boş / tanınmayan → TimestampNone
func ParseTimestamp(raw json.RawMessage) Timestamp {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Timestamp{}
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Timestamp{}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Timestamp{}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n)
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return Timestamp{Kind: TimestampISO, At: t.UTC()}
			}
		}
		return Timestamp{}
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return Timestamp{}
	}
	return fromEpoch(n)
}

func fromEpoch(n float64) Timestamp {
	if n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Timestamp{}
	}
	if n < EpochSecondsThreshold {
		sec, frac := math.Modf(n)
		return Timestamp{Kind: TimestampEpochSeconds, At: time.Unix(int64(sec), int64(frac*1e9)).UTC()}
	}
	return Timestamp{Kind: TimestampEpochMillis, At: time.UnixMilli(int64(n)).UTC()}
}

// reviewJSON, dış kaynaklardan gelen yorumun gevşek tipli hali.
// Google Places "time" (epoch saniye), bizim API "createdAt" kullanır.
type reviewJSON struct {
	AuthorName              string          `json:"author_name"`
	Rating                  json.RawMessage `json:"rating"`
	Text                    *string         `json:"text"`
	CreatedAt               json.RawMessage `json:"createdAt"`
	CreatedAtSnake          json.RawMessage `json:"created_at"`
	Time                    json.RawMessage `json:"time"`
	Timestamp               json.RawMessage `json:"timestamp"`
	RelativeTimeDescription string          `json:"relative_time_description"`
}

// UnmarshalJSON, ham yorumu okur ve zaman damgasını hemen normalize eder.
// Sadece nesne olmayan değerler hata döndürür; alan bazında tanınmayan
// biçimler sessizce yok sayılır.
func (r *Review) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("invalid review: expected JSON object")
	}

	var raw reviewJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	*r = Review{
		AuthorName:    raw.AuthorName,
		Rating:        parseRating(raw.Rating),
		RelativeLabel: raw.RelativeTimeDescription,
	}
	if raw.Text != nil {
		r.Text = *raw.Text
	}

	for _, candidate := range []json.RawMessage{raw.CreatedAt, raw.CreatedAtSnake, raw.Time, raw.Timestamp} {
		if ts := ParseTimestamp(candidate); ts.Kind != TimestampNone {
			r.PublishedAt = ts.At
			break
		}
	}

	return nil
}

// MarshalJSON, normalize edilmiş yorumu dışarı verir.
// Zaman damgası varsa ISO-8601 "createdAt" olarak yazılır.
func (r Review) MarshalJSON() ([]byte, error) {
	type out struct {
		AuthorName    string `json:"author_name"`
		Rating        int    `json:"rating"`
		Text          string `json:"text,omitempty"`
		CreatedAt     string `json:"createdAt,omitempty"`
		RelativeLabel string `json:"relative_time_description,omitempty"`
	}

	o := out{
		AuthorName:    r.AuthorName,
		Rating:        r.Rating,
		Text:          r.Text,
		RelativeLabel: r.RelativeLabel,
	}
	if r.HasTimestamp() {
		o.CreatedAt = r.PublishedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(o)
}

// parseRating, sayı veya string olarak gelen puanı tam sayıya çevirir.
// Okunamayan değer 0 kabul edilir.
func parseRating(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(math.Round(n))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int(math.Round(n))
		}
	}
	return 0
}

// DecodeReviewList, ham JSON'un üst seviye değerinin dizi olduğunu doğrular ve
// yorum listesine çevirir. Dizi değilse veya elemanlardan biri nesne değilse
// hata döner; kısmi liste dönmez.
func DecodeReviewList(raw []byte) ([]Review, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("review list must be a JSON array")
	}

	var reviews []Review
	if err := json.Unmarshal(raw, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode review list: %w", err)
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}
