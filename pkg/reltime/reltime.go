// Package reltime, yorum zaman damgalarını "3 gün önce" / "in 3 days" gibi
// göreli metne çevirir.
//
// Algoritma sabit bir birim merdiveni üzerinde yürür:
//
//	saniye →(60) dakika →(60) saat →(24) gün →(7) hafta →(4.345) ay →(12) yıl
//
// Geçen süre (saniye) mutlak değeri bir sonraki böleninden küçük olana kadar
// bölünür; ulaşılan birim ve en yakın tam sayıya yuvarlanmış işaretli sayı
// lokalize edilir. Formatter saf bir fonksiyondur: aynı girdi → aynı çıktı.
package reltime

import (
	"math"
	"time"

	"github.com/akinalp/kbbsite/pkg/i18n"
)

// Unit, merdivendeki bir zaman birimidir.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{"second", "minute", "hour", "day", "week", "month", "year"}

// String, birimin i18n anahtarlarında kullanılan adını döner.
func (u Unit) String() string {
	if u < Second || u > Year {
		return "unknown"
	}
	return unitNames[u]
}

// divisors[i], Unit(i)'den Unit(i+1)'e geçiş çarpanıdır.
var divisors = [...]float64{60, 60, 24, 7, 4.345, 12}

// Select, işaretli saniye cinsinden geçen süre için birimi ve yuvarlanmış
// işaretli sayıyı döner. Negatif değer geçmişi, pozitif değer geleceği ifade eder.
func Select(seconds float64) (Unit, int) {
	unit := Second
	value := seconds

	for i, div := range divisors {
		if math.Abs(value) < div {
			break
		}
		value /= div
		unit = Unit(i + 1)
	}

	// math.Round sıfırdan uzağa yuvarlar → geçmiş/gelecek simetrik.
	return unit, int(math.Round(value))
}

// Formatter, belirli bir dil için göreli zaman metni üretir.
type Formatter struct {
	localizer *i18n.Localizer
}

// New, verilen dil için Formatter oluşturur. Desteklenmeyen dil → varsayılan (tr).
func New(lang string) *Formatter {
	return &Formatter{localizer: i18n.NewLocalizer(lang)}
}

// Lang, formatter'ın dil kodunu döner.
func (f *Formatter) Lang() string {
	return f.localizer.Lang()
}

// Format, date'in now'a göre göreli ifadesini döner.
// date sıfır değerse (zaman damgası yok) boş string döner.
func (f *Formatter) Format(date, now time.Time) string {
	if date.IsZero() {
		return ""
	}

	elapsed := date.Sub(now).Seconds()
	unit, count := Select(elapsed)

	if count == 0 {
		return f.localizer.T("relativeTime.now")
	}

	direction := "future"
	if count < 0 {
		direction = "past"
		count = -count
	}

	return f.localizer.TPlural("relativeTime."+direction+"."+unit.String(), count)
}

// FormatNow, referans olarak şu anı kullanır.
func (f *Formatter) FormatNow(date time.Time) string {
	return f.Format(date, time.Now())
}
