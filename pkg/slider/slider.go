// Package slider, yorum şeridinin pencere (window) mantığını içerir.
//
// Window, değişmez bir liste üzerinde [start, start+visible) aralığını tutar.
// start her zaman [0, MaxIndex()] aralığına sıkıştırılır; sınır dışı istekler
// hata vermez, kırpılır.
package slider

// DefaultVisible, aynı anda gösterilen kart sayısı.
const DefaultVisible = 3

// CardGap, mobil kaydırmada kartlar arasındaki sabit boşluk (px).
const CardGap = 16

// EstimatedCardRatio, henüz ölçülmüş kart yoksa container genişliğinin
// adım olarak kullanılacak oranı.
const EstimatedCardRatio = 0.9

// Window, items üzerinde kayan bir görünüm.
// items kopyalanmaz; çağıran taraf listeyi değiştirmemelidir.
type Window[T any] struct {
	items   []T
	visible int
	index   int
}

// New, verilen liste ve görünür kart sayısı ile Window oluşturur.
// visible <= 0 ise DefaultVisible kullanılır.
func New[T any](items []T, visible int) *Window[T] {
	if visible <= 0 {
		visible = DefaultVisible
	}
	return &Window[T]{items: items, visible: visible}
}

// Index, pencerenin başlangıç indeksini döner.
func (w *Window[T]) Index() int { return w.index }

// VisibleCount, pencere genişliğini döner.
func (w *Window[T]) VisibleCount() int { return w.visible }

// Len, arkadaki listenin uzunluğunu döner.
func (w *Window[T]) Len() int { return len(w.items) }

// Items, arkadaki listenin tamamını döner (kopya değil).
func (w *Window[T]) Items() []T { return w.items }

// MaxIndex = max(0, len(items) - visible)
func (w *Window[T]) MaxIndex() int {
	return max(0, len(w.items)-w.visible)
}

// Next, pencereyi bir ileri kaydırır, MaxIndex'te durur.
func (w *Window[T]) Next() int {
	w.index = min(w.MaxIndex(), w.index+1)
	return w.index
}

// Prev, pencereyi bir geri kaydırır, 0'da durur.
func (w *Window[T]) Prev() int {
	w.index = max(0, w.index-1)
	return w.index
}

// Advance, direction > 0 ise Next, < 0 ise Prev çağırır; 0 ise indeksi değiştirmez.
func (w *Window[T]) Advance(direction int) int {
	switch {
	case direction > 0:
		return w.Next()
	case direction < 0:
		return w.Prev()
	default:
		return w.index
	}
}

// SetItems, arkadaki listeyi değiştirir. Uzunluk değiştiyse indeks 0'a döner;
// veri asenkron geldiğinde pencere aralık dışında kalmasın diye.
func (w *Window[T]) SetItems(items []T) {
	if len(items) != len(w.items) {
		w.index = 0
	}
	w.items = items
}

// SetVisible, görünür kart sayısını değiştirir. Sayı değiştiyse indeks 0'a döner.
func (w *Window[T]) SetVisible(visible int) {
	if visible <= 0 {
		visible = DefaultVisible
	}
	if visible != w.visible {
		w.index = 0
	}
	w.visible = visible
}

// Visible, o an görünen alt listeyi döner.
func (w *Window[T]) Visible() []T {
	if len(w.items) == 0 {
		return nil
	}
	end := min(len(w.items), w.index+w.visible)
	return w.items[w.index:end]
}

// ScrollStep, küçük ekranlardaki sürekli kaydırma için bir adımın piksel
// karşılığını döner: ölçülen kart genişliği + CardGap. Kart henüz ölçülmediyse
// (cardWidth <= 0) container genişliğinin %90'ı tahmini adım olarak kullanılır.
// direction < 0 ise sonuç negatiftir, 0 ise adım yoktur.
func ScrollStep(cardWidth, containerWidth float64, direction int) float64 {
	if direction == 0 {
		return 0
	}

	step := cardWidth
	if step <= 0 {
		step = containerWidth * EstimatedCardRatio
	}
	step += CardGap

	if direction < 0 {
		return -step
	}
	return step
}
