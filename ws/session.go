package ws

import "context"

// EventSink, bir oturumun event gönderdiği hedef. Client bunu karşılar.
//
// Send bloklamaz; bağlantı kapandıysa veya buffer doluysa false döner.
type EventSink interface {
	Send(event Event) bool
}

// DisplaySession, tek bir sayfa görüntülemesinin yorum şeridi durumu.
//
// Client'ın okuma goroutine'i Next/Prev/SetVisible/Scroll'u çağırır;
// oturum kendi zamanlayıcısıyla da snapshot gönderebilir. Close sonrası
// tüm metotlar etkisizdir.
type DisplaySession interface {
	Start(ctx context.Context)
	Next()
	Prev()
	SetVisible(count int)
	Scroll(req ScrollData)
	Close()
}

// SessionFactory, yeni bağlantı için oturum üretir.
// viewID boş olabilir (ön yükleme yok); bu durumda oturum listeyi kendisi çözer.
type SessionFactory interface {
	NewSession(viewID string, sink EventSink) DisplaySession
}
