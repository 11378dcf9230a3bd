// Package ws, yorum şeridinin sunucu tarafındaki gösterim oturumlarına
// WebSocket üzerinden erişim sağlar.
//
// Mimari:
//   - Hub: açık bağlantıları takip eder, kapanışta oturumları sonlandırır
//   - Client: tek bir WebSocket bağlantısı (sayfa görüntülemesi başına bir tane)
//   - DisplaySession: bağlantının arkasındaki oturum (services.ReviewSession)
//
// Akış:
//  1. GET / yorumları çözer, listeyi bir sayfa kimliği (view) altında saklar
//  2. Sayfa /ws/reviews?view=<id> adresine bağlanır
//  3. Handler, SessionFactory ile oturumu oluşturur ve Start eder
//  4. Oturum reviews_snapshot event'lerini EventSink (Client) üzerinden yollar
//  5. Bağlantı kapanınca Hub oturumu Close eder; zamanlayıcı durur
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Seq, her outbound event'e verilen artan sayı; sayfa eski bir snapshot'ı
// yenisinin üzerine yazmamak için kullanır.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat      = "heartbeat"       // her 30sn'de bir
	OpReviewsNext    = "reviews_next"    // pencereyi bir ileri kaydır
	OpReviewsPrev    = "reviews_prev"    // pencereyi bir geri kaydır
	OpReviewsVisible = "reviews_visible" // görünür kart sayısı değişti (breakpoint)
	OpReviewsScroll  = "reviews_scroll"  // mobil şeritte ok tuşu
)

// Server → Client operasyonları
const (
	OpHeartbeatAck    = "heartbeat_ack"
	OpReviewsSnapshot = "reviews_snapshot" // şeridin tam durumu, etiketler yeniden hesaplanmış
	OpReviewsScrollBy = "reviews_scroll_by"
)

// VisibleData, reviews_visible payload'ı.
type VisibleData struct {
	Count int `json:"count"`
}

// ScrollData, reviews_scroll payload'ı. Genişlikler piksel.
type ScrollData struct {
	Direction      int     `json:"direction"`
	CardWidth      float64 `json:"card_width"`
	ContainerWidth float64 `json:"container_width"`
}

// ScrollByData, reviews_scroll_by payload'ı: şeridin kaydırılacağı miktar.
type ScrollByData struct {
	Left float64 `json:"left"`
}

// ReviewCard, tek bir yorum kartının gösterime hazır hali.
// ws paketinin models'a bağımlılığını kırmak için ayrı tanımlanır.
type ReviewCard struct {
	AuthorName  string `json:"author_name"`
	Rating      int    `json:"rating"`
	FilledStars int    `json:"filled_stars"`
	Text        string `json:"text,omitempty"`
	Label       string `json:"label"`
}

// SnapshotData, reviews_snapshot payload'ı.
//
// Cards tüm listeyi içerir (mobil şerit hepsini gösterir); masaüstü penceresi
// Cards[Index : Index+VisibleCount] aralığıdır.
type SnapshotData struct {
	Source       string       `json:"source"`
	Cards        []ReviewCard `json:"cards"`
	Index        int          `json:"index"`
	MaxIndex     int          `json:"max_index"`
	VisibleCount int          `json:"visible_count"`
	Total        int          `json:"total"`
	CanPrev      bool         `json:"can_prev"`
	CanNext      bool         `json:"can_next"`
}
