package models

import "time"

// ReviewImport, sqlite yorum kataloğuna yapılmış bir içe aktarımın kaydı.
type ReviewImport struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Checksum    string    `json:"checksum"` // dosya içeriğinin sha256'sı
	ReviewCount int       `json:"review_count"`
	ImportedAt  time.Time `json:"imported_at"`
}
