// Package seo, sayfa <head> bölümüne eklenen yapılandırılmış veri
// (JSON-LD) script'lerini yönetir.
//
// Her script sabit bir id ile eklenir. Aynı id ile tekrar eklemek yeni bir
// script oluşturmaz, mevcut olanın içeriğini yerinde günceller; içerik
// yeniden yüklendiğinde head'de kopya oluşmaz.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sync"
)

// JSONLDType, script elementinin type attribute'u.
const JSONLDType = "application/ld+json"

// Script, head'e eklenen tek bir JSON-LD script'i.
//
// Content json.Marshal çıktısıdır; encoding/json <, > ve & karakterlerini
// escape ettiği için script içinde güvenle yazılabilir.
type Script struct {
	ID      string
	Type    string
	Content template.JS
}

// Head, sıralı ve id'ye göre tekil script listesi. Eşzamanlı kullanım güvenlidir.
type Head struct {
	mu      sync.RWMutex
	scripts []Script
}

// NewHead, boş bir Head oluşturur.
func NewHead() *Head {
	return &Head{}
}

// Attach, v'yi JSON'a çevirip id ile head'e ekler. id zaten varsa içeriği
// değiştirilir ve sırası korunur.
func (h *Head) Attach(id string, v any) error {
	if id == "" {
		return fmt.Errorf("seo: script id is required")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("seo: failed to marshal %s: %w", id, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.scripts {
		if h.scripts[i].ID == id {
			h.scripts[i].Content = template.JS(data)
			return nil
		}
	}

	h.scripts = append(h.scripts, Script{ID: id, Type: JSONLDType, Content: template.JS(data)})
	return nil
}

// Scripts, script listesinin bir kopyasını döner.
func (h *Head) Scripts() []Script {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Script, len(h.scripts))
	copy(out, h.scripts)
	return out
}
