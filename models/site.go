package models

import (
	"errors"
	"html/template"
	"strings"
)

// SiteContent, sayfanın yapılandırılabilir içeriği (static/content/site.yaml).
// AboutHTML yaml'dan değil about.md'den üretilir.
type SiteContent struct {
	Practice   Practice       `yaml:"practice"`
	Links      Links          `yaml:"links"`
	Images     SiteImages     `yaml:"images"`
	Nav        []NavItem      `yaml:"nav"`
	Hero       Hero           `yaml:"hero"`
	About      About          `yaml:"about"`
	Services   []Service      `yaml:"services"`
	Experience []Experience   `yaml:"experience"`
	Gallery    []GalleryImage `yaml:"gallery"`
	Embeds     Embeds         `yaml:"embeds"`

	AboutHTML template.HTML `yaml:"-"`
}

// Practice, muayenehanenin kimlik ve iletişim bilgileri.
type Practice struct {
	Name          string        `yaml:"name"`
	Title         string        `yaml:"title"` // "KBB Uzmanı • Rinoplasti"
	Phone         string        `yaml:"phone"` // görünen biçim
	Telephone     string        `yaml:"telephone"` // uluslararası biçim
	WhatsApp      string        `yaml:"whatsapp"` // görünen biçim
	InstagramUser string        `yaml:"instagram_user"`
	Specialties   []string      `yaml:"specialties"`
	Address       PostalAddress `yaml:"address"`
}

// PostalAddress, schema.org PostalAddress alanları.
type PostalAddress struct {
	Type       string `yaml:"-" json:"@type"`
	Street     string `yaml:"street" json:"streetAddress"`
	Locality   string `yaml:"locality" json:"addressLocality"`
	Region     string `yaml:"region" json:"addressRegion"`
	PostalCode string `yaml:"postal_code" json:"postalCode,omitempty"`
	Country    string `yaml:"country" json:"addressCountry"`
}

// Line, adresi tek satır olarak döner.
func (a PostalAddress) Line() string {
	parts := []string{a.Street, a.Locality, a.Region}
	line := strings.Join(nonEmpty(parts), ", ")
	if a.PostalCode != "" {
		line += " " + a.PostalCode
	}
	return line
}

// Links, sayfadaki sabit dış bağlantılar.
type Links struct {
	Tel         string `yaml:"tel"`
	WhatsApp    string `yaml:"whatsapp"`
	Instagram   string `yaml:"instagram"`
	Facebook    string `yaml:"facebook"`
	GoogleShare string `yaml:"google_share"`
}

// SiteImages, /images altındaki sabit görsel adları.
type SiteImages struct {
	Hero    string `yaml:"hero"`
	Surgery string `yaml:"surgery"`
	Avatar  string `yaml:"avatar"`
}

type NavItem struct {
	Anchor string `yaml:"anchor"`
	Label  string `yaml:"label"`
}

type Hero struct {
	Heading    string   `yaml:"heading"`
	Subheading string   `yaml:"subheading"`
	Lead       string   `yaml:"lead"`
	Badges     []string `yaml:"badges"`
	Stats      []Stat   `yaml:"stats"`
}

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// About, biyografi bölümünün madde listesi (eğitim ve görevler).
type About struct {
	Highlights []string `yaml:"highlights"`
}

type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Experience struct {
	Years string `yaml:"years"`
	Place string `yaml:"place"`
	Role  string `yaml:"role"`
}

type GalleryImage struct {
	Src string `yaml:"src"`
	Alt string `yaml:"alt"`
}

// Embeds, sayfaya gömülen harici iframe adresleri. İçerikleri opaktır.
type Embeds struct {
	Map           string `yaml:"map"`
	InstagramFeed string `yaml:"instagram_feed"`
}

// Validate, içeriğin sayfayı çizmek için yeterli olup olmadığını kontrol eder.
func (c *SiteContent) Validate() error {
	if strings.TrimSpace(c.Practice.Name) == "" {
		return errors.New("practice.name is required")
	}
	if c.Links.Tel == "" {
		return errors.New("links.tel is required")
	}
	for _, item := range c.Nav {
		if item.Anchor == "" || item.Label == "" {
			return errors.New("nav items need anchor and label")
		}
	}
	return nil
}

// Physician, schema.org Physician yapılandırılmış verisi (JSON-LD).
type Physician struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Name             string        `json:"name"`
	MedicalSpecialty []string      `json:"medicalSpecialty,omitempty"`
	SameAs           []string      `json:"sameAs,omitempty"`
	Address          PostalAddress `json:"address"`
	Telephone        string        `json:"telephone,omitempty"`
}

// Physician, içerikten JSON-LD nesnesini üretir.
func (c *SiteContent) Physician() Physician {
	addr := c.Practice.Address
	addr.Type = "PostalAddress"

	return Physician{
		Context:          "https://schema.org",
		Type:             "Physician",
		Name:             c.Practice.Name,
		MedicalSpecialty: c.Practice.Specialties,
		SameAs:           nonEmpty([]string{c.Links.Instagram, c.Links.Facebook, c.Links.GoogleShare}),
		Address:          addr,
		Telephone:        c.Practice.Telephone,
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
