package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"krushak/internal/repository"
)

// SitemapService renders sitemap.xml from live user and equipment IDs.
type SitemapService struct {
	userRepo      repository.UserRepository
	equipmentRepo repository.EquipmentRepository
	baseURL       string
}

// NewSitemapService creates a new SitemapService.
func NewSitemapService(userRepo repository.UserRepository, equipmentRepo repository.EquipmentRepository, baseURL string) *SitemapService {
	return &SitemapService{
		userRepo:      userRepo,
		equipmentRepo: equipmentRepo,
		baseURL:       baseURL,
	}
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Generate builds the sitemap: static pages, then one entry per equipment
// listing and one per user profile.
func (s *SitemapService) Generate(ctx context.Context) ([]byte, error) {
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: s.baseURL, ChangeFreq: "daily"},
			{Loc: s.baseURL + "/equipment", ChangeFreq: "hourly"},
		},
	}

	lastMod := time.Now().Format("2006-01-02")

	equipmentIDs, err := s.equipmentRepo.FindAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment for sitemap: %w", err)
	}
	for _, id := range equipmentIDs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/equipment/%s", s.baseURL, id.Hex()),
			LastMod: lastMod,
		})
	}

	userIDs, err := s.userRepo.FindAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for sitemap: %w", err)
	}
	for _, id := range userIDs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/profile/%s", s.baseURL, id.Hex()),
			LastMod: lastMod,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
