// Package site describes the dashboard to search engines and link previews.
package site

import (
	"encoding/xml"
	"strings"
	"time"
)

const (
	DefaultURL = "https://toheoje-dashboard.vercel.app"

	Name        = "토허제 대시보드"
	Title       = "토허제 대시보드 - 서울시 토지거래허가 현황"
	Description = "서울시 25개 자치구 토지거래허가 신청/처리 현황을 확인하세요. 자치구별, 처리결과별 통계와 건물명 정보를 제공합니다. 2025년 10월 15일 이후 데이터를 매일 업데이트합니다."
	Summary     = "서울시 25개 자치구 토지거래허가 신청/처리 현황을 한눈에 확인하세요."
)

var keywords = []string{
	"토지거래허가제", "토허제", "서울시", "부동산", "토지거래", "허가현황",
	"강남구", "서초구", "송파구", "용산구",
}

type (
	OpenGraph struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		SiteName    string `json:"siteName"`
		Locale      string `json:"locale"`
		Type        string `json:"type"`
	}

	Twitter struct {
		Card        string `json:"card"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	Robots struct {
		Index  bool `json:"index"`
		Follow bool `json:"follow"`
	}

	// Metadata is the document head of the dashboard page.
	Metadata struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Keywords    []string  `json:"keywords"`
		Creator     string    `json:"creator"`
		Canonical   string    `json:"canonical"`
		OpenGraph   OpenGraph `json:"openGraph"`
		Twitter     Twitter   `json:"twitter"`
		Robots      Robots    `json:"robots"`
		JSONLD      JSONLD    `json:"jsonLd"`
	}

	// JSONLD is the schema.org WebSite description.
	JSONLD struct {
		Context     string `json:"@context"`
		Type        string `json:"@type"`
		Name        string `json:"name"`
		URL         string `json:"url"`
		Description string `json:"description"`
		InLanguage  string `json:"inLanguage"`
	}
)

// Site holds the canonical address everything else derives from.
type Site struct {
	url string
}

// New returns the site at baseURL, or DefaultURL when empty.
func New(baseURL string) Site {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return Site{url: baseURL}
}

func (s Site) URL() string { return s.url }

func (s Site) Metadata() Metadata {
	return Metadata{
		Title:       Title,
		Description: Description,
		Keywords:    append([]string(nil), keywords...),
		Creator:     Name,
		Canonical:   s.url,
		OpenGraph: OpenGraph{
			Title:       Title,
			Description: Summary,
			URL:         s.url,
			SiteName:    Name,
			Locale:      "ko_KR",
			Type:        "website",
		},
		Twitter: Twitter{Card: "summary_large_image", Title: Title, Description: Summary},
		Robots:  Robots{Index: true, Follow: true},
		JSONLD:  s.JSONLD(),
	}
}

func (s Site) JSONLD() JSONLD {
	return JSONLD{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        Name,
		URL:         s.url,
		Description: "서울시 토지거래허가 현황 대시보드",
		InLanguage:  "ko-KR",
	}
}

type (
	urlSet struct {
		XMLName xml.Name     `xml:"urlset"`
		XMLNS   string       `xml:"xmlns,attr"`
		URLs    []sitemapURL `xml:"url"`
	}

	sitemapURL struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	}
)

// Sitemap renders the single-page sitemap with lastmod set to now.
func (s Site) Sitemap(now time.Time) ([]byte, error) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        s.url,
			LastMod:    now.UTC().Format(time.RFC3339),
			ChangeFreq: "daily",
			Priority:   "1",
		}},
	}
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
