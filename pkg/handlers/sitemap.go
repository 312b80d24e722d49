package handlers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// SitemapHandler serves the static sitemap of the public site.
type SitemapHandler struct {
	document []byte
	logger   *zap.Logger
}

// NewSitemapHandler renders the sitemap for siteURL once.
func NewSitemapHandler(siteURL string, logger *zap.Logger) (*SitemapHandler, error) {
	base := strings.TrimSuffix(siteURL, "/")
	set := sitemapURLSet{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{
			{Loc: base + "/", ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: base + "/contact", ChangeFreq: "monthly", Priority: "0.8"},
		},
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}

	return &SitemapHandler{
		document: append([]byte(xml.Header), body...),
		logger:   logger,
	}, nil
}

// RegisterRoutes registers /sitemap and /sitemap.xml.
func (h *SitemapHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /sitemap", h.Sitemap)
	mux.HandleFunc("GET /sitemap.xml", h.Sitemap)
}

// Sitemap handles GET /sitemap.
func (h *SitemapHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.document); err != nil {
		h.logger.Debug("Failed to write sitemap", zap.Error(err))
	}
}
