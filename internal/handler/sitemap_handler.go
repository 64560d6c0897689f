package handler

import (
	"net/http"

	"krushak/internal/service"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
)

// SitemapHandler serves sitemap.xml.
type SitemapHandler struct {
	sitemapService service.SitemapServicer
}

// NewSitemapHandler creates a new SitemapHandler.
func NewSitemapHandler(sitemapService service.SitemapServicer) *SitemapHandler {
	return &SitemapHandler{sitemapService: sitemapService}
}

// Get renders the sitemap from live record IDs.
func (h *SitemapHandler) Get(c *gin.Context) {
	body, err := h.sitemapService.Generate(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}
