package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jamroom/internal/core"
)

type SearchHandler struct {
	Provider core.SearchProvider
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	results, err := h.Provider.Search(c.Request.Context(), query)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"results": results})
	case errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query required"})
	case errors.Is(err, core.ErrNoResults):
		c.JSON(http.StatusNotFound, gin.H{"error": "no results"})
	case errors.Is(err, core.ErrUpstreamUnavailable):
		log.Warn().Err(err).Str("module", "adapters.httpapi").Msg("search upstream failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "search unavailable"})
	default:
		log.Error().Err(err).Str("module", "adapters.httpapi").Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
