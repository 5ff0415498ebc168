package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stocktargets/internal/store"
)

const (
	defaultListLimit        = 100
	defaultUndervaluedLimit = 5
	maxUndervaluedLimit     = 20
)

func (s *Server) handleRoot(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, "/data/")
}

// handleList serves GET /data/ with offset+limit pagination and an optional
// minimum-volume filter.
func (s *Server) handleList(c *gin.Context) {
	skip, err := intQuery(c, "skip", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := intQuery(c, "limit", defaultListLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	if skip < 0 {
		badRequest(c, errors.New("skip must be >= 0"))
		return
	}
	if limit < 0 {
		badRequest(c, errors.New("limit must be >= 0"))
		return
	}
	minVolume, err := optInt64Query(c, "min_volume")
	if err != nil {
		badRequest(c, err)
		return
	}

	records, err := s.store.List(c.Request.Context(), store.ListFilter{
		Skip:      skip,
		Limit:     limit,
		MinVolume: minVolume,
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// handleGetSymbol serves GET /data/:symbol. The path symbol is upper-cased
// before lookup so /data/aapl and /data/AAPL hit the same row.
func (s *Server) handleGetSymbol(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	rec, err := s.store.GetBySymbol(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("stock %s not found", symbol)})
			return
		}
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// handleStats serves GET /stats/ with aggregates recomputed per call.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.Stats(c.Request.Context())
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// handleUndervalued serves GET /undervalued/.
func (s *Server) handleUndervalued(c *gin.Context) {
	limit, err := intQuery(c, "limit", defaultUndervaluedLimit)
	if err != nil {
		badRequest(c, err)
		return
	}
	if limit < 1 || limit > maxUndervaluedLimit {
		badRequest(c, fmt.Errorf("limit must be between 1 and %d", maxUndervaluedLimit))
		return
	}

	minVolume, err := optInt64Query(c, "min_volume")
	if err != nil {
		badRequest(c, err)
		return
	}
	minPrice, err := optNonNegFloatQuery(c, "min_price")
	if err != nil {
		badRequest(c, err)
		return
	}
	maxPrice, err := optNonNegFloatQuery(c, "max_price")
	if err != nil {
		badRequest(c, err)
		return
	}
	// A negative threshold is legitimate here: "at most 30% below the
	// low target" is min_target_diff=-30.
	minTargetDiff, err := optFloatQuery(c, "min_target_diff")
	if err != nil {
		badRequest(c, err)
		return
	}
	excludeAboveMedian, err := boolQuery(c, "exclude_above_median", false)
	if err != nil {
		badRequest(c, err)
		return
	}
	ascending, err := boolQuery(c, "ascending", false)
	if err != nil {
		badRequest(c, err)
		return
	}

	sortBy := c.DefaultQuery("sort_by", store.DefaultSortColumn)
	if !store.ValidSortColumn(sortBy) {
		badRequest(c, fmt.Errorf("sort_by must be one of %s", strings.Join(store.SortColumns(), ", ")))
		return
	}

	records, err := s.store.Undervalued(c.Request.Context(), store.UndervaluedFilter{
		Limit:              limit,
		MinVolume:          minVolume,
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		MinTargetDiff:      minTargetDiff,
		ExcludeAboveMedian: excludeAboveMedian,
		SortBy:             sortBy,
		Ascending:          ascending,
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stocks found matching the specified criteria"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// storeError hides database details from clients but keeps them in the log.
func (s *Server) storeError(c *gin.Context, err error) {
	s.logger.Error("store query failed", "path", c.Request.URL.Path, "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
}
