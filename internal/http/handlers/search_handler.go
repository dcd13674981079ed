// README: Search endpoint; parses query parameters, runs the search pipeline.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sawari/internal/config"
	"sawari/internal/geo"
	"sawari/internal/modules/search"
)

// Searcher is the search pipeline capability this handler needs.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type SearchHandler struct {
	search    Searcher
	gazetteer *geo.Gazetteer
	cfg       config.SearchConfig
	loc       *time.Location
}

func NewSearchHandler(svc Searcher, gz *geo.Gazetteer, cfg config.SearchConfig) *SearchHandler {
	return &SearchHandler{search: svc, gazetteer: gz, cfg: cfg, loc: cfg.Location()}
}

// Search handles GET /api/rides/search.
func (h *SearchHandler) Search(c *gin.Context) {
	params := search.Params{
		From:            c.Query("from"),
		To:              c.Query("to"),
		FromLat:         c.Query("fromLat"),
		FromLng:         c.Query("fromLng"),
		ToLat:           c.Query("toLat"),
		ToLng:           c.Query("toLng"),
		Date:            c.Query("date"),
		Passengers:      c.Query("passengers"),
		MaxPrice:        c.Query("maxPrice"),
		VehicleType:     c.Query("vehicleType"),
		SortBy:          c.Query("sortBy"),
		MaxDistance:     c.Query("maxDistance"),
		DestMaxDistance: c.Query("destMaxDistance"),
		EnRouteMatching: c.Query("enRouteMatching"),
		TimeWindow:      c.Query("timeWindow"),
		Page:            c.Query("page"),
		PageSize:        c.Query("pageSize"),
	}

	q, err := search.ParseQuery(params, h.cfg, h.loc)
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, errorResponse{
				Error:   "Invalid search parameters",
				Details: verr.Violations,
			})
			return
		}
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to search rides")
		return
	}
	res.Metadata.Warnings = h.locationWarnings(q)
	c.JSON(http.StatusOK, res)
}

// locationWarnings adds "did you mean" hints for free-text names that are
// not known gazetteer cities. Unknown names are allowed; this is advisory.
func (h *SearchHandler) locationWarnings(q search.Query) []string {
	var warnings []string
	for _, side := range []struct {
		label string
		term  string
	}{
		{"Origin", q.From},
		{"Destination", q.To},
	} {
		if side.term == "" {
			continue
		}
		if _, known := h.gazetteer.Lookup(side.term); known {
			continue
		}
		if sugg := h.gazetteer.Suggest(side.term, 5); len(sugg) > 0 {
			warnings = append(warnings,
				fmt.Sprintf("%s: Did you mean: %s?", side.label, strings.Join(sugg, ", ")))
		}
	}
	return warnings
}

// LocationSuggestions handles GET /api/locations/suggestions.
func (h *SearchHandler) LocationSuggestions(c *gin.Context) {
	query := c.Query("q")
	c.JSON(http.StatusOK, gin.H{"suggestions": h.gazetteer.Suggest(query, 10)})
}

// ValidateLocation handles GET /api/locations/validate. Unknown names are
// not an error; the response carries suggestions instead of coordinates.
func (h *SearchHandler) ValidateLocation(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		writeError(c, http.StatusBadRequest, "'name' parameter is required")
		return
	}
	if p, ok := h.gazetteer.Lookup(name); ok {
		c.JSON(http.StatusOK, gin.H{"valid": true, "name": name, "lat": p.Lat, "lng": p.Lng})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": false, "suggestions": h.gazetteer.Suggest(name, 5)})
}
