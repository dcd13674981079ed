// README: HTTP route registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sawari/internal/http/handlers"
	"sawari/internal/http/middleware"
)

func NewRouter(searchHandler *handlers.SearchHandler, rideHandler *handlers.RideHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.GET("/rides/search", searchHandler.Search)
	api.GET("/rides/route-suggestions", rideHandler.RouteSuggestions)
	api.GET("/locations/suggestions", searchHandler.LocationSuggestions)
	api.GET("/locations/validate", searchHandler.ValidateLocation)

	api.POST("/rides", rideHandler.Publish)
	api.PUT("/rides/:id", rideHandler.Update)
	api.GET("/rides/:id", rideHandler.Get)
	api.GET("/rides/my", rideHandler.ListMine)

	return r
}
