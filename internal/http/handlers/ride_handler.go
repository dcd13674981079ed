// README: Ride publishing and maintenance endpoints for drivers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

type locationReq struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (l locationReq) toLocation(routeIndex int) ride.Location {
	return ride.Location{
		Name:       l.Name,
		Point:      types.Point{Lat: l.Lat, Lng: l.Lng},
		RouteIndex: routeIndex,
	}
}

type publishRideReq struct {
	DriverID       string        `json:"driverId"`
	Origin         locationReq   `json:"origin"`
	Destination    locationReq   `json:"destination"`
	Stops          []locationReq `json:"stops"`
	RoutePolyline  string        `json:"routePolyline"`
	TotalDistance  float64       `json:"totalDistance"`
	EstimatedDur   int           `json:"estimatedDuration"`
	DateTime       time.Time     `json:"dateTime"`
	AvailableSeats int           `json:"availableSeats"`
	PricePerSeat   float64       `json:"pricePerSeat"`
	VehicleID      string        `json:"vehicleId"`
}

// Publish handles POST /api/rides.
func (h *RideHandler) Publish(c *gin.Context) {
	var req publishRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cmd := ride.PublishCommand{
		DriverID:       types.ID(req.DriverID),
		Origin:         req.Origin.toLocation(0),
		Destination:    req.Destination.toLocation(len(req.Stops) + 1),
		RoutePolyline:  req.RoutePolyline,
		TotalDistanceM: req.TotalDistance,
		EstimatedDurS:  req.EstimatedDur,
		DateTime:       req.DateTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
		VehicleID:      types.ID(req.VehicleID),
	}
	for i, stop := range req.Stops {
		cmd.Stops = append(cmd.Stops, stop.toLocation(i+1))
	}

	r, err := h.rides.Publish(c.Request.Context(), cmd)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": r.ID, "searchKeywords": r.SearchKeywords})
}

type updateRideReq struct {
	DriverID       string         `json:"driverId"`
	Origin         *locationReq   `json:"origin"`
	Destination    *locationReq   `json:"destination"`
	Stops          *[]locationReq `json:"stops"`
	DateTime       *time.Time     `json:"dateTime"`
	AvailableSeats *int           `json:"availableSeats"`
	PricePerSeat   *float64       `json:"pricePerSeat"`
	VehicleID      *string        `json:"vehicleId"`
}

// Update handles PUT /api/rides/:id.
func (h *RideHandler) Update(c *gin.Context) {
	rideID := c.Param("id")
	var req updateRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DriverID == "" {
		writeError(c, http.StatusBadRequest, "driverId is required")
		return
	}

	cmd := ride.UpdateCommand{
		DateTime:       req.DateTime,
		AvailableSeats: req.AvailableSeats,
		PricePerSeat:   req.PricePerSeat,
	}
	if req.Origin != nil {
		o := req.Origin.toLocation(0)
		cmd.Origin = &o
	}
	if req.Destination != nil {
		d := req.Destination.toLocation(0)
		cmd.Destination = &d
	}
	if req.Stops != nil {
		cmd.StopsSet = true
		for i, stop := range *req.Stops {
			cmd.Stops = append(cmd.Stops, stop.toLocation(i+1))
		}
	}
	if req.VehicleID != nil {
		v := types.ID(*req.VehicleID)
		cmd.VehicleID = &v
	}

	r, err := h.rides.Update(c.Request.Context(), types.ID(req.DriverID), types.ID(rideID), cmd)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ride updated", "id": r.ID})
}

// Get handles GET /api/rides/:id.
func (h *RideHandler) Get(c *gin.Context) {
	r, err := h.rides.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ride": r})
}

// ListMine handles GET /api/rides/my.
func (h *RideHandler) ListMine(c *gin.Context) {
	driverID := c.Query("driverId")
	if driverID == "" {
		writeError(c, http.StatusBadRequest, "driverId is required")
		return
	}
	rides, err := h.rides.ListByDriver(c.Request.Context(), types.ID(driverID))
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rides": rides})
}

// RouteSuggestions handles GET /api/rides/route-suggestions.
func (h *RideHandler) RouteSuggestions(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		writeError(c, http.StatusBadRequest, "Both 'from' and 'to' parameters are required")
		return
	}
	suggestions, err := h.rides.RouteSuggestions(c.Request.Context(), from, to)
	if err != nil {
		writeRideError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
