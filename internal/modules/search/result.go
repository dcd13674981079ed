// README: Search result DTOs returned to callers and stored in the result cache.
package search

import (
	"time"

	"sawari/internal/modules/ride"
)

type LocationDTO struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type RideResult struct {
	ID             string        `json:"id"`
	DriverID       string        `json:"driverId"`
	DriverName     string        `json:"driverName,omitempty"`
	DriverRating   float64       `json:"driverRating"`
	Origin         LocationDTO   `json:"origin"`
	Destination    LocationDTO   `json:"destination"`
	Stops          []LocationDTO `json:"stops,omitempty"`
	DateTime       time.Time     `json:"dateTime"`
	AvailableSeats int           `json:"availableSeats"`
	PricePerSeat   float64       `json:"pricePerSeat"`
	VehicleType    string        `json:"vehicleType,omitempty"`
	VehicleModel   string        `json:"vehicleModel,omitempty"`
	TotalDistanceM float64       `json:"totalDistance,omitempty"`
	EstimatedDurS  int           `json:"estimatedDuration,omitempty"`
	RelevanceScore float64       `json:"relevanceScore"`
}

type Pagination struct {
	TotalResults int `json:"totalResults"`
	CurrentPage  int `json:"currentPage"`
	PageSize     int `json:"pageSize"`
}

type Metadata struct {
	ResultCount  int      `json:"resultCount"`
	Cached       bool     `json:"cached"`
	SearchTimeMs int64    `json:"searchTimeMs"`
	Warnings     []string `json:"warnings,omitempty"`
}

type Result struct {
	Rides      []RideResult `json:"rides"`
	Pagination *Pagination  `json:"pagination,omitempty"`
	Metadata   Metadata     `json:"metadata"`
}

func toRideResult(s ScoredRide) RideResult {
	out := RideResult{
		ID:             string(s.ID),
		DriverID:       string(s.DriverID),
		DriverName:     s.DriverName,
		DriverRating:   s.DriverRating,
		Origin:         toLocationDTO(s.Origin),
		Destination:    toLocationDTO(s.Destination),
		DateTime:       s.DateTime,
		AvailableSeats: s.AvailableSeats,
		PricePerSeat:   s.PricePerSeat,
		VehicleType:    s.VehicleType,
		VehicleModel:   s.VehicleModel,
		TotalDistanceM: s.TotalDistanceM,
		EstimatedDurS:  s.EstimatedDurS,
		RelevanceScore: s.Score,
	}
	for _, stop := range s.Stops {
		out.Stops = append(out.Stops, toLocationDTO(stop))
	}
	return out
}

func toLocationDTO(l ride.Location) LocationDTO {
	return LocationDTO{Name: l.Name, Lat: l.Point.Lat, Lng: l.Point.Lng}
}
