// README: Typed search query, parameter parsing/validation, and cache-key canonicalization.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mmcloughlin/geohash"

	"sawari/internal/config"
	"sawari/internal/types"
)

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortDeparture SortMode = "departure"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// Params holds the raw recognized query parameters as the caller supplied
// them. Empty string means absent.
type Params struct {
	From            string
	To              string
	FromLat         string
	FromLng         string
	ToLat           string
	ToLng           string
	Date            string
	Passengers      string
	MaxPrice        string
	VehicleType     string
	SortBy          string
	MaxDistance     string
	DestMaxDistance string
	EnRouteMatching string
	TimeWindow      string
	Page            string
	PageSize        string
}

// Query is the validated, typed form of a search request. Free text takes
// precedence over raw coordinates when both are given for a side.
type Query struct {
	From      string
	To        string
	FromPoint *types.Point
	ToPoint   *types.Point

	// Date is midnight of the requested day in the service timezone.
	Date *time.Time

	Passengers  int      `validate:"omitempty,min=1,max=10"`
	MaxPrice    *float64 `validate:"omitempty"`
	VehicleType string
	SortBy      SortMode `validate:"oneof=relevance departure price_asc price_desc"`

	FromRadiusM float64 `validate:"gt=0"`
	ToRadiusM   float64 `validate:"gt=0"`
	EnRoute     bool

	// TimeWindowH is accepted for forward compatibility; the date filter
	// always uses the full calendar day.
	TimeWindowH int

	Page     int `validate:"min=0"`
	PageSize int `validate:"min=0"`
}

// ValidationError rejects a query with the full list of violations; no
// partial execution happens.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid search parameters: " + strings.Join(e.Violations, "; ")
}

var validate = validator.New()

// ParseQuery converts raw parameters into a Query, applying defaults from
// cfg. All violations are collected before rejecting.
func ParseQuery(p Params, cfg config.SearchConfig, loc *time.Location) (Query, error) {
	var violations []string

	q := Query{
		From:        strings.TrimSpace(p.From),
		To:          strings.TrimSpace(p.To),
		VehicleType: strings.TrimSpace(p.VehicleType),
		SortBy:      SortRelevance,
		FromRadiusM: cfg.DefaultRadiusMeters,
		ToRadiusM:   cfg.DefaultRadiusMeters,
		EnRoute:     true,
	}

	if pt, err := parsePoint(p.FromLat, p.FromLng); err != nil {
		violations = append(violations, "origin: "+err.Error())
	} else {
		q.FromPoint = pt
	}
	if pt, err := parsePoint(p.ToLat, p.ToLng); err != nil {
		violations = append(violations, "destination: "+err.Error())
	} else {
		q.ToPoint = pt
	}

	if p.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", p.Date, loc)
		if err != nil {
			violations = append(violations, "invalid date")
		} else {
			q.Date = &d
		}
	}
	if p.Passengers != "" {
		n, err := strconv.Atoi(p.Passengers)
		switch {
		case err != nil:
			violations = append(violations, "number of passengers must be a whole number")
		case n == 0:
			// Zero reads as absent to the validator, so reject it here.
			violations = append(violations, "number of passengers must be between 1 and 10")
		default:
			q.Passengers = n
		}
	}
	if p.MaxPrice != "" {
		v, err := strconv.ParseFloat(p.MaxPrice, 64)
		if err != nil || v < 0 {
			violations = append(violations, "invalid max price")
		} else {
			q.MaxPrice = &v
		}
	}
	if p.SortBy != "" {
		q.SortBy = SortMode(p.SortBy)
	}
	if p.MaxDistance != "" {
		v, err := strconv.ParseFloat(p.MaxDistance, 64)
		if err != nil {
			violations = append(violations, "invalid maxDistance")
		} else {
			q.FromRadiusM = v
		}
	}
	if p.DestMaxDistance != "" {
		v, err := strconv.ParseFloat(p.DestMaxDistance, 64)
		if err != nil {
			violations = append(violations, "invalid destMaxDistance")
		} else {
			q.ToRadiusM = v
		}
	}
	if p.EnRouteMatching != "" {
		b, err := strconv.ParseBool(p.EnRouteMatching)
		if err != nil {
			violations = append(violations, "invalid enRouteMatching")
		} else {
			q.EnRoute = b
		}
	}
	if p.TimeWindow != "" {
		n, err := strconv.Atoi(p.TimeWindow)
		if err != nil || n < 0 {
			violations = append(violations, "invalid timeWindow")
		} else {
			q.TimeWindowH = n
		}
	}
	if p.Page != "" {
		n, err := strconv.Atoi(p.Page)
		if err != nil || n < 1 {
			violations = append(violations, "invalid page")
		} else {
			q.Page = n
		}
	}
	if p.PageSize != "" {
		n, err := strconv.Atoi(p.PageSize)
		if err != nil || n < 1 {
			violations = append(violations, "invalid pageSize")
		} else {
			q.PageSize = n
		}
	}

	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				violations = append(violations, describeFieldError(fe))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	if len(violations) > 0 {
		return Query{}, &ValidationError{Violations: violations}
	}
	return q, nil
}

func parsePoint(latRaw, lngRaw string) (*types.Point, error) {
	if latRaw == "" && lngRaw == "" {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, fmt.Errorf("both lat and lng are required")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed latitude")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed longitude")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("coordinates out of range")
	}
	return &types.Point{Lat: lat, Lng: lng}, nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Passengers":
		return "number of passengers must be between 1 and 10"
	case "SortBy":
		return "sortBy must be one of relevance, departure, price_asc, price_desc"
	case "FromRadiusM":
		return "maxDistance must be positive"
	case "ToRadiusM":
		return "destMaxDistance must be positive"
	default:
		return fmt.Sprintf("invalid %s", fe.Field())
	}
}

// cacheKeyGeohashChars rounds raw coordinates to ~600m cells so equivalent
// nearby queries share one cache entry.
const cacheKeyGeohashChars = 6

// CacheKey derives a deterministic key from the canonicalized query:
// undefined parameters dropped, keys sorted, coordinates geohash-rounded.
// Pagination is excluded because the pre-pagination ranked set is cached.
func (q Query) CacheKey() string {
	params := map[string]string{}
	if q.From != "" {
		params["from"] = strings.ToLower(q.From)
	} else if q.FromPoint != nil {
		params["fromPoint"] = geohash.EncodeWithPrecision(q.FromPoint.Lat, q.FromPoint.Lng, cacheKeyGeohashChars)
	}
	if q.To != "" {
		params["to"] = strings.ToLower(q.To)
	} else if q.ToPoint != nil {
		params["toPoint"] = geohash.EncodeWithPrecision(q.ToPoint.Lat, q.ToPoint.Lng, cacheKeyGeohashChars)
	}
	if q.Date != nil {
		params["date"] = q.Date.Format("2006-01-02")
	}
	if q.Passengers > 0 {
		params["passengers"] = strconv.Itoa(q.Passengers)
	}
	if q.MaxPrice != nil {
		params["maxPrice"] = strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64)
	}
	if q.VehicleType != "" {
		params["vehicleType"] = strings.ToLower(q.VehicleType)
	}
	params["sortBy"] = string(q.SortBy)
	params["maxDistance"] = strconv.FormatFloat(q.FromRadiusM, 'f', -1, 64)
	params["destMaxDistance"] = strconv.FormatFloat(q.ToRadiusM, 'f', -1, 64)
	params["enRouteMatching"] = strconv.FormatBool(q.EnRoute)

	// encoding/json writes map keys in sorted order, which makes the key
	// independent of parameter order.
	b, _ := json.Marshal(params)
	return "search:" + string(b)
}
