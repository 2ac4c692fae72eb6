package weather

import (
	"math"
	"strconv"
	"strings"

	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
)

// LocationQuery is either a free-text place name or a coordinate pair.
type LocationQuery struct {
	Place     string
	Latitude  float64
	Longitude float64
	hasCoords bool
}

// PlaceQuery builds a free-text query.
func PlaceQuery(place string) LocationQuery {
	return LocationQuery{Place: strings.TrimSpace(place)}
}

// CoordinateQuery builds a latitude/longitude query.
func CoordinateQuery(lat, lon float64) LocationQuery {
	return LocationQuery{Latitude: lat, Longitude: lon, hasCoords: true}
}

// IsCoordinates reports whether the query is a coordinate pair.
func (q LocationQuery) IsCoordinates() bool {
	return q.hasCoords
}

// IsZero reports whether the query carries no usable location.
func (q LocationQuery) IsZero() bool {
	return !q.hasCoords && q.Place == ""
}

// Term renders the query as the provider's q parameter.
func (q LocationQuery) Term() string {
	if q.hasCoords {
		return strconv.FormatFloat(q.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(q.Longitude, 'f', -1, 64)
	}
	return q.Place
}

// Messages for location validation failures.
const (
	MsgLocationRequired   = "City parameter is required"
	MsgInvalidCoordinates = "Invalid coordinates"
	MsgAmbiguousLocation  = "Provide either a location or coordinates, not both"
)

// ParseLocation validates raw request input. Exactly one of place or the
// lat/lon pair must be supplied.
func ParseLocation(place, lat, lon string) (LocationQuery, error) {
	place = strings.TrimSpace(place)
	lat = strings.TrimSpace(lat)
	lon = strings.TrimSpace(lon)

	if lat == "" && lon == "" {
		if place == "" {
			return LocationQuery{}, apperrors.Wrap(string(KindBadRequest), MsgLocationRequired, nil)
		}
		return PlaceQuery(place), nil
	}
	if place != "" {
		return LocationQuery{}, apperrors.Wrap(string(KindBadRequest), MsgAmbiguousLocation, nil)
	}

	latVal, latErr := strconv.ParseFloat(lat, 64)
	lonVal, lonErr := strconv.ParseFloat(lon, 64)
	if latErr != nil || lonErr != nil || !validCoordinate(latVal, 90) || !validCoordinate(lonVal, 180) {
		return LocationQuery{}, apperrors.Wrap(string(KindBadRequest), MsgInvalidCoordinates, nil)
	}
	return CoordinateQuery(latVal, lonVal), nil
}

func validCoordinate(v, bound float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -bound && v <= bound
}
