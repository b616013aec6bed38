package farm

import (
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
)

// ReverseGeocoder turns a coordinate into a human readable place name.
type ReverseGeocoder interface {
	Label(lat, lon float64) (string, error)
}

var _ ReverseGeocoder = (*GoogleGeocoder)(nil)

// GoogleGeocoder resolves labels through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the geocoder client. It returns nil when no
// API key is set so callers can skip reverse geocoding entirely.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	if apiKey == "" {
		return nil
	}
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Label(lat, lon float64) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %f,%f: %w", lat, lon, err)
	}
	if len(addresses) == 0 {
		return "", errors.New("reverse geocode returned no addresses")
	}

	a := addresses[0]
	if a.City != "" && a.State != "" {
		return fmt.Sprintf("%s, %s", a.City, a.State), nil
	}
	return a.FormatAddress(), nil
}
