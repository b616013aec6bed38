package farm

import (
	"sort"

	"github.com/i474232898/farmsight/internal/common"
	"github.com/i474232898/farmsight/internal/weather"
)

// DefaultLocationKey is the catalog entry used when nothing else is configured.
const DefaultLocationKey = "nashik"

// Location is the place forecasts are resolved for.
type Location struct {
	Key    string  `json:"key,omitempty"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Region string  `json:"region"`
}

// Coordinate returns the weather coordinate of l.
func (l Location) Coordinate() weather.Coordinate {
	return weather.Coordinate{Lat: l.Lat, Lon: l.Lon}
}

var catalog = map[string]Location{
	"nashik":      {Name: "Nashik, Maharashtra", Lat: 20.0110, Lon: 73.7903, Region: "Western India"},
	"pune":        {Name: "Pune, Maharashtra", Lat: 18.5204, Lon: 73.8567, Region: "Western India"},
	"mumbai":      {Name: "Mumbai, Maharashtra", Lat: 19.0760, Lon: 72.8777, Region: "Western India"},
	"delhi":       {Name: "Delhi", Lat: 28.7041, Lon: 77.1025, Region: "Northern India"},
	"punjab":      {Name: "Ludhiana, Punjab", Lat: 30.9010, Lon: 75.8573, Region: "Northern India"},
	"haryana":     {Name: "Karnal, Haryana", Lat: 29.6857, Lon: 76.9905, Region: "Northern India"},
	"up":          {Name: "Lucknow, UP", Lat: 26.8467, Lon: 80.9462, Region: "Northern India"},
	"bangalore":   {Name: "Bangalore, Karnataka", Lat: 12.9716, Lon: 77.5946, Region: "Southern India"},
	"chennai":     {Name: "Chennai, Tamil Nadu", Lat: 13.0827, Lon: 80.2707, Region: "Southern India"},
	"hyderabad":   {Name: "Hyderabad, Telangana", Lat: 17.3850, Lon: 78.4867, Region: "Southern India"},
	"kerala":      {Name: "Kochi, Kerala", Lat: 9.9312, Lon: 76.2673, Region: "Southern India"},
	"kolkata":     {Name: "Kolkata, West Bengal", Lat: 22.5726, Lon: 88.3639, Region: "Eastern India"},
	"bhubaneswar": {Name: "Bhubaneswar, Odisha", Lat: 20.2961, Lon: 85.8245, Region: "Eastern India"},
	"patna":       {Name: "Patna, Bihar", Lat: 25.5941, Lon: 85.1376, Region: "Eastern India"},
	"guwahati":    {Name: "Guwahati, Assam", Lat: 26.1445, Lon: 91.7362, Region: "North-Eastern India"},
	"jaipur":      {Name: "Jaipur, Rajasthan", Lat: 26.9124, Lon: 75.7873, Region: "Western India"},
	"ahmedabad":   {Name: "Ahmedabad, Gujarat", Lat: 23.0225, Lon: 72.5714, Region: "Western India"},
	"indore":      {Name: "Indore, MP", Lat: 22.7196, Lon: 75.8577, Region: "Central India"},
	"bhopal":      {Name: "Bhopal, MP", Lat: 23.2599, Lon: 77.4126, Region: "Central India"},
}

// LookupLocation returns the catalog entry for key.
func LookupLocation(key string) (Location, bool) {
	loc, ok := catalog[key]
	if !ok {
		return Location{}, false
	}
	loc.Key = key
	return loc, true
}

// Locations lists the catalog sorted by key. A non-empty query keeps only
// entries whose key, name or region contains it.
func Locations(query string) []Location {
	out := make([]Location, 0, len(catalog))
	for key, loc := range catalog {
		if query != "" && !common.HasAny(key+" "+loc.Name+" "+loc.Region, query) {
			continue
		}
		loc.Key = key
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
