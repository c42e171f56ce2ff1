// Package reference holds static lookup data for the supported route
// network: airports, airline booking pages, and deep-link helpers.
package reference

import (
	"fmt"
	"strings"

	"github.com/openjaw/openjaw/internal/itinerary"
)

// Region groups airports by their role in a scan.
type Region string

const (
	RegionHome      Region = "home"
	RegionAsia      Region = "asia"
	RegionAustralia Region = "australia"
)

// Airport describes one supported airport.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Region  Region `json:"region"`
}

// airports lists the supported network. Scan requests are validated
// against this set before any provider call.
var airports = []Airport{
	{Code: "OSL", Name: "Oslo Gardermoen", City: "Oslo", Country: "Norway", Region: RegionHome},
	{Code: "SIN", Name: "Singapore Changi", City: "Singapore", Country: "Singapore", Region: RegionAsia},
	{Code: "KUL", Name: "Kuala Lumpur International", City: "Kuala Lumpur", Country: "Malaysia", Region: RegionAsia},
	{Code: "BKK", Name: "Bangkok Suvarnabhumi", City: "Bangkok", Country: "Thailand", Region: RegionAsia},
	{Code: "MEL", Name: "Melbourne Tullamarine", City: "Melbourne", Country: "Australia", Region: RegionAustralia},
	{Code: "SYD", Name: "Sydney Kingsford Smith", City: "Sydney", Country: "Australia", Region: RegionAustralia},
}

var airportsByCode = func() map[string]Airport {
	m := make(map[string]Airport, len(airports))
	for _, a := range airports {
		m[a.Code] = a
	}
	return m
}()

// Airports returns all supported airports in stable order.
func Airports() []Airport {
	out := make([]Airport, len(airports))
	copy(out, airports)
	return out
}

// LookupAirport returns the airport for an IATA code.
func LookupAirport(code string) (Airport, bool) {
	a, ok := airportsByCode[strings.ToUpper(code)]
	return a, ok
}

// IsKnownAirport reports whether code is part of the supported network.
func IsKnownAirport(code string) bool {
	_, ok := airportsByCode[strings.ToUpper(code)]
	return ok
}

// AirportsInRegion returns the supported airports for a region, in
// stable order.
func AirportsInRegion(region Region) []Airport {
	var out []Airport
	for _, a := range airports {
		if a.Region == region {
			out = append(out, a)
		}
	}
	return out
}

// bookingURLs maps IATA carrier codes to the airline's booking page.
var bookingURLs = map[string]string{
	"LH": "https://www.lufthansa.com",
	"SQ": "https://www.singaporeair.com",
	"QR": "https://www.qatarairways.com",
	"EK": "https://www.emirates.com",
	"TK": "https://www.turkishairlines.com",
	"QF": "https://www.qantas.com",
	"VA": "https://www.virginaustralia.com",
	"MH": "https://www.malaysiaairlines.com",
}

// BookingURL returns the booking page for a carrier code, if known.
func BookingURL(carrier string) (string, bool) {
	u, ok := bookingURLs[strings.ToUpper(carrier)]
	return u, ok
}

// GoogleFlightsURL builds a Google Flights deep link for one leg.
func GoogleFlightsURL(origin, destination string, date itinerary.Date) string {
	return fmt.Sprintf("https://www.google.com/travel/flights?q=%s-%s-%s", origin, destination, date)
}

// RouteCodes renders an offer's path as "OSL → DOH → SIN", collapsing
// repeated adjacent codes when consecutive segments share an airport.
func RouteCodes(segments []itinerary.Segment) string {
	if len(segments) == 0 {
		return ""
	}

	path := make([]string, 0, len(segments)+1)
	path = append(path, segments[0].Origin)
	for _, s := range segments {
		path = append(path, s.Destination)
	}

	out := path[:0]
	for _, code := range path {
		if len(out) == 0 || out[len(out)-1] != code {
			out = append(out, code)
		}
	}
	return strings.Join(out, " → ")
}
