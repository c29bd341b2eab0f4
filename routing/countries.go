package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// CountryInfo describes one supported country. Values are loaded once at
// startup and never mutated.
type CountryInfo struct {
	Code                string  `json:"code"` // ISO-3166 alpha-2
	Name                string  `json:"name"`
	Continent           string  `json:"continent"`
	Latitude            float64 `json:"latitude"`  // centroid, degrees
	Longitude           float64 `json:"longitude"` // centroid, degrees
	CallingCode         string  `json:"calling_code"`
	Currency            string  `json:"currency"`
	TimezoneOffsetHours float64 `json:"timezone_offset_hours"`
}

// Directory is the immutable country reference table. Safe for concurrent
// readers without synchronization.
type Directory struct {
	countries map[string]CountryInfo
}

// NewDirectory builds a Directory over the built-in reference dataset.
func NewDirectory() *Directory {
	return NewDirectoryFrom(referenceCountries)
}

// NewDirectoryFrom builds a Directory from a caller-supplied dataset.
// Duplicate codes keep the last entry.
func NewDirectoryFrom(infos []CountryInfo) *Directory {
	m := make(map[string]CountryInfo, len(infos))
	for _, info := range infos {
		m[strings.ToUpper(info.Code)] = info
	}
	return &Directory{countries: m}
}

// Lookup returns the CountryInfo for an ISO code.
func (d *Directory) Lookup(code string) (CountryInfo, bool) {
	info, ok := d.countries[strings.ToUpper(code)]
	return info, ok
}

// Codes returns all known ISO codes, sorted.
func (d *Directory) Codes() []string {
	codes := make([]string, 0, len(d.countries))
	for code := range d.countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ResolveCountry maps an E.164 number (leading '+') to an ISO country code
// carried by the directory.
func (d *Directory) ResolveCountry(number string) (string, error) {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumberFormat, number)
	}

	region := phonenumbers.GetRegionCodeForNumber(parsed)
	if region == "" || region == "ZZ" {
		// Fall back to the main region for the calling code, so test and
		// placeholder numbers still resolve to a usable country.
		region = phonenumbers.GetRegionCodeForCountryCode(int(parsed.GetCountryCode()))
	}
	if region == "" || region == "ZZ" {
		return "", fmt.Errorf("%w: %q", ErrInvalidNumberFormat, number)
	}

	if _, ok := d.countries[region]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCountry, region)
	}
	return region, nil
}

// Neighbor is one entry of a Closest result.
type Neighbor struct {
	Code       string  `json:"code"`
	DistanceKm float64 `json:"distance_km"`
}

// Closest returns up to limit other countries ordered ascending by
// great-circle distance from code. Unknown code yields an empty list.
// limit <= 0 means no limit.
func (d *Directory) Closest(code string, limit int) []Neighbor {
	origin := strings.ToUpper(code)
	if _, ok := d.countries[origin]; !ok {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(d.countries)-1)
	for other := range d.countries {
		if other == origin {
			continue
		}
		neighbors = append(neighbors, Neighbor{Code: other, DistanceKm: d.Distance(origin, other)})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].DistanceKm != neighbors[j].DistanceKm {
			return neighbors[i].DistanceKm < neighbors[j].DistanceKm
		}
		return neighbors[i].Code < neighbors[j].Code
	})

	if limit > 0 && len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors
}

// referenceCountries is the built-in reference dataset: centroid coordinates,
// calling codes, currencies, and nominal timezone offsets for the countries
// the platform sells or routes numbers in. Updated via redeploy, never at
// runtime.
var referenceCountries = []CountryInfo{
	{"US", "United States", "North America", 39.8283, -98.5795, "+1", "USD", -6},
	{"CA", "Canada", "North America", 56.1304, -106.3468, "+1", "CAD", -5},
	{"MX", "Mexico", "North America", 23.6345, -102.5528, "+52", "MXN", -6},
	{"CU", "Cuba", "North America", 21.5218, -77.7812, "+53", "CUP", -5},
	{"GB", "United Kingdom", "Europe", 55.3781, -3.4360, "+44", "GBP", 0},
	{"IE", "Ireland", "Europe", 53.4129, -8.2439, "+353", "EUR", 0},
	{"FR", "France", "Europe", 46.2276, 2.2137, "+33", "EUR", 1},
	{"DE", "Germany", "Europe", 51.1657, 10.4515, "+49", "EUR", 1},
	{"ES", "Spain", "Europe", 40.4637, -3.7492, "+34", "EUR", 1},
	{"PT", "Portugal", "Europe", 39.3999, -8.2245, "+351", "EUR", 0},
	{"IT", "Italy", "Europe", 41.8719, 12.5674, "+39", "EUR", 1},
	{"NL", "Netherlands", "Europe", 52.1326, 5.2913, "+31", "EUR", 1},
	{"BE", "Belgium", "Europe", 50.5039, 4.4699, "+32", "EUR", 1},
	{"CH", "Switzerland", "Europe", 46.8182, 8.2275, "+41", "CHF", 1},
	{"AT", "Austria", "Europe", 47.5162, 14.5501, "+43", "EUR", 1},
	{"SE", "Sweden", "Europe", 60.1282, 18.6435, "+46", "SEK", 1},
	{"NO", "Norway", "Europe", 60.4720, 8.4689, "+47", "NOK", 1},
	{"DK", "Denmark", "Europe", 56.2639, 9.5018, "+45", "DKK", 1},
	{"FI", "Finland", "Europe", 61.9241, 25.7482, "+358", "EUR", 2},
	{"PL", "Poland", "Europe", 51.9194, 19.1451, "+48", "PLN", 1},
	{"CZ", "Czechia", "Europe", 49.8175, 15.4730, "+420", "CZK", 1},
	{"HU", "Hungary", "Europe", 47.1625, 19.5033, "+36", "HUF", 1},
	{"RO", "Romania", "Europe", 45.9432, 24.9668, "+40", "RON", 2},
	{"GR", "Greece", "Europe", 39.0742, 21.8243, "+30", "EUR", 2},
	{"UA", "Ukraine", "Europe", 48.3794, 31.1656, "+380", "UAH", 2},
	{"RU", "Russia", "Europe", 61.5240, 105.3188, "+7", "RUB", 3},
	{"TR", "Turkey", "Asia", 38.9637, 35.2433, "+90", "TRY", 3},
	{"IL", "Israel", "Asia", 31.0461, 34.8516, "+972", "ILS", 2},
	{"AE", "United Arab Emirates", "Asia", 23.4241, 53.8478, "+971", "AED", 4},
	{"SA", "Saudi Arabia", "Asia", 23.8859, 45.0792, "+966", "SAR", 3},
	{"IN", "India", "Asia", 20.5937, 78.9629, "+91", "INR", 5.5},
	{"PK", "Pakistan", "Asia", 30.3753, 69.3451, "+92", "PKR", 5},
	{"BD", "Bangladesh", "Asia", 23.6850, 90.3563, "+880", "BDT", 6},
	{"CN", "China", "Asia", 35.8617, 104.1954, "+86", "CNY", 8},
	{"JP", "Japan", "Asia", 36.2048, 138.2529, "+81", "JPY", 9},
	{"KR", "South Korea", "Asia", 35.9078, 127.7669, "+82", "KRW", 9},
	{"TH", "Thailand", "Asia", 15.8700, 100.9925, "+66", "THB", 7},
	{"VN", "Vietnam", "Asia", 14.0583, 108.2772, "+84", "VND", 7},
	{"MY", "Malaysia", "Asia", 4.2105, 101.9758, "+60", "MYR", 8},
	{"SG", "Singapore", "Asia", 1.3521, 103.8198, "+65", "SGD", 8},
	{"ID", "Indonesia", "Asia", -0.7893, 113.9213, "+62", "IDR", 7},
	{"PH", "Philippines", "Asia", 12.8797, 121.7740, "+63", "PHP", 8},
	{"HK", "Hong Kong", "Asia", 22.3193, 114.1694, "+852", "HKD", 8},
	{"TW", "Taiwan", "Asia", 23.6978, 120.9605, "+886", "TWD", 8},
	{"SO", "Somalia", "Africa", 5.1521, 46.1996, "+252", "SOS", 3},
	{"ZA", "South Africa", "Africa", -30.5595, 22.9375, "+27", "ZAR", 2},
	{"NG", "Nigeria", "Africa", 9.0820, 8.6753, "+234", "NGN", 1},
	{"KE", "Kenya", "Africa", -0.0236, 37.9062, "+254", "KES", 3},
	{"EG", "Egypt", "Africa", 26.8206, 30.8025, "+20", "EGP", 2},
	{"MA", "Morocco", "Africa", 31.7917, -7.0926, "+212", "MAD", 1},
	{"GH", "Ghana", "Africa", 7.9465, -1.0232, "+233", "GHS", 0},
	{"AU", "Australia", "Oceania", -25.2744, 133.7751, "+61", "AUD", 10},
	{"NZ", "New Zealand", "Oceania", -40.9006, 174.8860, "+64", "NZD", 12},
	{"BR", "Brazil", "South America", -14.2350, -51.9253, "+55", "BRL", -3},
	{"AR", "Argentina", "South America", -38.4161, -63.6167, "+54", "ARS", -3},
	{"CL", "Chile", "South America", -35.6751, -71.5430, "+56", "CLP", -4},
	{"CO", "Colombia", "South America", 4.5709, -74.2973, "+57", "COP", -5},
	{"PE", "Peru", "South America", -9.1900, -75.0152, "+51", "PEN", -5},
	{"EC", "Ecuador", "South America", -1.8312, -78.1834, "+593", "USD", -5},
	{"UY", "Uruguay", "South America", -32.5228, -55.7658, "+598", "UYU", -3},
	{"VE", "Venezuela", "South America", 6.4238, -66.5897, "+58", "VES", -4},
}
