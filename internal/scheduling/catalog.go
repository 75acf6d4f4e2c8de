package scheduling

import "github.com/shopspring/decimal"

// CatalogService is a bookable service with its default duration and price.
type CatalogService struct {
	Name           string          `json:"name"`
	DefaultMinutes int             `json:"default_minutes"`
	DefaultPrice   decimal.Decimal `json:"default_price"`
}

type specialtyEntry struct {
	specialty string
	services  []CatalogService
}

// Ordered so listings are stable.
var catalog = []specialtyEntry{
	{"Hair", []CatalogService{
		{Name: "Haircut", DefaultMinutes: 30, DefaultPrice: decimal.NewFromInt(35)},
		{Name: "Coloring", DefaultMinutes: 90, DefaultPrice: decimal.NewFromInt(90)},
		{Name: "Blowout", DefaultMinutes: 45, DefaultPrice: decimal.NewFromInt(40)},
	}},
	{"Nails", []CatalogService{
		{Name: "Manicure", DefaultMinutes: 45, DefaultPrice: decimal.NewFromInt(30)},
		{Name: "Pedicure", DefaultMinutes: 60, DefaultPrice: decimal.NewFromInt(40)},
		{Name: "Gel Polish", DefaultMinutes: 50, DefaultPrice: decimal.RequireFromString("37.50")},
	}},
	{"Makeup", []CatalogService{
		{Name: "Day Makeup", DefaultMinutes: 45, DefaultPrice: decimal.NewFromInt(45)},
		{Name: "Event Makeup", DefaultMinutes: 75, DefaultPrice: decimal.NewFromInt(80)},
	}},
	{"Brows & Lashes", []CatalogService{
		{Name: "Brow Shaping", DefaultMinutes: 20, DefaultPrice: decimal.NewFromInt(20)},
		{Name: "Lash Lift", DefaultMinutes: 60, DefaultPrice: decimal.NewFromInt(55)},
	}},
}

// Specialties lists catalog specialties in display order.
func Specialties() []string {
	out := make([]string, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.specialty)
	}
	return out
}

// Services returns a copy of the services offered under specialty.
func Services(specialty string) []CatalogService {
	for _, e := range catalog {
		if e.specialty == specialty {
			out := make([]CatalogService, len(e.services))
			copy(out, e.services)
			return out
		}
	}
	return nil
}

// LookupService finds a service by name within a specialty.
func LookupService(specialty, name string) (CatalogService, bool) {
	for _, s := range Services(specialty) {
		if s.Name == name {
			return s, true
		}
	}
	return CatalogService{}, false
}

// CatalogListing is the JSON shape served by the catalog endpoint.
type CatalogListing struct {
	Specialty string           `json:"specialty"`
	Services  []CatalogService `json:"services"`
}

func Catalog() []CatalogListing {
	out := make([]CatalogListing, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, CatalogListing{Specialty: e.specialty, Services: Services(e.specialty)})
	}
	return out
}
