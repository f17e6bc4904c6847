// Package matching decides whether a traveler's trip and a sender's shipment
// request are compatible. Everything here is a pure function of its inputs and
// a static region table; nothing performs I/O or holds mutable state.
package matching

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionID identifies a named group of cities considered interchangeable for
// flexible-location matching.
type RegionID string

// Region is one entry of the region table.
type Region struct {
	ID     RegionID `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Cities []string `yaml:"cities" json:"cities"`
}

// RegionTable maps known city names to regions. Build it with NewRegionTable
// or LoadRegionTable; the zero value knows no cities.
type RegionTable struct {
	regions map[RegionID]Region
	byCity  map[string]RegionID
}

// NewRegionTable indexes regions by city. A city listed under two regions, an
// empty region id or a duplicate region id is a configuration error.
func NewRegionTable(regions []Region) (*RegionTable, error) {
	t := &RegionTable{
		regions: make(map[RegionID]Region, len(regions)),
		byCity:  make(map[string]RegionID),
	}
	for _, r := range regions {
		if r.ID == "" {
			return nil, fmt.Errorf("matching.NewRegionTable: region %q has no id", r.Name)
		}
		if _, dup := t.regions[r.ID]; dup {
			return nil, fmt.Errorf("matching.NewRegionTable: duplicate region id %q", r.ID)
		}
		if r.Name == "" {
			r.Name = string(r.ID)
		}
		t.regions[r.ID] = r
		for _, city := range r.Cities {
			key := cityKey(city)
			if key == "" {
				continue
			}
			if other, taken := t.byCity[key]; taken {
				return nil, fmt.Errorf("matching.NewRegionTable: city %q listed in both %q and %q", city, other, r.ID)
			}
			t.byCity[key] = r.ID
		}
	}
	return t, nil
}

// regionFile is the on-disk shape read by LoadRegionTable.
type regionFile struct {
	Regions []Region `yaml:"regions"`
}

// LoadRegionTable reads a YAML region table:
//
//	regions:
//	  - id: fr-other
//	    name: France-other
//	    cities: [Paris, Lyon]
func LoadRegionTable(path string) (*RegionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matching.LoadRegionTable: %w", err)
	}
	var f regionFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("matching.LoadRegionTable: decode %s: %w", path, err)
	}
	if len(f.Regions) == 0 {
		return nil, fmt.Errorf("matching.LoadRegionTable: %s defines no regions", path)
	}
	return NewRegionTable(f.Regions)
}

// RegionOf returns the region a city belongs to. Unknown cities report
// ok=false; they are never an error.
func (t *RegionTable) RegionOf(city string) (RegionID, bool) {
	if t == nil {
		return "", false
	}
	id, ok := t.byCity[cityKey(city)]
	return id, ok
}

// SameRegion reports whether both cities resolve to the same region.
// An unknown city never shares a region with anything.
func (t *RegionTable) SameRegion(a, b string) (RegionID, bool) {
	ra, okA := t.RegionOf(a)
	rb, okB := t.RegionOf(b)
	if !okA || !okB || ra != rb {
		return "", false
	}
	return ra, true
}

// Name returns the display name of a region, or the id itself if unknown.
func (t *RegionTable) Name(id RegionID) string {
	if t != nil {
		if r, ok := t.regions[id]; ok {
			return r.Name
		}
	}
	return string(id)
}

// KnownCity reports whether the city appears anywhere in the table.
func (t *RegionTable) KnownCity(city string) bool {
	_, ok := t.RegionOf(city)
	return ok
}

// Regions returns the configured regions in no particular order.
func (t *RegionTable) Regions() []Region {
	if t == nil {
		return nil
	}
	out := make([]Region, 0, len(t.regions))
	for _, r := range t.regions {
		out = append(out, r)
	}
	return out
}

// SameCity compares free-text city names the way the region table keys them.
func SameCity(a, b string) bool {
	return cityKey(a) == cityKey(b)
}

func cityKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// DefaultRegions is the built-in region table.
func DefaultRegions() []Region {
	return []Region{
		{ID: "fr-other", Name: "France-other", Cities: []string{
			"Paris", "Lyon", "Marseille", "Toulouse", "Bordeaux", "Nantes", "Nice",
			"Strasbourg", "Montpellier", "Lille", "Rennes", "Grenoble", "Saint-Étienne",
			"Toulon", "Dijon", "Reims", "Le Havre", "Clermont-Ferrand", "Mulhouse", "Metz",
		}},
		{ID: "dz-north", Name: "Algérie-north", Cities: []string{
			"Alger", "Oran", "Constantine", "Annaba", "Blida", "Béjaïa", "Sétif",
			"Tlemcen", "Tizi Ouzou", "Mostaganem", "Skikda", "Chlef", "Jijel", "Boumerdès",
		}},
		{ID: "dz-south", Name: "Algérie-south", Cities: []string{
			"Ouargla", "Ghardaïa", "Béchar", "Tamanrasset", "Adrar", "Biskra", "El Oued", "Laghouat",
		}},
		{ID: "ma", Name: "Maroc", Cities: []string{
			"Casablanca", "Rabat", "Marrakech", "Fès", "Tanger", "Agadir", "Oujda", "Meknès",
		}},
		{ID: "tn", Name: "Tunisie", Cities: []string{
			"Tunis", "Sfax", "Sousse", "Bizerte", "Gabès", "Monastir",
		}},
		{ID: "be", Name: "Belgique", Cities: []string{
			"Bruxelles", "Liège", "Anvers", "Charleroi", "Gand", "Namur",
		}},
		{ID: "ca-qc", Name: "Québec", Cities: []string{
			"Montréal", "Québec", "Laval", "Gatineau", "Sherbrooke",
		}},
	}
}

// MustDefaultRegionTable builds the built-in table, panicking on a bad entry.
func MustDefaultRegionTable() *RegionTable {
	t, err := NewRegionTable(DefaultRegions())
	if err != nil {
		panic(err)
	}
	return t
}
