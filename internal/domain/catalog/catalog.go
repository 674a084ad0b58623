// Package catalog holds the static reference data used to plan port battles:
// ships and their battle rating, nations, water types and rate categories.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// WaterType is the sea depth at a port, which limits the ships that may enter
type WaterType string

const (
	WaterTypeDeep    WaterType = "DEEP_WATER"
	WaterTypeShallow WaterType = "SHALLOW_WATER"
)

// ParseWaterType accepts the canonical labels and the DeepWater/ShallowWater spellings
func ParseWaterType(s string) (WaterType, error) {
	normalized := strings.ToUpper(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	switch normalized {
	case "DEEPWATER", "DEEP":
		return WaterTypeDeep, nil
	case "SHALLOWWATER", "SHALLOW":
		return WaterTypeShallow, nil
	}
	return "", fmt.Errorf("invalid water type: %s", s)
}

func (w WaterType) String() string { return string(w) }

// Rate is the rate category of a ship
type Rate int

const (
	Unrated Rate = iota
	FirstRate
	SecondRate
	ThirdRate
	FourthRate
	FifthRate
	SixthRate
	SeventhRate
)

var rateLabels = map[Rate]string{
	Unrated:     "Unrated",
	FirstRate:   "1st Rate",
	SecondRate:  "2nd Rate",
	ThirdRate:   "3rd Rate",
	FourthRate:  "4th Rate",
	FifthRate:   "5th Rate",
	SixthRate:   "6th Rate",
	SeventhRate: "7th Rate",
}

func (r Rate) String() string {
	if label, ok := rateLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("Rate(%d)", int(r))
}

// ParseRate parses a rate token such as "4th Rate", "4th" or "4"
func ParseRate(s string) (Rate, bool) {
	token := strings.ToLower(strings.TrimSpace(s))
	token = strings.TrimSuffix(token, " rate")
	token = strings.TrimSuffix(token, "rate")
	token = strings.TrimSpace(token)
	for rate, label := range rateLabels {
		l := strings.ToLower(label)
		if token == l || token == strings.TrimSuffix(l, " rate") || token == fmt.Sprintf("%d", int(rate)) && rate != Unrated {
			return rate, true
		}
	}
	return 0, false
}

// Ship is a playable ship class with its battle rating cost
type Ship struct {
	Name string
	Rate Rate
	BR   int
}

// Nation is a faction that can own ports and field fleets
type Nation string

// Catalog is read-only reference data
type Catalog interface {
	Ship(name string) (Ship, bool)
	Ships() []Ship
	ShipsByRate(rate Rate) []Ship
	ShipsForWater(water WaterType) []Ship
	AllowedInWater(ship Ship, water WaterType) bool
	Nations() []Nation
	IsNation(n string) bool
	WaterTypes() []WaterType
	Rates() []Rate
	IsRateToken(s string) bool
}

// StaticCatalog is the built-in catalog
type StaticCatalog struct {
	ships   map[string]Ship
	ordered []Ship
	nations []Nation
}

// NewStaticCatalog builds the catalog from the built-in tables
func NewStaticCatalog() *StaticCatalog {
	return NewCatalog(defaultShips, defaultNations)
}

// NewCatalog builds a catalog from explicit tables (tests and custom servers)
func NewCatalog(ships []Ship, nations []Nation) *StaticCatalog {
	c := &StaticCatalog{
		ships:   make(map[string]Ship, len(ships)),
		ordered: make([]Ship, 0, len(ships)),
		nations: append([]Nation(nil), nations...),
	}
	for _, s := range ships {
		c.ships[strings.ToLower(s.Name)] = s
		c.ordered = append(c.ordered, s)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].BR != c.ordered[j].BR {
			return c.ordered[i].BR > c.ordered[j].BR
		}
		return c.ordered[i].Name < c.ordered[j].Name
	})
	return c
}

// Ship looks up a ship by name, case-insensitively
func (c *StaticCatalog) Ship(name string) (Ship, bool) {
	s, ok := c.ships[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Ships returns all ships ordered by BR descending
func (c *StaticCatalog) Ships() []Ship {
	return append([]Ship(nil), c.ordered...)
}

func (c *StaticCatalog) ShipsByRate(rate Rate) []Ship {
	var out []Ship
	for _, s := range c.ordered {
		if s.Rate == rate {
			out = append(out, s)
		}
	}
	return out
}

// AllowedInWater reports whether a ship may enter a port of the given water type.
// Shallow ports only admit 6th and 7th rates and unrated vessels.
func (c *StaticCatalog) AllowedInWater(ship Ship, water WaterType) bool {
	if water != WaterTypeShallow {
		return true
	}
	return ship.Rate == SixthRate || ship.Rate == SeventhRate || ship.Rate == Unrated
}

func (c *StaticCatalog) ShipsForWater(water WaterType) []Ship {
	var out []Ship
	for _, s := range c.ordered {
		if c.AllowedInWater(s, water) {
			out = append(out, s)
		}
	}
	return out
}

func (c *StaticCatalog) Nations() []Nation {
	return append([]Nation(nil), c.nations...)
}

func (c *StaticCatalog) WaterTypes() []WaterType {
	return []WaterType{WaterTypeDeep, WaterTypeShallow}
}

func (c *StaticCatalog) Rates() []Rate {
	return []Rate{FirstRate, SecondRate, ThirdRate, FourthRate, FifthRate, SixthRate, SeventhRate, Unrated}
}

// IsRateToken reports whether s names a rate category rather than a ship
func (c *StaticCatalog) IsRateToken(s string) bool {
	_, ok := ParseRate(s)
	return ok
}

// IsNation reports whether n is a known nation
func (c *StaticCatalog) IsNation(n string) bool {
	for _, nation := range c.nations {
		if strings.EqualFold(string(nation), strings.TrimSpace(n)) {
			return true
		}
	}
	return false
}
