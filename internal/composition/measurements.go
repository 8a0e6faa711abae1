// ABOUTME: Skinfold sites, readings, and subject profile for body-composition estimates.
// ABOUTME: Bilateral sites average their positive sides; non-positive values are absent.
package composition

import (
	"math"
	"strconv"
	"strings"
)

// Sex is the closed enumeration used by the sex-specific regressions.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts m/male/masculino and f/female/feminino in any case.
// Anything else returns ok=false.
func ParseSex(s string) (Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male", "masculino":
		return Male, true
	case "f", "female", "feminino":
		return Female, true
	}
	return "", false
}

// Site is an anatomical skinfold location.
type Site string

const (
	Chest       Site = "chest"
	Abdomen     Site = "abdomen"
	Triceps     Site = "triceps"
	Subscapular Site = "subscapular"
	Midaxillary Site = "midaxillary"
	Suprailiac  Site = "suprailiac"
	Thigh       Site = "thigh"
)

// AllSites lists every site in the order the 7-site protocol reads them.
var AllSites = []Site{Chest, Triceps, Subscapular, Midaxillary, Suprailiac, Abdomen, Thigh}

// IsBilateral reports whether a site is measured on both sides of the body.
func (s Site) IsBilateral() bool {
	switch s {
	case Triceps, Subscapular, Midaxillary, Suprailiac, Thigh:
		return true
	}
	return false
}

// IsValidSite checks if a string names a known site.
func IsValidSite(s string) bool {
	for _, site := range AllSites {
		if string(site) == s {
			return true
		}
	}
	return false
}

// Reading is one site's caliper measurement in millimeters.
// Unilateral sites only use Left.
type Reading struct {
	Left  float64 `json:"left,omitempty" yaml:"left,omitempty"`
	Right float64 `json:"right,omitempty" yaml:"right,omitempty"`
}

// Measurements maps sites to their readings.
type Measurements map[Site]Reading

// Set records a unilateral value (or both sides of a bilateral site).
func (m Measurements) Set(site Site, mm float64) Measurements {
	if site.IsBilateral() {
		m[site] = Reading{Left: mm, Right: mm}
	} else {
		m[site] = Reading{Left: mm}
	}
	return m
}

// SetSides records left and right readings for a bilateral site.
func (m Measurements) SetSides(site Site, left, right float64) Measurements {
	m[site] = Reading{Left: left, Right: right}
	return m
}

// Value returns the usable thickness for a site. Only positive sides count;
// with one side present its value is used as-is.
func (m Measurements) Value(site Site) (float64, bool) {
	r, ok := m[site]
	if !ok {
		return 0, false
	}

	if !site.IsBilateral() {
		if usable(r.Left) {
			return r.Left, true
		}
		return 0, false
	}

	left, right := usable(r.Left), usable(r.Right)
	switch {
	case left && right:
		return (r.Left + r.Right) / 2, true
	case left:
		return r.Left, true
	case right:
		return r.Right, true
	}
	return 0, false
}

// Has reports whether every listed site has a usable value.
func (m Measurements) Has(sites ...Site) bool {
	for _, s := range sites {
		if _, ok := m.Value(s); !ok {
			return false
		}
	}
	return true
}

// Sum adds the usable values of the listed sites.
func (m Measurements) Sum(sites ...Site) float64 {
	var total float64
	for _, s := range sites {
		v, _ := m.Value(s)
		total += v
	}
	return total
}

func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ParseReading converts free-form input into millimeters.
// Comma decimals are accepted. Anything unparseable or non-positive becomes 0.
func ParseReading(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !usable(v) {
		return 0
	}
	return v
}

// Profile describes the subject being assessed.
type Profile struct {
	Sex      Sex      `json:"sex" yaml:"sex"`
	Age      *int     `json:"age,omitempty" yaml:"age,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
}

// NewProfile builds a profile with age and weight set.
func NewProfile(sex Sex, age int, weightKg float64) Profile {
	return Profile{Sex: sex, Age: &age, WeightKg: &weightKg}
}

func (p Profile) complete() bool {
	if p.Sex != Male && p.Sex != Female {
		return false
	}
	if p.Age == nil || *p.Age <= 0 {
		return false
	}
	if p.WeightKg == nil || !usable(*p.WeightKg) {
		return false
	}
	return true
}
