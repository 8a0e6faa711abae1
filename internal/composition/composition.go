// ABOUTME: Skinfold body-composition estimator (Jackson-Pollock 7/3, Durnin-Womersley 4).
// ABOUTME: Selects the most precise fully-populated protocol and applies the Siri equation.
package composition

import "math"

// Protocol names the published regression used for body density.
type Protocol string

const (
	JacksonPollock7  Protocol = "jackson-pollock-7"
	DurninWomersley4 Protocol = "durnin-womersley-4"
	JacksonPollock3  Protocol = "jackson-pollock-3"
)

var (
	sevenSites      = []Site{Chest, Triceps, Subscapular, Midaxillary, Suprailiac, Abdomen, Thigh}
	fourSites       = []Site{Triceps, Subscapular, Suprailiac, Chest}
	threeSitesMen   = []Site{Chest, Abdomen, Thigh}
	threeSitesWomen = []Site{Triceps, Suprailiac, Thigh}
)

// Sites returns the sites a protocol requires for the given sex.
func (p Protocol) Sites(sex Sex) []Site {
	switch p {
	case JacksonPollock7:
		return sevenSites
	case DurninWomersley4:
		return fourSites
	case JacksonPollock3:
		if sex == Female {
			return threeSitesWomen
		}
		return threeSitesMen
	}
	return nil
}

// Result is a computed body-composition estimate.
type Result struct {
	Protocol   Protocol `json:"protocol" yaml:"protocol"`
	SumMM      float64  `json:"sum_mm" yaml:"sum_mm"`
	Density    float64  `json:"density" yaml:"density"`
	BodyFatPct float64  `json:"body_fat_pct" yaml:"body_fat_pct"`
	LeanMassKg float64  `json:"lean_mass_kg" yaml:"lean_mass_kg"`
	FatMassKg  float64  `json:"fat_mass_kg" yaml:"fat_mass_kg"`
}

// ProtocolFor picks the protocol that Compute would use for the profile's sex.
// Priority is 7-site, then 4-site, then 3-site; partial coverage never counts.
// Age and weight do not affect selection.
func ProtocolFor(profile Profile, m Measurements) (Protocol, bool) {
	if profile.Sex != Male && profile.Sex != Female {
		return "", false
	}
	for _, p := range []Protocol{JacksonPollock7, DurninWomersley4, JacksonPollock3} {
		if m.Has(p.Sites(profile.Sex)...) {
			return p, true
		}
	}
	return "", false
}

// Compute estimates body composition. It returns ok=false when sex, age or
// weight is missing or no protocol has all of its sites.
func Compute(profile Profile, m Measurements) (*Result, bool) {
	if !profile.complete() {
		return nil, false
	}

	protocol, ok := ProtocolFor(profile, m)
	if !ok {
		return nil, false
	}

	sum := m.Sum(protocol.Sites(profile.Sex)...)
	density := bodyDensity(protocol, profile.Sex, sum, float64(*profile.Age))
	fatPct := siri(density)
	weight := *profile.WeightKg

	return &Result{
		Protocol:   protocol,
		SumMM:      round(sum, 1),
		Density:    round(density, 4),
		BodyFatPct: round(fatPct, 1),
		LeanMassKg: round(weight*(1-fatPct/100), 1),
		FatMassKg:  round(weight*(fatPct/100), 1),
	}, true
}

func bodyDensity(p Protocol, sex Sex, sum, age float64) float64 {
	switch p {
	case JacksonPollock7:
		if sex == Male {
			return 1.112 - 0.00043499*sum + 0.00000055*sum*sum - 0.00028826*age
		}
		return 1.097 - 0.00046971*sum + 0.00000056*sum*sum - 0.00012828*age
	case DurninWomersley4:
		// Age-independent coefficients.
		if sex == Male {
			return 1.1765 - 0.0744*math.Log10(sum)
		}
		return 1.1567 - 0.0717*math.Log10(sum)
	default:
		if sex == Male {
			return 1.10938 - 0.0008267*sum + 0.0000016*sum*sum - 0.0002574*age
		}
		return 1.0994921 - 0.0009929*sum + 0.0000023*sum*sum - 0.0001392*age
	}
}

func siri(density float64) float64 {
	return (4.95/density - 4.50) * 100
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
