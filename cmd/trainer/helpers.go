// ABOUTME: Shared helpers for trainer CLI commands.
// ABOUTME: Time parsing, skinfold flag parsing and column formatting.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/trainer/internal/composition"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// parseSites reads --site flags of the form "site=mm" or "site=left/right".
// Unusable readings are kept as absent rather than rejected.
func parseSites(flags []string) (composition.Measurements, error) {
	m := composition.Measurements{}
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid site %q: use site=mm", f)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if !composition.IsValidSite(name) {
			return nil, fmt.Errorf("unknown site: %s\nValid sites: %s", name, siteList())
		}
		site := composition.Site(name)
		if left, right, both := strings.Cut(value, "/"); both {
			m.SetSides(site, composition.ParseReading(left), composition.ParseReading(right))
		} else {
			m.Set(site, composition.ParseReading(value))
		}
	}
	return m, nil
}

func siteList() string {
	names := make([]string, 0, len(composition.AllSites))
	for _, s := range composition.AllSites {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func optionalFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
