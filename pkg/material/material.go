// Package material suggests engraving materials for a job.
//
// Suggestions are keyed by geometry kind (vector cutting vs raster
// engraving behave very differently on a given surface) and by the
// intended use case.
package material

import (
	"sort"
	"strings"
)

// GeometryKind selects the suggestion table.
type GeometryKind int

const (
	// Vector jobs cut or score along paths.
	Vector GeometryKind = iota

	// Raster jobs engrave shaded images line by line.
	Raster
)

// String returns the geometry kind name.
func (k GeometryKind) String() string {
	switch k {
	case Vector:
		return "vector"
	case Raster:
		return "raster"
	default:
		return "unknown"
	}
}

// DefaultSuggestion is returned when no table entry matches.
const DefaultSuggestion = "General suggestion: Basswood for versatility; always test on scrap material first"

var suggestions = map[GeometryKind]map[string]string{
	Vector: {
		"signage":         "Acrylic or plywood (clear cuts, durable, weather-resistant)",
		"jewelry":         "Anodized aluminum or acrylic (precise details, lightweight)",
		"personalization": "Leather or wood (scalable designs, natural look)",
		"photos":          "Not ideal for vector work; use raster mode for shading on wood or slate",
		"general":         "Basswood or birch plywood (versatile, affordable, good for testing)",
		"industrial":      "Stainless steel or anodized aluminum (durable, precise)",
		"arts":            "Acrylic or bamboo (aesthetic appeal, various colors)",
	},
	Raster: {
		"signage":         "Wood or MDF (high-res for visibility, cost-effective)",
		"jewelry":         "Not recommended; use vector mode for precision work",
		"personalization": "Slate or leather (photo engraving, unique textures)",
		"photos":          "Wood, slate, or ceramic tile (300+ DPI for detail)",
		"general":         "Basswood (excellent for photo engraving, smooth surface)",
		"industrial":      "Anodized aluminum (for photo marking with proper laser settings)",
		"arts":            "Cork or leather (natural texture enhances engraving)",
	},
}

// Suggest returns a material suggestion for a geometry kind and use
// case. Use case matching is case-insensitive; unknown combinations
// fall back to DefaultSuggestion.
func Suggest(kind GeometryKind, useCase string) string {
	table, ok := suggestions[kind]
	if !ok {
		return DefaultSuggestion
	}
	if s, ok := table[strings.ToLower(strings.TrimSpace(useCase))]; ok {
		return s
	}
	return DefaultSuggestion
}

// UseCases returns the known use case names in sorted order.
func UseCases() []string {
	seen := make(map[string]struct{})
	for _, table := range suggestions {
		for uc := range table {
			seen[uc] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for uc := range seen {
		out = append(out, uc)
	}
	sort.Strings(out)
	return out
}

// BestPractices returns general engraving guidance for operators.
func BestPractices() []string {
	return []string{
		"Resolution: Use 300+ DPI for raster images (600 DPI for fine detail)",
		"Scale: Work at 1:1 scale in your design",
		"Vectors: Remove overlapping paths to prevent double-cutting",
		"Testing: ALWAYS test on scrap material first",
		"Safety: Never use PVC (releases toxic chlorine gas)",
		"Materials: Start with basswood - forgiving and affordable",
		"Settings: Adjust laser power/speed based on material and depth",
	}
}
