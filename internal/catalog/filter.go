package catalog

import (
	"sort"
	"strings"

	"wallpaper-catalog/internal/models"
)

// Facets are the filter choices offered for a listing.
type Facets struct {
	Categories []string
	Colors     []string
}

// FacetsOf derives the distinct categories and colors of items, sorted.
func FacetsOf(items []models.Wallpaper) Facets {
	categories := map[string]struct{}{}
	colors := map[string]struct{}{}
	for _, w := range items {
		if w.Category != "" {
			categories[w.Category] = struct{}{}
		}
		if w.Color != "" {
			colors[w.Color] = struct{}{}
		}
	}
	return Facets{Categories: sortedKeys(categories), Colors: sortedKeys(colors)}
}

// Filter narrows an already fetched listing by category and color.
func Filter(items []models.Wallpaper, category, color string) []models.Wallpaper {
	return Apply(items, Query{Category: category, Color: color})
}

// Apply returns the items matching q. Matching ignores case.
func Apply(items []models.Wallpaper, q Query) []models.Wallpaper {
	out := make([]models.Wallpaper, 0, len(items))
	for _, w := range items {
		if matches(w.PageType, q.PageType) && matches(w.Category, q.Category) && matches(w.Color, q.Color) {
			out = append(out, w)
		}
	}
	return out
}

func matches(value, want string) bool {
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(value, want)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
