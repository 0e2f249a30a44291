package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"wallpaper-catalog/internal/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Manifest IDs start here so they never collide with database IDs in a
// mixed listing.
const manifestIDBase = 50000

// colorKeywords is checked in order; the first keyword found in a file name
// wins.
var colorKeywords = []struct{ keyword, color string }{
	{"red", "Red"}, {"crimson", "Red"}, {"ruby", "Red"},
	{"blue", "Blue"}, {"navy", "Blue"}, {"ocean", "Blue"}, {"sky", "Blue"},
	{"green", "Green"}, {"emerald", "Green"}, {"forest", "Green"}, {"sage", "Green"},
	{"pink", "Pink"}, {"rose", "Pink"}, {"blush", "Pink"},
	{"yellow", "Yellow"}, {"gold", "Gold"}, {"sunshine", "Yellow"},
	{"purple", "Purple"}, {"lavender", "Purple"}, {"royal", "Purple"},
	{"gray", "Gray"}, {"grey", "Gray"}, {"silver", "Gray"}, {"concrete", "Gray"},
	{"white", "White"}, {"ivory", "White"}, {"pearl", "White"},
	{"brown", "Brown"}, {"chocolate", "Brown"}, {"wood", "Brown"},
}

var categoryColors = map[string]string{
	"Modern":              "Gray",
	"Classic":             "Brown",
	"Luxury":              "Gold",
	"Custom":              "Blue",
	"Nursery":             "Blue",
	"Toddlers":            "Yellow",
	"Teens":               "Blue",
	"Educational":         "Green",
	"3D Geometric":        "Gray",
	"3D Nature":           "Green",
	"3D Abstract":         "Purple",
	"3D Luxury":           "Gold",
	"Kids Stickers":       "Yellow",
	"Decorative Stickers": "Green",
	"Quote Stickers":      "Blue",
	"Shape Stickers":      "Yellow",
}

var (
	copySuffix = regexp.MustCompile(`\s*\(\d+\)\s*`)
	separators = regexp.MustCompile(`[-_()]+`)
)

// GenerateManifest lists the image files below assetsDir as slash-separated
// paths relative to it, sorted.
func GenerateManifest(assetsDir string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(assetsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, err := filepath.Rel(assetsDir, p)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", assetsDir, err)
	}
	sort.Strings(entries)
	return entries, nil
}

func WriteManifest(path string, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest file and turns its entries into wallpapers
// served below assetsURL.
func LoadManifest(path, assetsURL string) ([]models.Wallpaper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return FromManifest(entries, assetsURL), nil
}

// FromManifest maps "<pageType>/<category>/<file>" entries to wallpapers.
// Entries at the root of the assets directory and housekeeping files are
// skipped; a missing category level becomes "General".
func FromManifest(entries []string, assetsURL string) []models.Wallpaper {
	now := time.Now()
	prefix := strings.TrimSuffix(assetsURL, "/")

	out := make([]models.Wallpaper, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, "/")
		filename := parts[len(parts)-1]
		if len(parts) < 2 || skipFile(filename) {
			continue
		}

		category := "General"
		if len(parts) > 2 {
			category = capitalize(parts[1])
		}
		url := prefix + "/" + entry

		out = append(out, models.Wallpaper{
			ID:        int64(manifestIDBase + len(out)),
			Name:      displayName(filename, category),
			Category:  category,
			Color:     detectColor(filename, category),
			PageType:  parts[0],
			ImagePath: url,
			ImageURL:  url,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}

func skipFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, marker := range []string{"README", "STEP", "QUICK_START"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// displayName turns a file name into a title-cased label. Names that carry
// no information fall back to "<category> Design".
func displayName(filename, category string) string {
	name := strings.TrimSuffix(filename, path.Ext(filename))
	name = copySuffix.ReplaceAllString(name, " ")
	name = separators.ReplaceAllString(name, " ")

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalize(strings.ToLower(w))
	}
	name = strings.Join(words, " ")

	if len(name) < 3 || strings.EqualFold(name, "download") || strings.EqualFold(name, "image") {
		return category + " Design"
	}
	return name
}

func detectColor(filename, category string) string {
	lower := strings.ToLower(filename)
	for _, k := range colorKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.color
		}
	}
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return "Blue"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
