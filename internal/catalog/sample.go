package catalog

import (
	"time"

	"wallpaper-catalog/internal/models"
)

const sampleIDBase = 60000

type sampleEntry struct {
	pageType string
	category string
	color    string
	image    string
	name     string
}

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + "?w=800&auto=format&fit=crop"
}

var sampleEntries = func() []sampleEntry {
	var out []sampleEntry
	add := func(pageType string, name func(category, color string) string, rows [][3]string) {
		for _, r := range rows {
			out = append(out, sampleEntry{
				pageType: pageType,
				category: r[0],
				color:    r[1],
				image:    unsplash(r[2]),
				name:     name(r[0], r[1]),
			})
		}
	}

	add(models.PageCollections, func(cat, color string) string { return cat + " " + color + " Wallpaper" }, [][3]string{
		{"Modern", "Blue", "photo-1540574163026-643ea20ade25"},
		{"Modern", "Gray", "photo-1501045661006-fcebe0257c3f"},
		{"Classic", "Pink", "photo-1519710164239-da123dc03ef4"},
		{"Classic", "Brown", "photo-1505693416388-ac5ce068fe85"},
		{"Luxury", "Gold", "photo-1549187774-b4e9b0445b41"},
		{"Luxury", "White", "photo-1493666438817-866a91353ca9"},
		{"Custom", "Green", "photo-1500530855697-b586d89ba3ee"},
		{"Custom", "Blue", "photo-1499364615650-ec38552f4f34"},
		{"Modern", "Beige", "photo-1576656894633-c6972eda7842"},
		{"Classic", "Cream", "photo-1604147706283-d7119b5b822c"},
	})
	add(models.PageKids, func(cat, color string) string { return "Kids " + cat + " " + color }, [][3]string{
		{"Nursery", "Blue", "photo-1503454537195-1dcabb73ffb9"},
		{"Nursery", "Pink", "photo-1536599018102-9f803c140fc1"},
		{"Toddlers", "Green", "photo-1503457574462-bca3c5a33f5a"},
		{"Teens", "Red", "photo-1559615881-3de67b8b4bcd"},
		{"Educational", "Yellow", "photo-1497633762265-9d179a990aa6"},
	})
	add(models.Page3D, func(cat, color string) string { return cat + " " + color }, [][3]string{
		{"3D Geometric", "Gray", "photo-1526498460520-4c246339dccb"},
		{"3D Geometric", "Blue", "photo-1555343525-5d1b4371d0dd"},
		{"3D Abstract", "Purple", "photo-1549880338-65ddcdfd017b"},
		{"3D Nature", "Green", "photo-1501785888041-af3ef285b470"},
		{"3D Luxury", "Gold", "photo-1519710164239-da123dc03ef4"},
	})
	add(models.PageStickers, func(cat, _ string) string { return cat }, [][3]string{
		{"Kids Stickers", "Yellow", "photo-1544816155-12df9643f363"},
		{"Decorative Stickers", "Pink", "photo-1520975954732-35dd222996c3"},
		{"Quote Stickers", "Blue", "photo-1517245386807-bb43f82c33c4"},
		{"Shape Stickers", "Red", "photo-1509223197845-458d87318791"},
	})
	add(models.PageColors, func(_, color string) string { return color + " Wallpaper" }, [][3]string{
		{"Red", "Red", "photo-1482192596544-9eb780fc7f66"},
		{"Blue", "Blue", "photo-1507525428034-b723cf961d3e"},
		{"Green", "Green", "photo-1433086966358-54859d0ed716"},
		{"Pink", "Pink", "photo-1516637090014-cb1ab0d08fc7"},
		{"Yellow", "Yellow", "photo-1498931299472-f7a63a5a1cfa"},
		{"Purple", "Purple", "photo-1549880338-65ddcdfd017b"},
		{"Gray", "Gray", "photo-1517816743773-6e0fd518b4a6"},
		{"White", "White", "photo-1504198453319-5ce911bafcde"},
		{"Brown", "Brown", "photo-1470337458703-46ad1756a187"},
		{"Gold", "Gold", "photo-1549187774-b4e9b0445b41"},
	})
	return out
}()

// Sample returns the bundled catalog used when neither the API nor a
// manifest is available.
func Sample() []models.Wallpaper {
	now := time.Now()
	out := make([]models.Wallpaper, len(sampleEntries))
	for i, e := range sampleEntries {
		out[i] = models.Wallpaper{
			ID:        int64(sampleIDBase + i),
			Name:      e.name,
			Category:  e.category,
			Color:     e.color,
			PageType:  e.pageType,
			ImageURL:  e.image,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return out
}
