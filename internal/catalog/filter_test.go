package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"wallpaper-catalog/internal/catalog"
	"wallpaper-catalog/internal/models"
)

var listing = []models.Wallpaper{
	{ID: 1, Category: "Modern", Color: "Blue", PageType: "collections"},
	{ID: 2, Category: "Modern", Color: "Gray", PageType: "collections"},
	{ID: 3, Category: "Classic", Color: "Blue", PageType: "collections"},
	{ID: 4, Category: "Nursery", Color: "Pink", PageType: "kids"},
}

func TestFacetsOf(t *testing.T) {
	f := catalog.FacetsOf(listing)
	assert.Equal(t, []string{"Classic", "Modern", "Nursery"}, f.Categories)
	assert.Equal(t, []string{"Blue", "Gray", "Pink"}, f.Colors)

	empty := catalog.FacetsOf(nil)
	assert.Empty(t, empty.Categories)
}

func TestFilter(t *testing.T) {
	ids := func(items []models.Wallpaper) []int64 {
		out := []int64{}
		for _, w := range items {
			out = append(out, w.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(catalog.Filter(listing, "", "")))
	assert.Equal(t, []int64{1, 2}, ids(catalog.Filter(listing, "modern", "all")))
	assert.Equal(t, []int64{1, 3}, ids(catalog.Filter(listing, "", "Blue")))
	assert.Equal(t, []int64{}, ids(catalog.Filter(listing, "Classic", "Pink")))
	assert.Equal(t, []int64{4}, ids(catalog.Apply(listing, catalog.Query{PageType: "kids"})))
}

func TestSample(t *testing.T) {
	items := catalog.Sample()
	assert.Len(t, items, 34)

	seen := map[int64]bool{}
	for _, w := range items {
		assert.True(t, models.ValidPageType(w.PageType), w.PageType)
		assert.NotEmpty(t, w.ImageURL)
		assert.False(t, seen[w.ID])
		seen[w.ID] = true
	}
}
