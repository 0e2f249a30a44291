package models

import "time"

// Page types a wallpaper can be listed under.
const (
	PageCollections = "collections"
	PageKids        = "kids"
	Page3D          = "3d"
	PageStickers    = "stickers"
	PageColors      = "colors"
	PageVideos      = "videos"
)

var PageTypes = []string{PageCollections, PageKids, Page3D, PageStickers, PageColors, PageVideos}

// Defaults applied when a client sends an empty or placeholder value.
const (
	DefaultName      = "Wallpaper"
	DefaultVideoName = "Video Wallpaper"
	DefaultCategory  = "uncategorized"
	DefaultColor     = "default"
	DefaultPageType  = PageCollections
)

func ValidPageType(p string) bool {
	for _, t := range PageTypes {
		if t == p {
			return true
		}
	}
	return false
}

// Wallpaper is one catalog item. Image fields are empty for video-only items.
type Wallpaper struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Color        string    `json:"color"`
	PageType     string    `json:"pageType"`
	ImagePath    string    `json:"imagePath,omitempty"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	MediumURL    string    `json:"mediumUrl,omitempty"`
	WebpURL      string    `json:"webpUrl,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	VideoPath    string    `json:"videoPath,omitempty"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WallpaperFilter narrows a listing. Empty fields do not filter; a PageType
// of "all" is treated as empty.
type WallpaperFilter struct {
	PageType string
	Category string
	Color    string
}

// MetadataPatch holds the editable fields of a wallpaper. Nil means keep.
type MetadataPatch struct {
	Name     *string
	Category *string
	Color    *string
	PageType *string
}
