package models

// Genre is a catalog genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaItem is a movie as returned by the catalog provider list endpoints.
// Optional string fields are empty when the provider omitted them.
type MediaItem struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	Overview     string  `json:"overview"`
	Genres       []Genre `json:"genres,omitempty"`
	Budget       int64   `json:"budget,omitempty"`
	Revenue      int64   `json:"revenue,omitempty"`
}

// MediaDetails extends MediaItem with the fields only the detail endpoint returns.
type MediaDetails struct {
	MediaItem
	Runtime int `json:"runtime,omitempty"`
}

// Category identifies a catalog listing.
type Category string

const (
	CategoryFeatured Category = "featured"
	CategoryTrending Category = "trending"
	CategoryDiscover Category = "discover"
	CategorySearch   Category = "search"
)

// Valid reports whether c is one of the known catalog categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFeatured, CategoryTrending, CategoryDiscover, CategorySearch:
		return true
	}
	return false
}

// Filters narrows a catalog listing. Genre and Year apply to discover, Query to search.
type Filters struct {
	Genre string `json:"genre,omitempty"`
	Year  string `json:"year,omitempty"`
	Query string `json:"query,omitempty"`
}
