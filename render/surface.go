package render

// SurfaceName identifies a region of the portal that holds cards.
type SurfaceName string

const (
	Featured  SurfaceName = "featured"
	Trending  SurfaceName = "trending"
	Movies    SurfaceName = "movies"
	Search    SurfaceName = "search"
	Sports    SurfaceName = "sports"
	Watchlist SurfaceName = "watchlist"
)

// Surfaces lists every surface in page order.
var Surfaces = []SurfaceName{Featured, Trending, Movies, Search, Sports, Watchlist}

// PlaceholderSize returns the poster placeholder size used on s.
func (s SurfaceName) PlaceholderSize() string {
	switch s {
	case Trending:
		return TrendingSize
	case Search:
		return ThumbnailSize
	default:
		return PosterSize
	}
}

// NoResults is shown on an empty visible search surface.
const NoResults = "No results found"

// Surface is the rendered content of one region.
type Surface struct {
	Name   SurfaceName
	Cards  []Card
	Hidden bool
	// Notice replaces the cards when there are none.
	Notice string
}

// Render replaces the cards, or appends to them when appendCards is set,
// and makes the surface visible.
func (s *Surface) Render(cards []Card, appendCards bool) {
	if appendCards {
		s.Cards = append(s.Cards, cards...)
	} else {
		s.Cards = append([]Card(nil), cards...)
	}
	s.Hidden = false
	s.Notice = ""
	if len(s.Cards) == 0 && s.Name == Search {
		s.Notice = NoResults
	}
}

// Hide clears and hides the surface.
func (s *Surface) Hide() {
	s.Cards = nil
	s.Notice = ""
	s.Hidden = true
}

// SyncSaved sets the watchlist flag of every movie card from saved.
func (s *Surface) SyncSaved(saved map[int64]bool) {
	for i := range s.Cards {
		if s.Cards[i].Kind == MovieCard {
			s.Cards[i].InWatchlist = saved[s.Cards[i].ItemID]
		}
	}
}

// Clone returns a copy that shares no card slice with s.
func (s *Surface) Clone() Surface {
	c := *s
	c.Cards = append([]Card(nil), s.Cards...)
	return c
}
