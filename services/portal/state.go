package portal

import (
	"maps"
	"sync"

	"streamhub/models"
	"streamhub/render"
)

// State is the application state of one visitor: the rendered surfaces and
// the pagination, filter, search and player selections behind them.
type State struct {
	mu sync.Mutex

	surfaces map[render.SurfaceName]*render.Surface
	saved    map[int64]bool

	// discover pagination; generation changes whenever filters reset the grid
	page       int
	filters    models.Filters
	generation uint64
	moreMu     sync.Mutex

	searchSeq uint64
	query     string

	sport   string
	quality string
	// detail overlay currently open, nil when closed
	detail *render.Detail
}

// NewState returns an empty state with the search surface hidden.
func NewState(quality string) *State {
	st := &State{
		surfaces: make(map[render.SurfaceName]*render.Surface, len(render.Surfaces)),
		saved:    make(map[int64]bool),
		page:     1,
		quality:  quality,
	}
	for _, name := range render.Surfaces {
		st.surfaces[name] = &render.Surface{Name: name}
	}
	st.surfaces[render.Search].Hidden = true
	return st
}

// View is a consistent copy of a State, safe to render without locking.
type View struct {
	Surfaces map[render.SurfaceName]render.Surface
	Page     int
	Filters  models.Filters
	Query    string
	Sport    string
	Quality  string
	Detail   *render.Detail
	Saved    map[int64]bool
}

// Surface returns the named surface of the view.
func (v View) Surface(name render.SurfaceName) render.Surface {
	return v.Surfaces[name]
}

// View snapshots the state.
func (st *State) View() View {
	st.mu.Lock()
	defer st.mu.Unlock()

	surfaces := make(map[render.SurfaceName]render.Surface, len(st.surfaces))
	for name, s := range st.surfaces {
		surfaces[name] = s.Clone()
	}
	var detail *render.Detail
	if st.detail != nil {
		d := *st.detail
		detail = &d
	}
	return View{
		Surfaces: surfaces,
		Page:     st.page,
		Filters:  st.filters,
		Query:    st.query,
		Sport:    st.sport,
		Quality:  st.quality,
		Detail:   detail,
		Saved:    maps.Clone(st.saved),
	}
}

// render replaces or appends cards on a surface. Callers hold st.mu.
func (st *State) render(surface render.SurfaceName, cards []render.Card, appendCards bool) {
	st.surfaces[surface].Render(cards, appendCards)
}

func (st *State) setSaved(ids []int64) {
	st.saved = make(map[int64]bool, len(ids))
	for _, id := range ids {
		st.saved[id] = true
	}
	for _, s := range st.surfaces {
		s.SyncSaved(st.saved)
	}
	if st.detail != nil {
		st.detail.InWatchlist = st.saved[st.detail.ItemID]
	}
}
