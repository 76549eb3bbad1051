// Package portal drives the visitor-facing pipeline: it loads catalog and
// sports data, maps it to cards and keeps each visitor's surfaces current.
package portal

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"streamhub/models"
	"streamhub/render"
	"streamhub/services/catalog"
	"streamhub/services/playback"
	"streamhub/services/sports"
	"streamhub/services/watchlist"
	"streamhub/utils/filter"
	"streamhub/utils/language"
)

const detailWorkers = 8

// Options configures presentation details of the portal.
type Options struct {
	Images   render.Images
	Language string
}

// Portal is shared by all visitors; per-visitor data lives in State.
type Portal struct {
	loader    *catalog.Loader
	sports    *sports.Service
	watchlist *watchlist.Service
	playback  *playback.Service
	images    render.Images
	printer   *message.Printer
	logger    *zap.Logger
}

// New wires the portal to its collaborators.
func New(loader *catalog.Loader, sportsSvc *sports.Service, watchlistSvc *watchlist.Service, playbackSvc *playback.Service, opts Options, logger *zap.Logger) *Portal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Portal{
		loader:    loader,
		sports:    sportsSvc,
		watchlist: watchlistSvc,
		playback:  playbackSvc,
		images:    opts.Images,
		printer:   message.NewPrinter(language.Tag(opts.Language)),
		logger:    logger,
	}
}

// NewState returns a fresh visitor state using the configured default quality.
func (p *Portal) NewState() *State {
	return NewState(p.playback.DefaultQuality())
}

// Render maps items to cards and replaces or appends them on surface.
func (p *Portal) Render(st *State, surface render.SurfaceName, items []models.MediaItem, appendCards bool) []render.Card {
	st.mu.Lock()
	defer st.mu.Unlock()
	cards := render.MovieCards(items, surface, p.images, st.saved)
	st.render(surface, cards, appendCards)
	return cards
}

// syncSaved refreshes the watchlist flags of st from the store.
func (p *Portal) syncSaved(ctx context.Context, namespace string, st *State) []int64 {
	ids, err := p.watchlist.List(ctx, namespace)
	if err != nil {
		p.logger.Error("load watchlist", zap.String("namespace", namespace), zap.Error(err))
		return nil
	}
	st.mu.Lock()
	st.setSaved(ids)
	st.mu.Unlock()
	return ids
}

// Dashboard loads featured, trending and sports concurrently and renders them.
func (p *Portal) Dashboard(ctx context.Context, namespace string, st *State) {
	var (
		featured, trending []models.MediaItem
		events             []models.SportEvent
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		featured = p.loader.LoadCategory(ctx, models.CategoryFeatured, 1, models.Filters{})
	})
	wg.Go(func() {
		trending = p.loader.LoadCategory(ctx, models.CategoryTrending, 1, models.Filters{})
	})
	wg.Go(func() {
		events = p.sports.Load(ctx)
	})
	wg.Go(func() {
		p.syncSaved(ctx, namespace, st)
	})
	wg.Wait()

	p.Render(st, render.Featured, featured, false)
	p.Render(st, render.Trending, trending, false)
	p.renderSports(st, events)
}

// Movies applies filters, resets pagination to page 1 and replaces the grid.
func (p *Portal) Movies(ctx context.Context, namespace string, st *State, filters models.Filters) {
	filters = filter.Discover(models.Filters{Genre: filters.Genre, Year: filters.Year})

	st.mu.Lock()
	st.page = 1
	st.filters = filters
	st.generation++
	gen := st.generation
	st.mu.Unlock()

	p.syncSaved(ctx, namespace, st)
	items := p.loader.LoadCategory(ctx, models.CategoryDiscover, 1, filters)

	st.mu.Lock()
	defer st.mu.Unlock()
	if gen != st.generation {
		return
	}
	st.render(render.Movies, render.MovieCards(items, render.Movies, p.images, st.saved), false)
}

// LoadMore fetches the next discover page with the current filters and
// appends it. It returns the appended cards and the new page number.
func (p *Portal) LoadMore(ctx context.Context, st *State) ([]render.Card, int) {
	st.moreMu.Lock()
	defer st.moreMu.Unlock()

	st.mu.Lock()
	page := st.page + 1
	filters := st.filters
	gen := st.generation
	st.mu.Unlock()

	items := p.loader.LoadCategory(ctx, models.CategoryDiscover, page, filters)

	st.mu.Lock()
	defer st.mu.Unlock()
	if gen != st.generation {
		return nil, st.page
	}
	st.page = page
	cards := render.MovieCards(items, render.Movies, p.images, st.saved)
	st.render(render.Movies, cards, true)
	return cards, page
}

// Sports renders the sports events of sport, or all of them when sport is empty.
func (p *Portal) Sports(ctx context.Context, st *State, sport string) {
	events := p.sports.Filter(ctx, sport)
	st.mu.Lock()
	st.sport = sport
	st.mu.Unlock()
	p.renderSports(st, events)
}

// SportNames lists the sports available for filtering.
func (p *Portal) SportNames(ctx context.Context) []string {
	return sports.Sports(p.sports.Load(ctx))
}

func (p *Portal) renderSports(st *State, events []models.SportEvent) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.render(render.Sports, render.SportCards(events), false)
}

// Search runs query and shows up to eight results. Queries shorter than two
// characters hide the results without contacting the provider. A result is
// only committed when no newer search started meanwhile; committed reports
// whether this call's result is the one now shown.
func (p *Portal) Search(ctx context.Context, st *State, query string) (shown render.Surface, committed bool) {
	st.mu.Lock()
	st.searchSeq++
	seq := st.searchSeq
	st.query = query
	st.mu.Unlock()

	items, searched := p.loader.Search(ctx, query)

	st.mu.Lock()
	defer st.mu.Unlock()
	surface := st.surfaces[render.Search]
	if seq != st.searchSeq {
		p.logger.Debug("discarding stale search", zap.String("query", query))
		return surface.Clone(), false
	}
	if !searched {
		surface.Hide()
		return surface.Clone(), true
	}
	st.render(render.Search, render.MovieCards(items, render.Search, p.images, st.saved), false)
	return surface.Clone(), true
}

// Watchlist renders the visitor's saved movies in watchlist order, loading
// details concurrently. Failed lookups show the fallback movie.
func (p *Portal) Watchlist(ctx context.Context, namespace string, st *State) {
	ids := p.syncSaved(ctx, namespace, st)

	mapper := iter.Mapper[int64, models.MediaItem]{MaxGoroutines: detailWorkers}
	items := mapper.Map(ids, func(id *int64) models.MediaItem {
		item := p.loader.Details(ctx, *id).MediaItem
		// a fallback movie still has to toggle the saved id
		item.ID = *id
		return item
	})

	p.Render(st, render.Watchlist, items, false)
}

// Detail loads the detail overlay of id and marks it open.
func (p *Portal) Detail(ctx context.Context, namespace string, st *State, id int64) render.Detail {
	details := p.loader.Details(ctx, id)

	saved, err := p.watchlist.Contains(ctx, namespace, details.ID)
	if err != nil {
		p.logger.Error("load watchlist", zap.String("namespace", namespace), zap.Error(err))
	}

	detail := render.NewDetail(details, p.images, p.printer, saved)
	st.mu.Lock()
	st.detail = &detail
	st.mu.Unlock()

	return detail
}

// CloseDetail closes the detail overlay.
func (p *Portal) CloseDetail(st *State) {
	st.mu.Lock()
	st.detail = nil
	st.mu.Unlock()
}

// Play opens the embedded player for movie id and closes the detail overlay.
func (p *Portal) Play(st *State, id int64) render.Player {
	p.CloseDetail(st)
	return p.player(st, p.playback.Play(id))
}

// WatchSport opens the native player for a sports event.
func (p *Portal) WatchSport(st *State, eventID int64) render.Player {
	return p.player(st, p.playback.WatchSport(eventID))
}

func (p *Portal) player(st *State, view models.PlayerView) render.Player {
	st.mu.Lock()
	quality := st.quality
	st.mu.Unlock()

	view.Quality = quality
	return render.Player{View: view, Qualities: playback.Qualities, Quality: quality}
}

// SetQuality remembers the selected player quality. The stream itself is not changed.
func (p *Portal) SetQuality(st *State, quality string) (string, error) {
	q, err := playback.NormalizeQuality(quality)
	if err != nil {
		return "", err
	}
	st.mu.Lock()
	st.quality = q
	st.mu.Unlock()
	return q, nil
}

// ToggleWatchlist flips id in the visitor's watchlist and updates the cards
// shown on every surface.
func (p *Portal) ToggleWatchlist(ctx context.Context, namespace string, st *State, id int64) (models.WatchlistToggle, error) {
	result, err := p.watchlist.Toggle(ctx, namespace, id)
	if err != nil {
		return models.WatchlistToggle{}, fmt.Errorf("toggle watchlist: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.setSaved(result.Watchlist)
	if !result.InWatchlist {
		shelf := st.surfaces[render.Watchlist]
		kept := shelf.Cards[:0]
		for _, c := range shelf.Cards {
			if c.ItemID != id {
				kept = append(kept, c)
			}
		}
		shelf.Cards = kept
	}
	return result, nil
}
