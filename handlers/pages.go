package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"streamhub/models"
	"streamhub/render"
	"streamhub/services/playback"
	"streamhub/services/portal"
)

// PagesHandler serves the portal pages and the fragments the page script swaps in.
type PagesHandler struct {
	portal   *portal.Portal
	renderer *render.Renderer
	sessions Sessions
	logger   *zap.Logger
}

func NewPagesHandler(p *portal.Portal, renderer *render.Renderer, sessions Sessions, logger *zap.Logger) *PagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{portal: p, renderer: renderer, sessions: sessions, logger: logger.Named("pages")}
}

func (h *PagesHandler) page(w http.ResponseWriter, active, title string, view portal.View) {
	p := render.NewPage(active, title)
	p.Query = view.Query
	p.Search = view.Surface(render.Search)
	p.SearchHidden = p.Search.Hidden
	p.Featured = view.Surface(render.Featured)
	p.Trending = view.Surface(render.Trending)
	p.Movies = view.Surface(render.Movies)
	p.Sports = view.Surface(render.Sports)
	p.Watchlist = view.Surface(render.Watchlist)
	p.Filters = view.Filters
	p.Page = view.Page
	p.SportFilter = view.Sport
	p.Detail = view.Detail
	h.write(w, func(buf *bytes.Buffer) error { return h.renderer.Page(buf, p) })
}

func (h *PagesHandler) fragment(w http.ResponseWriter, name string, data any) {
	h.write(w, func(buf *bytes.Buffer) error { return h.renderer.Fragment(buf, name, data) })
}

// write renders into a buffer first so a template error still yields a clean 500.
func (h *PagesHandler) write(w http.ResponseWriter, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.Error("render", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *PagesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	h.portal.Dashboard(r.Context(), s.Visitor.ID, s.State)
	h.page(w, render.DashboardPage, "Home", s.State.View())
}

func (h *PagesHandler) Movies(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	q := r.URL.Query()
	h.portal.Movies(r.Context(), s.Visitor.ID, s.State, models.Filters{Genre: q.Get("genre"), Year: q.Get("year")})
	h.page(w, render.MoviesPage, "Movies", s.State.View())
}

// MoreMovies appends the next discover page and returns only the new cards.
func (h *PagesHandler) MoreMovies(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	cards, page := h.portal.LoadMore(r.Context(), s.State)
	w.Header().Set("X-Page", strconv.Itoa(page))
	h.fragment(w, render.CardsFragment, cards)
}

func (h *PagesHandler) Sports(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	h.portal.Sports(r.Context(), s.State, r.URL.Query().Get("sport"))

	view := s.State.View()
	p := render.NewPage(render.SportsPage, "Live Sports")
	p.Sports = view.Surface(render.Sports)
	p.Search = view.Surface(render.Search)
	p.SearchHidden = p.Search.Hidden
	p.Query = view.Query
	p.SportFilter = view.Sport
	p.SportNames = h.portal.SportNames(r.Context())
	p.Detail = view.Detail
	h.write(w, func(buf *bytes.Buffer) error { return h.renderer.Page(buf, p) })
}

// Search answers the page script with the results fragment and a full page otherwise.
func (h *PagesHandler) Search(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	shown, committed := h.portal.Search(r.Context(), s.State, r.URL.Query().Get("q"))

	if r.Header.Get("X-Requested-With") == "" {
		h.page(w, render.SearchPage, "Search", s.State.View())
		return
	}
	w.Header().Set("X-Search-Hidden", strconv.FormatBool(shown.Hidden))
	w.Header().Set("X-Search-Committed", strconv.FormatBool(committed))
	h.fragment(w, render.SearchResultsFragment, shown)
}

func (h *PagesHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	h.portal.Watchlist(r.Context(), s.Visitor.ID, s.State)
	h.page(w, render.WatchlistPage, "My Watchlist", s.State.View())
}

func (h *PagesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.sessions.Resolve(w, r)
	h.fragment(w, render.DetailFragment, h.portal.Detail(r.Context(), s.Visitor.ID, s.State, id))
}

// CloseDetail forgets the open detail overlay.
func (h *PagesHandler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Resolve(w, r)
	h.portal.CloseDetail(s.State)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PagesHandler) PlayMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.sessions.Resolve(w, r)
	h.fragment(w, render.PlayerFragment, h.portal.Play(s.State, id))
}

func (h *PagesHandler) PlaySport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s := h.sessions.Resolve(w, r)
	h.fragment(w, render.PlayerFragment, h.portal.WatchSport(s.State, id))
}

func (h *PagesHandler) SetQuality(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s := h.sessions.Resolve(w, r)
	quality, err := h.portal.SetQuality(s.State, r.FormValue("quality"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, playback.ErrInvalidQuality) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"quality": quality})
}
