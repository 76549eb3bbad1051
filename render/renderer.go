// Package render turns catalog items into card view-models and renders the
// portal pages and fragments.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"streamhub/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names, also used as the active navigation entry.
const (
	DashboardPage = "dashboard"
	MoviesPage    = "movies"
	SportsPage    = "sports"
	SearchPage    = "search"
	WatchlistPage = "watchlist"
)

var pageNames = []string{DashboardPage, MoviesPage, SportsPage, SearchPage, WatchlistPage}

// Fragment names.
const (
	CardsFragment         = "cards"
	SearchResultsFragment = "search-results"
	DetailFragment        = "detail"
	PlayerFragment        = "player"
)

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Name  string
	Label string
	URL   string
}

var navigation = []NavItem{
	{Name: DashboardPage, Label: "Home", URL: "/"},
	{Name: MoviesPage, Label: "Movies", URL: "/movies"},
	{Name: SportsPage, Label: "Sports", URL: "/sports"},
	{Name: SearchPage, Label: "Search", URL: "/search"},
	{Name: WatchlistPage, Label: "Watchlist", URL: "/watchlist"},
}

// Genres offered by the movies filter, with their provider ids.
var Genres = []models.Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 18, Name: "Drama"},
	{ID: 14, Name: "Fantasy"},
	{ID: 27, Name: "Horror"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 53, Name: "Thriller"},
}

// Years returns the n most recent years, newest first.
func Years(now time.Time, n int) []string {
	years := make([]string, 0, n)
	for y := now.Year(); y > now.Year()-n; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Page is the data of a full page render.
type Page struct {
	Active string
	Title  string
	Nav    []NavItem

	Query        string
	Search       Surface
	SearchHidden bool

	Featured  Surface
	Trending  Surface
	Movies    Surface
	Sports    Surface
	Watchlist Surface

	Filters models.Filters
	Page    int
	Genres  []models.Genre
	Years   []string

	SportFilter string
	SportNames  []string

	// Detail is the overlay left open by the visitor, shown again on reload.
	Detail *Detail
}

// NewPage returns a page with the navigation and filter options filled in.
func NewPage(active, title string) Page {
	return Page{
		Active: active,
		Title:  title,
		Nav:    navigation,
		Genres: Genres,
		Years:  Years(time.Now(), 25),
		Page:   1,
	}
}

// Player is the data of the player fragment.
type Player struct {
	View      models.PlayerView
	Qualities []string
	Quality   string
}

// Renderer executes the embedded templates.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

var funcMap = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	fragments, err := template.New("fragments").Funcs(funcMap).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, fragments: fragments}, nil
}

// Page renders the full page named by p.Active.
func (r *Renderer) Page(w io.Writer, p Page) error {
	tmpl, ok := r.pages[p.Active]
	if !ok {
		return fmt.Errorf("unknown page %q", p.Active)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", p); err != nil {
		return fmt.Errorf("render %s page: %w", p.Active, err)
	}
	return nil
}

// Fragment renders a partial template such as DetailFragment.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	if err := r.fragments.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s fragment: %w", name, err)
	}
	return nil
}

// Static serves the page script and stylesheet.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
