package render

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"streamhub/models"
	"streamhub/utils"
)

// CardKind distinguishes movie and sports cards.
type CardKind string

const (
	MovieCard CardKind = "movie"
	SportCard CardKind = "sport"
)

// Action is a user interaction bound to a card, dispatched by the page script.
type Action struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// Card is the view-model of one rendered item.
type Card struct {
	ItemID   int64
	Kind     CardKind
	Title    string
	Slug     string
	ImageURL string
	Rating   string
	Year     string
	Overview string

	// sports only
	League    string
	Team1     string
	Team2     string
	Team1Logo string
	Team2Logo string
	Score     string
	Clock     string
	Icon      string

	InWatchlist bool
	Actions     []Action
}

// Action returns the action called name, or nil.
func (c Card) Action(name string) *Action {
	for i := range c.Actions {
		if c.Actions[i].Name == name {
			return &c.Actions[i]
		}
	}
	return nil
}

// MovieCards maps items to cards using the placeholder size of the surface.
func MovieCards(items []models.MediaItem, surface SurfaceName, images Images, saved map[int64]bool) []Card {
	size := surface.PlaceholderSize()
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, movieCard(item, size, images, saved[item.ID]))
	}
	return cards
}

func movieCard(item models.MediaItem, size string, images Images, inWatchlist bool) Card {
	id := strconv.FormatInt(item.ID, 10)
	return Card{
		ItemID:      item.ID,
		Kind:        MovieCard,
		Title:       item.Title,
		Slug:        utils.Slug(item.Title),
		ImageURL:    images.URL(item.PosterPath, size),
		Rating:      FormatRating(item.VoteAverage),
		Year:        FormatYear(item.ReleaseDate),
		Overview:    item.Overview,
		InWatchlist: inWatchlist,
		Actions: []Action{
			{Name: "details", Method: http.MethodGet, URL: "/movie/" + id},
			{Name: "play", Method: http.MethodGet, URL: "/play/movie/" + id},
			{Name: "watchlist", Method: http.MethodPost, URL: "/api/watchlist/" + id + "/toggle"},
		},
	}
}

// SportCards maps sports events to cards.
func SportCards(events []models.SportEvent) []Card {
	cards := make([]Card, 0, len(events))
	for _, event := range events {
		id := strconv.FormatInt(event.ID, 10)
		cards = append(cards, Card{
			ItemID:    event.ID,
			Kind:      SportCard,
			Title:     event.Team1 + " vs " + event.Team2,
			Slug:      utils.Slug(event.Team1 + " " + event.Team2),
			League:    event.League,
			Team1:     event.Team1,
			Team2:     event.Team2,
			Team1Logo: event.Team1Logo,
			Team2Logo: event.Team2Logo,
			Score:     event.Score,
			Clock:     event.Time,
			Icon:      event.Icon,
			Actions: []Action{
				{Name: "watch", Method: http.MethodGet, URL: "/play/sport/" + id},
			},
		})
	}
	return cards
}

// Detail is the view-model of the movie detail overlay.
type Detail struct {
	Card
	BackdropURL string
	Runtime     string
	ReleaseDate string
	Genres      string
	Budget      string
	Revenue     string
}

// NewDetail builds the detail view of d.
func NewDetail(d models.MediaDetails, images Images, p *message.Printer, inWatchlist bool) Detail {
	release := d.ReleaseDate
	if release == "" {
		release = NotAvailable
	}
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	genres := strings.Join(names, ", ")
	if genres == "" {
		genres = NotAvailable
	}
	return Detail{
		Card:        movieCard(d.MediaItem, PosterSize, images, inWatchlist),
		BackdropURL: images.URL(d.BackdropPath, BackdropSize),
		Runtime:     FormatRuntime(d.Runtime),
		ReleaseDate: release,
		Genres:      genres,
		Budget:      FormatMoney(p, d.Budget),
		Revenue:     FormatMoney(p, d.Revenue),
	}
}
