package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/models"
)

func items(ids ...int64) []models.MediaItem {
	out := make([]models.MediaItem, len(ids))
	for i, id := range ids {
		out[i] = models.MediaItem{ID: id, Title: "Movie", VoteAverage: 7}
	}
	return out
}

func cardIDs(cards []Card) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ItemID
	}
	return out
}

func TestSurfaceReplaceAndAppend(t *testing.T) {
	s := &Surface{Name: Movies}

	s.Render(MovieCards(items(1, 2), Movies, Images{}, nil), false)
	s.Render(MovieCards(items(3, 4), Movies, Images{}, nil), true)
	assert.Equal(t, []int64{1, 2, 3, 4}, cardIDs(s.Cards))

	s.Render(MovieCards(items(9), Movies, Images{}, nil), false)
	assert.Equal(t, []int64{9}, cardIDs(s.Cards))
	assert.False(t, s.Hidden)
}

func TestSearchSurfaceNotice(t *testing.T) {
	s := &Surface{Name: Search}

	s.Render(nil, false)
	assert.False(t, s.Hidden)
	assert.Equal(t, NoResults, s.Notice)

	s.Render(MovieCards(items(1), Search, Images{}, nil), false)
	assert.Empty(t, s.Notice)

	s.Hide()
	assert.True(t, s.Hidden)
	assert.Empty(t, s.Cards)
}

func TestCloneDoesNotShareCards(t *testing.T) {
	s := &Surface{Name: Featured}
	s.Render(MovieCards(items(1, 2), Featured, Images{}, nil), false)

	c := s.Clone()
	s.Render(MovieCards(items(3), Featured, Images{}, nil), true)
	s.Cards[0].Title = "changed"

	assert.Len(t, c.Cards, 2)
	assert.Equal(t, "Movie", c.Cards[0].Title)
}

func TestSyncSaved(t *testing.T) {
	s := &Surface{Name: Featured}
	s.Render(MovieCards(items(1, 2), Featured, Images{}, map[int64]bool{2: true}), false)
	require.True(t, s.Cards[1].InWatchlist)

	s.SyncSaved(map[int64]bool{1: true})
	assert.True(t, s.Cards[0].InWatchlist)
	assert.False(t, s.Cards[1].InWatchlist)
}

func TestMovieCardActions(t *testing.T) {
	card := MovieCards([]models.MediaItem{{ID: 27205, Title: "Inception", VoteAverage: 8.8, ReleaseDate: "2010-07-16"}}, Featured, Images{}, nil)[0]

	assert.Equal(t, "inception", card.Slug)
	assert.Equal(t, "8.8", card.Rating)
	assert.Equal(t, "2010", card.Year)
	assert.Equal(t, Placeholder(PosterSize), card.ImageURL)
	require.NotNil(t, card.Action("play"))
	assert.Equal(t, "/play/movie/27205", card.Action("play").URL)
	assert.Equal(t, "POST", card.Action("watchlist").Method)
	assert.Nil(t, card.Action("watch"))
}
