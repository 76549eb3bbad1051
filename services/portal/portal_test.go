package portal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"streamhub/config"
	"streamhub/internal/store"
	"streamhub/models"
	"streamhub/render"
	"streamhub/services/catalog"
	"streamhub/services/catalog/mocks"
	"streamhub/services/playback"
	"streamhub/services/portal"
	"streamhub/services/sports"
	"streamhub/services/watchlist"
)

const visitor = "visitor-1"

type fixture struct {
	portal    *portal.Portal
	provider  *mocks.MockProvider
	watchlist *watchlist.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	kv := store.NewFileStore(afero.NewMemMapFs(), "/kv")
	wl := watchlist.NewService(kv, nil, nil)

	p := portal.New(
		catalog.NewLoader(provider, nil),
		sports.NewService(nil, nil),
		wl,
		playback.NewService(config.PlayerSettings{}, kv, nil),
		portal.Options{Images: render.Images{Base: "https://image.tmdb.org/t/p/w500"}, Language: "en-US"},
		nil,
	)
	return fixture{portal: p, provider: provider, watchlist: wl}
}

func page(start int64, n int) []models.MediaItem {
	items := make([]models.MediaItem, n)
	for i := range items {
		id := start + int64(i)
		items[i] = models.MediaItem{ID: id, Title: fmt.Sprintf("Movie %d", id), VoteAverage: 7.5}
	}
	return items
}

func cardIDs(s render.Surface) []int64 {
	ids := make([]int64, len(s.Cards))
	for i, c := range s.Cards {
		ids[i] = c.ItemID
	}
	return ids
}

func TestLoadMoreAppendsNextDiscoverPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	genre := models.Filters{Genre: "28"}
	gomock.InOrder(
		f.provider.EXPECT().
			List(gomock.Any(), catalog.Query{Category: models.CategoryDiscover, Page: 1, Filters: genre}).
			Return(page(100, 20), nil),
		f.provider.EXPECT().
			List(gomock.Any(), catalog.Query{Category: models.CategoryDiscover, Page: 2, Filters: genre}).
			Return(page(200, 12), nil),
	)

	f.portal.Movies(ctx, visitor, st, models.Filters{Genre: "28"})
	before := cardIDs(st.View().Surface(render.Movies))
	require.Len(t, before, 20)

	appended, pageNo := f.portal.LoadMore(ctx, st)
	assert.Equal(t, 2, pageNo)
	require.Len(t, appended, 12)

	view := st.View()
	after := cardIDs(view.Surface(render.Movies))
	require.Len(t, after, 32)
	assert.Equal(t, before, after[:20])
	for i, card := range appended {
		assert.Equal(t, int64(200+i), after[20+i])
		assert.Equal(t, card.ItemID, after[20+i])
	}
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, "28", view.Filters.Genre)
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	f.provider.EXPECT().List(gomock.Any(), gomock.Any()).Return(page(1, 3), nil).Times(2)
	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategoryDiscover, Page: 1, Filters: models.Filters{Year: "2010"}}).
		Return(page(50, 2), nil)

	f.portal.Movies(ctx, visitor, st, models.Filters{})
	f.portal.LoadMore(ctx, st)
	require.Len(t, st.View().Surface(render.Movies).Cards, 6)

	f.portal.Movies(ctx, visitor, st, models.Filters{Year: "2010", Genre: "not-a-genre"})
	view := st.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, []int64{50, 51}, cardIDs(view.Surface(render.Movies)))
}

func TestDashboardFallsBackPerCategory(t *testing.T) {
	f := newFixture(t)
	st := f.portal.NewState()

	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategoryFeatured, Page: 1}).
		Return(page(1, 20), nil)
	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategoryTrending, Page: 1}).
		Return(nil, catalog.ErrNetwork)

	f.portal.Dashboard(context.Background(), visitor, st)
	view := st.View()

	assert.Len(t, view.Surface(render.Featured).Cards, 10)
	trending := view.Surface(render.Trending)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, cardIDs(trending))
	assert.Equal(t, "Inception", trending.Cards[0].Title)
	assert.Len(t, view.Surface(render.Sports).Cards, 6)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategorySearch, Page: 1, Filters: models.Filters{Query: "matrix"}}).
		Return(page(1, 11), nil)
	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategorySearch, Page: 1, Filters: models.Filters{Query: "qqq"}}).
		Return([]models.MediaItem{}, nil)

	shown, committed := f.portal.Search(ctx, st, "matrix")
	assert.True(t, committed)
	assert.False(t, shown.Hidden)
	assert.Len(t, shown.Cards, 8)
	assert.Equal(t, render.Placeholder(render.ThumbnailSize), shown.Cards[0].ImageURL)

	shown, _ = f.portal.Search(ctx, st, "qqq")
	assert.False(t, shown.Hidden)
	assert.Empty(t, shown.Cards)
	assert.Equal(t, render.NoResults, shown.Notice)

	shown, committed = f.portal.Search(ctx, st, "m")
	assert.True(t, committed)
	assert.True(t, shown.Hidden)
	assert.Empty(t, shown.Cards)
	assert.True(t, st.View().Surface(render.Search).Hidden)
}

func TestStaleSearchDoesNotOverwriteNewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	started := make(chan struct{})
	release := make(chan struct{})
	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategorySearch, Page: 1, Filters: models.Filters{Query: "inc"}}).
		DoAndReturn(func(context.Context, catalog.Query) ([]models.MediaItem, error) {
			close(started)
			<-release
			return page(100, 3), nil
		})
	f.provider.EXPECT().
		List(gomock.Any(), catalog.Query{Category: models.CategorySearch, Page: 1, Filters: models.Filters{Query: "inception"}}).
		Return(page(27205, 1), nil)

	type outcome struct {
		shown     render.Surface
		committed bool
	}
	slow := make(chan outcome, 1)
	go func() {
		shown, committed := f.portal.Search(ctx, st, "inc")
		slow <- outcome{shown, committed}
	}()
	<-started

	_, committed := f.portal.Search(ctx, st, "inception")
	require.True(t, committed)

	close(release)
	first := <-slow
	assert.False(t, first.committed)
	assert.Equal(t, []int64{27205}, cardIDs(first.shown))

	view := st.View()
	assert.Equal(t, []int64{27205}, cardIDs(view.Surface(render.Search)))
	assert.Equal(t, "inception", view.Query)
}

func TestWatchlistPageKeepsOrderAndFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	for _, id := range []int64{3, 27205, 999} {
		_, err := f.watchlist.Toggle(ctx, visitor, id)
		require.NoError(t, err)
	}

	f.provider.EXPECT().Movie(gomock.Any(), int64(27205)).Return(&models.MediaDetails{
		MediaItem: models.MediaItem{ID: 27205, Title: "Inception (2010)"},
	}, nil)
	f.provider.EXPECT().Movie(gomock.Any(), int64(3)).Return(nil, errors.New("timeout"))
	f.provider.EXPECT().Movie(gomock.Any(), int64(999)).Return(nil, catalog.ErrNetwork)

	f.portal.Watchlist(ctx, visitor, st)
	shelf := st.View().Surface(render.Watchlist)

	require.Equal(t, []int64{3, 27205, 999}, cardIDs(shelf))
	assert.Equal(t, "Interstellar", shelf.Cards[0].Title)
	assert.Equal(t, "Inception (2010)", shelf.Cards[1].Title)
	assert.Equal(t, "Inception", shelf.Cards[2].Title)
	for _, c := range shelf.Cards {
		assert.True(t, c.InWatchlist)
	}
}

func TestToggleWatchlistUpdatesSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	f.portal.Render(st, render.Featured, page(1, 3), false)

	result, err := f.portal.ToggleWatchlist(ctx, visitor, st, 2)
	require.NoError(t, err)
	assert.True(t, result.InWatchlist)
	assert.Equal(t, "Added to watchlist", result.Notification.Message)

	featured := st.View().Surface(render.Featured)
	assert.False(t, featured.Cards[0].InWatchlist)
	assert.True(t, featured.Cards[1].InWatchlist)

	f.portal.Render(st, render.Watchlist, page(2, 1), false)
	result, err = f.portal.ToggleWatchlist(ctx, visitor, st, 2)
	require.NoError(t, err)
	assert.False(t, result.InWatchlist)

	view := st.View()
	assert.Empty(t, view.Surface(render.Watchlist).Cards)
	assert.False(t, view.Surface(render.Featured).Cards[1].InWatchlist)
}

func TestDetailPlayAndQuality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := f.portal.NewState()

	f.provider.EXPECT().Movie(gomock.Any(), int64(4)).Return(nil, catalog.ErrMalformedPayload)

	detail := f.portal.Detail(ctx, visitor, st, 4)
	assert.Equal(t, "The Matrix", detail.Title)
	assert.Equal(t, "1999", detail.Year)
	open := st.View().Detail
	require.NotNil(t, open)
	assert.Equal(t, int64(4), open.ItemID)

	_, err := f.portal.ToggleWatchlist(ctx, visitor, st, 4)
	require.NoError(t, err)
	assert.True(t, st.View().Detail.InWatchlist)

	_, err = f.portal.SetQuality(st, "720P")
	require.NoError(t, err)
	_, err = f.portal.SetQuality(st, "8K")
	assert.ErrorIs(t, err, playback.ErrInvalidQuality)

	player := f.portal.Play(st, 4)
	assert.Nil(t, st.View().Detail)
	assert.Equal(t, models.PlayerEmbed, player.View.Kind)
	assert.Equal(t, "https://www.vidking.net/embed/movie/4?color=9146ff&autoPlay=true", player.View.SourceURL)
	assert.Equal(t, "720p", player.Quality)

	sport := f.portal.WatchSport(st, 2)
	assert.Equal(t, "Live Sports Event 2", sport.View.Title)
	assert.Equal(t, playback.SampleSportStream, sport.View.SourceURL)
}

func TestSportsFilter(t *testing.T) {
	f := newFixture(t)
	st := f.portal.NewState()

	f.portal.Sports(context.Background(), st, "basketball")
	view := st.View()
	assert.Equal(t, []int64{2, 6}, cardIDs(view.Surface(render.Sports)))
	assert.Equal(t, "basketball", view.Sport)
	assert.Equal(t, []string{"Football", "Basketball", "Tennis", "Cricket"}, f.portal.SportNames(context.Background()))
}
