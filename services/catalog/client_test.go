package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/config"
	"streamhub/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.CatalogSettings{
		BaseURL:  srv.URL + "/3/",
		APIKey:   "secret",
		Language: "en",
	}, srv.Client(), nil)
}

func TestListURL(t *testing.T) {
	c := NewClient(config.CatalogSettings{BaseURL: "https://api.example/3", APIKey: "k", Language: "fr"}, nil, nil)

	tests := []struct {
		name   string
		query  Query
		path   string
		params map[string]string
	}{
		{
			name:   "featured",
			query:  Query{Category: models.CategoryFeatured, Page: 2},
			path:   "/3/movie/popular",
			params: map[string]string{"page": "2", "api_key": "k", "language": "fr-FR"},
		},
		{
			name:   "trending clamps page",
			query:  Query{Category: models.CategoryTrending, Page: 0},
			path:   "/3/trending/movie/week",
			params: map[string]string{"page": "1"},
		},
		{
			name:   "discover with filters",
			query:  Query{Category: models.CategoryDiscover, Page: 3, Filters: models.Filters{Genre: "28", Year: "2010"}},
			path:   "/3/discover/movie",
			params: map[string]string{"page": "3", "sort_by": "popularity.desc", "with_genres": "28", "primary_release_year": "2010"},
		},
		{
			name:   "search",
			query:  Query{Category: models.CategorySearch, Filters: models.Filters{Query: "dark knight"}},
			path:   "/3/search/movie",
			params: map[string]string{"query": "dark knight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := c.ListURL(tt.query)
			require.NoError(t, err)
			u, err := url.Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.path, u.Path)
			for key, want := range tt.params {
				assert.Equal(t, want, u.Query().Get(key), key)
			}
		})
	}

	t.Run("discover without filters", func(t *testing.T) {
		raw, err := c.ListURL(Query{Category: models.CategoryDiscover, Page: 1})
		require.NoError(t, err)
		assert.NotContains(t, raw, "with_genres")
		assert.NotContains(t, raw, "primary_release_year")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := c.ListURL(Query{Category: "upcoming"})
		assert.Error(t, err)
	})
}

func TestClientListSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/popular", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":1,"results":[
			{"id":27205,"title":"Inception","poster_path":"/p.jpg","vote_average":8.4,"release_date":"2010-07-15"},
			{"id":155,"title":"The Dark Knight","poster_path":null,"vote_average":8.5}
		]}`))
	})

	items, err := c.List(context.Background(), Query{Category: models.CategoryFeatured, Page: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(27205), items[0].ID)
	assert.Equal(t, "/p.jpg", items[0].PosterPath)
	assert.Equal(t, "", items[1].PosterPath)
	assert.Equal(t, "", items[1].ReleaseDate)
}

func TestClientListFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{}`, ErrNetwork},
		{"unauthorized", http.StatusUnauthorized, `{"status_message":"Invalid API key"}`, ErrNetwork},
		{"not json", http.StatusOK, `<html>`, ErrMalformedPayload},
		{"missing results", http.StatusOK, `{"page":1}`, ErrMalformedPayload},
		{"results not an array", http.StatusOK, `{"results":{}}`, ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.List(context.Background(), Query{Category: models.CategoryTrending, Page: 1})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.NotContains(t, err.Error(), "secret")
		})
	}
}

func TestClientStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.List(context.Background(), Query{Category: models.CategoryFeatured, Page: 1})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Contains(t, statusErr.URL, "api_key=REDACTED")
}

func TestClientTransportErrorIsRedacted(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(config.CatalogSettings{BaseURL: base, APIKey: "secret"}, nil, nil)
	_, err := c.List(context.Background(), Query{Category: models.CategoryFeatured, Page: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, strings.Contains(err.Error(), "secret"), err.Error())
}

func TestClientMovie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/27205", r.URL.Path)
		w.Write([]byte(`{"id":27205,"title":"Inception","runtime":148,"budget":160000000,
			"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}`))
	})

	details, err := c.Movie(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", details.Title)
	assert.Equal(t, 148, details.Runtime)
	assert.Equal(t, int64(160000000), details.Budget)
	require.Len(t, details.Genres, 2)
	assert.Equal(t, "Science Fiction", details.Genres[1].Name)
}

func TestClientMovieWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})

	_, err := c.Movie(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}
