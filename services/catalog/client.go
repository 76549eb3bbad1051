package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"streamhub/config"
	"streamhub/models"
	"streamhub/utils"
	"streamhub/utils/language"
)

var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("catalog request failed")
	// ErrMalformedPayload is returned when a response body does not have the expected shape.
	ErrMalformedPayload = errors.New("malformed catalog payload")
)

// maxPage is the last page the provider serves.
const maxPage = 500

// StatusError reports a non-2xx provider response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Unwrap lets errors.Is(err, ErrNetwork) match status failures.
func (e *StatusError) Unwrap() error { return ErrNetwork }

// Query selects one page of a catalog listing.
type Query struct {
	Category models.Category
	Page     int
	Filters  models.Filters
}

func (q Query) key() string {
	return strings.Join([]string{
		string(q.Category), strconv.Itoa(q.Page), q.Filters.Genre, q.Filters.Year, q.Filters.Query,
	}, "|")
}

//go:generate mockgen -source=client.go -destination=mocks/mock_provider.go -package=mocks

// Provider is the remote movie catalog.
type Provider interface {
	List(ctx context.Context, q Query) ([]models.MediaItem, error)
	Movie(ctx context.Context, id int64) (*models.MediaDetails, error)
}

// Client talks to a TMDB-compatible HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Provider = (*Client)(nil)

// NewClient builds a client from settings. A nil httpClient gets one with the configured timeout.
func NewClient(settings config.CatalogSettings, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		timeout := settings.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(settings.BaseURL, "/"),
		apiKey:     settings.APIKey,
		language:   language.CatalogLocale(settings.Language),
		httpClient: httpClient,
		logger:     logger,
	}
}

// ListURL returns the request URL for q.
func (c *Client) ListURL(q Query) (string, error) {
	var path string
	params := url.Values{}
	switch q.Category {
	case models.CategoryFeatured:
		path = "/movie/popular"
	case models.CategoryTrending:
		path = "/trending/movie/week"
	case models.CategoryDiscover:
		path = "/discover/movie"
		params.Set("sort_by", "popularity.desc")
		if q.Filters.Genre != "" {
			params.Set("with_genres", q.Filters.Genre)
		}
		if q.Filters.Year != "" {
			params.Set("primary_release_year", q.Filters.Year)
		}
	case models.CategorySearch:
		path = "/search/movie"
		params.Set("query", q.Filters.Query)
	default:
		return "", fmt.Errorf("unknown category %q", q.Category)
	}
	if q.Category != models.CategorySearch {
		params.Set("page", strconv.Itoa(clampPage(q.Page)))
	}
	return c.endpoint(path, params), nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return c.baseURL + path + "?" + params.Encode()
}

// List fetches one page of a listing in provider order.
func (c *Client) List(ctx context.Context, q Query) ([]models.MediaItem, error) {
	endpoint, err := c.ListURL(q)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Page    int                 `json:"page"`
		Results *[]models.MediaItem `json:"results"`
	}
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedPayload)
	}
	return *payload.Results, nil
}

// Movie fetches the detail record of one movie.
func (c *Client) Movie(ctx context.Context, id int64) (*models.MediaDetails, error) {
	endpoint := c.endpoint("/movie/"+strconv.FormatInt(id, 10), url.Values{})

	var details models.MediaDetails
	if err := c.get(ctx, endpoint, &details); err != nil {
		return nil, err
	}
	if details.ID == 0 {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedPayload)
	}
	return &details, nil
}

func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = utils.RedactURL(urlErr.URL)
		}
		c.logger.Debug("catalog request error", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: utils.RedactURL(endpoint)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return nil
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}
