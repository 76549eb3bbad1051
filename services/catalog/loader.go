// Package catalog loads movie listings from the remote catalog and masks
// its failures with a fixed sample sequence.
package catalog

import (
	"context"
	"strconv"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"streamhub/models"
)

// MinSearchLength is the shortest query that reaches the provider.
const MinSearchLength = 2

var caps = map[models.Category]int{
	models.CategoryFeatured: 10,
	models.CategoryTrending: 12,
	models.CategorySearch:   8,
}

// Cap returns the maximum number of items shown for category, 0 meaning unbounded.
func Cap(category models.Category) int {
	return caps[category]
}

// Loader fetches listings and never fails: provider errors are logged and
// replaced by the fallback sequence.
type Loader struct {
	provider Provider
	logger   *zap.Logger
	group    singleflight.Group
}

// NewLoader wraps provider.
func NewLoader(provider Provider, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{provider: provider, logger: logger}
}

// LoadCategory returns one page of category in provider order, truncated to Cap(category).
func (l *Loader) LoadCategory(ctx context.Context, category models.Category, page int, filters models.Filters) []models.MediaItem {
	q := Query{Category: category, Page: clampPage(page), Filters: filters}
	limit := Cap(category)

	// Shared calls outlive a single caller's cancellation; the HTTP client timeout bounds them.
	v, err, shared := l.group.Do(q.key(), func() (any, error) {
		return l.provider.List(context.WithoutCancel(ctx), q)
	})
	if err != nil {
		l.logger.Warn("catalog unavailable, serving fallback",
			zap.String("category", string(category)),
			zap.Int("page", q.Page),
			zap.Error(err))
		return Fallback(limit)
	}
	if shared {
		l.logger.Debug("collapsed catalog request", zap.String("category", string(category)), zap.Int("page", q.Page))
	}

	items := v.([]models.MediaItem)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]models.MediaItem(nil), items...)
}

// Search runs query against the provider. Queries shorter than
// MinSearchLength characters are not sent and report searched=false.
func (l *Loader) Search(ctx context.Context, query string) (items []models.MediaItem, searched bool) {
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, false
	}
	return l.LoadCategory(ctx, models.CategorySearch, 1, models.Filters{Query: query}), true
}

// Details returns the detail record of id, or the matching sample movie on failure.
func (l *Loader) Details(ctx context.Context, id int64) models.MediaDetails {
	v, err, _ := l.group.Do("movie|"+strconv.FormatInt(id, 10), func() (any, error) {
		return l.provider.Movie(context.WithoutCancel(ctx), id)
	})
	if err != nil {
		l.logger.Warn("movie details unavailable, serving fallback", zap.Int64("id", id), zap.Error(err))
		return FallbackDetails(id)
	}
	return *v.(*models.MediaDetails)
}
