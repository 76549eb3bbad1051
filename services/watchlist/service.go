// Package watchlist keeps each visitor's saved movies.
package watchlist

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"

	"go.uber.org/zap"

	"streamhub/internal/store"
	"streamhub/models"
)

const (
	addedMessage   = "Added to watchlist"
	removedMessage = "Removed from watchlist"

	lockShards = 64
)

// Notifier receives the outcome of every toggle.
type Notifier interface {
	Notify(namespace, message string, kind models.NotificationKind) models.Notification
}

// Service toggles ids in a persisted watchlist.
type Service struct {
	store    store.Store
	notifier Notifier
	logger   *zap.Logger

	// serializes read-modify-write cycles; a namespace always maps to the same shard
	locks [lockShards]sync.Mutex
}

// NewService returns a watchlist over s. notifier may be nil.
func NewService(s store.Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, notifier: notifier, logger: logger}
}

func (s *Service) shard(namespace string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	return &s.locks[h.Sum32()%lockShards]
}

func (s *Service) lock(namespace string) func() {
	mu := s.shard(namespace)
	mu.Lock()
	return mu.Unlock
}

// List returns the saved ids in insertion order.
func (s *Service) List(ctx context.Context, namespace string) ([]int64, error) {
	var ids []int64
	if _, err := store.GetJSON(ctx, s.store, namespace, models.WatchlistKey, &ids); err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	return ids, nil
}

// Contains reports whether id is saved.
func (s *Service) Contains(ctx context.Context, namespace string, id int64) (bool, error) {
	ids, err := s.List(ctx, namespace)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// Toggle removes id when present and appends it otherwise. The updated list
// is persisted before Toggle returns; on error nothing was changed.
func (s *Service) Toggle(ctx context.Context, namespace string, id int64) (models.WatchlistToggle, error) {
	unlock := s.lock(namespace)
	defer unlock()

	ids, err := s.List(ctx, namespace)
	if err != nil {
		return models.WatchlistToggle{}, err
	}

	result := models.WatchlistToggle{ItemID: id}
	message, kind := addedMessage, models.NotificationSuccess
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		message = removedMessage
	} else {
		ids = append(ids, id)
		result.InWatchlist = true
	}
	if ids == nil {
		ids = []int64{}
	}

	if err := store.PutJSON(ctx, s.store, namespace, models.WatchlistKey, ids); err != nil {
		return models.WatchlistToggle{}, fmt.Errorf("save watchlist: %w", err)
	}

	result.Watchlist = ids
	if s.notifier != nil {
		result.Notification = s.notifier.Notify(namespace, message, kind)
	} else {
		result.Notification = models.Notification{Message: message, Kind: kind}
	}
	s.logger.Debug("watchlist toggled",
		zap.String("namespace", namespace),
		zap.Int64("id", id),
		zap.Bool("inWatchlist", result.InWatchlist))
	return result, nil
}
