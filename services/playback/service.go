package playback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"streamhub/config"
	"streamhub/internal/store"
	"streamhub/models"
)

const (
	DefaultHost    = "www.vidking.net"
	DefaultColor   = "9146ff"
	DefaultQuality = "1080p"

	// SampleSportStream is played for every sports event until a live feed exists.
	SampleSportStream = "https://sample-videos.com/video123/mp4/720/big_buck_bunny_720p_1mb.mp4"

	playerEventType = "PLAYER_EVENT"
	timeUpdateEvent = "timeupdate"
)

// Qualities lists the selectable stream qualities in menu order.
var Qualities = []string{"480p", "720p", "1080p", "4K"}

var (
	ErrInvalidMessage = errors.New("invalid player message")
	ErrInvalidQuality = errors.New("unsupported quality")
)

// Service builds player views and records progress reported by the embedded player.
type Service struct {
	settings config.PlayerSettings
	store    store.Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewService returns a playback service. Empty settings fall back to the defaults above.
func NewService(settings config.PlayerSettings, s store.Store, logger *zap.Logger) *Service {
	if settings.Host == "" {
		settings.Host = DefaultHost
	}
	settings.Color = strings.TrimPrefix(settings.Color, "#")
	if settings.Color == "" {
		settings.Color = DefaultColor
	}
	if settings.SportStreamURL == "" {
		settings.SportStreamURL = SampleSportStream
	}
	if q, err := NormalizeQuality(settings.DefaultQuality); err == nil {
		settings.DefaultQuality = q
	} else {
		settings.DefaultQuality = DefaultQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{settings: settings, store: s, logger: logger, now: time.Now}
}

// DefaultQuality returns the quality preselected for new visitors.
func (s *Service) DefaultQuality() string {
	return s.settings.DefaultQuality
}

// EmbedURL returns the embedded player address of movie id.
func (s *Service) EmbedURL(id int64) string {
	u := url.URL{
		Scheme: "https",
		Host:   s.settings.Host,
		Path:   "/embed/movie/" + strconv.FormatInt(id, 10),
	}
	return u.String() + "?color=" + url.QueryEscape(s.settings.Color) + "&autoPlay=true"
}

// Play returns the embedded player view of movie id.
func (s *Service) Play(id int64) models.PlayerView {
	return models.PlayerView{
		Kind:      models.PlayerEmbed,
		Title:     fmt.Sprintf("Movie %d", id),
		SourceURL: s.EmbedURL(id),
	}
}

// WatchSport returns the native player view of a sports event. The event id
// only changes the title; every event plays the configured stream.
func (s *Service) WatchSport(eventID int64) models.PlayerView {
	return models.PlayerView{
		Kind:      models.PlayerNative,
		Title:     fmt.Sprintf("Live Sports Event %d", eventID),
		SourceURL: s.settings.SportStreamURL,
		MimeType:  streamType(s.settings.SportStreamURL),
	}
}

func streamType(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	t := mime.TypeByExtension(path.Ext(u.Path))
	if t == "" {
		return "video/mp4"
	}
	return t
}

// NormalizeQuality matches q against Qualities case-insensitively.
func NormalizeQuality(q string) (string, error) {
	q = strings.TrimSpace(q)
	for _, known := range Qualities {
		if strings.EqualFold(known, q) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidQuality, q)
}

type playerMessage struct {
	Type string `json:"type"`
	Data struct {
		Event       string  `json:"event"`
		Progress    float64 `json:"progress"`
		CurrentTime float64 `json:"currentTime"`
		Duration    float64 `json:"duration"`
	} `json:"data"`
}

// HandleMessage validates a message posted by the embedded player and stores
// timeupdate progress. Messages of other types or events are ignored.
func (s *Service) HandleMessage(ctx context.Context, namespace, raw string) error {
	if !gjson.Valid(raw) {
		return fmt.Errorf("%w: not json", ErrInvalidMessage)
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return fmt.Errorf("%w: not an object", ErrInvalidMessage)
	}
	typ := root.Get("type")
	if typ.Exists() && typ.Type != gjson.String {
		return fmt.Errorf("%w: type is %s", ErrInvalidMessage, typ.Type)
	}
	data := root.Get("data")
	if data.Exists() && !data.IsObject() {
		return fmt.Errorf("%w: data is not an object", ErrInvalidMessage)
	}

	if typ.String() != playerEventType {
		return nil
	}
	if !data.Exists() {
		return fmt.Errorf("%w: missing data", ErrInvalidMessage)
	}
	if data.Get("event").String() != timeUpdateEvent {
		return nil
	}

	id, ok := playerID(data.Get("id"))
	if !ok {
		return fmt.Errorf("%w: id %s", ErrInvalidMessage, data.Get("id").Raw)
	}

	var msg playerMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	progress := models.PlaybackProgress{
		ID:          id,
		Progress:    msg.Data.Progress,
		CurrentTime: msg.Data.CurrentTime,
		Duration:    msg.Data.Duration,
		Timestamp:   s.now().UnixMilli(),
	}
	if err := store.PutJSON(ctx, s.store, namespace, models.ProgressKey(progress.ID), progress); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	s.logger.Debug("playback progress",
		zap.String("namespace", namespace),
		zap.Int64("id", progress.ID),
		zap.Float64("currentTime", progress.CurrentTime))
	return nil
}

// AllProgress returns every stored progress record of namespace, ordered by key.
func (s *Service) AllProgress(ctx context.Context, namespace string) ([]models.PlaybackProgress, error) {
	keys, err := s.store.Keys(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	records := []models.PlaybackProgress{}
	for _, key := range keys {
		if !strings.HasPrefix(key, models.ProgressKeyPrefix) {
			continue
		}
		var progress models.PlaybackProgress
		if _, err := store.GetJSON(ctx, s.store, namespace, key, &progress); err != nil {
			s.logger.Warn("skipping unreadable progress", zap.String("namespace", namespace), zap.String("key", key), zap.Error(err))
			continue
		}
		records = append(records, progress)
	}
	return records, nil
}

// ClearProgress forgets the stored progress of movie id.
func (s *Service) ClearProgress(ctx context.Context, namespace string, id int64) error {
	if err := s.store.Delete(ctx, namespace, models.ProgressKey(id)); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// playerID accepts a positive integral JSON number or a string of decimal digits.
func playerID(v gjson.Result) (int64, bool) {
	switch v.Type {
	case gjson.Number:
		f := v.Float()
		if f < 1 || f != math.Trunc(f) || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case gjson.String:
		raw := v.Str
		if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
			return 0, false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Progress returns the last stored progress of movie id.
func (s *Service) Progress(ctx context.Context, namespace string, id int64) (models.PlaybackProgress, bool, error) {
	var progress models.PlaybackProgress
	ok, err := store.GetJSON(ctx, s.store, namespace, models.ProgressKey(id), &progress)
	if err != nil {
		return models.PlaybackProgress{}, false, fmt.Errorf("load progress: %w", err)
	}
	return progress, ok, nil
}
