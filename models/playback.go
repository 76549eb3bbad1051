package models

import "strconv"

// ProgressKeyPrefix prefixes the store key of a PlaybackProgress record.
const ProgressKeyPrefix = "movie_progress_"

// ProgressKey returns the store key holding the playback progress of id.
func ProgressKey(id int64) string {
	return ProgressKeyPrefix + strconv.FormatInt(id, 10)
}

// PlaybackProgress is the last time update reported by the external player.
// Timestamp is in Unix milliseconds.
type PlaybackProgress struct {
	ID          int64   `json:"id"`
	Progress    float64 `json:"progress"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
	Timestamp   int64   `json:"timestamp"`
}

// PlayerKind selects how the video surface renders a PlayerView.
type PlayerKind string

const (
	PlayerEmbed  PlayerKind = "iframe"
	PlayerNative PlayerKind = "video"
)

// PlayerView describes what the video modal should show.
type PlayerView struct {
	Kind      PlayerKind `json:"kind"`
	Title     string     `json:"title"`
	SourceURL string     `json:"sourceUrl"`
	MimeType  string     `json:"mimeType,omitempty"`
	Quality   string     `json:"quality,omitempty"`
}
