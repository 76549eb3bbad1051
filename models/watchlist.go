package models

import "time"

// WatchlistKey is the store key holding a visitor's watchlist as a JSON array of ids.
const WatchlistKey = "streamhub_watchlist"

// WatchlistEntry is a saved movie id.
type WatchlistEntry = int64

// WatchlistToggle reports the outcome of flipping one id.
type WatchlistToggle struct {
	ItemID       int64        `json:"itemId"`
	InWatchlist  bool         `json:"inWatchlist"`
	Watchlist    []int64      `json:"watchlist"`
	Notification Notification `json:"notification"`
}

// NotificationKind mirrors the toast colours of the portal.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is a short user-facing message pushed to the visitor's open pages.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
}
