package models

import "time"

// Visitor identifies one browser talking to the portal. Its ID namespaces
// everything the visitor persists (watchlist, playback progress).
type Visitor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	SeenAt    time.Time `json:"seenAt"`
}
