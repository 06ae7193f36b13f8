package models

import "time"

// Quote is an ephemeral price offer returned by a travel search.
// Quotes are never persisted.
type Quote struct {
	Price      float64
	Currency   string
	Provider   string
	ReceivedAt time.Time
}

// User holds the notification-relevant subset of a bot user.
type User struct {
	ID        int64
	Username  string
	Language  string
	CreatedAt time.Time
}
