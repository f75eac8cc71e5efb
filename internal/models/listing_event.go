package models

import "time"

const (
	ListingCreated       = "created"
	ListingStatusChanged = "status"
	ListingDeleted       = "deleted"
)

type ListingEvent struct {
	Kind   ListingKind `json:"kind"`
	ID     int64       `json:"id"`
	Action string      `json:"action"`
	At     time.Time   `json:"at"`
}
