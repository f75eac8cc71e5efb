package models

import "time"

// Card is the grid view-model a listing row is rendered into.
type Card struct {
	ID             int64       `json:"id"`
	Kind           ListingKind `json:"kind"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle"`
	Category       string      `json:"category"`
	Price          float64     `json:"price"`
	PriceLabel     string      `json:"price_label"`
	Thumbnail      string      `json:"thumbnail,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Bedrooms       *int        `json:"bedrooms,omitempty"`
	ApprovalStatus string      `json:"approval_status"`
	CreatedAt      time.Time   `json:"created_at"`
}

type ListingListResponse struct {
	Kind     ListingKind `json:"kind"`
	Listings []Card      `json:"listings"`
}
