package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidListingKind    = errors.New("invalid listing kind")
	ErrInvalidApprovalStatus = errors.New("invalid approval status")
)

type ListingKind string

const (
	KindMarket   ListingKind = "market"
	KindProperty ListingKind = "property"
)

var allowedListingKinds = map[string]ListingKind{
	"market":     KindMarket,
	"property":   KindProperty,
	"properties": KindProperty,
}

func ParseListingKind(raw string) (ListingKind, error) {
	kind, ok := allowedListingKinds[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidListingKind, raw)
	}
	return kind, nil
}

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

func ValidateApprovalStatus(status string) error {
	switch status {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidApprovalStatus, status)
}

// Listing is a row of either market_items or properties. Category holds the
// property type for properties; Tags holds amenities.
type Listing struct {
	ID             int64       `json:"id"`
	Kind           ListingKind `json:"kind"`
	UserID         int64       `json:"user_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          float64     `json:"price"`
	Category       string      `json:"category"`
	Location       string      `json:"location"`
	Bedrooms       *int        `json:"bedrooms,omitempty"`
	Media          []string    `json:"media"`
	Tags           []string    `json:"tags"`
	ApprovalStatus string      `json:"approval_status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      *time.Time  `json:"updated_at,omitempty"`
}

// MissingFields lists the required attributes a submitted listing lacks.
func (l Listing) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(l.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(l.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(l.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(l.Location) == "" {
		missing = append(missing, "location")
	}
	return missing
}

type ListingStatusRequest struct {
	Status string `json:"status"`
}
