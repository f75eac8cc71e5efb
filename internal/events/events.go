package events

import (
	"context"
	"fmt"

	"communityBack/internal/models"
)

const (
	subjectPrefix = "listings"
	// AllListings matches every listing subject.
	AllListings = subjectPrefix + ".>"
)

// Subject is listings.<kind>.<action>.
func Subject(kind models.ListingKind, action string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, kind, action)
}

type Handler func(models.ListingEvent)

type Publisher interface {
	Publish(ctx context.Context, ev models.ListingEvent) error
}

type Subscriber interface {
	// Subscribe delivers every listing event to h until the returned
	// function is called.
	Subscribe(h Handler) (func() error, error)
}

// Bus is both ends of the listing event stream.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}
