package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"communityBack/internal/cache"
	"communityBack/internal/errors"
	"communityBack/internal/events"
	"communityBack/internal/logging"
	"communityBack/internal/models"
	"communityBack/internal/repositories"
)

// ListingStore is the persistence a ListingService needs.
// *repositories.ListingRepository implements it.
type ListingStore interface {
	Kind() models.ListingKind
	CreateListing(ctx context.Context, l models.Listing) (models.Listing, error)
	GetListingByID(ctx context.Context, id int64) (models.Listing, error)
	SearchListings(ctx context.Context, state models.FilterState) ([]models.Listing, error)
	UpdateApprovalStatus(ctx context.Context, id int64, status string) error
	DeleteListing(ctx context.Context, id int64) error
}

// ListingService serves one listing kind. Cache and Events are optional.
type ListingService struct {
	Repo     ListingStore
	Cache    cache.Cache
	CacheTTL time.Duration
	Events   events.Publisher
	Logger   logging.Logger
}

func NewListingService(repo ListingStore, c cache.Cache, ttl time.Duration, pub events.Publisher, logger logging.Logger) *ListingService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ListingService{Repo: repo, Cache: c, CacheTTL: ttl, Events: pub, Logger: logger}
}

func (s *ListingService) Kind() models.ListingKind {
	return s.Repo.Kind()
}

// Query runs the filter against the database and renders the rows. Every
// call is one round-trip.
func (s *ListingService) Query(ctx context.Context, state models.FilterState) ([]models.Card, error) {
	listings, err := s.Repo.SearchListings(ctx, state)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Internal("failed to search listings", err)
	}
	return RenderCards(listings), nil
}

// Search is Query behind the card cache. Cache failures fall through to the
// database.
func (s *ListingService) Search(ctx context.Context, state models.FilterState) ([]models.Card, error) {
	if s.Cache == nil {
		return s.Query(ctx, state)
	}

	key, err := s.cacheKey(ctx, state)
	if err != nil {
		s.Logger.Errorf("listing cache key for %s: %v", s.Kind(), err)
		return s.Query(ctx, state)
	}

	if data, err := s.Cache.Get(ctx, key); err == nil {
		var cards []models.Card
		if err := json.Unmarshal(data, &cards); err == nil {
			return cards, nil
		}
		s.Logger.Errorf("listing cache entry %s is corrupt", key)
	} else if !stderrors.Is(err, cache.ErrNotFound) {
		s.Logger.Errorf("listing cache get %s: %v", key, err)
	}

	cards, err := s.Query(ctx, state)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(cards); err == nil {
		if err := s.Cache.Set(ctx, key, data, s.CacheTTL); err != nil {
			s.Logger.Errorf("listing cache set %s: %v", key, err)
		}
	}
	return cards, nil
}

func (s *ListingService) versionKey() string {
	return fmt.Sprintf("listings:%s:version", s.Kind())
}

func (s *ListingService) cacheKey(ctx context.Context, state models.FilterState) (string, error) {
	version := "0"
	data, err := s.Cache.Get(ctx, s.versionKey())
	switch {
	case err == nil:
		version = string(data)
	case stderrors.Is(err, cache.ErrNotFound):
	default:
		return "", err
	}

	canonical, err := state.Canonical()
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(canonical)
	return fmt.Sprintf("listings:%s:v%s:%s", s.Kind(), version, hex.EncodeToString(sum[:])), nil
}

// CreateListing validates the required fields and stores the listing as
// pending, owned by actor.
func (s *ListingService) CreateListing(ctx context.Context, actor models.Actor, l models.Listing) (models.Listing, error) {
	if missing := l.MissingFields(); len(missing) > 0 {
		return models.Listing{}, errors.InvalidInput("missing required fields: "+strings.Join(missing, ", "), nil)
	}
	if l.Price < 0 {
		return models.Listing{}, errors.InvalidInput("price must not be negative", nil)
	}
	if s.Kind() != models.KindProperty {
		l.Bedrooms = nil
	} else if l.Bedrooms != nil && *l.Bedrooms < 0 {
		return models.Listing{}, errors.InvalidInput("bedrooms must not be negative", nil)
	}

	l.ID = 0
	l.UserID = actor.UserID
	l.ApprovalStatus = models.ApprovalPending
	l.CreatedAt = time.Time{}
	l.UpdatedAt = nil

	created, err := s.Repo.CreateListing(ctx, l)
	if stderrors.Is(err, repositories.ErrConstraintViolation) {
		return models.Listing{}, errors.InvalidInput("listing rejected by database constraints", err)
	}
	if err != nil {
		return models.Listing{}, errors.Internal("failed to create listing", err)
	}
	s.changed(ctx, created.ID, models.ListingCreated)
	return created, nil
}

func (s *ListingService) GetListing(ctx context.Context, id int64) (models.Listing, error) {
	l, err := s.Repo.GetListingByID(ctx, id)
	if stderrors.Is(err, repositories.ErrListingNotFound) {
		return models.Listing{}, errors.NotFound("listing not found", err)
	}
	if err != nil {
		return models.Listing{}, errors.Internal("failed to get listing", err)
	}
	return l, nil
}

func (s *ListingService) SetApprovalStatus(ctx context.Context, id int64, status string) error {
	if err := models.ValidateApprovalStatus(status); err != nil {
		return errors.InvalidInput("invalid approval status", err)
	}
	err := s.Repo.UpdateApprovalStatus(ctx, id, status)
	if stderrors.Is(err, repositories.ErrListingNotFound) {
		return errors.NotFound("listing not found", err)
	}
	if err != nil {
		return errors.Internal("failed to update approval status", err)
	}
	s.changed(ctx, id, models.ListingStatusChanged)
	return nil
}

// DeleteListing removes a listing when actor owns it or is an admin.
func (s *ListingService) DeleteListing(ctx context.Context, actor models.Actor, id int64) error {
	l, err := s.GetListing(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != actor.UserID && !actor.IsAdmin() {
		return errors.Forbidden("only the owner or an admin can delete a listing", nil)
	}

	err = s.Repo.DeleteListing(ctx, id)
	if stderrors.Is(err, repositories.ErrListingNotFound) {
		return errors.NotFound("listing not found", err)
	}
	if err != nil {
		return errors.Internal("failed to delete listing", err)
	}
	s.changed(ctx, id, models.ListingDeleted)
	return nil
}

// changed invalidates cached card lists of this kind and announces the
// write. Neither failure fails the write itself.
func (s *ListingService) changed(ctx context.Context, id int64, action string) {
	if s.Cache != nil {
		if _, err := s.Cache.Incr(ctx, s.versionKey()); err != nil {
			s.Logger.Errorf("listing cache version bump for %s: %v", s.Kind(), err)
		}
	}
	if s.Events != nil {
		ev := models.ListingEvent{Kind: s.Kind(), ID: id, Action: action, At: time.Now().UTC()}
		if err := s.Events.Publish(ctx, ev); err != nil {
			s.Logger.Errorf("publish %s: %v", events.Subject(ev.Kind, ev.Action), err)
		}
	}
}
