package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityBack/internal/models"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

type rowScanner interface {
	Scan(dest ...any) error
}

// ListingRepository stores one listing kind. Market items and properties
// share the code and differ only by Schema.
type ListingRepository struct {
	DB       *sql.DB
	Dialect  Dialect
	Schema   Schema
	composer Composer
}

func NewListingRepository(db *sql.DB, dialect Dialect, schema Schema) *ListingRepository {
	return &ListingRepository{DB: db, Dialect: dialect, Schema: schema, composer: Composer{Schema: schema}}
}

func (r *ListingRepository) Kind() models.ListingKind {
	return r.Schema.Kind
}

func (r *ListingRepository) CreateListing(ctx context.Context, l models.Listing) (models.Listing, error) {
	mediaJSON, err := json.Marshal(nonNil(l.Media))
	if err != nil {
		return models.Listing{}, fmt.Errorf("failed to marshal media: %w", err)
	}
	tagsJSON, err := json.Marshal(nonNil(l.Tags))
	if err != nil {
		return models.Listing{}, fmt.Errorf("failed to marshal tags: %w", err)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if l.ApprovalStatus == "" {
		l.ApprovalStatus = models.ApprovalPending
	}
	l.Kind = r.Schema.Kind

	columns := []string{"user_id", "title", "description", "price", r.Schema.CategoryColumn, "location", "media", r.Schema.TagsColumn, "approval_status", "created_at"}
	args := []any{l.UserID, l.Title, l.Description, l.Price, l.Category, l.Location, string(mediaJSON), string(tagsJSON), l.ApprovalStatus, l.CreatedAt}
	if r.Schema.HasBedrooms {
		columns = append(columns, "bedrooms")
		var bedrooms any
		if l.Bedrooms != nil {
			bedrooms = *l.Bedrooms
		}
		args = append(args, bedrooms)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = r.Dialect.Placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.Schema.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if r.Dialect.ReturningID() {
		if err := r.DB.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&l.ID); err != nil {
			return models.Listing{}, wrapWriteError(err)
		}
		return l, nil
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Listing{}, wrapWriteError(err)
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.Listing{}, err
	}
	l.ID = lastID
	return l, nil
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int64) (models.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s", r.Schema.selectColumns(), r.Schema.Table, r.Dialect.Placeholder(1))
	l, err := r.scanListing(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Listing{}, ErrListingNotFound
	}
	if err != nil {
		return models.Listing{}, err
	}
	return l, nil
}

// SearchListings runs the composed filter query. The result is never nil.
func (r *ListingRepository) SearchListings(ctx context.Context, state models.FilterState) ([]models.Listing, error) {
	query, args, err := BuildSearchQuery(r.Dialect, r.Schema, r.composer.Compose(state))
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := r.scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) UpdateApprovalStatus(ctx context.Context, id int64, status string) error {
	query := fmt.Sprintf("UPDATE %s SET approval_status = %s, updated_at = %s WHERE id = %s",
		r.Schema.Table, r.Dialect.Placeholder(1), r.Dialect.Placeholder(2), r.Dialect.Placeholder(3))
	res, err := r.DB.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) DeleteListing(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = %s", r.Schema.Table, r.Dialect.Placeholder(1))
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) scanListing(row rowScanner) (models.Listing, error) {
	var (
		l                   models.Listing
		bedrooms            sql.NullInt64
		mediaJSON, tagsJSON []byte
		updatedAt           sql.NullTime
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.Category, &l.Location,
		&bedrooms, &mediaJSON, &tagsJSON, &l.ApprovalStatus, &l.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}

	l.Kind = r.Schema.Kind
	if bedrooms.Valid {
		n := int(bedrooms.Int64)
		l.Bedrooms = &n
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		l.UpdatedAt = &t
	}
	if len(mediaJSON) > 0 {
		if err := json.Unmarshal(mediaJSON, &l.Media); err != nil {
			return models.Listing{}, fmt.Errorf("json decode media error: %w", err)
		}
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &l.Tags); err != nil {
			return models.Listing{}, fmt.Errorf("json decode tags error: %w", err)
		}
	}
	return l, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
