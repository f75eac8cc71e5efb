package repositories

import (
	"fmt"

	"communityBack/internal/models"
)

// SecondaryFilter is the one kind-specific filter slot between price and tags.
type SecondaryFilter struct {
	Key    string
	Column string
	Op     Op
}

// Schema describes how a listing table maps onto the filter slots.
type Schema struct {
	Kind           models.ListingKind
	Table          string
	SearchColumns  []string
	CategoryColumn string
	PriceColumn    string
	Secondary      SecondaryFilter
	TagsKey        string
	TagsColumn     string
	HasBedrooms    bool
}

var MarketSchema = Schema{
	Kind:           models.KindMarket,
	Table:          "market_items",
	SearchColumns:  []string{"title", "description"},
	CategoryColumn: "category",
	PriceColumn:    "price",
	Secondary:      SecondaryFilter{Key: models.FilterLocation, Column: "location", Op: OpMatch},
	TagsKey:        models.FilterTags,
	TagsColumn:     "tags",
}

var PropertySchema = Schema{
	Kind:           models.KindProperty,
	Table:          "properties",
	SearchColumns:  []string{"title", "description"},
	CategoryColumn: "property_type",
	PriceColumn:    "price",
	Secondary:      SecondaryFilter{Key: models.FilterBedrooms, Column: "bedrooms", Op: OpGte},
	TagsKey:        models.FilterAmenities,
	TagsColumn:     "amenities",
	HasBedrooms:    true,
}

func SchemaFor(kind models.ListingKind) (Schema, error) {
	switch kind {
	case models.KindMarket:
		return MarketSchema, nil
	case models.KindProperty:
		return PropertySchema, nil
	}
	return Schema{}, fmt.Errorf("%w: %q", models.ErrInvalidListingKind, kind)
}

// selectColumns lists the columns in scan order. Properties read bedrooms;
// market items select NULL in its place so both kinds scan the same way.
func (s Schema) selectColumns() string {
	bedrooms := "NULL"
	if s.HasBedrooms {
		bedrooms = "bedrooms"
	}
	return fmt.Sprintf(
		"id, user_id, title, description, price, %s, location, %s, media, %s, approval_status, created_at, updated_at",
		s.CategoryColumn, bedrooms, s.TagsColumn,
	)
}
