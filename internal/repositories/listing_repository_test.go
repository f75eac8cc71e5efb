package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityBack/internal/db"
	"communityBack/internal/models"
)

func newTestRepos(t *testing.T) (*ListingRepository, *ListingRepository) {
	t.Helper()
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn, "sqlite"))

	d, err := DialectFor("sqlite")
	require.NoError(t, err)
	return NewListingRepository(conn, d, MarketSchema), NewListingRepository(conn, d, PropertySchema)
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedMarket(t *testing.T, repo *ListingRepository) []models.Listing {
	t.Helper()
	items := []models.Listing{
		{UserID: 1, Title: "Oak chair", Description: "Solid wood", Price: 40, Category: "furniture", Location: "Almaty", Tags: []string{"wood", "vintage"}, Media: []string{"https://cdn/x/chair.jpg"}},
		{UserID: 2, Title: "Physics textbook", Description: "50% off cover price", Price: 12, Category: "books", Location: "Astana", Tags: []string{"used"}},
		{UserID: 1, Title: "Desk lamp", Description: "Warm_light bulb", Price: 0, Category: "furniture", Location: "Almaty", Tags: []string{"lighting"}},
	}
	var out []models.Listing
	for i, item := range items {
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		created, err := repo.CreateListing(context.Background(), item)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func titles(listings []models.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Title
	}
	return out
}

func TestCreateAndGetListing(t *testing.T) {
	market, _ := newTestRepos(t)
	created := seedMarket(t, market)

	got, err := market.GetListingByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.KindMarket, got.Kind)
	assert.Equal(t, "Oak chair", got.Title)
	assert.Equal(t, models.ApprovalPending, got.ApprovalStatus)
	assert.Equal(t, []string{"wood", "vintage"}, got.Tags)
	assert.Equal(t, []string{"https://cdn/x/chair.jpg"}, got.Media)
	assert.True(t, base.Equal(got.CreatedAt))
	assert.Nil(t, got.Bedrooms)
	assert.Nil(t, got.UpdatedAt)

	_, err = market.GetListingByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestSearchListingsNewestFirst(t *testing.T) {
	market, _ := newTestRepos(t)
	seedMarket(t, market)

	got, err := market.SearchListings(context.Background(), models.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk lamp", "Physics textbook", "Oak chair"}, titles(got))
}

func TestSearchListingsFilters(t *testing.T) {
	market, _ := newTestRepos(t)
	seedMarket(t, market)

	tests := []struct {
		name  string
		state models.FilterState
		want  []string
	}{
		{"category", models.FilterState{models.FilterCategory: "furniture"}, []string{"Desk lamp", "Oak chair"}},
		{"all category", models.FilterState{models.FilterCategory: "all"}, []string{"Desk lamp", "Physics textbook", "Oak chair"}},
		{"search is case-insensitive", models.FilterState{models.FilterSearch: "OAK"}, []string{"Oak chair"}},
		{"search matches description", models.FilterState{models.FilterSearch: "wood"}, []string{"Oak chair"}},
		{"percent is literal", models.FilterState{models.FilterSearch: "50%"}, []string{"Physics textbook"}},
		{"underscore is literal", models.FilterState{models.FilterSearch: "a_m"}, []string{}},
		{"underscore matches itself", models.FilterState{models.FilterSearch: "warm_light"}, []string{"Desk lamp"}},
		{"price range", models.FilterState{models.FilterPrice: map[string]any{"min": 10.0, "max": 30.0}}, []string{"Physics textbook"}},
		{"location", models.FilterState{models.FilterLocation: "alma"}, []string{"Desk lamp", "Oak chair"}},
		{"tags overlap", models.FilterState{models.FilterTags: []any{"used", "lighting"}}, []string{"Desk lamp", "Physics textbook"}},
		{"combined", models.FilterState{models.FilterCategory: "furniture", models.FilterTags: "vintage"}, []string{"Oak chair"}},
		{"no match", models.FilterState{models.FilterCategory: "cars"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := market.SearchListings(context.Background(), tt.state)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestPropertyListings(t *testing.T) {
	_, props := newTestRepos(t)
	ctx := context.Background()

	two, three := 2, 3
	_, err := props.CreateListing(ctx, models.Listing{UserID: 5, Title: "Flat", Description: "City centre", Price: 90000, Category: "apartment", Location: "Astana", Bedrooms: &two, Tags: []string{"parking"}, CreatedAt: base})
	require.NoError(t, err)
	_, err = props.CreateListing(ctx, models.Listing{UserID: 5, Title: "House", Description: "Garden", Price: 250000, Category: "house", Location: "Almaty", Bedrooms: &three, Tags: []string{"pool", "garden"}, CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	got, err := props.SearchListings(ctx, models.FilterState{models.FilterBedrooms: 3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "House", got[0].Title)
	assert.Equal(t, "house", got[0].Category)
	require.NotNil(t, got[0].Bedrooms)
	assert.Equal(t, 3, *got[0].Bedrooms)

	got, err = props.SearchListings(ctx, models.FilterState{models.FilterAmenities: "parking"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Flat"}, titles(got))

	got, err = props.SearchListings(ctx, models.FilterState{models.FilterCategory: "apartment"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Flat"}, titles(got))
}

func TestUpdateApprovalStatusAndDelete(t *testing.T) {
	market, _ := newTestRepos(t)
	created := seedMarket(t, market)
	ctx := context.Background()

	require.NoError(t, market.UpdateApprovalStatus(ctx, created[1].ID, models.ApprovalApproved))
	got, err := market.GetListingByID(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, got.ApprovalStatus)
	assert.NotNil(t, got.UpdatedAt)

	assert.ErrorIs(t, market.UpdateApprovalStatus(ctx, 9999, models.ApprovalRejected), ErrListingNotFound)

	require.NoError(t, market.DeleteListing(ctx, created[1].ID))
	assert.ErrorIs(t, market.DeleteListing(ctx, created[1].ID), ErrListingNotFound)
	_, err = market.GetListingByID(ctx, created[1].ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}
