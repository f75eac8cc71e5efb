package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"communityBack/internal/models"
)

func TestPriceLabel(t *testing.T) {
	tests := map[float64]string{
		0:         "Free",
		15:        "15",
		1250:      "1,250",
		2500000:   "2,500,000",
		1250.5:    "1,250.50",
		99.999999: "100.00",
	}
	for price, want := range tests {
		assert.Equal(t, want, PriceLabel(price), "price %v", price)
	}
}

func TestRenderCard(t *testing.T) {
	three := 3
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	card := RenderCard(models.Listing{
		ID: 4, Kind: models.KindProperty, Title: "House", Location: "Almaty", Category: "house",
		Price: 250000, Bedrooms: &three, Media: []string{"https://cdn/1.jpg", "https://cdn/2.jpg"},
		Tags: []string{"pool"}, ApprovalStatus: models.ApprovalApproved, CreatedAt: at,
	})

	assert.Equal(t, models.Card{
		ID: 4, Kind: models.KindProperty, Title: "House", Subtitle: "Almaty", Category: "house",
		Price: 250000, PriceLabel: "250,000", Thumbnail: "https://cdn/1.jpg", Tags: []string{"pool"},
		Bedrooms: &three, ApprovalStatus: models.ApprovalApproved, CreatedAt: at,
	}, card)
}

func TestRenderCardsNeverNil(t *testing.T) {
	cards := RenderCards(nil)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)

	cards = RenderCards([]models.Listing{{ID: 2}, {ID: 1}})
	assert.Equal(t, int64(2), cards[0].ID)
	assert.Empty(t, cards[0].Thumbnail)
}
