package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Widget", 10, 5)

	for _, rating := range []int{0, 6, -1} {
		err := s.AddReview(&models.Review{UserID: u.ID, ProductID: p.ID, Rating: rating})
		require.Error(t, err)
	}

	reviews, err := s.ListProductReviews(p.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewsAndAverage(t *testing.T) {
	s := newTestStore(t)
	u1 := seedUser(t, s)
	u2 := seedUser(t, s)
	p := seedProduct(t, s, "Widget", 10, 5)

	require.NoError(t, s.AddReview(&models.Review{UserID: u1.ID, ProductID: p.ID, Rating: 5, Comment: "Great"}))
	require.NoError(t, s.AddReview(&models.Review{UserID: u2.ID, ProductID: p.ID, Rating: 2}))

	reviews, err := s.ListProductReviews(p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	// Newest first: the second review leads.
	assert.Equal(t, u2.Username, reviews[0].Username)
	assert.Equal(t, u1.Username, reviews[1].Username)

	avg, err := s.AverageRating(p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, avg, 0.001)
}

func TestAverageRatingUnreviewed(t *testing.T) {
	s := newTestStore(t)
	p := seedProduct(t, s, "Widget", 10, 5)

	avg, err := s.AverageRating(p.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)
}
