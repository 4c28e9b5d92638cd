package store

import (
	"context"
	"testing"
	"time"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndCountSubscribers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sub, err := s.SaveSubscriber(ctx, domain.Subscriber{
		Email:     "buyer@example.com",
		Phone:     "7145550100",
		ZipCode:   "92618",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)

	_, err = s.SaveSubscriber(ctx, domain.Subscriber{Email: "second@example.com"})
	require.NoError(t, err)

	n, err := s.CountSubscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_SaveAndListListings(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	older := domain.Listing{
		ID:         "lst-1",
		Address:    "123 Main St, Santa Ana, CA 92701",
		Price:      domain.IntPtr(850_000),
		Source:     "demo",
		IngestedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	newer := domain.Listing{
		ID:         "lst-2",
		Address:    "456 Oak Ave, Irvine, CA 92618",
		IngestedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveListing(ctx, older))
	require.NoError(t, s.SaveListing(ctx, newer))

	got, err := s.Listings(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "lst-2", got[0].ID) // newest first
	assert.Equal(t, "lst-1", got[1].ID)
	require.NotNil(t, got[1].Price)
	assert.Equal(t, 850_000, *got[1].Price)
	assert.Nil(t, got[0].Price)

	n, err := s.CountListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_DuplicateListingIDRejected(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	l := domain.Listing{ID: "dup", Address: "somewhere"}
	require.NoError(t, s.SaveListing(ctx, l))
	assert.Error(t, s.SaveListing(ctx, l))
}
