package store

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/i474232898/weather-logbook/internal/weather"
)

var frozen = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func seattle() weather.Fields {
	return weather.Fields{
		Location:    weather.Ptr("Seattle"),
		Temperature: weather.Ptr("18°C"),
		Humidity:    weather.Ptr("60%"),
		Description: weather.Ptr("Cloudy"),
	}
}

func TestMemoryStore_CreateAssignsIDAndTimestamp(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClockAt(frozen))

	rec, err := s.Create(context.Background(), seattle())
	require.NoError(t, err)

	assert.False(t, rec.ID.IsZero())
	assert.Equal(t, frozen, rec.CreatedAt)
	assert.Equal(t, "Seattle", *rec.Location)
	assert.Equal(t, "18°C", *rec.Temperature)
}

func TestMemoryStore_ListKeepsInsertionOrder(t *testing.T) {
	clock := clockwork.NewFakeClockAt(frozen)
	s := NewMemoryStore(clock)
	ctx := context.Background()

	first, err := s.Create(ctx, weather.Fields{Location: weather.Ptr("Oslo")})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := s.Create(ctx, weather.Fields{Location: weather.Ptr("Lima")})
	require.NoError(t, err)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first.ID, recs[0].ID)
	assert.Equal(t, second.ID, recs[1].ID)
	assert.Equal(t, frozen.Add(time.Minute), recs[1].CreatedAt)
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	s := NewMemoryStore(nil)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestMemoryStore_UpdateChangesOnlySuppliedFields(t *testing.T) {
	s := NewMemoryStore(clockwork.NewFakeClockAt(frozen))
	ctx := context.Background()

	rec, err := s.Create(ctx, seattle())
	require.NoError(t, err)

	updated, err := s.Update(ctx, rec.ID.Hex(), weather.Fields{Temperature: weather.Ptr("20°C")})
	require.NoError(t, err)
	assert.Equal(t, "20°C", *updated.Temperature)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "20°C", *recs[0].Temperature)
	assert.Equal(t, "Seattle", *recs[0].Location)
	assert.Equal(t, "60%", *recs[0].Humidity)
	assert.Equal(t, "Cloudy", *recs[0].Description)
	assert.Equal(t, frozen, recs[0].CreatedAt)
}

func TestMemoryStore_UpdateEmptyPatchIsNoop(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	rec, err := s.Create(ctx, seattle())
	require.NoError(t, err)

	updated, err := s.Update(ctx, rec.ID.Hex(), weather.Fields{})
	require.NoError(t, err)
	assert.Equal(t, rec, updated)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	s := NewMemoryStore(nil)

	_, err := s.Update(context.Background(), primitive.NewObjectID().Hex(), seattle())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_InvalidID(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := s.Update(ctx, "not-an-id", seattle())
	assert.ErrorIs(t, err, ErrInvalidID)

	err = s.Delete(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	keep, err := s.Create(ctx, weather.Fields{Location: weather.Ptr("Oslo")})
	require.NoError(t, err)
	gone, err := s.Create(ctx, weather.Fields{Location: weather.Ptr("Lima")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, gone.ID.Hex()))

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, keep.ID, recs[0].ID)
}

func TestMemoryStore_DeleteMissingIsNotAnError(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	_, err := s.Create(ctx, seattle())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, primitive.NewObjectID().Hex()))

	recs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestMemoryStore_ReturnedRecordsDoNotAlias(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	rec, err := s.Create(ctx, seattle())
	require.NoError(t, err)
	*rec.Location = "Tacoma"

	recs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Seattle", *recs[0].Location)
}
