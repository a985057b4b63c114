package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func sampleResult() schema.NormalizedResult {
	return schema.NormalizedResult{
		ParsedQuery: schema.ParsedQuery{
			ProductType:     schema.ProductHeadphones,
			PriceRange:      &schema.PriceRange{Min: 2800, Max: 4000},
			UsageContext:    []schema.UsageContext{schema.ContextGym},
			OriginalQuery:   "Best headphones around 4k for gym",
			ConfidenceScore: 0.82,
			MissingFields:   []string{schema.FieldFeaturePreferences},
		},
		IsValid: true,
	}
}

func TestStore_RecordAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := NewSession("Best headphones around 4k for gym", sampleResult())
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, session))

	got, err := store.GetByID(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, session.Query, got.Query)
	assert.Equal(t, "headphones", got.ProductType)
	assert.InDelta(t, 0.82, got.Confidence, 0.001)
	assert.True(t, got.IsValid)

	decoded, err := got.DecodeResult()
	require.NoError(t, err)
	require.NotNil(t, decoded.ParsedQuery.PriceRange)
	assert.Equal(t, 4000.0, decoded.ParsedQuery.PriceRange.Max)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Recent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, query := range []string{"first", "second", "third"} {
		session, err := NewSession(query, sampleResult())
		require.NoError(t, err)
		session.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Record(ctx, session))
	}

	sessions, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "third", sessions[0].Query)
	assert.Equal(t, "second", sessions[1].Query)
}

func TestStore_PurgeOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old, err := NewSession("old", sampleResult())
	require.NoError(t, err)
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, store.Record(ctx, old))

	recent, err := NewSession("recent", sampleResult())
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, recent))

	count, err := store.CountOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	purged, err := store.PurgeOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	sessions, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "recent", sessions[0].Query)
}
