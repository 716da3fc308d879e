package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laskinner/dag-tui/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "entities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	records, err := s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, s.Append(ctx, store.KindCause, store.Record{
		"id": "c1", "title": "disk failure", "probability": "40",
	}))
	require.NoError(t, s.Append(ctx, store.KindCause, store.Record{
		"id": "c2", "title": "power loss",
	}))

	records, err = s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c1", records[0].ID())
	assert.Equal(t, "c2", records[1].ID())
	assert.Equal(t, "disk failure", records[0]["title"])

	require.NoError(t, s.UpdateField(ctx, store.KindCause, "c1", "probability", "55"))
	records, err = s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	assert.Equal(t, "55", records[0]["probability"])

	require.NoError(t, s.DeleteByID(ctx, store.KindCause, "c1"))
	records, err = s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c2", records[0].ID())
}

func TestAppendDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, store.KindCause, store.Record{"id": "c1"}))
	err := s.Append(ctx, store.KindCause, store.Record{"id": "c1"})
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestAppendMissingID(t *testing.T) {
	s := newTestStore(t)

	err := s.Append(context.Background(), store.KindCause, store.Record{"title": "no id"})
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
}

func TestKindsAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, store.KindCause, store.Record{"id": "shared"}))
	require.NoError(t, s.Append(ctx, store.KindOutcome, store.Record{"id": "shared"}))

	causes, err := s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	outcomes, err := s.ReadAll(ctx, store.KindOutcome)
	require.NoError(t, err)
	assert.Len(t, causes, 1)
	assert.Len(t, outcomes, 1)
}

func TestUpdateFieldNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateField(context.Background(), store.KindCause, "ghost", "title", "x")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteByID(context.Background(), store.KindOutcome, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInvalidKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReadAll(ctx, store.Kind("bogus"))
	assert.ErrorIs(t, err, store.ErrInvalidKind)
	err = s.Append(ctx, store.Kind("bogus"), store.Record{"id": "x"})
	assert.ErrorIs(t, err, store.ErrInvalidKind)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.db")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, store.KindOutcome, store.Record{
		"id": "o1", "title": "outage", "severity": "7",
	}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.ReadAll(ctx, store.KindOutcome)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "outage", records[0]["title"])
	assert.Equal(t, "7", records[0]["severity"])
}

func TestReadAllOrderSurvivesDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, store.KindCause, store.Record{"id": id}))
	}
	require.NoError(t, s.DeleteByID(ctx, store.KindCause, "b"))

	records, err := s.ReadAll(ctx, store.KindCause)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID())
	assert.Equal(t, "c", records[1].ID())
}

func TestStoreFailedWrapping(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.ReadAll(context.Background(), store.KindCause)
	assert.True(t, errors.Is(err, store.ErrStoreFailed))
}
