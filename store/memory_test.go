package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c1", "title": "Disk full"}))
	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c2", "title": "Backup misconfigured"}))

	rows, err := st.ReadAll(ctx, KindCause)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Insertion order is preserved.
	assert.Equal(t, "c1", rows[0].ID())
	assert.Equal(t, "c2", rows[1].ID())

	// Kinds are independent tables.
	outcomes, err := st.ReadAll(ctx, KindOutcome)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestMemoryStore_AppendDuplicate(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c1"}))

	err := st.Append(ctx, KindCause, Record{FieldID: "c1"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	// Same id in another kind is fine.
	assert.NoError(t, st.Append(ctx, KindOutcome, Record{FieldID: "c1"}))
}

func TestMemoryStore_AppendMissingID(t *testing.T) {
	err := NewMemoryStore().Append(context.Background(), KindCause, Record{"title": "no id"})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestMemoryStore_UpdateField(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Append(ctx, KindOutcome, Record{FieldID: "o1", "probability": "10"}))

	require.NoError(t, st.UpdateField(ctx, KindOutcome, "o1", "probability", "50"))

	rows, err := st.ReadAll(ctx, KindOutcome)
	require.NoError(t, err)
	assert.Equal(t, "50", rows[0]["probability"])

	err = st.UpdateField(ctx, KindOutcome, "missing", "probability", "50")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c1"}))
	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c2"}))

	require.NoError(t, st.DeleteByID(ctx, KindCause, "c1"))

	rows, err := st.ReadAll(ctx, KindCause)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "c2", rows[0].ID())

	err = st.DeleteByID(ctx, KindCause, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_InvalidKind(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.ReadAll(ctx, Kind("bogus"))
	assert.ErrorIs(t, err, ErrInvalidKind)

	err = st.Append(ctx, Kind("bogus"), Record{FieldID: "x"})
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestMemoryStore_ReadAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	require.NoError(t, st.Append(ctx, KindCause, Record{FieldID: "c1", "title": "original"}))

	rows, err := st.ReadAll(ctx, KindCause)
	require.NoError(t, err)
	rows[0]["title"] = "mutated"

	again, err := st.ReadAll(ctx, KindCause)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0]["title"])
}
