package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSubscribeDeliversSnapshots(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var snapshots [][]Document
	unsub, err := store.Subscribe(ctx, CollectionTickets, func(docs []Document) {
		snapshots = append(snapshots, docs)
	}, nil)
	require.NoError(t, err)

	// The current (empty) snapshot arrives on subscribe.
	require.Len(t, snapshots, 1)
	assert.Empty(t, snapshots[0])

	id, err := store.Create(ctx, CollectionTickets, Document{"uid": "u1"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	require.Len(t, snapshots[1], 1)
	assert.Equal(t, id, snapshots[1][0].ID())

	require.NoError(t, store.Update(ctx, CollectionTickets, id, Document{"state": 2}))
	require.Len(t, snapshots, 3)
	assert.Equal(t, 2, snapshots[2][0]["state"])

	unsub()
	unsub() // safe to call twice
	require.NoError(t, store.Delete(ctx, CollectionTickets, id))
	assert.Len(t, snapshots, 3, "no delivery after unsubscribe")
}

func TestMemoryStoreUpdateUnknownDocument(t *testing.T) {
	store := NewMemoryStore()
	err := store.Update(context.Background(), CollectionTickets, "ghost", Document{"state": 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreStripsNilFields(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id, err := store.Create(ctx, CollectionUsers, Document{"name": "Ana", "mail": nil})
	require.NoError(t, err)

	docs, err := store.Load(ctx, CollectionUsers)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID())
	assert.NotContains(t, docs[0], "mail")
}

func TestStripNil(t *testing.T) {
	clean := StripNil(Document{"a": 1, "b": nil})
	assert.Equal(t, Document{"a": 1}, clean)
}
