// Package docstore is a thin client for the hosted document database. It
// exposes the collection surface the rest of the service is written against:
// whole-collection push subscriptions plus create/update/delete.
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the service.
const (
	CollectionUsers     = "users"
	CollectionTickets   = "tickets"
	CollectionEmpresas  = "empresas"
	CollectionOperators = "operators"
)

// Document is one stored record. The "id" key is populated on read.
type Document map[string]any

// ID returns the document id, empty when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// SnapshotFunc receives the full contents of a collection after any change.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives subscription feed errors.
type ErrorFunc func(err error)

// UnsubscribeFunc releases a subscription. Safe to call more than once.
type UnsubscribeFunc func()

// ErrNotFound is returned for updates and deletes against unknown documents.
var ErrNotFound = errors.New("document not found")

// Store is the contract every collection consumer depends on. Writes are
// last-writer-wins; subscribers get a wholesale snapshot replacement on every
// change, never an incremental diff.
type Store interface {
	// Subscribe delivers the current snapshot immediately and again after
	// every change until the returned func is called.
	Subscribe(ctx context.Context, collection string, onSnapshot SnapshotFunc, onError ErrorFunc) (UnsubscribeFunc, error)
	// Load fetches the current snapshot once, without subscribing.
	Load(ctx context.Context, collection string) ([]Document, error)
	Create(ctx context.Context, collection string, payload Document) (string, error)
	Update(ctx context.Context, collection, id string, patch Document) error
	Delete(ctx context.Context, collection, id string) error
}

// StripNil drops nil-valued fields from a payload. The store rejects explicit
// null-equivalents; absent fields must be omitted instead.
func StripNil(payload Document) Document {
	clean := make(Document, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		clean[k] = v
	}
	return clean
}
