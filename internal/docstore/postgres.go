package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "docstore:"

// PostgresStore persists documents as JSONB rows and fans change
// notifications out through Redis pub/sub. Every write publishes the
// collection name; subscribers reload the whole collection on each message.
type PostgresStore struct {
	pool   *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.Logger
}

// NewPostgresStore builds the store client.
func NewPostgresStore(pool *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, rdb: rdb, logger: logger}
}

// Load fetches the current snapshot of a collection.
func (s *PostgresStore) Load(ctx context.Context, collection string) ([]Document, error) {
	const query = `SELECT id, data FROM documents WHERE collection = $1`
	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc := Document{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			// A single corrupt row must not take the whole feed down.
			s.logger.Warn("skipping undecodable document",
				zap.String("collection", collection), zap.String("id", id), zap.Error(err))
			continue
		}
		doc["id"] = id
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Create inserts a new document and returns its generated id.
func (s *PostgresStore) Create(ctx context.Context, collection string, payload Document) (string, error) {
	raw, err := json.Marshal(StripNil(payload))
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	id := uuid.NewString()
	const query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, collection, id, raw); err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	s.notify(ctx, collection)
	return id, nil
}

// Update merges a patch into an existing document.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, patch Document) error {
	raw, err := json.Marshal(StripNil(patch))
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	const query = `UPDATE documents SET data = data || $3, updated_at = NOW() WHERE collection = $1 AND id = $2`
	cmd, err := s.pool.Exec(ctx, query, collection, id, raw)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.notify(ctx, collection)
	return nil
}

// Delete removes a document.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	cmd, err := s.pool.Exec(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.notify(ctx, collection)
	return nil
}

// Subscribe delivers the current snapshot, then a fresh snapshot after every
// published change, until the returned func is called.
func (s *PostgresStore) Subscribe(ctx context.Context, collection string, onSnapshot SnapshotFunc, onError ErrorFunc) (UnsubscribeFunc, error) {
	docs, err := s.Load(ctx, collection)
	if err != nil {
		return nil, err
	}
	onSnapshot(docs)

	subCtx, cancel := context.WithCancel(ctx)
	pubsub := s.rdb.Subscribe(subCtx, channelPrefix+collection)

	go func() {
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				_ = msg
				fresh, err := s.Load(subCtx, collection)
				if err != nil {
					if onError != nil {
						onError(err)
					}
					continue
				}
				onSnapshot(fresh)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			_ = pubsub.Close()
		})
	}
	return unsubscribe, nil
}

func (s *PostgresStore) notify(ctx context.Context, collection string) {
	if err := s.rdb.Publish(ctx, channelPrefix+collection, "changed").Err(); err != nil {
		s.logger.Warn("change notification failed", zap.String("collection", collection), zap.Error(err))
	}
}
