package grounding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// KVStore persists guidance documents in a JetStream key-value bucket
// while serving retrievals from an in-memory keyword index. The bucket
// is the durable copy; the index is rebuilt from it at startup.
type KVStore struct {
	kv     jetstream.KeyValue
	index  *MemoryStore
	logger *slog.Logger
}

// KVStoreOption configures a KVStore.
type KVStoreOption func(*KVStore)

// WithKVLogger sets the logger.
func WithKVLogger(logger *slog.Logger) KVStoreOption {
	return func(s *KVStore) {
		s.logger = logger
	}
}

// NewKVStore opens (or creates) the bucket and loads every stored
// document into the index.
func NewKVStore(ctx context.Context, nc *nats.Conn, bucket string, opts ...KVStoreOption) (*KVStore, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "vibeshift style guidance documents",
	})
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucket, err)
	}

	s := &KVStore{
		kv:     kv,
		index:  NewMemoryStore(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// load rebuilds the in-memory index from the bucket contents.
func (s *KVStore) load(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}
		return fmt.Errorf("list bucket keys: %w", err)
	}

	loaded := 0
	for _, key := range keys {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Failed to read guidance document", "key", key, "error", err)
			continue
		}

		var doc Document
		if err := json.Unmarshal(entry.Value(), &doc); err != nil {
			s.logger.Warn("Skipping undecodable guidance document", "key", key, "error", err)
			continue
		}
		if err := s.index.Upsert(ctx, doc); err != nil {
			return err
		}
		loaded++
	}

	s.logger.Info("Loaded guidance documents from bucket", "count", loaded)
	return nil
}

// Upsert writes the document to the bucket and updates the index. The
// bucket write happens first so a crash never leaves an indexed document
// that isn't durable.
func (s *KVStore) Upsert(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := s.kv.Put(ctx, doc.ID, data); err != nil {
		return fmt.Errorf("store document %s: %w", doc.ID, err)
	}

	return s.index.Upsert(ctx, doc)
}

// Retrieve serves the query from the in-memory index.
func (s *KVStore) Retrieve(ctx context.Context, q Query) ([]Document, error) {
	return s.index.Retrieve(ctx, q)
}
