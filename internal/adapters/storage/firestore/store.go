package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per key.
const DefaultCollection = "planbuddy-kv"

type Store struct {
	client     *firestore.Client
	collection string
}

// NewStore creates a Firestore store.
// Uses the project passed (PLANBUDDY_GCP_PROJECT).
func NewStore(ctx context.Context, projectID, collection string, opts ...option.ClientOption) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, collection: collection}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) col() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

var (
	keyEscaper   = strings.NewReplacer("%", "%25", "/", "%2F")
	keyUnescaper = strings.NewReplacer("%2F", "/", "%25", "%")
)

// docID escapes "/" which Firestore reserves as a path separator. "%" is
// escaped too so every document ID maps back to exactly one key.
func docID(key string) string {
	return keyEscaper.Replace(key)
}

func keyFromDocID(id string) string {
	return keyUnescaper.Replace(id)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type kvDoc struct {
	Key       string    `firestore:"key"`
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// KVStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	snap, err := s.col().Doc(docID(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("firestore Get %s: %w", key, err)
	}

	var doc kvDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, false, fmt.Errorf("firestore Get decode %s: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDoc{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.col().Doc(docID(key)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.col().Doc(docID(key)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore Delete %s: %w", key, err)
	}
	return nil
}

// Keys scans the collection and returns keys with the prefix, ordered by key.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	iter := s.col().OrderBy("key", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []string
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore Keys: %w", err)
		}
		var doc kvDoc
		if err := snap.DataTo(&doc); err != nil || doc.Key == "" {
			doc.Key = keyFromDocID(snap.Ref.ID)
		}
		key := doc.Key
		if strings.HasPrefix(key, prefix) {
			out = append(out, key)
		}
	}
	return out, nil
}
