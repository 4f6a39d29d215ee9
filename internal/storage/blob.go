package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harishas/autofolio/internal/domain"
	"github.com/harishas/autofolio/internal/infrastructure/redis"
)

// Blob is a stored upload: raw bytes plus the content type they were
// submitted with.
type Blob struct {
	ContentType string
	Data        []byte
}

// BlobStore persists uploaded files keyed by an opaque id.
type BlobStore interface {
	Put(ctx context.Context, contentType string, data []byte) (string, error)
	Get(ctx context.Context, id string) (*Blob, error)
}

// RedisBlobStore keeps uploads in Redis hashes. Binary payloads are
// base64-encoded because go-redis hash values round-trip as strings.
type RedisBlobStore struct {
	client *redis.Client
}

// NewRedisBlobStore creates a blob store backed by the given Redis client.
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

func blobKey(id string) string {
	return "blob:" + id
}

// Put stores the payload and returns its generated id.
func (s *RedisBlobStore) Put(ctx context.Context, contentType string, data []byte) (string, error) {
	id := uuid.New().String()
	fields := map[string]interface{}{
		"content_type": contentType,
		"data":         base64.StdEncoding.EncodeToString(data),
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.client.HSet(ctx, blobKey(id), fields); err != nil {
		return "", domain.StorageError("store upload", err)
	}
	return id, nil
}

// Get retrieves a stored payload; domain.ErrNotFound if the id is unknown.
func (s *RedisBlobStore) Get(ctx context.Context, id string) (*Blob, error) {
	fields, err := s.client.HGetAll(ctx, blobKey(id))
	if err != nil {
		return nil, domain.StorageError("fetch upload", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	data, err := base64.StdEncoding.DecodeString(fields["data"])
	if err != nil {
		return nil, domain.StorageError("decode upload", fmt.Errorf("corrupt blob %s: %w", id, err))
	}
	return &Blob{ContentType: fields["content_type"], Data: data}, nil
}
