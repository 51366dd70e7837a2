// Package storage provides artifact storage backends for import error
// reports and customer exports.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned when the requested artifact does not exist.
var ErrNotExist = errors.New("artifact does not exist")

// ArtifactStorage persists generated CSV artifacts under opaque keys
// such as "imports/errors/customer_import_errors_20240102_150405.csv".
type ArtifactStorage interface {
	// Put stores data under key, overwriting any previous content.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the artifact stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the artifact stored under key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error
}
