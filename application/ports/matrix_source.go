// Package ports defines the interfaces the application layer depends on.
package ports

import (
	"context"

	"srm-backend/domain/core/valueobjects"
)

// MatrixSource yields the current membership matrix
type MatrixSource interface {
	// Load fetches and decodes the matrix
	Load(ctx context.Context) (*valueobjects.BinaryMatrix, error)
	// Describe names the source for logs and dataset info
	Describe() string
}

// WatchableSource is a source backed by a local file that can be watched for changes
type WatchableSource interface {
	MatrixSource
	Path() string
}
