package session

import (
	"context"
	"fmt"
	"os"

	"github.com/gardar/annotview/pkg/annotation"
)

// Loader fetches the metadata document of a sample.
type Loader interface {
	Load(ctx context.Context, sampleID string) (*annotation.Record, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, sampleID string) (*annotation.Record, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, sampleID string) (*annotation.Record, error) {
	return f(ctx, sampleID)
}

// Files loads metadata documents from local files, keyed by sample ID.
type Files map[string]string

// Load reads and decodes the file registered for sampleID.
func (f Files) Load(ctx context.Context, sampleID string) (*annotation.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := f[sampleID]
	if !ok {
		return nil, fmt.Errorf("no metadata file for %s: %w", sampleID, ErrNoSample)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	rec, err := annotation.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return rec, nil
}
