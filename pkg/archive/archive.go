// Package archive decompresses downloaded package lists.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mholt/archives"
)

// Manager handles decompression of fetched listings.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Decompress identifies the compression of stream from its name and leading
// bytes and returns a reader over the decompressed content. Streams that match
// no known format are returned unchanged.
func (am *Manager) Decompress(ctx context.Context, name string, stream io.Reader) (io.ReadCloser, error) {
	format, rewound, err := archives.Identify(ctx, name, stream)
	if errors.Is(err, archives.NoMatch) {
		return io.NopCloser(rewound), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to identify format of %s: %w", name, err)
	}

	decompressor, ok := format.(archives.Decompressor)
	if !ok {
		return nil, fmt.Errorf("%s is an archive, not a compressed stream", name)
	}

	reader, err := decompressor.OpenReader(rewound)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return reader, nil
}

// DecompressBytes is Decompress over an in-memory payload.
func (am *Manager) DecompressBytes(ctx context.Context, name string, data []byte) ([]byte, error) {
	reader, err := am.Decompress(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", name, err)
	}
	return out, nil
}
