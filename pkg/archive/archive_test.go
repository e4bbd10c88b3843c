package archive

import (
	"bytes"
	"compress/gzip"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const controlText = "Package: bash\nVersion: 5.2\n\nPackage: coreutils\nVersion: 9.1\n\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestManager_DecompressBytes(t *testing.T) {
	am := NewManager()
	ctx := context.Background()

	t.Run("gzip by name", func(t *testing.T) {
		out, err := am.DecompressBytes(ctx, "Packages.gz", gzipped(t, controlText))
		require.NoError(t, err)
		assert.Equal(t, controlText, string(out))
	})

	t.Run("gzip detected from content", func(t *testing.T) {
		out, err := am.DecompressBytes(ctx, "Packages", gzipped(t, controlText))
		require.NoError(t, err)
		assert.Equal(t, controlText, string(out))
	})

	t.Run("plain text passes through", func(t *testing.T) {
		out, err := am.DecompressBytes(ctx, "Packages", []byte(controlText))
		require.NoError(t, err)
		assert.Equal(t, controlText, string(out))
	})
}
