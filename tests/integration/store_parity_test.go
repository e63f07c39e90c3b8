package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"docref/internal/adapters"
	"docref/internal/ports"
	"docref/internal/types"
)

// TestStoreParity populates the same fixtures through the memory store
// and the SQLite store and requires byte-identical output. The stores
// share one filter matcher, so any divergence points at a storage codec
// problem, not an operator one.
func TestStoreParity(t *testing.T) {
	outputs := map[string][]byte{}

	for _, kind := range []types.StoreKind{types.StoreKindMemory, types.StoreKindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			store, err := openParityStore(t, kind)
			require.NoError(t, err)
			defer store.Close()

			docs := populateFixturePosts(t.Context(), t, store)

			outDir := t.TempDir()
			outPath, err := adapters.NewOutputFileAdapter(outDir).WriteDocuments("posts", docs, types.OutputFormatJSON)
			require.NoError(t, err)

			data, err := os.ReadFile(outPath)
			require.NoError(t, err)
			outputs[string(kind)] = data
		})
	}

	memory, sqlite := outputs[string(types.StoreKindMemory)], outputs[string(types.StoreKindSQLite)]
	require.NotEmpty(t, memory)
	require.Equal(t, string(memory), string(sqlite),
		"memory and sqlite stores must populate identically")
}

func openParityStore(t *testing.T, kind types.StoreKind) (ports.DocumentStorePort, error) {
	t.Helper()
	if kind == types.StoreKindSQLite {
		return adapters.NewSQLiteStore(filepath.Join(t.TempDir(), "parity.db"))
	}
	return adapters.NewMemoryStore(), nil
}
