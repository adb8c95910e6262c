package artifacts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkswap/internal/domain"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
}

func newTestIndexer(t *testing.T) (*Indexer, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.RuntimeConfig{Paths: config.Paths{
		SourceDir: filepath.Join(root, "src"),
		BuildDir:  filepath.Join(root, "build"),
	}}
	return NewIndexer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), root
}

func TestIndexer_GetArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves nested sources to build outputs", func(t *testing.T) {
		idx, root := newTestIndexer(t)
		touch(t, filepath.Join(root, "src", "tokens", "ERC20.cairo"))
		touch(t, filepath.Join(root, "build", "ERC20.contract_class.json"))
		touch(t, filepath.Join(root, "build", "ERC20.compiled_contract_class.json"))

		artifact, err := idx.GetArtifact(ctx, "ERC20")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "tokens", "ERC20.cairo"), artifact.SourcePath)
		assert.Equal(t, filepath.Join(root, "build", "ERC20.contract_class.json"), artifact.SierraPath)
		assert.Equal(t, filepath.Join(root, "build", "ERC20.compiled_contract_class.json"), artifact.CasmPath)
	})

	t.Run("scarb package prefix", func(t *testing.T) {
		idx, root := newTestIndexer(t)
		touch(t, filepath.Join(root, "src", "Pool.cairo"))
		touch(t, filepath.Join(root, "build", "dex_Pool.contract_class.json"))
		touch(t, filepath.Join(root, "build", "dex_Pool.compiled_contract_class.json"))

		artifact, err := idx.GetArtifact(ctx, "Pool")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "build", "dex_Pool.contract_class.json"), artifact.SierraPath)
	})

	t.Run("unknown contract lists available names", func(t *testing.T) {
		idx, root := newTestIndexer(t)
		touch(t, filepath.Join(root, "src", "Pool.cairo"))
		touch(t, filepath.Join(root, "src", "ERC20.cairo"))

		_, err := idx.GetArtifact(ctx, "PoolFactory")
		var notFound *domain.ArtifactNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, []string{"ERC20", "Pool"}, notFound.Available)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("uncompiled contract", func(t *testing.T) {
		idx, root := newTestIndexer(t)
		touch(t, filepath.Join(root, "src", "Pool.cairo"))
		touch(t, filepath.Join(root, "build", "Pool.contract_class.json"))

		_, err := idx.GetArtifact(ctx, "Pool")
		assert.ErrorContains(t, err, "Pool.compiled_contract_class.json")
	})

	t.Run("missing source directory", func(t *testing.T) {
		idx, _ := newTestIndexer(t)

		_, err := idx.GetArtifact(ctx, "Pool")
		assert.Error(t, err)
	})
}

func TestIndexer_ListArtifacts(t *testing.T) {
	idx, root := newTestIndexer(t)
	for _, name := range []string{"ERC20", "Pool"} {
		touch(t, filepath.Join(root, "src", name+".cairo"))
		touch(t, filepath.Join(root, "build", name+".contract_class.json"))
		touch(t, filepath.Join(root, "build", name+".compiled_contract_class.json"))
	}
	touch(t, filepath.Join(root, "src", "Draft.cairo"))

	artifacts, err := idx.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "ERC20", artifacts[0].Name)
	assert.Equal(t, "Pool", artifacts[1].Name)
}
