package snapshots

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("tx-001", "top.jpg", strings.NewReader("frame-data"))
	require.NoError(t, err)
	assert.Equal(t, "top.jpg", name)

	generated, err := store.Save("tx-001", "", strings.NewReader("frame-data"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(generated, ".jpg"))

	names, err := store.List("tx-001")
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.True(t, store.Exists("tx-001"))
	assert.False(t, store.Exists("tx-missing"))
}

func TestOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("tx-002", "side.jpg", strings.NewReader("side-frame"))
	require.NoError(t, err)

	file, err := store.Open("tx-002", "side.jpg")
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "side-frame", string(data))
}

func TestRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape", "a.jpg", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.Save("tx-003", "../a.jpg", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.List("..")
	assert.Error(t, err)
}

func TestPrune(t *testing.T) {
	base := t.TempDir()
	store, err := NewStore(base)
	require.NoError(t, err)

	_, err = store.Save("tx-old", "a.jpg", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = store.Save("tx-new", "b.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(base, "tx-old"), old, old))

	removed, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, store.Exists("tx-old"))
	assert.True(t, store.Exists("tx-new"))
}
