package markdown

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

func TestFileStore_SaveThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conversation.md")
	store := NewFileStore(path)

	data := sampleData()
	require.NoError(t, store.Save(data))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, len(data))
	for i := range data {
		assert.True(t, data[i].Equal(loaded[i]))
	}
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "missing.md"))
	_, err := store.Load()
	assert.Error(t, err)
}

func TestFileStore_Compare_Unchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conversation.md")
	store := NewFileStore(path)
	data := sampleData()
	require.NoError(t, store.Save(data))

	assert.NoError(t, store.Compare(data))
}

func TestFileStore_Compare_Changed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conversation.md")
	store := NewFileStore(path)
	data := sampleData()
	require.NoError(t, store.Save(data))

	changed := make([]interaction.Data, len(data))
	copy(changed, data)
	changed[0].Response.Body = "different"

	assert.Error(t, store.Compare(changed))
}
