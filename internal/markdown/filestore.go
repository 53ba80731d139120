// filestore.go — FileStore, the built-in store.Store implementation backed
// by a single on-disk Markdown conversation file.
package markdown

import (
	"fmt"
	"os"

	"github.com/dev-console/servirtium-go/internal/interaction"
)

// FileStore persists interactions to a single Markdown file at Path. It
// satisfies store.Store structurally; this package does not import store.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and parses the file at Path.
func (f *FileStore) Load() ([]interaction.Data, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", f.Path, err)
	}
	data, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("markdown: parse %s: %w", f.Path, err)
	}
	return data, nil
}

// Save writes data to Path, overwriting any existing content.
func (f *FileStore) Save(data []interaction.Data) error {
	if err := os.WriteFile(f.Path, Emit(data), 0o644); err != nil { //nolint:gosec // conversation files are test fixtures, not secrets
		return fmt.Errorf("markdown: write %s: %w", f.Path, err)
	}
	return nil
}

// Compare loads the currently persisted content and diffs it against data.
// A nil return means unchanged.
func (f *FileStore) Compare(data []interaction.Data) error {
	existing, err := f.Load()
	if err != nil {
		return err
	}
	return Compare(existing, data)
}
