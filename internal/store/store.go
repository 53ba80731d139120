// store.go — the interaction-store interface: abstract load/save/compare
// contract satisfied by the Markdown codec, split from the engine the
// way a cassette's data is kept separate from a recorder's policy.
package store

import "github.com/dev-console/servirtium-go/internal/interaction"

// Store abstracts persistence of a conversation's interactions so
// alternative formats (e.g. JSON) can plug in without touching the engine
// or session controller.
type Store interface {
	// Load reads the store's persisted interactions. It must yield at
	// least one interaction or fail.
	Load() ([]interaction.Data, error)

	// Save persists the given interactions, replacing any prior content.
	Save(data []interaction.Data) error

	// Compare reports whether data differs from what is currently
	// persisted. A nil error means "unchanged"; any non-nil error
	// describes the first difference found (see the markdown package's
	// BodyDifference/HeaderDifference types for the canonical shape).
	Compare(data []interaction.Data) error
}
