// errors.go — the engine's latched-error vocabulary.
package engine

import "errors"

// ErrNotConfigured is latched when a request arrives in Record mode
// without an upstream domain set.
var ErrNotConfigured = errors.New("engine: not configured: upstream domain required in Record mode")

// ErrNotLoaded is latched when Playback's backing store fails to load.
var ErrNotLoaded = errors.New("engine: playback store failed to load")

// ErrPlaybackOverflow is latched when a Playback request arrives past the
// end of the loaded interaction list.
var ErrPlaybackOverflow = errors.New("engine: playback index beyond end of loaded interactions")

// ErrNoConfiguration is latched when a request arrives with no
// configuration installed at all (before any before_test).
var ErrNoConfiguration = errors.New("engine: no configuration installed")
