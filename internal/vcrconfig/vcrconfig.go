// vcrconfig.go — Configuration: mode, upstream domain, store, outbound
// client, mutation sets, and the fail-if-changed flag.
package vcrconfig

import (
	"fmt"
	"time"

	"github.com/dev-console/servirtium-go/internal/mutate"
	"github.com/dev-console/servirtium-go/internal/store"
	"github.com/dev-console/servirtium-go/internal/upstream"
)

// Mode selects Record or Playback.
type Mode int

const (
	// Playback replays previously captured responses without any network
	// call to the origin.
	Playback Mode = iota
	// Record forwards each request to a real upstream origin and captures
	// the request/response pair.
	Record
)

func (m Mode) String() string {
	if m == Record {
		return "Record"
	}
	return "Playback"
}

// Config is immutable after BeforeTest installs it.
type Config struct {
	Mode           Mode
	UpstreamDomain string
	Store          store.Store
	Client         upstream.Client
	FailIfChanged  bool

	RecordRequestMutations    mutate.Chain
	RecordResponseMutations   mutate.Chain
	PlaybackResponseMutations mutate.Chain
}

// Option configures a Config at construction time, following the
// functional-options idiom.
type Option func(*Config)

// WithUpstream sets the upstream domain (e.g. "http://example.test"),
// required in Record mode.
func WithUpstream(domain string) Option {
	return func(c *Config) { c.UpstreamDomain = domain }
}

// WithClient overrides the default outbound HTTP client.
func WithClient(client upstream.Client) Option {
	return func(c *Config) { c.Client = client }
}

// WithFailIfChanged sets the fail_if_changed flag: when true, after_test
// compares captured interactions against the store instead of saving them.
func WithFailIfChanged(value bool) Option {
	return func(c *Config) { c.FailIfChanged = value }
}

// WithRecordRequestMutations sets the mutations applied to the outgoing
// request in Record before forwarding upstream.
func WithRecordRequestMutations(chain mutate.Chain) Option {
	return func(c *Config) { c.RecordRequestMutations = chain }
}

// WithRecordResponseMutations sets the mutations applied to the upstream
// response before it is stored.
func WithRecordResponseMutations(chain mutate.Chain) Option {
	return func(c *Config) { c.RecordResponseMutations = chain }
}

// WithPlaybackResponseMutations sets the mutations applied to the response
// returned to the test, in both Playback (after load) and Record (after
// capture).
func WithPlaybackResponseMutations(chain mutate.Chain) Option {
	return func(c *Config) { c.PlaybackResponseMutations = chain }
}

// New builds a Config for the given mode and store, applying opts in
// order. The outbound client defaults to upstream.NewDefaultClient with a
// 30-second timeout if not overridden.
func New(mode Mode, st store.Store, opts ...Option) Config {
	cfg := Config{
		Mode:   mode,
		Store:  st,
		Client: upstream.NewDefaultClient(30 * time.Second),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate enforces that a store is configured and, in Record mode, that
// an upstream domain is set.
func (c Config) Validate() error {
	if c.Store == nil {
		return fmt.Errorf("vcrconfig: a store is required")
	}
	if c.Mode == Record && c.UpstreamDomain == "" {
		return fmt.Errorf("vcrconfig: upstream domain is required in Record mode")
	}
	return nil
}
