// Package servirtium is the test binding surface: the declarative wiring
// a test uses to attach the engine, session controller, and conversation
// store to one test function.
//
// Run installs a configuration, executes the test body, and guarantees
// after_test runs exactly once even if the body panics — the panic is
// re-raised once cleanup completes, the recover-then-rethrow shape
// grounded on internal/util/safego.go's recover-and-continue pattern
// (here repurposed to recover-and-rethrow, since a test panic must still
// fail the test).
package servirtium

import (
	"testing"
	"time"

	"github.com/dev-console/servirtium-go/internal/engine"
	"github.com/dev-console/servirtium-go/internal/markdown"
	"github.com/dev-console/servirtium-go/internal/mutate"
	"github.com/dev-console/servirtium-go/internal/session"
	"github.com/dev-console/servirtium-go/internal/upstream"
	"github.com/dev-console/servirtium-go/internal/vcrconfig"
)

// re-exported so callers never need to import internal/vcrconfig directly.
type (
	Mode   = vcrconfig.Mode
	Config = vcrconfig.Config
	Option = vcrconfig.Option
	Chain  = mutate.Chain
)

const (
	Record   = vcrconfig.Record
	Playback = vcrconfig.Playback
)

var (
	WithUpstream                  = vcrconfig.WithUpstream
	WithClient                    = vcrconfig.WithClient
	WithFailIfChanged             = vcrconfig.WithFailIfChanged
	WithRecordRequestMutations    = vcrconfig.WithRecordRequestMutations
	WithRecordResponseMutations   = vcrconfig.WithRecordResponseMutations
	WithPlaybackResponseMutations = vcrconfig.WithPlaybackResponseMutations
)

// lazily-listening singleton shared by every test in the process.
var (
	sharedEngine     = engine.New()
	sharedController = session.New(sharedEngine)
)

// Playback builds a Config for Playback mode backed by the Markdown file
// at path.
func Playback(path string, opts ...Option) Config {
	return vcrconfig.New(vcrconfig.Playback, markdown.NewFileStore(path), opts...)
}

// RecordConfig builds a Config for Record mode backed by the Markdown file
// at path, forwarding to upstreamDomain.
func RecordConfig(path, upstreamDomain string, opts ...Option) Config {
	all := append([]Option{vcrconfig.WithUpstream(upstreamDomain)}, opts...)
	return vcrconfig.New(vcrconfig.Record, markdown.NewFileStore(path), all...)
}

// Before installs cfg on the shared controller, blocking while another
// test is active. Most callers should use Run instead.
func Before(cfg Config) error {
	return sharedController.BeforeTest(cfg)
}

// After runs the post-test verification/persistence step and releases the
// test gate. Most callers should use Run instead.
func After() error {
	return sharedController.AfterTest()
}

// Run wires a test body to a Config: before_test, run body (capturing
// panics), after_test, then re-raise any captured panic. after_test's
// error fails t via t.Fatal if the body itself did not panic.
func Run(t testing.TB, cfg Config, body func()) {
	t.Helper()
	if err := Before(cfg); err != nil {
		t.Fatalf("servirtium: before_test: %v", err)
	}

	panicked := runBody(body)

	if err := After(); err != nil && panicked == nil {
		t.Fatalf("servirtium: after_test: %v", err)
	}
	if panicked != nil {
		panic(panicked)
	}
}

// runBody executes body, recovering any panic so after_test still runs.
func runBody(body func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	body()
	return nil
}

// NewUpstreamClient exposes the default outbound HTTP client for callers
// that want to override Config.Client with a custom timeout.
func NewUpstreamClient(timeoutSeconds int) upstream.Client {
	return upstream.NewDefaultClient(time.Duration(timeoutSeconds) * time.Second)
}
