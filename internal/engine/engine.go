// engine.go — the interception engine: a single shared local listener
// plus a per-test state machine that drives a sequence of interactions
// through either Record or Playback. The listener starts lazily in a
// background goroutine with a readiness handshake over a channel, and
// treats http.ErrServerClosed as a clean shutdown rather than a failure.
package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/dev-console/servirtium-go/internal/interaction"
	"github.com/dev-console/servirtium-go/internal/vcrconfig"
	"github.com/dev-console/servirtium-go/internal/vcrlog"
)

// Addr is the fixed local listener address.
const Addr = "127.0.0.1:61417"

// State is the per-test lifecycle state.
type State int

const (
	Idle State = iota
	Armed
	Serving
	Draining
)

func (s State) String() string {
	switch s {
	case Armed:
		return "Armed"
	case Serving:
		return "Serving"
	case Draining:
		return "Draining"
	default:
		return "Idle"
	}
}

// Engine owns the listener and the mutable per-test state. One Engine is
// shared process-wide, constructed once and handed to the session
// controller.
type Engine struct {
	log vcrlog.Logger

	mu       sync.Mutex
	state    State
	config   *vcrconfig.Config
	captured []interaction.Data
	loaded   []interaction.Data
	hasLoad  bool
	ordinal  uint8
	err      error

	listenOnce sync.Once
	listenErr  error
	server     *http.Server
}

// New constructs an Engine in the Idle state. The listener is not started
// until EnsureListening is called.
func New() *Engine {
	return &Engine{log: vcrlog.New("engine")}
}

// EnsureListening starts the background listener exactly once per process,
// blocking until it has bound its port or failed to.
func (e *Engine) EnsureListening() error {
	e.listenOnce.Do(func() {
		ready := make(chan error, 1)
		e.server = &http.Server{Handler: http.HandlerFunc(e.handle)}
		go func() {
			ln, err := net.Listen("tcp", Addr)
			if err != nil {
				ready <- err
				return
			}
			ready <- nil
			if serveErr := e.server.Serve(ln); serveErr != nil && serveErr != http.ErrServerClosed {
				e.log.Errorf("listener exited: %v", serveErr)
			}
		}()
		e.listenErr = <-ready
		if e.listenErr != nil {
			e.log.Errorf("bind %s failed: %v", Addr, e.listenErr)
		} else {
			e.log.Infof("listening on %s", Addr)
		}
	})
	return e.listenErr
}

// Install binds a configuration to the engine and transitions Idle→Armed,
// clearing any leftover state from a previous test.
func (e *Engine) Install(cfg vcrconfig.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = &cfg
	e.captured = nil
	e.loaded = nil
	e.hasLoad = false
	e.ordinal = 0
	e.err = nil
	e.state = Armed
}

// Reset transitions Draining→Idle, releasing the configuration and
// clearing all per-test state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = nil
	e.captured = nil
	e.loaded = nil
	e.hasLoad = false
	e.ordinal = 0
	e.err = nil
	e.state = Idle
}

// BeginDraining transitions Serving|Armed→Draining, marking that after_test
// has begun.
func (e *Engine) BeginDraining() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Draining
}

// TakeError returns the latched error, if any, clearing the slot.
func (e *Engine) TakeError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.err
	e.err = nil
	return err
}

// Captured returns a snapshot of the interactions recorded so far.
func (e *Engine) Captured() []interaction.Data {
	e.mu.Lock()
	defer e.mu.Unlock()
	return interaction.CloneAll(e.captured)
}

// handle implements the per-request intercept-and-dispatch algorithm. The
// whole critical section runs under e.mu: there is at most one test active
// and its requests complete in issue order, so holding the mutex across
// the upstream call costs nothing in practice and avoids take/mutate/
// put-back bookkeeping around the shared state.
func (e *Engine) handle(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		e.fail(w, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Armed {
		e.state = Serving
	}

	if e.config == nil {
		e.latchLocked(w, ErrNoConfiguration)
		return
	}

	var resp interaction.ResponseData
	switch e.config.Mode {
	case vcrconfig.Playback:
		resp, err = e.dispatchPlaybackLocked(req)
	case vcrconfig.Record:
		resp, err = e.dispatchRecordLocked(req)
	}
	if err != nil {
		e.latchLocked(w, err)
		return
	}

	out := resp.Clone()
	e.config.PlaybackResponseMutations.ApplyResponse(&out)
	writeResponse(w, out)
	e.ordinal++
}

func (e *Engine) dispatchPlaybackLocked(_ interaction.RequestData) (interaction.ResponseData, error) {
	if !e.hasLoad {
		loaded, err := e.config.Store.Load()
		if err != nil {
			return interaction.ResponseData{}, fmt.Errorf("%w: %v", ErrNotLoaded, err)
		}
		e.loaded = loaded
		e.hasLoad = true
	}
	if int(e.ordinal) >= len(e.loaded) {
		return interaction.ResponseData{}, ErrPlaybackOverflow
	}
	return e.loaded[e.ordinal].Response.Clone(), nil
}

func (e *Engine) dispatchRecordLocked(req interaction.RequestData) (interaction.ResponseData, error) {
	if e.config.UpstreamDomain == "" {
		return interaction.ResponseData{}, ErrNotConfigured
	}

	host, err := upstreamHost(e.config.UpstreamDomain)
	if err != nil {
		return interaction.ResponseData{}, err
	}
	req.Headers.Set("host", host)
	e.config.RecordRequestMutations.ApplyRequest(&req)

	resp, err := e.config.Client.Do(context.Background(), e.config.UpstreamDomain, req)
	if err != nil {
		return interaction.ResponseData{}, err
	}
	e.config.RecordResponseMutations.ApplyResponse(&resp)

	e.captured = append(e.captured, interaction.Data{
		Ordinal:  e.ordinal,
		Request:  req.Clone(),
		Response: resp.Clone(),
	})
	return resp, nil
}

// latchLocked records err for after_test and responds 500 with an empty
// body. Caller must hold e.mu.
func (e *Engine) latchLocked(w http.ResponseWriter, err error) {
	e.err = err
	e.log.Warningf("request failed: %v", err)
	w.WriteHeader(http.StatusInternalServerError)
}

// fail handles errors discovered before e.mu is held (malformed inbound
// request).
func (e *Engine) fail(w http.ResponseWriter, err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
	e.log.Warningf("request parse failed: %v", err)
	w.WriteHeader(http.StatusInternalServerError)
}

func parseRequest(r *http.Request) (interaction.RequestData, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return interaction.RequestData{}, fmt.Errorf("engine: reading request body: %w", err)
	}
	headers := make(interaction.Headers, len(r.Header))
	for name, values := range r.Header {
		headers.Set(name, strings.Join(values, ", "))
	}
	return interaction.RequestData{
		Method:  strings.ToUpper(r.Method),
		URI:     r.URL.RequestURI(),
		Headers: headers,
		Body:    string(body),
	}, nil
}

// writeResponse filters Transfer-Encoding: chunked from the outgoing
// headers, avoiding double-chunking by the HTTP stack, and writes
// status/headers/body.
func writeResponse(w http.ResponseWriter, resp interaction.ResponseData) {
	for name, value := range resp.Headers {
		if strings.EqualFold(name, "transfer-encoding") && strings.EqualFold(strings.TrimSpace(value), "chunked") {
			continue
		}
		w.Header().Set(name, value)
	}
	w.WriteHeader(int(resp.Status))
	_, _ = io.WriteString(w, resp.Body)
}

func upstreamHost(upstreamBase string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(upstreamBase, "https://"), "http://")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "", fmt.Errorf("%w: invalid upstream domain %q", ErrNotConfigured, upstreamBase)
	}
	return trimmed, nil
}

// Shutdown stops the listener, for use by tests that need a clean process
// exit. Production use relies on process exit instead; the listener has
// no graceful shutdown path otherwise.
func (e *Engine) Shutdown(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
