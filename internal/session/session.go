// session.go — the session controller: global test serialisation,
// before/after hooks, and error propagation from the listener goroutine
// to the test goroutine. The test gate is a guarded bool behind a
// sync.Mutex/sync.Cond pair: enterTest blocks while another test is
// running, exitTest clears the flag and wakes the next waiter.
package session

import (
	"sync"

	"github.com/dev-console/servirtium-go/internal/engine"
	"github.com/dev-console/servirtium-go/internal/vcrconfig"
	"github.com/dev-console/servirtium-go/internal/vcrlog"
)

// Controller serialises test execution against a single shared Engine
// with a global mutex-and-condition gate. One Controller is constructed
// once per process and reused by every test.
type Controller struct {
	log vcrlog.Logger

	engine *engine.Engine

	gateMu  sync.Mutex
	gateCnd *sync.Cond
	running bool

	cfgMu  sync.Mutex
	config vcrconfig.Config
}

// New constructs a Controller around the given Engine.
func New(e *engine.Engine) *Controller {
	c := &Controller{engine: e, log: vcrlog.New("session")}
	c.gateCnd = sync.NewCond(&c.gateMu)
	return c
}

// BeforeTest blocks until no other test is active, then starts the
// listener (once per process), installs cfg on the engine, and clears
// prior session state.
func (c *Controller) BeforeTest(cfg vcrconfig.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.enterTest()

	if err := c.engine.EnsureListening(); err != nil {
		c.exitTest()
		return err
	}

	c.cfgMu.Lock()
	c.config = cfg
	c.cfgMu.Unlock()

	c.engine.Install(cfg)
	return nil
}

// AfterTest takes the latched error first; only if there was none does it,
// in Record mode, either compare-against-disk or save (mutually
// exclusive, governed by FailIfChanged). It then resets the engine and
// releases the test gate.
func (c *Controller) AfterTest() error {
	c.engine.BeginDraining()

	latched := c.engine.TakeError()

	c.cfgMu.Lock()
	cfg := c.config
	c.cfgMu.Unlock()

	var result error
	switch {
	case latched != nil:
		result = latched
	case cfg.Mode == vcrconfig.Record:
		captured := c.engine.Captured()
		if cfg.FailIfChanged {
			result = cfg.Store.Compare(captured)
		} else {
			result = cfg.Store.Save(captured)
		}
	}

	c.engine.Reset()
	c.exitTest()

	if result != nil {
		c.log.Warningf("after_test reporting error: %v", result)
	}
	return result
}

// enterTest blocks while another test is running.
func (c *Controller) enterTest() {
	c.gateMu.Lock()
	defer c.gateMu.Unlock()
	for c.running {
		c.gateCnd.Wait()
	}
	c.running = true
}

// exitTest clears the running flag and wakes exactly one waiter.
func (c *Controller) exitTest() {
	c.gateMu.Lock()
	c.running = false
	c.gateMu.Unlock()
	c.gateCnd.Signal()
}
