// Package session owns the single process-wide engine handle. The handle
// is launched lazily on first acquire and reused for the process lifetime.
package session

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"flexsim-mcp/internal/engine"
	"flexsim-mcp/internal/logger"
)

// LaunchFunc starts the engine and returns its controller.
type LaunchFunc func() (engine.Controller, error)

// Holder memoizes one engine controller. Concurrent first callers share a
// single in-flight launch; a failed launch is not cached, so the next
// Acquire tries fresh.
type Holder struct {
	launch LaunchFunc
	log    *logger.LogEntry

	group singleflight.Group
	mu    sync.Mutex
	ctrl  engine.Controller
}

// NewHolder wires a holder around the given launcher.
func NewHolder(launch LaunchFunc) *Holder {
	return &Holder{
		launch: launch,
		log:    logger.Named("session"),
	}
}

// Acquire returns the existing controller, or launches exactly once under
// concurrency and returns the shared result.
func (h *Holder) Acquire() (engine.Controller, error) {
	h.mu.Lock()
	if h.ctrl != nil {
		ctrl := h.ctrl
		h.mu.Unlock()
		return ctrl, nil
	}
	h.mu.Unlock()

	v, err, shared := h.group.Do("engine", func() (any, error) {
		ctrl, err := h.launch()
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		h.ctrl = ctrl
		h.mu.Unlock()
		return ctrl, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		h.log.Debug("engine launch shared with concurrent caller")
	}
	return v.(engine.Controller), nil
}

// Active reports whether a controller has been launched.
func (h *Holder) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctrl != nil
}

// Shutdown drops the handle. The engine window is deliberately left open;
// only the reference is released so a later Acquire relaunches.
func (h *Holder) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctrl != nil {
		h.log.Info("releasing engine handle; FlexSim window stays open")
		h.ctrl = nil
	}
}
