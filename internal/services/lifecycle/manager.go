// Package lifecycle coordinates graceful shutdown of the server's
// components: the HTTP listener, the document store pool, the optional
// cache client, the dispatch journal and its pruner.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc describes a graceful shutdown callback.
type ShutdownFunc func(ctx context.Context) error

type hook struct {
	name    string
	timeout time.Duration
	fn      ShutdownFunc
}

// Manager runs registered shutdown hooks in reverse registration order, so
// the HTTP server stops accepting work before the stores beneath it close.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	hooks []hook
}

// New creates a lifecycle manager. The timeout bounds the whole shutdown
// sequence; individual hooks may carry a tighter bound of their own.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger,
	}
}

// Register adds a shutdown hook bounded only by the manager's timeout.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	m.RegisterWithTimeout(name, 0, fn)
}

// RegisterWithTimeout adds a shutdown hook with its own deadline. Best-effort
// components (journal, cache) use this so a hung close cannot eat the
// shutdown budget of the components after them.
func (m *Manager) RegisterWithTimeout(name string, timeout time.Duration, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, timeout: timeout, fn: fn})
}

// Shutdown executes all registered hooks in reverse order. Hook failures are
// collected, not fatal: every component gets its chance to stop.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for i := len(m.hooks) - 1; i >= 0; i-- {
		h := m.hooks[i]
		started := time.Now()
		if err := m.runHook(ctx, h); err != nil {
			m.logger.Error("shutdown hook failed",
				zap.String("component", h.name),
				zap.Duration("elapsed", time.Since(started)),
				zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", h.name),
			zap.Duration("elapsed", time.Since(started)))
	}
	return result
}

func (m *Manager) runHook(ctx context.Context, h hook) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.fn(ctx)
}

// Listen invokes cancel on the first termination signal. A second signal
// aborts the process without waiting for the hooks.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()

		sig = <-sigCh
		m.logger.Warn("second shutdown signal received, aborting", zap.String("signal", sig.String()))
		os.Exit(1)
	}()
}
