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

// ShutdownFunc is a callback invoked during graceful shutdown.
type ShutdownFunc func(ctx context.Context) error

type stage struct {
	name string
	stop ShutdownFunc
}

// Manager tracks components that need orderly teardown. Components register
// in startup order and are stopped in reverse.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	stages []stage
}

// New creates a Manager. A non-positive timeout falls back to 15 seconds.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{timeout: timeout, logger: logger}
}

// Register adds a named shutdown callback.
func (m *Manager) Register(name string, stop ShutdownFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.stages = append(m.stages, stage{name: name, stop: stop})
	m.mu.Unlock()
}

// Shutdown stops every registered component in reverse registration order.
// All stages run even if earlier ones fail; their errors are joined.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	stages := make([]stage, len(m.stages))
	copy(stages, m.stages)
	m.mu.Unlock()

	var result error
	for i := len(stages) - 1; i >= 0; i-- {
		s := stages[i]
		started := time.Now()
		if err := s.stop(ctx); err != nil {
			m.logger.Error("shutdown stage failed",
				zap.String("component", s.name),
				zap.Error(err),
			)
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped",
			zap.String("component", s.name),
			zap.Duration("took", time.Since(started)),
		)
	}
	return result
}

// Listen installs a SIGTERM/SIGINT handler that calls cancel once.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
