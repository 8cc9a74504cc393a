// server/shutdown.go
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Stopper is a listener that can drain in-flight requests, such as *http.Server
type Stopper interface {
	Shutdown(ctx context.Context) error
}

// ShutdownManager handles graceful shutdown
type ShutdownManager struct {
	server     Stopper
	closer     io.Closer
	timeout    time.Duration
	signals    chan os.Signal
	shutdownCh chan struct{}
	completed  chan struct{}
	err        error
	once       sync.Once
	logger     *log.Logger
}

// NewShutdownManager creates a new shutdown manager. server may be nil when
// the transport has no listener to drain (stdio).
func NewShutdownManager(server Stopper, closer io.Closer, logger *log.Logger) *ShutdownManager {
	return &ShutdownManager{
		server:     server,
		closer:     closer,
		timeout:    30 * time.Second,
		signals:    make(chan os.Signal, 1),
		shutdownCh: make(chan struct{}),
		completed:  make(chan struct{}),
		logger:     logger,
	}
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then shuts down
func (sm *ShutdownManager) HandleGracefulShutdown() error {
	signal.Notify(sm.signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sm.signals)

	sig := <-sm.signals
	sm.logger.Printf("Received signal: %v", sig)

	return sm.Stop()
}

// Stop shuts down within the manager's timeout and waits for the sequence to
// finish, whoever started it.
func (sm *ShutdownManager) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()

	_ = sm.Shutdown(ctx)
	return sm.Wait()
}

// Shutdown stops the listener, then the closer. It runs at most once; later
// calls return an error without waiting.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	err := errors.New("shutdown already performed")
	sm.once.Do(func() {
		defer close(sm.completed)
		close(sm.shutdownCh)

		done := make(chan error, 1)
		go func() {
			done <- sm.performGracefulShutdown(ctx)
		}()

		select {
		case err = <-done:
			if err == nil {
				sm.logger.Println("Graceful shutdown completed")
			}
		case <-ctx.Done():
			err = fmt.Errorf("shutdown timed out: %v", ctx.Err())
		}
		sm.err = err
	})
	return err
}

// Wait blocks until a shutdown has finished or timed out and returns its result
func (sm *ShutdownManager) Wait() error {
	<-sm.completed
	return sm.err
}

// performGracefulShutdown handles the actual shutdown sequence
func (sm *ShutdownManager) performGracefulShutdown(ctx context.Context) error {
	var shutdownErr error

	// Stop accepting new connections
	if sm.server != nil {
		if err := sm.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %v", err)
			sm.logger.Printf("Error during server shutdown: %v", err)
		}
	}

	// Close the MCP server and its audit store
	if sm.closer != nil {
		if err := sm.closer.Close(); err != nil {
			if shutdownErr != nil {
				shutdownErr = fmt.Errorf("multiple shutdown errors: %v; close error: %v", shutdownErr, err)
			} else {
				shutdownErr = fmt.Errorf("close error: %v", err)
			}
			sm.logger.Printf("Error closing MCP server: %v", err)
		}
	}

	if shutdownErr != nil {
		sm.logger.Printf("Final shutdown error: %v", shutdownErr)
	}
	return shutdownErr
}

// Completed is closed once the shutdown sequence has finished or timed out
func (sm *ShutdownManager) Completed() <-chan struct{} {
	return sm.completed
}

// Done is closed once shutdown has been initiated
func (sm *ShutdownManager) Done() <-chan struct{} {
	return sm.shutdownCh
}

// IsShuttingDown returns true if shutdown has been initiated
func (sm *ShutdownManager) IsShuttingDown() bool {
	select {
	case <-sm.shutdownCh:
		return true
	default:
		return false
	}
}
