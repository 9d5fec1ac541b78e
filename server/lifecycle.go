package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/sym"
)

// State returns the current server state
func (s *KinServer) State() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *KinServer) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", newState.String())
}

// String returns the human-readable state name
func (st ServerState) String() string {
	switch st {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start listens on server.bind_address and serves until ctx is cancelled or
// Stop is called.
func (s *KinServer) Start(ctx context.Context) error {
	addr := s.config().Server.BindAddress
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WithHintf(errors.Wrapf(err, "failed to listen on %s", addr),
			"set server.bind_address in kin.toml or KIN_SERVER_BIND_ADDRESS")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. It returns nil after a graceful stop.
func (s *KinServer) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.config()
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			if err := s.Stop(); err != nil {
				s.logger.Warnw("Shutdown error", logger.FieldError, err)
			}
		case <-s.ctx.Done():
		}
	}()

	s.logger.Infow(sym.Serve+" kin server listening",
		logger.FieldAddress, ln.Addr().String(),
		"rate_limit", cfg.Server.RateLimit,
	)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// WatchConfig reloads path on change and applies it to the running server
func (s *KinServer) WatchConfig(path string) error {
	watcher, err := am.NewConfigWatcher(path)
	if err != nil {
		return err
	}
	watcher.OnReload(s.ApplyConfig)
	watcher.Start()

	s.mu.Lock()
	s.configWatcher = watcher
	s.mu.Unlock()
	am.SetGlobalWatcher(watcher)

	s.logger.Infow(sym.Config+" Watching configuration", logger.FieldFile, path)
	return nil
}

// Stop gracefully shuts down the server and cleans up resources.
// Calling it more than once is a no-op.
func (s *KinServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		err = s.stop()
	})
	return err
}

func (s *KinServer) stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	s.mu.Lock()
	watcher := s.configWatcher
	srv := s.httpServer
	s.mu.Unlock()

	var shutdownErr error
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			s.logger.Warnw("Config watcher stop failed", logger.FieldError, err)
		}
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		if err := srv.Shutdown(ctx); err != nil {
			shutdownErr = errors.Wrap(err, "http shutdown")
		}
		cancel()
	}

	// Hijacked websocket connections are not closed by Shutdown
	s.mu.Lock()
	for client := range s.clients {
		client.close()
		client.conn.Close()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.setState(ServerStateStopped)
	s.logger.Infow("Server stopped", "dropped_messages", s.drops.Load())
	return shutdownErr
}
