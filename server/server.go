// Package server serves parsing, autosuggest and graphs over HTTP and a
// type-ahead websocket.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/suggest"
)

// KinServer serves the kin HTTP API and websocket
type KinServer struct {
	cfgMu sync.RWMutex
	cfg   *am.Config

	suggester *suggest.Suggester
	limiter   *clientLimiter
	metrics   *metrics
	logger    *zap.SugaredLogger
	mux       *http.ServeMux

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	configWatcher *am.ConfigWatcher
	httpServer    *http.Server

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	state    atomic.Int32
	drops    atomic.Int64
}

// New creates a server for cfg, or the defaults if cfg is nil. Call Start to listen, or use Handler with
// an existing http.Server.
func New(cfg *am.Config) (*KinServer, error) {
	if cfg == nil {
		cfg = am.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &KinServer{
		cfg:        cfg,
		suggester:  suggest.New(suggest.WithMaxGreats(cfg.Suggest.MaxGreats)),
		limiter:    newClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		metrics:    newMetrics(),
		logger:     logger.ComponentLogger("server"),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.metrics.registerServerGauges(s)
	s.mux = s.setupHTTPRoutes()
	s.state.Store(int32(ServerStateRunning))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.limiter.sweep(s.ctx, limiterIdleTimeout)
	}()

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *KinServer) Handler() http.Handler {
	return s.mux
}

// config returns the active configuration
func (s *KinServer) config() *am.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// ApplyConfig swaps in a reloaded configuration. The bind address and
// timeouts only take effect on restart; everything else applies live.
func (s *KinServer) ApplyConfig(cfg *am.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfgMu.Lock()
	prev := s.cfg
	s.cfg = cfg
	if prev.Suggest.MaxGreats != cfg.Suggest.MaxGreats {
		s.suggester = suggest.New(suggest.WithMaxGreats(cfg.Suggest.MaxGreats))
	}
	s.cfgMu.Unlock()

	s.limiter.setLimit(cfg.Server.RateLimit, cfg.Server.RateBurst)

	if prev.Server.BindAddress != cfg.Server.BindAddress {
		s.logger.Warnw("server.bind_address changed, restart to apply",
			logger.FieldAddress, cfg.Server.BindAddress)
	}
	s.logger.Infow("Configuration applied",
		"rate_limit", cfg.Server.RateLimit,
		"rate_burst", cfg.Server.RateBurst,
		"suggest_default_limit", cfg.Suggest.DefaultLimit)
	return nil
}

// newParser builds a parser for one request from the active configuration
func (s *KinServer) newParser(opts ...parser.Option) *parser.Parser {
	cfg := s.config()
	return parser.New(append([]parser.Option{parser.WithMaxRemoved(cfg.Parser.MaxRemoved)}, opts...)...)
}

// newGraph builds an empty relation graph from the active configuration
func (s *KinServer) newGraph() *graph.RelationGraph {
	cfg := s.config()
	return graph.New(graph.WithLabelWidth(cfg.Graph.LabelWidth), graph.WithSize(cfg.Graph.Size))
}

func (s *KinServer) currentSuggester() *suggest.Suggester {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.suggester
}

// handleClientRegister handles a new client connection
func (s *KinServer) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", MaxClients,
		)
		client.conn.Close()
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)
}

// handleClientUnregister handles a client disconnection
func (s *KinServer) handleClientUnregister(client *Client) {
	s.mu.Lock()
	if _, ok := s.clients[client]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()

	s.logger.Infow("Client disconnected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)
}

// ClientCount returns the number of connected websocket clients
func (s *KinServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Run is the hub event loop. It owns the client set.
func (s *KinServer) Run() {
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Debugw("Server hub stopping due to context cancellation")
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}
