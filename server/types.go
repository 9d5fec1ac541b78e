package server

import (
	"time"

	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/report"
)

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
	// MaxPhraseLength bounds the q parameter and websocket queries
	MaxPhraseLength = 512
	// limiterIdleTimeout evicts per-client rate limiters unused for this long
	limiterIdleTimeout = 10 * time.Minute
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// Websocket message types
const (
	MessageParse   = "parse"
	MessageSuggest = "suggest"
	MessageTokens  = "tokens"
	MessageGraph   = "graph"
	MessagePing    = "ping"
	MessageVersion = "version"
	MessageError   = "error"
)

// QueryMessage is a client request on the websocket
type QueryMessage struct {
	Type  string `json:"type"`            // "parse", "suggest", "tokens", "graph", "ping"
	Query string `json:"query"`           // Phrase or prefix
	ID    string `json:"id,omitempty"`    // Echoed back for correlation
	Limit int    `json:"limit,omitempty"` // Suggest only
}

// ResponseMessage is a server reply on the websocket. Exactly one payload
// field is set, matching Type.
type ResponseMessage struct {
	Type        string                 `json:"type"`
	ID          string                 `json:"id,omitempty"`
	Report      *report.Report         `json:"report,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Tokens      []parser.SemanticToken `json:"tokens,omitempty"`
	Graph       *graph.Graph           `json:"graph,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// SuggestResponse is the body of GET /api/suggest
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
	DidYouMean  []string `json:"did_you_mean,omitempty"`
}

// GraphResponse is the JSON body of GET /api/graph
type GraphResponse struct {
	Report report.Report `json:"report"`
	Graph  *graph.Graph  `json:"graph,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	Clients   int    `json:"clients"`
	State     string `json:"state"`
}
