package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/report"
)

func newTestServer(t *testing.T, mutate ...func(*am.Config)) *KinServer {
	t.Helper()
	cfg := am.Default()
	cfg.Server.RateLimit = 0
	for _, m := range mutate {
		m(cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop() })
	return s
}

func get(t *testing.T, s *KinServer, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := am.Default()
	cfg.Parser.MaxRemoved = 0
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		query   string
		status  int
		outcome report.Outcome
	}{
		{"resolved", "father", http.StatusOK, report.OutcomeResolved},
		{"ambiguous", "father%27s+twin", http.StatusOK, report.OutcomeAmbiguous},
		{"unknown", "frobnitz", http.StatusUnprocessableEntity, report.OutcomeUnknown},
		{"step", "stepmother", http.StatusUnprocessableEntity, report.OutcomeStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, "/api/parse?q="+tt.query)
			assert.Equal(t, tt.status, rec.Code)

			var rep report.Report
			decode(t, rec, &rep)
			assert.Equal(t, tt.outcome, rep.Outcome)
		})
	}
}

func TestHandleParseRelation(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/parse?q=father")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var rep report.Report
	decode(t, rec, &rep)
	require.NotNil(t, rep.Relation)
	require.NotNil(t, rep.Relatedness)
	assert.Equal(t, "(1,0)x1", rep.Relation.Notation)
	assert.InDelta(t, 0.5, rep.Relatedness.Coefficient, 1e-9)
}

func TestHandleParseUnknownCarriesError(t *testing.T) {
	s := newTestServer(t)

	var rep report.Report
	decode(t, get(t, s, "/api/parse?q=frobnitz"), &rep)
	require.NotNil(t, rep.Error)
	assert.Equal(t, parser.ErrorKindUnknownRelation, rep.Error.Kind)
	assert.NotEmpty(t, rep.Error.Message)
}

func TestHandleParseBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing q", "/api/parse", http.StatusBadRequest},
		{"blank q", "/api/parse?q=+++", http.StatusBadRequest},
		{"too long", "/api/parse?q=" + strings.Repeat("a", MaxPhraseLength+1), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid request")
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/parse?q=father", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSuggest(t *testing.T) {
	s := newTestServer(t)

	var resp SuggestResponse
	decode(t, get(t, s, "/api/suggest?q=grand&limit=6"), &resp)
	assert.Equal(t, "grand", resp.Query)
	assert.ElementsMatch(t, []string{
		"grandchild", "granddaughter", "grandma", "grandpa", "grandparent", "grandson",
	}, resp.Suggestions)
	assert.Empty(t, resp.DidYouMean)
}

func TestHandleSuggestLimits(t *testing.T) {
	s := newTestServer(t, func(cfg *am.Config) {
		cfg.Suggest.DefaultLimit = 3
		cfg.Suggest.MaxLimit = 5
	})

	var resp SuggestResponse
	decode(t, get(t, s, "/api/suggest?q="), &resp)
	assert.Len(t, resp.Suggestions, 3)

	decode(t, get(t, s, "/api/suggest?q=&limit=50"), &resp)
	assert.Len(t, resp.Suggestions, 5)

	rec := get(t, s, "/api/suggest?q=a&limit=lots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSuggestDidYouMean(t *testing.T) {
	s := newTestServer(t)

	var resp SuggestResponse
	decode(t, get(t, s, "/api/suggest?q=cousn"), &resp)
	assert.Empty(t, resp.Suggestions)
	assert.Contains(t, resp.DidYouMean, "cousin")
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/graph?q=grandpa")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/vnd.graphviz")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "digraph relationgraph {"))
	assert.Contains(t, body, `b [label="Your grandpa"];`)
	assert.Contains(t, body, "c -> a")

	rec = get(t, s, "/api/graph?q=uncle&format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp GraphResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Graph)
	assert.Equal(t, report.OutcomeResolved, resp.Report.Outcome)
	assert.Len(t, resp.Graph.Nodes, 5)
	assert.Equal(t, "uncle", resp.Graph.Meta.Config["phrase"])
}

func TestHandleGraphFailures(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/graph?q=grandpa&format=svg")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s, "/api/graph?q=frobnitz")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp GraphResponse
	decode(t, rec, &resp)
	assert.Nil(t, resp.Graph)
	assert.Equal(t, report.OutcomeUnknown, resp.Report.Outcome)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decode(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "running", resp.State)
	assert.NotEmpty(t, resp.Version)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	get(t, s, "/api/parse?q=father")
	get(t, s, "/api/parse?q=frobnitz")
	get(t, s, "/api/suggest?q=gr")

	body := get(t, s, "/metrics").Body.String()
	assert.Contains(t, body, `kin_parse_total{outcome="resolved"} 1`)
	assert.Contains(t, body, `kin_parse_total{outcome="unknown_relation"} 1`)
	assert.Contains(t, body, "kin_suggest_total 1")
	assert.Contains(t, body, "kin_parse_duration_seconds_count 2")
	assert.Contains(t, body, "kin_websocket_clients 0")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *am.Config) {
		cfg.Server.RateLimit = 1
		cfg.Server.RateBurst = 2
	})

	assert.Equal(t, http.StatusOK, get(t, s, "/api/parse?q=father").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/api/parse?q=father").Code)
	rec := get(t, s, "/api/parse?q=father")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	// Health checks are not limited
	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)
}

func TestApplyConfig(t *testing.T) {
	s := newTestServer(t, func(cfg *am.Config) {
		cfg.Server.RateLimit = 1
		cfg.Server.RateBurst = 1
	})

	get(t, s, "/api/parse?q=father")
	require.Equal(t, http.StatusTooManyRequests, get(t, s, "/api/parse?q=father").Code)

	cfg := am.Default()
	cfg.Server.RateLimit = 0
	cfg.Suggest.DefaultLimit = 2
	require.NoError(t, s.ApplyConfig(cfg))

	assert.Equal(t, http.StatusOK, get(t, s, "/api/parse?q=father").Code)
	var resp SuggestResponse
	decode(t, get(t, s, "/api/suggest?q="), &resp)
	assert.Len(t, resp.Suggestions, 2)

	bad := am.Default()
	bad.Suggest.DefaultLimit = 0
	assert.Error(t, s.ApplyConfig(bad))
	assert.Same(t, cfg, s.config())
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/parse?q=father", "Origin", "http://localhost:5173")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(t, s, "/api/parse?q=father", "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodOptions, "/api/suggest", nil)
	req.Header.Set("Origin", "http://127.0.0.1:8080")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/parse?q=father", "X-Request-ID", "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func dialWS(t *testing.T, s *KinServer) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg QueryMessage) ResponseMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var resp ResponseMessage
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestWebSocket(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	resp := roundTrip(t, conn, QueryMessage{Type: MessageParse, Query: "cousin", ID: "1"})
	assert.Equal(t, MessageParse, resp.Type)
	assert.Equal(t, "1", resp.ID)
	require.NotNil(t, resp.Report)
	assert.Equal(t, report.OutcomeResolved, resp.Report.Outcome)

	resp = roundTrip(t, conn, QueryMessage{Type: MessageSuggest, Query: "grand", Limit: 6, ID: "2"})
	assert.Len(t, resp.Suggestions, 6)
	assert.Contains(t, resp.Suggestions, "grandpa")

	resp = roundTrip(t, conn, QueryMessage{Type: MessageTokens, Query: "mom's great-uncle", ID: "3"})
	require.NotEmpty(t, resp.Tokens)
	assert.Equal(t, "mom", resp.Tokens[0].Text)
	assert.Equal(t, parser.SemanticTerm, resp.Tokens[0].Type)

	resp = roundTrip(t, conn, QueryMessage{Type: MessageGraph, Query: "uncle", ID: "4"})
	require.NotNil(t, resp.Graph)
	assert.Len(t, resp.Graph.Nodes, 5)

	resp = roundTrip(t, conn, QueryMessage{Type: MessagePing, ID: "5"})
	assert.Equal(t, MessagePing, resp.Type)
	assert.Equal(t, "5", resp.ID)

	assert.Eventually(t, func() bool { return s.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketErrors(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	resp := roundTrip(t, conn, QueryMessage{Type: "teleport", ID: "x"})
	assert.Equal(t, MessageError, resp.Type)
	assert.Contains(t, resp.Error, "teleport")

	resp = roundTrip(t, conn, QueryMessage{Type: MessageParse, Query: strings.Repeat("a", MaxPhraseLength+1)})
	assert.Equal(t, MessageError, resp.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var raw ResponseMessage
	require.NoError(t, conn.ReadJSON(&raw))
	assert.Equal(t, MessageError, raw.Type)
}

func TestWebSocketDisconnectUnregisters(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	roundTrip(t, conn, QueryMessage{Type: MessagePing})
	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return s.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeAndStop(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not stop")
	}
	assert.Eventually(t, func() bool { return s.State() == ServerStateStopped }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, s.Stop())
}

func TestServerStateString(t *testing.T) {
	assert.Equal(t, "running", ServerStateRunning.String())
	assert.Equal(t, "draining", ServerStateDraining.String())
	assert.Equal(t, "stopped", ServerStateStopped.String())
	assert.Equal(t, "unknown", ServerState(42).String())
}
