package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/report"
	"github.com/teranos/kin/version"
)

// parse resolves phrase and records metrics. The error is the parser's, for
// status mapping; the report already describes it.
func (s *KinServer) parse(phrase string, opts ...parser.Option) (report.Report, error) {
	start := time.Now()
	res, err := s.newParser(opts...).Parse(phrase)
	rep := report.New(phrase, res, err)
	s.metrics.observeParse(rep.Outcome, time.Since(start))
	return rep, err
}

// graph resolves phrase while drawing its family tree. The graph is nil
// unless the phrase resolved to a single relation.
func (s *KinServer) graph(phrase string) (report.Report, *graph.RelationGraph, error) {
	g := s.newGraph()
	rep, err := s.parse(phrase, parser.WithRecorder(g))
	if rep.Outcome != report.OutcomeResolved {
		return rep, nil, err
	}
	return rep, g, err
}

// suggest completes prefix with the configured limits
func (s *KinServer) suggest(prefix string, limit int) []string {
	s.metrics.suggestTotal.Inc()
	return s.currentSuggester().Suggest(prefix, s.config().ClampSuggestLimit(limit))
}

// phraseParam reads and checks the q parameter
func phraseParam(r *http.Request, required bool) (string, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" && required {
		return "", NewInvalidRequestError("missing query parameter q")
	}
	if len(q) > MaxPhraseLength {
		return "", NewInvalidRequestError("query parameter q longer than %d bytes", MaxPhraseLength)
	}
	return q, nil
}

// writeReport writes rep with the status its parse error maps to
func writeReport(w http.ResponseWriter, body interface{}, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, body)
}

// HandleParse serves GET /api/parse?q=
func (s *KinServer) HandleParse(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	log := s.requestLogger(r)

	q, err := phraseParam(r, true)
	if err != nil {
		writeWrappedError(w, log, err)
		return
	}

	rep, err := s.parse(q)
	log.Debugw("Parsed phrase",
		logger.FieldPhrase, q,
		"outcome", rep.Outcome,
	)
	writeReport(w, rep, err)
}

// HandleSuggest serves GET /api/suggest?q=&limit=. An empty prefix lists
// the most common terms. With no completions, close matches are offered.
func (s *KinServer) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	log := s.requestLogger(r)

	q, err := phraseParam(r, false)
	if err != nil {
		writeWrappedError(w, log, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeWrappedError(w, log, NewInvalidRequestError("limit must be a non-negative integer, got %q", raw))
			return
		}
	}

	resp := SuggestResponse{Query: q, Suggestions: s.suggest(q, limit)}
	if len(resp.Suggestions) == 0 && q != "" {
		resp.DidYouMean = s.currentSuggester().DidYouMean(q, s.config().ClampSuggestLimit(limit))
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGraph serves GET /api/graph?q=&format=dot|json
func (s *KinServer) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	log := s.requestLogger(r)

	q, err := phraseParam(r, true)
	if err != nil {
		writeWrappedError(w, log, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}
	if format != "dot" && format != "json" {
		writeWrappedError(w, log, NewInvalidRequestError("format must be dot or json, got %q", format))
		return
	}

	rep, g, err := s.graph(q)
	if g == nil {
		writeReport(w, GraphResponse{Report: rep}, err)
		return
	}

	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(g.DOT()))
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{
		Report: rep,
		Graph:  g.Graph(map[string]string{"phrase": q}),
	})
}

// HandleHealth serves GET /health
func (s *KinServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	info := version.Get()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   info.Version,
		Commit:    info.CommitHash,
		BuildTime: info.BuildTime,
		Clients:   s.ClientCount(),
		State:     s.State().String(),
	})
}

// HandleWebSocket upgrades GET /ws and starts the client's pumps
func (s *KinServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.State() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		s.requestLogger(r).Debugw("WebSocket upgrade failed", logger.FieldError, err)
		return
	}

	client := newClient(s, conn, uuid.NewString())
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
