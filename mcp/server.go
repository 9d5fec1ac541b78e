// Package mcp exposes phrase parsing, autosuggest and graph rendering as
// Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/graph"
	"github.com/teranos/kin/logger"
	"github.com/teranos/kin/parser"
	"github.com/teranos/kin/report"
	"github.com/teranos/kin/suggest"
	"github.com/teranos/kin/version"
)

// Tool names
const (
	ToolParse   = "kin_parse"
	ToolSuggest = "kin_suggest"
	ToolGraph   = "kin_graph"
	ToolTokens  = "kin_tokens"
)

// Server wraps the kin packages and exposes them via Model Context Protocol
type Server struct {
	cfg       *am.Config
	suggester *suggest.Suggester
	logger    *zap.SugaredLogger
	server    *mcpserver.MCPServer
}

// NewServer creates an MCP server for cfg, or the defaults if cfg is nil
func NewServer(cfg *am.Config) (*Server, error) {
	if cfg == nil {
		cfg = am.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		suggester: suggest.New(suggest.WithMaxGreats(cfg.Suggest.MaxGreats)),
		logger:    logger.ComponentLogger("mcp"),
	}
	s.server = mcpserver.NewMCPServer(
		"kin",
		version.Get().Version,
		mcpserver.WithToolCapabilities(true),
	)
	s.registerTools()
	return s, nil
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	parseTool := mcplib.NewTool(ToolParse,
		mcplib.WithDescription("Resolve an English kinship phrase such as \"mom's cousin's son\" "+
			"to its common ancestors and coefficient of relatedness"),
		mcplib.WithString("phrase",
			mcplib.Required(),
			mcplib.Description("Kinship phrase, possessives chained with 's"),
		),
	)
	s.server.AddTool(parseTool, s.handleParse)

	suggestTool := mcplib.NewTool(ToolSuggest,
		mcplib.WithDescription("Complete a partial kinship phrase"),
		mcplib.WithString("prefix",
			mcplib.Required(),
			mcplib.Description("Text typed so far"),
		),
		mcplib.WithNumber("limit",
			mcplib.Description(fmt.Sprintf("Maximum suggestions (default: %d)", s.cfg.Suggest.DefaultLimit)),
		),
	)
	s.server.AddTool(suggestTool, s.handleSuggest)

	graphTool := mcplib.NewTool(ToolGraph,
		mcplib.WithDescription("Draw the family tree implied by a kinship phrase"),
		mcplib.WithString("phrase",
			mcplib.Required(),
			mcplib.Description("Kinship phrase"),
		),
		mcplib.WithString("format",
			mcplib.Description("dot (Graphviz, default) or json"),
			mcplib.Enum("dot", "json"),
		),
	)
	s.server.AddTool(graphTool, s.handleGraph)

	tokensTool := mcplib.NewTool(ToolTokens,
		mcplib.WithDescription("Classify each span of a kinship phrase (term, modifier, qualifier, possessive, unknown)"),
		mcplib.WithString("phrase",
			mcplib.Required(),
			mcplib.Description("Kinship phrase"),
		),
	)
	s.server.AddTool(tokensTool, s.handleTokens)
}

func (s *Server) newParser(opts ...parser.Option) *parser.Parser {
	return parser.New(append([]parser.Option{parser.WithMaxRemoved(s.cfg.Parser.MaxRemoved)}, opts...)...)
}

// handleParse handles kin_parse tool calls
func (s *Server) handleParse(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	phrase, err := request.RequireString("phrase")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}

	rep := report.Parse(s.newParser(), strings.TrimSpace(phrase))
	s.logger.Debugw("Tool call", logger.FieldOperation, ToolParse, logger.FieldPhrase, phrase, "outcome", rep.Outcome)
	return reportResult(rep)
}

// handleSuggest handles kin_suggest tool calls
func (s *Server) handleSuggest(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	prefix, err := request.RequireString("prefix")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	limit := s.cfg.ClampSuggestLimit(request.GetInt("limit", 0))

	suggestions := s.suggester.Suggest(prefix, limit)
	if len(suggestions) == 0 {
		near := s.suggester.DidYouMean(prefix, limit)
		if len(near) == 0 {
			return mcplib.NewToolResultText("No suggestions"), nil
		}
		return mcplib.NewToolResultText("No completions. Did you mean: " + strings.Join(near, ", ")), nil
	}
	return mcplib.NewToolResultText(strings.Join(suggestions, "\n")), nil
}

// handleGraph handles kin_graph tool calls
func (s *Server) handleGraph(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	phrase, err := request.RequireString("phrase")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	format := request.GetString("format", "dot")
	if format != "dot" && format != "json" {
		return mcplib.NewToolResultError(fmt.Sprintf("format must be dot or json, got %q", format)), nil
	}

	phrase = strings.TrimSpace(phrase)
	g := graph.New(graph.WithLabelWidth(s.cfg.Graph.LabelWidth), graph.WithSize(s.cfg.Graph.Size))
	rep := report.Parse(s.newParser(parser.WithRecorder(g)), phrase)
	if rep.Outcome != report.OutcomeResolved {
		return reportResult(rep)
	}

	if format == "dot" {
		return mcplib.NewToolResultText(g.DOT()), nil
	}
	data, err := display.MarshalJSON(g.Graph(map[string]string{"phrase": phrase}))
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

// handleTokens handles kin_tokens tool calls
func (s *Server) handleTokens(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	phrase, err := request.RequireString("phrase")
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	data, err := display.MarshalJSON(parser.Tokens(phrase))
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

// reportResult renders rep as JSON. Failed parses are tool errors so the
// model sees the suggestions.
func reportResult(rep report.Report) (*mcplib.CallToolResult, error) {
	data, err := display.MarshalJSON(rep)
	if err != nil {
		return mcplib.NewToolResultError(err.Error()), nil
	}
	switch rep.Outcome {
	case report.OutcomeResolved, report.OutcomeAmbiguous:
		return mcplib.NewToolResultText(string(data)), nil
	default:
		return mcplib.NewToolResultError(string(data)), nil
	}
}

// Serve runs the MCP server on stdin/stdout until EOF
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.server)
}
