// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Fimbra board tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fimbra/internal/boardservice"
)

// Server wraps the MCP server with Fimbra tools.
type Server struct {
	mcp *server.MCPServer
	svc *boardservice.Service
}

// New creates a new MCP server with all Fimbra tools registered.
func New(svc *boardservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Fimbra",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_board",
		mcp.WithDescription("Open a board document (.fim or .json) and return its JSON."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the board file")),
	), s.readBoard)

	s.mcp.AddTool(mcp.NewTool("export_board",
		mcp.WithDescription("Open a board document and render it as text. "+
			"format is one of txt, rtf, opml; ordering is one of spatial, "+
			"connections, hierarchical. See the fimbra://board-schema "+
			"resource for what the orderings mean."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the board file")),
		mcp.WithString("format", mcp.Required(), mcp.Description("Export format: txt, rtf, or opml")),
		mcp.WithString("ordering", mcp.Required(), mcp.Description("Note ordering: spatial, connections, or hierarchical")),
	), s.exportBoard)

	s.mcp.AddTool(mcp.NewTool("list_recent_boards",
		mcp.WithDescription("List the most-recently-used board file paths, newest first."),
	), s.listRecentBoards)

	s.mcp.AddTool(mcp.NewTool("list_recovery_candidates",
		mcp.WithDescription("List autosave recovery files left behind by unclean shutdowns, newest first."),
	), s.listRecoveryCandidates)

	s.mcp.AddTool(mcp.NewTool("get_board_schema",
		mcp.WithDescription("Returns the canonical board document JSON schema contract."),
	), s.getBoardSchema)

	// Resource: board schema contract.
	s.mcp.AddResource(
		mcp.NewResource("fimbra://board-schema", "Board Document Schema",
			mcp.WithResourceDescription("Canonical JSON schema of a board document."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readBoardSchemaResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.OpenBoard(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exportBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ordering, err := req.RequireString("ordering")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.svc.OpenBoard(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.Export(ctx, doc, format, ordering)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listRecentBoards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files := s.svc.RecentFiles(ctx)
	if len(files) == 0 {
		return mcp.NewToolResultText("no recent boards"), nil
	}
	return mcp.NewToolResultText(strings.Join(files, "\n")), nil
}

func (s *Server) listRecoveryCandidates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidates := s.svc.ListRecoveryCandidates(ctx)
	if len(candidates) == 0 {
		return mcp.NewToolResultText("no recovery candidates"), nil
	}
	var lines []string
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("%s (original: %s, saved: %s)",
			c.RecoveryPath, c.OriginalPath, c.Timestamp.Format("2006-01-02 15:04:05 MST")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getBoardSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(BoardSchemaContract), nil
}

func (s *Server) readBoardSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "fimbra://board-schema",
			MIMEType: "text/markdown",
			Text:     BoardSchemaContract,
		},
	}, nil
}
