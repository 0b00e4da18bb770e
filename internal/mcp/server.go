package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Assistant is the conversation surface exposed as tools.
type Assistant interface {
	ProcessMessage(ctx context.Context, sessionID, message string) dialogue.Reply
	GetContext(sessionID string) session.Context
	ClearContext(sessionID string)
	LatestPlan(ctx context.Context, sessionID string) (string, bool)
}

// Server wraps an MCP server that lets another agent talk to Ane.
type Server struct {
	assistant Assistant
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server around the assistant.
func NewServer(a Assistant) *Server {
	s := &Server{assistant: a}

	s.mcp = server.NewMCPServer(
		"ane",
		Version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(sendMessageTool, s.handleSendMessage)
	s.mcp.AddTool(getContextTool, s.handleGetContext)
	s.mcp.AddTool(clearContextTool, s.handleClearContext)
	s.mcp.AddTool(getLessonPlanTool, s.handleGetLessonPlan)

	return s
}

// Serve starts the MCP server on stdio. Stdout carries protocol messages;
// all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
