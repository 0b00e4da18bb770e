package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	message, err := request.RequireString("message")
	if err != nil || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	reply := s.assistant.ProcessMessage(ctx, sessionID, message)

	var sb strings.Builder
	sb.WriteString(reply.Text)
	if reply.SideEffects.PDF != nil {
		fmt.Fprintf(&sb, "\n\nPDF: %s", reply.SideEffects.PDF.URL)
	}
	if reply.SideEffects.Video != nil {
		fmt.Fprintf(&sb, "\n\nVídeo: %s", reply.SideEffects.Video.URL)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	data, err := json.MarshalIndent(s.assistant.GetContext(sessionID), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode context: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleClearContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	s.assistant.ClearContext(sessionID)
	return mcp.NewToolResultText("Contexto limpo."), nil
}

func (s *Server) handleGetLessonPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	plan, ok := s.assistant.LatestPlan(ctx, sessionID)
	if !ok {
		return mcp.NewToolResultError("Nenhum plano de aula foi gerado nesta conversa ainda."), nil
	}
	return mcp.NewToolResultText(plan), nil
}
