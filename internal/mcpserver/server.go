// Package mcpserver exposes a tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webresearch/internal/llmtools"
)

// ServerName is reported to hosts during initialization.
const ServerName = "webresearch"

// New builds an MCP server with one tool per registry entry. Tool results are
// the registry's JSON output as a single text content item.
func New(reg *llmtools.Registry, version string) (*mcp.Server, error) {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	for _, name := range reg.Names() {
		def, _ := reg.Get(name)
		var schema map[string]any
		if err := json.Unmarshal(def.JSONSchema, &schema); err != nil {
			return nil, fmt.Errorf("tool %s: decode schema: %w", name, err)
		}
		server.AddTool(&mcp.Tool{
			Name:        def.StableName,
			Description: def.Description,
			InputSchema: schema,
		}, toolHandler(reg, def.StableName))
	}
	return server, nil
}

func toolHandler(reg *llmtools.Registry, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = req.Params.Arguments
		}
		out, err := reg.Call(ctx, name, args)
		if err != nil {
			return errorResult(err), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(out)}}}, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// Serve runs server over stdin/stdout until ctx is cancelled or the host
// disconnects. Nothing else may write to stdout while it runs.
func Serve(ctx context.Context, server *mcp.Server) error {
	log.Info().Str("transport", "stdio").Msg("mcp server starting")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	log.Info().Msg("mcp server stopped")
	return nil
}
