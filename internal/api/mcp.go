package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/relation"
	"github.com/fixdesk/fixdesk/internal/search"
	"github.com/fixdesk/fixdesk/internal/store"
	"github.com/fixdesk/fixdesk/internal/ticket"
)

// MCPDeps holds the engine pieces the MCP tools read through.
type MCPDeps struct {
	Store    *store.Store
	Resolver *relation.Resolver
	Tickets  *ticket.Service // optional; file_ticket errors when nil
}

// NewMCPServer creates an MCP server exposing the synced catalogs to
// agents.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"fixdesk",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("fixdesk service-center catalog: devices, setup instructions, repair recipes, and support tickets."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List all devices in the catalog with their instruction and recipe counts."),
		),
		mcpListDevices(deps),
	)

	s.AddTool(
		mcp.NewTool("search_catalog",
			mcp.WithDescription("Search one catalog by substring over its title/name and description."),
			mcp.WithString("catalog", mcp.Description("One of: devices, instructions, recipes, tickets"), mcp.Required()),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
		),
		mcpSearchCatalog(deps),
	)

	s.AddTool(
		mcp.NewTool("device_guides",
			mcp.WithDescription("List the instructions and recipes associated with a device."),
			mcp.WithNumber("device_id", mcp.Description("Device id"), mcp.Required()),
		),
		mcpDeviceGuides(deps),
	)

	s.AddTool(
		mcp.NewTool("file_ticket",
			mcp.WithDescription("File a support ticket for the configured user."),
			mcp.WithString("message", mcp.Description("Problem description"), mcp.Required()),
		),
		mcpFileTicket(deps),
	)

	return s
}

func mcpListDevices(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type deviceResult struct {
			ID           int    `json:"id"`
			Name         string `json:"name"`
			Description  string `json:"description,omitempty"`
			Tags         string `json:"tags,omitempty"`
			Instructions int    `json:"instructions"`
			Recipes      int    `json:"recipes"`
		}

		devices := deps.Store.Devices()
		results := make([]deviceResult, len(devices))
		for i, d := range devices {
			instructions, recipes := deps.Resolver.GuideCounts(d.ID)
			results[i] = deviceResult{
				ID:           d.ID,
				Name:         d.Name,
				Description:  d.Description,
				Tags:         d.Tags,
				Instructions: instructions,
				Recipes:      recipes,
			}
		}
		return marshalResult(results)
	}
}

func mcpSearchCatalog(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawKind, err := req.RequireString("catalog")
		if err != nil {
			return mcpError("catalog is required"), nil
		}
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		kind, err := catalog.ParseKind(rawKind)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		switch kind {
		case catalog.KindDevices:
			return marshalResult(search.Devices(deps.Store.Devices(), query))
		case catalog.KindInstructions:
			return marshalResult(search.Guides(deps.Store.Instructions(), query))
		case catalog.KindRecipes:
			return marshalResult(search.Guides(deps.Store.Recipes(), query))
		default:
			return marshalResult(search.Tickets(deps.Store.Tickets(), query))
		}
	}
}

func mcpDeviceGuides(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		deviceID, err := req.RequireInt("device_id")
		if err != nil {
			return mcpError("device_id is required"), nil
		}

		device, ok := deps.Store.DeviceByID(deviceID)
		if !ok {
			return mcpError(fmt.Sprintf("device %d not found", deviceID)), nil
		}

		result := struct {
			Device       string          `json:"device"`
			Instructions []catalog.Guide `json:"instructions"`
			Recipes      []catalog.Guide `json:"recipes"`
		}{
			Device:       device.Name,
			Instructions: deps.Resolver.InstructionsForDevice(deviceID),
			Recipes:      deps.Resolver.RecipesForDevice(deviceID),
		}
		return marshalResult(result)
	}
}

func mcpFileTicket(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Tickets == nil {
			return mcpError("ticket filing not available"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		deps.Tickets.SetDraft(message)
		if err := deps.Tickets.Submit(ctx); err != nil {
			switch {
			case errors.Is(err, ticket.ErrEmptyMessage):
				return mcpError("message is empty"), nil
			case errors.Is(err, ticket.ErrNoIdentity):
				return mcpError("no user identity configured"), nil
			}
			return mcpError(fmt.Sprintf("filing ticket failed: %v", err)), nil
		}
		return mcpText("Support ticket filed"), nil
	}
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
