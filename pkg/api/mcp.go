package api

import (
	"log/slog"

	"github.com/hazyhaar/dpr-registry/pkg/kit"
	"github.com/hazyhaar/dpr-registry/pkg/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the directory MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, engine *search.Engine, logger *slog.Logger) {
	registerSearchMembers(srv, engine, logger)
	registerMemberStats(srv, engine, logger)
}

func registerSearchMembers(srv *server.MCPServer, engine *search.Engine, logger *slog.Logger) {
	tool := mcp.NewTool("search_members",
		mcp.WithDescription("Search members of the Indonesian House of Representatives (DPR) by name, faction, party or electoral district. Name matches rank first, then faction matches."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Substring to look for, case-insensitive")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of members to return (default 25, capped at 100; the response reports the limit applied)")),
	)

	kit.RegisterMCPTool(srv, tool, kit.Logging(logger, "search")(searchEndpoint(engine)),
		func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			args := req.GetArguments()
			query, _ := args["query"].(string)
			limit, _ := args["limit"].(float64)
			return &kit.MCPDecodeResult{Request: &searchReq{Query: query, Limit: int(limit)}}, nil
		})
}

func registerMemberStats(srv *server.MCPServer, engine *search.Engine, logger *slog.Logger) {
	tool := mcp.NewTool("member_stats",
		mcp.WithDescription("Total number of DPR members with the ten largest factions and parties."),
	)

	kit.RegisterMCPTool(srv, tool, kit.Logging(logger, "stats")(statsEndpoint(engine)),
		func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
			return &kit.MCPDecodeResult{Request: nil}, nil
		})
}
