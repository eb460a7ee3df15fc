// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Sowilo tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sowilo/internal/learnservice"
	"github.com/starford/sowilo/internal/models"
	"github.com/starford/sowilo/internal/search"
	"github.com/starford/sowilo/internal/storage"
)

// Server wraps the MCP server with Sowilo tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *learnservice.Service
	index *search.Index
	store storage.Provider
}

// New creates a new MCP server with all Sowilo tools registered.
func New(svc *learnservice.Service, index *search.Index, store storage.Provider) *Server {
	s := &Server{svc: svc, index: index, store: store}

	s.mcp = server.NewMCPServer(
		"Sowilo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_content",
		mcp.WithDescription("Fuzzy search across articles and concepts by title, tags, level and description."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("kind", mcp.Description("Optional filter: article or concept")),
	), s.searchContent)

	s.mcp.AddTool(mcp.NewTool("read_content",
		mcp.WithDescription("Read the full Markdown source of an article or concept."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Content slug (e.g. concepts/goroutines)")),
	), s.readContent)

	s.mcp.AddTool(mcp.NewTool("list_content",
		mcp.WithDescription("List catalog items, optionally filtered by kind or tag."),
		mcp.WithString("kind", mcp.Description("Optional filter: article or concept")),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
	), s.listContent)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get the learner's gamification stats: XP, level, streaks and unlocked badges."),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("record_activity",
		mcp.WithDescription("Record a learning activity. Recording is idempotent per slug."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Activity kind: article, concept or path")),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Content slug, or path id for kind=path")),
	), s.recordActivity)

	s.mcp.AddTool(mcp.NewTool("list_paths",
		mcp.WithDescription("List learning path definitions with their steps and prerequisites."),
	), s.listPaths)

	s.mcp.AddTool(mcp.NewTool("get_path_progress",
		mcp.WithDescription("Get derived progress for a learning path, including the next unsatisfied step."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Learning path id")),
	), s.getPathProgress)

	s.mcp.AddTool(mcp.NewTool("get_content_contract",
		mcp.WithDescription("Returns the canonical Sowilo content format contract for authors."),
	), s.getContentContract)

	// Resource: content format contract.
	s.mcp.AddResource(
		mcp.NewResource("sowilo://content-format", "Content Format Contract",
			mcp.WithResourceDescription("Canonical Markdown content format for articles and concepts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContentFormatResource,
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

func (s *Server) searchContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var f search.Filters
	if kind, kerr := req.RequireString("kind"); kerr == nil {
		f.Kind = models.ContentKind(kind)
		if f.Kind != "" && !f.Kind.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", kind)), nil
		}
	}
	results := s.index.Query(query, f)
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(slug + ".md")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kind models.ContentKind
	if k, err := req.RequireString("kind"); err == nil {
		kind = models.ContentKind(k)
		if kind != "" && !kind.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown kind: %s", k)), nil
		}
	}
	tag := ""
	if t, err := req.RequireString("tag"); err == nil {
		tag = t
	}

	items, _, err := s.svc.ListContent(ctx, kind, tag, 0, 0, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", item.Slug, item.Kind, item.Title))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no content found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := map[string]any{
		"stats":  s.svc.Stats(ctx),
		"level":  s.svc.LevelProgress(ctx),
		"badges": s.svc.Badges(ctx),
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) recordActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := req.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch kind {
	case "article":
		err = s.svc.RecordArticleRead(ctx, slug)
	case "concept":
		err = s.svc.RecordConceptMastered(ctx, slug)
	case "path":
		err = s.svc.RecordPathCompleted(ctx, slug)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown activity kind: %s", kind)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("recorded: %s %s", kind, slug)), nil
}

func (s *Server) listPaths(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Paths(ctx), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPathProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.PathProgress(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	next, err := s.svc.PathNextStep(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	met, err := s.svc.PathPrerequisitesMet(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{
		"progress":          res,
		"prerequisites_met": met,
	}
	if next != nil {
		payload["next_step"] = next
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getContentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sowilo://content-format",
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
