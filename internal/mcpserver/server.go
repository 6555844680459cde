// Package mcpserver exposes the search engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bethropolis/code-searcher/internal/elaborate"
	"github.com/bethropolis/code-searcher/internal/output"
	"github.com/bethropolis/code-searcher/internal/scanner"
	"github.com/bethropolis/code-searcher/internal/search"
	"github.com/bethropolis/code-searcher/internal/utils"
)

// Server wires the scan-and-search engine and the elaborator into an MCP
// server. Tool errors are reported to the client; nothing here exits the
// process.
type Server struct {
	mcp      *server.MCPServer
	analyzer *elaborate.Analyzer
	log      utils.Logger
}

// New builds the server and registers its tools. analyzer may be nil, in
// which case elaborate_finding reports that elaboration is unavailable.
func New(version string, analyzer *elaborate.Analyzer, log utils.Logger) *Server {
	if log == nil {
		log = utils.NopLogger{}
	}
	s := &Server{
		mcp:      server.NewMCPServer("code-searcher", version, server.WithToolCapabilities(false)),
		analyzer: analyzer,
		log:      log,
	}

	s.mcp.AddTool(mcp.NewTool("search_codebase",
		mcp.WithDescription("Search the codebase for specific text or regex patterns to find implementations or context."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("The search string or regex pattern.")),
		mcp.WithArray("paths",
			mcp.Description("Directories or files to search within. Defaults to the current directory."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("is_case_sensitive",
			mcp.Description("Whether the search is case sensitive.")),
		mcp.WithBoolean("is_regex",
			mcp.Description("Whether the query is a regular expression.")),
		mcp.WithNumber("context_lines",
			mcp.Description("Lines of context to include before and after each match.")),
		mcp.WithBoolean("include_hidden",
			mcp.Description("Include hidden files and directories (starting with '.').")),
	), s.handleSearchCodebase)

	s.mcp.AddTool(mcp.NewTool("elaborate_finding",
		mcp.WithDescription("Elaborate on what a specific search finding does based on its broader file context."),
		mcp.WithString("file_path", mcp.Required(),
			mcp.Description("Path to the file containing the finding.")),
		mcp.WithNumber("line_number", mcp.Required(),
			mcp.Description("1-based line number of the finding.")),
		mcp.WithString("snippet", mcp.Required(),
			mcp.Description("The snippet that matched the query.")),
		mcp.WithNumber("context_window_lines",
			mcp.Description("Lines of broader file context to consider.")),
	), s.handleElaborateFinding)

	return s
}

// ServeStdio runs the server over stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleSearchCodebase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	paths := req.GetStringSlice("paths", []string{"."})
	contextLines := req.GetInt("context_lines", 3)

	sc := scanner.New(scanner.Config{
		ExcludeDotItems: !req.GetBool("include_hidden", false),
	}, scanner.WithLogger(s.log))

	files, validPaths := sc.Collect(ctx, paths)
	if validPaths == 0 {
		return mcp.NewToolResultError("no valid search paths provided"), nil
	}

	searcher, err := search.New(query, search.Options{
		Regex:         req.GetBool("is_regex", false),
		CaseSensitive: req.GetBool("is_case_sensitive", false),
		ContextLines:  contextLines,
	}, search.WithLogger(s.log))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := searcher.Search(ctx, files)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search aborted: %v", err)), nil
	}

	data, err := json.MarshalIndent(output.Findings(matches), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleElaborateFinding(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.analyzer == nil {
		return mcp.NewToolResultError("elaboration is unavailable: no API key configured"), nil
	}
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lineNumber, err := req.RequireInt("line_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snippet, err := req.RequireString("snippet")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	window := req.GetInt("context_window_lines", elaborate.DefaultContextWindow)

	var fullContent string
	if _, statErr := os.Stat(filePath); statErr == nil {
		if content, readErr := search.ReadFile(filePath); readErr == nil {
			fullContent = content
		} else {
			s.log.Warn("elaborate_finding: could not read %s: %v", filePath, readErr)
		}
	}

	m := search.Match{FilePath: filePath, LineNumber: lineNumber, Snippet: snippet}
	elaboration, err := s.analyzer.ElaborateOnMatch(ctx, m, fullContent, window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to elaborate finding: %v", err)), nil
	}
	return mcp.NewToolResultText(elaboration), nil
}
