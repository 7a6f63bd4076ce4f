package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/everyfind/internal/config"
	amerrors "github.com/Aman-CERP/everyfind/internal/errors"
	"github.com/Aman-CERP/everyfind/internal/menu"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
	"github.com/Aman-CERP/everyfind/pkg/version"
)

// Tool names.
const (
	ToolFindFiles   = "find_files"
	ToolFileActions = "file_actions"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Backend is the plugin surface the MCP server needs. *plugin.Plugin
// satisfies it.
type Backend interface {
	Query(ctx context.Context, text string) []result.Result
	LoadContextMenus(selected result.Result) []menu.Item
	Settings() *config.Settings
	Metrics() *telemetry.QueryMetrics
	ProviderName() string
	ProviderReady() bool
}

// Server is the MCP server for everyfind. It lets AI clients search the
// file index and inspect the actions available for a path.
type Server struct {
	mcp     *mcp.Server
	backend Backend
	logger  *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

var tools = []ToolInfo{
	{
		Name:        ToolFindFiles,
		Description: "Finds files and folders by name or path fragment using the machine-wide file index. Returns matches in relevance order with their absolute paths.",
	},
	{
		Name:        ToolFileActions,
		Description: "Lists the context menu actions available for a file or folder (open containing folder, open with editor, custom commands, copy, delete). Read-only: nothing is executed.",
	},
}

// NewServer creates a new MCP server backed by b.
func NewServer(b Backend, opts ...Option) (*Server, error) {
	if b == nil {
		return nil, errors.New("backend is required")
	}

	s := &Server{
		backend: b,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    version.Name,
			Version: version.Version,
		},
		nil,
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// ListTools returns the tools the server registers.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(tools))
	copy(out, tools)
	return out
}

// CallTool invokes a tool by name with loosely typed arguments, as decoded
// from a JSON object.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case ToolFindFiles:
		var in FindFilesInput
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.findFiles(ctx, in)
	case ToolFileActions:
		var in FileActionsInput
		if err := decodeArgs(args, &in); err != nil {
			return nil, err
		}
		return s.fileActions(ctx, in)
	default:
		return nil, NewMethodNotFoundError(name)
	}
}

func decodeArgs(args map[string]any, v any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return NewInvalidParamsError(err.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return NewInvalidParamsError(err.Error())
	}
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolFindFiles,
		Description: tools[0].Description,
	}, s.mcpFindFilesHandler)
	s.logger.Debug("Registered tool", slog.String("name", ToolFindFiles))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolFileActions,
		Description: tools[1].Description,
	}, s.mcpFileActionsHandler)
	s.logger.Debug("Registered tool", slog.String("name", ToolFileActions))

	s.logger.Info("MCP tools registered", slog.Int("count", len(tools)))
}

func (s *Server) mcpFindFilesHandler(ctx context.Context, _ *mcp.CallToolRequest, input FindFilesInput) (
	*mcp.CallToolResult,
	FindFilesOutput,
	error,
) {
	out, err := s.findFiles(ctx, input)
	if err != nil {
		return nil, FindFilesOutput{}, err
	}
	return textResult(FormatFindResults(input.Query, out.Results)), out, nil
}

func (s *Server) mcpFileActionsHandler(ctx context.Context, _ *mcp.CallToolRequest, input FileActionsInput) (
	*mcp.CallToolResult,
	FileActionsOutput,
	error,
) {
	out, err := s.fileActions(ctx, input)
	if err != nil {
		return nil, FileActionsOutput{}, err
	}
	return textResult(FormatActions(out)), out, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func (s *Server) findFiles(ctx context.Context, in FindFilesInput) (FindFilesOutput, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return FindFilesOutput{}, NewInvalidParamsError("query parameter is required")
	}
	limit := clampLimit(in.Limit, defaultLimit, 1, maxLimit)

	requestID := generateRequestID()
	s.logger.Info("find_files started",
		slog.String("request_id", requestID),
		slog.String("query", query),
		slog.Int("limit", limit))

	rows := s.backend.Query(ctx, query)
	if err := ctx.Err(); err != nil {
		return FindFilesOutput{}, MapError(err)
	}

	out := FindFilesOutput{Results: make([]FileResult, 0, min(len(rows), limit))}
	for _, r := range rows {
		m, ok := r.Source()
		if !ok {
			err := rowError(r)
			s.logger.Warn("find_files failed",
				slog.String("request_id", requestID),
				slog.String("error", err.Error()))
			return FindFilesOutput{}, MapError(err)
		}
		if len(out.Results) == limit {
			break
		}
		out.Results = append(out.Results, FileResult{
			Name:  m.Name,
			Path:  m.FullPath,
			Kind:  m.Kind.String(),
			Score: r.Score,
		})
	}

	s.logger.Info("find_files completed",
		slog.String("request_id", requestID),
		slog.Int("result_count", len(out.Results)))
	return out, nil
}

// rowError recovers the failure an informational row stands for.
func rowError(r result.Result) error {
	if r.Icon == result.IconWarning {
		return amerrors.New(amerrors.ErrCodeProviderUnavailable, r.Title, nil).
			WithSuggestion("Start the search engine and try again.")
	}
	msg := r.Subtitle
	if msg == "" {
		msg = r.Title
	}
	return amerrors.New(amerrors.ErrCodeProviderFault, msg, nil)
}

func (s *Server) fileActions(_ context.Context, in FileActionsInput) (FileActionsOutput, error) {
	path := strings.TrimSpace(in.Path)
	if path == "" {
		return FileActionsOutput{}, NewInvalidParamsError("path parameter is required")
	}

	kind := provider.KindFile
	if in.Kind != "" {
		k, err := provider.ParseKind(in.Kind)
		if err != nil {
			return FileActionsOutput{}, NewInvalidParamsError(err.Error())
		}
		kind = k
	}

	row := result.ForPath(path, kind)
	items := s.backend.LoadContextMenus(row)
	out := FileActionsOutput{Path: path, Actions: make([]ActionInfo, 0, len(items))}
	for i, it := range items {
		out.Actions = append(out.Actions, ActionInfo{
			Index:   i,
			Title:   it.Title,
			Kind:    string(it.Action.Kind),
			Command: it.Action.Command,
		})
	}
	return out, nil
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("Starting MCP server",
		slog.String("transport", transport),
		slog.String("provider", s.backend.ProviderName()),
		slog.Bool("provider_ready", s.backend.ProviderReady()))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error",
				slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

// clampLimit returns def for a non-positive value and otherwise bounds value
// to [lo, hi].
func clampLimit(value, def, lo, hi int) int {
	if value <= 0 {
		return def
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// generateRequestID creates a short unique request ID for log correlation.
func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
