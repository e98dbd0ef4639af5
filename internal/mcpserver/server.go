package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/amishk599/codedesc/internal/index"
	"github.com/amishk599/codedesc/internal/model"
)

const defaultListLimit = 50

// DescribeFileArgs are the arguments of the describe_file tool.
// A nil Content means the file is read from disk; an empty one is described as is.
type DescribeFileArgs struct {
	Path    string  `json:"path"`
	Content *string `json:"content,omitempty"`
}

// GetDescriptionArgs are the arguments of the get_description tool.
type GetDescriptionArgs struct {
	Path string `json:"path"`
}

// ListDescriptionsArgs are the arguments of the list_descriptions tool.
type ListDescriptionsArgs struct {
	Limit int `json:"limit,omitempty"`
}

// FileDescription is the JSON shape returned by every tool.
type FileDescription struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	Provider    string `json:"provider,omitempty"`
	Size        int64  `json:"size,omitempty"`
	DescribedAt string `json:"described_at,omitempty"`
}

type toolHandler = server.ToolHandlerFunc

// Server exposes the describer and the index over MCP.
type Server struct {
	describer index.FileDescriber
	store     model.EntryStore
	logger    *slog.Logger
	version   string
}

// New creates a Server. logger may be nil.
func New(describer index.FileDescriber, store model.EntryStore, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		describer: describer,
		store:     store,
		logger:    logger,
		version:   version,
	}
}

// MCPServer builds the mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("codedesc", s.version)

	describeTool := mcp.NewTool("describe_file",
		mcp.WithDescription("Generate a one-line description of a source file and the files it references"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file to describe")),
		mcp.WithString("content",
			mcp.Description("File content. When omitted the file is read from disk; an empty string is described as empty")),
	)
	srv.AddTool(describeTool, s.describeFileHandler())

	getTool := mcp.NewTool("get_description",
		mcp.WithDescription("Look up the stored description of an indexed file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the file, relative to the indexed root")),
	)
	srv.AddTool(getTool, s.getDescriptionHandler())

	listTool := mcp.NewTool("list_descriptions",
		mcp.WithDescription("List indexed files with their descriptions"),
		mcp.WithNumber("limit",
			mcp.Description("Max entries to return (default: 50)")),
	)
	srv.AddTool(listTool, s.listDescriptionsHandler())

	return srv
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving mcp over stdio", "version", s.version)
	return server.ServeStdio(s.MCPServer())
}

func decodeArgs(request mcp.CallToolRequest, v any) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) describeFileHandler() toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DescribeFileArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		var content string
		if args.Content != nil {
			content = *args.Content
		} else {
			data, err := os.ReadFile(args.Path)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("reading file: %v", err)), nil
			}
			content = string(data)
		}

		out := s.describer.DescribeOutcome(ctx, args.Path, content)
		return jsonResult(FileDescription{
			Path:        args.Path,
			Description: out.Text,
			Provider:    out.Provider,
			Size:        int64(len(content)),
		})
	}
}

func (s *Server) getDescriptionHandler() toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetDescriptionArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		entry, found, err := s.store.Get(args.Path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
		}
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("%s is not indexed", args.Path)), nil
		}
		return jsonResult(toFileDescription(entry))
	}
}

func (s *Server) listDescriptionsHandler() toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListDescriptionsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit <= 0 {
			limit = defaultListLimit
		}

		entries, err := s.store.List(time.Time{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}
		if len(entries) > limit {
			entries = entries[:limit]
		}

		files := make([]FileDescription, 0, len(entries))
		for _, e := range entries {
			files = append(files, toFileDescription(e))
		}
		return jsonResult(map[string]any{"files": files})
	}
}

func toFileDescription(e model.Entry) FileDescription {
	fd := FileDescription{
		Path:        e.Path,
		Description: e.Description,
		Provider:    e.Provider,
		Size:        e.Size,
	}
	if !e.DescribedAt.IsZero() {
		fd.DescribedAt = e.DescribedAt.UTC().Format(time.RFC3339)
	}
	return fd
}
