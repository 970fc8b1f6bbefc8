package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/smolbox"
	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/aretw0/smolbox/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource exposing the current Record.
const StateURI = "smolbox://state"

// Server wraps the engine and exposes it as an MCP Server.
// Tool calls are serialized: the engine assumes a single writer.
type Server struct {
	engine    ports.Engine
	mu        sync.Mutex
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("smolbox-mcp", strings.TrimSpace(smolbox.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	keyDesc := "One of: model_path, output_model_path, dataset_path, output_dataset_path"

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Return the current pipeline Record."),
	), s.handleGetState)

	s.mcpServer.AddTool(mcp.NewTool("get_key",
		mcp.WithDescription("Return the value stored under a key, or null."),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
	), s.handleGetKey)

	s.mcpServer.AddTool(mcp.NewTool("set_key",
		mcp.WithDescription("Store a path under a key."),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
		mcp.WithString("value", mcp.Required(), mcp.Description("Path to store")),
	), s.handleSetKey)

	s.mcpServer.AddTool(mcp.NewTool("resolve_key",
		mcp.WithDescription("Resolve the path to read from (write=false) or write to (write=true). "+
			"Omit value or pass <AUTO> to look it up, or allocate a fresh output directory."),
		mcp.WithString("key", mcp.Required(), mcp.Description(keyDesc)),
		mcp.WithString("value", mcp.Description("Explicit path, or <AUTO> (default)")),
		mcp.WithBoolean("write", mcp.Description("Resolve in output role")),
	), s.handleResolve)

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Finish the current stage: outputs become the next stage's inputs."),
	), s.handleAdvance)

	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the entries of the models directory."),
	), s.handleListModels)
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.engine.Current(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read state: %v", err)), nil
	}
	return jsonResult(rec)
}

func (s *Server) handleGetKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Get(ctx, domain.Key(key))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.HasWarnings() {
		return mcp.NewToolResultError(res.Warnings[0].Error()), nil
	}
	return jsonResult(res.Value)
}

func (s *Server) handleSetKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Set(ctx, domain.Key(key), value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.HasWarnings() {
		return mcp.NewToolResultError(res.Warnings[0].Error()), nil
	}
	return mcp.NewToolResultText(value), nil
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value := domain.ParseValue(request.GetString("value", domain.AutoResolve))
	write := request.GetBool("write", false)

	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.engine.Resolve(ctx, domain.Key(key), value, write)
	if err != nil {
		slog.Warn("MCP Resolve failed", "key", key, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resolved), nil
}

func (s *Server) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.engine.Advance(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("advance failed: %v", err)), nil
	}
	return jsonResult(rec)
}

func (s *Server) handleListModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	models, err := s.engine.ListModels(ctx)
	if errors.Is(err, domain.ErrNoModelsDir) {
		return mcp.NewToolResultText("[]"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(models)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current Pipeline State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, err := s.engine.Current(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read state: %w", err)
		}
		jsonBytes, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
