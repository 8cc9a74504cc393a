package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sammcj/mcp-time-server/audit"
	"github.com/sammcj/mcp-time-server/clock"
	"github.com/sammcj/mcp-time-server/config"
)

const (
	// Name is the server name reported during initialization
	Name = "Time Server"

	// ToolName is the name of the time tool
	ToolName = "get_current_time"
)

// Version is reported during initialization; overridden at build time
var Version = "1.0.0"

// MCPServer exposes the time tool and timezone catalog over MCP
type MCPServer struct {
	server   *server.MCPServer
	defaults config.SessionConfig
	clock    clock.Clock
	recorder audit.Recorder
	logger   *log.Logger
	debug    bool
}

// Option configures an MCPServer
type Option func(*MCPServer)

// WithClock replaces the system clock
func WithClock(c clock.Clock) Option {
	return func(s *MCPServer) { s.clock = c }
}

// WithRecorder records every tool call to r
func WithRecorder(r audit.Recorder) Option {
	return func(s *MCPServer) { s.recorder = r }
}

// WithDebug enables per-call debug logging
func WithDebug(debug bool) Option {
	return func(s *MCPServer) { s.debug = debug }
}

// NewMCPServer creates the server. defaults applies to sessions that supply no configuration.
func NewMCPServer(defaults config.SessionConfig, logger *log.Logger, opts ...Option) *MCPServer {
	s := &MCPServer{
		defaults: defaults,
		clock:    clock.SystemClock{},
		recorder: audit.Nop{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	hooks := &server.Hooks{}
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		s.logger.Printf("Request %v (%s) failed: %v", id, method, err)
	})

	s.server = server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithHooks(hooks),
		server.WithLogging(),
	)

	s.server.AddTool(CurrentTimeTool(), s.handleCurrentTime)
	s.server.AddResource(TimezoneInfoResource(), s.handleTimezoneInfo)

	s.server.AddNotificationHandler("notifications/initialized", s.handleNotification)

	logger.Printf("MCP server created with tool %s and resource %s (default timezone %q)",
		ToolName, clock.InfoURI, defaults.Timezone)
	return s
}

// CurrentTimeTool describes get_current_time. It takes no arguments.
func CurrentTimeTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Get the current time in the configured timezone."),
		mcp.WithTitleAnnotation("Current time"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// TimezoneInfoResource describes the timezone catalog resource
func TimezoneInfoResource() mcp.Resource {
	return mcp.NewResource(clock.InfoURI, "timezone_info",
		mcp.WithResourceDescription("Information about common timezones."),
		mcp.WithMIMEType("text/plain"),
	)
}

// Session returns the session configuration for ctx, falling back to the server default
func (s *MCPServer) Session(ctx context.Context) config.SessionConfig {
	if cfg, ok := config.SessionFromContext(ctx); ok {
		return cfg
	}
	return s.defaults
}

func (s *MCPServer) handleCurrentTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.Session(ctx)
	now := s.clock.Now()

	text, err := clock.Report(clock.Fixed(now), cfg)
	if err != nil {
		s.logger.Printf("Rejected timezone: %v", err)
	} else if s.debug {
		s.logger.Printf("%s in %q: %q", ToolName, cfg.Timezone, text)
	}

	inv := audit.Invocation{
		Timezone:  cfg.Timezone,
		Success:   err == nil,
		Result:    text,
		InvokedAt: now,
	}
	if err := s.recorder.Record(ctx, inv); err != nil {
		s.logger.Printf("Failed to record invocation: %v", err)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *MCPServer) handleTimezoneInfo(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      clock.InfoURI,
			MIMEType: "text/plain",
			Text:     clock.TimezoneInfo(),
		},
	}, nil
}

func (s *MCPServer) handleNotification(ctx context.Context, notification mcp.JSONRPCNotification) {
	if s.debug {
		s.logger.Printf("Received notification: %s", notification.Method)
	}
}

// Server returns the underlying mcp-go server for transports
func (s *MCPServer) Server() *server.MCPServer {
	return s.server
}

// Serve runs the stdio transport on in and out until ctx is cancelled or in is exhausted.
// Every request is served with the default session configuration.
func (s *MCPServer) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Println("Starting MCP server on stdio...")

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(s.logger)
	stdio.SetContextFunc(func(ctx context.Context) context.Context {
		return config.WithSession(ctx, s.defaults)
	})

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		s.logger.Printf("Server error: %v", err)
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Println("MCP server stopped")
	return nil
}

// Close releases the audit store
func (s *MCPServer) Close() error {
	s.logger.Println("Closing MCP server...")
	if err := s.recorder.Close(); err != nil {
		s.logger.Printf("Failed to close audit store: %v", err)
		return fmt.Errorf("failed to close audit store: %w", err)
	}
	s.logger.Println("MCP server closed")
	return nil
}
