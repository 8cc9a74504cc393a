package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sammcj/mcp-time-server/config"
	"github.com/sammcj/mcp-time-server/mcpserver"
	"github.com/sammcj/mcp-time-server/types"
)

// Server hosts the MCP streamable HTTP endpoint alongside a health check
type Server struct {
	cfg    *config.Config
	mcp    *mcpserver.MCPServer
	srv    *http.Server
	logger *log.Logger
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Timezone string `json:"timezone"`
}

// New creates a new server instance
func New(cfg *config.Config, mcp *mcpserver.MCPServer, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		mcp:    mcp,
		logger: logger,
	}

	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes served by the HTTP transport
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Server.Endpoint, s.mcp.HTTPHandler())
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens and serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Printf("Starting server on %s (MCP endpoint %s)", s.srv.Addr, s.cfg.Server.Endpoint)
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return &types.TransportError{Transport: config.TransportHTTP, Message: "server error", Err: err}
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close closes the MCP server. Call it after Shutdown has drained requests.
func (s *Server) Close() error {
	if err := s.mcp.Close(); err != nil {
		return fmt.Errorf("mcp server shutdown error: %w", err)
	}
	return nil
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:   "ok",
		Name:     mcpserver.Name,
		Version:  mcpserver.Version,
		Timezone: s.cfg.Timezone,
	})
}
