package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sammcj/mcp-time-server/config"
)

// SessionConfigFromRequest reads the session configuration carried by an HTTP request.
//
// Clients pass either a base64 encoded JSON object in the "config" query
// parameter or the plain "timezone" parameter; "timezone" wins when both are
// set. Anything missing is taken from base.
func SessionConfigFromRequest(r *http.Request, base config.SessionConfig) (config.SessionConfig, error) {
	query := r.URL.Query()
	cfg := base

	if encoded := query.Get("config"); encoded != "" {
		data, err := decodeBase64(encoded)
		if err != nil {
			return base, fmt.Errorf("failed to decode config parameter: %w", err)
		}
		cfg, err = config.ParseSessionConfig(data, base)
		if err != nil {
			return base, err
		}
	}

	if values, ok := query["timezone"]; ok && len(values) > 0 {
		cfg.Timezone = values[0]
	}

	return cfg, nil
}

// decodeBase64 accepts standard and URL alphabets, padded or not. Query
// decoding turns an unescaped '+' into a space, so spaces are read back as '+'.
func decodeBase64(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.TrimRight(s, "=")
	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// httpContextFunc attaches the request's session configuration to ctx
func (s *MCPServer) httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	cfg, err := SessionConfigFromRequest(r, s.defaults)
	if err != nil {
		s.logger.Printf("Ignoring session config from %s: %v", r.RemoteAddr, err)
	}
	return config.WithSession(ctx, cfg)
}

// HTTPHandler returns a stateless streamable HTTP handler serving this server.
// Each request carries its own session configuration in the query string.
func (s *MCPServer) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.server,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(s.httpContextFunc),
	)
}
