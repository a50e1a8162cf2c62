// Package mcpserver exposes the wiki as Model Context Protocol tools over
// streamable HTTP. Two endpoints share one implementation: the general
// endpoint surfaces every tool with an explicit project argument, and the
// project-scoped endpoint pins all tools to one project and drops the
// argument from their schemas.
package mcpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/httputil"
)

// Facade serves MCP tool calls backed by the wiki service.
type Facade struct {
	svc     wikisvc.Service
	version string
	logger  *slog.Logger
}

// NewFacade creates the MCP façade.
func NewFacade(svc wikisvc.Service, version string, logger *slog.Logger) *Facade {
	return &Facade{
		svc:     svc,
		version: version,
		logger:  logger,
	}
}

// ServeHTTP handles a streamable HTTP MCP request. The tool set is built per
// request: the caller and the optional project scope are captured in the
// handler closures, so no request state outlives the request.
func (f *Facade) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope := r.PathValue("project")
	if scope != "" {
		exists, err := f.svc.ProjectExists(r.Context(), scope)
		if err != nil {
			f.logger.Error("project scope check failed", "project", scope, "error", err)
			writeRPCError(w, r, -32603, "Internal error")
			return
		}
		if !exists {
			writeRPCError(w, r, -32602, "Project not found: "+scope)
			return
		}
	}

	caller := httputil.CallerFrom(r.Context())
	s := f.buildServer(caller, scope)

	transport := server.NewStreamableHTTPServer(s, server.WithStateLess(true))
	transport.ServeHTTP(w, r)
}

// buildServer assembles an MCP server whose tools operate as the given caller
// within the given project scope (empty scope = all projects).
func (f *Facade) buildServer(caller models.Caller, scope string) *server.MCPServer {
	name := "wikipress"
	if scope != "" {
		name += "/" + scope
	}

	s := server.NewMCPServer(
		name,
		f.version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
	)

	ts := &toolset{
		svc:    f.svc,
		caller: caller,
		scope:  scope,
		logger: f.logger,
	}
	ts.register(s)

	return s
}

// writeRPCError rejects a request before it reaches the MCP server, echoing
// the request's id in a bare JSON-RPC error envelope.
func writeRPCError(w http.ResponseWriter, r *http.Request, code int, message string) {
	var probe struct {
		ID any `json:"id"`
	}
	if body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)); err == nil {
		json.Unmarshal(body, &probe)
	}

	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      probe.ID,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
