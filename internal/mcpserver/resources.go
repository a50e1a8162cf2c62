package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	models "wikipress/internal/domain/models/wiki"
)

// registerResources exposes read-only browse surfaces alongside the tools:
// the project list and per-project trees addressable by URI.
func (t *toolset) registerResources(s *server.MCPServer) {
	s.AddResource(
		mcp.NewResource(
			"wiki://projects",
			"Wiki Projects",
			mcp.WithResourceDescription("All wiki projects visible to you"),
			mcp.WithMIMEType("application/json"),
		),
		t.readProjects,
	)

	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"wiki://project/{slug}",
			"Project Tree",
			mcp.WithTemplateDescription("A project's section and page hierarchy"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		t.readProjectTree,
	)
}

func (t *toolset) readProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	projects, err := t.svc.ListProjects(ctx, t.caller)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.ProjectInfo{}
	}
	return jsonContents(req.Params.URI, projects)
}

func (t *toolset) readProjectTree(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	slug := strings.TrimPrefix(req.Params.URI, "wiki://project/")
	if t.scope != "" {
		slug = t.scope
	}

	tree, err := t.svc.GetTree(ctx, t.caller, slug)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, tree)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
