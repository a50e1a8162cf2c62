package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
)

// writeGateMessage is returned by every write tool when the caller lacks the
// edit capability. Matches the REST gate but in tool-result form: the call
// itself succeeds, the result carries isError.
const writeGateMessage = "Error: Authentication required for write operations"

// toolset builds the tool definitions and handlers for one request. The
// caller and scope live in the struct, not in any shared state.
type toolset struct {
	svc    wikisvc.Service
	caller models.Caller
	scope  string
	logger *slog.Logger
}

func (t *toolset) register(s *server.MCPServer) {
	// Cross-project discovery makes no sense once the endpoint is pinned to
	// one project, so the scoped surface drops it.
	if t.scope == "" {
		s.AddTool(t.listProjectsTool(), t.handleListProjects)
	}
	s.AddTool(t.listSectionsTool(), t.handleListSections)
	s.AddTool(t.getTreeTool(), t.handleGetTree)
	s.AddTool(t.listPagesTool(), t.handleListPages)
	s.AddTool(t.getPageTool(), t.handleGetPage)
	s.AddTool(t.searchTool(), t.handleSearch)
	s.AddTool(t.createPageTool(), t.guard(t.handleCreatePage))
	s.AddTool(t.updatePageTool(), t.guard(t.handleUpdatePage))
	s.AddTool(t.deletePageTool(), t.guard(t.handleDeletePage))
	s.AddTool(t.movePageTool(), t.guard(t.handleMovePage))
	s.AddTool(t.updateProjectTool(), t.guard(t.handleUpdateProject))
	s.AddTool(t.exportProjectTool(), t.handleExportProject)
	s.AddTool(t.importProjectTool(), t.guard(t.handleImportProject))

	t.registerResources(s)
}

// guard wraps a write tool handler with the edit-capability gate.
func (t *toolset) guard(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !t.caller.Editor {
			return mcp.NewToolResultError(writeGateMessage), nil
		}
		return h(ctx, req)
	}
}

// projectOption appends the project argument to a tool's options, except on
// the scoped endpoint where the scope supplies it and clients never see it.
func (t *toolset) projectOption(required bool, opts []mcp.ToolOption) []mcp.ToolOption {
	if t.scope != "" {
		return opts
	}
	po := []mcp.PropertyOption{mcp.Description("Project slug")}
	if required {
		po = append(po, mcp.Required())
	}
	return append(opts, mcp.WithString("project", po...))
}

// projectArg resolves the effective project for a call.
func (t *toolset) projectArg(req mcp.CallToolRequest) string {
	if t.scope != "" {
		return t.scope
	}
	return req.GetString("project", "")
}

// --- read tools ---

func (t *toolset) listProjectsTool() mcp.Tool {
	return mcp.NewTool("wiki_list_projects",
		mcp.WithDescription("List all wiki projects visible to you, with page counts."),
	)
}

func (t *toolset) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.svc.ListProjects(ctx, t.caller)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if projects == nil {
		projects = []models.ProjectInfo{}
	}
	return jsonResult(projects)
}

func (t *toolset) listSectionsTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List wiki sections. With a project, only sections holding pages in that project are returned."),
	}
	return mcp.NewTool("wiki_list_sections", t.projectOption(false, opts)...)
}

func (t *toolset) handleListSections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sections, err := t.svc.ListSections(ctx, t.caller, t.projectArg(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sections == nil {
		sections = []models.SectionInfo{}
	}
	return jsonResult(sections)
}

func (t *toolset) getTreeTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get a project's full content hierarchy: sections with nested page trees."),
	}
	return mcp.NewTool("wiki_get_tree", t.projectOption(true, opts)...)
}

func (t *toolset) handleGetTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := t.projectArg(req)
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	tree, err := t.svc.GetTree(ctx, t.caller, project)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if tree == nil {
		tree = []models.SectionTree{}
	}
	return jsonResult(tree)
}

func (t *toolset) listPagesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List wiki pages as a flat collection with optional filters."),
		mcp.WithString("section", mcp.Description("Section slug to filter by")),
		mcp.WithNumber("parent", mcp.Description("Parent page ID (0 for top-level pages)")),
		mcp.WithString("search", mcp.Description("Substring to match in title or content")),
		mcp.WithNumber("page", mcp.Description("Result page number (default 1)")),
		mcp.WithNumber("per_page", mcp.Description("Results per page (default 100)")),
	}
	return mcp.NewTool("wiki_list_pages", t.projectOption(false, opts)...)
}

func (t *toolset) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := &wikisvc.PageFilter{
		Project: t.projectArg(req),
		Section: req.GetString("section", ""),
		Search:  req.GetString("search", ""),
		Page:    intArg(req, "page", 0),
		PerPage: intArg(req, "per_page", 0),
	}
	if hasArg(req, "parent") {
		parent := int64(intArg(req, "parent", 0))
		filter.Parent = &parent
	}

	pages, err := t.svc.ListPages(ctx, t.caller, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if pages == nil {
		pages = []models.PageSummary{}
	}
	return jsonResult(pages)
}

func (t *toolset) getPageTool() mcp.Tool {
	return mcp.NewTool("wiki_get_page",
		mcp.WithDescription("Get a single wiki page with its full content."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Page ID")),
	)
}

func (t *toolset) handleGetPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(intArg(req, "id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	page, err := t.svc.GetPage(ctx, t.caller, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (t *toolset) searchTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search wiki pages by title and content. Returns up to 20 matches with contextual excerpts."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
	}
	return mcp.NewTool("wiki_search", t.projectOption(false, opts)...)
}

func (t *toolset) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := t.svc.Search(ctx, t.caller, query, t.projectArg(req))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if results == nil {
		results = []models.SearchResult{}
	}
	return jsonResult(results)
}

// --- write tools ---

func (t *toolset) createPageTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a wiki page. Project and section terms are created on first use."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("content", mcp.Description("Page content")),
		mcp.WithString("content_format", mcp.Description("Content format: html (default) or markdown")),
		mcp.WithString("section", mcp.Description("Section name or slug")),
		mcp.WithNumber("parent", mcp.Description("Parent page ID (0 for top-level)")),
		mcp.WithNumber("menu_order", mcp.Description("Sort position among siblings")),
		mcp.WithString("slug", mcp.Description("URL slug (derived from title when omitted)")),
		mcp.WithString("status", mcp.Description("Page status: publish (default) or draft")),
	}
	return mcp.NewTool("wiki_create_page", t.projectOption(false, opts)...)
}

func (t *toolset) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	createReq := &wikisvc.CreatePageRequest{
		Title:         req.GetString("title", ""),
		Content:       req.GetString("content", ""),
		ContentFormat: req.GetString("content_format", ""),
		Project:       t.projectArg(req),
		Section:       req.GetString("section", ""),
		Parent:        int64(intArg(req, "parent", 0)),
		MenuOrder:     intArg(req, "menu_order", 0),
		Slug:          req.GetString("slug", ""),
		Status:        req.GetString("status", ""),
	}

	page, err := t.svc.CreatePage(ctx, t.caller, createReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (t *toolset) updatePageTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Update fields of a wiki page. Omitted fields keep their values."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("content_format", mcp.Description("Content format: html or markdown")),
		mcp.WithString("section", mcp.Description("New section name or slug")),
		mcp.WithNumber("parent", mcp.Description("New parent page ID")),
		mcp.WithNumber("menu_order", mcp.Description("New sort position")),
		mcp.WithString("status", mcp.Description("New status: publish or draft")),
	}
	return mcp.NewTool("wiki_update_page", t.projectOption(false, opts)...)
}

func (t *toolset) handleUpdatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(intArg(req, "id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	updateReq := &wikisvc.UpdatePageRequest{}
	if hasArg(req, "title") {
		v := req.GetString("title", "")
		updateReq.Title = &v
	}
	if hasArg(req, "content") {
		v := req.GetString("content", "")
		updateReq.Content = &v
	}
	if hasArg(req, "content_format") {
		v := req.GetString("content_format", "")
		updateReq.ContentFormat = &v
	}
	if hasArg(req, "section") {
		v := req.GetString("section", "")
		updateReq.Section = &v
	}
	if t.scope == "" && hasArg(req, "project") {
		v := req.GetString("project", "")
		updateReq.Project = &v
	}
	if hasArg(req, "parent") {
		v := int64(intArg(req, "parent", 0))
		updateReq.Parent = &v
	}
	if hasArg(req, "menu_order") {
		v := intArg(req, "menu_order", 0)
		updateReq.MenuOrder = &v
	}
	if hasArg(req, "status") {
		v := req.GetString("status", "")
		updateReq.Status = &v
	}

	page, err := t.svc.UpdatePage(ctx, t.caller, id, updateReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (t *toolset) deletePageTool() mcp.Tool {
	return mcp.NewTool("wiki_delete_page",
		mcp.WithDescription("Permanently delete a wiki page."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Page ID")),
	)
}

func (t *toolset) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(intArg(req, "id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	if err := t.svc.DeletePage(ctx, t.caller, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %d deleted", id)), nil
}

func (t *toolset) movePageTool() mcp.Tool {
	return mcp.NewTool("wiki_move_page",
		mcp.WithDescription("Move a wiki page to a new parent or position. Moving under a descendant is rejected."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Page ID")),
		mcp.WithNumber("parent", mcp.Description("New parent page ID (0 for top-level)")),
		mcp.WithNumber("menu_order", mcp.Description("New sort position among siblings")),
	)
}

func (t *toolset) handleMovePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := int64(intArg(req, "id", 0))
	if id <= 0 {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	moveReq := &wikisvc.MovePageRequest{}
	if hasArg(req, "parent") {
		v := int64(intArg(req, "parent", 0))
		moveReq.Parent = &v
	}
	if hasArg(req, "menu_order") {
		v := intArg(req, "menu_order", 0)
		moveReq.MenuOrder = &v
	}

	page, err := t.svc.MovePage(ctx, t.caller, id, moveReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (t *toolset) updateProjectTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Rename a wiki project or change its visibility."),
		mcp.WithString("name", mcp.Description("New display name")),
		mcp.WithBoolean("public", mcp.Description("Whether the project is publicly visible")),
	}
	return mcp.NewTool("wiki_update_project", t.projectOption(true, opts)...)
}

func (t *toolset) handleUpdateProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := t.projectArg(req)
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	updateReq := &wikisvc.UpdateProjectRequest{}
	if hasArg(req, "name") {
		v := req.GetString("name", "")
		updateReq.Name = &v
	}
	if hasArg(req, "public") {
		v := boolArg(req, "public", true)
		updateReq.Public = &v
	}

	info, err := t.svc.UpdateProject(ctx, t.caller, project, updateReq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(info)
}

// --- export / import ---

func (t *toolset) exportProjectTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Export a project's full content as a portable JSON document."),
	}
	return mcp.NewTool("wiki_export_project", t.projectOption(true, opts)...)
}

func (t *toolset) handleExportProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := t.projectArg(req)
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	doc, err := t.svc.ExportProject(ctx, t.caller, project)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(doc)
}

func (t *toolset) importProjectTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Import an export document into a project. Mode 'replace' clears existing pages first; 'merge' adds alongside them."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Export document as a JSON string")),
		mcp.WithString("mode", mcp.Description("Import mode: replace (default) or merge")),
	}
	return mcp.NewTool("wiki_import_project", t.projectOption(true, opts)...)
}

func (t *toolset) handleImportProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := t.projectArg(req)
	if project == "" {
		return mcp.NewToolResultError("'project' is required"), nil
	}

	raw := req.GetString("document", "")
	if raw == "" {
		return mcp.NewToolResultError("'document' is required"), nil
	}

	var doc models.ExportDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mcp.NewToolResultError("invalid document JSON: " + err.Error()), nil
	}
	doc.Project.Slug = project

	result, err := t.svc.ImportProject(ctx, t.caller, &doc, req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}
