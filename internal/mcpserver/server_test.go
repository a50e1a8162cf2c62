package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/repository/memory"
	serviceWiki "wikipress/internal/service/wiki"
)

var editor = models.Caller{Editor: true, Subject: "test"}

func newTestFacade(t *testing.T) (*Facade, wikisvc.Service) {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := serviceWiki.NewService(store.Pages(), store.Terms(), "http://wiki.test", logger)
	return NewFacade(svc, "test", logger), svc
}

func seedProject(t *testing.T, svc wikisvc.Service) {
	t.Helper()
	_, err := svc.CreatePage(context.Background(), editor, &wikisvc.CreatePageRequest{
		Title:   "Home",
		Content: "<p>home</p>",
		Project: "demo",
		Section: "guides",
	})
	if err != nil {
		t.Fatalf("seed page: %v", err)
	}
}

// rpc pushes one JSON-RPC message through a server and decodes the response.
func rpc(t *testing.T, s *server.MCPServer, body string) map[string]any {
	t.Helper()
	resp := s.HandleMessage(context.Background(), json.RawMessage(body))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return m
}

func initialize(t *testing.T, s *server.MCPServer) {
	t.Helper()
	rpc(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`)
}

// toolSchemas extracts tool name -> inputSchema properties from a tools/list
// response.
func toolSchemas(t *testing.T, resp map[string]any) map[string]map[string]any {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in response: %v", resp)
	}
	tools, ok := result["tools"].([]any)
	if !ok {
		t.Fatalf("no tools in result: %v", result)
	}

	schemas := make(map[string]map[string]any, len(tools))
	for _, raw := range tools {
		tool := raw.(map[string]any)
		name := tool["name"].(string)
		props := map[string]any{}
		if schema, ok := tool["inputSchema"].(map[string]any); ok {
			if p, ok := schema["properties"].(map[string]any); ok {
				props = p
			}
		}
		schemas[name] = props
	}
	return schemas
}

func TestToolsListGeneralIncludesProjectArgument(t *testing.T) {
	f, _ := newTestFacade(t)
	s := f.buildServer(models.Anonymous, "")
	initialize(t, s)

	schemas := toolSchemas(t, rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	if len(schemas) != 13 {
		t.Errorf("tools = %d, want 13", len(schemas))
	}
	for _, name := range []string{"wiki_get_tree", "wiki_create_page", "wiki_export_project"} {
		props, ok := schemas[name]
		if !ok {
			t.Fatalf("tool %s missing", name)
		}
		if _, ok := props["project"]; !ok {
			t.Errorf("%s schema missing project argument", name)
		}
	}
}

func TestToolsListScopedDropsProjectArgument(t *testing.T) {
	f, _ := newTestFacade(t)
	s := f.buildServer(models.Anonymous, "demo")
	initialize(t, s)

	schemas := toolSchemas(t, rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	for name, props := range schemas {
		if _, ok := props["project"]; ok {
			t.Errorf("scoped %s schema still has project argument", name)
		}
	}

	// Cross-project discovery is dropped on the scoped surface.
	if _, ok := schemas["wiki_list_projects"]; ok {
		t.Error("scoped endpoint still lists wiki_list_projects")
	}
	if len(schemas) != 12 {
		t.Errorf("scoped tools = %d, want 12", len(schemas))
	}
}

// callResult extracts the tool result from a tools/call response.
func callResult(t *testing.T, resp map[string]any) (text string, isError bool) {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in response: %v", resp)
	}
	isError, _ = result["isError"].(bool)
	content, _ := result["content"].([]any)
	for _, c := range content {
		if block, ok := c.(map[string]any); ok && block["type"] == "text" {
			text += block["text"].(string)
		}
	}
	return text, isError
}

func TestWriteToolsGatedForAnonymous(t *testing.T) {
	f, _ := newTestFacade(t)
	s := f.buildServer(models.Anonymous, "")
	initialize(t, s)

	resp := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"wiki_create_page","arguments":{"title":"Nope"}}}`)
	text, isError := callResult(t, resp)

	if !isError {
		t.Error("anonymous create succeeded, want isError result")
	}
	if !strings.Contains(text, "Authentication required for write operations") {
		t.Errorf("gate message = %q", text)
	}
}

func TestEditorCanCreateAndReadPages(t *testing.T) {
	f, svc := newTestFacade(t)
	s := f.buildServer(editor, "")
	initialize(t, s)

	resp := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"wiki_create_page","arguments":{"title":"Tooling","project":"demo","section":"guides","content":"<p>made by tool</p>"}}}`)
	text, isError := callResult(t, resp)
	if isError {
		t.Fatalf("create failed: %s", text)
	}

	var page models.PageDetail
	if err := json.Unmarshal([]byte(text), &page); err != nil {
		t.Fatalf("result is not a page document: %v\n%s", err, text)
	}
	if page.Slug != "tooling" {
		t.Errorf("slug = %q, want tooling", page.Slug)
	}

	// The REST-visible state and the tool-visible state are the same state.
	got, err := svc.GetPage(context.Background(), editor, page.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.Title != "Tooling" {
		t.Errorf("title = %q, want Tooling", got.Title)
	}
}

func TestScopedToolInjectsProject(t *testing.T) {
	f, svc := newTestFacade(t)
	seedProject(t, svc)

	s := f.buildServer(models.Anonymous, "demo")
	initialize(t, s)

	// No project argument supplied; the scope provides it.
	resp := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"wiki_get_tree","arguments":{}}}`)
	text, isError := callResult(t, resp)
	if isError {
		t.Fatalf("scoped get_tree failed: %s", text)
	}

	var tree []models.SectionTree
	if err := json.Unmarshal([]byte(text), &tree); err != nil {
		t.Fatalf("result is not a tree: %v", err)
	}
	if len(tree) != 1 || tree[0].Section.Slug != "guides" {
		t.Errorf("tree = %v, want one guides section", tree)
	}
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	f, _ := newTestFacade(t)
	s := f.buildServer(models.Anonymous, "")
	initialize(t, s)

	resp := rpc(t, s, `{"jsonrpc":"2.0","id":2,"method":"wiki/unknown"}`)
	rpcErr, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error in response: %v", resp)
	}
	if code := int(rpcErr["code"].(float64)); code != -32601 {
		t.Errorf("code = %d, want -32601", code)
	}
}

func TestScopedEndpointRejectsUnknownProject(t *testing.T) {
	f, _ := newTestFacade(t)

	mux := http.NewServeMux()
	mux.Handle("POST /api/mcp/{project}", f)

	body := `{"jsonrpc":"2.0","id":7,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/api/mcp/ghost", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, rec.Body.String())
	}
	rpcErr, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error in response: %v", resp)
	}
	if code := int(rpcErr["code"].(float64)); code != -32602 {
		t.Errorf("code = %d, want -32602", code)
	}
	if msg := rpcErr["message"].(string); msg != "Project not found: ghost" {
		t.Errorf("message = %q", msg)
	}
	if id := resp["id"]; fmt.Sprintf("%v", id) != "7" {
		t.Errorf("id = %v, want 7", id)
	}
}

func TestImportToolRoundTrip(t *testing.T) {
	f, svc := newTestFacade(t)
	s := f.buildServer(editor, "")
	initialize(t, s)

	doc := `{"format_version":"1.0","project":{"slug":"demo","name":"Demo"},"sections":[{"slug":"guides","name":"Guides","pages":[{"title":"Intro","slug":"intro","content":"<p>hi</p>","content_format":"html","children":[]}]}]}`
	args := map[string]any{"project": "demo", "document": doc, "mode": "replace"}
	params, _ := json.Marshal(map[string]any{"name": "wiki_import_project", "arguments": args})

	resp := rpc(t, s, fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":%s}`, params))
	text, isError := callResult(t, resp)
	if isError {
		t.Fatalf("import failed: %s", text)
	}

	var result models.ImportResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("result is not an import summary: %v", err)
	}
	if result.PagesCreated != 1 || result.Project != "demo" {
		t.Errorf("result = %+v", result)
	}

	exported, err := svc.ExportProject(context.Background(), editor, "demo")
	if err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	if len(exported.Sections) != 1 || exported.Sections[0].Pages[0].Slug != "intro" {
		t.Errorf("export after tool import = %+v", exported.Sections)
	}
}
