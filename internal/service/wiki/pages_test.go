package wiki

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
	"wikipress/internal/repository/memory"
)

var editor = models.Caller{Editor: true, Subject: "test"}

func newTestService(t *testing.T) wikisvc.Service {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store.Pages(), store.Terms(), "http://wiki.test", logger)
}

func mustCreate(t *testing.T, svc wikisvc.Service, req *wikisvc.CreatePageRequest) *models.PageDetail {
	t.Helper()
	page, err := svc.CreatePage(context.Background(), editor, req)
	if err != nil {
		t.Fatalf("CreatePage(%q): %v", req.Title, err)
	}
	return page
}

func TestCreatePageDefaults(t *testing.T) {
	svc := newTestService(t)

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title:   "Getting Started",
		Content: "<p>hello</p>",
		Project: "Demo Project",
		Section: "Guides",
	})

	if page.Slug != "getting-started" {
		t.Errorf("slug = %q, want getting-started", page.Slug)
	}
	if page.Status != models.StatusPublish {
		t.Errorf("status = %q, want publish", page.Status)
	}
	if page.ContentFormat != models.FormatHTML {
		t.Errorf("content_format = %q, want html", page.ContentFormat)
	}
	if page.Project == nil || *page.Project != "demo-project" {
		t.Errorf("project = %v, want demo-project", page.Project)
	}
	if page.Section == nil || *page.Section != "guides" {
		t.Errorf("section = %v, want guides", page.Section)
	}
	if want := "http://wiki.test/wiki/demo-project/getting-started"; page.URL != want {
		t.Errorf("url = %q, want %q", page.URL, want)
	}
}

func TestCreatePageRequiresTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePage(context.Background(), editor, &wikisvc.CreatePageRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestCreatePageRejectsUnknownFormatBeforeInsert(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreatePage(context.Background(), editor, &wikisvc.CreatePageRequest{
		Title:         "Broken",
		ContentFormat: "wiki",
	})
	if !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}

	// Nothing may have been persisted.
	if _, err := svc.GetPage(context.Background(), editor, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetPage after rejected create = %v, want ErrNotFound", err)
	}
}

func TestCreatePageSanitizesHTML(t *testing.T) {
	svc := newTestService(t)

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title:   "Scripted",
		Content: `<p>fine</p><script>alert(1)</script>`,
	})

	if strings.Contains(page.Content, "<script") {
		t.Errorf("content still contains script tag: %q", page.Content)
	}
	if !strings.Contains(page.Content, "<p>fine</p>") {
		t.Errorf("benign markup was stripped: %q", page.Content)
	}
}

func TestCreatePageKeepsMarkdownVerbatim(t *testing.T) {
	svc := newTestService(t)

	src := "# Title\n\n<script>not html, just text</script>"
	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title:         "Readme",
		Content:       src,
		ContentFormat: models.FormatMarkdown,
	})

	if page.Content != src {
		t.Errorf("markdown content altered:\n got %q\nwant %q", page.Content, src)
	}
}

func TestUpdatePagePartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title:   "Original",
		Content: "<p>body</p>",
		Project: "docs",
	})

	newTitle := "Renamed"
	updated, err := svc.UpdatePage(ctx, editor, page.ID, &wikisvc.UpdatePageRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", updated.Title)
	}
	if updated.Content != "<p>body</p>" {
		t.Errorf("content changed on title-only update: %q", updated.Content)
	}
	if updated.Project == nil || *updated.Project != "docs" {
		t.Errorf("project tag lost: %v", updated.Project)
	}
}

func TestUpdatePageRetags(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "P", Project: "alpha"})

	project := "beta"
	updated, err := svc.UpdatePage(ctx, editor, page.ID, &wikisvc.UpdatePageRequest{Project: &project})
	if err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	if updated.Project == nil || *updated.Project != "beta" {
		t.Errorf("project = %v, want beta", updated.Project)
	}
}

func TestUpdatePageRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "P"})

	status := "trash"
	_, err := svc.UpdatePage(context.Background(), editor, page.ID, &wikisvc.UpdatePageRequest{Status: &status})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDeletePage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Doomed"})

	if err := svc.DeletePage(ctx, editor, page.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := svc.GetPage(ctx, editor, page.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetPage after delete = %v, want ErrNotFound", err)
	}
	if err := svc.DeletePage(ctx, editor, page.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestMovePage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	root := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Root"})
	child := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Child", Parent: root.ID})
	grand := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Grand", Parent: child.ID})

	// Move root under its own grandchild: cycle.
	_, err := svc.MovePage(ctx, editor, root.ID, &wikisvc.MovePageRequest{Parent: &grand.ID})
	if !errors.Is(err, domain.ErrInvalidMove) {
		t.Errorf("cycle move err = %v, want ErrInvalidMove", err)
	}

	// Self-parenting.
	_, err = svc.MovePage(ctx, editor, root.ID, &wikisvc.MovePageRequest{Parent: &root.ID})
	if !errors.Is(err, domain.ErrInvalidMove) {
		t.Errorf("self move err = %v, want ErrInvalidMove", err)
	}

	// Nonexistent target parent.
	missing := int64(9999)
	_, err = svc.MovePage(ctx, editor, root.ID, &wikisvc.MovePageRequest{Parent: &missing})
	if !errors.Is(err, domain.ErrInvalidMove) {
		t.Errorf("missing parent err = %v, want ErrInvalidMove", err)
	}

	// Legal move: hoist the grandchild to the top level with a new position.
	top := int64(0)
	order := 5
	moved, err := svc.MovePage(ctx, editor, grand.ID, &wikisvc.MovePageRequest{Parent: &top, MenuOrder: &order})
	if err != nil {
		t.Fatalf("MovePage: %v", err)
	}
	if moved.Parent != 0 || moved.MenuOrder != 5 {
		t.Errorf("moved parent/order = %d/%d, want 0/5", moved.Parent, moved.MenuOrder)
	}
}

func TestListPagesPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustCreate(t, svc, &wikisvc.CreatePageRequest{
			Title:     string(rune('A' + i)),
			Project:   "demo",
			MenuOrder: i,
		})
	}

	first, err := svc.ListPages(ctx, editor, &wikisvc.PageFilter{Project: "demo", Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	second, err := svc.ListPages(ctx, editor, &wikisvc.PageFilter{Project: "demo", Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("page sizes = %d, %d, want 2, 2", len(first), len(second))
	}
	if first[0].Title != "A" || second[0].Title != "C" {
		t.Errorf("pagination order wrong: %q then %q", first[0].Title, second[0].Title)
	}
}

func TestListPagesUnknownProjectIsEmpty(t *testing.T) {
	svc := newTestService(t)

	pages, err := svc.ListPages(context.Background(), editor, &wikisvc.PageFilter{Project: "nope"})
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("got %d pages, want 0", len(pages))
	}
}
