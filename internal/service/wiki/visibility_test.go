package wiki

import (
	"context"
	"errors"
	"testing"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
)

// seedPrivate builds one public and one private project, each with a page,
// and returns the private page's id.
func seedPrivate(t *testing.T, svc wikisvc.Service) int64 {
	t.Helper()
	ctx := context.Background()

	mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Open", Project: "public-proj", Section: "docs"})
	hidden := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Secret", Project: "private-proj", Section: "docs"})

	private := false
	if _, err := svc.UpdateProject(ctx, editor, "private-proj", &wikisvc.UpdateProjectRequest{Public: &private}); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	return hidden.ID
}

func TestPrivateProjectHiddenFromAnonymous(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	hiddenID := seedPrivate(t, svc)

	projects, err := svc.ListProjects(ctx, models.Anonymous)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Slug != "public-proj" {
		t.Errorf("anonymous projects = %v, want just public-proj", projects)
	}

	if _, err := svc.GetPage(ctx, models.Anonymous, hiddenID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("anonymous GetPage(private) = %v, want ErrNotFound", err)
	}

	if _, err := svc.GetTree(ctx, models.Anonymous, "private-proj"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("anonymous GetTree(private) = %v, want ErrNotFound", err)
	}

	pages, err := svc.ListPages(ctx, models.Anonymous, &wikisvc.PageFilter{})
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	for _, p := range pages {
		if p.Project != nil && *p.Project == "private-proj" {
			t.Errorf("anonymous listing leaked private page %d", p.ID)
		}
	}

	results, err := svc.Search(ctx, models.Anonymous, "Secret", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("anonymous search found %d private pages, want 0", len(results))
	}
}

func TestEditorSeesPrivateProjects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	hiddenID := seedPrivate(t, svc)

	projects, err := svc.ListProjects(ctx, editor)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("editor projects = %d, want 2", len(projects))
	}

	if _, err := svc.GetPage(ctx, editor, hiddenID); err != nil {
		t.Errorf("editor GetPage(private) = %v, want nil", err)
	}

	results, err := svc.Search(ctx, editor, "Secret", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("editor search results = %d, want 1", len(results))
	}
}

func TestUntaggedPageIsVisible(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	page := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Loose"})

	got, err := svc.GetPage(ctx, models.Anonymous, page.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.Project != nil {
		t.Errorf("project = %v, want nil", got.Project)
	}
	if want := "http://wiki.test/wiki/loose"; got.URL != want {
		t.Errorf("url = %q, want %q", got.URL, want)
	}
}

func TestProjectExistsIgnoresVisibility(t *testing.T) {
	svc := newTestService(t)
	seedPrivate(t, svc)

	ok, err := svc.ProjectExists(context.Background(), "private-proj")
	if err != nil {
		t.Fatalf("ProjectExists: %v", err)
	}
	if !ok {
		t.Error("private project reported as missing")
	}

	ok, err = svc.ProjectExists(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ProjectExists: %v", err)
	}
	if ok {
		t.Error("unknown project reported as existing")
	}
}
