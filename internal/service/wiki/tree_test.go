package wiki

import (
	"context"
	"errors"
	"testing"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
)

func TestProjectCountExcludesDrafts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Live", Project: "demo", Section: "guides"})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "WIP", Project: "demo", Section: "guides", Status: models.StatusDraft})

	projects, err := svc.ListProjects(ctx, editor)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}
	if projects[0].Count != 1 {
		t.Errorf("count = %d, want 1 (drafts excluded)", projects[0].Count)
	}
}

func TestGetTreeNestsAndOrders(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	intro := mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "Intro", Project: "demo", Section: "guides", MenuOrder: 2,
	})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "Setup", Project: "demo", Section: "guides", Parent: intro.ID, MenuOrder: 1,
	})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "Advanced", Project: "demo", Section: "guides", Parent: intro.ID, MenuOrder: 0,
	})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "First", Project: "demo", Section: "guides", MenuOrder: 1,
	})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "Glossary", Project: "demo", Section: "reference",
	})
	// Drafts never appear in the navigation tree.
	mustCreate(t, svc, &wikisvc.CreatePageRequest{
		Title: "WIP", Project: "demo", Section: "guides", Status: models.StatusDraft,
	})

	tree, err := svc.GetTree(ctx, editor, "demo")
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(tree) != 2 {
		t.Fatalf("sections = %d, want 2", len(tree))
	}

	var guides *models.SectionTree
	for i := range tree {
		if tree[i].Section.Slug == "guides" {
			guides = &tree[i]
		}
	}
	if guides == nil {
		t.Fatal("guides section missing from tree")
	}

	if len(guides.Pages) != 2 {
		t.Fatalf("guides roots = %d, want 2", len(guides.Pages))
	}
	// menu_order ascending: First (1) before Intro (2).
	if guides.Pages[0].Title != "First" || guides.Pages[1].Title != "Intro" {
		t.Errorf("root order = %q, %q, want First, Intro", guides.Pages[0].Title, guides.Pages[1].Title)
	}

	children := guides.Pages[1].Children
	if len(children) != 2 {
		t.Fatalf("Intro children = %d, want 2", len(children))
	}
	if children[0].Title != "Advanced" || children[1].Title != "Setup" {
		t.Errorf("child order = %q, %q, want Advanced, Setup", children[0].Title, children[1].Title)
	}

	for _, root := range guides.Pages {
		if root.URL == "" {
			t.Errorf("page %q has empty URL", root.Title)
		}
	}
}

func TestGetTreeUnknownProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetTree(context.Background(), editor, "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListSectionsScopedToProject(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "A", Project: "one", Section: "guides"})
	mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "B", Project: "two", Section: "reference"})

	all, err := svc.ListSections(ctx, editor, "")
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all sections = %d, want 2", len(all))
	}

	scoped, err := svc.ListSections(ctx, editor, "one")
	if err != nil {
		t.Fatalf("ListSections scoped: %v", err)
	}
	if len(scoped) != 1 || scoped[0].Slug != "guides" {
		t.Errorf("scoped sections = %v, want just guides", scoped)
	}

	empty, err := svc.ListSections(ctx, editor, "nope")
	if err != nil {
		t.Fatalf("ListSections unknown project: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown project sections = %d, want 0", len(empty))
	}
}
