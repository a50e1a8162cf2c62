package wiki

import (
	"context"
	"errors"
	"testing"

	"wikipress/internal/domain"
	models "wikipress/internal/domain/models/wiki"
	wikisvc "wikipress/internal/domain/services/wiki"
)

func sampleDocument() *models.ExportDocument {
	return &models.ExportDocument{
		FormatVersion: models.FormatVersion,
		Project:       models.ExportProject{Slug: "demo", Name: "Demo"},
		Sections: []models.ExportSection{
			{
				Slug: "guides",
				Name: "Guides",
				Pages: []models.ExportPage{
					{
						Title:         "Intro",
						Slug:          "intro",
						Content:       "<p>welcome</p>",
						ContentFormat: models.FormatHTML,
						Children: []models.ExportPage{
							{
								Title:         "Details",
								Slug:          "details",
								MenuOrder:     1,
								Content:       "## deep dive",
								ContentFormat: models.FormatMarkdown,
							},
						},
					},
				},
			},
			{
				Slug: "reference",
				Name: "Reference",
				Pages: []models.ExportPage{
					{Title: "API", Slug: "api", Content: "<p>api</p>", ContentFormat: models.FormatHTML},
				},
			},
		},
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.ImportProject(ctx, editor, sampleDocument(), "")
	if err != nil {
		t.Fatalf("ImportProject: %v", err)
	}
	if result.Mode != models.ImportReplace {
		t.Errorf("default mode = %q, want replace", result.Mode)
	}
	if result.PagesCreated != 3 || result.SectionsCount != 2 {
		t.Errorf("result = %d pages / %d sections, want 3 / 2", result.PagesCreated, result.SectionsCount)
	}

	doc, err := svc.ExportProject(ctx, editor, "demo")
	if err != nil {
		t.Fatalf("ExportProject: %v", err)
	}

	if doc.FormatVersion != models.FormatVersion {
		t.Errorf("format_version = %q, want %q", doc.FormatVersion, models.FormatVersion)
	}
	if doc.Project.Slug != "demo" || doc.Project.Name != "Demo" {
		t.Errorf("project header = %+v", doc.Project)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}

	var guides *models.ExportSection
	for i := range doc.Sections {
		if doc.Sections[i].Slug == "guides" {
			guides = &doc.Sections[i]
		}
	}
	if guides == nil {
		t.Fatal("guides section missing from export")
	}
	if len(guides.Pages) != 1 {
		t.Fatalf("guides roots = %d, want 1", len(guides.Pages))
	}

	intro := guides.Pages[0]
	if intro.Slug != "intro" || intro.Content != "<p>welcome</p>" {
		t.Errorf("intro round-trip broken: %+v", intro)
	}
	if len(intro.Children) != 1 {
		t.Fatalf("intro children = %d, want 1", len(intro.Children))
	}
	child := intro.Children[0]
	if child.Slug != "details" || child.ContentFormat != models.FormatMarkdown || child.Content != "## deep dive" {
		t.Errorf("child round-trip broken: %+v", child)
	}
	if child.MenuOrder != 1 {
		t.Errorf("child menu_order = %d, want 1", child.MenuOrder)
	}
}

func TestImportStoresContentVerbatim(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := sampleDocument()
	doc.Sections[0].Pages[0].Content = `<p>raw</p><script>kept()</script>`

	if _, err := svc.ImportProject(ctx, editor, doc, models.ImportReplace); err != nil {
		t.Fatalf("ImportProject: %v", err)
	}

	exported, err := svc.ExportProject(ctx, editor, "demo")
	if err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	for _, s := range exported.Sections {
		if s.Slug != "guides" {
			continue
		}
		if got := s.Pages[0].Content; got != `<p>raw</p><script>kept()</script>` {
			t.Errorf("imported content was altered: %q", got)
		}
	}
}

func TestImportReplaceDeletesExistingPages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	old := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Old", Project: "demo"})
	draft := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Draft", Project: "demo", Status: models.StatusDraft})

	if _, err := svc.ImportProject(ctx, editor, sampleDocument(), models.ImportReplace); err != nil {
		t.Fatalf("ImportProject: %v", err)
	}

	if _, err := svc.GetPage(ctx, editor, old.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("old page survived replace import: %v", err)
	}
	if _, err := svc.GetPage(ctx, editor, draft.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("draft page survived replace import: %v", err)
	}
}

func TestImportMergeKeepsExistingPages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	old := mustCreate(t, svc, &wikisvc.CreatePageRequest{Title: "Old", Project: "demo"})

	result, err := svc.ImportProject(ctx, editor, sampleDocument(), models.ImportMerge)
	if err != nil {
		t.Fatalf("ImportProject: %v", err)
	}
	if result.Mode != models.ImportMerge {
		t.Errorf("mode = %q, want merge", result.Mode)
	}

	if _, err := svc.GetPage(ctx, editor, old.ID); err != nil {
		t.Errorf("existing page lost in merge import: %v", err)
	}
}

func TestImportValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bad := sampleDocument()
	bad.Project.Name = ""
	if _, err := svc.ImportProject(ctx, editor, bad, models.ImportReplace); !errors.Is(err, domain.ErrInvalidData) {
		t.Errorf("missing project name err = %v, want ErrInvalidData", err)
	}

	bad = sampleDocument()
	bad.Sections = nil
	if _, err := svc.ImportProject(ctx, editor, bad, models.ImportReplace); !errors.Is(err, domain.ErrInvalidData) {
		t.Errorf("nil sections err = %v, want ErrInvalidData", err)
	}

	if _, err := svc.ImportProject(ctx, editor, sampleDocument(), "sideways"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad mode err = %v, want ErrValidation", err)
	}
}

func TestImportUnknownFormatFallsBackToHTML(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := sampleDocument()
	doc.Sections[0].Pages[0].ContentFormat = "textile"

	if _, err := svc.ImportProject(ctx, editor, doc, models.ImportReplace); err != nil {
		t.Fatalf("ImportProject: %v", err)
	}

	exported, err := svc.ExportProject(ctx, editor, "demo")
	if err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	for _, s := range exported.Sections {
		if s.Slug == "guides" && s.Pages[0].ContentFormat != models.FormatHTML {
			t.Errorf("format = %q, want html fallback", s.Pages[0].ContentFormat)
		}
	}
}
