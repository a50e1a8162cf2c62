// Command seed prepares the database schema and loads a small demo wiki,
// useful for local development and manual API testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"wikipress/internal/config"
	models "wikipress/internal/domain/models/wiki"
	"wikipress/internal/repository/postgres"
	postgresWiki "wikipress/internal/repository/postgres/wiki"
	serviceWiki "wikipress/internal/service/wiki"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo content")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	svc := serviceWiki.NewService(
		postgresWiki.NewPageRepository(repoConfig),
		postgresWiki.NewTermRepository(repoConfig),
		cfg.BaseURL,
		logger,
	)

	editor := models.Caller{Editor: true, Subject: "seed"}
	result, err := svc.ImportProject(ctx, editor, demoProject(), models.ImportReplace)
	if err != nil {
		log.Fatalf("Failed to seed demo project: %v", err)
	}

	log.Printf("✅ Seeded project %q: %d sections, %d pages", result.Project, result.SectionsCount, result.PagesCreated)
}

// demoProject builds a small two-section wiki exercising nesting, ordering
// and both content formats.
func demoProject() *models.ExportDocument {
	return &models.ExportDocument{
		FormatVersion: models.FormatVersion,
		Project: models.ExportProject{
			Slug: "demo",
			Name: "Demo Project",
		},
		Sections: []models.ExportSection{
			{
				Slug: "guides",
				Name: "Guides",
				Pages: []models.ExportPage{
					{
						Title:         "Getting Started",
						Slug:          "getting-started",
						Content:       "<h2>Welcome</h2><p>This is the demo wiki.</p>",
						ContentFormat: models.FormatHTML,
						Children: []models.ExportPage{
							{
								Title:         "Installation",
								Slug:          "installation",
								MenuOrder:     1,
								Content:       "## Install\n\nRun the server and point a client at it.",
								ContentFormat: models.FormatMarkdown,
							},
							{
								Title:         "Configuration",
								Slug:          "configuration",
								MenuOrder:     2,
								Content:       "## Configure\n\nAll settings come from the environment.",
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
					{
						Title:         "API Overview",
						Slug:          "api-overview",
						Content:       "<p>The REST API lives under <code>/api</code>.</p>",
						ContentFormat: models.FormatHTML,
					},
				},
			},
		},
	}
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	// Tagging table first: it references the other two.
	for _, table := range []string{tables.PageTerms, tables.Pages, tables.Terms} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
