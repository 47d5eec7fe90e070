// Command seed replaces the template catalogue with the embedded sample set
// and, when OpenSearch is the search backend, rebuilds the search index.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tmplstore/pkg/config"
	"github.com/dmitrymomot/tmplstore/pkg/environment"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
	"github.com/dmitrymomot/tmplstore/pkg/mongo"
	"github.com/dmitrymomot/tmplstore/pkg/opensearch"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
	"github.com/dmitrymomot/tmplstore/svc/mongostore"
)

//go:embed templates.yaml
var sampleTemplates []byte

type seedConfig struct {
	Env           string `env:"APP_ENV"`
	SearchBackend string `env:"SEARCH_BACKEND" envDefault:"mongo"`
}

func main() {
	file := flag.String("file", "", "YAML file with templates (default: embedded sample set)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *file); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, file string) error {
	var (
		cfg      seedConfig
		mongoCfg mongo.Config
	)
	if err := errors.Join(config.Load(&cfg), config.Load(&mongoCfg)); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.WithEnvironment(environment.Parse(cfg.Env), "tmplstore-seed")).
		With(logger.Component("seeder"))

	data := sampleTemplates
	if file != "" {
		var err error
		if data, err = os.ReadFile(file); err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
	}
	templates, err := parseTemplates(data)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "connecting to database")
	client, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongodb", logger.Error(err))
			return
		}
		log.Info("disconnected from database")
	}()

	db := client.Database(mongoCfg.DatabaseName())
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	log.InfoContext(ctx, "replacing templates", slog.Int("count", len(templates)))
	created, err := mongostore.NewTemplates(db).ReplaceAll(ctx, templates)
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	for i, t := range created {
		log.InfoContext(ctx, fmt.Sprintf("%d. %s (%s)", i+1, t.Name, t.Category), logger.TemplateID(t.ID))
	}

	if cfg.SearchBackend == "opensearch" {
		if err := reindex(ctx, log, created); err != nil {
			return err
		}
	}

	log.InfoContext(ctx, "seeding completed", slog.Int("count", len(created)))
	return nil
}

func reindex(ctx context.Context, log *slog.Logger, templates []catalog.Template) error {
	var osCfg opensearch.Config
	if err := config.Load(&osCfg); err != nil {
		return fmt.Errorf("failed to load opensearch configuration: %w", err)
	}
	client, err := opensearch.New(ctx, osCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to opensearch: %w", err)
	}

	index := catalog.NewOpenSearchIndex(client, osCfg.Index)
	if err := index.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset search index: %w", err)
	}
	if err := index.Index(ctx, templates); err != nil {
		return fmt.Errorf("failed to index templates: %w", err)
	}
	log.InfoContext(ctx, "search index rebuilt", slog.String("index", osCfg.Index))
	return nil
}

// parseTemplates decodes a YAML list and rejects entries without a name or
// category.
func parseTemplates(data []byte) ([]catalog.Template, error) {
	var templates []catalog.Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, errors.New("no templates to seed")
	}
	for i, t := range templates {
		if t.Name == "" || t.Category == "" {
			return nil, fmt.Errorf("template %d: name and category are required", i+1)
		}
	}
	return templates, nil
}
