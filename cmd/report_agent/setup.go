package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jonathan/assessment-reports/internal/assets"
	"github.com/jonathan/assessment-reports/internal/catalog"
	"github.com/jonathan/assessment-reports/internal/config"
	"github.com/jonathan/assessment-reports/internal/db"
	"github.com/jonathan/assessment-reports/internal/logging"
	"github.com/jonathan/assessment-reports/internal/observability"
	"github.com/jonathan/assessment-reports/internal/rendering"
	"github.com/jonathan/assessment-reports/internal/schemas"
	"github.com/jonathan/assessment-reports/internal/types"
)

// stdoutPath makes --out write the document to standard output.
const stdoutPath = "-"

// app bundles what every command needs once flags are parsed.
type app struct {
	cfg      config.Config
	log      *logging.Logger
	renderer *rendering.Renderer
	printer  *observability.Printer
}

// loadSettings merges the config file, defaults, environment and global flags.
func loadSettings() (config.Config, error) {
	defaults := config.Default()
	cfg := defaults
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded.MergeWithDefaults(defaults)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newApp builds the logger, catalog, icon resolver and renderer. report is where
// verbose summaries go.
func newApp(report io.Writer) (*app, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	renderer := rendering.New(rendering.Options{
		Page:     cfg.PageSpec(),
		Baseline: cfg.BaselineOrDefault(),
		Icons:    assets.NewResolver(cfg.AssetRoots, log),
		Catalog:  cat,
		Logger:   log,
	})

	return &app{cfg: cfg, log: log, renderer: renderer, printer: observability.NewPrinter(report)}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// reportWriter keeps verbose output off stdout when the document goes there.
func reportWriter(out string) io.Writer {
	if out == stdoutPath {
		return os.Stderr
	}
	return os.Stdout
}

// openDB connects using the flag value, falling back to the configured URL.
func (a *app) openDB(ctx context.Context, flagURL string) (*db.DB, error) {
	url := flagURL
	if url == "" {
		url = a.cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL not set and --db-url not provided")
	}
	return db.Connect(ctx, url)
}

// checkSchema reports schema problems as warnings; rendering proceeds regardless.
func (a *app) checkSchema(kind schemas.Kind, data []byte, source string) {
	if err := schemas.Validate(kind, data); err != nil {
		a.log.Warn("input does not match schema", "source", source, "error", err)
	}
}

// readRawRecord reads a record file. Content that does not decode as a record is
// logged and replaced by an empty record, so a document is still produced.
func (a *app) readRawRecord(path string) (types.RawRecord, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawRecord{}, nil, fmt.Errorf("failed to read record file: %w", err)
	}
	var raw types.RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		a.log.Warn("record file does not decode; rendering defaults", "source", path, "error", err)
		return types.RawRecord{}, data, nil
	}
	return raw, data, nil
}

// readRawCouple reads a couple file with the same fallback as readRawRecord.
func (a *app) readRawCouple(path string) (types.RawCoupleRecord, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.RawCoupleRecord{}, nil, fmt.Errorf("failed to read couple file: %w", err)
	}
	var raw types.RawCoupleRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		a.log.Warn("couple file does not decode; rendering defaults", "source", path, "error", err)
		return types.RawCoupleRecord{}, data, nil
	}
	return raw, data, nil
}

// detectKind treats any object with a primary or spouse member as a couple record.
func detectKind(data []byte) schemas.Kind {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return schemas.KindRecord
	}
	if _, ok := top["primary"]; ok {
		return schemas.KindCouple
	}
	if _, ok := top["spouse"]; ok {
		return schemas.KindCouple
	}
	return schemas.KindRecord
}

func parseID(flag, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", flag, err)
	}
	return id, nil
}

// sourceFlags checks that exactly one of a file or database ID was given.
func sourceFlags(inFile, id, idFlag string) error {
	if inFile != "" && id != "" {
		return fmt.Errorf("cannot use --in with --%s", idFlag)
	}
	if inFile == "" && id == "" {
		return fmt.Errorf("must provide either --in or --%s", idFlag)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == stdoutPath {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
