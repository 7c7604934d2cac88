// Command ingest runs the import pipeline against a single file and prints
// the validation report. When a database is reachable, entity and account
// catalogs are loaded for existence checks; otherwise validation runs
// against empty snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vantagefin/reporting-api/internal/domain/catalog"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/service"
	"github.com/vantagefin/reporting-api/internal/domain/validation"
	"github.com/vantagefin/reporting-api/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		sheet   = flag.String("sheet", "", "workbook sheet to import (default: first sheet)")
		maxRows = flag.Int("max-rows", 0, "cap on rows read, 0 for unlimited")
		noDB    = flag.Bool("no-db", false, "skip the catalog database entirely")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: ingest [flags] <file>")
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx := context.Background()

	var repo catalog.Repository
	if !*noDB {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				defer pool.Close()
				repo = catalog.NewPostgresRepository(pool)
			} else {
				pool.Close()
				logger.Warn("database unreachable, skipping catalog checks", slog.Any("error", pingErr))
			}
		} else {
			logger.Warn("database config invalid, skipping catalog checks", slog.Any("error", err))
		}
	}

	pcfg := parser.DefaultConfig()
	pcfg.SheetName = *sheet
	pcfg.SkipEmptyRows = cfg.Import.SkipEmptyRows
	pcfg.MaxRows = cfg.Import.MaxRows
	if *maxRows > 0 {
		pcfg.MaxRows = *maxRows
	}

	vcfg := validation.DefaultConfig()
	vcfg.AllowNegativeValues = cfg.Import.AllowNegativeValues
	vcfg.AllowAutoCreate = cfg.Import.AllowAutoCreate
	vcfg.CheckEntityExists = cfg.Import.CheckEntityExists && repo != nil
	vcfg.CheckAccountExists = cfg.Import.CheckAccountExists && repo != nil

	svc := service.New(repo, logger)
	out, err := svc.ImportFile(ctx, data, path, pcfg, vcfg)
	if err != nil {
		return err
	}

	for _, msg := range out.MappingErrors {
		logger.Warn("mapping issue", slog.String("detail", msg))
	}

	fmt.Println(out.Report)
	fmt.Printf("job %s: quality score %d/100\n", out.JobID, out.Metadata.Quality.Score)
	return nil
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
