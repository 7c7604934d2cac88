// Package service orchestrates the ingestion pipeline: sniff, parse,
// detect structure, profile columns, score quality, then map and validate
// extracted financial facts.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vantagefin/reporting-api/internal/domain/catalog"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/profile"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/sniffer"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/structure"
	"github.com/vantagefin/reporting-api/internal/domain/validation"
)

// FileMetadata aggregates everything the pipeline learned about a file.
type FileMetadata struct {
	FileType    parser.FileType
	Encoding    sniffer.Encoding
	Delimiter   rune
	SheetName   string
	HasHeaders  bool
	RowCount    int
	ColumnCount int
	Structure   structure.Info
	Columns     []profile.ColumnProfile
	Quality     profile.QualityReport
}

// AnalyzeOutput is the parsing-path result: the grid plus its metadata.
type AnalyzeOutput struct {
	Table    parser.RawTable
	Metadata FileMetadata
}

// ImportOutput is the full import result for one file.
type ImportOutput struct {
	JobID         uuid.UUID
	Metadata      FileMetadata
	MappingErrors []string
	Batch         validation.BatchResult
	Duplicates    validation.DuplicateGroups
	Report        string
}

// Service runs the ingestion pipeline. The catalog repository is optional;
// without it, existence checks validate against empty snapshots.
type Service struct {
	repo   catalog.Repository
	logger *slog.Logger
}

// New creates an ingestion service.
func New(repo catalog.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// AnalyzeFile parses raw file bytes into a table and derives structure,
// column profiles and a quality score.
func (s *Service) AnalyzeFile(ctx context.Context, data []byte, filename string, cfg parser.Config) (*AnalyzeOutput, error) {
	out, err := parser.Parse(data, filename, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	info := structure.Detect(out.Table, cfg)
	info.MergedRegions = out.Merged

	columns := profile.AnalyzeColumns(out.Table, info)
	quality := profile.ScoreQuality(out.Table, info, columns)

	meta := FileMetadata{
		FileType:    out.FileType,
		Encoding:    out.Encoding,
		Delimiter:   out.Delimiter,
		SheetName:   out.SheetName,
		HasHeaders:  info.HasHeaders(),
		RowCount:    len(out.Table),
		ColumnCount: len(columns),
		Structure:   info,
		Columns:     columns,
		Quality:     quality,
	}

	s.logger.InfoContext(ctx, "analyzed file",
		slog.String("filename", filename),
		slog.String("file_type", string(meta.FileType)),
		slog.Int("rows", meta.RowCount),
		slog.Int("columns", meta.ColumnCount),
		slog.Int("quality_score", meta.Quality.Score),
	)

	return &AnalyzeOutput{Table: out.Table, Metadata: meta}, nil
}

// ImportFile runs the whole pipeline: parse, map rows to fact candidates,
// sanitize, validate the batch against catalog snapshots, detect
// duplicates among the valid records, and render a report.
func (s *Service) ImportFile(ctx context.Context, data []byte, filename string, pcfg parser.Config, vcfg validation.Config) (*ImportOutput, error) {
	jobID := uuid.New()

	analyzed, err := s.AnalyzeFile(ctx, data, filename, pcfg)
	if err != nil {
		return nil, err
	}

	candidates, mapErrs := MapTable(analyzed.Table, analyzed.Metadata.Structure, pcfg)
	for i := range candidates {
		candidates[i] = validation.Sanitize(candidates[i])
	}

	entities, accounts, err := s.snapshots(ctx)
	if err != nil {
		return nil, err
	}

	batch := validation.ValidateBatch(candidates, vcfg, entities, accounts)
	dups := validation.DetectDuplicates(batch.Valid)
	report := validation.RenderSummary(batch, dups)

	s.logger.InfoContext(ctx, "import finished",
		slog.String("job_id", jobID.String()),
		slog.String("filename", filename),
		slog.Int("total", batch.Summary.Total),
		slog.Int("valid", batch.Summary.Valid),
		slog.Int("invalid", batch.Summary.Invalid),
		slog.Int("warnings", batch.Summary.WarningCount),
		slog.Int("duplicate_groups", len(dups.Duplicates)),
	)

	return &ImportOutput{
		JobID:         jobID,
		Metadata:      analyzed.Metadata,
		MappingErrors: mapErrs,
		Batch:         batch,
		Duplicates:    dups,
		Report:        report,
	}, nil
}

// snapshots loads catalog lookup lists once per call.
func (s *Service) snapshots(ctx context.Context) ([]catalog.Entity, []catalog.Account, error) {
	if s.repo == nil {
		return nil, nil, nil
	}
	entities, err := s.repo.ListEntities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entity snapshot: %w", err)
	}
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load account snapshot: %w", err)
	}
	return entities, accounts, nil
}
