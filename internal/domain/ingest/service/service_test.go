package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagefin/reporting-api/internal/domain/catalog"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/validation"
)

type stubRepo struct {
	entities []catalog.Entity
	accounts []catalog.Account
	err      error
}

func (s *stubRepo) ListEntities(ctx context.Context) ([]catalog.Entity, error) {
	return s.entities, s.err
}

func (s *stubRepo) ListAccounts(ctx context.Context) ([]catalog.Account, error) {
	return s.accounts, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidationConfig() validation.Config {
	cfg := validation.DefaultConfig()
	cfg.Clock = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return cfg
}

const importCSV = `entity,account code,scenario,year,month,value
Acme Holdings,1000,real,2024,6,1000.00
Acme Holdings,1000,real,2024,6,1000.00
Globex Corp,1001,actuals,2024,6,50.00
`

func TestService_AnalyzeFile(t *testing.T) {
	svc := New(nil, quietLogger())

	t.Run("returns table and metadata", func(t *testing.T) {
		out, err := svc.AnalyzeFile(context.Background(), []byte(importCSV), "facts.csv", parser.DefaultConfig())
		require.NoError(t, err)

		assert.Equal(t, parser.FileTypeDelimited, out.Metadata.FileType)
		assert.Equal(t, ',', out.Metadata.Delimiter)
		assert.True(t, out.Metadata.HasHeaders)
		assert.Equal(t, 4, out.Metadata.RowCount)
		assert.Equal(t, 6, out.Metadata.ColumnCount)
		assert.Greater(t, out.Metadata.Quality.Score, 0)
		require.Len(t, out.Metadata.Columns, 6)
		assert.Equal(t, "entity", out.Metadata.Columns[0].Name)
	})

	t.Run("wraps parse failures", func(t *testing.T) {
		_, err := svc.AnalyzeFile(context.Background(), nil, "facts.csv", parser.DefaultConfig())
		require.Error(t, err)
		assert.ErrorIs(t, err, parser.ErrEmptyFile)
	})
}

func TestService_ImportFile(t *testing.T) {
	t.Run("runs the full pipeline", func(t *testing.T) {
		svc := New(nil, quietLogger())

		out, err := svc.ImportFile(context.Background(), []byte(importCSV), "facts.csv",
			parser.DefaultConfig(), testValidationConfig())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, out.JobID)
		assert.Empty(t, out.MappingErrors)

		assert.Equal(t, 3, out.Batch.Summary.Total)
		assert.Equal(t, 2, out.Batch.Summary.Valid)
		assert.Equal(t, 1, out.Batch.Summary.Invalid)
		require.Len(t, out.Batch.Invalid, 1)
		assert.Contains(t, out.Batch.Invalid[0].Errors[0], "Invalid scenario 'actuals'")

		require.Len(t, out.Duplicates.Duplicates, 1)
		assert.Len(t, out.Duplicates.Duplicates[0], 2)

		assert.Contains(t, out.Report, "Total records:    3")
		assert.Contains(t, out.Report, "Duplicate groups: 1")
	})

	t.Run("candidates are sanitized before validation", func(t *testing.T) {
		csv := "entity code,year,month,value,scenario\n  acme , 2024,6,\"10.005\",REAL\n"
		svc := New(nil, quietLogger())

		out, err := svc.ImportFile(context.Background(), []byte(csv), "facts.csv",
			parser.DefaultConfig(), testValidationConfig())
		require.NoError(t, err)

		require.Len(t, out.Batch.Valid, 1)
		assert.Equal(t, "ACME", out.Batch.Valid[0].EntityCode)
		assert.Equal(t, "real", out.Batch.Valid[0].ScenarioID)
		assert.InDelta(t, 10.01, out.Batch.Valid[0].Value, 1e-9)
	})

	t.Run("uses catalog snapshots for existence checks", func(t *testing.T) {
		repo := &stubRepo{
			entities: []catalog.Entity{{Code: "ACME", Name: "Acme Holdings"}},
			accounts: []catalog.Account{{Code: "1000", Name: "Cash"}},
		}
		svc := New(repo, quietLogger())

		vcfg := testValidationConfig()
		vcfg.CheckEntityExists = true
		vcfg.CheckAccountExists = true
		vcfg.AllowAutoCreate = false

		csv := "entity,account code,scenario,year,month,value\nInitech,9999,real,2024,6,10\n"
		out, err := svc.ImportFile(context.Background(), []byte(csv), "facts.csv",
			parser.DefaultConfig(), vcfg)
		require.NoError(t, err)

		require.Len(t, out.Batch.Invalid, 1)
		assert.Contains(t, out.Batch.Invalid[0].Errors, "Entity 'Initech' does not exist")
	})

	t.Run("repository failures abort the import", func(t *testing.T) {
		svc := New(&stubRepo{err: errors.New("db down")}, quietLogger())

		_, err := svc.ImportFile(context.Background(), []byte(importCSV), "facts.csv",
			parser.DefaultConfig(), testValidationConfig())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "entity snapshot")
	})
}
