package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesdash/internal/config"
	exportdomain "salesdash/internal/export/domain"
	ordersdomain "salesdash/internal/orders/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
	"salesdash/internal/testhelpers"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func newTestRunner(t *testing.T, cfg config.Config) *Runner {
	t.Helper()

	r, err := newRunner(cfg, sharedinfra.NopLogger(), fixedClock())
	require.NoError(t, err)
	return r
}

func TestRunner_Run(t *testing.T) {
	cfg := testhelpers.Config(t)
	cfg.Paths.ParquetFile = filepath.Join(filepath.Dir(cfg.Paths.CleanedFile), "cleaned.parquet")

	manifest, err := newTestRunner(t, cfg).Run(context.Background(), RunOptions{Publish: true})
	require.NoError(t, err)

	names := make([]string, len(manifest.Stages))
	for i, s := range manifest.Stages {
		names[i] = s.Name
		assert.Positive(t, s.DurationMS)
	}
	assert.Equal(t, []string{StageGenerate, StageClean, StageAnalyze, StageReport, StagePublish}, names)
	assert.Equal(t, "2024-12-31", manifest.AsOf)
	require.NotNil(t, manifest.Cleaning)
	assert.Equal(t, 306, manifest.Cleaning.InputRows)
	// raw, cleaned, parquet, 9 synthèses, classeur
	assert.Len(t, manifest.Artifacts, 13)
	for _, path := range manifest.Artifacts {
		assert.FileExists(t, path)
	}

	data, err := os.ReadFile(cfg.Paths.ManifestFile)
	require.NoError(t, err)
	var decoded Manifest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, manifest.RunID, decoded.RunID)
	assert.Equal(t, manifest.Cleaning.OutputRows, decoded.Cleaning.OutputRows)
	assert.NotContains(t, string(data), cfg.Warehouse.DSN, "dsn is not written")

	book, err := excelize.OpenFile(cfg.Paths.WorkbookFile)
	require.NoError(t, err)
	defer book.Close()
	assert.Len(t, book.GetSheetList(), len(exportdomain.SummaryArtifacts()))
}

func TestRunner_StagesChainThroughFiles(t *testing.T) {
	cfg := testhelpers.Config(t)
	r := newTestRunner(t, cfg)

	_, err := r.Generate()
	require.NoError(t, err)
	result, err := r.Clean()
	require.NoError(t, err)
	paths, err := r.Analyze()
	require.NoError(t, err)
	assert.Len(t, paths, 9)
	workbook, err := r.Report()
	require.NoError(t, err)
	assert.FileExists(t, workbook)

	tables, err := r.Publish(context.Background())
	require.NoError(t, err)
	assert.Len(t, tables, 10)

	db, err := sharedinfra.OpenDatabase(context.Background(), cfg.Warehouse.Driver, cfg.Warehouse.DSN)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "cleaned_transactions"`).Scan(&n))
	assert.Equal(t, result.Report.OutputRows, n)
}

func TestRunner_Deterministic(t *testing.T) {
	first := testhelpers.Config(t)
	second := testhelpers.Config(t)

	for _, cfg := range []config.Config{first, second} {
		_, err := newTestRunner(t, cfg).Run(context.Background(), RunOptions{})
		require.NoError(t, err)
	}

	for _, name := range []string{"raw", "cleaned", "category"} {
		var a, b string
		switch name {
		case "raw":
			a, b = first.Paths.RawFile, second.Paths.RawFile
		case "cleaned":
			a, b = first.Paths.CleanedFile, second.Paths.CleanedFile
		default:
			a = filepath.Join(first.Paths.OutputDir, "category_analysis.csv")
			b = filepath.Join(second.Paths.OutputDir, "category_analysis.csv")
		}
		da, err := os.ReadFile(a)
		require.NoError(t, err)
		db, err := os.ReadFile(b)
		require.NoError(t, err)
		assert.Equal(t, da, db, name)
	}
}

func TestRunner_SkipGenerateNeedsRawFile(t *testing.T) {
	cfg := testhelpers.Config(t)

	_, err := newTestRunner(t, cfg).Run(context.Background(), RunOptions{SkipGenerate: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, StageClean)
	assert.NoFileExists(t, cfg.Paths.ManifestFile)
}

func TestRunner_SchemaErrorStopsRun(t *testing.T) {
	cfg := testhelpers.Config(t)
	require.NoError(t, os.WriteFile(cfg.Paths.RawFile, []byte("OrderID,Price\nORD000001,1\n"), 0o644))

	_, err := newTestRunner(t, cfg).Run(context.Background(), RunOptions{SkipGenerate: true})

	var schemaErr *ordersdomain.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, cfg.Paths.RawFile, schemaErr.Path)
	assert.NoFileExists(t, cfg.Paths.CleanedFile)
}

func TestRunner_AsOfDefaultsToToday(t *testing.T) {
	cfg := testhelpers.Config(t)
	cfg.Cleaning.AsOf = ""

	r := newTestRunner(t, cfg)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), r.AsOf())
}

func TestNewRunner_InvalidConfig(t *testing.T) {
	cfg := testhelpers.Config(t)
	cfg.Generator.Records = 0

	_, err := NewRunner(cfg, sharedinfra.NopLogger())
	var fieldErr *config.ValidationError
	assert.True(t, errors.As(err, &fieldErr))
}
