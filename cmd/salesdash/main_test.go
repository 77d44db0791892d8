package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	dir := t.TempDir()

	out, err := execute(t,
		"run", "--publish",
		"--env-file", filepath.Join(dir, "absent.env"),
		"--as-of", "2024-12-31",
		"--records", "150",
		"--seed", "11",
		"--log-level", "error",
		"--raw", filepath.Join(dir, "raw.csv"),
		"--cleaned", filepath.Join(dir, "cleaned.csv"),
		"--output-dir", filepath.Join(dir, "out"),
		"--workbook", filepath.Join(dir, "out", "dashboard.xlsx"),
		"--manifest", filepath.Join(dir, "out", "manifest.json"),
		"--dsn", filepath.Join(dir, "salesdash.db"),
	)
	require.NoError(t, err)

	assert.Contains(t, out, "✅ Run ")
	assert.Contains(t, out, "publish")
	assert.Equal(t, 150, cfg.Generator.Records)
	assert.Equal(t, int64(11), cfg.Generator.Seed)
	assert.Equal(t, "2024-12-31", cfg.Cleaning.AsOf)
	assert.FileExists(t, filepath.Join(dir, "out", "dashboard.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "salesdash.db"))
	assert.FileExists(t, filepath.Join(dir, "out", "manifest.json"))
}

func TestInvalidConfigurationFails(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	dir := t.TempDir()

	_, err := execute(t,
		"generate",
		"--env-file", filepath.Join(dir, "absent.env"),
		"--driver", "mysql",
		"--top-n", "0",
		"--raw", filepath.Join(dir, "raw.csv"),
	)

	var fieldErr *config.ValidationError
	require.ErrorAs(t, err, &fieldErr)
	assert.ErrorContains(t, err, "warehouse.driver")
	assert.ErrorContains(t, err, "analysis.top_n")
	assert.NoFileExists(t, filepath.Join(dir, "raw.csv"))
}
