package infrastructure

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_ReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "table.csv")

	err := WriteCSV(path, WriteOptions{
		Headers: []string{"Name", "Value"},
		Records: [][]string{{"Home & Garden", "1,5"}, {"Books", "2"}},
	})
	require.NoError(t, err)

	file, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Value"}, file.Header)
	assert.Equal(t, [][]string{{"Home & Garden", "1,5"}, {"Books", "2"}}, file.Rows)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestReadCSV_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, WriteCSV(path, WriteOptions{
		Headers:   []string{"OrderID"},
		Records:   [][]string{{"ORD000001"}},
		BOMPrefix: true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, data[:3])

	file, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"OrderID"}, file.Header)
}

func TestReadCSV_VariableLengthAndEmpty(t *testing.T) {
	dir := t.TempDir()

	ragged := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(ragged, []byte("a,b,c\n1,2\n1,2,3,4\n"), 0o644))
	file, err := ReadCSV(ragged)
	require.NoError(t, err)
	assert.Len(t, file.Rows, 2)
	assert.Len(t, file.Rows[0], 2)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	file, err = ReadCSV(empty)
	require.NoError(t, err)
	assert.Nil(t, file.Header)

	_, err = ReadCSV(filepath.Join(dir, "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadCSVWith_SkipMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n3,x\"y\n5,6\n"), 0o644))

	// strict: une seule ligne illisible fait échouer la lecture
	_, err := ReadCSV(path)
	var parseErr *csv.ParseError
	require.True(t, errors.As(err, &parseErr))

	file, err := ReadCSVWith(path, ReadOptions{SkipMalformed: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}, {"5", "6"}}, file.Rows)
	assert.Equal(t, []int{3}, file.MalformedLines)

	file, err = ReadCSVWith(path, ReadOptions{LazyQuotes: true, SkipMalformed: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}, {"3", `x"y`}, {"5", "6"}}, file.Rows)
	assert.Empty(t, file.MalformedLines)
}

func TestWriteFileAtomic_KeepsPreviousFileOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	boom := errors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file removed")
}
