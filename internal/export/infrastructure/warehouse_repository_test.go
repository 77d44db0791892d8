package infrastructure

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

func openWarehouse(t *testing.T) (*WarehouseRepository, *sql.DB) {
	t.Helper()

	db, err := sharedinfra.OpenDatabase(context.Background(), sharedinfra.DriverSQLite, filepath.Join(t.TempDir(), "warehouse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewWarehouseRepository(db, sharedinfra.DriverSQLite)
	require.NoError(t, err)
	return repo, db
}

func regionTable(rows ...[]string) shareddomain.Table {
	return shareddomain.Table{
		Name: "aov_by_region",
		Columns: []shareddomain.Column{
			{Name: "Region", Kind: shareddomain.KindText},
			{Name: "OrderCount", Kind: shareddomain.KindInteger},
			{Name: "AverageOrderValue", Kind: shareddomain.KindDecimal},
		},
		Rows: rows,
	}
}

func TestWarehouseRepository_ReplaceTables(t *testing.T) {
	repo, db := openWarehouse(t)
	ctx := context.Background()

	first := regionTable([]string{"Europe", "3", "12.50"}, []string{"Africa", "1", "7.25"})
	require.NoError(t, repo.ReplaceTables(ctx, []shareddomain.Table{first}))

	n, err := repo.CountRows(ctx, "aov_by_region")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var (
		orders int64
		aov    float64
	)
	require.NoError(t, db.QueryRow(`SELECT "OrderCount", "AverageOrderValue" FROM "aov_by_region" WHERE "Region" = ?`, "Europe").Scan(&orders, &aov))
	assert.Equal(t, int64(3), orders)
	assert.Equal(t, 12.5, aov)

	// une seconde publication remplace la table
	require.NoError(t, repo.ReplaceTables(ctx, []shareddomain.Table{regionTable([]string{"Asia Pacific", "4", "9.00"})}))
	n, err = repo.CountRows(ctx, "aov_by_region")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWarehouseRepository_EmptyTableIsCreated(t *testing.T) {
	repo, _ := openWarehouse(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceTables(ctx, []shareddomain.Table{regionTable()}))
	n, err := repo.CountRows(ctx, "aov_by_region")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWarehouseRepository_RollsBackOnBadCell(t *testing.T) {
	repo, _ := openWarehouse(t)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceTables(ctx, []shareddomain.Table{regionTable([]string{"Europe", "3", "12.50"})}))

	summary := shareddomain.Table{
		Name:    "summary",
		Columns: []shareddomain.Column{{Name: "Metric", Kind: shareddomain.KindText}, {Name: "Value", Kind: shareddomain.KindDecimal}},
		Rows:    [][]string{{"TotalRevenue", "10.00"}},
	}
	bad := regionTable([]string{"Europe", "three", "12.50"})

	err := repo.ReplaceTables(ctx, []shareddomain.Table{summary, bad})
	assert.ErrorContains(t, err, "column OrderCount")

	n, err := repo.CountRows(ctx, "aov_by_region")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "previous publication kept")
	_, err = repo.CountRows(ctx, "summary")
	assert.Error(t, err, "summary table rolled back")
}

func TestWarehouseRepository_Statements(t *testing.T) {
	table := regionTable()

	sqlite, err := NewWarehouseRepository(nil, sharedinfra.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "aov_by_region" ("Region" TEXT, "OrderCount" INTEGER, "AverageOrderValue" REAL)`, sqlite.createStatement(table))
	assert.Equal(t, `INSERT INTO "aov_by_region" ("Region", "OrderCount", "AverageOrderValue") VALUES (?, ?, ?)`, sqlite.insertStatement(table))

	pg, err := NewWarehouseRepository(nil, sharedinfra.DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "aov_by_region" ("Region" TEXT, "OrderCount" BIGINT, "AverageOrderValue" DOUBLE PRECISION)`, pg.createStatement(table))
	assert.Equal(t, `INSERT INTO "aov_by_region" ("Region", "OrderCount", "AverageOrderValue") VALUES ($1, $2, $3)`, pg.insertStatement(table))

	_, err = NewWarehouseRepository(nil, "mysql")
	assert.Error(t, err)
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
