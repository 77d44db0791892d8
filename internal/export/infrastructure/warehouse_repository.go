package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	shareddomain "salesdash/internal/shared/domain"
	sharedinfra "salesdash/internal/shared/infrastructure"
)

// dialect différences SQL entre sqlite3 et postgres
type dialect struct {
	types map[shareddomain.ColumnKind]string
	// placeholder du n-ième paramètre (1-based)
	placeholder func(n int) string
}

var dialects = map[string]dialect{
	sharedinfra.DriverSQLite: {
		types: map[shareddomain.ColumnKind]string{
			shareddomain.KindText:    "TEXT",
			shareddomain.KindInteger: "INTEGER",
			shareddomain.KindDecimal: "REAL",
		},
		placeholder: func(int) string { return "?" },
	},
	sharedinfra.DriverPostgres: {
		types: map[shareddomain.ColumnKind]string{
			shareddomain.KindText:    "TEXT",
			shareddomain.KindInteger: "BIGINT",
			shareddomain.KindDecimal: "DOUBLE PRECISION",
		},
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	},
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// WarehouseRepository charge des tables d'artefacts dans une base SQL
type WarehouseRepository struct {
	db      *sql.DB
	uow     sharedinfra.UnitOfWork
	dialect dialect
}

// NewWarehouseRepository crée un repository pour le driver donné
func NewWarehouseRepository(db *sql.DB, driver string) (*WarehouseRepository, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported warehouse driver %q", driver)
	}
	return &WarehouseRepository{
		db:      db,
		uow:     sharedinfra.NewUnitOfWork(db),
		dialect: d,
	}, nil
}

// ReplaceTables remplace chaque table (drop, create, insert) dans une seule transaction:
// une erreur laisse la base dans l'état de la publication précédente.
func (r *WarehouseRepository) ReplaceTables(ctx context.Context, tables []shareddomain.Table) error {
	return r.uow.Execute(ctx, func(tx *sql.Tx) error {
		for _, table := range tables {
			if err := r.replaceTable(ctx, tx, table); err != nil {
				return fmt.Errorf("table %s: %w", table.Name, err)
			}
		}
		return nil
	})
}

func (r *WarehouseRepository) replaceTable(ctx context.Context, tx *sql.Tx, table shareddomain.Table) error {
	name := quoteIdent(table.Name)

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.createStatement(table)); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if table.Len() == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, r.insertStatement(table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	for i, row := range table.Rows {
		for c, column := range table.Columns {
			v, err := sqlValue(column.Kind, row[c])
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i+1, column.Name, err)
			}
			args[c] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *WarehouseRepository) createStatement(table shareddomain.Table) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = quoteIdent(c.Name) + " " + r.dialect.types[c.Kind]
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
}

func (r *WarehouseRepository) insertStatement(table shareddomain.Table) string {
	cols := make([]string, len(table.Columns))
	params := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = quoteIdent(c.Name)
		params[i] = r.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table.Name), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// CountRows nombre de lignes d'une table publiée
func (r *WarehouseRepository) CountRows(ctx context.Context, table string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func sqlValue(kind shareddomain.ColumnKind, cell string) (any, error) {
	switch kind {
	case shareddomain.KindInteger:
		return strconv.ParseInt(cell, 10, 64)
	case shareddomain.KindDecimal:
		return strconv.ParseFloat(cell, 64)
	default:
		return cell, nil
	}
}
