package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeaderIndex(t *testing.T) {
	header := []string{" Region", "OrderID", "Extra", "OrderDate"}

	h, err := NewHeaderIndex("raw.csv", header, []string{ColOrderID, ColOrderDate, ColRegion})
	require.NoError(t, err)
	assert.Equal(t, 0, h[ColRegion])
	assert.Equal(t, 1, h[ColOrderID])

	row := []string{"Europe", "ORD000001"}
	assert.Equal(t, "ORD000001", h.Cell(row, ColOrderID))
	assert.Equal(t, "", h.Cell(row, ColOrderDate), "short row")
	assert.Equal(t, "", h.Cell(row, ColPrice), "unknown column")
}

func TestNewHeaderIndex_Errors(t *testing.T) {
	_, err := NewHeaderIndex("raw.csv", nil, RawColumns())
	assert.ErrorIs(t, err, ErrEmptyHeader)

	_, err = NewHeaderIndex("raw.csv", []string{ColOrderID, ColPrice}, RawColumns())
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "raw.csv", schemaErr.Path)
	assert.Contains(t, schemaErr.Missing, ColQuantity)
	assert.NotContains(t, schemaErr.Missing, ColPrice)
	assert.Len(t, schemaErr.Missing, 8)
}

func TestColumns(t *testing.T) {
	assert.Len(t, RawColumns(), 10)
	assert.Len(t, DerivedColumns(), 9)

	cleaned := CleanedColumns()
	require.Len(t, cleaned, 19)
	assert.Equal(t, ColOrderID, cleaned[0])
	assert.Equal(t, ColDaysSinceOrder, cleaned[18])
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "  ", "NaN", "nan", "NULL", "null", "NA", "N/A", "None", " NaN "} {
		assert.True(t, IsMissing(cell), "%q", cell)
	}
	for _, cell := range []string{"0", "Nancy", "none", "-", "Unknown"} {
		assert.False(t, IsMissing(cell), "%q", cell)
	}
}

func TestRawRecord_FromRowAndKey(t *testing.T) {
	header := RawColumns()
	h, err := NewHeaderIndex("raw.csv", header, header)
	require.NoError(t, err)

	row := []string{"ORD000001", "PROD00001", "Smartphone", "Electronics", "2", "10.00", "20.00", "2024-03-15", "CUST0001", "Europe"}
	r := RawRecordFromRow(h, row)

	assert.Equal(t, row, r.Values())
	assert.Equal(t, strings.Join(row, "\x1f"), r.Key())

	other := r
	other.Region = "Asia Pacific"
	assert.NotEqual(t, r.Key(), other.Key())
}

func TestTransaction_Derive(t *testing.T) {
	tx := Transaction{
		Quantity:  3,
		Price:     19.99,
		OrderDate: time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC),
	}
	tx.RecomputeRevenue()
	tx.Derive(0.25, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 59.97, tx.Revenue)
	assert.Equal(t, 59.97, tx.TotalSales)
	assert.Equal(t, 0.25, tx.ProfitMargin)
	assert.InDelta(t, 14.9925, tx.Profit, 1e-9, "profit is not rounded to cents")
	assert.Equal(t, 2024, tx.Year)
	assert.Equal(t, 8, tx.Month)
	assert.Equal(t, 3, tx.Quarter)
	assert.Equal(t, "August", tx.MonthName)
	assert.Equal(t, "2024-08", tx.YearMonth)
	assert.Equal(t, "2024-Q3", tx.YearQuarter())
	assert.Equal(t, 12, tx.DaysSinceOrder)
}

func TestTransaction_CSVRoundTrip(t *testing.T) {
	tx := Transaction{
		OrderID:     "ORD000042",
		ProductID:   "PROD00031",
		ProductName: "Novel",
		Category:    "Books",
		Quantity:    2,
		Price:       12.5,
		OrderDate:   time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		CustomerID:  "CUST0007",
		Region:      "Africa",
	}
	tx.RecomputeRevenue()
	tx.Derive(0.4, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC))

	row := tx.ToCSVRow()
	require.Len(t, row, 19)
	assert.Equal(t, "12.50", row[5])
	assert.Equal(t, "25.00", row[6])
	assert.Equal(t, "2023-01-31", row[7])
	assert.Equal(t, "0.4", row[11])

	h, err := NewHeaderIndex("cleaned.csv", CleanedColumns(), CleanedColumns())
	require.NoError(t, err)
	back, err := TransactionFromCSVRow(h, row)
	require.NoError(t, err)
	assert.Equal(t, tx, back)
}

func TestTransaction_ProfitKeepsFullPrecision(t *testing.T) {
	tx := Transaction{Quantity: 3, Price: 19.99, OrderDate: time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)}
	tx.RecomputeRevenue()
	tx.Derive(0.25, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))

	row := tx.ToCSVRow()
	assert.NotEqual(t, "14.99", row[12])

	h, err := NewHeaderIndex("cleaned.csv", CleanedColumns(), CleanedColumns())
	require.NoError(t, err)
	back, err := TransactionFromCSVRow(h, row)
	require.NoError(t, err)
	assert.Equal(t, tx.Profit, back.Profit)
}

func TestTransactionFromCSVRow_InvalidCell(t *testing.T) {
	h, err := NewHeaderIndex("cleaned.csv", CleanedColumns(), CleanedColumns())
	require.NoError(t, err)

	tx := Transaction{OrderDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	row := tx.ToCSVRow()
	row[4] = "two"
	_, err = TransactionFromCSVRow(h, row)
	assert.ErrorContains(t, err, "column Quantity")

	row = tx.ToCSVRow()
	row[7] = "01/01/2024"
	_, err = TransactionFromCSVRow(h, row)
	assert.ErrorContains(t, err, "column OrderDate")
}

// BenchmarkTransaction_ToCSVRow mesure le formatage d'une ligne nettoyée
func BenchmarkTransaction_ToCSVRow(b *testing.B) {
	tx := Transaction{
		OrderID: "ORD000001", ProductID: "PROD00001", ProductName: "Laptop", Category: "Electronics",
		Quantity: 2, Price: 1299.99, OrderDate: time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC),
		CustomerID: "CUST0001", Region: "Europe",
	}
	tx.RecomputeRevenue()
	tx.Derive(0.25, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = tx.ToCSVRow()
	}
}
