package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"salesdash/internal/orders/domain"
	shareddomain "salesdash/internal/shared/domain"
)

// TransactionParquet structure colonnaire de la table nettoyée
type TransactionParquet struct {
	OrderID        string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductID      string  `parquet:"name=product_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductName    string  `parquet:"name=product_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category       string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity       int32   `parquet:"name=quantity, type=INT32"`
	Price          float64 `parquet:"name=price, type=DOUBLE"`
	Revenue        float64 `parquet:"name=revenue, type=DOUBLE"`
	OrderDate      string  `parquet:"name=order_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerID     string  `parquet:"name=customer_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region         string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8"`
	TotalSales     float64 `parquet:"name=total_sales, type=DOUBLE"`
	ProfitMargin   float64 `parquet:"name=profit_margin, type=DOUBLE"`
	Profit         float64 `parquet:"name=profit, type=DOUBLE"`
	Year           int32   `parquet:"name=year, type=INT32"`
	Month          int32   `parquet:"name=month, type=INT32"`
	Quarter        int32   `parquet:"name=quarter, type=INT32"`
	MonthName      string  `parquet:"name=month_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	YearMonth      string  `parquet:"name=year_month, type=BYTE_ARRAY, convertedtype=UTF8"`
	DaysSinceOrder int32   `parquet:"name=days_since_order, type=INT32"`
}

func toParquet(t *domain.Transaction) TransactionParquet {
	return TransactionParquet{
		OrderID:        t.OrderID,
		ProductID:      t.ProductID,
		ProductName:    t.ProductName,
		Category:       t.Category,
		Quantity:       int32(t.Quantity),
		Price:          t.Price,
		Revenue:        t.Revenue,
		OrderDate:      t.OrderDate.Format(shareddomain.DateLayout),
		CustomerID:     t.CustomerID,
		Region:         t.Region,
		TotalSales:     t.TotalSales,
		ProfitMargin:   t.ProfitMargin,
		Profit:         t.Profit,
		Year:           int32(t.Year),
		Month:          int32(t.Month),
		Quarter:        int32(t.Quarter),
		MonthName:      t.MonthName,
		YearMonth:      t.YearMonth,
		DaysSinceOrder: int32(t.DaysSinceOrder),
	}
}

// ParquetWriter écrit une copie colonnaire de la table nettoyée (compression Snappy)
type ParquetWriter struct {
	parallelism int64
}

// NewParquetWriter crée un writer Parquet
func NewParquetWriter() *ParquetWriter {
	return &ParquetWriter{parallelism: 4}
}

// Write écrit txs dans path. Écriture dans un temporaire puis rename, comme pour les CSV.
func (w *ParquetWriter) Write(path string, txs []domain.Transaction) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp := path + ".tmp"

	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fw.Close()
			_ = os.Remove(tmp)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(TransactionParquet), w.parallelism)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range txs {
		if err = pw.Write(toParquet(&txs[i])); err != nil {
			return fmt.Errorf("write parquet row %d: %w", i+1, err)
		}
	}
	if err = pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	if err = fw.Close(); err != nil {
		return fmt.Errorf("close parquet file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename parquet file: %w", err)
	}
	return nil
}

// ReadParquet relit un fichier écrit par ParquetWriter
func ReadParquet(path string) ([]TransactionParquet, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(TransactionParquet), 4)
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]TransactionParquet, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows, nil
}
