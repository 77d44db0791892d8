package testhelpers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	catalogdomain "salesdash/internal/catalog/domain"
	cleaningdomain "salesdash/internal/cleaning/domain"
	"salesdash/internal/config"
	ordersapp "salesdash/internal/orders/application"
	ordersdomain "salesdash/internal/orders/domain"
	shareddomain "salesdash/internal/shared/domain"
)

// AsOf date de référence fixe de tous les tests (DaysSinceOrder reproductible)
var AsOf = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

// ========================================
// Lignes brutes
// ========================================

// RawOption modifie une ligne brute construite par Raw
type RawOption func(*ordersdomain.RawRecord)

// Raw construit une ligne brute complète et cohérente (revenue = quantité × prix).
// Les options remplacent les cellules voulues, y compris par "" pour une valeur manquante.
func Raw(orderID string, quantity int, price float64, opts ...RawOption) ordersdomain.RawRecord {
	rec := ordersdomain.RawRecord{
		OrderID:     orderID,
		ProductID:   "PROD00001",
		ProductName: "Smartphone",
		Category:    catalogdomain.Electronics,
		Quantity:    strconv.Itoa(quantity),
		Price:       strconv.FormatFloat(price, 'f', 2, 64),
		Revenue:     strconv.FormatFloat(shareddomain.RoundCents(float64(quantity)*price), 'f', 2, 64),
		OrderDate:   "2024-06-15",
		CustomerID:  "CUST0001",
		Region:      "Europe",
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

// WithQuantity remplace la cellule Quantity telle quelle
func WithQuantity(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.Quantity = cell }
}

// WithPrice remplace la cellule Price telle quelle
func WithPrice(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.Price = cell }
}

// WithRevenue remplace la cellule Revenue telle quelle
func WithRevenue(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.Revenue = cell }
}

// WithDate remplace la cellule OrderDate
func WithDate(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.OrderDate = cell }
}

// WithCategory remplace la catégorie
func WithCategory(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.Category = cell }
}

// WithRegion remplace la région
func WithRegion(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.Region = cell }
}

// WithCustomer remplace le client
func WithCustomer(cell string) RawOption {
	return func(r *ordersdomain.RawRecord) { r.CustomerID = cell }
}

// ScenarioRecords table de référence: une ligne valide, son doublon exact,
// une quantité négative et une quantité manquante.
// Le nettoyage doit en garder exactement deux.
func ScenarioRecords() []ordersdomain.RawRecord {
	valid := Raw("ORD000001", 2, 10.00)
	return []ordersdomain.RawRecord{
		valid,
		valid,
		Raw("ORD000002", -1, 5.00),
		Raw("ORD000003", 0, 8.00, WithQuantity(""), WithRevenue("")),
	}
}

// ========================================
// Configuration
// ========================================

// Config configuration par défaut dont tous les chemins pointent dans un répertoire temporaire
func Config(tb testing.TB) config.Config {
	tb.Helper()

	dir := tb.TempDir()
	cfg := config.Default()
	cfg.Generator.Records = 300
	cfg.Cleaning.AsOf = AsOf.Format(shareddomain.DateLayout)
	cfg.Paths = config.PathsConfig{
		RawFile:      filepath.Join(dir, "raw_ecommerce_data.csv"),
		CleanedFile:  filepath.Join(dir, "cleaned_ecommerce_data.csv"),
		OutputDir:    filepath.Join(dir, "analysis_output"),
		WorkbookFile: filepath.Join(dir, "analysis_output", "dashboard.xlsx"),
		ManifestFile: filepath.Join(dir, "analysis_output", "manifest.json"),
	}
	cfg.Warehouse.DSN = filepath.Join(dir, "salesdash.db")
	return cfg
}

// Policy politique de nettoyage par défaut à la date AsOf
func Policy(tb testing.TB) cleaningdomain.Policy {
	tb.Helper()

	c := config.Default().Cleaning
	policy, err := cleaningdomain.NewPolicy(c.OutlierMultiplier, c.Margins, c.DefaultMargin, c.UnknownValue, AsOf)
	if err != nil {
		tb.Fatalf("Failed to build policy: %v", err)
	}
	return policy
}

// ========================================
// Jeux de données synthétiques
// ========================================

// Synthesize génère `records` lignes brutes avec le catalogue par défaut
func Synthesize(tb testing.TB, records int, seed int64) []ordersdomain.RawRecord {
	tb.Helper()

	cfg := config.Default().Generator
	cfg.Records = records
	cfg.Seed = seed
	rows, err := ordersapp.NewSynthesizer(catalogdomain.DefaultCatalog()).Generate(cfg, AsOf)
	if err != nil {
		tb.Fatalf("Failed to synthesize %d records: %v", records, err)
	}
	return rows
}

// Transaction construit une transaction nettoyée avec ses champs dérivés
func Transaction(orderID, productID, category, region string, quantity int, price float64, date string) ordersdomain.Transaction {
	orderDate, err := time.Parse(shareddomain.DateLayout, date)
	if err != nil {
		panic(fmt.Sprintf("testhelpers: bad date %q: %v", date, err))
	}
	tx := ordersdomain.Transaction{
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: "Product " + productID,
		Category:    category,
		Quantity:    quantity,
		Price:       price,
		OrderDate:   orderDate,
		CustomerID:  "CUST0001",
		Region:      region,
	}
	tx.RecomputeRevenue()
	tx.Derive(0.3, AsOf)
	return tx
}
