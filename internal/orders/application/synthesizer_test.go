package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "salesdash/internal/catalog/domain"
	"salesdash/internal/config"
	"salesdash/internal/orders/application"
	"salesdash/internal/orders/domain"
	"salesdash/internal/testhelpers"
)

func generatorConfig(records int, missing, duplicate float64) config.GeneratorConfig {
	cfg := config.Default().Generator
	cfg.Records = records
	cfg.MissingRate = missing
	cfg.DuplicateRate = duplicate
	return cfg
}

func TestSynthesizer_Deterministic(t *testing.T) {
	s := application.NewSynthesizer(catalogdomain.DefaultCatalog())
	cfg := generatorConfig(200, 0.05, 0.02)

	first, err := s.Generate(cfg, testhelpers.AsOf)
	require.NoError(t, err)
	second, err := s.Generate(cfg, testhelpers.AsOf)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	cfg.Seed++
	other, err := s.Generate(cfg, testhelpers.AsOf)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestSynthesizer_DefectCounts(t *testing.T) {
	tests := []struct {
		name          string
		records       int
		missing       float64
		duplicate     float64
		wantRows      int
		wantMissing   int
		wantDuplicate int
	}{
		{"defaults", 1200, 0.05, 0.02, 1224, 60, 24},
		{"clean", 100, 0, 0, 100, 0, 0},
		{"floor", 99, 0.05, 0.02, 100, 4, 1},
	}

	s := application.NewSynthesizer(catalogdomain.DefaultCatalog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.Generate(generatorConfig(tt.records, tt.missing, tt.duplicate), testhelpers.AsOf)
			require.NoError(t, err)
			require.Len(t, rows, tt.wantRows)

			missing := 0
			for _, r := range rows[:tt.records] {
				if r.Price == "" || r.Quantity == "" || r.Region == "" {
					missing++
				}
			}
			assert.Equal(t, tt.wantMissing, missing)

			original := make(map[string]bool, tt.records)
			for _, r := range rows[:tt.records] {
				original[r.Key()] = true
			}
			for _, dup := range rows[tt.records:] {
				assert.True(t, original[dup.Key()], "duplicate %s copies an original row", dup.OrderID)
			}
		})
	}
}

func TestSynthesizer_RowShape(t *testing.T) {
	catalog := catalogdomain.DefaultCatalog()
	rows, err := application.NewSynthesizer(catalog).Generate(generatorConfig(500, 0, 0), testhelpers.AsOf)
	require.NoError(t, err)

	earliest := testhelpers.AsOf.AddDate(0, 0, -config.Default().Generator.HistoryDays)
	header := domain.RawColumns()
	h, err := domain.NewHeaderIndex("generated", header, header)
	require.NoError(t, err)

	for i, r := range rows {
		assert.Equal(t, domain.RawRecordFromRow(h, r.Values()), r)
		assert.Regexp(t, `^ORD\d{6}$`, r.OrderID)
		assert.Regexp(t, `^PROD\d{5}$`, r.ProductID)
		assert.Regexp(t, `^CUST\d{4}$`, r.CustomerID)
		assert.Contains(t, catalog.Regions(), r.Region)

		date, err := time.Parse("2006-01-02", r.OrderDate)
		require.NoError(t, err, "row %d", i)
		assert.False(t, date.Before(earliest))
		assert.True(t, date.Before(testhelpers.AsOf))

		products := catalog.ProductsOf(r.Category)
		require.NotEmpty(t, products, r.Category)
	}
	assert.Equal(t, "ORD000001", rows[0].OrderID)
	assert.Equal(t, "ORD000500", rows[499].OrderID)
}

func TestSynthesizer_RejectsInvalidConfig(t *testing.T) {
	s := application.NewSynthesizer(catalogdomain.DefaultCatalog())

	_, err := s.Generate(generatorConfig(0, 0, 0), testhelpers.AsOf)
	assert.Error(t, err)

	cfg := generatorConfig(10, 0, 0)
	cfg.HistoryDays = -1
	_, err = s.Generate(cfg, testhelpers.AsOf)
	assert.Error(t, err)
}

// BenchmarkSynthesizer_Generate mesure la génération du jeu par défaut
func BenchmarkSynthesizer_Generate(b *testing.B) {
	s := application.NewSynthesizer(catalogdomain.DefaultCatalog())
	cfg := config.Default().Generator

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := s.Generate(cfg, testhelpers.AsOf); err != nil {
			b.Fatal(err)
		}
	}
}
