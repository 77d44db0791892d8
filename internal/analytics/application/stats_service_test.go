package application

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/analytics/domain"
	cleaningapp "salesdash/internal/cleaning/application"
	ordersdomain "salesdash/internal/orders/domain"
	"salesdash/internal/testhelpers"
)

func cleanedDataset(tb testing.TB, records int) []ordersdomain.Transaction {
	tb.Helper()

	txs, _ := cleaningapp.NewCleaner(testhelpers.Policy(tb)).Clean(testhelpers.Synthesize(tb, records, 42))
	return txs
}

// ========================================
// Propriétés sur un jeu synthétique
// ========================================

func TestStatsService_Properties(t *testing.T) {
	txs := cleanedDataset(t, 1200)
	stats := NewStatsService(10).Compute(txs)

	t.Run("category share sums to 100", func(t *testing.T) {
		sum := 0.0
		for _, c := range stats.Categories {
			sum += c.RevenuePercentage
		}
		assert.InDelta(t, 100.0, sum, 1e-3)
	})

	t.Run("region share sums to 100", func(t *testing.T) {
		sum := 0.0
		for _, r := range stats.Regions {
			sum += r.RevenuePercentage
		}
		assert.InDelta(t, 100.0, sum, 1e-3)
	})

	t.Run("aov consistency", func(t *testing.T) {
		s := stats.Summary
		assert.InDelta(t, s.TotalRevenue/float64(s.TotalOrders), s.AverageOrderValue, 1e-9)

		weighted, orders := 0.0, 0
		for _, a := range stats.AOVByCategory {
			weighted += a.AverageOrderValue * float64(a.OrderCount)
			orders += a.OrderCount
		}
		assert.Equal(t, s.TotalOrders, orders)
		assert.InDelta(t, s.AverageOrderValue, weighted/float64(orders), 1e-6)
	})

	t.Run("summary totals", func(t *testing.T) {
		revenue, quantity := 0.0, 0
		for _, tx := range txs {
			revenue += tx.Revenue
			quantity += tx.Quantity
		}
		assert.InDelta(t, revenue, stats.Summary.TotalRevenue, 1e-6)
		assert.Equal(t, stats.Summary.TotalRevenue, stats.Summary.TotalSales)
		assert.Equal(t, quantity, stats.Summary.TotalQuantity)
		assert.Equal(t, len(txs), stats.Summary.TotalOrders)
		assert.LessOrEqual(t, stats.Summary.TotalCustomers, 501)
	})

	t.Run("top products sorted and truncated", func(t *testing.T) {
		require.Len(t, stats.TopByQuantity, 10)
		require.Len(t, stats.TopByRevenue, 10)
		for i := 1; i < 10; i++ {
			assert.GreaterOrEqual(t, stats.TopByQuantity[i-1].TotalQuantity, stats.TopByQuantity[i].TotalQuantity)
			assert.GreaterOrEqual(t, stats.TopByRevenue[i-1].TotalRevenue, stats.TopByRevenue[i].TotalRevenue)
		}
	})

	t.Run("trends are chronological", func(t *testing.T) {
		require.NotEmpty(t, stats.Monthly)
		for i := 1; i < len(stats.Monthly); i++ {
			assert.Less(t, stats.Monthly[i-1].YearMonth, stats.Monthly[i].YearMonth)
		}
		for i := 1; i < len(stats.Quarterly); i++ {
			prev, cur := stats.Quarterly[i-1], stats.Quarterly[i]
			assert.Less(t, prev.Year*10+prev.Quarter, cur.Year*10+cur.Quarter)
		}
	})

	t.Run("groups sorted descending", func(t *testing.T) {
		for i := 1; i < len(stats.Categories); i++ {
			assert.GreaterOrEqual(t, stats.Categories[i-1].TotalRevenue, stats.Categories[i].TotalRevenue)
		}
		for i := 1; i < len(stats.Regions); i++ {
			assert.GreaterOrEqual(t, stats.Regions[i-1].TotalRevenue, stats.Regions[i].TotalRevenue)
		}
		for i := 1; i < len(stats.AOVByRegion); i++ {
			assert.GreaterOrEqual(t, stats.AOVByRegion[i-1].AverageOrderValue, stats.AOVByRegion[i].AverageOrderValue)
		}
	})
}

// ========================================
// Scénarios
// ========================================

func TestStatsService_TopWithFewerProducts(t *testing.T) {
	var txs []ordersdomain.Transaction
	for i := 1; i <= 5; i++ {
		product := fmt.Sprintf("PROD%05d", i)
		txs = append(txs, testhelpers.Transaction(fmt.Sprintf("ORD%06d", i), product, "Books", "Europe", 1, float64(i*10), "2024-01-15"))
	}

	stats := NewStatsService(10).Compute(txs)

	require.Len(t, stats.TopByRevenue, 5)
	assert.Equal(t, "PROD00005", stats.TopByRevenue[0].ProductID)
	assert.Equal(t, "PROD00001", stats.TopByRevenue[4].ProductID)
	assert.Len(t, stats.TopByQuantity, 5)
}

func TestStatsService_AbsentRegion(t *testing.T) {
	txs := []ordersdomain.Transaction{
		testhelpers.Transaction("ORD000001", "PROD00001", "Books", "Europe", 1, 10, "2024-01-15"),
		testhelpers.Transaction("ORD000002", "PROD00002", "Books", "Africa", 2, 10, "2024-02-15"),
	}

	stats := NewStatsService(10).Compute(txs)

	for _, r := range stats.Regions {
		assert.NotEqual(t, "South", r.Region)
	}
	assert.Len(t, stats.Regions, 2)
	assert.Equal(t, "Africa", stats.Regions[0].Region)
}

func TestStatsService_EmptyTable(t *testing.T) {
	stats := NewStatsService(10).Compute(nil)

	assert.Equal(t, domain.Summary{}, stats.Summary)
	assert.Empty(t, stats.TopByRevenue)
	assert.Empty(t, stats.Categories)
	assert.Empty(t, stats.Monthly)
	assert.Empty(t, stats.Regions)
	assert.Empty(t, stats.AOVByCategory)
}

func TestStatsService_DistinctOrdersAndTies(t *testing.T) {
	// même commande sur deux lignes: une seule commande comptée
	txs := []ordersdomain.Transaction{
		testhelpers.Transaction("ORD000001", "PROD00002", "Books", "Europe", 1, 10, "2024-03-01"),
		testhelpers.Transaction("ORD000001", "PROD00001", "Clothing", "Europe", 1, 10, "2024-03-01"),
		testhelpers.Transaction("ORD000002", "PROD00003", "Books", "Asia Pacific", 1, 10, "2024-03-02"),
	}

	stats := NewStatsService(2).Compute(txs)

	assert.Equal(t, 2, stats.Summary.TotalOrders)
	assert.Equal(t, 15.0, stats.Summary.AverageOrderValue)
	require.Len(t, stats.TopByRevenue, 2)
	assert.Equal(t, "PROD00002", stats.TopByRevenue[0].ProductID, "ties keep first appearance")
	assert.Equal(t, "PROD00001", stats.TopByRevenue[1].ProductID)

	require.Len(t, stats.Categories, 2)
	books := stats.Categories[0]
	assert.Equal(t, "Books", books.Category)
	assert.Equal(t, 2, books.OrderCount)
	assert.Equal(t, 10.0, books.AvgRevenue)
	assert.InDelta(t, 66.666667, books.RevenuePercentage, 1e-6)
	assert.Equal(t, "66.666667", books.ToCSVRow()[6])

	require.Len(t, stats.Quarterly, 1)
	assert.Equal(t, "2024-Q1", stats.Quarterly[0].YearQuarter)
}

func TestStatsService_ZeroRevenueShares(t *testing.T) {
	// prix nuls valides: aucune part calculable, toutes les parts valent 0
	txs := []ordersdomain.Transaction{
		testhelpers.Transaction("ORD000001", "PROD00001", "Books", "Europe", 2, 0, "2024-03-01"),
		testhelpers.Transaction("ORD000002", "PROD00002", "Clothing", "Africa", 1, 0, "2024-03-02"),
	}

	stats := NewStatsService(10).Compute(txs)

	assert.Zero(t, stats.Summary.TotalRevenue)
	require.Len(t, stats.Categories, 2)
	for _, c := range stats.Categories {
		assert.Zero(t, c.RevenuePercentage, c.Category)
		assert.Equal(t, "0.000000", c.ToCSVRow()[6])
	}
	require.Len(t, stats.Regions, 2)
	for _, r := range stats.Regions {
		assert.Zero(t, r.RevenuePercentage, r.Region)
	}
	for _, a := range stats.AOVByCategory {
		assert.Zero(t, a.AverageOrderValue, a.Key)
	}
}

func TestStatsService_TotalProfitDoesNotDrift(t *testing.T) {
	txs := make([]ordersdomain.Transaction, 200)
	for i := range txs {
		txs[i] = testhelpers.Transaction(fmt.Sprintf("ORD%06d", i+1), "PROD00001", "Electronics", "Europe", 3, 19.99, "2024-03-01")
	}

	stats := NewStatsService(10).Compute(txs)

	// 200 × 59.97 × 0.3; un arrondi par ligne donnerait 3598.00
	assert.InDelta(t, 3598.2, stats.Summary.TotalProfit, 1e-6)
	assert.Equal(t, "3598.20", stats.Summary.MetricRows()[2][1])
}

func TestAverageOrderValueAndPercentage(t *testing.T) {
	assert.Zero(t, domain.AverageOrderValue(100, 0))
	assert.Equal(t, 25.0, domain.AverageOrderValue(100, 4))
	assert.Zero(t, domain.Percentage(5, 0))
	assert.Equal(t, 50.0, domain.Percentage(5, 10))
}

// ========================================
// Benchmarks
// ========================================

// BenchmarkStatsService_Compute mesure toutes les agrégations sur le jeu nettoyé par défaut
func BenchmarkStatsService_Compute(b *testing.B) {
	txs := cleanedDataset(b, 1200)
	service := NewStatsService(10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		stats := service.Compute(txs)
		b.ReportMetric(float64(stats.Summary.TotalOrders), "orders")
	}
}
