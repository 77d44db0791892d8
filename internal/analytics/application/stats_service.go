package application

import (
	"cmp"
	"slices"

	"salesdash/internal/analytics/domain"
	ordersdomain "salesdash/internal/orders/domain"
)

// StatsService calcule les tables de synthèse à partir de la table nettoyée
type StatsService struct {
	topN int
}

// NewStatsService crée un service; topN borne les classements produits
func NewStatsService(topN int) *StatsService {
	if topN < 1 {
		topN = 10
	}
	return &StatsService{topN: topN}
}

// ============================================================================
// ACCUMULATEUR DE GROUPE
//
// Toutes les tables sont des group-by suivis de sommes et de comptages distincts.
// Un seul type d'accumulateur sert à tous les groupes:
//   - sommes de revenue, profit, quantité
//   - ensembles de commandes et de clients pour les comptages distincts
//
// L'ordre des clés est celui de première apparition dans la table: c'est lui
// qui départage les égalités lors des tris stables.
// ============================================================================
type accumulator struct {
	revenue   float64
	profit    float64
	quantity  int
	rows      int
	orders    map[string]struct{}
	customers map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		orders:    make(map[string]struct{}),
		customers: make(map[string]struct{}),
	}
}

func (a *accumulator) add(t *ordersdomain.Transaction) {
	a.revenue += t.Revenue
	a.profit += t.Profit
	a.quantity += t.Quantity
	a.rows++
	a.orders[t.OrderID] = struct{}{}
	a.customers[t.CustomerID] = struct{}{}
}

func (a *accumulator) orderCount() int {
	return len(a.orders)
}

// grouping groupe ordonné par première apparition
type grouping[K comparable] struct {
	keys   []K
	groups map[K]*accumulator
}

func groupBy[K comparable](txs []ordersdomain.Transaction, key func(*ordersdomain.Transaction) K) grouping[K] {
	g := grouping[K]{groups: make(map[K]*accumulator)}
	for i := range txs {
		k := key(&txs[i])
		acc, ok := g.groups[k]
		if !ok {
			acc = newAccumulator()
			g.groups[k] = acc
			g.keys = append(g.keys, k)
		}
		acc.add(&txs[i])
	}
	return g
}

// Compute calcule toutes les tables. Fonction totale: une table vide donne
// des tables vides et un résumé à zéro, jamais une division par zéro.
func (s *StatsService) Compute(txs []ordersdomain.Transaction) *domain.Stats {
	total := newAccumulator()
	for i := range txs {
		total.add(&txs[i])
	}

	byQuantity, byRevenue := s.topProducts(txs)

	return &domain.Stats{
		Summary: domain.Summary{
			TotalRevenue:      total.revenue,
			TotalSales:        total.revenue,
			TotalProfit:       total.profit,
			TotalOrders:       total.orderCount(),
			TotalQuantity:     total.quantity,
			TotalCustomers:    len(total.customers),
			AverageOrderValue: domain.AverageOrderValue(total.revenue, total.orderCount()),
		},
		TopByQuantity: byQuantity,
		TopByRevenue:  byRevenue,
		Categories:    s.categories(txs, total.revenue),
		Monthly:       s.monthly(txs),
		Quarterly:     s.quarterly(txs),
		Regions:       s.regions(txs, total.revenue),
		AOVByCategory: s.aov(txs, func(t *ordersdomain.Transaction) string { return t.Category }),
		AOVByRegion:   s.aov(txs, func(t *ordersdomain.Transaction) string { return t.Region }),
	}
}

type productKey struct {
	id, name, category string
}

// topProducts classements par quantité et par chiffre d'affaires, tronqués à topN
func (s *StatsService) topProducts(txs []ordersdomain.Transaction) (byQuantity, byRevenue []domain.ProductStats) {
	g := groupBy(txs, func(t *ordersdomain.Transaction) productKey {
		return productKey{t.ProductID, t.ProductName, t.Category}
	})

	products := make([]domain.ProductStats, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		products = append(products, domain.ProductStats{
			ProductID:     k.id,
			ProductName:   k.name,
			Category:      k.category,
			TotalQuantity: acc.quantity,
			TotalRevenue:  acc.revenue,
			OrderCount:    acc.orderCount(),
		})
	}

	byQuantity = slices.Clone(products)
	slices.SortStableFunc(byQuantity, func(a, b domain.ProductStats) int {
		return cmp.Compare(b.TotalQuantity, a.TotalQuantity)
	})
	byRevenue = slices.Clone(products)
	slices.SortStableFunc(byRevenue, func(a, b domain.ProductStats) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})

	return truncate(byQuantity, s.topN), truncate(byRevenue, s.topN)
}

func (s *StatsService) categories(txs []ordersdomain.Transaction, totalRevenue float64) []domain.CategoryStats {
	g := groupBy(txs, func(t *ordersdomain.Transaction) string { return t.Category })

	out := make([]domain.CategoryStats, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		out = append(out, domain.CategoryStats{
			Category:          k,
			TotalRevenue:      acc.revenue,
			AvgRevenue:        acc.revenue / float64(acc.rows),
			TotalQuantity:     acc.quantity,
			OrderCount:        acc.orderCount(),
			TotalProfit:       acc.profit,
			RevenuePercentage: domain.Percentage(acc.revenue, totalRevenue),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.CategoryStats) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})
	return out
}

// monthly tendances mensuelles, ordre chronologique (YYYY-MM se trie comme du texte)
func (s *StatsService) monthly(txs []ordersdomain.Transaction) []domain.MonthlyTrend {
	g := groupBy(txs, func(t *ordersdomain.Transaction) string { return t.YearMonth })

	out := make([]domain.MonthlyTrend, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		out = append(out, domain.MonthlyTrend{
			YearMonth:     k,
			TotalRevenue:  acc.revenue,
			TotalQuantity: acc.quantity,
			OrderCount:    acc.orderCount(),
			TotalProfit:   acc.profit,
		})
	}
	slices.SortStableFunc(out, func(a, b domain.MonthlyTrend) int {
		return cmp.Compare(a.YearMonth, b.YearMonth)
	})
	return out
}

type quarterKey struct {
	year, quarter int
}

func (s *StatsService) quarterly(txs []ordersdomain.Transaction) []domain.QuarterlyTrend {
	g := groupBy(txs, func(t *ordersdomain.Transaction) quarterKey {
		return quarterKey{t.Year, t.Quarter}
	})

	out := make([]domain.QuarterlyTrend, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		tx := ordersdomain.Transaction{Year: k.year, Quarter: k.quarter}
		out = append(out, domain.QuarterlyTrend{
			Year:          k.year,
			Quarter:       k.quarter,
			YearQuarter:   tx.YearQuarter(),
			TotalRevenue:  acc.revenue,
			TotalQuantity: acc.quantity,
			OrderCount:    acc.orderCount(),
			TotalProfit:   acc.profit,
		})
	}
	slices.SortStableFunc(out, func(a, b domain.QuarterlyTrend) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Quarter, b.Quarter))
	})
	return out
}

// regions une région sans ligne n'apparaît pas: les groupes naissent des lignes
func (s *StatsService) regions(txs []ordersdomain.Transaction, totalRevenue float64) []domain.RegionStats {
	g := groupBy(txs, func(t *ordersdomain.Transaction) string { return t.Region })

	out := make([]domain.RegionStats, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		out = append(out, domain.RegionStats{
			Region:            k,
			TotalRevenue:      acc.revenue,
			TotalQuantity:     acc.quantity,
			OrderCount:        acc.orderCount(),
			CustomerCount:     len(acc.customers),
			TotalProfit:       acc.profit,
			RevenuePercentage: domain.Percentage(acc.revenue, totalRevenue),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.RegionStats) int {
		return cmp.Compare(b.TotalRevenue, a.TotalRevenue)
	})
	return out
}

func (s *StatsService) aov(txs []ordersdomain.Transaction, key func(*ordersdomain.Transaction) string) []domain.AOVStats {
	g := groupBy(txs, key)

	out := make([]domain.AOVStats, 0, len(g.keys))
	for _, k := range g.keys {
		acc := g.groups[k]
		out = append(out, domain.AOVStats{
			Key:               k,
			OrderCount:        acc.orderCount(),
			TotalRevenue:      acc.revenue,
			AverageOrderValue: domain.AverageOrderValue(acc.revenue, acc.orderCount()),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.AOVStats) int {
		return cmp.Compare(b.AverageOrderValue, a.AverageOrderValue)
	})
	return out
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
