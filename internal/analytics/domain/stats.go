package domain

import (
	"strconv"
)

// Stats ensemble des tables de synthèse calculées sur la table nettoyée.
// Chaque table est une fonction pure de cette table: aucune ne dépend d'une autre.
type Stats struct {
	Summary       Summary
	TopByQuantity []ProductStats
	TopByRevenue  []ProductStats
	Categories    []CategoryStats
	Monthly       []MonthlyTrend
	Quarterly     []QuarterlyTrend
	Regions       []RegionStats
	AOVByCategory []AOVStats
	AOVByRegion   []AOVStats
}

// Summary indicateurs globaux
type Summary struct {
	TotalRevenue      float64
	TotalSales        float64
	TotalProfit       float64
	TotalOrders       int
	TotalQuantity     int
	TotalCustomers    int
	AverageOrderValue float64
}

// MetricRows lignes (Metric, Value) de summary.csv
func (s Summary) MetricRows() [][]string {
	return [][]string{
		{"TotalRevenue", money(s.TotalRevenue)},
		{"TotalSales", money(s.TotalSales)},
		{"TotalProfit", money(s.TotalProfit)},
		{"TotalOrders", strconv.Itoa(s.TotalOrders)},
		{"TotalQuantity", strconv.Itoa(s.TotalQuantity)},
		{"TotalCustomers", strconv.Itoa(s.TotalCustomers)},
		{"AverageOrderValue", money(s.AverageOrderValue)},
	}
}

// ProductStats ventes cumulées d'un produit
type ProductStats struct {
	ProductID     string
	ProductName   string
	Category      string
	TotalQuantity int
	TotalRevenue  float64
	OrderCount    int
}

// ToCSVRow convertit en ligne CSV
func (p ProductStats) ToCSVRow() []string {
	return []string{
		p.ProductID,
		p.ProductName,
		p.Category,
		strconv.Itoa(p.TotalQuantity),
		money(p.TotalRevenue),
		strconv.Itoa(p.OrderCount),
	}
}

// CategoryStats ventes d'une catégorie et sa part du chiffre d'affaires total
type CategoryStats struct {
	Category          string
	TotalRevenue      float64
	AvgRevenue        float64
	TotalQuantity     int
	OrderCount        int
	TotalProfit       float64
	RevenuePercentage float64
}

func (c CategoryStats) ToCSVRow() []string {
	return []string{
		c.Category,
		money(c.TotalRevenue),
		money(c.AvgRevenue),
		strconv.Itoa(c.TotalQuantity),
		strconv.Itoa(c.OrderCount),
		money(c.TotalProfit),
		percent(c.RevenuePercentage),
	}
}

// MonthlyTrend ventes d'un mois (YYYY-MM)
type MonthlyTrend struct {
	YearMonth     string
	TotalRevenue  float64
	TotalQuantity int
	OrderCount    int
	TotalProfit   float64
}

func (m MonthlyTrend) ToCSVRow() []string {
	return []string{
		m.YearMonth,
		money(m.TotalRevenue),
		strconv.Itoa(m.TotalQuantity),
		strconv.Itoa(m.OrderCount),
		money(m.TotalProfit),
	}
}

// QuarterlyTrend ventes d'un trimestre
type QuarterlyTrend struct {
	Year          int
	Quarter       int
	YearQuarter   string
	TotalRevenue  float64
	TotalQuantity int
	OrderCount    int
	TotalProfit   float64
}

func (q QuarterlyTrend) ToCSVRow() []string {
	return []string{
		strconv.Itoa(q.Year),
		strconv.Itoa(q.Quarter),
		q.YearQuarter,
		money(q.TotalRevenue),
		strconv.Itoa(q.TotalQuantity),
		strconv.Itoa(q.OrderCount),
		money(q.TotalProfit),
	}
}

// RegionStats ventes d'une région
type RegionStats struct {
	Region            string
	TotalRevenue      float64
	TotalQuantity     int
	OrderCount        int
	CustomerCount     int
	TotalProfit       float64
	RevenuePercentage float64
}

func (r RegionStats) ToCSVRow() []string {
	return []string{
		r.Region,
		money(r.TotalRevenue),
		strconv.Itoa(r.TotalQuantity),
		strconv.Itoa(r.OrderCount),
		strconv.Itoa(r.CustomerCount),
		money(r.TotalProfit),
		percent(r.RevenuePercentage),
	}
}

// AOVStats panier moyen d'un groupe (catégorie ou région)
type AOVStats struct {
	Key               string
	OrderCount        int
	TotalRevenue      float64
	AverageOrderValue float64
}

func (a AOVStats) ToCSVRow() []string {
	return []string{
		a.Key,
		strconv.Itoa(a.OrderCount),
		money(a.TotalRevenue),
		money(a.AverageOrderValue),
	}
}

// AverageOrderValue chiffre d'affaires / nombre de commandes; 0 pour un groupe sans commande
func AverageOrderValue(revenue float64, orders int) float64 {
	if orders == 0 {
		return 0
	}
	return revenue / float64(orders)
}

// Percentage part de total en pourcentage; 0 si le total est nul
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// percent: 6 décimales pour que la somme des parts reste à 100 à 1e-3 près
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
