package domain

import (
	"errors"
	"fmt"
	"sort"

	"salesdash/internal/shared/domain"
)

// Category représente une catégorie de produits avec sa fourchette de prix
type Category struct {
	name     string
	minPrice domain.Money
	maxPrice domain.Money
}

// NewCategory crée une nouvelle instance de Category avec validation
func NewCategory(name string, minPrice, maxPrice float64) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name cannot be empty")
	}
	lo, err := domain.NewMoney(minPrice, domain.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("category %s: min price: %w", name, err)
	}
	hi, err := domain.NewMoney(maxPrice, domain.DefaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("category %s: max price: %w", name, err)
	}
	if hi.Amount() < lo.Amount() {
		return nil, fmt.Errorf("category %s: max price below min price", name)
	}

	return &Category{
		name:     name,
		minPrice: lo,
		maxPrice: hi,
	}, nil
}

// Name retourne le nom de la catégorie
func (c *Category) Name() string {
	return c.name
}

// MinPrice retourne le prix plancher
func (c *Category) MinPrice() domain.Money {
	return c.minPrice
}

// MaxPrice retourne le prix plafond
func (c *Category) MaxPrice() domain.Money {
	return c.maxPrice
}

// PriceAt retourne le prix situé à la fraction u (0..1) de la fourchette, arrondi au centime
func (c *Category) PriceAt(u float64) (domain.Money, error) {
	if !(u >= 0 && u <= 1) {
		return domain.Money{}, fmt.Errorf("category %s: price fraction %v outside [0,1]", c.name, u)
	}
	span := c.maxPrice.Amount() - c.minPrice.Amount()
	price, err := domain.NewMoney(c.minPrice.Amount()+span*u, domain.DefaultCurrency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("category %s: %w", c.name, err)
	}
	return price.Round(), nil
}

// MarginTable associe une catégorie à son taux de marge (0.25 = 25%)
type MarginTable map[string]float64

// NewMarginTable valide et copie une table de marges
func NewMarginTable(margins map[string]float64) (MarginTable, error) {
	table := make(MarginTable, len(margins))
	for category, margin := range margins {
		if category == "" {
			return nil, errors.New("margin table: empty category name")
		}
		if margin < 0 || margin > 1 {
			return nil, fmt.Errorf("margin table: %s margin %.4f outside [0,1]", category, margin)
		}
		table[category] = margin
	}
	return table, nil
}

// Lookup retourne la marge d'une catégorie
func (t MarginTable) Lookup(category string) (float64, bool) {
	margin, ok := t[category]
	return margin, ok
}

// Categories retourne les catégories connues, triées
func (t MarginTable) Categories() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMargins marges par catégorie (entre 20 et 40%)
func DefaultMargins() MarginTable {
	return MarginTable{
		Electronics:    0.25,
		Clothing:       0.35,
		HomeGarden:     0.30,
		Books:          0.40,
		SportsOutdoors: 0.30,
		ToysGames:      0.35,
		HealthBeauty:   0.40,
		Automotive:     0.25,
		FoodBeverages:  0.20,
		OfficeSupplies: 0.30,
	}
}
