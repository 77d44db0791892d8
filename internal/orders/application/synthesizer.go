package application

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	catalogdomain "salesdash/internal/catalog/domain"
	"salesdash/internal/config"
	"salesdash/internal/orders/domain"
	shareddomain "salesdash/internal/shared/domain"
)

const (
	maxCustomers   = 500
	maxQuantity    = 10
	customerFormat = "CUST%04d"
	orderFormat    = "ORD%06d"
)

// Synthesizer génère un jeu de transactions brut avec défauts injectés
// (valeurs manquantes, doublons) pour exercer le nettoyage.
type Synthesizer struct {
	catalog *catalogdomain.Catalog
}

// NewSynthesizer crée un générateur sur un catalogue
func NewSynthesizer(catalog *catalogdomain.Catalog) *Synthesizer {
	return &Synthesizer{catalog: catalog}
}

// Generate produit cfg.Records lignes puis injecte les défauts:
//   - floor(records × missing_rate) lignes distinctes perdent Price, Quantity ou Region
//   - floor(records × duplicate_rate) lignes distinctes sont recopiées en fin de table
//
// Même seed + même asOf = même table, ligne pour ligne.
func (s *Synthesizer) Generate(cfg config.GeneratorConfig, asOf time.Time) ([]domain.RawRecord, error) {
	if cfg.Records < 1 {
		return nil, fmt.Errorf("generator: records must be >= 1, got %d", cfg.Records)
	}
	window, err := shareddomain.NewDateRangeEndingAt(asOf, cfg.HistoryDays)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	categories := s.catalog.Categories()
	regions := s.catalog.Regions()

	// MÉMOIRE: capacité finale connue (lignes + doublons), un seul backing array
	duplicates := int(float64(cfg.Records) * cfg.DuplicateRate)
	records := make([]domain.RawRecord, 0, cfg.Records+duplicates)

	for i := 0; i < cfg.Records; i++ {
		category := categories[rng.Intn(len(categories))]
		products := s.catalog.ProductsOf(category.Name())
		product := products[rng.Intn(len(products))]

		unitPrice, err := category.PriceAt(rng.Float64())
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		price := unitPrice.Amount()
		quantity := rng.Intn(maxQuantity) + 1
		revenue := shareddomain.RoundCents(price * float64(quantity))

		orderDate := window.Start()
		if days := window.Days(); days > 0 {
			orderDate = orderDate.AddDate(0, 0, rng.Intn(days))
		}

		records = append(records, domain.RawRecord{
			OrderID:     fmt.Sprintf(orderFormat, i+1),
			ProductID:   string(product.ID()),
			ProductName: product.Name(),
			Category:    category.Name(),
			Quantity:    strconv.Itoa(quantity),
			Price:       strconv.FormatFloat(price, 'f', 2, 64),
			Revenue:     strconv.FormatFloat(revenue, 'f', 2, 64),
			OrderDate:   orderDate.Format(shareddomain.DateLayout),
			CustomerID:  fmt.Sprintf(customerFormat, rng.Intn(maxCustomers)+1),
			Region:      regions[rng.Intn(len(regions))],
		})
	}

	missing := int(float64(cfg.Records) * cfg.MissingRate)
	for _, idx := range rng.Perm(cfg.Records)[:missing] {
		switch rng.Intn(3) {
		case 0:
			records[idx].Price = ""
		case 1:
			records[idx].Quantity = ""
		default:
			records[idx].Region = ""
		}
	}

	for _, idx := range rng.Perm(cfg.Records)[:duplicates] {
		records = append(records, records[idx])
	}

	return records, nil
}
