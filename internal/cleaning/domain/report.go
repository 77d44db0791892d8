package domain

// FillCounts valeurs catégorielles remplacées par la sentinelle, par colonne
type FillCounts struct {
	ProductID   int `json:"product_id"`
	ProductName int `json:"product_name"`
	Category    int `json:"category"`
	CustomerID  int `json:"customer_id"`
	Region      int `json:"region"`
}

// Total nombre de cellules remplies
func (f FillCounts) Total() int {
	return f.ProductID + f.ProductName + f.Category + f.CustomerID + f.Region
}

// Report compteurs de défauts relevés par le nettoyage.
// Sert uniquement à l'observabilité: aucune décision n'en dépend.
type Report struct {
	InputRows         int `json:"input_rows"`
	DuplicatesRemoved int `json:"duplicates_removed"`

	// Réparations
	Filled               FillCounts `json:"filled"`
	QuantityImputed      int        `json:"quantity_imputed"`
	PriceImputedCategory int        `json:"price_imputed_category"`
	PriceImputedGlobal   int        `json:"price_imputed_global"`
	RevenueCorrections   int        `json:"revenue_corrections"`

	// Suppressions
	MalformedRows         int `json:"malformed_rows"`
	MissingOrderIDDropped int `json:"missing_order_id_dropped"`
	MissingDateDropped    int `json:"missing_date_dropped"`
	UnrepairableDropped   int `json:"unrepairable_dropped"`
	CoercionFailures      int `json:"coercion_failures"`
	InvalidValues         int `json:"invalid_values"`
	QuantityOutliers      int `json:"quantity_outliers"`
	PriceOutliers         int `json:"price_outliers"`

	// Bornes effectivement appliquées, nil si le filtre était inactif pour la colonne
	QuantityBounds *Bounds `json:"quantity_bounds,omitempty"`
	PriceBounds    *Bounds `json:"price_bounds,omitempty"`

	OutputRows int `json:"output_rows"`
}

// Removed nombre total de lignes retirées
func (r Report) Removed() int {
	return r.MalformedRows + r.DuplicatesRemoved + r.MissingOrderIDDropped + r.MissingDateDropped +
		r.UnrepairableDropped + r.CoercionFailures + r.InvalidValues +
		r.QuantityOutliers + r.PriceOutliers
}

// AddMalformed compte les lignes illisibles écartées à la lecture; elles font partie de l'entrée
func (r *Report) AddMalformed(lines int) {
	r.MalformedRows += lines
	r.InputRows += lines
}

// LogFields paires clé/valeur pour le log de fin de stage
func (r Report) LogFields() []any {
	fields := []any{
		"input_rows", r.InputRows,
		"malformed_rows", r.MalformedRows,
		"duplicates_removed", r.DuplicatesRemoved,
		"categorical_filled", r.Filled.Total(),
		"quantity_imputed", r.QuantityImputed,
		"price_imputed_category", r.PriceImputedCategory,
		"price_imputed_global", r.PriceImputedGlobal,
		"missing_order_id_dropped", r.MissingOrderIDDropped,
		"missing_date_dropped", r.MissingDateDropped,
		"unrepairable_dropped", r.UnrepairableDropped,
		"coercion_failures", r.CoercionFailures,
		"invalid_values", r.InvalidValues,
		"quantity_outliers", r.QuantityOutliers,
		"price_outliers", r.PriceOutliers,
		"revenue_corrections", r.RevenueCorrections,
		"output_rows", r.OutputRows,
	}
	if r.QuantityBounds != nil {
		fields = append(fields, "quantity_bounds", []float64{r.QuantityBounds.Lower, r.QuantityBounds.Upper})
	}
	if r.PriceBounds != nil {
		fields = append(fields, "price_bounds", []float64{r.PriceBounds.Lower, r.PriceBounds.Upper})
	}
	return fields
}
