package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrFractionalQuantity une quantité lue avec une partie décimale (2.5 articles)
var ErrFractionalQuantity = errors.New("quantity must be a whole number")

// Quantity représente une quantité d'articles, toujours >= 0
type Quantity struct {
	value int
}

// NewQuantity crée une nouvelle instance de Quantity avec validation
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, errors.New("quantity cannot be negative")
	}
	return Quantity{value: value}, nil
}

// NewQuantityFromFloat accepte une valeur lue comme flottant ("3" ou "3.0" dans le CSV)
// tant qu'elle est entière. Les CSV produits par des outils qui stockent les entiers
// nullable en flottants écrivent "3.0".
func NewQuantityFromFloat(value float64) (Quantity, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Quantity{}, errors.New("quantity must be a finite number")
	}
	rounded := math.Round(value)
	if math.Abs(value-rounded) > 1e-9 {
		return Quantity{}, ErrFractionalQuantity
	}
	if rounded > math.MaxInt32 {
		return Quantity{}, fmt.Errorf("quantity %v out of range", value)
	}
	return NewQuantity(int(rounded))
}

// Value retourne la valeur
func (q Quantity) Value() int {
	return q.value
}
