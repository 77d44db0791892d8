package domain

import (
	"errors"
	"math"
)

// DefaultCurrency devise utilisée par tout le pipeline (le jeu de données est en dollars)
const DefaultCurrency = "USD"

// Money représente une valeur monétaire avec garanties d'invariants
type Money struct {
	amount   float64
	currency string
}

// NewMoney crée une nouvelle instance de Money avec validation
func NewMoney(amount float64, currency string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, errors.New("amount must be a finite number")
	}
	if amount < 0 {
		return Money{}, errors.New("amount cannot be negative")
	}
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// Amount retourne le montant
func (m Money) Amount() float64 {
	return m.amount
}

// Currency retourne la devise
func (m Money) Currency() string {
	return m.currency
}

// Round arrondit le montant au centime
func (m Money) Round() Money {
	return Money{
		amount:   RoundCents(m.amount),
		currency: m.currency,
	}
}

// RoundCents arrondit au centime, moitié loin de zéro
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
