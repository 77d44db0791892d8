package domain

import (
	"errors"
	"time"
)

// DateLayout format des dates calendaires dans tous les fichiers du pipeline
const DateLayout = "2006-01-02"

// DateRange représente une période calendaire [start, end] avec validation
// DESIGN PATTERN: Value Object (DDD)
//   - Immutable: pas de setters, valeurs fixées à la création
//   - Les deux bornes sont tronquées au jour (minuit UTC)
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange crée une période à partir de deux dates
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = TruncateToDate(start), TruncateToDate(end)
	if end.Before(start) {
		return DateRange{}, errors.New("end date cannot be before start date")
	}
	return DateRange{start: start, end: end}, nil
}

// NewDateRangeEndingAt crée une période de `days` jours qui se termine à `end`
// Remplace l'ancien NewDateRangeFromDays: la date de fin est explicite au lieu de
// lire l'horloge, ce qui rend la génération reproductible.
func NewDateRangeEndingAt(end time.Time, days int) (DateRange, error) {
	if days < 0 {
		return DateRange{}, errors.New("days cannot be negative")
	}
	end = TruncateToDate(end)
	return DateRange{
		start: end.AddDate(0, 0, -days),
		end:   end,
	}, nil
}

// Start retourne la date de début
func (dr DateRange) Start() time.Time {
	return dr.start
}

// End retourne la date de fin
func (dr DateRange) End() time.Time {
	return dr.end
}

// Days retourne le nombre de jours entre start et end
func (dr DateRange) Days() int {
	return DaysBetween(dr.start, dr.end)
}

// Contains vérifie si une date est dans la période (bornes incluses)
func (dr DateRange) Contains(t time.Time) bool {
	t = TruncateToDate(t)
	return !t.Before(dr.start) && !t.After(dr.end)
}

// TruncateToDate conserve uniquement la date calendaire, en UTC
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween retourne le nombre de jours entiers de `from` à `to` (négatif si to < from)
func DaysBetween(from, to time.Time) int {
	return int(TruncateToDate(to).Sub(TruncateToDate(from)).Hours() / 24)
}
