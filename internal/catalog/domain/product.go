package domain

import (
	"errors"
	"fmt"
)

// ProductID représente l'identifiant d'un produit (PROD00042)
type ProductID string

// Product représente un produit du catalogue
type Product struct {
	id       ProductID
	name     string
	category *Category
}

// NewProduct crée une nouvelle instance de Product avec validation
func NewProduct(id ProductID, name string, category *Category) (*Product, error) {
	if id == "" {
		return nil, errors.New("product id cannot be empty")
	}
	if name == "" {
		return nil, errors.New("product name cannot be empty")
	}
	if category == nil {
		return nil, fmt.Errorf("product %s: category is required", id)
	}

	return &Product{
		id:       id,
		name:     name,
		category: category,
	}, nil
}

// ProductIDFromIndex construit l'identifiant à partir du rang dans le catalogue (1-based)
func ProductIDFromIndex(index int) ProductID {
	return ProductID(fmt.Sprintf("PROD%05d", index))
}

// ID retourne l'identifiant du produit
func (p *Product) ID() ProductID {
	return p.id
}

// Name retourne le nom du produit
func (p *Product) Name() string {
	return p.name
}

// Category retourne la catégorie du produit
func (p *Product) Category() *Category {
	return p.category
}
