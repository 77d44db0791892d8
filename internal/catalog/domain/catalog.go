package domain

import "fmt"

// Noms des catégories du jeu de données
const (
	Electronics    = "Electronics"
	Clothing       = "Clothing"
	HomeGarden     = "Home & Garden"
	Books          = "Books"
	SportsOutdoors = "Sports & Outdoors"
	ToysGames      = "Toys & Games"
	HealthBeauty   = "Health & Beauty"
	Automotive     = "Automotive"
	FoodBeverages  = "Food & Beverages"
	OfficeSupplies = "Office Supplies"
)

// Catalog regroupe catégories, produits et régions servant à la génération
type Catalog struct {
	categories []*Category
	products   map[string][]*Product
	regions    []string
}

// NewCatalog construit un catalogue validé
func NewCatalog(categories []*Category, products []*Product, regions []string) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog: no categories")
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("catalog: no regions")
	}

	byCategory := make(map[string][]*Product, len(categories))
	for _, p := range products {
		name := p.Category().Name()
		byCategory[name] = append(byCategory[name], p)
	}
	for _, c := range categories {
		if len(byCategory[c.Name()]) == 0 {
			return nil, fmt.Errorf("catalog: category %s has no products", c.Name())
		}
	}

	return &Catalog{
		categories: append([]*Category{}, categories...),
		products:   byCategory,
		regions:    append([]string{}, regions...),
	}, nil
}

// Categories retourne les catégories dans l'ordre du catalogue
func (c *Catalog) Categories() []*Category {
	return append([]*Category{}, c.categories...)
}

// ProductsOf retourne les produits d'une catégorie
func (c *Catalog) ProductsOf(category string) []*Product {
	return append([]*Product{}, c.products[category]...)
}

// Regions retourne les régions de vente
func (c *Catalog) Regions() []string {
	return append([]string{}, c.regions...)
}

type categorySeed struct {
	name     string
	minPrice float64
	maxPrice float64
	products []string
}

var defaultCategorySeeds = []categorySeed{
	{Electronics, 50, 2000, []string{"Smartphone", "Laptop", "Tablet", "Headphones", "Smart Watch", "Camera", "Speaker", "Monitor", "Keyboard", "Mouse"}},
	{Clothing, 10, 200, []string{"T-Shirt", "Jeans", "Jacket", "Sneakers", "Dress", "Shirt", "Shorts", "Hat", "Socks", "Belt"}},
	{HomeGarden, 15, 500, []string{"Garden Tool", "Plant Pot", "Lawn Mower", "Furniture", "Lamp", "Curtains", "Rug", "Pillow", "Blanket", "Vase"}},
	{Books, 5, 50, []string{"Novel", "Textbook", "Cookbook", "Biography", "Mystery", "Science Fiction", "History", "Poetry", "Comic", "Dictionary"}},
	{SportsOutdoors, 20, 800, []string{"Basketball", "Tennis Racket", "Yoga Mat", "Dumbbells", "Bicycle", "Running Shoes", "Tent", "Backpack", "Helmet", "Water Bottle"}},
	{ToysGames, 5, 150, []string{"Board Game", "Action Figure", "Puzzle", "LEGO Set", "Doll", "RC Car", "Card Game", "Building Blocks", "Stuffed Animal", "Art Set"}},
	{HealthBeauty, 3, 100, []string{"Shampoo", "Face Cream", "Toothbrush", "Vitamins", "Perfume", "Makeup Kit", "Hair Dryer", "Razor", "Sunscreen", "Moisturizer"}},
	{Automotive, 10, 300, []string{"Car Battery", "Tire", "Oil Filter", "Brake Pad", "Car Cover", "Floor Mat", "Air Freshener", "Phone Mount", "Dash Cam", "Tool Kit"}},
	{FoodBeverages, 2, 50, []string{"Coffee", "Tea", "Chocolate", "Snacks", "Juice", "Cereal", "Pasta", "Sauce", "Spices", "Honey"}},
	{OfficeSupplies, 1, 100, []string{"Notebook", "Pen Set", "Stapler", "Folder", "Binder", "Calculator", "Desk Organizer", "Paper Clips", "Tape", "Marker"}},
}

// DefaultRegions régions de vente
func DefaultRegions() []string {
	return []string{"North America", "Europe", "Asia Pacific", "South America", "Middle East", "Africa"}
}

// DefaultCatalog catalogue de référence: 10 catégories x 10 produits, 6 régions.
// Les identifiants produits suivent l'ordre du catalogue (PROD00001..PROD00100).
func DefaultCatalog() *Catalog {
	categories := make([]*Category, 0, len(defaultCategorySeeds))
	products := make([]*Product, 0, len(defaultCategorySeeds)*10)

	index := 0
	for _, seed := range defaultCategorySeeds {
		category, err := NewCategory(seed.name, seed.minPrice, seed.maxPrice)
		if err != nil {
			panic(fmt.Sprintf("default catalog: %v", err))
		}
		categories = append(categories, category)

		for _, name := range seed.products {
			index++
			product, err := NewProduct(ProductIDFromIndex(index), name, category)
			if err != nil {
				panic(fmt.Sprintf("default catalog: %v", err))
			}
			products = append(products, product)
		}
	}

	catalog, err := NewCatalog(categories, products, DefaultRegions())
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return catalog
}
