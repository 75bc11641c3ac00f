package seed

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
)

type catalogFile struct {
	Products []productDoc `yaml:"products"`
}

type productDoc struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Brand       string   `yaml:"brand"`
	Category    string   `yaml:"category"`
	Location    string   `yaml:"location"`
	Price       string   `yaml:"price"`
	Condition   string   `yaml:"condition"`
	MinOrderQty int      `yaml:"minOrderQty"`
	MaxOrderQty int      `yaml:"maxOrderQty"`
	StockQty    int      `yaml:"stockQty"`
	ImageURL    string   `yaml:"imageUrl"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Rating      float64  `yaml:"rating"`
}

// LoadFile reads a YAML catalog from path and builds the dataset around it.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return FromYAML(raw)
}

// FromYAML parses a catalog document. Mock accounts are always present;
// mock orders and subscriptions are kept only for listings the file defines.
func FromYAML(raw []byte) (Data, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return Data{}, fmt.Errorf("seed catalog has no products")
	}

	products := make([]catalog.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return Data{}, fmt.Errorf("product %q: invalid price %q: %w", p.ID, p.Price, err)
		}
		imageURL := p.ImageURL
		if imageURL == "" {
			imageURL = catalog.DefaultImageURL
		}
		products = append(products, catalog.Product{
			ID:          p.ID,
			Title:       p.Title,
			Brand:       p.Brand,
			Category:    p.Category,
			Location:    p.Location,
			Price:       price,
			Condition:   p.Condition,
			MinOrderQty: p.MinOrderQty,
			MaxOrderQty: p.MaxOrderQty,
			StockQty:    p.StockQty,
			ImageURL:    imageURL,
			Description: p.Description,
			Features:    p.Features,
			Rating:      p.Rating,
		})
	}
	return assemble(products), nil
}
