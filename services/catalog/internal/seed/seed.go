package seed

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/models"
)

// Fixture mirrors a json-server database file. JSON is valid YAML, so both
// formats decode through the same path.
type Fixture struct {
	Products []models.Product `yaml:"products"`
	Stock    []models.Stock   `yaml:"stock"`
}

type Seeder interface {
	Seed(ctx context.Context, products []models.Product, stock []models.Stock) error
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

func Apply(ctx context.Context, s Seeder, f *Fixture) error {
	l := logging.FromContext(ctx).With("component", "catalog.seed")
	if err := s.Seed(ctx, f.Products, f.Stock); err != nil {
		l.Error("seed_error", "error", err)
		return fmt.Errorf("seed catalog: %w", err)
	}
	l.Info("seed_success", "products", len(f.Products), "stock", len(f.Stock))
	return nil
}

func (f *Fixture) validate() error {
	seen := make(map[int]struct{}, len(f.Products))
	for _, p := range f.Products {
		if p.ID <= 0 {
			return fmt.Errorf("product %q: id must be positive", p.Title)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %d: duplicate id", p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("product %d: price cannot be negative", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	for _, s := range f.Stock {
		if s.ID <= 0 {
			return fmt.Errorf("stock entry: id must be positive, got %d", s.ID)
		}
		if s.Amount < 0 {
			return fmt.Errorf("stock %d: amount cannot be negative", s.ID)
		}
	}
	return nil
}
