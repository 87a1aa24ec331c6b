package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sol1corejz/storebot/internal/errs"
	"github.com/sol1corejz/storebot/internal/logger"
	"github.com/sol1corejz/storebot/internal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type SeedFile struct {
	Stores   []models.Store `yaml:"stores"`
	Products []SeedProduct  `yaml:"products"`
	Promos   []SeedPromo    `yaml:"promos"`
}

type SeedProduct struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	StoreID     int64  `yaml:"store_id"`
}

type SeedPromo struct {
	Code     string `yaml:"code"`
	Discount string `yaml:"discount"`
	MaxUses  int    `yaml:"max_uses"`
}

func LoadSeed(path string) (SeedFile, error) {
	var seed SeedFile

	data, err := os.ReadFile(path)
	if err != nil {
		return seed, err
	}
	if err = yaml.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return seed, nil
}

// Seed upserts stores and inserts products and promos that are not present
// yet, so it can run on every start.
func Seed(ctx context.Context, s Storage, seed SeedFile) error {
	for _, store := range seed.Stores {
		if err := s.UpsertStore(ctx, store); err != nil {
			return fmt.Errorf("seed store %d: %w", store.ID, err)
		}
	}

	existing := make(map[int64]map[string]bool)
	for _, sp := range seed.Products {
		names, ok := existing[sp.StoreID]
		if !ok {
			products, err := s.ListStoreProducts(ctx, sp.StoreID)
			if err != nil {
				return err
			}
			names = make(map[string]bool, len(products))
			for _, p := range products {
				names[p.Name] = true
			}
			existing[sp.StoreID] = names
		}
		if names[sp.Name] {
			continue
		}

		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return fmt.Errorf("seed product %q price: %w", sp.Name, err)
		}
		_, err = s.CreateProduct(ctx, models.Product{
			Name:        sp.Name,
			Description: sp.Description,
			Image:       sp.Image,
			Price:       price.Round(3),
			Category:    sp.Category,
			StoreID:     sp.StoreID,
		})
		if err != nil {
			return fmt.Errorf("seed product %q: %w", sp.Name, err)
		}
		names[sp.Name] = true
	}

	for _, sp := range seed.Promos {
		discount, err := decimal.NewFromString(sp.Discount)
		if err != nil {
			return fmt.Errorf("seed promo %q discount: %w", sp.Code, err)
		}
		err = s.CreatePromo(ctx, models.PromoCode{Code: sp.Code, Discount: discount, MaxUses: sp.MaxUses})
		if err != nil && !errors.Is(err, errs.ErrPromoExists) {
			return fmt.Errorf("seed promo %q: %w", sp.Code, err)
		}
	}

	logger.Log.Info("Catalog seeded",
		zap.Int("stores", len(seed.Stores)),
		zap.Int("products", len(seed.Products)),
		zap.Int("promos", len(seed.Promos)))
	return nil
}
