package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateProduct(product *Product) error {
	if product.Name == "" {
		return errors.New("service: product name is required")
	}
	prices := map[string]float64{
		"retail price":            product.RetailPrice,
		"wholesale price":         product.WholesalePrice,
		"bulk wholesale price":    product.BulkWholesalePrice,
		"premium wholesale price": product.PremiumWholesalePrice,
		"production cost":         product.ProductionCost,
	}
	for name, value := range prices {
		if value < 0 {
			return fmt.Errorf("service: %s cannot be negative", name)
		}
	}
	if product.ProductionHours < 0 {
		return errors.New("service: production hours cannot be negative")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		log.Error().Err(err).Str("name", product.Name).Msg("service: failed to create product")
		return nil, fmt.Errorf("service: failed to create product: %w", err)
	}
	product.ID = id

	return product, nil
}

func (s *service) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("service: failed to get product by id %d: %w", id, err)
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, product *Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		log.Error().Err(err).Int64("product_id", product.ID).Msg("service: failed to update product")
		return fmt.Errorf("service: failed to update product %d: %w", product.ID, err)
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		log.Error().Err(err).Int64("product_id", id).Msg("service: failed to delete product")
		return fmt.Errorf("service: failed to delete product %d: %w", id, err)
	}
	return nil
}
