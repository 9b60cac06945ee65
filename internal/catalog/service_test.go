package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/catalog"
)

type mockProductRepository struct {
	createFunc  func(ctx context.Context, product *catalog.Product) (int64, error)
	getByIDFunc func(ctx context.Context, id int64) (*catalog.Product, error)
	listFunc    func(ctx context.Context) ([]catalog.Product, error)
	updateFunc  func(ctx context.Context, product *catalog.Product) error
	deleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockProductRepository) Create(ctx context.Context, product *catalog.Product) (int64, error) {
	if m.createFunc == nil {
		return 1, nil
	}
	return m.createFunc(ctx, product)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	if m.getByIDFunc == nil {
		return &catalog.Product{ID: id}, nil
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	if m.listFunc == nil {
		return nil, nil
	}
	return m.listFunc(ctx)
}

func (m *mockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	if m.updateFunc == nil {
		return nil
	}
	return m.updateFunc(ctx, product)
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc == nil {
		return nil
	}
	return m.deleteFunc(ctx, id)
}

func TestServiceCreateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product catalog.Product
		wantErr bool
	}{
		{
			name: "valid",
			product: catalog.Product{
				Name:                  "Bolsa",
				RetailPrice:           100,
				WholesalePrice:        80,
				BulkWholesalePrice:    70,
				PremiumWholesalePrice: 60,
				ProductionCost:        20,
				ProductionHours:       4,
			},
		},
		{
			name:    "missing_name",
			product: catalog.Product{RetailPrice: 10},
			wantErr: true,
		},
		{
			name:    "negative_price",
			product: catalog.Product{Name: "Bolsa", WholesalePrice: -1},
			wantErr: true,
		},
		{
			name:    "negative_hours",
			product: catalog.Product{Name: "Bolsa", ProductionHours: -2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := catalog.NewService(&mockProductRepository{})
			got, err := svc.CreateProduct(context.Background(), &tt.product)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
		})
	}
}

func TestServiceGetProductByIDNotFound(t *testing.T) {
	repo := &mockProductRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*catalog.Product, error) {
			return nil, catalog.ErrProductNotFound
		},
	}
	svc := catalog.NewService(repo)

	_, err := svc.GetProductByID(context.Background(), 99)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestServiceUpdateProductValidates(t *testing.T) {
	updated := false
	repo := &mockProductRepository{
		updateFunc: func(ctx context.Context, product *catalog.Product) error {
			updated = true
			return nil
		},
	}
	svc := catalog.NewService(repo)

	err := svc.UpdateProduct(context.Background(), &catalog.Product{ID: 1, Name: "", RetailPrice: 10})
	assert.Error(t, err)
	assert.False(t, updated)
}
