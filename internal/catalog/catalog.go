// FilePath: internal/catalog/catalog.go
package catalog

import (
	"context"

	"github.com/itsatony/struccy"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Service serves the product catalogue. Stock thresholds are only visible to
// roles listed in the readxs tags of models.Product.
type Service struct {
	products repository.ProductRepository
}

func New(products repository.ProductRepository) *Service {
	return &Service{products: products}
}

// Get retrieves a product with role-based field filtering
func (s *Service) Get(ctx context.Context, id string, role models.UserRole) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return filterProduct(product, role)
}

// List retrieves all products with role-based field filtering
func (s *Service) List(ctx context.Context, role models.UserRole) ([]*models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Product, 0, len(products))
	for _, product := range products {
		p, err := filterProduct(product, role)
		if err != nil {
			nuts.L.Warnf("[Catalog] Failed to filter product %s: %v", product.ID, err)
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func filterProduct(product *models.Product, role models.UserRole) (*models.Product, error) {
	roles := []string{string(role)}
	filteredMap, err := struccy.StructToMapFieldsWithReadXS(product, roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to filter product fields", err)
	}
	filtered := &models.Product{}
	if _, err := struccy.MergeMapStringFieldsToStruct(filtered, filteredMap, roles); err != nil {
		return nil, errors.NewInternalError("failed to map filtered fields to product struct", err)
	}
	return filtered, nil
}
