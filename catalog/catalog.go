// Package catalog exposes the menu and add-on catalogs the checkout pipeline
// consumes. Implementations are read-only collaborators; a checkout attempt
// works from the snapshot it fetched and never re-fetches mid-pipeline.
package catalog

import (
	"context"

	"github.com/dineflow/ordering-api/models"
)

// MenuCatalog resolves products. ProductByID returns (nil, nil) for unknown
// ids; errors are reserved for lookup failures.
type MenuCatalog interface {
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// AddOnCatalog lists canonical customization definitions. Only available
// add-ons with at least one non-empty scope are ever returned.
type AddOnCatalog interface {
	ListAvailable(ctx context.Context) ([]models.AddOn, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.AddOn, error)
}
