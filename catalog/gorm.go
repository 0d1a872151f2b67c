package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dineflow/ordering-api/models"
)

// GormCatalog serves both catalogs from the menu database.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (g *GormCatalog) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := g.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (g *GormCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := g.db.WithContext(ctx).Where("available = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (g *GormCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := g.db.WithContext(ctx).Preload("Products").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (g *GormCatalog) ListAvailable(ctx context.Context) ([]models.AddOn, error) {
	var addons []models.AddOn
	err := g.db.WithContext(ctx).
		Preload("Categories").
		Preload("Dishes").
		Where("available = ?", true).
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return filterScoped(addons), nil
}

func (g *GormCatalog) ListByCategory(ctx context.Context, categoryID uint) ([]models.AddOn, error) {
	addons, err := g.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.AddOn
	for _, a := range addons {
		for _, c := range a.Categories {
			if c.ID == categoryID {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}

// filterScoped drops add-ons with both scopes empty: attachable to nothing,
// never offered.
func filterScoped(addons []models.AddOn) []models.AddOn {
	out := addons[:0]
	for _, a := range addons {
		if len(a.Dishes) == 0 && len(a.Categories) == 0 {
			continue
		}
		out = append(out, a)
	}
	return out
}
