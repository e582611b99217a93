package repository

import (
	"context"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"gorm.io/gorm"
)

// ProductCatalogRepository acceso de solo lectura al catálogo canónico de
// productos SIC.
type ProductCatalogRepository interface {
	// FindByJdeCode devuelve nil sin error cuando el código no existe en el
	// catálogo; la ausencia es una advertencia de integridad, no una falla.
	FindByJdeCode(ctx context.Context, jdeCode string) (*model.ProductSic, error)
}

// StoreCatalogRepository acceso de solo lectura al catálogo canónico de
// almacenes SIC.
type StoreCatalogRepository interface {
	// FindByStoreCode devuelve nil sin error cuando el código no existe.
	FindByStoreCode(ctx context.Context, storeCode int64) (*model.StoreSic, error)
}

type productCatalogRepository struct {
	db *gorm.DB
}

// NewProductCatalogRepository crea el acceso al catálogo de productos.
func NewProductCatalogRepository(db *gorm.DB) ProductCatalogRepository {
	return &productCatalogRepository{db: db}
}

func (r *productCatalogRepository) FindByJdeCode(ctx context.Context, jdeCode string) (*model.ProductSic, error) {
	var p model.ProductSic
	err := r.db.WithContext(ctx).Where("jde_code = ?", jdeCode).Take(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type storeCatalogRepository struct {
	db *gorm.DB
}

// NewStoreCatalogRepository crea el acceso al catálogo de almacenes.
func NewStoreCatalogRepository(db *gorm.DB) StoreCatalogRepository {
	return &storeCatalogRepository{db: db}
}

func (r *storeCatalogRepository) FindByStoreCode(ctx context.Context, storeCode int64) (*model.StoreSic, error) {
	var s model.StoreSic
	err := r.db.WithContext(ctx).Where("store_code = ?", storeCode).Take(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
