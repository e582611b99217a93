package repository

import (
	"context"
	"fmt"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"gorm.io/gorm"
)

// ProductMasterRepository maestros de productos de sell-out. Las búsquedas
// nunca mutan estado; Create y las operaciones de guardado son los únicos
// mutadores.
type ProductMasterRepository interface {
	// FindByID devuelve nil sin error cuando el id no existe.
	FindByID(ctx context.Context, id int64) (*model.SelloutProductMaster, error)
	// FindBySearchKey búsqueda puntual por clave normalizada; nil si no hay fila.
	FindBySearchKey(ctx context.Context, key string) (*model.SelloutProductMaster, error)
	// FindBySearchKeys búsqueda masiva para la importación por lotes.
	FindBySearchKeys(ctx context.Context, keys []string) ([]*model.SelloutProductMaster, error)
	// Create inserta un maestro nuevo; traduce la violación de unicidad de la
	// clave de búsqueda a domain.ErrDuplicateMapping.
	Create(ctx context.Context, m *model.SelloutProductMaster) error
	Update(ctx context.Context, m *model.SelloutProductMaster) error
	Delete(ctx context.Context, id int64) error
	// SaveAll actualiza maestros existentes en bloque.
	SaveAll(ctx context.Context, ms []*model.SelloutProductMaster) error
	// InsertAll inserta maestros nuevos en bloque.
	InsertAll(ctx context.Context, ms []*model.SelloutProductMaster) error
	// FindByFilters listado paginado con búsqueda libre.
	FindByFilters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutProductMaster, int64, error)
}

type productMasterRepository struct {
	db *gorm.DB
}

// NewProductMasterRepository crea el repositorio de maestros de productos.
func NewProductMasterRepository(db *gorm.DB) ProductMasterRepository {
	return &productMasterRepository{db: db}
}

func (r *productMasterRepository) FindByID(ctx context.Context, id int64) (*model.SelloutProductMaster, error) {
	var m model.SelloutProductMaster
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *productMasterRepository) FindBySearchKey(ctx context.Context, key string) (*model.SelloutProductMaster, error) {
	var m model.SelloutProductMaster
	err := r.db.WithContext(ctx).Where("search_product_store = ?", key).Take(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *productMasterRepository) FindBySearchKeys(ctx context.Context, keys []string) ([]*model.SelloutProductMaster, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var ms []*model.SelloutProductMaster
	if err := r.db.WithContext(ctx).Where("search_product_store IN ?", keys).Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *productMasterRepository) Create(ctx context.Context, m *model.SelloutProductMaster) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err, "unique_search_product_store") {
			return fmt.Errorf("maestros de productos: %w", domain.ErrDuplicateMapping)
		}
		return err
	}
	return nil
}

func (r *productMasterRepository) Update(ctx context.Context, m *model.SelloutProductMaster) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *productMasterRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.SelloutProductMaster{}, id).Error
}

func (r *productMasterRepository) SaveAll(ctx context.Context, ms []*model.SelloutProductMaster) error {
	if len(ms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(ms).Error
}

func (r *productMasterRepository) InsertAll(ctx context.Context, ms []*model.SelloutProductMaster) error {
	if len(ms) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(ms).Error; err != nil {
		if isUniqueViolation(err, "unique_search_product_store") {
			return fmt.Errorf("maestros de productos: %w", domain.ErrDuplicateMapping)
		}
		return err
	}
	return nil
}

func (r *productMasterRepository) FindByFilters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutProductMaster, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.SelloutProductMaster{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where(
			"distributor ILIKE ? OR product_distributor ILIKE ? OR product_store ILIKE ? OR code_product_sic ILIKE ?",
			like, like, like, like,
		)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []*model.SelloutProductMaster
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return ms, total, nil
}
