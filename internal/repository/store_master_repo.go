package repository

import (
	"context"
	"fmt"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"gorm.io/gorm"
)

// StoreMasterRepository maestros de almacenes de sell-out.
type StoreMasterRepository interface {
	// FindByID devuelve nil sin error cuando el id no existe.
	FindByID(ctx context.Context, id int64) (*model.SelloutStoreMaster, error)
	// FindBySearchKey búsqueda puntual por clave normalizada; nil si no hay fila.
	FindBySearchKey(ctx context.Context, key string) (*model.SelloutStoreMaster, error)
	// FindBySearchKeys búsqueda masiva para la importación por lotes.
	FindBySearchKeys(ctx context.Context, keys []string) ([]*model.SelloutStoreMaster, error)
	// Create inserta un maestro nuevo; traduce la violación de unicidad a
	// domain.ErrDuplicateMapping.
	Create(ctx context.Context, m *model.SelloutStoreMaster) error
	Update(ctx context.Context, m *model.SelloutStoreMaster) error
	Delete(ctx context.Context, id int64) error
	SaveAll(ctx context.Context, ms []*model.SelloutStoreMaster) error
	InsertAll(ctx context.Context, ms []*model.SelloutStoreMaster) error
	FindByFilters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutStoreMaster, int64, error)
	// FindUniqueDistributorStores pares únicos distribuidor/almacén para el
	// combo de la pantalla de revisión.
	FindUniqueDistributorStores(ctx context.Context, searchDistributor, searchStore string) ([]*model.SelloutStoreMaster, int64, error)
}

type storeMasterRepository struct {
	db *gorm.DB
}

// NewStoreMasterRepository crea el repositorio de maestros de almacenes.
func NewStoreMasterRepository(db *gorm.DB) StoreMasterRepository {
	return &storeMasterRepository{db: db}
}

func (r *storeMasterRepository) FindByID(ctx context.Context, id int64) (*model.SelloutStoreMaster, error) {
	var m model.SelloutStoreMaster
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *storeMasterRepository) FindBySearchKey(ctx context.Context, key string) (*model.SelloutStoreMaster, error) {
	var m model.SelloutStoreMaster
	err := r.db.WithContext(ctx).Where("search_store = ?", key).Take(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *storeMasterRepository) FindBySearchKeys(ctx context.Context, keys []string) ([]*model.SelloutStoreMaster, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	var ms []*model.SelloutStoreMaster
	if err := r.db.WithContext(ctx).Where("search_store IN ?", keys).Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *storeMasterRepository) Create(ctx context.Context, m *model.SelloutStoreMaster) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err, "unique_search_store") {
			return fmt.Errorf("maestros de almacenes: %w", domain.ErrDuplicateMapping)
		}
		return err
	}
	return nil
}

func (r *storeMasterRepository) Update(ctx context.Context, m *model.SelloutStoreMaster) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *storeMasterRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.SelloutStoreMaster{}, id).Error
}

func (r *storeMasterRepository) SaveAll(ctx context.Context, ms []*model.SelloutStoreMaster) error {
	if len(ms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(ms).Error
}

func (r *storeMasterRepository) InsertAll(ctx context.Context, ms []*model.SelloutStoreMaster) error {
	if len(ms) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(ms).Error; err != nil {
		if isUniqueViolation(err, "unique_search_store") {
			return fmt.Errorf("maestros de almacenes: %w", domain.ErrDuplicateMapping)
		}
		return err
	}
	return nil
}

func (r *storeMasterRepository) FindByFilters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutStoreMaster, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.SelloutStoreMaster{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where(
			"distributor ILIKE ? OR store_distributor ILIKE ? OR code_store_sic ILIKE ?",
			like, like, like,
		)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ms []*model.SelloutStoreMaster
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return ms, total, nil
}

func (r *storeMasterRepository) FindUniqueDistributorStores(ctx context.Context, searchDistributor, searchStore string) ([]*model.SelloutStoreMaster, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.SelloutStoreMaster{}).
		Distinct("distributor", "store_distributor", "code_store_sic")
	if searchDistributor != "" {
		db = db.Where("distributor ILIKE ?", "%"+searchDistributor+"%")
	}
	if searchStore != "" {
		db = db.Where("store_distributor ILIKE ?", "%"+searchStore+"%")
	}
	var ms []*model.SelloutStoreMaster
	if err := db.Order("distributor ASC, store_distributor ASC").Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return ms, int64(len(ms)), nil
}
