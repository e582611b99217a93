package repository

import (
	"context"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"gorm.io/gorm"
)

// Expresiones SQL que replican normalize.Clean sobre los campos de origen del
// consolidado. La normalización de escritura (Go) y la de lectura (SQL)
// tienen que producir la misma clave.
const (
	searchStoreExpr   = `UPPER(REGEXP_REPLACE(COALESCE(distributor,'') || COALESCE(code_store_distributor,''), '\s', '', 'g'))`
	searchProductExpr = `UPPER(REGEXP_REPLACE(COALESCE(distributor,'') || COALESCE(code_product_distributor,'') || COALESCE(description_distributor,''), '\s', '', 'g'))`
)

// StoreCandidate fila candidata del backfill de almacenes: par distribuidor +
// código de almacén sin código canónico asignado.
type StoreCandidate struct {
	Distributor          string `gorm:"column:distributor"`
	CodeStoreDistributor string `gorm:"column:code_store_distributor"`
}

// ProductCandidate fila candidata del backfill de productos.
type ProductCandidate struct {
	Distributor            string `gorm:"column:distributor"`
	CodeProductDistributor string `gorm:"column:code_product_distributor"`
	DescriptionDistributor string `gorm:"column:description_distributor"`
}

// NullFieldFilters columnas derivadas a filtrar por nulidad en las pantallas
// de revisión.
type NullFieldFilters struct {
	CodeProduct           bool
	CodeStore             bool
	ProductModel          bool
	StoreName             bool
	AuthorizedDistributor bool
}

// NullFieldDetail conteo de consolidados con campos derivados sin resolver.
type NullFieldDetail struct {
	MissingProducts int64 `json:"missing_products"`
	MissingStores   int64 `json:"missing_stores"`
	Total           int64 `json:"total"`
}

// ConsolidatedRepository persistencia de los registros consolidados.
type ConsolidatedRepository interface {
	Create(ctx context.Context, c *model.ConsolidatedDataStore) error
	// FindByID devuelve nil sin error cuando el id no existe.
	FindByID(ctx context.Context, id int64) (*model.ConsolidatedDataStore, error)
	// UpdateFields aplica un parche de campos a una fila puntual.
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	// SaveAll guarda un bloque de filas ya cargadas (propagación de maestros).
	SaveAll(ctx context.Context, cs []*model.ConsolidatedDataStore) error
	// DeleteByMatriculation elimina los consolidados de una plantilla y período.
	DeleteByMatriculation(ctx context.Context, templateID int64, calculateDate time.Time) error

	// FindDuplicatedByProduct filas que comparten distribuidor + código de
	// producto + descripción (los "duplicados" que el merge corrige en bloque).
	FindDuplicatedByProduct(ctx context.Context, distributor, codeProductDistributor, description string) ([]*model.ConsolidatedDataStore, error)
	// FindDuplicatedByStore filas que comparten distribuidor + código de almacén.
	FindDuplicatedByStore(ctx context.Context, distributor, codeStoreDistributor string) ([]*model.ConsolidatedDataStore, error)

	// FindStoreCandidates pares únicos sin código de almacén resuelto,
	// opcionalmente acotados a un período de cálculo.
	FindStoreCandidates(ctx context.Context, calculateDate *time.Time) ([]StoreCandidate, error)
	// FindProductCandidates tríos únicos sin código de producto resuelto.
	FindProductCandidates(ctx context.Context, calculateDate *time.Time) ([]ProductCandidate, error)
	// UpdateFieldsByStoreKey parche masivo por clave de distribuidor+almacén;
	// devuelve la cantidad de filas afectadas.
	UpdateFieldsByStoreKey(ctx context.Context, distributor, codeStoreDistributor string, fields map[string]interface{}) (int64, error)
	// UpdateFieldsByProductKey parche masivo por clave de distribuidor+producto.
	UpdateFieldsByProductKey(ctx context.Context, distributor, codeProductDistributor, description string, fields map[string]interface{}) (int64, error)

	// FindBySearchStoreKey filas cuya clave de almacén normalizada coincide con
	// la clave de búsqueda de un maestro.
	FindBySearchStoreKey(ctx context.Context, key string) ([]*model.ConsolidatedDataStore, error)
	// FindBySearchProductKey filas cuya clave de producto normalizada coincide.
	FindBySearchProductKey(ctx context.Context, key string) ([]*model.ConsolidatedDataStore, error)

	// FindByFilters listado paginado para la pantalla de revisión de nulos.
	FindByFilters(ctx context.Context, page, pageSize int, search string, nulls NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error)
	// FindNullFieldsUnique variante de claves únicas de origen con campos sin resolver.
	FindNullFieldsUnique(ctx context.Context, nulls NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error)
	// CountNullFieldDetail resumen de campos sin resolver por período.
	CountNullFieldDetail(ctx context.Context, calculateDate *time.Time) (*NullFieldDetail, error)
}

type consolidatedRepository struct {
	db *gorm.DB
}

// NewConsolidatedRepository crea el repositorio de consolidados.
func NewConsolidatedRepository(db *gorm.DB) ConsolidatedRepository {
	return &consolidatedRepository{db: db}
}

func (r *consolidatedRepository) Create(ctx context.Context, c *model.ConsolidatedDataStore) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *consolidatedRepository) FindByID(ctx context.Context, id int64) (*model.ConsolidatedDataStore, error) {
	var c model.ConsolidatedDataStore
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consolidatedRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *consolidatedRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ConsolidatedDataStore{}, id).Error
}

func (r *consolidatedRepository) SaveAll(ctx context.Context, cs []*model.ConsolidatedDataStore) error {
	if len(cs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(cs).Error
}

func (r *consolidatedRepository) DeleteByMatriculation(ctx context.Context, templateID int64, calculateDate time.Time) error {
	return r.db.WithContext(ctx).
		Where("matriculation_template_id = ? AND calculate_date = ?", templateID, calculateDate).
		Delete(&model.ConsolidatedDataStore{}).Error
}

func (r *consolidatedRepository) FindDuplicatedByProduct(ctx context.Context, distributor, codeProductDistributor, description string) ([]*model.ConsolidatedDataStore, error) {
	var cs []*model.ConsolidatedDataStore
	err := r.db.WithContext(ctx).
		Where("distributor = ? AND code_product_distributor = ? AND description_distributor = ?",
			distributor, codeProductDistributor, description).
		Find(&cs).Error
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *consolidatedRepository) FindDuplicatedByStore(ctx context.Context, distributor, codeStoreDistributor string) ([]*model.ConsolidatedDataStore, error) {
	var cs []*model.ConsolidatedDataStore
	err := r.db.WithContext(ctx).
		Where("distributor = ? AND code_store_distributor = ?", distributor, codeStoreDistributor).
		Find(&cs).Error
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *consolidatedRepository) FindStoreCandidates(ctx context.Context, calculateDate *time.Time) ([]StoreCandidate, error) {
	db := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Distinct("distributor", "code_store_distributor").
		Where("code_store IS NULL AND distributor IS NOT NULL AND code_store_distributor IS NOT NULL")
	if calculateDate != nil {
		db = db.Where("calculate_date = ?", *calculateDate)
	}
	var out []StoreCandidate
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *consolidatedRepository) FindProductCandidates(ctx context.Context, calculateDate *time.Time) ([]ProductCandidate, error) {
	db := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Distinct("distributor", "code_product_distributor", "description_distributor").
		Where("code_product IS NULL AND distributor IS NOT NULL AND code_product_distributor IS NOT NULL")
	if calculateDate != nil {
		db = db.Where("calculate_date = ?", *calculateDate)
	}
	var out []ProductCandidate
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *consolidatedRepository) UpdateFieldsByStoreKey(ctx context.Context, distributor, codeStoreDistributor string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Where("distributor = ? AND code_store_distributor = ?", distributor, codeStoreDistributor).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *consolidatedRepository) UpdateFieldsByProductKey(ctx context.Context, distributor, codeProductDistributor, description string, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Where("distributor = ? AND code_product_distributor = ? AND description_distributor = ?",
			distributor, codeProductDistributor, description).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *consolidatedRepository) FindBySearchStoreKey(ctx context.Context, key string) ([]*model.ConsolidatedDataStore, error) {
	var cs []*model.ConsolidatedDataStore
	if err := r.db.WithContext(ctx).Where(searchStoreExpr+" = ?", key).Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (r *consolidatedRepository) FindBySearchProductKey(ctx context.Context, key string) ([]*model.ConsolidatedDataStore, error) {
	var cs []*model.ConsolidatedDataStore
	if err := r.db.WithContext(ctx).Where(searchProductExpr+" = ?", key).Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func applyNullFilters(db *gorm.DB, nulls NullFieldFilters) *gorm.DB {
	if nulls.CodeProduct {
		db = db.Where("code_product IS NULL")
	}
	if nulls.CodeStore {
		db = db.Where("code_store IS NULL")
	}
	if nulls.ProductModel {
		db = db.Where("product_model IS NULL")
	}
	if nulls.StoreName {
		db = db.Where("store_name IS NULL")
	}
	if nulls.AuthorizedDistributor {
		db = db.Where("authorized_distributor IS NULL")
	}
	return db
}

func (r *consolidatedRepository) FindByFilters(ctx context.Context, page, pageSize int, search string, nulls NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{})
	db = applyNullFilters(db, nulls)
	if search != "" {
		like := "%" + search + "%"
		db = db.Where(
			"distributor ILIKE ? OR code_product_distributor ILIKE ? OR code_store_distributor ILIKE ? OR description_distributor ILIKE ?",
			like, like, like, like,
		)
	}
	if calculateDate != nil {
		db = db.Where("calculate_date = ?", *calculateDate)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cs []*model.ConsolidatedDataStore
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&cs).Error; err != nil {
		return nil, 0, err
	}
	return cs, total, nil
}

func (r *consolidatedRepository) FindNullFieldsUnique(ctx context.Context, nulls NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{}).
		Distinct("distributor", "code_product_distributor", "code_store_distributor", "description_distributor")
	db = applyNullFilters(db, nulls)
	if calculateDate != nil {
		db = db.Where("calculate_date = ?", *calculateDate)
	}
	var cs []*model.ConsolidatedDataStore
	if err := db.Find(&cs).Error; err != nil {
		return nil, 0, err
	}
	return cs, int64(len(cs)), nil
}

func (r *consolidatedRepository) CountNullFieldDetail(ctx context.Context, calculateDate *time.Time) (*NullFieldDetail, error) {
	base := func() *gorm.DB {
		db := r.db.WithContext(ctx).Model(&model.ConsolidatedDataStore{})
		if calculateDate != nil {
			db = db.Where("calculate_date = ?", *calculateDate)
		}
		return db
	}
	var detail NullFieldDetail
	if err := base().Where("code_product IS NULL").Count(&detail.MissingProducts).Error; err != nil {
		return nil, err
	}
	if err := base().Where("code_store IS NULL").Count(&detail.MissingStores).Error; err != nil {
		return nil, err
	}
	if err := base().Count(&detail.Total).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}
