package repository

import (
	"context"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"gorm.io/gorm"
)

// ExtractionRepository persistencia del payload crudo y de las bitácoras de
// procesamiento.
type ExtractionRepository interface {
	CreateExtractedData(ctx context.Context, e *model.ExtractedDataSellout) error
	FindExtractedDataByID(ctx context.Context, id int64) (*model.ExtractedDataSellout, error)
	DeleteExtractedData(ctx context.Context, id int64) error
	FindExtractedDataPaginated(ctx context.Context, page, pageSize int) ([]*model.ExtractedDataSellout, int64, error)
	CreateExtractionLog(ctx context.Context, l *model.ExtractionLogSellout) error
}

// MatriculationRepository plantillas y bitácoras de matriculación.
type MatriculationRepository interface {
	// FindTemplateByID devuelve nil sin error cuando no existe.
	FindTemplateByID(ctx context.Context, id int64) (*model.MatriculationTemplate, error)
	UpdateTemplateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	CreateLog(ctx context.Context, l *model.MatriculationLog) error
	UpdateLog(ctx context.Context, l *model.MatriculationLog) error
	// FindLog localiza la bitácora de una combinación plantilla + período +
	// distribuidor + almacén; nil si no existe.
	FindLog(ctx context.Context, matriculationID int64, calculateDate time.Time, distributor, storeName string) (*model.MatriculationLog, error)
	// FindLogsByPeriod bitácoras de una plantilla en un período.
	FindLogsByPeriod(ctx context.Context, matriculationID int64, calculateDate time.Time) ([]*model.MatriculationLog, error)
	DeleteLog(ctx context.Context, id int64) error
	DeleteLogsByMatriculation(ctx context.Context, matriculationID int64, calculateDate time.Time) error
}

type extractionRepository struct {
	db *gorm.DB
}

// NewExtractionRepository crea el repositorio de extracciones.
func NewExtractionRepository(db *gorm.DB) ExtractionRepository {
	return &extractionRepository{db: db}
}

func (r *extractionRepository) CreateExtractedData(ctx context.Context, e *model.ExtractedDataSellout) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *extractionRepository) FindExtractedDataByID(ctx context.Context, id int64) (*model.ExtractedDataSellout, error) {
	var e model.ExtractedDataSellout
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *extractionRepository) DeleteExtractedData(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ExtractedDataSellout{}, id).Error
}

func (r *extractionRepository) FindExtractedDataPaginated(ctx context.Context, page, pageSize int) ([]*model.ExtractedDataSellout, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.ExtractedDataSellout{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var es []*model.ExtractedDataSellout
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&es).Error; err != nil {
		return nil, 0, err
	}
	return es, total, nil
}

func (r *extractionRepository) CreateExtractionLog(ctx context.Context, l *model.ExtractionLogSellout) error {
	return r.db.WithContext(ctx).Create(l).Error
}

type matriculationRepository struct {
	db *gorm.DB
}

// NewMatriculationRepository crea el repositorio de matriculación.
func NewMatriculationRepository(db *gorm.DB) MatriculationRepository {
	return &matriculationRepository{db: db}
}

func (r *matriculationRepository) FindTemplateByID(ctx context.Context, id int64) (*model.MatriculationTemplate, error) {
	var t model.MatriculationTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *matriculationRepository) UpdateTemplateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.MatriculationTemplate{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *matriculationRepository) CreateLog(ctx context.Context, l *model.MatriculationLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *matriculationRepository) UpdateLog(ctx context.Context, l *model.MatriculationLog) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *matriculationRepository) FindLog(ctx context.Context, matriculationID int64, calculateDate time.Time, distributor, storeName string) (*model.MatriculationLog, error) {
	var l model.MatriculationLog
	err := r.db.WithContext(ctx).
		Where("matriculation_id = ? AND calculate_date = ? AND distributor = ? AND store_name = ?",
			matriculationID, calculateDate, distributor, storeName).
		Take(&l).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *matriculationRepository) FindLogsByPeriod(ctx context.Context, matriculationID int64, calculateDate time.Time) ([]*model.MatriculationLog, error) {
	var ls []*model.MatriculationLog
	err := r.db.WithContext(ctx).
		Where("matriculation_id = ? AND calculate_date = ?", matriculationID, calculateDate).
		Find(&ls).Error
	if err != nil {
		return nil, err
	}
	return ls, nil
}

func (r *matriculationRepository) DeleteLog(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.MatriculationLog{}, id).Error
}

func (r *matriculationRepository) DeleteLogsByMatriculation(ctx context.Context, matriculationID int64, calculateDate time.Time) error {
	return r.db.WithContext(ctx).
		Where("matriculation_id = ? AND calculate_date = ?", matriculationID, calculateDate).
		Delete(&model.MatriculationLog{}).Error
}
