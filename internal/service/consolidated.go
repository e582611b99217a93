package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RawSelloutRecord registro crudo reportado por un distribuidor. No tiene
// identidad hasta que se consolida.
type RawSelloutRecord struct {
	Distributor            *string `json:"distributor"`
	CodeProductDistributor *string `json:"codeProductDistributor"`
	CodeStoreDistributor   *string `json:"codeStoreDistributor"`
	DescriptionDistributor *string `json:"descriptionDistributor"`
	UnitsSoldDistributor   *int    `json:"unitsSoldDistributor"`
	SaleDate               *string `json:"saleDate"`
}

// BatchRunResult resumen estructurado de una corrida de procesamiento por
// lotes. Se devuelve al llamador, no se persiste como entidad propia.
type BatchRunResult struct {
	RunID            string    `json:"runId"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Status           string    `json:"status"` // SUCCESS aun con fallas por registro; FAILURE solo ante error de infraestructura
	RecordsExtracted int       `json:"recordsExtracted"`
	RecordsProcessed int       `json:"recordsProcessed"`
	RecordsSaved     int       `json:"recordCountSaved"`
	RecordsFailed    int       `json:"recordsFailed"`
	UserErrors       []string  `json:"smsErrors"`     // mensajes clasificados para el usuario
	TechErrors       []string  `json:"smsErrorsBack"` // errores técnicos crudos
	ErrorMessage     *string   `json:"errorMessage,omitempty"`
}

const (
	// BatchStatusSuccess la corrida terminó; las fallas por registro se
	// reportan en los contadores, no en el estado.
	BatchStatusSuccess = "SUCCESS"
	// BatchStatusFailure un error escapó del aislamiento por registro.
	BatchStatusFailure = "FAILURE"
)

// recordErrorRules clasificación de errores técnicos por palabra clave a
// mensajes de usuario. Gana la primera coincidencia.
var recordErrorRules = []struct {
	keyword string
	message func(code string) string
}{
	{
		keyword: "date/time field value out of range",
		message: func(string) string { return "Alguna fecha está fuera de rango. Revisa los datos." },
	},
	{
		keyword: "duplicate key",
		message: func(code string) string {
			return fmt.Sprintf("Ya existe un registro duplicado para el consolidado %s.", code)
		},
	},
	{
		keyword: "cannot be null",
		message: func(code string) string {
			return fmt.Sprintf("Faltan datos obligatorios para el consolidado %s.", code)
		},
	},
}

// classifyRecordError traduce la falla técnica de un registro a un mensaje
// de usuario; los errores sin regla reciben el genérico con el código de
// almacén del registro.
func classifyRecordError(err error, code string) string {
	technical := err.Error()
	for _, rule := range recordErrorRules {
		if strings.Contains(technical, rule.keyword) {
			return rule.message(code)
		}
	}
	return fmt.Sprintf("No se pudo procesar el consolidado %s. Revisa los datos.", code)
}

// ConsolidatedService CRUD de consolidados, procesamiento por lotes y
// sincronización por período.
type ConsolidatedService struct {
	repo     repository.ConsolidatedRepository
	enricher *Enricher
	backfill *BackfillSynchronizer
	logger   *logrus.Logger
}

// NewConsolidatedService crea el servicio de consolidados.
func NewConsolidatedService(
	repo repository.ConsolidatedRepository,
	enricher *Enricher,
	backfill *BackfillSynchronizer,
	logger *logrus.Logger,
) *ConsolidatedService {
	return &ConsolidatedService{
		repo:     repo,
		enricher: enricher,
		backfill: backfill,
		logger:   logger,
	}
}

// CreateConsolidatedInput alta o edición manual de un consolidado.
type CreateConsolidatedInput struct {
	Distributor            *string `json:"distributor"`
	CodeProductDistributor *string `json:"codeProductDistributor"`
	CodeStoreDistributor   *string `json:"codeStoreDistributor"`
	DescriptionDistributor *string `json:"descriptionDistributor"`
	UnitsSoldDistributor   *int    `json:"unitsSoldDistributor"`
	SaleDate               *string `json:"saleDate"`
	CalculateDate          *string `json:"calculateDate"`
	Status                 *bool   `json:"status"`
}

// Create enriquece el registro y lo persiste.
func (s *ConsolidatedService) Create(ctx context.Context, in CreateConsolidatedInput) (*model.ConsolidatedDataStore, error) {
	fields, err := s.enricher.Enrich(ctx,
		utils.Deref(in.Distributor),
		utils.Deref(in.CodeProductDistributor),
		utils.Deref(in.CodeStoreDistributor),
		utils.Deref(in.DescriptionDistributor),
	)
	if err != nil {
		return nil, err
	}
	saleDate, err := parseDateOnly(in.SaleDate)
	if err != nil {
		return nil, err
	}
	calculateDate, err := parseDateOnly(in.CalculateDate)
	if err != nil {
		return nil, err
	}
	c := &model.ConsolidatedDataStore{
		Distributor:            in.Distributor,
		CodeProductDistributor: in.CodeProductDistributor,
		CodeStoreDistributor:   in.CodeStoreDistributor,
		DescriptionDistributor: in.DescriptionDistributor,
		UnitsSoldDistributor:   in.UnitsSoldDistributor,
		SaleDate:               saleDate,
		CodeProduct:            fields.CodeProduct,
		CodeStore:              fields.CodeStore,
		ProductModel:           fields.ProductModel,
		StoreName:              fields.StoreName,
		AuthorizedDistributor:  fields.AuthorizedDistributor,
		CalculateDate:          calculateDate,
		Status:                 in.Status,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update re-enriquece con las claves del registro EXISTENTE (los campos de
// origen son inmutables para el cálculo de claves) y aplica la edición.
func (s *ConsolidatedService) Update(ctx context.Context, id int64, in CreateConsolidatedInput) (*model.ConsolidatedDataStore, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("consolidado con ID %d", id)
	}
	fields, err := s.enricher.Enrich(ctx,
		utils.Deref(existing.Distributor),
		utils.Deref(existing.CodeProductDistributor),
		utils.Deref(existing.CodeStoreDistributor),
		utils.Deref(existing.DescriptionDistributor),
	)
	if err != nil {
		return nil, err
	}
	saleDate, err := parseDateOnly(in.SaleDate)
	if err != nil {
		return nil, err
	}
	calculateDate, err := parseDateOnly(in.CalculateDate)
	if err != nil {
		return nil, err
	}
	patch := map[string]interface{}{
		"distributor":              in.Distributor,
		"code_product_distributor": in.CodeProductDistributor,
		"code_store_distributor":   in.CodeStoreDistributor,
		"description_distributor":  in.DescriptionDistributor,
		"units_sold_distributor":   in.UnitsSoldDistributor,
		"sale_date":                saleDate,
		"code_product":             fields.CodeProduct,
		"code_store":               fields.CodeStore,
		"product_model":            fields.ProductModel,
		"store_name":               fields.StoreName,
		"authorized_distributor":   fields.AuthorizedDistributor,
		"calculate_date":           calculateDate,
		"status":                   in.Status,
		"updated_at":               time.Now(),
	}
	if err := s.repo.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateStatus cambia solo la bandera de estado.
func (s *ConsolidatedService) UpdateStatus(ctx context.Context, id int64, status bool) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFoundf("consolidado con ID %d", id)
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"status": status, "updated_at": time.Now()})
}

// Delete elimina un consolidado puntual.
func (s *ConsolidatedService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFoundf("consolidado con ID %d", id)
	}
	return s.repo.Delete(ctx, id)
}

// ProcessBatch procesa un arreglo de registros crudos: cada uno se
// enriquece y persiste de forma independiente; la falla de un registro nunca
// aborta el lote. El estado global solo es FAILURE si un pánico escapa del
// aislamiento por registro.
func (s *ConsolidatedService) ProcessBatch(ctx context.Context, records []RawSelloutRecord, matriculationTemplateID int64, calculateDate time.Time) (result BatchRunResult) {
	start := time.Now()
	result = BatchRunResult{
		RunID:            uuid.NewString(),
		StartTime:        start,
		RecordsExtracted: len(records),
	}

	type outcome struct {
		err  error
		code string
	}
	outcomes := make([]outcome, 0, len(records))

	defer func() {
		// Los contadores se pliegan sobre los resultados por registro
		// después de la barrera, nunca como estado mutable compartido.
		for _, o := range outcomes {
			if o.err == nil {
				result.RecordsProcessed++
				continue
			}
			result.RecordsFailed++
			result.TechErrors = append(result.TechErrors, o.err.Error())
			result.UserErrors = append(result.UserErrors, classifyRecordError(o.err, o.code))
		}
		result.RecordsSaved = result.RecordsProcessed
		result.EndTime = time.Now()
		result.Status = BatchStatusSuccess
		if p := recover(); p != nil {
			result.Status = BatchStatusFailure
			msg := fmt.Sprintf("error inesperado procesando el lote: %v", p)
			result.ErrorMessage = &msg
			s.logger.WithField("run_id", result.RunID).Error(msg)
		}
	}()

	for _, rec := range records {
		err := s.processRecord(ctx, rec, matriculationTemplateID, calculateDate)
		outcomes = append(outcomes, outcome{err: err, code: utils.Deref(rec.CodeStoreDistributor)})
	}
	return result
}

func (s *ConsolidatedService) processRecord(ctx context.Context, rec RawSelloutRecord, matriculationTemplateID int64, calculateDate time.Time) error {
	fields, err := s.enricher.Enrich(ctx,
		utils.Deref(rec.Distributor),
		utils.Deref(rec.CodeProductDistributor),
		utils.Deref(rec.CodeStoreDistributor),
		utils.Deref(rec.DescriptionDistributor),
	)
	if err != nil {
		return err
	}
	saleDate, err := parseDateOnly(rec.SaleDate)
	if err != nil {
		return err
	}
	units := rec.UnitsSoldDistributor
	if units == nil {
		units = utils.Ptr(1)
	}
	c := &model.ConsolidatedDataStore{
		Distributor:             rec.Distributor,
		CodeProductDistributor:  rec.CodeProductDistributor,
		CodeStoreDistributor:    rec.CodeStoreDistributor,
		DescriptionDistributor:  rec.DescriptionDistributor,
		UnitsSoldDistributor:    units,
		SaleDate:                saleDate,
		CodeProduct:             fields.CodeProduct,
		CodeStore:               fields.CodeStore,
		ProductModel:            fields.ProductModel,
		StoreName:               fields.StoreName,
		AuthorizedDistributor:   fields.AuthorizedDistributor,
		CalculateDate:           &calculateDate,
		MatriculationTemplateID: &matriculationTemplateID,
	}
	return s.repo.Create(ctx, c)
}

// SyncSummary resultado de una sincronización por período.
type SyncSummary struct {
	UpdatedStores   int `json:"updatedStores"`
	UpdatedProducts int `json:"updatedProducts"`
}

// SyncPeriod corre las dos pasadas de backfill (almacenes y productos)
// acotadas al primer día del mes indicado.
func (s *ConsolidatedService) SyncPeriod(ctx context.Context, year, month int) (SyncSummary, error) {
	monthDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	updatedStores, err := s.backfill.SyncStores(ctx, &monthDate)
	if err != nil {
		return SyncSummary{}, err
	}
	updatedProducts, err := s.backfill.SyncProducts(ctx, &monthDate)
	if err != nil {
		return SyncSummary{UpdatedStores: updatedStores}, err
	}
	return SyncSummary{UpdatedStores: updatedStores, UpdatedProducts: updatedProducts}, nil
}

// ListNullFields listado paginado de consolidados filtrado por campos
// derivados nulos.
func (s *ConsolidatedService) ListNullFields(ctx context.Context, page, pageSize int, search string, nulls repository.NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	return s.repo.FindByFilters(ctx, page, pageSize, search, nulls, calculateDate)
}

// ListNullFieldsUnique claves de origen únicas con campos sin resolver.
func (s *ConsolidatedService) ListNullFieldsUnique(ctx context.Context, nulls repository.NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	return s.repo.FindNullFieldsUnique(ctx, nulls, calculateDate)
}

// NullFieldDetail resumen de campos sin resolver por período.
func (s *ConsolidatedService) NullFieldDetail(ctx context.Context, calculateDate *time.Time) (*repository.NullFieldDetail, error) {
	return s.repo.CountNullFieldDetail(ctx, calculateDate)
}

// parseDateOnly interpreta fechas "2006-01-02" descartando la parte horaria
// si viene en formato ISO completo. nil o vacío devuelven nil sin error.
func parseDateOnly(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	raw := *s
	if idx := strings.Index(raw, "T"); idx >= 0 {
		raw = raw[:idx]
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", *s, err)
	}
	return &t, nil
}
