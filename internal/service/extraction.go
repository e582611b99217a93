package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// consolidatedBlockName nombre del bloque del payload que trae los registros
// de sell-out.
const consolidatedBlockName = "consolidated_data_stores"

// ExtractionService recibe el payload crudo del extractor, dispara el
// procesamiento por lotes y deja registro de la corrida y de las bitácoras
// de matriculación.
type ExtractionService struct {
	extractions   repository.ExtractionRepository
	matriculation repository.MatriculationRepository
	consolidated  repository.ConsolidatedRepository
	processor     *ConsolidatedService
	logger        *logrus.Logger
}

// NewExtractionService crea el servicio de extracciones.
func NewExtractionService(
	extractions repository.ExtractionRepository,
	matriculation repository.MatriculationRepository,
	consolidated repository.ConsolidatedRepository,
	processor *ConsolidatedService,
	logger *logrus.Logger,
) *ExtractionService {
	return &ExtractionService{
		extractions:   extractions,
		matriculation: matriculation,
		consolidated:  consolidated,
		processor:     processor,
		logger:        logger,
	}
}

// MatriculationLogInput bitácora de carga declarada por el extractor.
type MatriculationLogInput struct {
	Distributor  string `json:"distributor"`
	StoreName    string `json:"storeName"`
	RowsCount    int    `json:"rowsCount"`
	ProductCount int    `json:"productCount"`
}

// CreateExtractedDataInput payload de una extracción.
type CreateExtractedDataInput struct {
	DataContent       json.RawMessage         `json:"dataContent" binding:"required"`
	MatriculationID   int64                   `json:"matriculationId" binding:"required"`
	CalculateDate     string                  `json:"calculateDate" binding:"required"`
	Distributor       *string                 `json:"distributor"`
	StoreName         *string                 `json:"storeName"`
	RecordCount       int                     `json:"recordCount"`
	ProductCount      int                     `json:"productCount"`
	UploadTotal       int                     `json:"uploadTotal"`
	UploadCount       int                     `json:"uploadCount"`
	MatriculationLogs []MatriculationLogInput `json:"matriculationLogs"`
}

// ExtractionResult lo que se devuelve al extractor tras procesar el payload.
type ExtractionResult struct {
	ExtractedDataID int64          `json:"extractedDataId"`
	Batch           BatchRunResult `json:"batch"`
}

// CreateAndProcess guarda el payload, procesa el bloque de consolidados y
// persiste el detalle de la corrida. El procesamiento tolera fallas por
// registro; solo los errores de validación o de infraestructura abortan.
func (s *ExtractionService) CreateAndProcess(ctx context.Context, in CreateExtractedDataInput) (*ExtractionResult, error) {
	records, err := parseConsolidatedBlock(in.DataContent)
	if err != nil {
		return nil, err
	}

	template, err := s.matriculation.FindTemplateByID(ctx, in.MatriculationID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, domain.NotFoundf("plantilla de matriculación %d", in.MatriculationID)
	}

	calculateDate, err := time.Parse("2006-01-02", in.CalculateDate)
	if err != nil {
		return nil, domain.Validationf("calculateDate inválida %q: se espera AAAA-MM-DD", in.CalculateDate)
	}

	// La plantilla adopta el distribuidor y almacén del último envío.
	templatePatch := map[string]interface{}{}
	if in.Distributor != nil && *in.Distributor != "" {
		templatePatch["distributor"] = *in.Distributor
	}
	if in.StoreName != nil && *in.StoreName != "" {
		templatePatch["store_name"] = *in.StoreName
	}
	if len(templatePatch) > 0 {
		templatePatch["updated_at"] = time.Now()
		if err := s.matriculation.UpdateTemplateFields(ctx, template.ID, templatePatch); err != nil {
			return nil, err
		}
	}

	// El primer envío de una carga fraccionada reemplaza el período completo:
	// se descartan bitácoras y consolidados previos de la plantilla.
	if in.UploadCount <= 1 {
		if err := s.matriculation.DeleteLogsByMatriculation(ctx, template.ID, calculateDate); err != nil {
			return nil, err
		}
		if err := s.consolidated.DeleteByMatriculation(ctx, template.ID, calculateDate); err != nil {
			return nil, err
		}
	}

	batch := s.processor.ProcessBatch(ctx, records, template.ID, calculateDate)

	if batch.RecordsSaved > 0 {
		if err := s.saveMatriculationLogs(ctx, template.ID, calculateDate, in); err != nil {
			s.logger.WithError(err).Warn("no se pudieron guardar las bitácoras de matriculación")
		}
	}

	extracted, err := s.persistExtraction(ctx, in, calculateDate, batch)
	if err != nil {
		return nil, err
	}
	return &ExtractionResult{ExtractedDataID: extracted.ID, Batch: batch}, nil
}

// FindExtractedData consulta puntual de un payload guardado.
func (s *ExtractionService) FindExtractedData(ctx context.Context, id int64) (*model.ExtractedDataSellout, error) {
	e, err := s.extractions.FindExtractedDataByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.NotFoundf("extracción %d", id)
	}
	return e, nil
}

// ListExtractedData listado paginado de payloads guardados.
func (s *ExtractionService) ListExtractedData(ctx context.Context, page, pageSize int) ([]*model.ExtractedDataSellout, int64, error) {
	return s.extractions.FindExtractedDataPaginated(ctx, page, pageSize)
}

// DeleteExtractedData elimina un payload guardado.
func (s *ExtractionService) DeleteExtractedData(ctx context.Context, id int64) error {
	e, err := s.extractions.FindExtractedDataByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return domain.NotFoundf("extracción %d", id)
	}
	return s.extractions.DeleteExtractedData(ctx, id)
}

// parseConsolidatedBlock extrae los registros del bloque
// consolidated_data_stores del payload. El payload puede ser el bloque
// directo (arreglo) o un objeto que lo contiene.
func parseConsolidatedBlock(raw json.RawMessage) ([]RawSelloutRecord, error) {
	var records []RawSelloutRecord
	if err := json.Unmarshal(raw, &records); err == nil && len(records) > 0 {
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if block, ok := envelope[consolidatedBlockName]; ok {
			records = nil
			if err := json.Unmarshal(block, &records); err == nil && len(records) > 0 {
				return records, nil
			}
		}
	}
	return nil, domain.Validationf("el bloque '%s' no contiene registros o no es un arreglo", consolidatedBlockName)
}

func (s *ExtractionService) saveMatriculationLogs(ctx context.Context, templateID int64, calculateDate time.Time, in CreateExtractedDataInput) error {
	logs := in.MatriculationLogs
	if len(logs) == 0 && in.Distributor != nil && in.StoreName != nil {
		logs = []MatriculationLogInput{{
			Distributor:  *in.Distributor,
			StoreName:    *in.StoreName,
			RowsCount:    in.RecordCount,
			ProductCount: in.ProductCount,
		}}
	}
	for _, lg := range logs {
		existing, err := s.matriculation.FindLog(ctx, templateID, calculateDate, lg.Distributor, lg.StoreName)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.RowsCount += lg.RowsCount
			existing.ProductCount += lg.ProductCount
			existing.UploadCount = in.UploadCount
			existing.UploadTotal = in.UploadTotal
			if err := s.matriculation.UpdateLog(ctx, existing); err != nil {
				return err
			}
			continue
		}
		if err := s.matriculation.CreateLog(ctx, &model.MatriculationLog{
			MatriculationID: templateID,
			CalculateDate:   calculateDate,
			RowsCount:       lg.RowsCount,
			ProductCount:    lg.ProductCount,
			UploadTotal:     in.UploadTotal,
			UploadCount:     in.UploadCount,
			Distributor:     utils.Ptr(lg.Distributor),
			StoreName:       utils.Ptr(lg.StoreName),
		}); err != nil {
			return err
		}
	}
	return nil
}

// processingDetails resumen jsonb que acompaña al payload guardado.
type processingDetails struct {
	RunID      string            `json:"runId"`
	DurationMs int64             `json:"durationMs"`
	ErrorCount int               `json:"errorCount"`
	Errors     []string          `json:"errors"`
	TechErrors []string          `json:"techErrors"`
	Resumen    processingSummary `json:"resumen"`
}

type processingSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

func (s *ExtractionService) persistExtraction(ctx context.Context, in CreateExtractedDataInput, calculateDate time.Time, batch BatchRunResult) (*model.ExtractedDataSellout, error) {
	details := processingDetails{
		RunID:      batch.RunID,
		DurationMs: batch.EndTime.Sub(batch.StartTime).Milliseconds(),
		ErrorCount: batch.RecordsFailed,
		Errors:     groupMessages(batch.UserErrors),
		TechErrors: groupMessages(batch.TechErrors),
		Resumen: processingSummary{
			Total:   batch.RecordsExtracted,
			Success: batch.RecordsSaved,
			Failed:  batch.RecordsFailed,
		},
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	extracted := &model.ExtractedDataSellout{
		DataContent:       datatypes.JSON(in.DataContent),
		DataName:          consolidatedBlockName,
		RecordCount:       batch.RecordsExtracted,
		IsProcessed:       true,
		ProcessedDate:     &now,
		ProcessingDetails: datatypes.JSON(detailsJSON),
		CalculateDate:     &calculateDate,
	}
	if err := s.extractions.CreateExtractedData(ctx, extracted); err != nil {
		return nil, err
	}

	execJSON, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	if err := s.extractions.CreateExtractionLog(ctx, &model.ExtractionLogSellout{
		RunID:            batch.RunID,
		StartTime:        batch.StartTime,
		EndTime:          batch.EndTime,
		Status:           batch.Status,
		RecordsExtracted: batch.RecordsExtracted,
		RecordsProcessed: batch.RecordsProcessed,
		RecordsFailed:    batch.RecordsFailed,
		ErrorMessage:     batch.ErrorMessage,
		ExecutionDetails: datatypes.JSON(execJSON),
	}); err != nil {
		s.logger.WithError(err).Warn("no se pudo guardar la bitácora de extracción")
	}
	return extracted, nil
}

// groupMessages colapsa mensajes repetidos en uno solo con sufijo "(xN)",
// preservando el orden de primera aparición.
func groupMessages(messages []string) []string {
	counts := make(map[string]int, len(messages))
	order := make([]string, 0, len(messages))
	for _, msg := range messages {
		if counts[msg] == 0 {
			order = append(order, msg)
		}
		counts[msg]++
	}
	out := make([]string, 0, len(order))
	for _, msg := range order {
		if n := counts[msg]; n > 1 {
			out = append(out, fmt.Sprintf("%s (x%d)", msg, n))
		} else {
			out = append(out, msg)
		}
	}
	return out
}
