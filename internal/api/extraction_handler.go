package api

import (
	"net/http"
	"strconv"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/config"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExtractionHandler endpoints del extractor: recepción del payload crudo y
// consulta de extracciones guardadas.
type ExtractionHandler struct {
	extraction *service.ExtractionService
	logger     *logrus.Logger
}

// NewExtractionHandler crea el handler de extracciones con sus servicios.
func NewExtractionHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *ExtractionHandler {
	consolidatedRepo := repository.NewConsolidatedRepository(db)
	productMasters := repository.NewProductMasterRepository(db)
	storeMasters := repository.NewStoreMasterRepository(db)
	productCatalog := repository.NewProductCatalogRepository(db)
	storeCatalog := repository.NewStoreCatalogRepository(db)

	enricher := service.NewEnricher(productMasters, storeMasters, productCatalog, storeCatalog, logger)
	backfill := service.NewBackfillSynchronizer(
		consolidatedRepo, productMasters, storeMasters, enricher, logger,
		cfg.Sync.BatchSize, cfg.Sync.Pause)
	processor := service.NewConsolidatedService(consolidatedRepo, enricher, backfill, logger)
	return &ExtractionHandler{
		extraction: service.NewExtractionService(
			repository.NewExtractionRepository(db),
			repository.NewMatriculationRepository(db),
			consolidatedRepo, processor, logger),
		logger: logger,
	}
}

// Create recibe y procesa un payload del extractor
// POST /api/extractions
func (h *ExtractionHandler) Create(c *gin.Context) {
	var in service.CreateExtractedDataInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.extraction.CreateAndProcess(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("procesamiento de extracción fallido")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get consulta puntual de una extracción
// GET /api/extractions/:id
func (h *ExtractionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	e, err := h.extraction.FindExtractedData(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// List listado paginado de extracciones
// GET /api/extractions?page=1&page_size=20
func (h *ExtractionHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	items, total, err := h.extraction.ListExtractedData(c.Request.Context(), page, pageSize)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// Delete elimina una extracción guardada
// DELETE /api/extractions/:id
func (h *ExtractionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if err := h.extraction.DeleteExtractedData(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "extracción eliminada"})
}
