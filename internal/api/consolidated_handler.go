package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/config"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConsolidatedHandler endpoints de consolidados: CRUD manual, pantalla de
// revisión de campos sin resolver, merge de duplicados y sincronización por
// período.
type ConsolidatedHandler struct {
	consolidated *service.ConsolidatedService
	merge        *service.MergeResolver
	logger       *logrus.Logger
}

// NewConsolidatedHandler crea el handler de consolidados con sus servicios.
func NewConsolidatedHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *ConsolidatedHandler {
	consolidatedRepo := repository.NewConsolidatedRepository(db)
	productMasters := repository.NewProductMasterRepository(db)
	storeMasters := repository.NewStoreMasterRepository(db)
	productCatalog := repository.NewProductCatalogRepository(db)
	storeCatalog := repository.NewStoreCatalogRepository(db)

	enricher := service.NewEnricher(productMasters, storeMasters, productCatalog, storeCatalog, logger)
	backfill := service.NewBackfillSynchronizer(
		consolidatedRepo, productMasters, storeMasters, enricher, logger,
		cfg.Sync.BatchSize, cfg.Sync.Pause)
	return &ConsolidatedHandler{
		consolidated: service.NewConsolidatedService(consolidatedRepo, enricher, backfill, logger),
		merge: service.NewMergeResolver(
			consolidatedRepo, productMasters, storeMasters, productCatalog, storeCatalog, enricher, logger),
		logger: logger,
	}
}

// Create alta manual de un consolidado
// POST /api/consolidated
func (h *ConsolidatedHandler) Create(c *gin.Context) {
	var in service.CreateConsolidatedInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.consolidated.Create(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("alta de consolidado fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update edición manual de un consolidado (re-enriquece los derivados)
// PUT /api/consolidated/:id
func (h *ConsolidatedHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var in service.CreateConsolidatedInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.consolidated.Update(c.Request.Context(), id, in)
	if err != nil {
		h.logger.WithError(err).Error("edición de consolidado fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateStatus cambia el estado visible de un consolidado
// PATCH /api/consolidated/:id/status
func (h *ConsolidatedHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var body struct {
		Status *bool `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.consolidated.UpdateStatus(c.Request.Context(), id, *body.Status); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "estado actualizado"})
}

// Delete elimina un consolidado
// DELETE /api/consolidated/:id
func (h *ConsolidatedHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if err := h.consolidated.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "consolidado eliminado"})
}

// parseNullFilters filtros de nulidad de la pantalla de revisión. Cada flag
// acota a las filas con ese campo derivado sin resolver.
func parseNullFilters(c *gin.Context) repository.NullFieldFilters {
	boolQuery := func(name string) bool {
		v, _ := strconv.ParseBool(c.Query(name))
		return v
	}
	return repository.NullFieldFilters{
		CodeProduct:           boolQuery("null_code_product"),
		CodeStore:             boolQuery("null_code_store"),
		ProductModel:          boolQuery("null_product_model"),
		StoreName:             boolQuery("null_store_name"),
		AuthorizedDistributor: boolQuery("null_authorized_distributor"),
	}
}

func parseCalculateDate(c *gin.Context) (*time.Time, error) {
	raw := c.Query("calculate_date")
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Validationf("calculate_date inválida %q", raw)
	}
	return &t, nil
}

// List listado paginado con filtros de nulidad
// GET /api/consolidated?page=1&page_size=20&search=&null_code_product=true&calculate_date=2025-05-01
func (h *ConsolidatedHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	calcDate, err := parseCalculateDate(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	items, total, err := h.consolidated.ListNullFields(
		c.Request.Context(), page, pageSize, c.Query("search"), parseNullFilters(c), calcDate)
	if err != nil {
		h.logger.WithError(err).Error("listado de consolidados fallido")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// ListUnique claves de origen únicas con campos sin resolver
// GET /api/consolidated/unique
func (h *ConsolidatedHandler) ListUnique(c *gin.Context) {
	calcDate, err := parseCalculateDate(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	items, total, err := h.consolidated.ListNullFieldsUnique(c.Request.Context(), parseNullFilters(c), calcDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// NullFieldDetail resumen de campos sin resolver del período
// GET /api/consolidated/null-detail?calculate_date=2025-05-01
func (h *ConsolidatedHandler) NullFieldDetail(c *gin.Context) {
	calcDate, err := parseCalculateDate(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	detail, err := h.consolidated.NullFieldDetail(c.Request.Context(), calcDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// mergeItem elemento del payload de merge. Con codeProductDistributor se
// interpreta como clave de producto; si no, exige codeStoreDistributor y se
// interpreta como clave de almacén.
type mergeItem struct {
	Distributor            string  `json:"distributor" binding:"required"`
	CodeProductDistributor *string `json:"codeProductDistributor"`
	DescriptionDistributor *string `json:"descriptionDistributor"`
	CodeStoreDistributor   *string `json:"codeStoreDistributor"`
	CodeProduct            *string `json:"codeProduct"`
	CodeStore              *string `json:"codeStore"`
}

func (it mergeItem) toIntent() (service.MergeIntent, error) {
	switch {
	case it.CodeProductDistributor != nil:
		desc := ""
		if it.DescriptionDistributor != nil {
			desc = *it.DescriptionDistributor
		}
		return service.MergeIntent{
			Key: service.ByProductKey{
				Distributor: it.Distributor,
				ProductCode: *it.CodeProductDistributor,
				Description: desc,
			},
			CodeProduct: it.CodeProduct,
		}, nil
	case it.CodeStoreDistributor != nil:
		return service.MergeIntent{
			Key: service.ByStoreKey{
				Distributor: it.Distributor,
				StoreCode:   *it.CodeStoreDistributor,
			},
			CodeStore: it.CodeStore,
		}, nil
	default:
		return service.MergeIntent{}, domain.Validationf(
			"cada elemento necesita codeProductDistributor o codeStoreDistributor")
	}
}

// MergeDuplicated corrige en bloque los consolidados duplicados
// POST /api/consolidated/merge
func (h *ConsolidatedHandler) MergeDuplicated(c *gin.Context) {
	var items []mergeItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	intents := make([]service.MergeIntent, 0, len(items))
	for _, it := range items {
		intent, err := it.toIntent()
		if err != nil {
			abortWithError(c, err)
			return
		}
		intents = append(intents, intent)
	}
	updated, err := h.merge.UpdateDuplicated(c.Request.Context(), intents)
	if err != nil {
		h.logger.WithError(err).Error("merge de duplicados fallido")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// SyncPeriod relanza la resolución de mapeos de un período
// POST /api/consolidated/sync?year=2025&month=5
func (h *ConsolidatedHandler) SyncPeriod(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year inválido"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month inválido"})
		return
	}
	summary, err := h.consolidated.SyncPeriod(c.Request.Context(), year, month)
	if err != nil {
		h.logger.WithError(err).Error("sincronización por período fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
