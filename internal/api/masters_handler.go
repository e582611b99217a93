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

// MastersHandler endpoints de maestros de productos y almacenes: CRUD,
// importación masiva y sincronización manual.
type MastersHandler struct {
	masters *service.MastersService
	logger  *logrus.Logger
}

// NewMastersHandler crea el handler de maestros con sus servicios.
func NewMastersHandler(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *MastersHandler {
	consolidatedRepo := repository.NewConsolidatedRepository(db)
	productMasters := repository.NewProductMasterRepository(db)
	storeMasters := repository.NewStoreMasterRepository(db)
	productCatalog := repository.NewProductCatalogRepository(db)
	storeCatalog := repository.NewStoreCatalogRepository(db)

	enricher := service.NewEnricher(productMasters, storeMasters, productCatalog, storeCatalog, logger)
	backfill := service.NewBackfillSynchronizer(
		consolidatedRepo, productMasters, storeMasters, enricher, logger,
		cfg.Sync.BatchSize, cfg.Sync.Pause)
	return &MastersHandler{
		masters: service.NewMastersService(
			storeMasters, productMasters, productCatalog, storeCatalog,
			consolidatedRepo, backfill, enricher, logger,
			cfg.Sync.MasterChunkStores, cfg.Sync.MasterChunkProduct, cfg.Sync.PropagateBatchSize),
		logger: logger,
	}
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// CreateStore alta de un maestro de almacenes
// POST /api/masters/stores
func (h *MastersHandler) CreateStore(c *gin.Context) {
	var in service.StoreMasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.masters.CreateStoreMaster(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("alta de maestro de almacenes fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateStore edición de un maestro de almacenes
// PUT /api/masters/stores/:id
func (h *MastersHandler) UpdateStore(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var in service.StoreMasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.masters.UpdateStoreMaster(c.Request.Context(), id, in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStore baja de un maestro de almacenes
// DELETE /api/masters/stores/:id
func (h *MastersHandler) DeleteStore(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if err := h.masters.DeleteStoreMaster(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maestro de almacenes eliminado"})
}

// ListStores listado paginado de maestros de almacenes
// GET /api/masters/stores?page=1&page_size=20&search=
func (h *MastersHandler) ListStores(c *gin.Context) {
	page, pageSize := paginationParams(c)
	items, total, err := h.masters.ListStoreMasters(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// ListUniqueStores pares únicos distribuidor/almacén
// GET /api/masters/stores/unique?distributor=&store=
func (h *MastersHandler) ListUniqueStores(c *gin.Context) {
	items, total, err := h.masters.ListUniqueStores(
		c.Request.Context(), c.Query("distributor"), c.Query("store"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// CreateStoresBatch importación masiva de maestros de almacenes
// POST /api/masters/stores/batch
func (h *MastersHandler) CreateStoresBatch(c *gin.Context) {
	var inputs []service.StoreMasterInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.masters.CreateStoreMastersBatch(c.Request.Context(), inputs)
	if err != nil {
		h.logger.WithError(err).Error("importación de maestros de almacenes fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStoresBatch actualización masiva por clave de búsqueda
// PUT /api/masters/stores/batch
func (h *MastersHandler) UpdateStoresBatch(c *gin.Context) {
	var inputs []service.StoreMasterInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.masters.UpdateStoreMastersBatch(c.Request.Context(), inputs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// CreateProduct alta de un maestro de productos
// POST /api/masters/products
func (h *MastersHandler) CreateProduct(c *gin.Context) {
	var in service.ProductMasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.masters.CreateProductMaster(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("alta de maestro de productos fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateProduct edición de un maestro de productos
// PUT /api/masters/products/:id
func (h *MastersHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var in service.ProductMasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.masters.UpdateProductMaster(c.Request.Context(), id, in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct baja de un maestro de productos
// DELETE /api/masters/products/:id
func (h *MastersHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	if err := h.masters.DeleteProductMaster(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "maestro de productos eliminado"})
}

// ListProducts listado paginado de maestros de productos
// GET /api/masters/products?page=1&page_size=20&search=
func (h *MastersHandler) ListProducts(c *gin.Context) {
	page, pageSize := paginationParams(c)
	items, total, err := h.masters.ListProductMasters(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// CreateProductsBatch importación masiva de maestros de productos
// POST /api/masters/products/batch
func (h *MastersHandler) CreateProductsBatch(c *gin.Context) {
	var inputs []service.ProductMasterInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.masters.CreateProductMastersBatch(c.Request.Context(), inputs)
	if err != nil {
		h.logger.WithError(err).Error("importación de maestros de productos fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateProductsBatch actualización masiva por clave de búsqueda
// PUT /api/masters/products/batch
func (h *MastersHandler) UpdateProductsBatch(c *gin.Context) {
	var inputs []service.ProductMasterInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.masters.UpdateProductMastersBatch(c.Request.Context(), inputs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// SyncStores relanza la sincronización de almacenes sobre los pendientes
// POST /api/masters/stores/sync
func (h *MastersHandler) SyncStores(c *gin.Context) {
	synced, err := h.masters.SyncMasterStores(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("sincronización de almacenes fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced})
}

// SyncProducts relanza la sincronización de productos sobre los pendientes
// POST /api/masters/products/sync
func (h *MastersHandler) SyncProducts(c *gin.Context) {
	synced, err := h.masters.SyncMasterProducts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("sincronización de productos fallida")
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": synced})
}

// GetProductSic consulta puntual del catálogo de productos
// GET /api/masters/catalog/products/:jde_code
func (h *MastersHandler) GetProductSic(c *gin.Context) {
	p, err := h.masters.FindProductSic(c.Request.Context(), c.Param("jde_code"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetStoreSic consulta puntual del catálogo de almacenes
// GET /api/masters/catalog/stores/:store_code
func (h *MastersHandler) GetStoreSic(c *gin.Context) {
	code, err := strconv.ParseInt(c.Param("store_code"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_code inválido"})
		return
	}
	st, err := h.masters.FindStoreSic(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
