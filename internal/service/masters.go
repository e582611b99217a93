package service

import (
	"context"
	"sync"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/normalize"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	defaultStoreChunkSize   = 1000
	defaultProductChunkSize = 2000
	defaultPropagateChunk   = 50
)

// MastersService CRUD e importación masiva de los maestros de sell-out. Cada
// mutación de un maestro propaga inmediatamente el mapeo a los consolidados
// que comparten su clave de búsqueda; los errores de propagación se registran
// pero no revierten la escritura del maestro.
type MastersService struct {
	storeMasters   repository.StoreMasterRepository
	productMasters repository.ProductMasterRepository
	productCatalog repository.ProductCatalogRepository
	storeCatalog   repository.StoreCatalogRepository
	consolidated   repository.ConsolidatedRepository
	backfill       *BackfillSynchronizer
	enricher       *Enricher
	logger         *logrus.Logger

	storeChunkSize   int
	productChunkSize int
	propagateChunk   int
}

// NewMastersService crea el servicio de maestros. Los tamaños de bloque en
// cero caen a los valores por defecto.
func NewMastersService(
	storeMasters repository.StoreMasterRepository,
	productMasters repository.ProductMasterRepository,
	productCatalog repository.ProductCatalogRepository,
	storeCatalog repository.StoreCatalogRepository,
	consolidated repository.ConsolidatedRepository,
	backfill *BackfillSynchronizer,
	enricher *Enricher,
	logger *logrus.Logger,
	storeChunkSize, productChunkSize, propagateChunk int,
) *MastersService {
	if storeChunkSize <= 0 {
		storeChunkSize = defaultStoreChunkSize
	}
	if productChunkSize <= 0 {
		productChunkSize = defaultProductChunkSize
	}
	if propagateChunk <= 0 {
		propagateChunk = defaultPropagateChunk
	}
	return &MastersService{
		storeMasters:     storeMasters,
		productMasters:   productMasters,
		productCatalog:   productCatalog,
		storeCatalog:     storeCatalog,
		consolidated:     consolidated,
		backfill:         backfill,
		enricher:         enricher,
		logger:           logger,
		storeChunkSize:   storeChunkSize,
		productChunkSize: productChunkSize,
		propagateChunk:   propagateChunk,
	}
}

// StoreMasterInput datos de entrada de un maestro de almacenes.
type StoreMasterInput struct {
	Distributor      string  `json:"distributor" binding:"required"`
	StoreDistributor string  `json:"storeDistributor" binding:"required"`
	CodeStoreSic     *string `json:"codeStoreSic"`
}

// ProductMasterInput datos de entrada de un maestro de productos.
type ProductMasterInput struct {
	Distributor        string  `json:"distributor" binding:"required"`
	ProductDistributor string  `json:"productDistributor" binding:"required"`
	ProductStore       string  `json:"productStore"`
	CodeProductSic     *string `json:"codeProductSic"`
}

func (in StoreMasterInput) toModel() *model.SelloutStoreMaster {
	return &model.SelloutStoreMaster{
		Distributor:      in.Distributor,
		StoreDistributor: in.StoreDistributor,
		CodeStoreSic:     in.CodeStoreSic,
		SearchStore:      normalize.StoreKey(in.Distributor, in.StoreDistributor),
	}
}

func (in ProductMasterInput) toModel() *model.SelloutProductMaster {
	return &model.SelloutProductMaster{
		Distributor:        in.Distributor,
		ProductDistributor: in.ProductDistributor,
		ProductStore:       in.ProductStore,
		CodeProductSic:     in.CodeProductSic,
		SearchProductStore: normalize.ProductKey(in.Distributor, in.ProductDistributor, in.ProductStore),
	}
}

// CreateStoreMaster crea un maestro de almacenes y propaga el mapeo a los
// consolidados existentes con la misma clave.
func (s *MastersService) CreateStoreMaster(ctx context.Context, in StoreMasterInput) (*model.SelloutStoreMaster, error) {
	m := in.toModel()
	if err := s.storeMasters.Create(ctx, m); err != nil {
		return nil, err
	}
	s.PropagateStoreMappings(ctx, []*model.SelloutStoreMaster{m})
	return m, nil
}

// UpdateStoreMaster actualiza un maestro de almacenes por id.
func (s *MastersService) UpdateStoreMaster(ctx context.Context, id int64, in StoreMasterInput) (*model.SelloutStoreMaster, error) {
	existing, err := s.storeMasters.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("maestro de almacenes %d", id)
	}
	existing.Distributor = in.Distributor
	existing.StoreDistributor = in.StoreDistributor
	existing.CodeStoreSic = in.CodeStoreSic
	existing.SearchStore = normalize.StoreKey(in.Distributor, in.StoreDistributor)
	if err := s.storeMasters.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.PropagateStoreMappings(ctx, []*model.SelloutStoreMaster{existing})
	return existing, nil
}

// DeleteStoreMaster elimina un maestro de almacenes. Los consolidados ya
// resueltos conservan sus campos derivados.
func (s *MastersService) DeleteStoreMaster(ctx context.Context, id int64) error {
	existing, err := s.storeMasters.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFoundf("maestro de almacenes %d", id)
	}
	return s.storeMasters.Delete(ctx, id)
}

// ListStoreMasters listado paginado de maestros de almacenes.
func (s *MastersService) ListStoreMasters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutStoreMaster, int64, error) {
	return s.storeMasters.FindByFilters(ctx, page, pageSize, search)
}

// ListUniqueStores pares únicos distribuidor/almacén para los combos de la
// pantalla de revisión.
func (s *MastersService) ListUniqueStores(ctx context.Context, searchDistributor, searchStore string) ([]*model.SelloutStoreMaster, int64, error) {
	return s.storeMasters.FindUniqueDistributorStores(ctx, searchDistributor, searchStore)
}

// CreateProductMaster crea un maestro de productos y propaga el mapeo.
func (s *MastersService) CreateProductMaster(ctx context.Context, in ProductMasterInput) (*model.SelloutProductMaster, error) {
	m := in.toModel()
	if err := s.productMasters.Create(ctx, m); err != nil {
		return nil, err
	}
	s.PropagateProductMappings(ctx, []*model.SelloutProductMaster{m})
	return m, nil
}

// UpdateProductMaster actualiza un maestro de productos por id.
func (s *MastersService) UpdateProductMaster(ctx context.Context, id int64, in ProductMasterInput) (*model.SelloutProductMaster, error) {
	existing, err := s.productMasters.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundf("maestro de productos %d", id)
	}
	existing.Distributor = in.Distributor
	existing.ProductDistributor = in.ProductDistributor
	existing.ProductStore = in.ProductStore
	existing.CodeProductSic = in.CodeProductSic
	existing.SearchProductStore = normalize.ProductKey(in.Distributor, in.ProductDistributor, in.ProductStore)
	if err := s.productMasters.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.PropagateProductMappings(ctx, []*model.SelloutProductMaster{existing})
	return existing, nil
}

// DeleteProductMaster elimina un maestro de productos.
func (s *MastersService) DeleteProductMaster(ctx context.Context, id int64) error {
	existing, err := s.productMasters.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFoundf("maestro de productos %d", id)
	}
	return s.productMasters.Delete(ctx, id)
}

// ListProductMasters listado paginado de maestros de productos.
func (s *MastersService) ListProductMasters(ctx context.Context, page, pageSize int, search string) ([]*model.SelloutProductMaster, int64, error) {
	return s.productMasters.FindByFilters(ctx, page, pageSize, search)
}

// FindProductSic consulta puntual del catálogo de productos.
func (s *MastersService) FindProductSic(ctx context.Context, jdeCode string) (*model.ProductSic, error) {
	p, err := s.productCatalog.FindByJdeCode(ctx, jdeCode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFoundf("producto SIC %s", jdeCode)
	}
	return p, nil
}

// FindStoreSic consulta puntual del catálogo de almacenes.
func (s *MastersService) FindStoreSic(ctx context.Context, storeCode int64) (*model.StoreSic, error) {
	st, err := s.storeCatalog.FindByStoreCode(ctx, storeCode)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.NotFoundf("almacén SIC %d", storeCode)
	}
	return st, nil
}

// BatchImportResult resumen de una importación masiva de maestros.
type BatchImportResult struct {
	Received int `json:"received"`
	Unique   int `json:"unique"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Synced   int `json:"synced"`
}

// CreateStoreMastersBatch importación masiva de maestros de almacenes. Deduplica
// por clave de búsqueda (gana la última ocurrencia), separa altas de
// actualizaciones por bloques y termina con un barrido de sincronización sobre
// los consolidados pendientes.
func (s *MastersService) CreateStoreMastersBatch(ctx context.Context, inputs []StoreMasterInput) (BatchImportResult, error) {
	result := BatchImportResult{Received: len(inputs)}

	byKey := make(map[string]*model.SelloutStoreMaster, len(inputs))
	order := make([]string, 0, len(inputs))
	for _, in := range inputs {
		m := in.toModel()
		if _, seen := byKey[m.SearchStore]; !seen {
			order = append(order, m.SearchStore)
		}
		byKey[m.SearchStore] = m
	}
	result.Unique = len(order)

	for _, keys := range utils.Chunk(order, s.storeChunkSize) {
		existing, err := s.storeMasters.FindBySearchKeys(ctx, keys)
		if err != nil {
			return result, err
		}
		existingByKey := make(map[string]*model.SelloutStoreMaster, len(existing))
		for _, m := range existing {
			existingByKey[m.SearchStore] = m
		}

		var toInsert, toUpdate []*model.SelloutStoreMaster
		for _, key := range keys {
			incoming := byKey[key]
			if prev, ok := existingByKey[key]; ok {
				prev.Distributor = incoming.Distributor
				prev.StoreDistributor = incoming.StoreDistributor
				prev.CodeStoreSic = incoming.CodeStoreSic
				toUpdate = append(toUpdate, prev)
			} else {
				toInsert = append(toInsert, incoming)
			}
		}
		if err := s.storeMasters.SaveAll(ctx, toUpdate); err != nil {
			return result, err
		}
		if err := s.storeMasters.InsertAll(ctx, toInsert); err != nil {
			return result, err
		}
		result.Updated += len(toUpdate)
		result.Inserted += len(toInsert)
	}

	synced, err := s.SyncMasterStores(ctx)
	if err != nil {
		return result, err
	}
	result.Synced = synced
	return result, nil
}

// CreateProductMastersBatch importación masiva de maestros de productos.
func (s *MastersService) CreateProductMastersBatch(ctx context.Context, inputs []ProductMasterInput) (BatchImportResult, error) {
	result := BatchImportResult{Received: len(inputs)}

	byKey := make(map[string]*model.SelloutProductMaster, len(inputs))
	order := make([]string, 0, len(inputs))
	for _, in := range inputs {
		m := in.toModel()
		if _, seen := byKey[m.SearchProductStore]; !seen {
			order = append(order, m.SearchProductStore)
		}
		byKey[m.SearchProductStore] = m
	}
	result.Unique = len(order)

	for _, keys := range utils.Chunk(order, s.productChunkSize) {
		existing, err := s.productMasters.FindBySearchKeys(ctx, keys)
		if err != nil {
			return result, err
		}
		existingByKey := make(map[string]*model.SelloutProductMaster, len(existing))
		for _, m := range existing {
			existingByKey[m.SearchProductStore] = m
		}

		var toInsert, toUpdate []*model.SelloutProductMaster
		for _, key := range keys {
			incoming := byKey[key]
			if prev, ok := existingByKey[key]; ok {
				prev.Distributor = incoming.Distributor
				prev.ProductDistributor = incoming.ProductDistributor
				prev.ProductStore = incoming.ProductStore
				prev.CodeProductSic = incoming.CodeProductSic
				toUpdate = append(toUpdate, prev)
			} else {
				toInsert = append(toInsert, incoming)
			}
		}
		if err := s.productMasters.SaveAll(ctx, toUpdate); err != nil {
			return result, err
		}
		if err := s.productMasters.InsertAll(ctx, toInsert); err != nil {
			return result, err
		}
		result.Updated += len(toUpdate)
		result.Inserted += len(toInsert)
	}

	synced, err := s.SyncMasterProducts(ctx)
	if err != nil {
		return result, err
	}
	result.Synced = synced
	return result, nil
}

// UpdateStoreMastersBatch actualización masiva por clave de búsqueda. Es
// secuencial y falla rápido: una clave sin maestro aborta el resto.
func (s *MastersService) UpdateStoreMastersBatch(ctx context.Context, inputs []StoreMasterInput) (int, error) {
	updated := 0
	for _, in := range inputs {
		key := normalize.StoreKey(in.Distributor, in.StoreDistributor)
		existing, err := s.storeMasters.FindBySearchKey(ctx, key)
		if err != nil {
			return updated, err
		}
		if existing == nil {
			return updated, domain.NotFoundf("maestro de almacenes %s/%s", in.Distributor, in.StoreDistributor)
		}
		existing.CodeStoreSic = in.CodeStoreSic
		if err := s.storeMasters.Update(ctx, existing); err != nil {
			return updated, err
		}
		s.PropagateStoreMappings(ctx, []*model.SelloutStoreMaster{existing})
		updated++
	}
	return updated, nil
}

// UpdateProductMastersBatch actualización masiva por clave de búsqueda.
func (s *MastersService) UpdateProductMastersBatch(ctx context.Context, inputs []ProductMasterInput) (int, error) {
	updated := 0
	for _, in := range inputs {
		key := normalize.ProductKey(in.Distributor, in.ProductDistributor, in.ProductStore)
		existing, err := s.productMasters.FindBySearchKey(ctx, key)
		if err != nil {
			return updated, err
		}
		if existing == nil {
			return updated, domain.NotFoundf("maestro de productos %s/%s", in.Distributor, in.ProductDistributor)
		}
		existing.CodeProductSic = in.CodeProductSic
		if err := s.productMasters.Update(ctx, existing); err != nil {
			return updated, err
		}
		s.PropagateProductMappings(ctx, []*model.SelloutProductMaster{existing})
		updated++
	}
	return updated, nil
}

// SyncMasterStores barrido de sincronización de almacenes sobre todos los
// consolidados pendientes, sin acotar por período.
func (s *MastersService) SyncMasterStores(ctx context.Context) (int, error) {
	return s.backfill.SyncStores(ctx, nil)
}

// SyncMasterProducts barrido de sincronización de productos.
func (s *MastersService) SyncMasterProducts(ctx context.Context) (int, error) {
	return s.backfill.SyncProducts(ctx, nil)
}

// PropagateStoreMappings aplica cada maestro a los consolidados que comparten
// su clave de búsqueda. Trabaja por bloques con una goroutine por maestro; los
// errores de propagación se registran y se descartan para no revertir las
// escrituras de maestros ya confirmadas.
func (s *MastersService) PropagateStoreMappings(ctx context.Context, masters []*model.SelloutStoreMaster) {
	for _, chunk := range utils.Chunk(masters, s.propagateChunk) {
		var wg sync.WaitGroup
		for _, m := range chunk {
			wg.Add(1)
			go func(m *model.SelloutStoreMaster) {
				defer wg.Done()
				if err := s.propagateStoreMaster(ctx, m); err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"distributor": m.Distributor,
						"store":       m.StoreDistributor,
					}).Warn("propagación de maestro de almacenes fallida")
				}
			}(m)
		}
		wg.Wait()
	}
}

// PropagateProductMappings variante de productos de la propagación.
func (s *MastersService) PropagateProductMappings(ctx context.Context, masters []*model.SelloutProductMaster) {
	for _, chunk := range utils.Chunk(masters, s.propagateChunk) {
		var wg sync.WaitGroup
		for _, m := range chunk {
			wg.Add(1)
			go func(m *model.SelloutProductMaster) {
				defer wg.Done()
				if err := s.propagateProductMaster(ctx, m); err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"distributor": m.Distributor,
						"product":     m.ProductDistributor,
					}).Warn("propagación de maestro de productos fallida")
				}
			}(m)
		}
		wg.Wait()
	}
}

func (s *MastersService) propagateStoreMaster(ctx context.Context, m *model.SelloutStoreMaster) error {
	if m.SearchStore == "" || m.CodeStoreSic == nil || *m.CodeStoreSic == "" {
		return nil
	}
	records, err := s.consolidated.FindBySearchStoreKey(ctx, m.SearchStore)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		s.logger.WithField("search_store", m.SearchStore).
			Debug("sin consolidados para propagar el maestro de almacenes")
		return nil
	}

	var storeName, authorized *string
	storeSic, err := s.enricher.lookupStoreSic(ctx, *m.CodeStoreSic)
	if err != nil {
		return err
	}
	if storeSic != nil {
		storeName = utils.Ptr(storeSic.StoreName)
		authorized = storeSic.Distributor2
	}

	now := time.Now()
	for _, rec := range records {
		rec.CodeStore = m.CodeStoreSic
		rec.StoreName = storeName
		rec.AuthorizedDistributor = authorized
		rec.UpdatedAt = now
	}
	return s.consolidated.SaveAll(ctx, records)
}

func (s *MastersService) propagateProductMaster(ctx context.Context, m *model.SelloutProductMaster) error {
	if m.SearchProductStore == "" || m.CodeProductSic == nil || *m.CodeProductSic == "" {
		return nil
	}
	records, err := s.consolidated.FindBySearchProductKey(ctx, m.SearchProductStore)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		s.logger.WithField("search_product_store", m.SearchProductStore).
			Debug("sin consolidados para propagar el maestro de productos")
		return nil
	}

	var productModel *string
	productSic, err := s.productCatalog.FindByJdeCode(ctx, *m.CodeProductSic)
	if err != nil {
		return err
	}
	if productSic != nil {
		productModel = utils.Ptr(productSic.JdeName)
	}

	now := time.Now()
	for _, rec := range records {
		rec.CodeProduct = m.CodeProductSic
		rec.ProductModel = productModel
		rec.UpdatedAt = now
	}
	return s.consolidated.SaveAll(ctx, records)
}
