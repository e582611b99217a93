package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/normalize"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"

	"github.com/sirupsen/logrus"
)

// EnrichedFields campos derivados de un registro consolidado. Todos
// anulables: un registro sin resolver es un estado válido y consultable, no
// un error.
type EnrichedFields struct {
	CodeProduct           *string
	CodeStore             *string
	ProductModel          *string
	StoreName             *string
	AuthorizedDistributor *string
}

// Enricher resuelve un registro crudo de distribuidor contra los maestros de
// sell-out y el catálogo canónico SIC.
type Enricher struct {
	productMasters repository.ProductMasterRepository
	storeMasters   repository.StoreMasterRepository
	productCatalog repository.ProductCatalogRepository
	storeCatalog   repository.StoreCatalogRepository
	logger         *logrus.Logger
}

// NewEnricher crea el enriquecedor de registros.
func NewEnricher(
	productMasters repository.ProductMasterRepository,
	storeMasters repository.StoreMasterRepository,
	productCatalog repository.ProductCatalogRepository,
	storeCatalog repository.StoreCatalogRepository,
	logger *logrus.Logger,
) *Enricher {
	return &Enricher{
		productMasters: productMasters,
		storeMasters:   storeMasters,
		productCatalog: productCatalog,
		storeCatalog:   storeCatalog,
		logger:         logger,
	}
}

// Enrich calcula las claves de búsqueda, consulta ambos maestros en paralelo
// y, para cada maestro resuelto, consulta el catálogo (también en paralelo).
// Un maestro ausente o un código sin asignar deja los campos derivados en
// nil. Solo un error de infraestructura devuelve error.
func (e *Enricher) Enrich(ctx context.Context, distributor, codeProductDistributor, codeStoreDistributor, descriptionDistributor string) (EnrichedFields, error) {
	productKey := normalize.ProductKey(distributor, codeProductDistributor, descriptionDistributor)
	storeKey := normalize.StoreKey(distributor, codeStoreDistributor)

	var (
		productMaster *model.SelloutProductMaster
		storeMaster   *model.SelloutStoreMaster
		productErr    error
		storeErr      error
		wg            sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		productMaster, productErr = e.productMasters.FindBySearchKey(ctx, productKey)
	}()
	go func() {
		defer wg.Done()
		storeMaster, storeErr = e.storeMasters.FindBySearchKey(ctx, storeKey)
	}()
	wg.Wait()
	if productErr != nil {
		return EnrichedFields{}, productErr
	}
	if storeErr != nil {
		return EnrichedFields{}, storeErr
	}

	var (
		productSic *model.ProductSic
		storeSic   *model.StoreSic
		catProdErr error
		catStorErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if productMaster != nil && productMaster.CodeProductSic != nil {
			productSic, catProdErr = e.productCatalog.FindByJdeCode(ctx, *productMaster.CodeProductSic)
		}
	}()
	go func() {
		defer wg.Done()
		if storeMaster != nil && storeMaster.CodeStoreSic != nil {
			storeSic, catStorErr = e.lookupStoreSic(ctx, *storeMaster.CodeStoreSic)
		}
	}()
	wg.Wait()
	if catProdErr != nil {
		return EnrichedFields{}, catProdErr
	}
	if catStorErr != nil {
		return EnrichedFields{}, catStorErr
	}

	fields := EnrichedFields{}
	if productMaster != nil && productMaster.CodeProductSic != nil {
		fields.CodeProduct = productMaster.CodeProductSic
		if productSic != nil {
			fields.ProductModel = &productSic.JdeName
		} else {
			// Código mapeado sin entrada en catálogo: advertencia de
			// integridad, el enriquecimiento continúa con campos nulos.
			e.logger.WithField("code_product_sic", *productMaster.CodeProductSic).
				Warn("código de producto mapeado sin entrada en el catálogo SIC")
		}
	}
	if storeMaster != nil && storeMaster.CodeStoreSic != nil {
		fields.CodeStore = storeMaster.CodeStoreSic
		if storeSic != nil {
			fields.StoreName = &storeSic.StoreName
			fields.AuthorizedDistributor = storeSic.Distributor2
		} else {
			e.logger.WithField("code_store_sic", *storeMaster.CodeStoreSic).
				Warn("código de almacén mapeado sin entrada en el catálogo SIC")
		}
	}
	return fields, nil
}

// lookupStoreSic el catálogo de almacenes se indexa por código numérico; un
// código no numérico en el maestro se trata como ausencia en catálogo.
func (e *Enricher) lookupStoreSic(ctx context.Context, codeStoreSic string) (*model.StoreSic, error) {
	code, err := strconv.ParseInt(normalize.Clean(codeStoreSic), 10, 64)
	if err != nil {
		e.logger.WithField("code_store_sic", codeStoreSic).
			Warn("código de almacén no numérico, se omite la búsqueda en catálogo")
		return nil, nil
	}
	return e.storeCatalog.FindByStoreCode(ctx, code)
}
