package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/normalize"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"

	"github.com/sirupsen/logrus"
)

// MergeKey identifica el conjunto de consolidados duplicados que una
// intención de merge corrige. Variante explícita en lugar de adivinar por
// qué campos vienen poblados.
type MergeKey interface {
	isMergeKey()
}

// ByProductKey duplicados que comparten distribuidor + código de producto
// del distribuidor + descripción.
type ByProductKey struct {
	Distributor string `json:"distributor"`
	ProductCode string `json:"codeProductDistributor"`
	Description string `json:"descriptionDistributor"`
}

func (ByProductKey) isMergeKey() {}

// ByStoreKey duplicados que comparten distribuidor + código de almacén del
// distribuidor.
type ByStoreKey struct {
	Distributor string `json:"distributor"`
	StoreCode   string `json:"codeStoreDistributor"`
}

func (ByStoreKey) isMergeKey() {}

// MergeIntent intención de actualización masiva sobre los duplicados de una
// clave. CodeProduct/CodeStore son códigos canónicos explícitos: solo se
// usan cuando el maestro de la clave todavía no existe.
type MergeIntent struct {
	Key         MergeKey
	CodeProduct *string
	CodeStore   *string
}

// MergeResolver aplica intenciones de merge: localiza los consolidados
// duplicados de cada clave, garantiza que exista el maestro implicado y
// aplica un único parche calculado a todas las filas coincidentes.
type MergeResolver struct {
	consolidated   repository.ConsolidatedRepository
	productMasters repository.ProductMasterRepository
	storeMasters   repository.StoreMasterRepository
	productCatalog repository.ProductCatalogRepository
	storeCatalog   repository.StoreCatalogRepository
	enricher       *Enricher
	logger         *logrus.Logger
}

// NewMergeResolver crea el resolutor de duplicados.
func NewMergeResolver(
	consolidated repository.ConsolidatedRepository,
	productMasters repository.ProductMasterRepository,
	storeMasters repository.StoreMasterRepository,
	productCatalog repository.ProductCatalogRepository,
	storeCatalog repository.StoreCatalogRepository,
	enricher *Enricher,
	logger *logrus.Logger,
) *MergeResolver {
	return &MergeResolver{
		consolidated:   consolidated,
		productMasters: productMasters,
		storeMasters:   storeMasters,
		productCatalog: productCatalog,
		storeCatalog:   storeCatalog,
		enricher:       enricher,
		logger:         logger,
	}
}

// UpdateDuplicated procesa las intenciones en orden. Una intención sin filas
// coincidentes se salta en silencio (no es un error); la primera falla
// aborta la llamada completa, a diferencia del lote de extracción que tolera
// fallas por registro. Devuelve el total de filas actualizadas.
func (m *MergeResolver) UpdateDuplicated(ctx context.Context, intents []MergeIntent) (int, error) {
	updated := 0
	for _, intent := range intents {
		records, err := m.findDuplicated(ctx, intent.Key)
		if err != nil {
			return updated, err
		}
		if len(records) == 0 {
			continue
		}
		patch, err := m.resolvePatch(ctx, intent)
		if err != nil {
			return updated, err
		}
		for _, rec := range records {
			if err := m.consolidated.UpdateFields(ctx, rec.ID, patch); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

func (m *MergeResolver) findDuplicated(ctx context.Context, key MergeKey) ([]*model.ConsolidatedDataStore, error) {
	switch k := key.(type) {
	case ByProductKey:
		return m.consolidated.FindDuplicatedByProduct(ctx, k.Distributor, k.ProductCode, k.Description)
	case ByStoreKey:
		return m.consolidated.FindDuplicatedByStore(ctx, k.Distributor, k.StoreCode)
	default:
		return nil, fmt.Errorf("clave de merge desconocida %T: %w", key, domain.ErrValidation)
	}
}

// resolvePatch garantiza el maestro de la clave y arma el parche único que
// se aplicará a todas las filas duplicadas.
func (m *MergeResolver) resolvePatch(ctx context.Context, intent MergeIntent) (map[string]interface{}, error) {
	switch k := intent.Key.(type) {
	case ByProductKey:
		return m.resolveProductPatch(ctx, k, intent.CodeProduct)
	case ByStoreKey:
		return m.resolveStorePatch(ctx, k, intent.CodeStore)
	default:
		return nil, fmt.Errorf("clave de merge desconocida %T: %w", intent.Key, domain.ErrValidation)
	}
}

func (m *MergeResolver) resolveProductPatch(ctx context.Context, k ByProductKey, explicitCode *string) (map[string]interface{}, error) {
	searchKey := normalize.ProductKey(k.Distributor, k.ProductCode, k.Description)

	master, err := m.productMasters.FindBySearchKey(ctx, searchKey)
	if err != nil {
		return nil, err
	}
	code := explicitCode
	switch {
	case master != nil:
		// Maestro existente: su código canónico manda, aunque siga nulo.
		code = master.CodeProductSic
	case explicitCode != nil && *explicitCode != "":
		// Maestro ausente con código explícito: validar contra catálogo y
		// crear el mapeo. La constraint de unicidad arbitra la carrera
		// check-then-create; su violación llega como ErrDuplicateMapping.
		productSic, err := m.productCatalog.FindByJdeCode(ctx, *explicitCode)
		if err != nil {
			return nil, err
		}
		if productSic == nil {
			return nil, fmt.Errorf("el producto no existe en productos SIC: %w", domain.ErrUnknownCanonicalCode)
		}
		if err := m.productMasters.Create(ctx, &model.SelloutProductMaster{
			Distributor:        k.Distributor,
			ProductDistributor: k.ProductCode,
			ProductStore:       k.Description,
			CodeProductSic:     explicitCode,
			SearchProductStore: searchKey,
		}); err != nil {
			return nil, err
		}
	}

	patch := map[string]interface{}{
		"distributor":              k.Distributor,
		"code_product_distributor": k.ProductCode,
		"description_distributor":  k.Description,
		"updated_at":               time.Now(),
	}
	if code != nil && *code != "" {
		patch["code_product"] = *code
		productSic, err := m.productCatalog.FindByJdeCode(ctx, *code)
		if err != nil {
			return nil, err
		}
		if productSic != nil {
			patch["product_model"] = productSic.JdeName
		} else {
			patch["product_model"] = nil
		}
	}
	return patch, nil
}

func (m *MergeResolver) resolveStorePatch(ctx context.Context, k ByStoreKey, explicitCode *string) (map[string]interface{}, error) {
	searchKey := normalize.StoreKey(k.Distributor, k.StoreCode)

	master, err := m.storeMasters.FindBySearchKey(ctx, searchKey)
	if err != nil {
		return nil, err
	}
	code := explicitCode
	switch {
	case master != nil:
		code = master.CodeStoreSic
	case explicitCode != nil && *explicitCode != "":
		storeSic, err := m.enricher.lookupStoreSic(ctx, *explicitCode)
		if err != nil {
			return nil, err
		}
		if storeSic == nil {
			return nil, fmt.Errorf("la tienda no existe en maestros ni en almacenes SIC: %w", domain.ErrUnknownCanonicalCode)
		}
		if err := m.storeMasters.Create(ctx, &model.SelloutStoreMaster{
			Distributor:      k.Distributor,
			StoreDistributor: k.StoreCode,
			CodeStoreSic:     explicitCode,
			SearchStore:      searchKey,
		}); err != nil {
			return nil, err
		}
	}

	patch := map[string]interface{}{
		"distributor":            k.Distributor,
		"code_store_distributor": k.StoreCode,
		"updated_at":             time.Now(),
	}
	if code != nil && *code != "" {
		patch["code_store"] = *code
		storeSic, err := m.enricher.lookupStoreSic(ctx, *code)
		if err != nil {
			return nil, err
		}
		if storeSic != nil {
			patch["store_name"] = storeSic.StoreName
			patch["authorized_distributor"] = storeSic.Distributor2
		} else {
			patch["store_name"] = nil
			patch["authorized_distributor"] = nil
		}
	}
	return patch, nil
}
