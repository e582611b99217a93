package service

import (
	"context"
	"sync"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/normalize"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	defaultBackfillBatchSize = 100
	defaultBackfillPause     = 100 * time.Millisecond
)

// BackfillSynchronizer reintenta resolver consolidados con código canónico
// nulo una vez que los maestros se pusieron al día. Cada pasada es
// idempotente: volver a correrla sin maestros nuevos no cambia nada.
type BackfillSynchronizer struct {
	consolidated   repository.ConsolidatedRepository
	productMasters repository.ProductMasterRepository
	storeMasters   repository.StoreMasterRepository
	enricher       *Enricher
	logger         *logrus.Logger

	// batchSize y pause acotan la carga sostenida sobre la base: los
	// candidatos se procesan en bloques con una pausa fija entre bloques.
	batchSize int
	pause     time.Duration
}

// NewBackfillSynchronizer crea el sincronizador. batchSize <= 0 y pause < 0
// caen a los valores por defecto (100 filas, 100ms).
func NewBackfillSynchronizer(
	consolidated repository.ConsolidatedRepository,
	productMasters repository.ProductMasterRepository,
	storeMasters repository.StoreMasterRepository,
	enricher *Enricher,
	logger *logrus.Logger,
	batchSize int,
	pause time.Duration,
) *BackfillSynchronizer {
	if batchSize <= 0 {
		batchSize = defaultBackfillBatchSize
	}
	if pause < 0 {
		pause = defaultBackfillPause
	}
	return &BackfillSynchronizer{
		consolidated:   consolidated,
		productMasters: productMasters,
		storeMasters:   storeMasters,
		enricher:       enricher,
		logger:         logger,
		batchSize:      batchSize,
		pause:          pause,
	}
}

// SyncStores pasada de almacenes: para cada par distribuidor+código sin
// resolver busca el maestro; si ya tiene código canónico, parchea en bloque
// todas las filas de esa clave. Devuelve la cantidad de claves actualizadas.
func (b *BackfillSynchronizer) SyncStores(ctx context.Context, calculateDate *time.Time) (int, error) {
	candidates, err := b.consolidated.FindStoreCandidates(ctx, calculateDate)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, chunk := range utils.Chunk(candidates, b.batchSize) {
		outcomes := b.runChunk(ctx, len(chunk), func(i int) (bool, error) {
			return b.syncStoreCandidate(ctx, chunk[i])
		})
		updated += outcomes
		b.sleep(ctx)
	}
	b.logger.Infof("sincronización de almacenes: %d claves actualizadas", updated)
	return updated, nil
}

// SyncProducts pasada de productos, simétrica a SyncStores.
func (b *BackfillSynchronizer) SyncProducts(ctx context.Context, calculateDate *time.Time) (int, error) {
	candidates, err := b.consolidated.FindProductCandidates(ctx, calculateDate)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, chunk := range utils.Chunk(candidates, b.batchSize) {
		outcomes := b.runChunk(ctx, len(chunk), func(i int) (bool, error) {
			return b.syncProductCandidate(ctx, chunk[i])
		})
		updated += outcomes
		b.sleep(ctx)
	}
	b.logger.Infof("sincronización de productos: %d claves actualizadas", updated)
	return updated, nil
}

// runChunk lanza un goroutine por candidato y espera al bloque completo. La
// falla de un candidato no bloquea a sus hermanos: se registra y se sigue.
// El conteo se pliega sobre el arreglo de resultados después de la barrera,
// nunca sobre un contador compartido entre goroutines.
func (b *BackfillSynchronizer) runChunk(ctx context.Context, n int, work func(i int) (bool, error)) int {
	type outcome struct {
		updated bool
		err     error
	}
	outcomes := make([]outcome, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			ok, err := work(i)
			outcomes[i] = outcome{updated: ok, err: err}
		}(i)
	}
	wg.Wait()

	updated := 0
	for _, o := range outcomes {
		if o.err != nil {
			b.logger.WithError(o.err).Warn("candidato de sincronización falló")
			continue
		}
		if o.updated {
			updated++
		}
	}
	return updated
}

func (b *BackfillSynchronizer) syncStoreCandidate(ctx context.Context, c repository.StoreCandidate) (bool, error) {
	searchKey := normalize.StoreKey(c.Distributor, c.CodeStoreDistributor)
	master, err := b.storeMasters.FindBySearchKey(ctx, searchKey)
	if err != nil {
		return false, err
	}
	if master == nil || master.CodeStoreSic == nil {
		// Sigue sin mapeo: la fila queda intacta hasta la próxima pasada.
		return false, nil
	}
	storeSic, err := b.enricher.lookupStoreSic(ctx, *master.CodeStoreSic)
	if err != nil {
		return false, err
	}
	fields := map[string]interface{}{
		"code_store": *master.CodeStoreSic,
		"updated_at": time.Now(),
	}
	if storeSic != nil {
		fields["authorized_distributor"] = storeSic.Distributor2
		fields["store_name"] = storeSic.StoreName
	} else {
		fields["authorized_distributor"] = nil
		fields["store_name"] = nil
	}
	_, err = b.consolidated.UpdateFieldsByStoreKey(ctx, c.Distributor, c.CodeStoreDistributor, fields)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *BackfillSynchronizer) syncProductCandidate(ctx context.Context, c repository.ProductCandidate) (bool, error) {
	searchKey := normalize.ProductKey(c.Distributor, c.CodeProductDistributor, c.DescriptionDistributor)
	master, err := b.productMasters.FindBySearchKey(ctx, searchKey)
	if err != nil {
		return false, err
	}
	if master == nil || master.CodeProductSic == nil {
		return false, nil
	}
	productSic, err := b.enricher.productCatalog.FindByJdeCode(ctx, *master.CodeProductSic)
	if err != nil {
		return false, err
	}
	fields := map[string]interface{}{
		"code_product": *master.CodeProductSic,
		"updated_at":   time.Now(),
	}
	if productSic != nil {
		fields["product_model"] = productSic.JdeName
	} else {
		fields["product_model"] = nil
	}
	_, err = b.consolidated.UpdateFieldsByProductKey(ctx, c.Distributor, c.CodeProductDistributor, c.DescriptionDistributor, fields)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *BackfillSynchronizer) sleep(ctx context.Context) {
	if b.pause == 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(b.pause):
	}
}
