package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/normalize"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/repository"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

// asStrPtr acepta los valores que los servicios meten en los parches de
// campos (string, *string o nil).
func asStrPtr(v interface{}) *string {
	switch t := v.(type) {
	case string:
		return &t
	case *string:
		return t
	}
	return nil
}

// fakeProductMasters maestro de productos en memoria, indexado por clave de
// búsqueda igual que la constraint de unicidad real.
type fakeProductMasters struct {
	mu    sync.Mutex
	seq   int64
	items map[string]*model.SelloutProductMaster
}

func newFakeProductMasters() *fakeProductMasters {
	return &fakeProductMasters{items: make(map[string]*model.SelloutProductMaster)}
}

func (f *fakeProductMasters) FindByID(_ context.Context, id int64) (*model.SelloutProductMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.items {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductMasters) FindBySearchKey(_ context.Context, key string) (*model.SelloutProductMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.items[key]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductMasters) FindBySearchKeys(_ context.Context, keys []string) ([]*model.SelloutProductMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SelloutProductMaster
	for _, key := range keys {
		if m, ok := f.items[key]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProductMasters) Create(_ context.Context, m *model.SelloutProductMaster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[m.SearchProductStore]; ok {
		return fmt.Errorf("maestros de productos: %w", domain.ErrDuplicateMapping)
	}
	f.seq++
	m.ID = f.seq
	cp := *m
	f.items[m.SearchProductStore] = &cp
	return nil
}

func (f *fakeProductMasters) Update(_ context.Context, m *model.SelloutProductMaster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, prev := range f.items {
		if prev.ID == m.ID {
			delete(f.items, key)
			cp := *m
			f.items[m.SearchProductStore] = &cp
			return nil
		}
	}
	cp := *m
	f.items[m.SearchProductStore] = &cp
	return nil
}

func (f *fakeProductMasters) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, m := range f.items {
		if m.ID == id {
			delete(f.items, key)
			return nil
		}
	}
	return nil
}

func (f *fakeProductMasters) SaveAll(ctx context.Context, ms []*model.SelloutProductMaster) error {
	for _, m := range ms {
		if err := f.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProductMasters) InsertAll(ctx context.Context, ms []*model.SelloutProductMaster) error {
	for _, m := range ms {
		if err := f.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProductMasters) FindByFilters(_ context.Context, _, _ int, _ string) ([]*model.SelloutProductMaster, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SelloutProductMaster
	for _, m := range f.items {
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// fakeStoreMasters maestro de almacenes en memoria.
type fakeStoreMasters struct {
	mu    sync.Mutex
	seq   int64
	items map[string]*model.SelloutStoreMaster
}

func newFakeStoreMasters() *fakeStoreMasters {
	return &fakeStoreMasters{items: make(map[string]*model.SelloutStoreMaster)}
}

func (f *fakeStoreMasters) FindByID(_ context.Context, id int64) (*model.SelloutStoreMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.items {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStoreMasters) FindBySearchKey(_ context.Context, key string) (*model.SelloutStoreMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.items[key]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStoreMasters) FindBySearchKeys(_ context.Context, keys []string) ([]*model.SelloutStoreMaster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SelloutStoreMaster
	for _, key := range keys {
		if m, ok := f.items[key]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStoreMasters) Create(_ context.Context, m *model.SelloutStoreMaster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[m.SearchStore]; ok {
		return fmt.Errorf("maestros de almacenes: %w", domain.ErrDuplicateMapping)
	}
	f.seq++
	m.ID = f.seq
	cp := *m
	f.items[m.SearchStore] = &cp
	return nil
}

func (f *fakeStoreMasters) Update(_ context.Context, m *model.SelloutStoreMaster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, prev := range f.items {
		if prev.ID == m.ID {
			delete(f.items, key)
			cp := *m
			f.items[m.SearchStore] = &cp
			return nil
		}
	}
	cp := *m
	f.items[m.SearchStore] = &cp
	return nil
}

func (f *fakeStoreMasters) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, m := range f.items {
		if m.ID == id {
			delete(f.items, key)
			return nil
		}
	}
	return nil
}

func (f *fakeStoreMasters) SaveAll(ctx context.Context, ms []*model.SelloutStoreMaster) error {
	for _, m := range ms {
		if err := f.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStoreMasters) InsertAll(ctx context.Context, ms []*model.SelloutStoreMaster) error {
	for _, m := range ms {
		if err := f.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStoreMasters) FindByFilters(_ context.Context, _, _ int, _ string) ([]*model.SelloutStoreMaster, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SelloutStoreMaster
	for _, m := range f.items {
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStoreMasters) FindUniqueDistributorStores(_ context.Context, _, _ string) ([]*model.SelloutStoreMaster, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.SelloutStoreMaster
	for _, m := range f.items {
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

// fakeProductCatalog catálogo de productos en memoria, indexado por jde_code.
type fakeProductCatalog struct {
	mu    sync.Mutex
	items map[string]*model.ProductSic
}

func newFakeProductCatalog() *fakeProductCatalog {
	return &fakeProductCatalog{items: make(map[string]*model.ProductSic)}
}

func (f *fakeProductCatalog) add(p *model.ProductSic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.JdeCode] = p
}

func (f *fakeProductCatalog) FindByJdeCode(_ context.Context, jdeCode string) (*model.ProductSic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[jdeCode]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// fakeStoreCatalog catálogo de almacenes en memoria, indexado por store_code.
type fakeStoreCatalog struct {
	mu    sync.Mutex
	items map[int64]*model.StoreSic
}

func newFakeStoreCatalog() *fakeStoreCatalog {
	return &fakeStoreCatalog{items: make(map[int64]*model.StoreSic)}
}

func (f *fakeStoreCatalog) add(s *model.StoreSic) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[s.StoreCode] = s
}

func (f *fakeStoreCatalog) FindByStoreCode(_ context.Context, storeCode int64) (*model.StoreSic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.items[storeCode]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// fakeConsolidated repositorio de consolidados en memoria. createHook permite
// inyectar fallas de persistencia por registro en las pruebas de lotes.
type fakeConsolidated struct {
	mu         sync.Mutex
	seq        int64
	rows       []*model.ConsolidatedDataStore
	createHook func(c *model.ConsolidatedDataStore) error
}

func newFakeConsolidated() *fakeConsolidated {
	return &fakeConsolidated{}
}

func (f *fakeConsolidated) Create(_ context.Context, c *model.ConsolidatedDataStore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createHook != nil {
		if err := f.createHook(c); err != nil {
			return err
		}
	}
	f.seq++
	c.ID = f.seq
	cp := *c
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeConsolidated) FindByID(_ context.Context, id int64) (*model.ConsolidatedDataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

// applyFields espejo en memoria de gorm Updates con mapa de columnas.
func applyFields(r *model.ConsolidatedDataStore, fields map[string]interface{}) {
	for col, v := range fields {
		switch col {
		case "distributor":
			r.Distributor = asStrPtr(v)
		case "code_product_distributor":
			r.CodeProductDistributor = asStrPtr(v)
		case "code_store_distributor":
			r.CodeStoreDistributor = asStrPtr(v)
		case "description_distributor":
			r.DescriptionDistributor = asStrPtr(v)
		case "units_sold_distributor":
			switch t := v.(type) {
			case int:
				r.UnitsSoldDistributor = &t
			case *int:
				r.UnitsSoldDistributor = t
			}
		case "sale_date":
			switch t := v.(type) {
			case time.Time:
				r.SaleDate = &t
			case *time.Time:
				r.SaleDate = t
			}
		case "code_product":
			r.CodeProduct = asStrPtr(v)
		case "code_store":
			r.CodeStore = asStrPtr(v)
		case "product_model":
			r.ProductModel = asStrPtr(v)
		case "store_name":
			r.StoreName = asStrPtr(v)
		case "authorized_distributor":
			r.AuthorizedDistributor = asStrPtr(v)
		case "calculate_date":
			switch t := v.(type) {
			case time.Time:
				r.CalculateDate = &t
			case *time.Time:
				r.CalculateDate = t
			}
		case "status":
			switch t := v.(type) {
			case bool:
				r.Status = &t
			case *bool:
				r.Status = t
			}
		case "updated_at":
			if t, ok := v.(time.Time); ok {
				r.UpdatedAt = t
			}
		}
	}
}

func (f *fakeConsolidated) UpdateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			applyFields(r, fields)
			return nil
		}
	}
	return nil
}

func (f *fakeConsolidated) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeConsolidated) SaveAll(_ context.Context, cs []*model.ConsolidatedDataStore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range cs {
		for i, r := range f.rows {
			if r.ID == c.ID {
				cp := *c
				f.rows[i] = &cp
				break
			}
		}
	}
	return nil
}

func (f *fakeConsolidated) DeleteByMatriculation(_ context.Context, templateID int64, calculateDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if r.MatriculationTemplateID != nil && *r.MatriculationTemplateID == templateID &&
			r.CalculateDate != nil && r.CalculateDate.Equal(calculateDate) {
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return nil
}

func (f *fakeConsolidated) FindDuplicatedByProduct(_ context.Context, distributor, codeProductDistributor, description string) ([]*model.ConsolidatedDataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if strDeref(r.Distributor) == distributor &&
			strDeref(r.CodeProductDistributor) == codeProductDistributor &&
			strDeref(r.DescriptionDistributor) == description {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeConsolidated) FindDuplicatedByStore(_ context.Context, distributor, codeStoreDistributor string) ([]*model.ConsolidatedDataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if strDeref(r.Distributor) == distributor && strDeref(r.CodeStoreDistributor) == codeStoreDistributor {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeConsolidated) FindStoreCandidates(_ context.Context, calculateDate *time.Time) ([]repository.StoreCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []repository.StoreCandidate
	for _, r := range f.rows {
		if r.CodeStore != nil || r.Distributor == nil || r.CodeStoreDistributor == nil {
			continue
		}
		if calculateDate != nil && (r.CalculateDate == nil || !r.CalculateDate.Equal(*calculateDate)) {
			continue
		}
		key := *r.Distributor + "|" + *r.CodeStoreDistributor
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, repository.StoreCandidate{
			Distributor:          *r.Distributor,
			CodeStoreDistributor: *r.CodeStoreDistributor,
		})
	}
	return out, nil
}

func (f *fakeConsolidated) FindProductCandidates(_ context.Context, calculateDate *time.Time) ([]repository.ProductCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []repository.ProductCandidate
	for _, r := range f.rows {
		if r.CodeProduct != nil || r.Distributor == nil || r.CodeProductDistributor == nil {
			continue
		}
		if calculateDate != nil && (r.CalculateDate == nil || !r.CalculateDate.Equal(*calculateDate)) {
			continue
		}
		key := *r.Distributor + "|" + *r.CodeProductDistributor + "|" + strDeref(r.DescriptionDistributor)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, repository.ProductCandidate{
			Distributor:            *r.Distributor,
			CodeProductDistributor: *r.CodeProductDistributor,
			DescriptionDistributor: strDeref(r.DescriptionDistributor),
		})
	}
	return out, nil
}

func (f *fakeConsolidated) UpdateFieldsByStoreKey(_ context.Context, distributor, codeStoreDistributor string, fields map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if strDeref(r.Distributor) == distributor && strDeref(r.CodeStoreDistributor) == codeStoreDistributor {
			applyFields(r, fields)
			n++
		}
	}
	return n, nil
}

func (f *fakeConsolidated) UpdateFieldsByProductKey(_ context.Context, distributor, codeProductDistributor, description string, fields map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if strDeref(r.Distributor) == distributor &&
			strDeref(r.CodeProductDistributor) == codeProductDistributor &&
			strDeref(r.DescriptionDistributor) == description {
			applyFields(r, fields)
			n++
		}
	}
	return n, nil
}

func (f *fakeConsolidated) FindBySearchStoreKey(_ context.Context, key string) ([]*model.ConsolidatedDataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if normalize.StoreKey(strDeref(r.Distributor), strDeref(r.CodeStoreDistributor)) == key {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeConsolidated) FindBySearchProductKey(_ context.Context, key string) ([]*model.ConsolidatedDataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if normalize.ProductKey(strDeref(r.Distributor), strDeref(r.CodeProductDistributor), strDeref(r.DescriptionDistributor)) == key {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeConsolidated) FindByFilters(_ context.Context, _, _ int, search string, nulls repository.NullFieldFilters, _ *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.ConsolidatedDataStore
	for _, r := range f.rows {
		if nulls.CodeProduct && r.CodeProduct != nil {
			continue
		}
		if nulls.CodeStore && r.CodeStore != nil {
			continue
		}
		if search != "" && !strings.Contains(strDeref(r.Distributor), search) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeConsolidated) FindNullFieldsUnique(ctx context.Context, nulls repository.NullFieldFilters, calculateDate *time.Time) ([]*model.ConsolidatedDataStore, int64, error) {
	return f.FindByFilters(ctx, 1, 1000, "", nulls, calculateDate)
}

func (f *fakeConsolidated) CountNullFieldDetail(_ context.Context, _ *time.Time) (*repository.NullFieldDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var d repository.NullFieldDetail
	for _, r := range f.rows {
		d.Total++
		if r.CodeProduct == nil {
			d.MissingProducts++
		}
		if r.CodeStore == nil {
			d.MissingStores++
		}
	}
	return &d, nil
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// fakeMatriculation plantillas y bitácoras en memoria.
type fakeMatriculation struct {
	mu        sync.Mutex
	seq       int64
	templates map[int64]*model.MatriculationTemplate
	logs      []*model.MatriculationLog
}

func newFakeMatriculation() *fakeMatriculation {
	return &fakeMatriculation{templates: make(map[int64]*model.MatriculationTemplate)}
}

func (f *fakeMatriculation) addTemplate(t *model.MatriculationTemplate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[t.ID] = t
}

func (f *fakeMatriculation) FindTemplateByID(_ context.Context, id int64) (*model.MatriculationTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.templates[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMatriculation) UpdateTemplateFields(_ context.Context, id int64, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.templates[id]
	if !ok {
		return nil
	}
	for col, v := range fields {
		switch col {
		case "distributor":
			t.Distributor = asStrPtr(v)
		case "store_name":
			t.StoreName = asStrPtr(v)
		}
	}
	return nil
}

func (f *fakeMatriculation) CreateLog(_ context.Context, l *model.MatriculationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	l.ID = f.seq
	cp := *l
	f.logs = append(f.logs, &cp)
	return nil
}

func (f *fakeMatriculation) UpdateLog(_ context.Context, l *model.MatriculationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, prev := range f.logs {
		if prev.ID == l.ID {
			cp := *l
			f.logs[i] = &cp
			return nil
		}
	}
	return nil
}

func (f *fakeMatriculation) FindLog(_ context.Context, matriculationID int64, calculateDate time.Time, distributor, storeName string) (*model.MatriculationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.logs {
		if l.MatriculationID == matriculationID && l.CalculateDate.Equal(calculateDate) &&
			strDeref(l.Distributor) == distributor && strDeref(l.StoreName) == storeName {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMatriculation) FindLogsByPeriod(_ context.Context, matriculationID int64, calculateDate time.Time) ([]*model.MatriculationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.MatriculationLog
	for _, l := range f.logs {
		if l.MatriculationID == matriculationID && l.CalculateDate.Equal(calculateDate) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMatriculation) DeleteLog(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.logs {
		if l.ID == id {
			f.logs = append(f.logs[:i], f.logs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeMatriculation) DeleteLogsByMatriculation(_ context.Context, matriculationID int64, calculateDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*model.MatriculationLog
	for _, l := range f.logs {
		if l.MatriculationID == matriculationID && l.CalculateDate.Equal(calculateDate) {
			continue
		}
		kept = append(kept, l)
	}
	f.logs = kept
	return nil
}

// fakeExtractions payloads y bitácoras de extracción en memoria.
type fakeExtractions struct {
	mu      sync.Mutex
	seq     int64
	data    []*model.ExtractedDataSellout
	runLogs []*model.ExtractionLogSellout
}

func newFakeExtractions() *fakeExtractions {
	return &fakeExtractions{}
}

func (f *fakeExtractions) CreateExtractedData(_ context.Context, e *model.ExtractedDataSellout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	e.ID = f.seq
	cp := *e
	f.data = append(f.data, &cp)
	return nil
}

func (f *fakeExtractions) FindExtractedDataByID(_ context.Context, id int64) (*model.ExtractedDataSellout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.data {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeExtractions) DeleteExtractedData(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.data {
		if e.ID == id {
			f.data = append(f.data[:i], f.data[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeExtractions) FindExtractedDataPaginated(_ context.Context, _, _ int) ([]*model.ExtractedDataSellout, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.ExtractedDataSellout, len(f.data))
	copy(out, f.data)
	return out, int64(len(out)), nil
}

func (f *fakeExtractions) CreateExtractionLog(_ context.Context, l *model.ExtractionLogSellout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *l
	f.runLogs = append(f.runLogs, &cp)
	return nil
}
