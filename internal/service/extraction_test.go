package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/domain"
	"github.com/ticonsenso/api-ind-com-sellout-back-etl/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extractionFixture struct {
	svc    *ExtractionService
	repo   *fakeConsolidated
	extr   *fakeExtractions
	matric *fakeMatriculation
}

func newExtractionFixture() extractionFixture {
	pm := newFakeProductMasters()
	sm := newFakeStoreMasters()
	pc := newFakeProductCatalog()
	sc := newFakeStoreCatalog()
	repo := newFakeConsolidated()
	extr := newFakeExtractions()
	matric := newFakeMatriculation()
	logger := testLogger()
	enricher := NewEnricher(pm, sm, pc, sc, logger)
	backfill := NewBackfillSynchronizer(repo, pm, sm, enricher, logger, 10, 0)
	processor := NewConsolidatedService(repo, enricher, backfill, logger)
	matric.addTemplate(&model.MatriculationTemplate{ID: 1, Name: "carga sell-out"})
	return extractionFixture{
		svc:    NewExtractionService(extr, matric, repo, processor, logger),
		repo:   repo,
		extr:   extr,
		matric: matric,
	}
}

func payloadWith(records string) json.RawMessage {
	return json.RawMessage(`{"consolidated_data_stores": ` + records + `}`)
}

func TestGroupMessages(t *testing.T) {
	got := groupMessages([]string{"a", "b", "a", "a", "c", "b"})
	assert.Equal(t, []string{"a (x3)", "b (x2)", "c"}, got)

	assert.Empty(t, groupMessages(nil))
	assert.Equal(t, []string{"solo"}, groupMessages([]string{"solo"}))
}

func TestParseConsolidatedBlock(t *testing.T) {
	records, err := parseConsolidatedBlock(payloadWith(`[{"distributor":"D1"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D1", *records[0].Distributor)

	// También se acepta el arreglo directo, sin sobre.
	records, err = parseConsolidatedBlock(json.RawMessage(`[{"distributor":"D2"}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "D2", *records[0].Distributor)

	_, err = parseConsolidatedBlock(payloadWith(`[]`))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = parseConsolidatedBlock(json.RawMessage(`{"otra_cosa": []}`))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = parseConsolidatedBlock(json.RawMessage(`{"consolidated_data_stores": "no-es-arreglo"}`))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCreateAndProcessHappyPath(t *testing.T) {
	fx := newExtractionFixture()
	ctx := context.Background()

	in := CreateExtractedDataInput{
		DataContent: payloadWith(
			`[{"distributor":"D1","codeProductDistributor":"P1","codeStoreDistributor":"S1","descriptionDistributor":"W","unitsSoldDistributor":2,"saleDate":"2025-05-03"}]`),
		MatriculationID: 1,
		CalculateDate:   "2025-05-01",
		Distributor:     strp("D1"),
		StoreName:       strp("Tienda Matriz"),
		RecordCount:     1,
		ProductCount:    1,
		UploadTotal:     1,
		UploadCount:     1,
	}
	result, err := fx.svc.CreateAndProcess(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, BatchStatusSuccess, result.Batch.Status)
	assert.Equal(t, 1, result.Batch.RecordsSaved)

	// Consolidado persistido con la plantilla y el período.
	require.Len(t, fx.repo.rows, 1)
	require.NotNil(t, fx.repo.rows[0].MatriculationTemplateID)
	assert.Equal(t, int64(1), *fx.repo.rows[0].MatriculationTemplateID)

	// Payload guardado con el detalle del procesamiento.
	require.Len(t, fx.extr.data, 1)
	saved := fx.extr.data[0]
	assert.True(t, saved.IsProcessed)
	assert.Equal(t, 1, saved.RecordCount)
	var details processingDetails
	require.NoError(t, json.Unmarshal(saved.ProcessingDetails, &details))
	assert.Equal(t, 1, details.Resumen.Total)
	assert.Equal(t, 1, details.Resumen.Success)
	assert.Equal(t, 0, details.Resumen.Failed)

	// Bitácora de la corrida y de la matriculación.
	require.Len(t, fx.extr.runLogs, 1)
	assert.Equal(t, BatchStatusSuccess, fx.extr.runLogs[0].Status)
	require.Len(t, fx.matric.logs, 1)
	assert.Equal(t, "D1", strDeref(fx.matric.logs[0].Distributor))

	// La plantilla adoptó distribuidor y almacén del envío.
	tpl, err := fx.matric.FindTemplateByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "D1", strDeref(tpl.Distributor))
	assert.Equal(t, "Tienda Matriz", strDeref(tpl.StoreName))
}

func TestCreateAndProcessTemplateNotFound(t *testing.T) {
	fx := newExtractionFixture()

	_, err := fx.svc.CreateAndProcess(context.Background(), CreateExtractedDataInput{
		DataContent:     payloadWith(`[{"distributor":"D1"}]`),
		MatriculationID: 404,
		CalculateDate:   "2025-05-01",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateAndProcessInvalidCalculateDate(t *testing.T) {
	fx := newExtractionFixture()

	_, err := fx.svc.CreateAndProcess(context.Background(), CreateExtractedDataInput{
		DataContent:     payloadWith(`[{"distributor":"D1"}]`),
		MatriculationID: 1,
		CalculateDate:   "05-2025",
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestFirstUploadReplacesPeriod(t *testing.T) {
	fx := newExtractionFixture()
	ctx := context.Background()
	calc := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// Restos de una carga anterior del mismo período.
	tplID := int64(1)
	require.NoError(t, fx.repo.Create(ctx, &model.ConsolidatedDataStore{
		Distributor:             strp("VIEJO"),
		CalculateDate:           &calc,
		MatriculationTemplateID: &tplID,
	}))
	require.NoError(t, fx.matric.CreateLog(ctx, &model.MatriculationLog{
		MatriculationID: 1,
		CalculateDate:   calc,
		Distributor:     strp("VIEJO"),
		StoreName:       strp("T"),
	}))

	_, err := fx.svc.CreateAndProcess(ctx, CreateExtractedDataInput{
		DataContent:     payloadWith(`[{"distributor":"D1","codeStoreDistributor":"S1"}]`),
		MatriculationID: 1,
		CalculateDate:   "2025-05-01",
		Distributor:     strp("D1"),
		StoreName:       strp("T1"),
		UploadTotal:     1,
		UploadCount:     1,
	})
	require.NoError(t, err)

	// Solo sobrevive la carga nueva.
	require.Len(t, fx.repo.rows, 1)
	assert.Equal(t, "D1", strDeref(fx.repo.rows[0].Distributor))
	for _, l := range fx.matric.logs {
		assert.NotEqual(t, "VIEJO", strDeref(l.Distributor))
	}
}

func TestSecondUploadAccumulates(t *testing.T) {
	fx := newExtractionFixture()
	ctx := context.Background()

	first := CreateExtractedDataInput{
		DataContent:     payloadWith(`[{"distributor":"D1","codeStoreDistributor":"S1"}]`),
		MatriculationID: 1,
		CalculateDate:   "2025-05-01",
		Distributor:     strp("D1"),
		StoreName:       strp("T1"),
		RecordCount:     1,
		UploadTotal:     2,
		UploadCount:     1,
	}
	_, err := fx.svc.CreateAndProcess(ctx, first)
	require.NoError(t, err)

	second := first
	second.DataContent = payloadWith(`[{"distributor":"D1","codeStoreDistributor":"S2"}]`)
	second.UploadCount = 2
	_, err = fx.svc.CreateAndProcess(ctx, second)
	require.NoError(t, err)

	// La segunda fracción no borra la primera.
	assert.Len(t, fx.repo.rows, 2)
	// Una sola bitácora por distribuidor+almacén, con los conteos sumados.
	require.Len(t, fx.matric.logs, 1)
	assert.Equal(t, 2, fx.matric.logs[0].RowsCount)
	assert.Equal(t, 2, fx.matric.logs[0].UploadCount)
}

func TestProcessingDetailsGroupRepeatedErrors(t *testing.T) {
	fx := newExtractionFixture()
	ctx := context.Background()

	// Tres registros con la misma fecha rota producen el mismo mensaje para
	// el usuario; el detalle lo colapsa con el sufijo de repetición.
	in := CreateExtractedDataInput{
		DataContent: payloadWith(
			`[{"distributor":"D1","codeStoreDistributor":"S1","saleDate":"x"},
			  {"distributor":"D1","codeStoreDistributor":"S1","saleDate":"x"},
			  {"distributor":"D1","codeStoreDistributor":"S1","saleDate":"x"}]`),
		MatriculationID: 1,
		CalculateDate:   "2025-05-01",
		UploadTotal:     1,
		UploadCount:     1,
	}
	result, err := fx.svc.CreateAndProcess(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Batch.RecordsFailed)

	var details processingDetails
	require.NoError(t, json.Unmarshal(fx.extr.data[0].ProcessingDetails, &details))
	require.Len(t, details.Errors, 1)
	assert.Contains(t, details.Errors[0], "(x3)")
	assert.Equal(t, 3, details.ErrorCount)
}

func TestDeleteExtractedDataNotFound(t *testing.T) {
	fx := newExtractionFixture()
	err := fx.svc.DeleteExtractedData(context.Background(), 9)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
