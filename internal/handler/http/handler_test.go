package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/service"
	"github.com/avetra/bizsync/internal/store"
	"github.com/avetra/bizsync/models"
)

// mockEngine is a function-field implementation of service.SyncEngine.
type mockEngine struct {
	startSyncFn func(ctx context.Context, req models.StartSyncRequest) (models.StartSyncResponse, error)
	getStatusFn func(ctx context.Context, sessionID string) (models.SyncSession, error)
	cancelFn    func(ctx context.Context, sessionID string) (models.CancelResponse, error)
	getReportFn func(ctx context.Context, reportID string) (models.ReconciliationReport, error)
	validateFn  func(ctx context.Context, req models.ValidateRequest) (models.ValidateResponse, error)
}

func (m *mockEngine) StartSync(ctx context.Context, req models.StartSyncRequest) (models.StartSyncResponse, error) {
	return m.startSyncFn(ctx, req)
}
func (m *mockEngine) GetStatus(ctx context.Context, sessionID string) (models.SyncSession, error) {
	return m.getStatusFn(ctx, sessionID)
}
func (m *mockEngine) Cancel(ctx context.Context, sessionID string) (models.CancelResponse, error) {
	return m.cancelFn(ctx, sessionID)
}
func (m *mockEngine) GetReport(ctx context.Context, reportID string) (models.ReconciliationReport, error) {
	return m.getReportFn(ctx, reportID)
}
func (m *mockEngine) Validate(ctx context.Context, req models.ValidateRequest) (models.ValidateResponse, error) {
	return m.validateFn(ctx, req)
}
func (m *mockEngine) ResumeActive(context.Context) error  { return nil }
func (m *mockEngine) RenewLeases(context.Context) error   { return nil }
func (m *mockEngine) FailStalled(context.Context) error   { return nil }
func (m *mockEngine) Shutdown(context.Context) error      { return nil }

// mockInstance is a function-field implementation of service.InstanceService.
type mockInstance struct {
	typesFn         func(ctx context.Context) ([]string, error)
	recordsFn       func(ctx context.Context, entityType string) ([]models.EntityRecord, error)
	changesFn       func(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error)
	applyFn         func(ctx context.Context, records []models.EntityRecord) (int, error)
	replaceFn       func(ctx context.Context, records []models.EntityRecord) (int, error)
	existsFn        func(ctx context.Context, entityType, key string) (bool, error)
	prepareFn       func(ctx context.Context) (int64, error)
	openFn          func(ctx context.Context) (io.ReadCloser, int64, error)
	stageFn         func(ctx context.Context, src io.Reader) (int64, error)
	restoreStagedFn func(ctx context.Context) (int, error)
}

func (m *mockInstance) Types(ctx context.Context) ([]string, error) { return m.typesFn(ctx) }
func (m *mockInstance) Records(ctx context.Context, entityType string) ([]models.EntityRecord, error) {
	return m.recordsFn(ctx, entityType)
}
func (m *mockInstance) ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error) {
	return m.changesFn(ctx, entityType, sinceSeq)
}
func (m *mockInstance) ApplyBatch(ctx context.Context, records []models.EntityRecord) (int, error) {
	return m.applyFn(ctx, records)
}
func (m *mockInstance) ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error) {
	return m.replaceFn(ctx, records)
}
func (m *mockInstance) Exists(ctx context.Context, entityType, key string) (bool, error) {
	return m.existsFn(ctx, entityType, key)
}
func (m *mockInstance) PrepareSnapshot(ctx context.Context) (int64, error) { return m.prepareFn(ctx) }
func (m *mockInstance) OpenSnapshot(ctx context.Context) (io.ReadCloser, int64, error) {
	return m.openFn(ctx)
}
func (m *mockInstance) StageSnapshot(ctx context.Context, src io.Reader) (int64, error) {
	return m.stageFn(ctx, src)
}
func (m *mockInstance) RestoreStaged(ctx context.Context) (int, error) {
	return m.restoreStagedFn(ctx)
}

func newTestHandler(t *testing.T, engine service.SyncEngine, instance service.InstanceService) *Handler {
	t.Helper()

	appInfo, err := service.NewAppInfoService("v1.2.3")
	require.NoError(t, err)

	return NewHandler(&service.Services{
		Engine:   engine,
		Instance: instance,
		AppInfo:  appInfo,
	}, logger.Nop())
}

func serve(h *Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, target, body)
	h.Init().ServeHTTP(w, r)
	return w
}

func TestStartSync(t *testing.T) {
	engine := &mockEngine{
		startSyncFn: func(_ context.Context, req models.StartSyncRequest) (models.StartSyncResponse, error) {
			if req.Direction != models.DirectionPush || req.Method != models.MethodBulk {
				t.Errorf("unexpected request: %+v", req)
			}
			return models.StartSyncResponse{SessionID: "s-1"}, nil
		},
	}
	h := newTestHandler(t, engine, nil)

	body := bytes.NewReader([]byte(`{"direction":"push","method":"bulk"}`))
	w := serve(h, http.MethodPost, "/api/sync", body)

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp models.StartSyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.SessionID)
}

func TestStartSync_BadJSON(t *testing.T) {
	h := newTestHandler(t, &mockEngine{}, nil)

	w := serve(h, http.MethodPost, "/api/sync", strings.NewReader("{broken"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartSync_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.ErrValidation, http.StatusBadRequest},
		{"conflict", service.ErrConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockEngine{
				startSyncFn: func(context.Context, models.StartSyncRequest) (models.StartSyncResponse, error) {
					return models.StartSyncResponse{}, tt.err
				},
			}
			h := newTestHandler(t, engine, nil)

			w := serve(h, http.MethodPost, "/api/sync", strings.NewReader(`{"direction":"push","method":"bulk"}`))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetSyncStatus(t *testing.T) {
	engine := &mockEngine{
		getStatusFn: func(_ context.Context, sessionID string) (models.SyncSession, error) {
			if sessionID != "s-42" {
				return models.SyncSession{}, store.ErrSessionNotFound
			}
			return models.SyncSession{ID: "s-42", Phase: models.PhaseTransfer}, nil
		},
	}
	h := newTestHandler(t, engine, nil)

	w := serve(h, http.MethodGet, "/api/sync/s-42", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session models.SyncSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, models.PhaseTransfer, session.Phase)

	w = serve(h, http.MethodGet, "/api/sync/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelSync_RefusalIsAnAnswer(t *testing.T) {
	engine := &mockEngine{
		cancelFn: func(_ context.Context, sessionID string) (models.CancelResponse, error) {
			return models.CancelResponse{SessionID: sessionID, Accepted: false, Reason: service.ErrTooLate.Error()}, nil
		},
	}
	h := newTestHandler(t, engine, nil)

	w := serve(h, http.MethodPost, "/api/sync/s-1/cancel", nil)

	require.Equal(t, http.StatusOK, w.Code, "a refused cancel is a 200 with accepted=false")
	var resp models.CancelResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)
	assert.Contains(t, resp.Reason, "too late")
}

func TestValidate(t *testing.T) {
	engine := &mockEngine{
		validateFn: func(_ context.Context, req models.ValidateRequest) (models.ValidateResponse, error) {
			if req.SessionID == "" {
				return models.ValidateResponse{}, service.ErrValidation
			}
			return models.ValidateResponse{Summary: "3 exact matches, 0 expected differences, 0 unexpected mismatches", OverallStatus: models.StatusClean}, nil
		},
	}
	h := newTestHandler(t, engine, nil)

	w := serve(h, http.MethodPost, "/api/sync/validate", strings.NewReader(`{"session_id":"s-1"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusClean, resp.OverallStatus)

	w = serve(h, http.MethodPost, "/api/sync/validate", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetReport(t *testing.T) {
	engine := &mockEngine{
		getReportFn: func(_ context.Context, reportID string) (models.ReconciliationReport, error) {
			if reportID != "r-1" {
				return models.ReconciliationReport{}, store.ErrReportNotFound
			}
			return models.ReconciliationReport{ID: "r-1", Status: models.StatusClean, ExactMatches: 7}, nil
		},
	}
	h := newTestHandler(t, engine, nil)

	w := serve(h, http.MethodGet, "/api/reports/r-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.ReconciliationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 7, report.ExactMatches)

	w = serve(h, http.MethodGet, "/api/reports/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetServerVersion(t *testing.T) {
	h := newTestHandler(t, &mockEngine{}, nil)

	w := serve(h, http.MethodGet, "/api/version", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v1.2.3", w.Body.String())
}

func TestGetEntityTypes(t *testing.T) {
	instance := &mockInstance{
		typesFn: func(context.Context) ([]string, error) { return []string{"product", "order"}, nil },
	}
	h := newTestHandler(t, nil, instance)

	w := serve(h, http.MethodGet, "/api/entities/types", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.EntityTypesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"product", "order"}, resp.Types)
	assert.Equal(t, 2, resp.Length)
}

func TestGetEntities_RequiresType(t *testing.T) {
	h := newTestHandler(t, nil, &mockInstance{})

	w := serve(h, http.MethodGet, "/api/entities", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntityChanges(t *testing.T) {
	instance := &mockInstance{
		changesFn: func(_ context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error) {
			assert.Equal(t, "product", entityType)
			assert.EqualValues(t, 5, sinceSeq)
			return []models.EntityRecord{{EntityType: "product", Key: "p-6", Seq: 6}}, nil
		},
	}
	h := newTestHandler(t, nil, instance)

	w := serve(h, http.MethodGet, "/api/entities/changes?type=product&since=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.RecordsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Length)
	assert.Equal(t, "p-6", resp.Records[0].Key)

	w = serve(h, http.MethodGet, "/api/entities/changes?type=product&since=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEntityExists(t *testing.T) {
	instance := &mockInstance{
		existsFn: func(_ context.Context, entityType, key string) (bool, error) {
			return entityType == "product" && key == "p-1", nil
		},
	}
	h := newTestHandler(t, nil, instance)

	w := serve(h, http.MethodGet, "/api/entities/exists?type=product&key=p-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ExistsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Exists)

	w = serve(h, http.MethodGet, "/api/entities/exists?type=product", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyEntityBatch(t *testing.T) {
	instance := &mockInstance{
		applyFn: func(_ context.Context, records []models.EntityRecord) (int, error) {
			return len(records), nil
		},
	}
	h := newTestHandler(t, nil, instance)

	req := models.RecordBatchRequest{
		Envelopes: []models.TransferEnvelope{
			{EntityType: "product", Seq: 4, Record: models.EntityRecord{EntityType: "product", Key: "p-1"}},
			{EntityType: "product", Seq: 5, Record: models.EntityRecord{EntityType: "product", Key: "p-2"}},
		},
		Length: 2,
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := serve(h, http.MethodPost, "/api/entities/batch", bytes.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.RecordBatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Applied)
	assert.EqualValues(t, 5, resp.Cursor, "cursor is the highest envelope seq in the batch")
}

func TestApplyEntityBatch_MissingDependencyIsConflict(t *testing.T) {
	instance := &mockInstance{
		applyFn: func(context.Context, []models.EntityRecord) (int, error) {
			return 0, store.ErrMissingDependency
		},
	}
	h := newTestHandler(t, nil, instance)

	body := `{"envelopes":[{"entity_type":"order","seq":1,"record":{"entity_type":"order","key":"o-1"}}],"length":1}`
	w := serve(h, http.MethodPost, "/api/entities/batch", strings.NewReader(body))

	assert.Equal(t, http.StatusConflict, w.Code, "the sending driver keys on 409 for dependency failures")
}

func TestApplyEntityBatch_EmptyBatch(t *testing.T) {
	h := newTestHandler(t, nil, &mockInstance{})

	w := serve(h, http.MethodPost, "/api/entities/batch", strings.NewReader(`{"envelopes":[],"length":0}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceEntities(t *testing.T) {
	instance := &mockInstance{
		replaceFn: func(_ context.Context, records []models.EntityRecord) (int, error) {
			return len(records), nil
		},
	}
	h := newTestHandler(t, nil, instance)

	body := `{"records":[{"entity_type":"product","key":"p-1"}],"length":1}`
	w := serve(h, http.MethodPost, "/api/entities/replace", strings.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AppliedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Applied)
}

func TestSnapshotEndpoints(t *testing.T) {
	blob := []byte("framed snapshot bytes")
	var staged []byte
	instance := &mockInstance{
		prepareFn: func(context.Context) (int64, error) { return int64(len(blob)), nil },
		openFn: func(context.Context) (io.ReadCloser, int64, error) {
			return io.NopCloser(bytes.NewReader(blob)), int64(len(blob)), nil
		},
		stageFn: func(_ context.Context, src io.Reader) (int64, error) {
			var err error
			staged, err = io.ReadAll(src)
			return int64(len(staged)), err
		},
		restoreStagedFn: func(context.Context) (int, error) { return 13, nil },
	}
	h := newTestHandler(t, nil, instance)

	w := serve(h, http.MethodPost, "/api/snapshot/prepare", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info models.SnapshotInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.EqualValues(t, len(blob), info.BytesTotal)

	w = serve(h, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, blob, w.Body.Bytes())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))

	w = serve(h, http.MethodPost, "/api/snapshot", bytes.NewReader(blob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, blob, staged)

	w = serve(h, http.MethodPost, "/api/snapshot/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var applied models.AppliedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &applied))
	assert.Equal(t, 13, applied.Applied)
}

func TestRestoreSnapshot_IntegrityFailure(t *testing.T) {
	instance := &mockInstance{
		restoreStagedFn: func(context.Context) (int, error) { return 0, service.ErrIntegrity },
	}
	h := newTestHandler(t, nil, instance)

	w := serve(h, http.MethodPost, "/api/snapshot/restore", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
