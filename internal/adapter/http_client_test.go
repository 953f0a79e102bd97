package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetra/bizsync/models"
)

func newTestRemote(t *testing.T, handler http.Handler) RemoteInstance {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPRemoteInstance(HTTPClientConfig{BaseURL: srv.URL})
}

func TestRemote_Types(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/entities/types", r.URL.Path)
		json.NewEncoder(w).Encode(models.EntityTypesResponse{Types: []string{"category", "product"}, Length: 2})
	}))

	types, err := remote.Types(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"category", "product"}, types)
}

func TestRemote_ChangesSince_PassesCursor(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/entities/changes", r.URL.Path)
		assert.Equal(t, "product", r.URL.Query().Get("type"))
		assert.Equal(t, "42", r.URL.Query().Get("since"))
		json.NewEncoder(w).Encode(models.RecordsResponse{
			Records: []models.EntityRecord{{EntityType: "product", Key: "p-43", Seq: 43}},
			Length:  1,
		})
	}))

	records, err := remote.ChangesSince(context.Background(), "product", 42)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(43), records[0].Seq)
}

func TestRemote_Apply_Success(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/entities/batch", r.URL.Path)

		var req models.RecordBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.Length)

		json.NewEncoder(w).Encode(models.RecordBatchResponse{Applied: 2, Cursor: 7})
	}))

	applied, err := remote.Apply(context.Background(), []models.EntityRecord{
		{EntityType: "product", Key: "p-1", Seq: 6},
		{EntityType: "product", Key: "p-2", Seq: 7},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, applied)
}

func TestRemote_Apply_MissingDependency(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing dependency: category c-9", http.StatusConflict)
	}))

	_, err := remote.Apply(context.Background(), []models.EntityRecord{{EntityType: "product", Key: "p-1"}})

	require.ErrorIs(t, err, ErrMissingDependency)
	assert.Contains(t, err.Error(), "category c-9")
}

func TestRemote_SnapshotDownload_Streams(t *testing.T) {
	payload := strings.Repeat("snapshot-bytes", 100)
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/snapshot", r.URL.Path)
		w.Header().Set("Content-Type", "application/octet-stream")
		io.WriteString(w, payload)
	}))

	body, size, err := remote.DownloadSnapshot(context.Background())
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.Equal(t, int64(len(payload)), size)
}

func TestRemote_SnapshotUpload(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "framed snapshot", string(body))
		w.WriteHeader(http.StatusOK)
	}))

	err := remote.UploadSnapshot(context.Background(), strings.NewReader("framed snapshot"), int64(len("framed snapshot")))

	require.NoError(t, err)
}

func TestRemote_SnapshotRestore(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/snapshot/restore", r.URL.Path)
		json.NewEncoder(w).Encode(models.AppliedResponse{Applied: 100})
	}))

	applied, err := remote.RestoreSnapshot(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 100, applied)
}

func TestRemote_ServerErrorIsUnavailable(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := remote.Types(context.Background())

	require.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestRemote_ClientErrorIsRejected(t *testing.T) {
	remote := newTestRemote(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))

	_, err := remote.Types(context.Background())

	require.ErrorIs(t, err, ErrRemoteRejected)
}
