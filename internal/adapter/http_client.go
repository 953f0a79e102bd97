// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/avetra/bizsync/models"
)

// traceIDHeader carries the driver's identity on every peer call so one
// transfer correlates across the logs of both instances.
const traceIDHeader = "X-Trace-ID"

// HTTPClientConfig configures the connection to the remote instance's sync
// API.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// httpRemoteInstance talks to the remote deployment's sync API over HTTP.
// It implements [RemoteInstance]; all entity traffic is JSON, snapshot
// traffic is a raw byte stream.
type httpRemoteInstance struct {
	client *resty.Client
}

// NewHTTPRemoteInstance constructs a [RemoteInstance] for the given base
// URL. Zero-value config fields fall back to localhost and 15 seconds.
func NewHTTPRemoteInstance(cfg HTTPClientConfig) RemoteInstance {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader(traceIDHeader, uuid.NewString())

	return &httpRemoteInstance{client: cli}
}

func (h *httpRemoteInstance) Types(ctx context.Context) ([]string, error) {
	var out models.EntityTypesResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/entities/types")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return nil, err
	}

	return out.Types, nil
}

func (h *httpRemoteInstance) All(ctx context.Context, entityType string) ([]models.EntityRecord, error) {
	var out models.RecordsResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("type", entityType).
		SetResult(&out).
		Get("/api/entities")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return nil, err
	}

	return out.Records, nil
}

func (h *httpRemoteInstance) ChangesSince(ctx context.Context, entityType string, sinceSeq int64) ([]models.EntityRecord, error) {
	var out models.RecordsResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("type", entityType).
		SetQueryParam("since", strconv.FormatInt(sinceSeq, 10)).
		SetResult(&out).
		Get("/api/entities/changes")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return nil, err
	}

	return out.Records, nil
}

// Apply ships one batch of records; the remote side applies it atomically
// and performs its own dependency check, which comes back as a 409.
func (h *httpRemoteInstance) Apply(ctx context.Context, records []models.EntityRecord) (int, error) {
	envelopes := make([]models.TransferEnvelope, 0, len(records))
	for i := range records {
		envelopes = append(envelopes, models.TransferEnvelope{
			EntityType: records[i].EntityType,
			Seq:        records[i].Seq,
			Record:     records[i],
		})
	}

	var out models.RecordBatchResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.RecordBatchRequest{Envelopes: envelopes, Length: len(envelopes)}).
		SetResult(&out).
		Post("/api/entities/batch")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return 0, fmt.Errorf("%w: %s", ErrMissingDependency, strings.TrimSpace(string(resp.Body())))
	}
	if err = checkStatus(resp); err != nil {
		return 0, err
	}

	return out.Applied, nil
}

func (h *httpRemoteInstance) ReplaceAll(ctx context.Context, records []models.EntityRecord) (int, error) {
	var out models.AppliedResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(models.ReplaceRecordsRequest{Records: records, Length: len(records)}).
		SetResult(&out).
		Post("/api/entities/replace")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return 0, err
	}

	return out.Applied, nil
}

func (h *httpRemoteInstance) Exists(ctx context.Context, entityType, key string) (bool, error) {
	var out models.ExistsResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("type", entityType).
		SetQueryParam("key", key).
		SetResult(&out).
		Get("/api/entities/exists")
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return false, err
	}

	return out.Exists, nil
}

func (h *httpRemoteInstance) PrepareSnapshot(ctx context.Context) (int64, error) {
	var out models.SnapshotInfoResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/api/snapshot/prepare")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return 0, err
	}

	return out.BytesTotal, nil
}

// DownloadSnapshot streams the staged snapshot without buffering it:
// resty hands over the raw response body, which the codec spools chunk by
// chunk.
func (h *httpRemoteInstance) DownloadSnapshot(ctx context.Context) (io.ReadCloser, int64, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get("/api/snapshot")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if resp.IsError() {
		resp.RawBody().Close()
		return nil, 0, statusError(resp.StatusCode())
	}

	size, _ := strconv.ParseInt(resp.Header().Get("Content-Length"), 10, 64)
	return resp.RawBody(), size, nil
}

func (h *httpRemoteInstance) UploadSnapshot(ctx context.Context, src io.Reader, size int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetContentLength(true).
		SetHeader("Content-Length", strconv.FormatInt(size, 10)).
		SetBody(src).
		Post("/api/snapshot")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	return checkStatus(resp)
}

func (h *httpRemoteInstance) RestoreSnapshot(ctx context.Context) (int, error) {
	var out models.AppliedResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&out).
		Post("/api/snapshot/restore")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}
	if err = checkStatus(resp); err != nil {
		return 0, err
	}

	return out.Applied, nil
}

func checkStatus(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	return statusError(resp.StatusCode())
}

func statusError(code int) error {
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, code)
	}
	return fmt.Errorf("%w: status %d", ErrRemoteRejected, code)
}
