package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"warehouse/internal/domain"
	"warehouse/internal/metrics"
)

// Remote talks to a json-server style document API:
// GET /c, GET /c/:id, POST /c, PUT /c/:id, DELETE /c/:id, GET /c?field=value.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	sfg        singleflight.Group // collapses concurrent identical list reads
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *Remote) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.GatewayErrors.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", domain.ErrTransport, method, path, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode >= 300:
		metrics.GatewayErrors.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%w: %s %s returned status %d: %s", domain.ErrTransport, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	return data, nil
}

// list collapses concurrent reads of path into one request. The shared
// request outlives any single caller; each caller still stops waiting when
// its own ctx ends.
func (r *Remote) list(ctx context.Context, path string) ([]json.RawMessage, error) {
	shared := context.WithoutCancel(ctx)
	ch := r.sfg.DoChan(path, func() (any, error) {
		data, err := r.do(shared, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		var recs []json.RawMessage
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrTransport, path, err)
		}
		if recs == nil {
			recs = []json.RawMessage{}
		}
		return recs, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrTransport, path, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]json.RawMessage), nil
	}
}

func (r *Remote) object(data []byte, path string) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", domain.ErrTransport, path)
	}
	return json.RawMessage(data), nil
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

func (r *Remote) GetAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return r.list(ctx, "/"+collection)
}

func (r *Remote) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	p := itemPath(collection, id)
	data, err := r.do(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	return r.object(data, p)
}

func (r *Remote) Create(ctx context.Context, collection string, rec json.RawMessage) (json.RawMessage, error) {
	p := "/" + collection
	data, err := r.do(ctx, http.MethodPost, p, rec)
	if err != nil {
		return nil, err
	}
	return r.object(data, p)
}

func (r *Remote) Update(ctx context.Context, collection, id string, rec json.RawMessage) (json.RawMessage, error) {
	p := itemPath(collection, id)
	data, err := r.do(ctx, http.MethodPut, p, rec)
	if err != nil {
		return nil, err
	}
	return r.object(data, p)
}

func (r *Remote) Delete(ctx context.Context, collection, id string) error {
	_, err := r.do(ctx, http.MethodDelete, itemPath(collection, id), nil)
	return err
}

func (r *Remote) Query(ctx context.Context, collection, field, value string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set(field, value)
	return r.list(ctx, "/"+collection+"?"+q.Encode())
}
