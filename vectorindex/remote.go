package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var _ Index = (*RemoteAdapter)(nil)

var (
	errNotFound = errors.New("vector index: not found")
	errConflict = errors.New("vector index: conflict")
)

// RemoteConfig configures a RemoteAdapter talking to a remote ANN service
// over HTTP.
type RemoteConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// DefaultRemoteConfig returns sane defaults for a RemoteAdapter.
func DefaultRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{BaseURL: baseURL, RequestTimeout: 10 * time.Second}
}

// RemoteAdapter is a thin HTTP adapter over a remote ANN service. Search
// sends every requested type id in one request to the service's /search
// endpoint and returns the service's results as received: the adapter does
// no per-collection fan-out, score sorting, tie-breaking or truncation to
// limit of its own, unlike MemoryAdapter.
type RemoteAdapter struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemoteAdapter returns a RemoteAdapter bound to cfg.
func NewRemoteAdapter(cfg RemoteConfig) *RemoteAdapter {
	return &RemoteAdapter{cfg: cfg, client: &http.Client{Timeout: cfg.RequestTimeout}}
}

func (a *RemoteAdapter) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("vector index unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode == http.StatusConflict {
		return errConflict
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("vector index returned status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func (a *RemoteAdapter) EnsureCollection(ctx context.Context, typeID string, dimension int, distance Distance) error {
	body := map[string]any{"type_id": typeID, "dimension": dimension, "distance": distance}
	err := a.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(typeID), body, nil)
	if errors.Is(err, errConflict) {
		return &DimensionMismatchError{TypeID: typeID, Given: dimension}
	}
	return err
}

func (a *RemoteAdapter) Upsert(ctx context.Context, typeID, entityID string, vector []float32, payload map[string]any) error {
	body := map[string]any{"entity_id": entityID, "vector": vector, "payload": payload}
	return a.do(ctx, http.MethodPut, "/collections/"+url.PathEscape(typeID)+"/points/"+url.PathEscape(entityID), body, nil)
}

// Delete is a no-op, not an error, when entityID is already absent,
// matching the adapter contract MemoryAdapter implements directly.
func (a *RemoteAdapter) Delete(ctx context.Context, typeID, entityID string) error {
	err := a.do(ctx, http.MethodDelete, "/collections/"+url.PathEscape(typeID)+"/points/"+url.PathEscape(entityID), nil, nil)
	if errors.Is(err, errNotFound) {
		return nil
	}
	return err
}

func (a *RemoteAdapter) Search(ctx context.Context, typeIDs []string, queryVector []float32, limit int, minScore *float64) ([]SearchResult, error) {
	body := map[string]any{
		"type_ids":     typeIDs,
		"query_vector": queryVector,
		"limit":        limit,
		"min_score":    minScore,
	}
	var results []SearchResult
	if err := a.do(ctx, http.MethodPost, "/search", body, &results); err != nil {
		return nil, err
	}
	return results, nil
}
