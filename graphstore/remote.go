package graphstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"vectadb.dev/core/ontology"
)

// RemoteConfig configures a RemoteAdapter, the same Default*Config shape
// used throughout this codebase's adapters.
type RemoteConfig struct {
	BaseURL           string
	WebSocketPath     string
	RequestTimeout    time.Duration
	HandshakeTimeout  time.Duration
	PingPeriod        time.Duration
}

// DefaultRemoteConfig returns sane defaults for a RemoteAdapter talking to
// a local sidecar-style graph store.
func DefaultRemoteConfig(baseURL string) RemoteConfig {
	return RemoteConfig{
		BaseURL:          baseURL,
		WebSocketPath:    "/ws/changes",
		RequestTimeout:   10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		PingPeriod:       30 * time.Second,
	}
}

// changeMessage is the notification payload carried over the websocket
// change-feed, mirroring the call/response/ping/pong envelope shape this
// codebase's other portals use for framed JSON messages.
type changeMessage struct {
	Type     string `json:"type"`
	EntityID string `json:"entity_id,omitempty"`
}

const (
	changeMsgTypePing    = "ping"
	changeMsgTypePong    = "pong"
	changeMsgTypeUpdated = "updated"
	changeMsgTypeDeleted = "deleted"
)

var _ Store = (*RemoteAdapter)(nil)

// RemoteAdapter talks to a remote multi-model graph/document store over
// HTTP for CRUD and traversal, and a websocket connection for schema/entity
// change notification. StoreUnavailableError wraps failures from either
// transport uniformly so callers never need to branch on which one failed.
type RemoteAdapter struct {
	cfg    RemoteConfig
	client *http.Client
	log    *slog.Logger

	conn *websocket.Conn
}

// NewRemoteAdapter returns a RemoteAdapter bound to cfg. Dial does not
// happen until Watch is called; CRUD operations work over plain HTTP
// without a live websocket connection.
func NewRemoteAdapter(cfg RemoteConfig, log *slog.Logger) *RemoteAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &RemoteAdapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		log:    log,
	}
}

// Watch dials the change-feed websocket and delivers change notifications
// to onChange until ctx is canceled or the connection drops. It runs in
// the caller's goroutine; callers that want it backgrounded should launch
// it with `go`.
func (a *RemoteAdapter) Watch(ctx context.Context, onChange func(entityID string, deleted bool)) error {
	wsURL, err := wsURL(a.cfg.BaseURL, a.cfg.WebSocketPath)
	if err != nil {
		return &StoreUnavailableError{Op: "watch", Err: err}
	}

	dialer := &websocket.Dialer{HandshakeTimeout: a.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return &StoreUnavailableError{Op: "watch", Err: err}
	}
	a.conn = conn
	defer conn.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var msg changeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return &StoreUnavailableError{Op: "watch", Err: err}
		}
		switch msg.Type {
		case changeMsgTypePing:
			_ = conn.WriteJSON(changeMessage{Type: changeMsgTypePong})
		case changeMsgTypeUpdated:
			onChange(msg.EntityID, false)
		case changeMsgTypeDeleted:
			onChange(msg.EntityID, true)
		}
	}
}

func wsURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = path
	return u.String(), nil
}

func (a *RemoteAdapter) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &SerializationError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, reader)
	if err != nil {
		return &StoreUnavailableError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return &StoreUnavailableError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Kind: "remote", ID: path}
	}
	if resp.StatusCode == http.StatusConflict {
		return &DuplicateIDError{ID: path}
	}
	if resp.StatusCode >= 300 {
		return &StoreUnavailableError{Op: method + " " + path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &SerializationError{Op: method + " " + path, Err: err}
	}
	return nil
}

func (a *RemoteAdapter) StoreSchema(ctx context.Context, schema *ontology.Schema) error {
	encoded, err := schema.Encode(ontology.FormatJSON)
	if err != nil {
		return &SerializationError{Op: "store_schema", Err: err}
	}
	return a.do(ctx, http.MethodPut, "/schema", json.RawMessage(encoded), nil)
}

func (a *RemoteAdapter) LoadSchema(ctx context.Context) (*ontology.Schema, error) {
	var raw json.RawMessage
	if err := a.do(ctx, http.MethodGet, "/schema", nil, &raw); err != nil {
		if _, ok := err.(*NotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	schema, err := ontology.Decode(raw, ontology.FormatJSON)
	if err != nil {
		return nil, &SerializationError{Op: "load_schema", Err: err}
	}
	return schema, nil
}

func (a *RemoteAdapter) CreateEntity(ctx context.Context, entity ontology.Entity) error {
	return a.do(ctx, http.MethodPost, "/entities", entity, nil)
}

func (a *RemoteAdapter) GetEntity(ctx context.Context, id string) (*ontology.Entity, error) {
	var entity ontology.Entity
	err := a.do(ctx, http.MethodGet, "/entities/"+url.PathEscape(id), nil, &entity)
	if _, ok := err.(*NotFoundError); ok {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (a *RemoteAdapter) UpdateEntity(ctx context.Context, id string, entity ontology.Entity) error {
	return a.do(ctx, http.MethodPut, "/entities/"+url.PathEscape(id), entity, nil)
}

func (a *RemoteAdapter) DeleteEntity(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/entities/"+url.PathEscape(id), nil, nil)
}

func (a *RemoteAdapter) ListEntities(ctx context.Context, typeIDs []string) ([]ontology.Entity, error) {
	q := url.Values{}
	for _, t := range typeIDs {
		q.Add("type", t)
	}
	var entities []ontology.Entity
	if err := a.do(ctx, http.MethodGet, "/entities?"+q.Encode(), nil, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (a *RemoteAdapter) CreateRelation(ctx context.Context, relation ontology.Relation) error {
	return a.do(ctx, http.MethodPost, "/relations", relation, nil)
}

func (a *RemoteAdapter) DeleteRelation(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/relations/"+url.PathEscape(id), nil, nil)
}

func (a *RemoteAdapter) Neighbors(ctx context.Context, entityID string, relationType string, direction Direction) ([]Neighbor, error) {
	q := url.Values{"direction": {string(direction)}}
	if relationType != "" {
		q.Set("relation_type", relationType)
	}
	var neighbors []Neighbor
	if err := a.do(ctx, http.MethodGet, "/entities/"+url.PathEscape(entityID)+"/neighbors?"+q.Encode(), nil, &neighbors); err != nil {
		return nil, err
	}
	return neighbors, nil
}

func (a *RemoteAdapter) TraverseBFS(ctx context.Context, startID string, relationType string, direction Direction, maxDepth int) ([]ontology.Entity, error) {
	q := url.Values{
		"direction":  {string(direction)},
		"max_depth":  {fmt.Sprint(maxDepth)},
	}
	if relationType != "" {
		q.Set("relation_type", relationType)
	}
	var entities []ontology.Entity
	if err := a.do(ctx, http.MethodGet, "/entities/"+url.PathEscape(startID)+"/traverse?"+q.Encode(), nil, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}
