package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// Store delegates ports.Store to the remote service.
//
// API Contract:
//
//	POST /data    {"path"}          -> {"code", "data": "<content>"}
//	POST /update  {"path", "code"}  -> {"code"}
//	POST /move    {"from", "to"}    -> {"code"}
//	POST /remove  {"path"}          -> {"code"}
//	POST /exists  {"id", "path"}    -> {"code", "data": true|false}
//	POST /list    {"path"}          -> {"code", "data": ["name", ...]}
type Store struct {
	client *Client
}

// NewStore creates a remote store.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

type pathRequest struct {
	Path string `json:"path"`
}

type updateRequest struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type existsRequest struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Fetch returns the content at path. The service sends text content as a
// JSON string; any other JSON value is passed through verbatim.
func (s *Store) Fetch(ctx context.Context, path string) (ports.Response, error) {
	env, err := s.client.Call(ctx, "data", pathRequest{Path: vpath.Clean(path)})
	if err != nil {
		return ports.Response{}, err
	}
	resp := ports.Response{Status: env.Code}
	if !resp.OK() {
		return resp, nil
	}

	var text string
	if err := json.Unmarshal(env.Data, &text); err == nil {
		resp.Payload = []byte(text)
	} else {
		resp.Payload = []byte(env.Data)
	}
	return resp, nil
}

// Save writes content at path.
func (s *Store) Save(ctx context.Context, path string, content []byte) (ports.Response, error) {
	env, err := s.client.Call(ctx, "update", updateRequest{Path: vpath.Clean(path), Code: string(content)})
	if err != nil {
		return ports.Response{}, err
	}
	return ports.Response{Status: env.Code}, nil
}

// Rename moves an entity. The service answers 400 when to is taken. Paths
// that do not address an entity are refused without calling the service.
func (s *Store) Rename(ctx context.Context, from, to string) (ports.Response, error) {
	from, to = vpath.Clean(from), vpath.Clean(to)
	if vpath.Depth(from) <= vpath.SegmentEntity || vpath.Depth(to) <= vpath.SegmentEntity {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}
	env, err := s.client.Call(ctx, "move", moveRequest{From: from, To: to})
	if err != nil {
		return ports.Response{}, err
	}
	return ports.Response{Status: env.Code}, nil
}

// Delete removes path and everything within it.
func (s *Store) Delete(ctx context.Context, path string) (ports.Response, error) {
	env, err := s.client.Call(ctx, "remove", pathRequest{Path: vpath.Clean(path)})
	if err != nil {
		return ports.Response{}, err
	}
	return ports.Response{Status: env.Code}, nil
}

// Exists asks whether anything is stored within path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	p := vpath.Clean(path)
	env, err := s.client.Call(ctx, "exists", existsRequest{ID: vpath.Segment(p, vpath.SegmentEntity), Path: p})
	if err != nil {
		return false, err
	}
	if !(ports.Response{Status: env.Code}).OK() {
		return false, nil
	}
	var exists bool
	if err := json.Unmarshal(env.Data, &exists); err != nil {
		return false, fmt.Errorf("decode exists: %w", err)
	}
	return exists, nil
}

// List returns the child names below prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	env, err := s.client.Call(ctx, "list", pathRequest{Path: vpath.Clean(prefix)})
	if err != nil {
		return nil, err
	}
	if !(ports.Response{Status: env.Code}).OK() {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(env.Data, &names); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return names, nil
}

var _ ports.Store = (*Store)(nil)

// Builder delegates builds to the remote service.
//
//	POST /build {"path", "entire"} -> {"code"}
type Builder struct {
	client *Client
}

// NewBuilder creates a remote builder.
func NewBuilder(client *Client) *Builder {
	return &Builder{client: client}
}

type buildRequest struct {
	Path   string `json:"path"`
	Entire bool   `json:"entire"`
}

// Build requests a build of path.
func (b *Builder) Build(ctx context.Context, path string, entire bool) (ports.Response, error) {
	env, err := b.client.Call(ctx, "build", buildRequest{Path: vpath.Clean(path), Entire: entire})
	if err != nil {
		return ports.Response{}, err
	}
	return ports.Response{Status: env.Code}, nil
}

var _ ports.Builder = (*Builder)(nil)
