package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal in-memory pathstore.
type fakeStore struct {
	mu     sync.Mutex
	nodes  map[string]any
	links  []LinkRequest
	status int
	auth   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: map[string]any{}}
}

func (f *fakeStore) setStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if f.status != 0 {
		http.Error(w, "unavailable", f.status)
		return
	}

	if r.URL.Path == "/links" {
		var l LinkRequest
		_ = json.NewDecoder(r.Body).Decode(&l)
		f.links = append(f.links, l)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req NodeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.nodes[key] = req.Value
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var nodes []ListChildrenResponse
			for k, v := range f.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, ListChildrenResponse{Key: strings.ReplaceAll(k, "/", "."), Value: v})
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := f.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(NodeResponse{Key: key, Value: v})
	case http.MethodDelete:
		recursive := r.URL.Query().Get("children") == "true"
		for k := range f.nodes {
			if k == key || (recursive && strings.HasPrefix(k, key+"/")) {
				delete(f.nodes, k)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestSink(t *testing.T) (*Sink, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/", "secret")
	t.Cleanup(c.Close)
	return NewSink(c, ""), store
}

func TestSink_StoreAndFind(t *testing.T) {
	ctx := context.Background()
	sink, store := newTestSink(t)

	k0, err := sink.PutChunk(ctx, "doc1", ChunkRecord{Index: 0, Text: "first"})
	require.NoError(t, err)
	k1, err := sink.PutChunk(ctx, "doc1", ChunkRecord{Index: 1, Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, "stylechunk/documents/doc1/chunks/0000", k0)
	assert.Equal(t, "stylechunk/documents/doc1/chunks/0001", k1)
	require.NoError(t, sink.LinkNext(ctx, k0, k1))

	require.NoError(t, sink.PutMeta(ctx, DocumentMeta{DocID: "doc1", ContentHash: "abc", Chunks: 2}))
	require.NoError(t, sink.PutHashIndex(ctx, "abc", "doc1", "a.html"))

	docID, found, err := sink.FindByHash(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "doc1", docID)

	_, found, err = sink.FindByHash(ctx, "zzz")
	require.NoError(t, err)
	assert.False(t, found)

	docs, err := sink.ListDocuments(ctx, 100)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "stylechunk.documents.doc1.meta", docs[0].Key)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.links, 1)
	assert.Equal(t, "next", store.links[0].Summary)
	for _, a := range store.auth {
		assert.Equal(t, "Bearer secret", a)
	}
}

func TestSink_DeleteDocument(t *testing.T) {
	ctx := context.Background()
	sink, store := newTestSink(t)

	_, err := sink.PutChunk(ctx, "doc1", ChunkRecord{Index: 0, Text: "first"})
	require.NoError(t, err)
	require.NoError(t, sink.PutMeta(ctx, DocumentMeta{DocID: "doc1", ContentHash: "abc"}))
	require.NoError(t, sink.PutHashIndex(ctx, "abc", "doc1", "a.html"))

	existed, err := sink.DeleteDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.True(t, existed)
	store.mu.Lock()
	assert.Empty(t, store.nodes)
	store.mu.Unlock()

	existed, err = sink.DeleteDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestClient_RetryableStatus(t *testing.T) {
	ctx := context.Background()
	sink, store := newTestSink(t)
	store.setStatus(http.StatusServiceUnavailable)

	_, err := sink.PutChunk(ctx, "doc1", ChunkRecord{Index: 0})
	var retryErr *RetryableError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, http.StatusServiceUnavailable, retryErr.StatusCode)

	store.setStatus(http.StatusBadRequest)
	_, err = sink.PutChunk(ctx, "doc1", ChunkRecord{Index: 0})
	require.Error(t, err)
	assert.False(t, errors.As(err, &retryErr))
}

func TestClient_GetNodeMissing(t *testing.T) {
	sink, _ := newTestSink(t)
	node, err := sink.Client().GetNode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "doc1", lastSegment("a.b.doc1"))
	assert.Equal(t, "doc1", lastSegment("a/b/doc1"))
	assert.Equal(t, "doc1", lastSegment("doc1"))
}
