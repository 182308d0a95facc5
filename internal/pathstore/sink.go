package pathstore

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	memoryType = "semantic"
	metaType   = "metacognitive"
)

// Sink stores chunked documents under <prefix>/documents/<docID>:
// one node per chunk at chunks/NNNN, "next" links between consecutive
// chunks, a meta node, and a content hash index under by_hash.
type Sink struct {
	client *Client
	prefix string
}

// NewSink wraps c. An empty prefix defaults to "stylechunk".
func NewSink(c *Client, prefix string) *Sink {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "stylechunk"
	}
	return &Sink{client: c, prefix: prefix}
}

// Client returns the underlying client.
func (s *Sink) Client() *Client { return s.client }

// ChunkRecord is the stored value of one chunk.
type ChunkRecord struct {
	Index   int    `json:"index"`
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
	Words   int    `json:"words"`
	Chars   int    `json:"characters"`
	Version string `json:"version,omitempty"`
}

// DocumentMeta is the stored summary of one document.
type DocumentMeta struct {
	DocID       string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash"`
	Chunks      int       `json:"chunks"`
	Cutoff      float64   `json:"cutoff"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Sink) docPrefix(docID string) string {
	return fmt.Sprintf("%s/documents/%s", s.prefix, docID)
}

func (s *Sink) hashPrefix(hash string) string {
	return fmt.Sprintf("%s/by_hash/%s", s.prefix, hash)
}

// ChunkKey is the key chunk idx of docID is stored at.
func (s *Sink) ChunkKey(docID string, idx int) string {
	return fmt.Sprintf("%s/chunks/%04d", s.docPrefix(docID), idx)
}

// PutChunk stores one chunk and returns its key.
func (s *Sink) PutChunk(ctx context.Context, docID string, c ChunkRecord) (string, error) {
	key := s.ChunkKey(docID, c.Index)
	err := s.client.PutNode(ctx, key, NodeRequest{
		Value:      c,
		MemoryType: memoryType,
		Salience:   0.5,
		Source:     "stylechunk:" + docID,
	})
	return key, err
}

// LinkNext records that chunk to follows chunk from.
func (s *Sink) LinkNext(ctx context.Context, from, to string) error {
	return s.client.PutLink(ctx, LinkRequest{From: from, To: to, Weight: 1, Summary: "next"})
}

// PutMeta stores the document summary.
func (s *Sink) PutMeta(ctx context.Context, m DocumentMeta) error {
	return s.client.PutNode(ctx, s.docPrefix(m.DocID)+"/meta", NodeRequest{
		Value:      m,
		MemoryType: metaType,
		Salience:   0.5,
		Source:     "stylechunk:" + m.DocID,
	})
}

// PutHashIndex records docID under its content hash for duplicate checks.
func (s *Sink) PutHashIndex(ctx context.Context, hash, docID, filename string) error {
	return s.client.PutNode(ctx, s.hashPrefix(hash)+"/"+docID, NodeRequest{
		Value:      map[string]any{"filename": filename},
		MemoryType: metaType,
		Salience:   0.1,
		Source:     "stylechunk:" + docID,
	})
}

// FindByHash returns the id of a document already stored with hash.
func (s *Sink) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	children, err := s.client.ListChildren(ctx, s.hashPrefix(hash), 1)
	if err != nil {
		return "", false, err
	}
	if len(children) == 0 {
		return "", false, nil
	}
	return lastSegment(children[0].Key), true, nil
}

// ListDocuments returns the meta nodes of stored documents.
func (s *Sink) ListDocuments(ctx context.Context, limit int) ([]ListChildrenResponse, error) {
	children, err := s.client.ListChildren(ctx, s.prefix+"/documents", limit)
	if err != nil {
		return nil, err
	}
	var docs []ListChildrenResponse
	for _, c := range children {
		if lastSegment(c.Key) == "meta" {
			docs = append(docs, c)
		}
	}
	return docs, nil
}

// DeleteDocument removes a document, its chunks and its hash index entry.
// It reports whether the document existed.
func (s *Sink) DeleteDocument(ctx context.Context, docID string) (bool, error) {
	prefix := s.docPrefix(docID)
	meta, err := s.client.GetNode(ctx, prefix+"/meta")
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}
	if err := s.client.DeleteNode(ctx, prefix, true); err != nil {
		return true, err
	}
	if m, ok := meta.Value.(map[string]any); ok {
		if hash, _ := m["content_hash"].(string); hash != "" {
			if err := s.client.DeleteNode(ctx, s.hashPrefix(hash)+"/"+docID, false); err != nil {
				return true, fmt.Errorf("delete hash index: %w", err)
			}
		}
	}
	return true, nil
}

// lastSegment returns the final component of a key joined with "/" or ".".
func lastSegment(key string) string {
	if i := strings.LastIndexAny(key, "/."); i >= 0 {
		return key[i+1:]
	}
	return key
}
