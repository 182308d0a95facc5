package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists documents stored in pathstore.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sink := s.orchestrator.Sink()
	if sink == nil {
		jsonError(w, "document storage is not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	metas, err := sink.ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	docs := make([]map[string]any, 0, len(metas))
	for _, m := range metas {
		docs = append(docs, map[string]any{
			"key":   m.Key,
			"value": m.Value,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document, its chunks and its hash index.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	sink := s.orchestrator.Sink()
	if sink == nil {
		jsonError(w, "document storage is not configured", http.StatusServiceUnavailable)
		return
	}
	docID := chi.URLParam(r, "docID")

	existed, err := sink.DeleteDocument(r.Context(), docID)
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !existed {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_id": docID, "deleted": true})
}
