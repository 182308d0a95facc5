package api

import (
	"net/http"
	"time"

	"github.com/dgallion1/stylechunk/internal/amend"
	"github.com/dgallion1/stylechunk/internal/export"
)

// handleChunk chunks one uploaded document synchronously.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, err := s.chunkOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := export.ParseFormat(r.FormValue("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	proc := s.orchestrator.Processor()
	doc, err := proc.Parse(up.filename, up.data)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := proc.Chunk(doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start), len(res.Chunks))

	if format == export.FormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := export.Write(w, format, doc.Title, res); err != nil {
			s.log.Error("write response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, export.View(doc.Title, res, format == export.FormatTokens))
}

type versionsResponse struct {
	Document string       `json:"document"`
	Scoped   bool         `json:"scoped"`
	Region   amend.Region `json:"region"`
	Old      string       `json:"old"`
	New      string       `json:"new"`
}

// handleVersions derives the old and new readings of an uploaded update.
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, err := s.chunkOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	scoped, err := formBool(r, "scoped", false)
	if err != nil {
		writeError(w, err)
		return
	}
	lines, err := formBool(r, "lines", false)
	if err != nil {
		writeError(w, err)
		return
	}
	strip, err := formBool(r, "legends", true)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	proc := s.orchestrator.Processor()
	doc, err := proc.Parse(up.filename, up.data)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := proc.Chunk(doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	readings, err := proc.Versions(res, scoped)
	if err != nil {
		writeError(w, err)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start), len(res.Chunks))

	resp, err := s.renderVersions(doc.Title, scoped, readings, lines, strip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderVersions(title string, scoped bool, readings amend.Readings, lines, strip bool) (versionsResponse, error) {
	vopts := export.VersionOptions{Lines: lines}
	if strip {
		vopts.Legends = s.legends
	}
	oldText, err := export.RenderVersion(readings, amend.Old, vopts)
	if err != nil {
		return versionsResponse{}, err
	}
	newText, err := export.RenderVersion(readings, amend.New, vopts)
	if err != nil {
		return versionsResponse{}, err
	}
	return versionsResponse{
		Document: title,
		Scoped:   scoped,
		Region:   readings.Region,
		Old:      oldText,
		New:      newText,
	}, nil
}
