package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/parser"
	"github.com/dgallion1/stylechunk/internal/pipeline"
	"github.com/dgallion1/stylechunk/internal/styled"
)

// chunkOptions overlays the cutoff|auto|quantile|refine|metric|lower|upper
// request values on the configured defaults.
func (s *Server) chunkOptions(r *http.Request) (chunker.Options, error) {
	opts, err := s.cfg.ChunkOptions()
	if err != nil {
		return chunker.Options{}, err
	}

	if v := r.FormValue("cutoff"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return chunker.Options{}, fmt.Errorf("%w: cutoff %q", styled.ErrInvalidArgument, v)
		}
		opts.Cutoff = chunker.FixedCutoff(f)
	}
	auto, err := formBool(r, "auto", opts.Cutoff.Auto())
	if err != nil {
		return chunker.Options{}, err
	}
	if auto {
		q := s.cfg.CutoffQuantile
		if v := r.FormValue("quantile"); v != "" {
			if q, err = strconv.ParseFloat(v, 64); err != nil {
				return chunker.Options{}, fmt.Errorf("%w: quantile %q", styled.ErrInvalidArgument, v)
			}
		}
		opts.Cutoff = chunker.AutoCutoff(q)
	}
	if opts.Refine, err = formBool(r, "refine", opts.Refine); err != nil {
		return chunker.Options{}, err
	}
	if v := r.FormValue("metric"); v != "" {
		if opts.Metric, err = chunker.ParseMetric(v); err != nil {
			return chunker.Options{}, err
		}
	}
	if opts.Lower, err = formInt(r, "lower", opts.Lower); err != nil {
		return chunker.Options{}, err
	}
	if opts.Upper, err = formInt(r, "upper", opts.Upper); err != nil {
		return chunker.Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return chunker.Options{}, err
	}
	return opts, nil
}

// jobOptions reads chunk options plus the versions|scoped|force flags.
func (s *Server) jobOptions(r *http.Request) (pipeline.JobOptions, error) {
	var opts pipeline.JobOptions
	var err error
	if opts.Chunk, err = s.chunkOptions(r); err != nil {
		return opts, err
	}
	if opts.Versions, err = formBool(r, "versions", false); err != nil {
		return opts, err
	}
	if opts.Scoped, err = formBool(r, "scoped", false); err != nil {
		return opts, err
	}
	if opts.Force, err = formBool(r, "force", false); err != nil {
		return opts, err
	}
	return opts, nil
}

func formBool(r *http.Request, name string, def bool) (bool, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s %q", styled.ErrInvalidArgument, name, v)
	}
	return b, nil
}

func formInt(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q", styled.ErrInvalidArgument, name, v)
	}
	return n, nil
}

// upload is one file read from a multipart request.
type upload struct {
	filename string
	data     []byte
}

// readUpload parses a single-file multipart request. On failure it writes
// the error response and returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}
	return upload{filename: filename, data: data}, true
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
