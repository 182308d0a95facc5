package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/stylechunk/internal/export"
	"github.com/dgallion1/stylechunk/internal/parser"
)

// BatchOptions controls RunBatch.
type BatchOptions struct {
	Job     JobOptions
	Workers int
	// OutDir receives one chunk file per document and, with versions
	// enabled, the old/new files. Empty disables writing.
	OutDir   string
	Format   export.Format
	Versions export.VersionOptions
}

// BatchResult is the outcome for one input file.
type BatchResult struct {
	Index    int           `json:"index"`
	File     string        `json:"file"`
	Chunks   int           `json:"chunks"`
	Cutoff   float64       `json:"cutoff"`
	Outputs  []string      `json:"outputs,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// BatchReport summarizes a batch run. Results follow input order.
type BatchReport struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// RunBatch processes files concurrently. A failing document is logged and
// recorded in its result; only cancellation of ctx aborts the run.
func RunBatch(ctx context.Context, proc *Processor, files []string, opts BatchOptions, log *slog.Logger) (BatchReport, error) {
	start := time.Now()
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Format == "" {
		opts.Format = export.FormatText
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return BatchReport{}, fmt.Errorf("create output dir: %w", err)
		}
	}

	results := make([]BatchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docStart := time.Now()
			r := BatchResult{Index: i, File: file}
			r.Outputs, r.Chunks, r.Cutoff, r.Err = runOne(proc, file, opts)
			r.Duration = time.Since(docStart)
			if r.Err != nil {
				r.Error = r.Err.Error()
				log.Error("document failed", "doc", file, "error", r.Err)
			} else {
				log.Info("document chunked", "doc", file, "chunks", r.Chunks, "duration_ms", r.Duration.Milliseconds())
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchReport{}, err
	}

	report := BatchReport{Results: results, Duration: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	return report, nil
}

func runOne(proc *Processor, file string, opts BatchOptions) ([]string, int, float64, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read: %w", err)
	}
	out, err := proc.Run(file, data, opts.Job)
	if err != nil {
		return nil, 0, 0, err
	}
	res := out.Result
	if opts.OutDir == "" {
		return nil, len(res.Chunks), res.Cutoff, nil
	}

	stem := export.Stem(file)
	path := filepath.Join(opts.OutDir, stem+opts.Format.Extension())
	f, err := os.Create(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("create %s: %w", path, err)
	}
	werr := export.Write(f, opts.Format, out.Document.Title, res)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, 0, 0, fmt.Errorf("write %s: %w", path, werr)
	}
	outputs := []string{path}

	if out.Readings != nil {
		paths, err := export.WriteVersions(opts.OutDir, stem, *out.Readings, opts.Versions)
		outputs = append(outputs, paths...)
		if err != nil {
			return outputs, 0, 0, err
		}
	}
	return outputs, len(res.Chunks), res.Cutoff, nil
}

// CollectFiles returns the supported files under dir in lexical order.
func CollectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !parser.IsSupportedExtension(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
