package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/stylechunk/internal/amend"
	"github.com/dgallion1/stylechunk/internal/chunker"
	"github.com/dgallion1/stylechunk/internal/config"
	"github.com/dgallion1/stylechunk/internal/export"
	"github.com/dgallion1/stylechunk/internal/logging"
	"github.com/dgallion1/stylechunk/internal/pipeline"
	"github.com/dgallion1/stylechunk/internal/score"
)

// app holds what every command needs.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	proc *pipeline.Processor
}

// setup loads the environment configuration, then applies the global
// flags on top of it.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	format, _ := cmd.Flags().GetString("log-format")
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, format)
	if err != nil {
		return nil, err
	}

	tablePath, _ := cmd.Flags().GetString("table")
	if tablePath == "" {
		tablePath = cfg.ScoreTable
	}
	table, err := score.LoadTable(tablePath)
	if err != nil {
		return nil, err
	}
	scorer, err := score.NewScorer(table)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:  cfg,
		log:  log,
		proc: pipeline.NewProcessor(scorer, cfg.ParserOptions()),
	}, nil
}

// chunkOptions starts from the environment defaults and applies the chunk
// flags the user set explicitly.
func (a *app) chunkOptions(cmd *cobra.Command) (chunker.Options, error) {
	opts, err := a.cfg.ChunkOptions()
	if err != nil {
		return chunker.Options{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("cutoff") {
		v, _ := flags.GetFloat64("cutoff")
		opts.Cutoff = chunker.FixedCutoff(v)
	}
	auto, _ := flags.GetBool("auto")
	if auto || (flags.Changed("quantile") && opts.Cutoff.Auto()) {
		q := a.cfg.CutoffQuantile
		if flags.Changed("quantile") {
			q, _ = flags.GetFloat64("quantile")
		}
		opts.Cutoff = chunker.AutoCutoff(q)
	}
	if noRefine, _ := flags.GetBool("no-refine"); noRefine {
		opts.Refine = false
	}
	if flags.Changed("metric") {
		s, _ := flags.GetString("metric")
		if opts.Metric, err = chunker.ParseMetric(s); err != nil {
			return chunker.Options{}, err
		}
	}
	if flags.Changed("lower") {
		opts.Lower, _ = flags.GetInt("lower")
	}
	if flags.Changed("upper") {
		opts.Upper, _ = flags.GetInt("upper")
	}
	if err := opts.Validate(); err != nil {
		return chunker.Options{}, err
	}
	return opts, nil
}

func versionOptions(lines, keepLegends bool) export.VersionOptions {
	opts := export.VersionOptions{Lines: lines}
	if !keepLegends {
		opts.Legends = amend.DefaultLegends()
	}
	return opts
}

func (a *app) chunk(cmd *cobra.Command, file, formatStr, out string) error {
	opts, err := a.chunkOptions(cmd)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	res, err := a.run(file, pipeline.JobOptions{Chunk: opts})
	if err != nil {
		return err
	}
	a.log.Info("chunked document", "doc", file, "tokens", len(res.Result.Tokens),
		"chunks", len(res.Result.Chunks), "cutoff", res.Result.Cutoff)

	return writeTo(cmd.OutOrStdout(), out, func(w io.Writer) error {
		return export.Write(w, format, res.Document.Title, res.Result)
	})
}

func (a *app) versions(cmd *cobra.Command, file, dir string, scoped bool, vopts export.VersionOptions) error {
	opts, err := a.chunkOptions(cmd)
	if err != nil {
		return err
	}
	res, err := a.run(file, pipeline.JobOptions{Chunk: opts, Versions: true, Scoped: scoped})
	if err != nil {
		return err
	}
	paths, err := export.WriteVersions(dir, export.Stem(file), *res.Readings, vopts)
	if err != nil {
		return err
	}
	a.log.Info("wrote versions", "doc", file, "region_start", res.Readings.Region.Start,
		"region_end", res.Readings.Region.End, "old_tokens", len(res.Readings.Old), "new_tokens", len(res.Readings.New))
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func (a *app) batch(cmd *cobra.Command, dir string) error {
	opts, err := a.chunkOptions(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	out, _ := flags.GetString("out")
	formatStr, _ := flags.GetString("format")
	workers, _ := flags.GetInt("workers")
	withVersions, _ := flags.GetBool("versions")
	whole, _ := flags.GetBool("whole-document")
	lines, _ := flags.GetBool("lines")
	keepLegends, _ := flags.GetBool("keep-legends")
	asJSON, _ := flags.GetBool("json")

	format, err := export.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	files, err := pipeline.CollectFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported documents under %s", dir)
	}

	report, err := pipeline.RunBatch(cmd.Context(), a.proc, files, pipeline.BatchOptions{
		Job:      pipeline.JobOptions{Chunk: opts, Versions: withVersions, Scoped: !whole},
		Workers:  workers,
		OutDir:   out,
		Format:   format,
		Versions: versionOptions(lines, keepLegends),
	}, a.log)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, r := range report.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "FAIL  %s: %v\n", r.File, r.Err)
			continue
		}
		fmt.Fprintf(w, "ok    %s: %d chunks (cutoff %g)\n", r.File, r.Chunks, r.Cutoff)
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed in %s\n", report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))
	return nil
}

func (a *app) run(file string, opts pipeline.JobOptions) (*pipeline.Output, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return a.proc.Run(file, data, opts)
}

// writeTo writes to path, or to stdout when path is empty.
func writeTo(stdout io.Writer, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
