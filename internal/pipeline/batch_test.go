package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/stylechunk/internal/export"
	"github.com/dgallion1/stylechunk/internal/styled"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRunBatch_SkipsFailures(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	files := []string{
		writeFile(t, in, "a.csv", sampleCSV),
		writeFile(t, in, "empty.csv", "text_content\n"),
		writeFile(t, in, "b.csv", sampleCSV),
	}

	report, err := RunBatch(context.Background(), testProcessor(), files, BatchOptions{
		Job:      testOptions(),
		Workers:  2,
		OutDir:   out,
		Versions: export.VersionOptions{Lines: true},
	}, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("expected 2 ok / 1 failed, got %d / %d", report.Succeeded, report.Failed)
	}
	for i, r := range report.Results {
		if r.Index != i || r.File != files[i] {
			t.Errorf("result %d out of order: %+v", i, r)
		}
	}
	if !errors.Is(report.Results[1].Err, styled.ErrInput) {
		t.Errorf("expected ErrInput for empty document, got %v", report.Results[1].Err)
	}
	if report.Results[0].Chunks != 2 {
		t.Errorf("expected 2 chunks, got %d", report.Results[0].Chunks)
	}

	for _, name := range []string{"a.txt", "a_old.txt", "a_new.txt", "b.txt"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected output %s: %v", name, err)
		}
	}
	chunks, err := os.ReadFile(filepath.Join(out, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(chunks), "Chunk 1\nTitle") {
		t.Errorf("unexpected chunk export %q", chunks)
	}
	oldText, err := os.ReadFile(filepath.Join(out, "a_old.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(oldText), "Added words") {
		t.Errorf("old version kept inserted text: %q", oldText)
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	in := t.TempDir()
	files := []string{writeFile(t, in, "a.csv", sampleCSV)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunBatch(ctx, testProcessor(), files, BatchOptions{Job: testOptions()}, discardLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.html", "<p>x</p>")
	writeFile(t, dir, "a.csv", sampleCSV)
	writeFile(t, dir, "skip.bin", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub"), "c.md", "# c")

	files, err := CollectFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.html"),
		filepath.Join(dir, "sub", "c.md"),
	}
	if strings.Join(files, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, files)
	}
}
