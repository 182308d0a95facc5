package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "doc", "a.html")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"doc":"a.html"`) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "DEBUG", "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Debug("detail")
	if !strings.Contains(buf.String(), "msg=detail") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
