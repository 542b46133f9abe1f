package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewJSONCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentDataset, Output: &buf})
	l.Info("loaded", FieldRecords, 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line[FieldComponent] != ComponentDataset || line["msg"] != "loaded" || line[FieldRecords] != float64(3) {
		t.Errorf("line = %v", line)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: ParseLevel("warn"), Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})
	l.LogError(context.Background(), "load failed", errors.New("boom"), OpLoad, NewFields().WithDataset("file:x.json", 0, ""))
	out := buf.String()
	for _, want := range []string{"error=boom", "operation=load", "source=file:x.json", "records=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestToSliceSorted(t *testing.T) {
	got := NewFields().WithOperation("x").WithClientIP("1.2.3.4").ToSlice()
	if len(got) != 4 || got[0] != FieldClientIP || got[2] != FieldOperation {
		t.Errorf("ToSlice() = %v", got)
	}
}

func TestMiddlewareStoresLogger(t *testing.T) {
	l := Discard().WithComponent(ComponentHTTP)
	var seen *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != l {
		t.Errorf("FromContext() did not return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Errorf("FromContext() without logger returned nil")
	}
}
