package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"toheoje/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{DataBackend: "remote", DataURL: "https://example.com/d.json", LoadTimeout: 5 * time.Second}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != RemoteBackend || cfg.DataURL != app.DataURL || cfg.LoadTimeout != 5*time.Second {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "memory"}); err == nil {
		t.Error("expected invalid backend error")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected nil config error")
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		config   Config
		wantName string
		cleanup  bool
	}{
		{"file", Config{Type: FileBackend, DataFile: "data.json"}, "file:data.json", false},
		{"remote", Config{Type: RemoteBackend, DataURL: "http://localhost/d.json"}, "remote:http://localhost/d.json", false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "t.db")}, "sqlite:" + filepath.Join(dir, "t.db"), true},
	}
	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.Create(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			defer res.Close()
			if res.Source.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", res.Source.Name(), tt.wantName)
			}
			if (res.Cleanup != nil) != tt.cleanup {
				t.Errorf("cleanup present = %v, want %v", res.Cleanup != nil, tt.cleanup)
			}
		})
	}
}

func TestCreateRejectsIncompleteConfig(t *testing.T) {
	f := NewFactory(nil)
	for _, cfg := range []Config{
		{Type: "memory"},
		{Type: FileBackend},
		{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleSheetName: "s"},
	} {
		if _, err := f.Create(context.Background(), cfg); err == nil {
			t.Errorf("Create(%+v) succeeded", cfg)
		}
	}
}

func TestTypes(t *testing.T) {
	var names []string
	for _, bt := range Types() {
		if !bt.IsValid() {
			t.Errorf("%s is not valid", bt)
		}
		names = append(names, bt.String())
	}
	if strings.Join(names, ",") != strings.Join(config.Backends, ",") {
		t.Errorf("backend types %v differ from config %v", names, config.Backends)
	}
}
