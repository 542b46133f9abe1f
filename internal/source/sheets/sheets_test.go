package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goption "google.golang.org/api/option"

	"toheoje/internal/core"
)

func fakeSheets(t *testing.T, status int, body string) *Source {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/values/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("valueRenderOption"); got != "UNFORMATTED_VALUE" {
			t.Errorf("valueRenderOption = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	s, err := New(context.Background(),
		Config{SpreadsheetID: "sheet-id", SheetName: "토지거래허가"},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	s := fakeSheets(t, http.StatusOK, `{"range":"'토지거래허가'!A1:G3","majorDimension":"ROWS","values":[["자치구","주소","허가일자"],["강남구","역삼동 1",20251015],["중구","명동 2",""]]}`)
	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 2 || records[0].PermitDate != "20251015" || records[1].PermitDate != "" {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadAPIError(t *testing.T) {
	s := fakeSheets(t, http.StatusNotFound, `{"error":{"code":404,"message":"Requested entity was not found.","status":"NOT_FOUND"}}`)
	_, err := s.Load(context.Background())
	var le *core.DataLoadError
	if !errors.As(err, &le) || !errors.Is(err, core.ErrStatus) || le.StatusCode != http.StatusNotFound {
		t.Errorf("Load() error = %v, want status DataLoadError", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(context.Background(), Config{SpreadsheetID: "x", SheetName: "y"}); err == nil {
		t.Error("expected missing credentials error")
	}
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Error("expected missing spreadsheet id error")
	}
}
