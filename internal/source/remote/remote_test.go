package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"toheoje/internal/core"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"자치구":"송파구","주소":"잠실동 5","허가일자":20250212,"처리결과":"허가","이용목적":"주거용"},null]`))
	}))
	defer srv.Close()

	records, err := New(srv.URL+"/data/land_contract_data.json", time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(records) != 1 || records[0].Address != "잠실동 5" {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadNotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Load(context.Background())
	var le *core.DataLoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error = %v, want DataLoadError", err)
	}
	if !errors.Is(err, core.ErrStatus) || le.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v (status %d)", err, le.StatusCode)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestLoadMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Load(context.Background())
	if !errors.Is(err, core.ErrDecode) {
		t.Errorf("Load() error = %v, want ErrDecode", err)
	}
}

func TestLoadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Load(context.Background())
	if !errors.Is(err, core.ErrFetch) {
		t.Errorf("Load() error = %v, want ErrFetch", err)
	}
}
