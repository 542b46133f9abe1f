package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"toheoje/internal/core"
	"toheoje/internal/dataset"
	"toheoje/internal/export"
	"toheoje/internal/view"
)

type fakeData struct{ snap dataset.Snapshot }

func (f *fakeData) Snapshot() dataset.Snapshot { return f.snap }

func fixture() []core.Record {
	return []core.Record{
		{District: "강남구", Address: "대치동 1", PermitDate: "20251001", Outcome: "허가", Purpose: "주거용", BuildingName: "은마", CollectedDate: "20251015"},
		{District: "강남구", Address: "대치동 1", PermitDate: "20250910", Outcome: "허가", Purpose: "주거용", BuildingName: "은마", CollectedDate: "20251008"},
		{District: "강남구", Address: "삼성동 5", PermitDate: "20250902", Outcome: "불허가", Purpose: "상업용", CollectedDate: "20251008"},
		{District: "송파구", Address: "잠실동 3", PermitDate: "20251002", Outcome: "허가", Purpose: "주거용", CollectedDate: "20251015"},
	}
}

func ready(records []core.Record) *fakeData {
	return &fakeData{snap: dataset.Snapshot{
		State:       dataset.StateReady,
		Records:     records,
		Fingerprint: dataset.Fingerprint(records),
		Source:      "test",
		LoadedAt:    time.Date(2025, 10, 15, 1, 0, 0, 0, time.UTC),
	}}
}

func newTestServer(t *testing.T, data Snapshotter, opts Options) *Server {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC) }
	}
	srv := NewServer(data, opts)
	t.Cleanup(func() {
		srv.caches.Stop()
		srv.exportLimiter.Stop()
	})
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	data := &fakeData{snap: dataset.Snapshot{State: dataset.StateLoading}}
	srv := newTestServer(t, data, Options{})

	if rec := get(t, srv, "/healthz"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, srv, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz while loading = %d", rec.Code)
	}
	data.snap = ready(fixture()).snap
	if rec := get(t, srv, "/readyz"); rec.Code != http.StatusOK || rec.Body.String() != "ready" {
		t.Fatalf("readyz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestLoadingAnswersUnavailable(t *testing.T) {
	srv := newTestServer(t, &fakeData{snap: dataset.Snapshot{State: dataset.StateLoading}}, Options{})

	for _, path := range []string{"/api/dashboard", "/api/new", "/api/monthly", "/api/districts", "/api/districts/" + url.PathEscape("강남구"), "/data/land_contract_data.json"} {
		rec := get(t, srv, path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d, want 503", path, rec.Code)
			continue
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Errorf("%s missing Retry-After", path)
		}
		if body := decode[errorBody](t, rec); body.Error == "" {
			t.Errorf("%s error body empty", path)
		}
	}

	status := decode[statusResponse](t, get(t, srv, "/api/status"))
	if !status.Loading || status.State != dataset.StateLoading {
		t.Errorf("status = %+v", status)
	}
}

func TestFailedLoadServesEmptyViews(t *testing.T) {
	loadErr := core.NewLoadError("remote", core.ErrStatus, errors.New("404"))
	srv := newTestServer(t, &fakeData{snap: dataset.Snapshot{State: dataset.StateFailed, Records: []core.Record{}, Err: loadErr}}, Options{})

	rec := get(t, srv, "/api/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	d := decode[view.Dashboard](t, rec)
	if d.Summary.Total != 0 || d.Summary.TopDistrict != "-" || d.ApprovalRate != "0" {
		t.Errorf("dashboard = %+v", d)
	}

	status := decode[statusResponse](t, get(t, srv, "/api/status"))
	if status.Loading || status.State != dataset.StateFailed || !strings.Contains(status.Error, "unexpected response status") {
		t.Errorf("status = %+v", status)
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})

	rec := get(t, srv, "/api/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	d := decode[view.Dashboard](t, rec)
	if d.Summary.Total != 4 || d.Summary.Approved != 3 || d.Summary.TopDistrict != "강남구" {
		t.Errorf("summary = %+v", d.Summary)
	}
	if d.ApprovalRate != "75.0" || d.LatestCollected != "20251015" || d.NewCount != 2 {
		t.Errorf("dashboard = %+v", d)
	}
}

func TestDistrictsAndMonthly(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})

	type districtCount struct {
		District string `json:"district"`
		Count    int    `json:"count"`
	}
	districts := decode[[]districtCount](t, get(t, srv, "/api/districts"))
	if len(districts) != 2 || districts[0].District != "강남구" || districts[0].Count != 3 {
		t.Errorf("districts = %+v", districts)
	}

	monthly := decode[[]view.Point](t, get(t, srv, "/api/monthly"))
	if len(monthly) != 2 || monthly[0].Key != "202509" || monthly[1].Count != 2 {
		t.Errorf("monthly = %+v", monthly)
	}
}

func TestNewRecordsPanel(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})

	panel := decode[view.Panel](t, get(t, srv, "/api/new?limit=1"))
	if panel.Total != 2 || len(panel.Rows) != 1 || panel.Remaining != 1 {
		t.Errorf("panel = %+v", panel)
	}
	if panel.Rows[0].Address != "잠실동 3" {
		t.Errorf("first row = %+v, want most recent permit first", panel.Rows[0])
	}

	for _, bad := range []string{"0", "-3", "abc"} {
		if rec := get(t, srv, "/api/new?limit="+bad); rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s = %d, want 400", bad, rec.Code)
		}
	}
}

func TestDistrictView(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})

	grouped := decode[view.DistrictView](t, get(t, srv, "/api/districts/"+url.PathEscape("강남구")))
	if grouped.State.Mode != view.ModeGrouped || len(grouped.Groups) != 2 || len(grouped.Rows) != 0 {
		t.Errorf("grouped view = %+v", grouped)
	}
	if grouped.Summary.Total != 3 || grouped.Summary.UniqueAddresses != 2 {
		t.Errorf("summary = %+v", grouped.Summary)
	}
	if !grouped.Groups[0].Drillable || grouped.Groups[1].Drillable {
		t.Errorf("drillable flags = %v %v", grouped.Groups[0].Drillable, grouped.Groups[1].Drillable)
	}

	list := decode[view.DistrictView](t, get(t, srv, "/api/districts/"+url.PathEscape("강남구")+"?view=list"))
	if list.State.Mode != view.ModeList || len(list.Rows) != 3 || len(list.Groups) != 0 {
		t.Errorf("list view = %+v", list)
	}

	// A district with no records is still a valid, empty view.
	empty := get(t, srv, "/api/districts/"+url.PathEscape("중구"))
	if empty.Code != http.StatusOK {
		t.Fatalf("empty district = %d", empty.Code)
	}
	if v := decode[view.DistrictView](t, empty); v.Summary.Total != 0 || v.ApprovalRate != "0" {
		t.Errorf("empty district = %+v", v)
	}

	unknown := get(t, srv, "/api/districts/nowhere")
	if unknown.Code != http.StatusNotFound {
		t.Fatalf("unknown district = %d", unknown.Code)
	}
	if body := decode[errorBody](t, unknown); !strings.Contains(body.Error, "unknown district") {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGroupDetail(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})
	base := "/api/districts/" + url.PathEscape("강남구") + "/groups/detail?"

	rec := get(t, srv, base+url.Values{"address": {"대치동 1"}}.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("detail = %d %s", rec.Code, rec.Body.String())
	}
	d := decode[view.Detail](t, rec)
	if d.Title != "대치동 1 (은마)" || d.Count != 2 || d.Rows[0].PermitDate != "25.10.01" {
		t.Errorf("detail = %+v", d)
	}

	if rec := get(t, srv, base+url.Values{"address": {"삼성동 5"}}.Encode()); rec.Code != http.StatusConflict {
		t.Errorf("singleton detail = %d, want 409", rec.Code)
	}
	if rec := get(t, srv, base+url.Values{"address": {"없는동 9"}}.Encode()); rec.Code != http.StatusNotFound {
		t.Errorf("absent detail = %d, want 404", rec.Code)
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{ExportRatePerMinute: 1})
	path := "/api/districts/" + url.PathEscape("강남구") + "/export.xlsx"

	rec := get(t, srv, path)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != export.ContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "filename*=UTF-8''"+url.PathEscape(export.Filename("강남구", "20251015"))) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("body is not a zip container")
	}

	limited := get(t, srv, path)
	if limited.Code != http.StatusTooManyRequests || limited.Header().Get("Retry-After") == "" {
		t.Errorf("second export = %d, Retry-After %q", limited.Code, limited.Header().Get("Retry-After"))
	}
}

func TestRawData(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})
	rec := get(t, srv, "/data/land_contract_data.json")
	records, err := core.DecodeRecords(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 || records[0].PermitDate != "20251001" {
		t.Errorf("records = %+v", records)
	}
}

func TestSiteAndSitemap(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})

	rec := get(t, srv, "/api/site")
	if rec.Code != http.StatusOK || rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("site = %d, Cache-Control %q", rec.Code, rec.Header().Get("Cache-Control"))
	}
	var meta struct {
		Canonical string `json:"canonical"`
		JSONLD    struct {
			Type string `json:"@type"`
		} `json:"jsonLd"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Canonical != "https://toheoje-dashboard.vercel.app" || meta.JSONLD.Type != "WebSite" {
		t.Errorf("metadata = %+v", meta)
	}

	sm := get(t, srv, "/sitemap.xml")
	if !strings.HasPrefix(sm.Header().Get("Content-Type"), "application/xml") {
		t.Errorf("sitemap Content-Type = %q", sm.Header().Get("Content-Type"))
	}
	if !strings.Contains(sm.Body.String(), "<lastmod>2025-10-15T09:30:00Z</lastmod>") {
		t.Errorf("sitemap = %s", sm.Body.String())
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})
	rec := get(t, srv, "/api/status")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if !strings.HasPrefix(rec.Header().Get("X-Request-ID"), "req_") {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, ready(fixture()), Options{})
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST = %d, want 405", rec.Code)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	srv := NewServer(ready(nil), Options{})
	ctx := t.Context()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
}
