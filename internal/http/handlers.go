package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"toheoje/internal/aggregate"
	"toheoje/internal/cache"
	"toheoje/internal/core"
	"toheoje/internal/dataset"
	"toheoje/internal/export"
	"toheoje/internal/log"
	"toheoje/internal/view"
)

type statusResponse struct {
	State       dataset.State `json:"state"`
	Loading     bool          `json:"loading"`
	Records     int           `json:"records"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Source      string        `json:"source,omitempty"`
	LoadedAt    *time.Time    `json:"loadedAt,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.data.Snapshot().Loading() {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterLoading))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.data.Snapshot()
	resp := statusResponse{
		State:       snap.State,
		Loading:     snap.Loading(),
		Records:     len(snap.Records),
		Fingerprint: snap.Fingerprint,
		Source:      snap.Source,
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt.UTC()
		resp.LoadedAt = &loadedAt
	}
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// snapshot returns the loaded dataset, or answers 503 and false while it is
// still loading.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (dataset.Snapshot, bool) {
	snap := s.data.Snapshot()
	if snap.Loading() {
		writeUnavailable(w, r)
		return snap, false
	}
	return snap, true
}

func (s *Server) dashboard(snap dataset.Snapshot) view.Dashboard {
	return s.dashboards.Value(cache.Key("dashboard", snap.Fingerprint), func() view.Dashboard {
		return view.NewDashboard(snap.Records)
	})
}

func (s *Server) addressGroups(snap dataset.Snapshot, district string) []aggregate.AddressGroup {
	return s.groups.Value(cache.Key("groups", snap.Fingerprint, district), func() []aggregate.AddressGroup {
		latest := s.dashboard(snap).LatestCollected
		return aggregate.AddressGroups(aggregate.FilterDistrict(snap.Records, district), latest)
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, s.dashboard(snap))
}

func (s *Server) handleNewRecords(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	limit, err := ParseLimit(r.URL.Query(), s.panelLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	panel := s.panels.Value(cache.Key("new", snap.Fingerprint, strconv.Itoa(limit)), func() view.Panel {
		return view.NewPanel(snap.Records, s.dashboard(snap).LatestCollected, limit)
	})
	writeJSON(w, r, http.StatusOK, panel)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, s.dashboard(snap).Monthly)
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, s.dashboard(snap).Summary.SortedDistricts)
}

// district resolves the path district. Names outside the 25 districts are
// accepted only when the dataset carries them.
func (s *Server) district(w http.ResponseWriter, r *http.Request, snap dataset.Snapshot) (view.State, bool) {
	st := ParseState(r)
	if core.IsDistrict(st.District) || s.dashboard(snap).Summary.DistrictCounts[st.District] > 0 {
		return st, true
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Unknown district requested",
		log.FieldDistrict, st.District)
	writeError(w, r, http.StatusNotFound, "unknown district: "+st.District)
	return st, false
}

func (s *Server) handleDistrict(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	st, ok := s.district(w, r, snap)
	if !ok {
		return
	}
	v := s.districts.Value(cache.Key("district", snap.Fingerprint, st.District, string(st.Mode)), func() view.DistrictView {
		return view.NewDistrictView(snap.Records, st)
	})
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleGroupDetail(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	st, ok := s.district(w, r, snap)
	if !ok {
		return
	}

	address := sanitizeInput(r.URL.Query().Get("address"))
	group, err := view.FindGroup(s.addressGroups(snap, st.District), address)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "no transactions at address: "+core.OrPlaceholder(address))
		return
	}
	detail, err := view.NewDetail(group, s.dashboard(snap).LatestCollected)
	switch {
	case errors.Is(err, view.ErrNotDrillable):
		writeError(w, r, http.StatusConflict, "address has a single transaction")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	st, ok := s.district(w, r, snap)
	if !ok {
		return
	}
	latest := s.dashboard(snap).LatestCollected

	body, err := s.exports.Do(cache.Key("export", snap.Fingerprint, st.District), func() ([]byte, error) {
		v := view.NewDistrictView(snap.Records, st)
		groups := view.GroupRows(s.addressGroups(snap, st.District))
		rows := view.ListRows(aggregate.FilterDistrict(snap.Records, st.District), latest)
		return export.District(v, groups, rows)
	})
	if err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Workbook export failed", err, log.OpExport,
			log.NewFields().WithDataset(snap.Source, len(snap.Records), snap.Fingerprint))
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	filename := export.Filename(st.District, latest)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		`attachment; filename="toheoje.xlsx"; filename*=UTF-8''`+url.PathEscape(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) onExportLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Export rate limit exceeded",
		log.FieldClientIP, s.ips.ClientIP(r), log.FieldPath, r.URL.Path)
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
}

func (s *Server) handleRawData(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, snap.Records)
}

func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.site.Metadata())
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.site.Sitemap(s.now())
	if err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Sitemap rendering failed", err, log.OpRender, nil)
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
