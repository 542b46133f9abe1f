// Package aggregate derives the dashboard views from the flat record list.
//
// Every function is pure: inputs are never modified, outputs are freshly
// allocated, and identical inputs always produce identical outputs. Sorting is
// stable so that ties keep the order in which keys were first encountered.
package aggregate

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"toheoje/internal/core"
)

type (
	// DistrictCount is one bar of the per-district chart.
	DistrictCount struct {
		District string `json:"district"`
		Count    int    `json:"count"`
	}

	// GlobalSummary covers the whole dataset.
	GlobalSummary struct {
		Total           int             `json:"total"`
		Approved        int             `json:"approved"`
		Residential     int             `json:"residential"`
		ApprovalRate    float64         `json:"approvalRate"`
		TopDistrict     string          `json:"topDistrict"`
		DistrictCounts  map[string]int  `json:"districtCounts"`
		SortedDistricts []DistrictCount `json:"sortedDistricts"`
	}

	// DistrictSummary covers the records of one district.
	DistrictSummary struct {
		District        string  `json:"district"`
		Total           int     `json:"total"`
		Approved        int     `json:"approved"`
		Residential     int     `json:"residential"`
		UniqueAddresses int     `json:"uniqueAddresses"`
		ApprovalRate    float64 `json:"approvalRate"`
	}

	// AddressGroup buckets a district's records sharing a normalized address.
	AddressGroup struct {
		Address      string        `json:"address"`
		Count        int           `json:"count"`
		Residential  int           `json:"residential"`
		LatestDate   string        `json:"latestDate"`
		BuildingName string        `json:"buildingName"`
		HasNew       bool          `json:"hasNew"`
		Items        []core.Record `json:"items"`
	}

	// MonthCount is one point of the monthly series, keyed YYYYMM.
	MonthCount struct {
		Month string `json:"month"`
		Count int    `json:"count"`
	}
)

// LatestCollectedDate returns the greatest non-empty collection date, or ""
// when no record carries one.
func LatestCollectedDate(records []core.Record) string {
	latest := ""
	for _, r := range records {
		if r.CollectedDate > latest {
			latest = r.CollectedDate
		}
	}
	return latest
}

// NewRecords returns the records of the given collection batch.
func NewRecords(records []core.Record, latestCollected string) []core.Record {
	out := []core.Record{}
	if latestCollected == "" {
		return out
	}
	for _, r := range records {
		if core.IsNew(r, latestCollected) {
			out = append(out, r)
		}
	}
	return out
}

// Global summarizes the whole dataset in a single pass.
func Global(records []core.Record) GlobalSummary {
	s := GlobalSummary{
		Total:          len(records),
		TopDistrict:    core.Placeholder,
		DistrictCounts: make(map[string]int),
	}
	var order []string
	for _, r := range records {
		if core.IsApproved(r) {
			s.Approved++
		}
		if core.IsResidential(r) {
			s.Residential++
		}
		if _, seen := s.DistrictCounts[r.District]; !seen {
			order = append(order, r.District)
		}
		s.DistrictCounts[r.District]++
	}

	s.SortedDistricts = make([]DistrictCount, 0, len(order))
	for _, d := range order {
		s.SortedDistricts = append(s.SortedDistricts, DistrictCount{District: d, Count: s.DistrictCounts[d]})
	}
	slices.SortStableFunc(s.SortedDistricts, func(a, b DistrictCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(s.SortedDistricts) > 0 {
		s.TopDistrict = core.OrPlaceholder(s.SortedDistricts[0].District)
	}
	s.ApprovalRate = Rate(s.Approved, s.Total)
	return s
}

// FilterDistrict returns the records of one district in input order.
func FilterDistrict(records []core.Record, district string) []core.Record {
	out := []core.Record{}
	for _, r := range records {
		if r.District == district {
			out = append(out, r)
		}
	}
	return out
}

// District summarizes one district. Addresses are counted after
// normalization, so all blank addresses count once.
func District(records []core.Record, district string) DistrictSummary {
	s := DistrictSummary{District: district}
	addresses := make(map[string]struct{})
	for _, r := range records {
		if r.District != district {
			continue
		}
		s.Total++
		if core.IsApproved(r) {
			s.Approved++
		}
		if core.IsResidential(r) {
			s.Residential++
		}
		addresses[NormalizeAddress(r.Address)] = struct{}{}
	}
	s.UniqueAddresses = len(addresses)
	s.ApprovalRate = Rate(s.Approved, s.Total)
	return s
}

// NormalizeAddress trims an address; blank addresses share the placeholder key.
func NormalizeAddress(address string) string {
	if a := strings.TrimSpace(address); a != "" {
		return a
	}
	return core.Placeholder
}

// AddressGroups buckets a district's records by normalized address, most
// populated first.
//
// LatestDate is the running string maximum of the permit dates. BuildingName
// is the first non-empty name met and is never overwritten afterwards.
func AddressGroups(districtRecords []core.Record, latestCollected string) []AddressGroup {
	groups := []AddressGroup{}
	index := make(map[string]int)
	for _, r := range districtRecords {
		key := NormalizeAddress(r.Address)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, AddressGroup{Address: key})
		}

		g := &groups[i]
		g.Count++
		g.Items = append(g.Items, r)
		if core.IsResidential(r) {
			g.Residential++
		}
		if d := r.PermitDate.String(); d > g.LatestDate {
			g.LatestDate = d
		}
		if g.BuildingName == "" && r.BuildingName != "" {
			g.BuildingName = r.BuildingName
		}
		if core.IsNew(r, latestCollected) {
			g.HasNew = true
		}
	}

	slices.SortStableFunc(groups, func(a, b AddressGroup) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return groups
}

// MonthKey returns the YYYYMM prefix of a permit date. Records without a date
// fall into the placeholder bucket, which sorts before every real month.
func MonthKey(d core.YMD) string {
	if d.IsZero() {
		return core.Placeholder
	}
	r := []rune(d.String())
	if len(r) > 6 {
		r = r[:6]
	}
	return string(r)
}

// MonthlySeries counts records per permit month in ascending month order.
func MonthlySeries(records []core.Record) []MonthCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[MonthKey(r.PermitDate)]++
	}
	out := make([]MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, MonthCount{Month: month, Count: n})
	}
	slices.SortFunc(out, func(a, b MonthCount) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}

// SortByPermitDateDesc returns a copy ordered most recent first. Dates are
// compared as strings; missing dates sort last and ties keep input order.
func SortByPermitDateDesc(records []core.Record) []core.Record {
	out := slices.Clone(records)
	if out == nil {
		out = []core.Record{}
	}
	slices.SortStableFunc(out, func(a, b core.Record) int {
		return strings.Compare(b.PermitDate.String(), a.PermitDate.String())
	})
	return out
}

// Rate is part/total as a percentage rounded to one decimal.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
