package view

import (
	"errors"

	"toheoje/internal/aggregate"
	"toheoje/internal/core"
)

var (
	ErrNotDrillable  = errors.New("address group has a single record")
	ErrGroupNotFound = errors.New("address group not found")
)

// Severity marks busy addresses in the grouped table.
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityOf grades a group by its record count.
func SeverityOf(count int) Severity {
	switch {
	case count >= 10:
		return SeverityHigh
	case count >= 5:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

type (
	// Row is one record as displayed in a list.
	Row struct {
		No           int    `json:"no"`
		District     string `json:"district"`
		Address      string `json:"address"`
		BuildingName string `json:"buildingName"`
		HasBuilding  bool   `json:"hasBuilding"`
		PermitDate   string `json:"permitDate"`
		Outcome      string `json:"outcome"`
		Approved     bool   `json:"approved"`
		Purpose      string `json:"purpose"`
		IsNew        bool   `json:"isNew"`
	}

	// GroupRow is one address group as displayed in the grouped table.
	GroupRow struct {
		No           int      `json:"no"`
		Address      string   `json:"address"`
		BuildingName string   `json:"buildingName"`
		HasBuilding  bool     `json:"hasBuilding"`
		Count        int      `json:"count"`
		Severity     Severity `json:"severity,omitempty"`
		LatestDate   string   `json:"latestDate"`
		Residential  int      `json:"residential"`
		HasNew       bool     `json:"hasNew"`
		Drillable    bool     `json:"drillable"`
	}

	// Detail lists every transaction at one address, most recent first.
	Detail struct {
		Title   string `json:"title"`
		Address string `json:"address"`
		Count   int    `json:"count"`
		Rows    []Row  `json:"rows"`
	}
)

// NewRow projects r as the no-th row of a list.
func NewRow(no int, r core.Record, latestCollected string) Row {
	return Row{
		No:           no,
		District:     core.OrPlaceholder(r.District),
		Address:      core.OrPlaceholder(r.Address),
		BuildingName: core.OrPlaceholder(r.BuildingName),
		HasBuilding:  r.BuildingName != "",
		PermitDate:   core.FormatDate(r.PermitDate),
		Outcome:      core.OrPlaceholder(r.Outcome),
		Approved:     core.IsApproved(r),
		Purpose:      core.OrPlaceholder(r.Purpose),
		IsNew:        core.IsNew(r, latestCollected),
	}
}

// Rows numbers records from 1 in the given order.
func Rows(records []core.Record, latestCollected string) []Row {
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		rows = append(rows, NewRow(i+1, r, latestCollected))
	}
	return rows
}

// ListRows is the list mode of a district: its records, most recent first.
func ListRows(districtRecords []core.Record, latestCollected string) []Row {
	return Rows(aggregate.SortByPermitDateDesc(districtRecords), latestCollected)
}

// GroupRows ranks groups in the order given.
func GroupRows(groups []aggregate.AddressGroup) []GroupRow {
	rows := make([]GroupRow, 0, len(groups))
	for i, g := range groups {
		rows = append(rows, GroupRow{
			No:           i + 1,
			Address:      g.Address,
			BuildingName: core.OrPlaceholder(g.BuildingName),
			HasBuilding:  g.BuildingName != "",
			Count:        g.Count,
			Severity:     SeverityOf(g.Count),
			LatestDate:   core.FormatDate(core.YMD(g.LatestDate)),
			Residential:  g.Residential,
			HasNew:       g.HasNew,
			Drillable:    g.Count > 1,
		})
	}
	return rows
}

// FindGroup looks a group up by address. The address is normalized first, so
// a blank query finds the placeholder group.
func FindGroup(groups []aggregate.AddressGroup, address string) (aggregate.AddressGroup, error) {
	key := aggregate.NormalizeAddress(address)
	for _, g := range groups {
		if g.Address == key {
			return g, nil
		}
	}
	return aggregate.AddressGroup{}, ErrGroupNotFound
}

// NewDetail opens the drill-down of a group. The title carries the building
// name of the group's first record when it has one.
func NewDetail(g aggregate.AddressGroup, latestCollected string) (Detail, error) {
	if g.Count <= 1 {
		return Detail{}, ErrNotDrillable
	}
	title := g.Address
	if len(g.Items) > 0 && g.Items[0].BuildingName != "" {
		title += " (" + g.Items[0].BuildingName + ")"
	}
	return Detail{
		Title:   title,
		Address: g.Address,
		Count:   len(g.Items),
		Rows:    ListRows(g.Items, latestCollected),
	}, nil
}
