package view

import (
	"toheoje/internal/aggregate"
	"toheoje/internal/core"
)

// DefaultPanelLimit caps the new-records panel.
const DefaultPanelLimit = 50

type (
	// Panel is the latest collection batch, most recent permits first.
	Panel struct {
		CollectedDate  string `json:"collectedDate"`
		CollectedLabel string `json:"collectedLabel"`
		Total          int    `json:"total"`
		Rows           []Row  `json:"rows"`
		Remaining      int    `json:"remaining"`
	}

	// Card is one of the headline figures.
	Card struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// Point is one labelled value of a chart series.
	Point struct {
		Key   string `json:"key"`
		Label string `json:"label"`
		Count int    `json:"count"`
	}

	// Dashboard is the landing view over the whole dataset.
	Dashboard struct {
		Summary         aggregate.GlobalSummary `json:"summary"`
		ApprovalRate    string                  `json:"approvalRate"`
		Cards           []Card                  `json:"cards"`
		Districts       []Point                 `json:"districts"`
		Monthly         []Point                 `json:"monthly"`
		LatestCollected string                  `json:"latestCollected"`
		NewCount        int                     `json:"newCount"`
	}

	// DistrictView is the detail section for the selected district.
	DistrictView struct {
		State        State                     `json:"state"`
		Summary      aggregate.DistrictSummary `json:"summary"`
		ApprovalRate string                    `json:"approvalRate"`
		Groups       []GroupRow                `json:"groups,omitempty"`
		Rows         []Row                     `json:"rows,omitempty"`
	}
)

// NewPanel builds the new-records panel. A non-positive limit means the
// default.
func NewPanel(records []core.Record, latestCollected string, limit int) Panel {
	if limit <= 0 {
		limit = DefaultPanelLimit
	}
	fresh := aggregate.SortByPermitDateDesc(aggregate.NewRecords(records, latestCollected))
	shown := fresh
	if len(shown) > limit {
		shown = shown[:limit]
	}
	return Panel{
		CollectedDate:  latestCollected,
		CollectedLabel: core.FormatDate(core.YMD(latestCollected)),
		Total:          len(fresh),
		Rows:           Rows(shown, latestCollected),
		Remaining:      len(fresh) - len(shown),
	}
}

// NewDashboard derives the landing view.
func NewDashboard(records []core.Record) Dashboard {
	s := aggregate.Global(records)
	latest := aggregate.LatestCollectedDate(records)

	d := Dashboard{
		Summary:         s,
		ApprovalRate:    core.FormatRate(s.Approved, s.Total),
		LatestCollected: latest,
		NewCount:        len(aggregate.NewRecords(records, latest)),
		Cards: []Card{
			{Label: "총 거래", Value: formatCount(s.Total)},
			{Label: "허가율", Value: core.FormatRate(s.Approved, s.Total) + "%"},
			{Label: "주거용", Value: formatCount(s.Residential)},
			{Label: "1위 자치구", Value: s.TopDistrict},
		},
		Districts: make([]Point, 0, len(s.SortedDistricts)),
	}
	for _, dc := range s.SortedDistricts {
		d.Districts = append(d.Districts, Point{Key: dc.District, Label: core.OrPlaceholder(dc.District), Count: dc.Count})
	}
	series := aggregate.MonthlySeries(records)
	d.Monthly = make([]Point, 0, len(series))
	for _, mc := range series {
		d.Monthly = append(d.Monthly, Point{Key: mc.Month, Label: core.FormatMonth(mc.Month), Count: mc.Count})
	}
	return d
}

// NewDistrictView derives the section for st. Only the rows of the current
// mode are filled, and nothing is filled without a selected district.
func NewDistrictView(records []core.Record, st State) DistrictView {
	v := DistrictView{State: st}
	if !st.Selected() {
		return v
	}
	latest := aggregate.LatestCollectedDate(records)
	v.Summary = aggregate.District(records, st.District)
	v.ApprovalRate = core.FormatRate(v.Summary.Approved, v.Summary.Total)

	subset := aggregate.FilterDistrict(records, st.District)
	if st.Mode == ModeList {
		v.Rows = ListRows(subset, latest)
	} else {
		v.Groups = GroupRows(aggregate.AddressGroups(subset, latest))
	}
	return v
}

// formatCount renders n with thousands separators and the 건 suffix.
func formatCount(n int) string {
	return core.FormatThousands(n) + "건"
}
