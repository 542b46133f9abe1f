// Package report renders the dashboard views as plain text for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"toheoje/internal/core"
	"toheoje/internal/view"
)

const (
	// DefaultWidth is used when the output is not a terminal.
	DefaultWidth = 100

	minWidth        = 60
	minAddressCells = 16
	maxBarCells     = 30
)

// Report writes sections to w. The first write error sticks and is returned
// by every later section.
type Report struct {
	w     io.Writer
	width int
	err   error
}

// New returns a report laid out for width cells. Widths below the minimum
// are raised to it.
func New(w io.Writer, width int) *Report {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Report{w: w, width: max(width, minWidth)}
}

func (r *Report) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Report) line(cells ...string) {
	r.printf("%s\n", strings.TrimRight(strings.Join(cells, " "), " "))
}

func (r *Report) rule() {
	r.printf("%s\n", strings.Repeat("─", r.width))
}

func (r *Report) heading(title string) {
	r.printf("\n%s\n", title)
	r.rule()
}

// Dashboard writes the header, the summary cards and both chart series.
func (r *Report) Dashboard(d view.Dashboard) error {
	r.printf("서울시 토지거래허가 현황\n")
	r.printf("최근 수집일 %s · 신규 %s건\n", core.FormatDate(core.YMD(d.LatestCollected)), core.FormatThousands(d.NewCount))
	r.rule()
	for _, c := range d.Cards {
		r.line(PadRight(c.Label, 12), c.Value)
	}

	r.heading("자치구별 거래")
	r.series(d.Districts)

	r.heading("월별 추이")
	r.series(d.Monthly)
	return r.err
}

func (r *Report) series(points []view.Point) {
	if len(points) == 0 {
		r.line(core.Placeholder)
		return
	}
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Count)
	}
	for _, p := range points {
		r.line(PadRight(p.Label, 10), PadLeft(core.FormatThousands(p.Count), 8), bar(p.Count, peak))
	}
}

func bar(n, peak int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	cells := n * maxBarCells / peak
	return strings.Repeat("█", max(cells, 1))
}

// Panel writes the latest collection batch.
func (r *Report) Panel(p view.Panel) error {
	r.heading(fmt.Sprintf("신규 거래 (%s 수집) %s건", p.CollectedLabel, core.FormatThousands(p.Total)))
	if len(p.Rows) == 0 {
		r.line("신규 거래가 없습니다")
		return r.err
	}
	r.rows(p.Rows, true)
	if p.Remaining > 0 {
		r.line(fmt.Sprintf("… 외 %s건", core.FormatThousands(p.Remaining)))
	}
	return r.err
}

// District writes the summary of the selected district and the table of its
// current mode.
func (r *Report) District(v view.DistrictView) error {
	if !v.State.Selected() {
		return r.err
	}
	s := v.Summary
	r.heading(fmt.Sprintf("%s · %s", s.District, modeLabel(v.State.Mode)))
	r.line(fmt.Sprintf("총 %s건 · 허가 %s건 (%s%%) · 주거용 %s건 · 주소 %s곳",
		core.FormatThousands(s.Total), core.FormatThousands(s.Approved), v.ApprovalRate,
		core.FormatThousands(s.Residential), core.FormatThousands(s.UniqueAddresses)))
	r.rule()

	if v.State.Mode == view.ModeList {
		if len(v.Rows) == 0 {
			r.line(core.Placeholder)
			return r.err
		}
		r.rows(v.Rows, false)
		return r.err
	}
	if len(v.Groups) == 0 {
		r.line(core.Placeholder)
		return r.err
	}
	r.groups(v.Groups)
	return r.err
}

// Detail writes the transactions at one address.
func (r *Report) Detail(d view.Detail) error {
	r.heading(fmt.Sprintf("%s · %s건", d.Title, core.FormatThousands(d.Count)))
	r.rows(d.Rows, false)
	return r.err
}

func modeLabel(m view.Mode) string {
	if m == view.ModeList {
		return "전체 목록"
	}
	return "주소별 집계"
}

// addressCells gives the address column what the fixed columns leave over.
func (r *Report) addressCells(fixed int) int {
	return max(r.width-fixed, minAddressCells)
}

func (r *Report) rows(rows []view.Row, withDistrict bool) {
	const building, date, outcome, purpose = 14, 8, 6, 8
	fixed := 5 + building + date + outcome + purpose + 4 + 6
	if withDistrict {
		fixed += 9
	}
	address := r.addressCells(fixed)

	header := []string{PadLeft("No", 4)}
	if withDistrict {
		header = append(header, PadRight("자치구", 8))
	}
	header = append(header, PadRight("주소", address), PadRight("건물명", building),
		PadRight("허가일", date), PadRight("결과", outcome), PadRight("목적", purpose), "신규")
	r.line(header...)

	for _, row := range rows {
		cells := []string{PadLeft(fmt.Sprint(row.No), 4)}
		if withDistrict {
			cells = append(cells, PadRight(row.District, 8))
		}
		cells = append(cells, PadRight(row.Address, address), PadRight(row.BuildingName, building),
			PadRight(row.PermitDate, date), PadRight(row.Outcome, outcome), PadRight(row.Purpose, purpose), newMark(row.IsNew))
		r.line(cells...)
	}
}

func (r *Report) groups(groups []view.GroupRow) {
	const building, count, date, residential = 14, 8, 8, 6
	address := r.addressCells(5 + building + count + date + residential + 5 + 6)

	r.line(PadLeft("순위", 4), PadRight("주소", address), PadRight("건물명", building),
		PadLeft("건수", count), PadRight("최근거래", date), PadLeft("주거용", residential), "신규")
	for _, g := range groups {
		res := core.Placeholder
		if g.Residential > 0 {
			res = fmt.Sprint(g.Residential)
		}
		r.line(PadLeft(fmt.Sprint(g.No), 4), PadRight(g.Address, address), PadRight(g.BuildingName, building),
			PadLeft(fmt.Sprintf("%s%d건", severityMark(g.Severity), g.Count), count),
			PadRight(g.LatestDate, date), PadLeft(res, residential), newMark(g.HasNew))
	}
}

func severityMark(s view.Severity) string {
	switch s {
	case view.SeverityHigh:
		return "!!"
	case view.SeverityMedium:
		return "!"
	default:
		return ""
	}
}

func newMark(isNew bool) string {
	if isNew {
		return "NEW"
	}
	return ""
}
