// Package export writes a district's views as an XLSX workbook.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"toheoje/internal/view"
)

const (
	SheetGrouped = "주소별 집계"
	SheetList    = "전체 목록"

	// ContentType is the media type of the workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	groupedHeaders = []string{"순위", "주소", "건물명", "거래건수", "최근거래", "주거용", "신규"}
	groupedWidths  = []float64{8, 40, 24, 10, 12, 10, 8}
	listHeaders    = []string{"No", "자치구", "주소", "건물명", "허가일", "결과", "목적", "신규"}
	listWidths     = []float64{8, 10, 40, 24, 12, 10, 12, 8}
)

// District renders the grouped and list views of one district. The workbook
// is returned as bytes.
func District(v view.DistrictView, groups []view.GroupRow, rows []view.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetGrouped); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetList); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	grouped := make([][]any, 0, len(groups))
	for _, g := range groups {
		grouped = append(grouped, []any{g.No, g.Address, g.BuildingName, g.Count, g.LatestDate, residential(g.Residential), flag(g.HasNew)})
	}
	if err := writeSheet(f, SheetGrouped, groupedHeaders, groupedWidths, headerStyle, grouped); err != nil {
		return nil, err
	}

	list := make([][]any, 0, len(rows))
	for _, r := range rows {
		list = append(list, []any{r.No, r.District, r.Address, r.BuildingName, r.PermitDate, r.Outcome, r.Purpose, flag(r.IsNew)})
	}
	if err := writeSheet(f, SheetList, listHeaders, listWidths, headerStyle, list); err != nil {
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("%s 토지거래허가 현황", v.Summary.District),
		Subject: fmt.Sprintf("총 %d건, 허가율 %s%%", v.Summary.Total, v.ApprovalRate),
		Creator: "toheoje",
	}); err != nil {
		return nil, fmt.Errorf("set doc properties: %w", err)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename names the download for a district and collection date.
func Filename(district, collected string) string {
	if collected == "" {
		return fmt.Sprintf("토허제_%s.xlsx", district)
	}
	return fmt.Sprintf("토허제_%s_%s.xlsx", district, collected)
}

func writeSheet(f *excelize.File, sheet string, headers []string, widths []float64, headerStyle int, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set %s column width: %w", sheet, err)
		}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func residential(n int) any {
	if n == 0 {
		return "-"
	}
	return n
}

func flag(b bool) string {
	if b {
		return "NEW"
	}
	return ""
}
