package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"toheoje/internal/core"
	"toheoje/internal/view"
)

func TestDistrictWorkbook(t *testing.T) {
	records := []core.Record{
		{District: "강남구", Address: "역삼동 1", Outcome: "허가", Purpose: "주거용", PermitDate: "20250103", BuildingName: "타워", CollectedDate: "20251015"},
		{District: "강남구", Address: "역삼동 1", Outcome: "불허가", Purpose: "상업용", PermitDate: "20250301"},
		{District: "강남구", Address: "대치동 9", Outcome: "허가", Purpose: "상업용", PermitDate: "20250105"},
	}
	st := view.State{}.Select("강남구")
	grouped := view.NewDistrictView(records, st)
	list := view.NewDistrictView(records, st.WithMode(view.ModeList))

	data, err := District(grouped, grouped.Groups, list.Rows)
	if err != nil {
		t.Fatalf("District() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetGrouped || sheets[1] != SheetList {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(SheetGrouped)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("grouped sheet has %d rows, want 3", len(rows))
	}
	if rows[0][1] != "주소" || rows[1][1] != "역삼동 1" || rows[1][3] != "2" || rows[1][6] != "NEW" {
		t.Errorf("grouped rows = %v", rows)
	}
	if rows[2][5] != "-" {
		t.Errorf("residential placeholder = %q", rows[2][5])
	}

	rows, err = f.GetRows(SheetList)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || rows[1][4] != "25.03.01" {
		t.Errorf("list rows = %v", rows)
	}
}

func TestDistrictWorkbookEmpty(t *testing.T) {
	data, err := District(view.DistrictView{}, nil, nil)
	if err != nil {
		t.Fatalf("District() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, _ := f.GetRows(SheetList)
	if len(rows) != 1 {
		t.Errorf("empty list sheet has %d rows, want header only", len(rows))
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("강남구", "20251015"); got != "토허제_강남구_20251015.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
	if got := Filename("중구", ""); got != "토허제_중구.xlsx" {
		t.Errorf("Filename() = %q", got)
	}
}
