package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"toheoje/internal/core"
)

type columns struct {
	district, address, permit, outcome, purpose, building, collected int
}

// parseRows maps a value matrix to records. Columns are found by header name,
// so their order does not matter; only the district column is required.
// Rows with every cell blank are skipped.
func parseRows(values [][]interface{}) ([]core.Record, error) {
	records := []core.Record{}
	if len(values) == 0 {
		return records, nil
	}
	headers := toStrings(values[0])
	cols := columns{
		district:  indexOf(headers, core.KeyDistrict),
		address:   indexOf(headers, core.KeyAddress),
		permit:    indexOf(headers, core.KeyPermitDate),
		outcome:   indexOf(headers, core.KeyOutcome),
		purpose:   indexOf(headers, core.KeyPurpose),
		building:  indexOf(headers, core.KeyBuildingName),
		collected: indexOf(headers, core.KeyCollectedDate),
	}
	if cols.district == -1 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", core.KeyDistrict, headers)
	}

	for i := 1; i < len(values); i++ {
		row := values[i]
		if blank(row) {
			continue
		}
		records = append(records, core.Record{
			District:      strings.TrimSpace(cell(row, cols.district)),
			Address:       cell(row, cols.address),
			PermitDate:    core.ParseYMD(cell(row, cols.permit)),
			Outcome:       strings.TrimSpace(cell(row, cols.outcome)),
			Purpose:       strings.TrimSpace(cell(row, cols.purpose)),
			BuildingName:  strings.TrimSpace(cell(row, cols.building)),
			CollectedDate: strings.TrimSpace(cell(row, cols.collected)),
		})
	}
	return records, nil
}

// cellText renders a cell value. Unformatted numbers arrive as float64 and
// are written without exponent so that 20251015 stays 20251015.
func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func cell(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellText(row[idx])
}

func blank(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(cellText(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(cellText(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if v == target {
			return i
		}
	}
	return -1
}
