package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// JSON keys of the published land-contract document.
const (
	KeyDistrict      = "자치구"
	KeyAddress       = "주소"
	KeyPermitDate    = "허가일자"
	KeyOutcome       = "처리결과"
	KeyPurpose       = "이용목적"
	KeyBuildingName  = "건물명"
	KeyCollectedDate = "수집일자"
)

const (
	// Placeholder is displayed for missing values and keys empty addresses.
	Placeholder = "-"

	OutcomeApproved    = "허가"
	PurposeResidential = "주거용"
)

type (
	// YMD is a YYYYMMDD date kept in its raw decimal form. Dates are only
	// ever compared as strings; an empty YMD means "not issued".
	YMD string

	// Record is one land-transaction permit application.
	Record struct {
		District      string `json:"자치구"`
		Address       string `json:"주소"`
		PermitDate    YMD    `json:"허가일자,omitempty"`
		Outcome       string `json:"처리결과"`
		Purpose       string `json:"이용목적"`
		BuildingName  string `json:"건물명,omitempty"`
		CollectedDate string `json:"수집일자,omitempty"`
	}
)

// ParseYMD normalizes a textual date. Zero and blank values collapse to the
// empty YMD.
func ParseYMD(s string) YMD {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return ""
	}
	return YMD(s)
}

func (d YMD) String() string { return string(d) }

// IsZero reports whether the date is missing.
func (d YMD) IsZero() bool { return d == "" }

// MarshalJSON writes all-digit dates as JSON numbers, the shape of the
// published document, and anything else as a string.
func (d YMD) MarshalJSON() ([]byte, error) {
	s := string(d)
	if isJSONInteger(s) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}

// UnmarshalJSON accepts a number, a string or null. Other JSON types decode
// to the empty date.
func (d *YMD) UnmarshalJSON(b []byte) error {
	*d = ParseYMD(rawText(b))
	return nil
}

// UnmarshalJSON decodes a record field by field so that a value of the wrong
// JSON type degrades to the zero value instead of failing the whole dataset.
func (r *Record) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = Record{
		District:      rawText(fields[KeyDistrict]),
		Address:       rawText(fields[KeyAddress]),
		PermitDate:    ParseYMD(rawText(fields[KeyPermitDate])),
		Outcome:       rawText(fields[KeyOutcome]),
		Purpose:       rawText(fields[KeyPurpose]),
		BuildingName:  rawText(fields[KeyBuildingName]),
		CollectedDate: strings.TrimSpace(rawText(fields[KeyCollectedDate])),
	}
	return nil
}

// IsApproved reports whether the outcome is exactly the approved marker.
func IsApproved(r Record) bool { return r.Outcome == OutcomeApproved }

// IsResidential reports whether the declared purpose is residential.
func IsResidential(r Record) bool { return r.Purpose == PurposeResidential }

// IsNew reports whether r belongs to the latest collection batch. An empty
// batch date never matches.
func IsNew(r Record, latestCollected string) bool {
	return latestCollected != "" && r.CollectedDate == latestCollected
}

// rawText returns strings verbatim and numbers in their literal form.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return n.String()
	default:
		return ""
	}
}

func isJSONInteger(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
