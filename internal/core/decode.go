package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeRecords reads a JSON array of records. Null elements are skipped;
// an element that is not an object, or a body that is not an array, is an
// error.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record array: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode record array: document is null")
	}

	records := make([]Record, 0, len(raw))
	for i, elem := range raw {
		if bytes.Equal(bytes.TrimSpace(elem), []byte("null")) {
			continue
		}
		var rec Record
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
