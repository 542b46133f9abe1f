// Package notify announces the latest collection batch on a message broker.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"toheoje/internal/aggregate"
	"toheoje/internal/core"
)

// NewRecordsMessage describes the latest collection batch of a loaded dataset.
type NewRecordsMessage struct {
	CollectedDate string                    `json:"collectedDate"`
	Count         int                       `json:"count"`
	Districts     []aggregate.DistrictCount `json:"districts"`
	Total         int                       `json:"total"`
	Fingerprint   string                    `json:"fingerprint"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// BuildMessage summarizes the new records of records. The second result is
// false when there is nothing new to announce.
func BuildMessage(records []core.Record, fingerprint string, now time.Time) (NewRecordsMessage, bool) {
	latest := aggregate.LatestCollectedDate(records)
	fresh := aggregate.NewRecords(records, latest)
	if len(fresh) == 0 {
		return NewRecordsMessage{}, false
	}
	return NewRecordsMessage{
		CollectedDate: latest,
		Count:         len(fresh),
		Districts:     aggregate.Global(fresh).SortedDistricts,
		Total:         len(records),
		Fingerprint:   fingerprint,
		Timestamp:     now.UTC(),
	}, true
}

func (m NewRecordsMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*NewRecordsMessage, error) {
	var m NewRecordsMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal new records message: %w", err)
	}
	return &m, nil
}
