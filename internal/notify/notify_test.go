package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"toheoje/internal/core"
	"toheoje/internal/dataset"
	"toheoje/internal/source"
)

type fakePublisher struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, body)
	return nil
}

var batch = []core.Record{
	{District: "송파구", CollectedDate: "20251015"},
	{District: "강남구", CollectedDate: "20251015"},
	{District: "강남구", CollectedDate: "20251015"},
	{District: "중구", CollectedDate: "20251014"},
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.FixedZone("KST", 9*3600))
	msg, ok := BuildMessage(batch, "fp", now)
	if !ok {
		t.Fatal("BuildMessage() found nothing new")
	}
	if msg.CollectedDate != "20251015" || msg.Count != 3 || msg.Total != 4 || msg.Fingerprint != "fp" {
		t.Errorf("msg = %+v", msg)
	}
	if len(msg.Districts) != 2 || msg.Districts[0].District != "강남구" || msg.Districts[0].Count != 2 {
		t.Errorf("districts = %+v", msg.Districts)
	}
	if msg.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp not UTC: %v", msg.Timestamp)
	}

	if _, ok := BuildMessage([]core.Record{{District: "중구"}}, "fp", now); ok {
		t.Error("BuildMessage() announced a dataset without collection dates")
	}
}

func TestAnnouncerPublishesOnLoad(t *testing.T) {
	pub := &fakePublisher{}
	a := NewAnnouncer(pub, "new_records", nil)

	d := dataset.New(nil)
	d.OnLoaded(a.Hook())
	d.Load(context.Background(), source.Func{Label: "test", Fn: func(context.Context) ([]core.Record, error) {
		return batch, nil
	}})

	if len(pub.bodies) != 1 || pub.keys[0] != "new_records" {
		t.Fatalf("published %d messages (keys %v)", len(pub.bodies), pub.keys)
	}
	msg, err := MessageFromJSON(pub.bodies[0])
	if err != nil {
		t.Fatal(err)
	}
	if msg.Count != 3 || msg.Fingerprint != d.Snapshot().Fingerprint {
		t.Errorf("decoded message = %+v", msg)
	}
}

func TestAnnouncerSwallowsPublishErrors(t *testing.T) {
	a := NewAnnouncer(&fakePublisher{err: errors.New("channel closed")}, "k", nil)
	if a.Announce(context.Background(), dataset.Snapshot{Records: batch}) {
		t.Error("Announce() reported success after a publish error")
	}
}

func TestMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MessageFromJSON([]byte("{")); err == nil {
		t.Error("expected error")
	}
}
