package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"toheoje/internal/core"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "toheoje.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptyDatabaseLoadsNothing(t *testing.T) {
	records, err := open(t).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("Load() = %#v, want empty", records)
	}
}

func TestInsertThenLoadKeepsOrder(t *testing.T) {
	s := open(t)
	want := []core.Record{
		{District: "강남구", Address: "역삼동 1", PermitDate: "20250103", Outcome: "허가", Purpose: "주거용", BuildingName: "타워", CollectedDate: "20251015"},
		{District: "송파구", Address: "잠실동 5", Outcome: "불허가", Purpose: "상업용"},
		{District: "강남구", Address: "", PermitDate: "20250301", CollectedDate: "20251014"},
	}
	ctx := context.Background()
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toheoje.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(context.Background(), []core.Record{{District: "중구"}}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	records, err := s.Load(context.Background())
	if err != nil || len(records) != 1 {
		t.Errorf("Load() = %v, %v", records, err)
	}
	if s.Name() != "sqlite:"+path {
		t.Errorf("Name() = %q", s.Name())
	}
}

func TestReplaceSwapsContents(t *testing.T) {
	s := open(t)
	ctx := context.Background()
	if err := s.Insert(ctx, []core.Record{{District: "중구"}, {District: "종로구"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, []core.Record{{District: "마포구", Address: "합정동 2"}}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].District != "마포구" {
		t.Errorf("Load() = %+v", got)
	}
}
