package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"substratum/internal/phenomenal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSeries(entityID string, n int) []phenomenal.Snapshot {
	taken := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	snaps := make([]phenomenal.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		snaps = append(snaps, phenomenal.Snapshot{
			EntityID:        entityID,
			Tick:            uint64(i + 1),
			Taken:           taken.Add(time.Duration(i) * time.Second),
			Mode:            phenomenal.ModeStable,
			Integrity:       1.0 - float64(i)*0.1,
			Stress:          float64(i) * 0.05,
			Valence:         0.2,
			TraumaMemory:    float64(i) * 0.01,
			HasBeenCritical: i > 5,
		})
	}
	return snaps
}

func TestSaveAndLoadSeries(t *testing.T) {
	db := openTestDB(t)

	want := sampleSeries("entity-a", 8)
	if err := db.SaveSnapshots(want); err != nil {
		t.Fatalf("SaveSnapshots: %v", err)
	}
	// A second entity must not leak into the first entity's series.
	if err := db.SaveSnapshots(sampleSeries("entity-b", 3)); err != nil {
		t.Fatalf("SaveSnapshots: %v", err)
	}

	got, err := db.LoadSeries("entity-a")
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d snapshots, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("snapshot %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveSnapshotsReplaysReplace(t *testing.T) {
	db := openTestDB(t)

	first := sampleSeries("entity-a", 3)
	if err := db.SaveSnapshots(first); err != nil {
		t.Fatalf("SaveSnapshots: %v", err)
	}

	first[1].Mode = phenomenal.ModeCritical
	if err := db.SaveSnapshots(first[1:2]); err != nil {
		t.Fatalf("SaveSnapshots replay: %v", err)
	}

	got, err := db.LoadSeries("entity-a")
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("loaded %d snapshots after replay, want 3", len(got))
	}
	if got[1].Mode != phenomenal.ModeCritical {
		t.Errorf("replayed mode = %v, want %v", got[1].Mode, phenomenal.ModeCritical)
	}
}

func TestSaveSnapshotsEmptyIsNoop(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveSnapshots(nil); err != nil {
		t.Fatalf("SaveSnapshots(nil) = %v", err)
	}
}

func TestRecentSnapshots(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveSnapshots(sampleSeries("entity-a", 10)); err != nil {
		t.Fatalf("SaveSnapshots: %v", err)
	}

	got, err := db.RecentSnapshots("entity-a", 3)
	if err != nil {
		t.Fatalf("RecentSnapshots: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(got))
	}
	for i, tick := range []uint64{10, 9, 8} {
		if got[i].Tick != tick {
			t.Errorf("snapshot %d tick = %d, want %d", i, got[i].Tick, tick)
		}
	}
}

func TestLoadSeriesUnknownEntityIsEmpty(t *testing.T) {
	db := openTestDB(t)

	got, err := db.LoadSeries("nobody")
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d snapshots for unknown entity, want 0", len(got))
	}
}

func TestMetaRoundtrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveMeta("seed", "42"); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	if err := db.SaveMeta("seed", "43"); err != nil {
		t.Fatalf("SaveMeta overwrite: %v", err)
	}

	got, err := db.GetMeta("seed")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if got != "43" {
		t.Fatalf("GetMeta = %q, want %q", got, "43")
	}
}

func TestSaveRunRecordsMeta(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveRun("entity-a", sampleSeries("entity-a", 5)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	entity, err := db.GetMeta("last_entity")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if entity != "entity-a" {
		t.Errorf("last_entity = %q, want %q", entity, "entity-a")
	}

	tick, err := db.GetMeta("last_tick")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if tick != "5" {
		t.Errorf("last_tick = %q, want %q", tick, "5")
	}
}
