package driver_test

import (
	"strings"
	"testing"

	"sil/internal/driver"
	"sil/internal/sil"
)

func snapshotOf(t *testing.T, m *sil.Module, name string) *driver.FuncSnapshot {
	t.Helper()
	f, ok := m.Lookup(name)
	if !ok {
		t.Fatalf("no function %s", name)
	}
	return driver.Snapshot(f)
}

func TestSnapshotDigestStable(t *testing.T) {
	a := snapshotOf(t, build(t, "counter"), "counter")
	b := snapshotOf(t, build(t, "counter"), "counter")
	da, err := a.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	db, err := b.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if da != db || da.IsZero() {
		t.Fatalf("digests differ or are zero: %s vs %s", da, db)
	}
}

func TestSnapshotShape(t *testing.T) {
	snap := snapshotOf(t, build(t, "selfloop"), "selfloop")
	if !strings.HasPrefix(snap.Type, "fn") {
		t.Fatalf("type = %q", snap.Type)
	}
	if len(snap.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(snap.Blocks))
	}
	loop := snap.Blocks[1]
	if len(loop.Preds) != 3 || len(loop.Succs) != 1 || loop.Succs[0] != loop.ID {
		t.Fatalf("loop block = %+v", loop)
	}
	if got := snap.Blocks[0].Insts[1]; !strings.HasPrefix(got, "%1 = condbranch %0") {
		t.Fatalf("inst = %q", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := snapshotOf(t, build(t, "diamond"), "diamond")
	data, err := snap.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := driver.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if back.Name != snap.Name || back.NumInsts() != snap.NumInsts() {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestDiskCacheCompare(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	m := build(t, "counter")
	snap := snapshotOf(t, m, "counter")

	steps := []struct {
		name string
		snap *driver.FuncSnapshot
		want driver.Change
	}{
		{"first", snap, driver.ChangeNew},
		{"same", snap, driver.ChangeUnchanged},
	}
	for _, st := range steps {
		got, err := cache.Compare(st.snap)
		if err != nil {
			t.Fatalf("%s: Compare: %v", st.name, err)
		}
		if got != st.want {
			t.Fatalf("%s: change = %s, want %s", st.name, got, st.want)
		}
		if err := cache.Put(st.snap); err != nil {
			t.Fatalf("%s: Put: %v", st.name, err)
		}
	}

	f, _ := m.Lookup("counter")
	b := sil.NewBuilder(f)
	b.SetInsertPoint(f.NewBlock())
	b.CreateUnreachable(sil.Synthetic())
	if got, err := cache.Compare(driver.Snapshot(f)); err != nil || got != driver.ChangeChanged {
		t.Fatalf("after edit: change = %s, err = %v", got, err)
	}

	payload, ok, err := cache.Get("counter")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if payload.Snapshot.Name != "counter" {
		t.Fatalf("payload = %+v", payload)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := cache.Get("counter"); ok {
		t.Fatalf("entry survived DropAll")
	}
	if got, _ := cache.Compare(snap); got != driver.ChangeNew {
		t.Fatalf("after DropAll: change = %s", got)
	}
}
