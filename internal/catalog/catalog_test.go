package catalog

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "fimbra-catalog-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTouchAndRecent(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	if err := db.Touch("/a.fim", base); err != nil {
		t.Fatal(err)
	}
	if err := db.Touch("/b.fim", base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := db.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "/b.fim" || got[1] != "/a.fim" {
		t.Errorf("recent = %v, want [/b.fim /a.fim]", got)
	}
}

func TestTouch_UpdatesTimestamp(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	if err := db.Touch("/a.fim", base); err != nil {
		t.Fatal(err)
	}
	if err := db.Touch("/b.fim", base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := db.Touch("/a.fim", base.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}

	got, err := db.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "/a.fim" {
		t.Errorf("recent = %v, want /a.fim first", got)
	}
}

func TestRecent_Limit(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, p := range []string{"/a.fim", "/b.fim", "/c.fim"} {
		if err := db.Touch(p, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}
	got, err := db.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "/c.fim" {
		t.Errorf("recent(2) = %v", got)
	}
}

func TestClear(t *testing.T) {
	db := testDB(t)
	if err := db.Touch("/a.fim", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := db.Clear(); err != nil {
		t.Fatal(err)
	}
	got, err := db.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("recent after clear = %v", got)
	}
}
