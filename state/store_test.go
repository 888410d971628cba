package state

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"vprinter/driver"
	"vprinter/media"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDefaultsRoundTrip(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	defaults := driver.Defaults{
		MediaDefault: driver.MediaCol{
			SizeName: media.Letter,
			Width:    21590,
			Length:   27940,
			Source:   "tray-1",
			Type:     "stationery",
		},
		ColorModeDefault:  driver.ColorModeAuto,
		ResolutionDefault: driver.Resolution{X: 600, Y: 600},
		SidesDefault:      driver.SideOneSided,
		QualityDefault:    4,
	}

	if err := store.SaveDefaults(ctx, "office", defaults); err != nil {
		t.Fatalf("SaveDefaults failed: %v", err)
	}

	got, err := store.LoadDefaults(ctx, "office")
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if !reflect.DeepEqual(got, defaults) {
		t.Errorf("loaded defaults = %+v, want %+v", got, defaults)
	}
}

func TestLoadMissingPrinter(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	if _, err := store.LoadDefaults(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadDefaults for unknown printer = %v, want ErrNotFound", err)
	}
	if _, err := store.LoadReadyMedia(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadReadyMedia for unknown printer = %v, want ErrNotFound", err)
	}
}

func TestReadyMediaRoundTrip(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	ready := []driver.MediaCol{
		{SizeName: media.Letter, Width: 21590, Length: 27940, Source: "tray-1", Type: "stationery"},
		{SizeName: media.A4, Width: 21000, Length: 29700, Source: "tray-2", Type: "stationery"},
	}
	if err := store.SaveReadyMedia(ctx, "office", ready); err != nil {
		t.Fatalf("SaveReadyMedia failed: %v", err)
	}

	got, err := store.LoadReadyMedia(ctx, "office")
	if err != nil {
		t.Fatalf("LoadReadyMedia failed: %v", err)
	}
	if !reflect.DeepEqual(got, ready) {
		t.Errorf("loaded ready media = %+v, want %+v", got, ready)
	}
}

func TestSaveDefaultsDoesNotClobberReadyMedia(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	ready := []driver.MediaCol{{SizeName: media.A4, Width: 21000, Length: 29700, Source: "tray-1"}}
	if err := store.SaveReadyMedia(ctx, "office", ready); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDefaults(ctx, "office", driver.Defaults{QualityDefault: 5}); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadReadyMedia(ctx, "office")
	if err != nil {
		t.Fatalf("ready media lost after defaults save: %v", err)
	}
	if !reflect.DeepEqual(got, ready) {
		t.Errorf("ready media = %+v, want %+v", got, ready)
	}

	defaults, err := store.LoadDefaults(ctx, "office")
	if err != nil {
		t.Fatal(err)
	}
	if defaults.QualityDefault != 5 {
		t.Errorf("quality default = %d, want 5", defaults.QualityDefault)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	if err := store.SaveDefaults(ctx, "office", driver.Defaults{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "office"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "office"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveDefaults(ctx, "office", driver.Defaults{QualityDefault: 3}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, err := store.LoadDefaults(ctx, "office")
	if err != nil {
		t.Fatalf("LoadDefaults after reopen failed: %v", err)
	}
	if got.QualityDefault != 3 {
		t.Errorf("quality default = %d, want 3", got.QualityDefault)
	}
}
