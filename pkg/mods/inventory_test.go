package mods

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/sdejongh/modnorris/pkg/hashutil"
	"github.com/sdejongh/modnorris/pkg/models"
)

func writeMod(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func hashOf(t *testing.T, path string) string {
	t.Helper()
	sha, err := hashutil.SHA256File(context.Background(), path)
	if err != nil {
		t.Fatalf("failed to hash %s: %v", path, err)
	}
	return sha
}

func trackedEntry(id, filename, sha string, enabled bool) models.ModEntry {
	entry := models.ModEntry{ID: id, Filename: filename, Enabled: enabled}
	if sha != "" {
		entry.Hashes = &models.ModHashes{SHA256: sha}
	}
	return entry
}

func TestInventoryClassification(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	okPath := writeMod(t, Dir(cfg, manifest), "ok.jar", "ok bytes")
	writeMod(t, DisabledDir(cfg, manifest), "moved.jar", "moved bytes")
	writeMod(t, Dir(cfg, manifest), "corrupt.jar", "changed bytes")
	writeMod(t, Dir(cfg, manifest), "stray.jar", "stray bytes")

	manifest.Add(trackedEntry("ok", "ok.jar", hashOf(t, okPath), true))
	manifest.Add(trackedEntry("gone", "gone.jar", "irrelevant", true))
	manifest.Add(trackedEntry("moved", "moved.jar", "", true))
	manifest.Add(trackedEntry("corrupt", "corrupt.jar", "not-the-real-hash", true))

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}

	states := map[string]models.EntryState{}
	for _, status := range inv.Entries {
		states[status.Entry.ID] = status.State()
	}

	if states["ok"] != models.StateOK {
		t.Errorf("ok state = %s, want %s", states["ok"], models.StateOK)
	}
	if states["gone"] != models.StateMissing {
		t.Errorf("gone state = %s, want %s", states["gone"], models.StateMissing)
	}
	if states["moved"] != models.StateMoved {
		t.Errorf("moved state = %s, want %s", states["moved"], models.StateMoved)
	}
	if states["corrupt"] != models.StateHashMismatch {
		t.Errorf("corrupt state = %s, want %s", states["corrupt"], models.StateHashMismatch)
	}

	if len(inv.Extras) != 1 || inv.Extras[0].Filename != "stray.jar" {
		t.Errorf("Extras = %+v, want just stray.jar", inv.Extras)
	}

	s := inv.Summarize()
	if s.Total != 4 || s.OK != 1 || s.Missing != 1 || s.Moved != 1 || s.HashMismatch != 1 || s.Extras != 1 {
		t.Errorf("Summary = %+v, want 4/1/1/1/1/1", s)
	}
}

// A filename present in both directories must report as disabled: the
// disabled directory is scanned last and wins.
func TestInventoryDuplicateFilenameReportsDisabled(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	writeMod(t, Dir(cfg, manifest), "dup.jar", "enabled copy")
	writeMod(t, DisabledDir(cfg, manifest), "dup.jar", "disabled copy")
	manifest.Add(trackedEntry("dup", "dup.jar", "", true))

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	if len(inv.Entries) != 1 {
		t.Fatalf("Entries length = %d, want 1", len(inv.Entries))
	}
	status := inv.Entries[0]
	if status.Location != models.LocationDisabled {
		t.Errorf("Location = %s, want %s", status.Location, models.LocationDisabled)
	}
	if status.State() != models.StateMoved {
		t.Errorf("State = %s, want %s", status.State(), models.StateMoved)
	}
}

func TestInventoryEntryWithoutHashNeverMismatches(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	writeMod(t, Dir(cfg, manifest), "manual.jar", "any content at all")
	manifest.Add(trackedEntry("manual", "manual.jar", "", true))

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	status := inv.Entries[0]
	if status.HashOK != nil {
		t.Error("HashOK should be nil for an entry without a recorded hash")
	}
	if status.State() != models.StateOK {
		t.Errorf("State = %s, want %s", status.State(), models.StateOK)
	}
}

func TestInventoryIgnoresNonModFiles(t *testing.T) {
	cfg := testConfig(t)
	manifest := models.NewManifest("fabric", "1.21.1")

	writeMod(t, Dir(cfg, manifest), "readme.txt", "not a mod")
	writeMod(t, Dir(cfg, manifest), ".mscmods.json", "{}")
	writeMod(t, Dir(cfg, manifest), "real.jar", "jar")

	inv, err := Inventory(context.Background(), cfg, manifest)
	if err != nil {
		t.Fatalf("Inventory() error = %v", err)
	}
	if len(inv.Extras) != 1 || inv.Extras[0].Filename != "real.jar" {
		t.Errorf("Extras = %+v, want just real.jar", inv.Extras)
	}
}

// Every entry lands in exactly one classification bucket, whatever the
// combination of enabled flag, presence, location and hash outcome.
func TestSummaryPartitionsEntries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("ok+missing+moved+mismatch == total", prop.ForAll(
		func(codes []int) bool {
			inv := models.Inventory{}
			for _, code := range codes {
				status := models.EntryStatus{
					Entry:   models.ModEntry{Enabled: code&1 != 0},
					Present: code&2 != 0,
				}
				if code&4 != 0 {
					status.Location = models.LocationMods
				} else {
					status.Location = models.LocationDisabled
				}
				switch (code >> 3) % 3 {
				case 1:
					v := true
					status.HashOK = &v
				case 2:
					v := false
					status.HashOK = &v
				}
				inv.Entries = append(inv.Entries, status)
			}
			s := inv.Summarize()
			return s.OK+s.Missing+s.Moved+s.HashMismatch == s.Total && s.Total == len(codes)
		},
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.TestingRun(t)
}
