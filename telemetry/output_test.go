package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/ooze/components"
	"github.com/pthm-cable/ooze/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method tolerates the nil manager.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Errorf("WriteBookmark: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Errorf("WriteConfig: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")

	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 200), Oozes: 10 + i}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkGiant, Tick: 400, Description: "size 20"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	lt := NewLifetimeTracker()
	lt.Register(1, 0, 0, 2)
	if err := om.WriteLifetimes(lt); err != nil {
		t.Fatalf("WriteLifetimes: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("read telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_start,window_end,oozes") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "window_start") != 1 {
		t.Error("header written more than once")
	}

	data, err = os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatalf("read bookmarks.csv: %v", err)
	}
	if !strings.Contains(string(data), "giant,400,size 20") {
		t.Errorf("bookmarks.csv = %q", data)
	}

	for _, name := range []string{"config.yaml", "lifetimes.json", "perf.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestLifetimesJSONKeys(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	lt := NewLifetimeTracker()
	lt.Record(NewSpawnEvent(5, 42, components.KindOoze, 1, 4))
	if err := om.WriteLifetimes(lt); err != nil {
		t.Fatalf("WriteLifetimes: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "lifetimes.json"))
	if err != nil {
		t.Fatalf("read lifetimes.json: %v", err)
	}
	if !strings.Contains(string(data), `"42"`) || !strings.Contains(string(data), `"initial_size": 4`) {
		t.Errorf("lifetimes.json = %s", data)
	}
}
