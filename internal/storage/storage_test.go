package storage

import (
	"os"
	"testing"
	"time"
)

func TestOptionsRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	// Nothing saved yet: defaults come back.
	opts, err := s.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if opts.HashMB != 64 {
		t.Errorf("default HashMB = %d, want 64", opts.HashMB)
	}

	opts.HashMB = 256
	opts.MoveOverhead = 100 * time.Millisecond
	if err := s.SaveOptions(opts); err != nil {
		t.Fatalf("SaveOptions failed: %v", err)
	}

	loaded, err := s.LoadOptions()
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if loaded.HashMB != 256 || loaded.MoveOverhead != 100*time.Millisecond {
		t.Errorf("loaded %+v, want saved values back", loaded)
	}
	if loaded.LastUsed.IsZero() {
		t.Error("LastUsed not stamped on save")
	}
}

func TestStatsRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if stats.Searches != 0 {
		t.Errorf("fresh stats report %d searches", stats.Searches)
	}

	stats.Record(12, 500000, time.Second)
	stats.Record(9, 250000, 500*time.Millisecond)
	if err := s.SaveStats(stats); err != nil {
		t.Fatalf("SaveStats failed: %v", err)
	}

	loaded, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if loaded.Searches != 2 || loaded.TotalNodes != 750000 || loaded.DeepestLine != 12 {
		t.Errorf("loaded %+v, want the recorded totals", loaded)
	}
	if nps := loaded.NPS(); nps < 400000 || nps > 600000 {
		t.Errorf("NPS() = %.0f, want about 500000", nps)
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Fatal("GetDataDir returned empty path")
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}
	t.Logf("Data directory: %s", dataDir)
}
