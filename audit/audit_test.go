package audit

import (
	"path/filepath"
	"testing"
)

func TestOpenWithEmptyDSNDisablesAuditing(t *testing.T) {
	log, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\"): %v", err)
	}
	if log != nil {
		t.Fatal("Open(\"\") should return a nil *Log")
	}
	// Record on a nil *Log must not panic.
	log.Record("producer", "1.2.3.4", "attach", "")
}

func TestRecordPersistsEvent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "audit.db")
	log, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	log.Record("producer", "1.2.3.4", "attach", "")

	var count int64
	if err := log.db.Model(&Event{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
