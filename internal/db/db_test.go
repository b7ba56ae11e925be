package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemoryCreatesTables(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	for _, table := range []string{"crawl_runs", "chat_sessions", "chat_messages"} {
		var count int
		if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpenReappliesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pconsole.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() error: %v", err)
	}
	if _, err := d.Exec(`INSERT INTO chat_sessions (id) VALUES ('s1')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM chat_sessions`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (reopen must not reset data)", count)
	}
}
