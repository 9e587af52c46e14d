package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	runs := []Entry{
		{Host: "worker1", WorkDir: "/var/log", Command: "ls -l", ExitCode: 0, Duration: 120 * time.Millisecond},
		{Host: "worker1", WorkDir: "/var/log", Command: "grep error syslog", ExitCode: 1, Duration: 40 * time.Millisecond},
		{Host: "worker1", Command: "sleep 600", ExitCode: 124, TimedOut: true, Duration: 60 * time.Second},
	}
	for _, e := range runs {
		if err := store.Record(e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d entries, want 3", len(got))
	}

	// Newest first
	if got[0].Command != "sleep 600" || !got[0].TimedOut {
		t.Errorf("newest entry = %+v, want the timed-out run", got[0])
	}
	if got[2].Command != "ls -l" || got[2].WorkDir != "/var/log" {
		t.Errorf("oldest entry = %+v", got[2])
	}
	if got[1].ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", got[1].ExitCode)
	}
	if got[0].Duration != 60*time.Second {
		t.Errorf("duration = %s, want 60s", got[0].Duration)
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if err := store.Record(Entry{Command: "true"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := store.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d entries", len(got))
	}
}
