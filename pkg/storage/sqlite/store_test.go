package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stevelan1995/taskgrid/pkg/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := storage.RunRecord{
			ID:         "run-" + string(rune('a'+i)),
			GraphName:  "pipeline",
			StartedAt:  now.Add(time.Duration(i) * time.Minute),
			FinishedAt: now.Add(time.Duration(i)*time.Minute + time.Second),
			Outcome:    "success",
		}
		if err := s.SaveRun(ctx, rec); err != nil {
			t.Fatalf("save run %d failed: %v", i, err)
		}
	}

	recs, err := s.ListRuns(ctx, "pipeline", 10)
	if err != nil {
		t.Fatalf("list runs failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d; want 3", len(recs))
	}
	// most recent first
	if recs[0].ID != "run-c" {
		t.Fatalf("recs[0].ID = %q; want run-c", recs[0].ID)
	}
}

func TestSaveRunUpsertsOnConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := storage.RunRecord{ID: "run-1", GraphName: "g", Outcome: "success"}
	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	rec.Outcome = "failed"
	rec.Error = "boom"
	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	recs, err := s.ListRuns(ctx, "g", 10)
	if err != nil {
		t.Fatalf("list runs failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d; want 1", len(recs))
	}
	if recs[0].Outcome != "failed" || recs[0].Error != "boom" {
		t.Fatalf("recs[0] = %+v; want updated record", recs[0])
	}
}

func TestListRunsFiltersByGraphName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.SaveRun(ctx, storage.RunRecord{ID: "a", GraphName: "one", Outcome: "success"})
	s.SaveRun(ctx, storage.RunRecord{ID: "b", GraphName: "two", Outcome: "success"})

	recs, err := s.ListRuns(ctx, "one", 10)
	if err != nil {
		t.Fatalf("list runs failed: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "a" {
		t.Fatalf("recs = %+v; want just run a", recs)
	}
}
