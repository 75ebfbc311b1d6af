package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	data, err := db.GetDocument(ctx, "projectflow-data")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if data != nil {
		t.Fatalf("expected no document, got %q", data)
	}

	if err := db.PutDocument(ctx, "projectflow-data", []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("PutDocument failed: %v", err)
	}
	if err := db.PutDocument(ctx, "projectflow-data", []byte(`{"users":[],"projects":[]}`)); err != nil {
		t.Fatalf("PutDocument (replace) failed: %v", err)
	}

	data, err = db.GetDocument(ctx, "projectflow-data")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if string(data) != `{"users":[],"projects":[]}` {
		t.Errorf("GetDocument = %q, want replaced document", data)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("documents rows = %d, want 1", count)
	}

	if err := db.DeleteDocument(ctx, "projectflow-data"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if data, _ := db.GetDocument(ctx, "projectflow-data"); data != nil {
		t.Error("document still present after delete")
	}
	if err := db.DeleteDocument(ctx, "projectflow-data"); err != nil {
		t.Errorf("deleting a missing document failed: %v", err)
	}
}

func TestReopenKeepsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.PutDocument(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("PutDocument failed: %v", err)
	}
	db.Close()

	// Migrations must be idempotent across opens
	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	data, err := db.GetDocument(ctx, "k")
	if err != nil || string(data) != "v" {
		t.Fatalf("GetDocument after reopen = %q, %v", data, err)
	}
}

func TestMigrationsRecordVersion(t *testing.T) {
	db := openTestDB(t)

	var version int64
	err := db.QueryRow(`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied = 1`).Scan(&version)
	if err != nil {
		t.Fatalf("reading goose version failed: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Open(ctx, filepath.Join(t.TempDir(), "cancelled.db")); err == nil {
		t.Fatal("Open with a cancelled context succeeded")
	}
}

// TestConcurrentWritesNoDeadlock guards the single-connection pool: parallel
// readers and writers must queue on the connection rather than block forever.
func TestConcurrentWritesNoDeadlock(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				errs <- db.PutDocument(ctx, "k", []byte(fmt.Sprintf("v%d", i)))
			}(i)
			go func() {
				defer wg.Done()
				_, err := db.GetDocument(ctx, "k")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("concurrent access failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out - possible deadlock detected")
	}
}
