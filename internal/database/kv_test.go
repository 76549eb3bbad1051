package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(Config{DatabasePath: filepath.Join(t.TempDir(), "nested", "streamhub.db")})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestKVPutGetOverwrite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, ok, err := db.KV.Get(ctx, "visitor-1", "streamhub_watchlist"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := db.KV.Put(ctx, "visitor-1", "streamhub_watchlist", []byte("[27205]")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.KV.Put(ctx, "visitor-1", "streamhub_watchlist", []byte("[27205,155]")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, ok, err := db.KV.Get(ctx, "visitor-1", "streamhub_watchlist")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(value) != "[27205,155]" {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestKVNamespacesAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.KV.Put(ctx, "a", "movie_progress_1", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.KV.Put(ctx, "a", "movie_progress_2", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := db.KV.Put(ctx, "b", "movie_progress_3", []byte(`{}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	keys, err := db.KV.Keys(ctx, "a")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "movie_progress_1" || keys[1] != "movie_progress_2" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := db.KV.Delete(ctx, "a", "movie_progress_1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.KV.Delete(ctx, "a", "does-not-exist"); err != nil {
		t.Fatalf("delete missing key: %v", err)
	}
	if _, ok, _ := db.KV.Get(ctx, "a", "movie_progress_1"); ok {
		t.Fatalf("expected key to be deleted")
	}
	if _, ok, _ := db.KV.Get(ctx, "b", "movie_progress_3"); !ok {
		t.Fatalf("expected other namespace to be untouched")
	}
}

func TestNewDBIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streamhub.db")

	first, err := NewDB(Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.KV.Put(context.Background(), "ns", "k", []byte("v")); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = first.Close()

	second, err := NewDB(Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	value, ok, err := second.KV.Get(context.Background(), "ns", "k")
	if err != nil || !ok || string(value) != "v" {
		t.Fatalf("expected value to survive reopen, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{errors.New("boom"), false},
	}

	for _, test := range tests {
		if got := isBusy(test.err); got != test.want {
			t.Errorf("isBusy(%v) = %v, expected %v", test.err, got, test.want)
		}
	}
}
