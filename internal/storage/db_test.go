package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// runDBSuite runs the shared behaviour checks against a DB implementation.
func runDBSuite(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutGet", func(t *testing.T) {
		if err := db.Put([]byte("cachedFetch-aa"), []byte(`{"timestamp":1}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := db.Get([]byte("cachedFetch-aa"))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != `{"timestamp":1}` {
			t.Errorf("Get = %q", got)
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		_, err := db.Get([]byte("cachedFetch-missing"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
		ok, err := db.Has([]byte("cachedFetch-missing"))
		if err != nil || ok {
			t.Errorf("Has(missing) = %v, %v", ok, err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("entry"), []byte("stale"))
		db.Put([]byte("entry"), []byte("fresh"))
		got, err := db.Get([]byte("entry"))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "fresh" {
			t.Errorf("Get after overwrite = %q, want fresh", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("gone"), []byte("x"))
		if err := db.Delete([]byte("gone")); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := db.Get([]byte("gone")); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete error = %v", err)
		}
		if err := db.Delete([]byte("never-existed")); err != nil {
			t.Errorf("Delete(missing) error: %v", err)
		}
	})

	t.Run("BinaryValue", func(t *testing.T) {
		value := make([]byte, 256)
		for i := range value {
			value[i] = byte(i)
		}
		if err := db.Put([]byte{0x00, 0xff}, value); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := db.Get([]byte{0x00, 0xff})
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Error("binary value roundtrip failed")
		}
	})

	t.Run("ForEach", func(t *testing.T) {
		db.Put([]byte("quote/a"), []byte("1"))
		db.Put([]byte("quote/b"), []byte("2"))
		db.Put([]byte("historic/c"), []byte("3"))

		count := 0
		err := db.ForEach([]byte("quote/"), func(_, _ []byte) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach: %v", err)
		}
		if count != 2 {
			t.Errorf("ForEach(quote/) visited %d keys, want 2", count)
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	runDBSuite(t, db)
}

func TestMemoryDB_ReturnsCopies(t *testing.T) {
	db := NewMemory()
	in := []byte("abc")
	db.Put([]byte("k"), in)
	in[0] = 'x'

	got, _ := db.Get([]byte("k"))
	got[1] = 'y'

	again, _ := db.Get([]byte("k"))
	if string(again) != "abc" {
		t.Errorf("stored value was aliased: %q", again)
	}
}

func TestMemoryDB_ConcurrentAccess(t *testing.T) {
	db := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []byte(fmt.Sprintf("k%d", i))
			for j := 0; j < 100; j++ {
				db.Put(key, []byte{byte(j)})
				db.Get(key)
				db.Has(key)
			}
		}(i)
	}
	wg.Wait()
	if db.Len() != 16 {
		t.Errorf("Len = %d, want 16", db.Len())
	}
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()
	runDBSuite(t, db)
}

func TestBadgerDB_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	db1, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	db1.Put([]byte("historic"), []byte("123.45"))
	db1.Close()

	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger reopen: %v", err)
	}
	defer db2.Close()

	got, err := db2.Get([]byte("historic"))
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "123.45" {
		t.Errorf("persisted value = %q", got)
	}
}

func TestBadgerDB_LockedDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()

	if _, err := NewBadger(dir); err == nil {
		t.Fatal("second open of the same directory should fail")
	}
}

func TestBadgerDB_PutWithTTL(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()

	if err := db.PutWithTTL([]byte("short"), []byte("v"), time.Hour); err != nil {
		t.Fatalf("PutWithTTL: %v", err)
	}
	got, err := db.Get([]byte("short"))
	if err != nil || string(got) != "v" {
		t.Errorf("Get before expiry = %q, %v", got, err)
	}
}
