package storage

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

func TestPrefixDB_NamespacesShareInner(t *testing.T) {
	inner := NewMemory()
	quotes := NewPrefixDB(inner, []byte("quote/"))
	historic := NewPrefixDB(inner, []byte("historic/"))

	quotes.Put([]byte("k"), []byte("q"))
	historic.Put([]byte("k"), []byte("h"))

	got, err := quotes.Get([]byte("k"))
	if err != nil || string(got) != "q" {
		t.Fatalf("quotes.Get = %q, %v", got, err)
	}
	got, err = historic.Get([]byte("k"))
	if err != nil || string(got) != "h" {
		t.Fatalf("historic.Get = %q, %v", got, err)
	}

	raw, err := inner.Get([]byte("quote/k"))
	if err != nil || string(raw) != "q" {
		t.Errorf("inner key layout: %q, %v", raw, err)
	}
	if ok, _ := quotes.Has([]byte("historic/k")); ok {
		t.Error("namespace leaked a foreign key")
	}
}

func TestPrefixDB_MissingKey(t *testing.T) {
	db := NewPrefixDB(NewMemory(), []byte("ns/"))
	if _, err := db.Get([]byte("nope")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPrefixDB_ForEachStripsNamespace(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("quote/"))
	db.Put([]byte("cachedFetch-1"), []byte("a"))
	db.Put([]byte("cachedFetch-2"), []byte("b"))
	db.Put([]byte("other"), []byte("c"))
	inner.Put([]byte("historic/cachedFetch-3"), []byte("d"))

	var keys []string
	err := db.ForEach([]byte("cachedFetch-"), func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "cachedFetch-1" || keys[1] != "cachedFetch-2" {
		t.Errorf("ForEach keys = %v", keys)
	}
}

func TestPrefixDB_ForEachStopsOnError(t *testing.T) {
	db := NewPrefixDB(NewMemory(), []byte("p/"))
	for i := 0; i < 10; i++ {
		db.Put([]byte(fmt.Sprintf("k%d", i)), []byte("v"))
	}

	stop := errors.New("stop")
	count := 0
	err := db.ForEach(nil, func(_, _ []byte) error {
		count++
		if count == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 3 {
		t.Errorf("ForEach = %v after %d calls", err, count)
	}
}

func TestPrefixDB_PutWithTTL(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()

	quotes := NewPrefixDB(db, []byte("quote/"))
	if err := quotes.PutWithTTL([]byte("a"), []byte("1"), time.Hour); err != nil {
		t.Fatalf("PutWithTTL: %v", err)
	}
	if got, err := db.Get([]byte("quote/a")); err != nil || string(got) != "1" {
		t.Errorf("inner Get = %q, %v", got, err)
	}

	// Memory has no expiry; the value is stored as a plain Put.
	inner := NewMemory()
	if err := NewPrefixDB(inner, []byte("quote/")).PutWithTTL([]byte("a"), []byte("1"), time.Hour); err != nil {
		t.Fatalf("PutWithTTL on memory: %v", err)
	}
	if got, err := inner.Get([]byte("quote/a")); err != nil || string(got) != "1" {
		t.Errorf("memory Get = %q, %v", got, err)
	}
}

func TestPrefixDB_CloseLeavesInnerOpen(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("x/"))
	db.Put([]byte("key"), []byte("val"))

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, err := inner.Get([]byte("x/key")); err != nil || string(got) != "val" {
		t.Errorf("inner.Get after Close = %q, %v", got, err)
	}
}
