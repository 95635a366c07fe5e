// Package testkit holds the conformance suite every corpus store must pass.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/storage"
)

// NewCAS constructs a fresh, empty CAS instance for a test.
// The returned CAS MUST be isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("hello, corpus storage")

		id, err := cas.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.EntryCID(want)
		if err != nil {
			t.Fatalf("EntryCID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		gotID, err := cidutil.EntryCID(got)
		if err != nil {
			t.Fatalf("EntryCID(got) failed: %v", err)
		}
		if gotID != id {
			t.Fatalf("Get returned bytes not matching requested CID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("same bytes")

		id1, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := cas.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("missing")
		id, err := cidutil.EntryCID(b)
		if err != nil {
			t.Fatalf("EntryCID failed: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = cas.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		_, err = cas.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("DistinctBytesDistinctCIDs", func(t *testing.T) {
		cas := newCAS(t)
		a, err := cas.Put([]byte{0x00, 0x01})
		if err != nil {
			t.Fatalf("Put(a) failed: %v", err)
		}
		b, err := cas.Put([]byte{0x00, 0x02})
		if err != nil {
			t.Fatalf("Put(b) failed: %v", err)
		}
		if a == b {
			t.Fatalf("one-byte change kept the CID %s", a)
		}
	})

	t.Run("ListIfSupported", func(t *testing.T) {
		cas := newCAS(t)
		if _, ok := cas.(storage.Lister); !ok {
			t.Skip("store does not enumerate")
		}
		var want []cid.Cid
		for _, s := range []string{"one", "two", "three"} {
			id, err := cas.Put([]byte(s))
			if err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			want = append(want, id)
		}
		if _, err := cas.Put([]byte("two")); err != nil {
			t.Fatalf("Put(again) failed: %v", err)
		}
		got, err := storage.List(cas)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("List returned %d entries, want 3", len(got))
		}
		seen := map[cid.Cid]bool{}
		for _, id := range got {
			seen[id] = true
		}
		for _, id := range want {
			if !seen[id] {
				t.Fatalf("List missing %s", id)
			}
		}
		for i := 1; i < len(got); i++ {
			a, _ := cidutil.FilenameOf(got[i-1])
			b, _ := cidutil.FilenameOf(got[i])
			if a >= b {
				t.Fatalf("List not in filename order: %s then %s", a, b)
			}
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}
