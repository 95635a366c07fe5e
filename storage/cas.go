// Package storage defines the content-addressed store that holds the
// regression corpus, plus combinators that fan reads and writes out over
// several stores.
package storage

import "github.com/ipfs/go-cid"

// CAS is a minimal content-addressable storage interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (see cidutil.EntryCID).
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Lister is implemented by stores that can enumerate their entries.
// List returns every stored CID in ascending filename order.
type Lister interface {
	List() ([]cid.Cid, error)
}

// List enumerates cas, or fails with ErrNotListable.
func List(cas CAS) ([]cid.Cid, error) {
	l, ok := cas.(Lister)
	if !ok {
		return nil, ErrNotListable
	}
	return l.List()
}
