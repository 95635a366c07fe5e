// Package localfs stores corpus entries as plain files in one directory.
//
// Each entry is named by the lowercase hex sha1 of its bytes, with no
// extension, which is the layout fuzzing engines expect of a seed corpus.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/cryptodiff/cidutil"
	"xdao.co/cryptodiff/storage"
)

// CAS is a local filesystem-backed content-addressable store.
//
// Entries are immutable. A write is published atomically: bytes go to a
// temporary file in the same directory which is then linked into place,
// so a reader never observes a partial entry and an existing entry is never
// replaced.
type CAS struct {
	root string
}

var (
	_ storage.CAS    = (*CAS)(nil)
	_ storage.Lister = (*CAS)(nil)
)

// New constructs a filesystem CAS rooted at root. The directory will be created if needed.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: root}, nil
}

// Root returns the corpus directory.
func (c *CAS) Root() string { return c.root }

func (c *CAS) Put(data []byte) (cid.Cid, error) {
	id, err := cidutil.EntryCID(data)
	if err != nil {
		return cid.Undef, err
	}
	path, err := c.Path(id)
	if err != nil {
		return cid.Undef, err
	}

	if _, err := os.Lstat(path); err == nil {
		return id, c.sameAs(id, data)
	}

	tmp, err := os.CreateTemp(c.root, ".put-*")
	if err != nil {
		return cid.Undef, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Close(); err != nil {
		return cid.Undef, err
	}
	if err := os.Chmod(tmpPath, 0o444); err != nil {
		return cid.Undef, err
	}

	// Link fails if the name exists, so a concurrent writer of the same
	// entry can never be overwritten.
	if err := os.Link(tmpPath, path); err != nil {
		if os.IsExist(err) {
			return id, c.sameAs(id, data)
		}
		return cid.Undef, err
	}
	return id, nil
}

// sameAs checks that the entry already stored under id holds data.
func (c *CAS) sameAs(id cid.Cid, data []byte) error {
	existing, err := c.Get(id)
	if err != nil {
		// Unreadable or corrupted entries are never repaired in place.
		return storage.ErrImmutable
	}
	if !bytes.Equal(existing, data) {
		return storage.ErrImmutable
	}
	return nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	path, err := c.Path(id)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.EntryCID(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	path, err := c.Path(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// List returns the CIDs of all entries. Files whose names are not entry
// digests (temporaries, editor droppings) are ignored.
func (c *CAS) List() ([]cid.Cid, error) {
	ents, err := os.ReadDir(c.root)
	if err != nil {
		return nil, err
	}
	out := make([]cid.Cid, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() {
			continue
		}
		id, err := cidutil.FromFilename(e.Name())
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// Path returns the file an entry is stored under.
func (c *CAS) Path(id cid.Cid) (string, error) {
	name, err := cidutil.FilenameOf(id)
	if err != nil {
		return "", storage.ErrInvalidCID
	}
	return filepath.Join(c.root, name), nil
}
