package storage

import (
	"sort"

	"github.com/ipfs/go-cid"

	"xdao.co/cryptodiff/cidutil"
)

// union lists every store and merges the results, ordered by filename.
// Stores that cannot enumerate are skipped; at least one must succeed.
func union(stores []CAS) ([]cid.Cid, error) {
	seen := map[cid.Cid]string{}
	listed := false
	for _, s := range stores {
		if s == nil {
			continue
		}
		ids, err := List(s)
		if err == ErrNotListable {
			continue
		}
		if err != nil {
			return nil, err
		}
		listed = true
		for _, id := range ids {
			name, err := cidutil.FilenameOf(id)
			if err != nil {
				return nil, err
			}
			seen[id] = name
		}
	}
	if !listed {
		return nil, ErrNotListable
	}
	out := make([]cid.Cid, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return seen[out[i]] < seen[out[j]] })
	return out, nil
}
