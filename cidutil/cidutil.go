// Package cidutil maps corpus entries to content identifiers.
//
// A corpus entry is identified by a CIDv1 with the "raw" multicodec over a
// sha1 multihash of the envelope bytes. On disk the entry is named by the
// lowercase hex of that 160-bit digest, so the two forms convert losslessly.
package cidutil

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// DigestSize is the byte length of a corpus entry digest.
const DigestSize = 20

// ErrNotEntryCID is returned when a CID is not a raw sha1 CIDv1.
var ErrNotEntryCID = errors.New("cidutil: not a corpus entry CID")

// EntryCID returns the CIDv1 (raw + sha1) of data.
func EntryCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA1, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Filename returns the lowercase hex digest of data: the name an entry is
// stored under.
func Filename(data []byte) string {
	id, err := EntryCID(data)
	if err != nil {
		// multihash.Sum only fails for unknown codes or bad lengths.
		return ""
	}
	name, _ := FilenameOf(id)
	return name
}

// FilenameOf returns the hex digest carried by id.
func FilenameOf(id cid.Cid) (string, error) {
	if !id.Defined() || id.Prefix().Codec != cid.Raw {
		return "", ErrNotEntryCID
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return "", fmt.Errorf("cidutil: %w", err)
	}
	if dec.Code != multihash.SHA1 || len(dec.Digest) != DigestSize {
		return "", ErrNotEntryCID
	}
	return hex.EncodeToString(dec.Digest), nil
}

// FromFilename parses a hex digest back into the entry CID. Only lowercase
// names of exactly DigestSize bytes are accepted.
func FromFilename(name string) (cid.Cid, error) {
	if len(name) != 2*DigestSize {
		return cid.Undef, ErrNotEntryCID
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return cid.Undef, ErrNotEntryCID
		}
	}
	digest, err := hex.DecodeString(name)
	if err != nil {
		return cid.Undef, ErrNotEntryCID
	}
	mh, err := multihash.Encode(digest, multihash.SHA1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
