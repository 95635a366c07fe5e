// Package modutil holds parameter conversions shared by the backends.
package modutil

import (
	"errors"
	"hash"
	"math/big"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
)

var (
	errNegative   = errors.New("negative value")
	errOutOfRange = errors.New("value out of range")
)

// Int parses decimal text. Empty text is zero.
func Int(s string) (*big.Int, error) {
	return component.ParseBignum(s)
}

// Ints parses every value or returns the first error.
func Ints(ss ...string) ([]*big.Int, error) {
	out := make([]*big.Int, len(ss))
	for i, s := range ss {
		v, err := Int(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Coord parses a coordinate that must lie in [0, p).
func Coord(s string, p *big.Int) (*big.Int, error) {
	v, err := Int(s)
	if err != nil {
		return nil, err
	}
	if v.Sign() < 0 {
		return nil, errNegative
	}
	if v.Cmp(p) >= 0 {
		return nil, errOutOfRange
	}
	return v, nil
}

// Scalar parses a non-negative scalar.
func Scalar(s string) (*big.Int, error) {
	v, err := Int(s)
	if err != nil {
		return nil, err
	}
	if v.Sign() < 0 {
		return nil, errNegative
	}
	return v, nil
}

// PrivateKey parses a private key that must lie in [1, n-1].
func PrivateKey(s string, n *big.Int) (*big.Int, error) {
	v, err := Int(s)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 || v.Cmp(n) >= 0 {
		return nil, errOutOfRange
	}
	return v, nil
}

// Reduce returns v mod m in [0, m).
func Reduce(v, m *big.Int) *big.Int {
	return new(big.Int).Mod(v, m)
}

// FixedBytes renders a non-negative v as exactly size big-endian bytes. ok is
// false when v does not fit.
func FixedBytes(v *big.Int, size int) ([]byte, bool) {
	if v.Sign() < 0 || (v.BitLen()+7)/8 > size {
		return nil, false
	}
	return v.FillBytes(make([]byte, size)), true
}

// Bool renders b as a Bignum result: "1" or "0".
func Bool(b bool) component.Bignum {
	if b {
		return "1"
	}
	return "0"
}

// Point renders an affine point result. A nil coordinate pair is the point
// at infinity.
func Point(x, y *big.Int) component.ECCPoint {
	if x == nil || y == nil {
		return component.ECCPoint{X: "0", Y: "0"}
	}
	return component.ECCPoint{X: component.BignumFromInt(x), Y: component.BignumFromInt(y)}
}

// IsInfinity reports whether (x, y) is the (0, 0) encoding of the point at
// infinity.
func IsInfinity(x, y *big.Int) bool {
	return x.Sign() == 0 && y.Sign() == 0
}

// HashInChunks feeds data to h split according to modifier and returns the
// digest.
func HashInChunks(h hash.Hash, data, modifier []byte) []byte {
	for _, c := range module.Chunks(data, modifier) {
		h.Write(c)
	}
	return h.Sum(nil)
}

// Unparseable is the result for a parameter a backend cannot represent.
func Unparseable(what string, err error) module.Result {
	return module.Unsupportedf("%s: %v", what, err)
}
