package component

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// Kind tags a Value's representation.
type Kind string

const (
	KindBignum   Kind = "Bignum"
	KindECCPoint Kind = "ECC_Point"
	KindG1       Kind = "G1"
	KindG2       Kind = "G2"
	KindDigest   Kind = "Digest"
	KindBool     Kind = "Bool"
)

// Value is the result of an operation.
//
// Equal is an equivalence relation. Values of different kinds are never equal.
type Value interface {
	Kind() Kind
	Equal(other Value) bool
	String() string
}

// Bignum is a decimal integer in text form.
type Bignum string

// BignumFromInt renders v as a Bignum.
func BignumFromInt(v *big.Int) Bignum { return Bignum(v.String()) }

func (b Bignum) Kind() Kind { return KindBignum }

func (b Bignum) Equal(other Value) bool {
	o, ok := other.(Bignum)
	return ok && BignumEqual(string(b), string(o))
}

func (b Bignum) String() string { return string(b) }

// ECCPoint is an affine point. (0, 0) denotes the point at infinity.
type ECCPoint struct {
	X, Y Bignum
}

func (p ECCPoint) Kind() Kind { return KindECCPoint }

func (p ECCPoint) Equal(other Value) bool {
	o, ok := other.(ECCPoint)
	return ok && p.X.Equal(o.X) && p.Y.Equal(o.Y)
}

func (p ECCPoint) String() string { return fmt.Sprintf("(%s, %s)", p.X, p.Y) }

// G1 is an affine BLS12-381 G1 element.
type G1 struct {
	X, Y Bignum
}

func (g G1) Kind() Kind { return KindG1 }

func (g G1) Equal(other Value) bool {
	o, ok := other.(G1)
	return ok && g.X.Equal(o.X) && g.Y.Equal(o.Y)
}

func (g G1) String() string { return fmt.Sprintf("(%s, %s)", g.X, g.Y) }

// G2 is an affine BLS12-381 G2 element. X = V + W*u and Y = X' + Y'*u, so V
// and X carry the real parts and W and Y the imaginary parts.
type G2 struct {
	V, W, X, Y Bignum
}

func (g G2) Kind() Kind { return KindG2 }

func (g G2) Equal(other Value) bool {
	o, ok := other.(G2)
	return ok && g.V.Equal(o.V) && g.W.Equal(o.W) && g.X.Equal(o.X) && g.Y.Equal(o.Y)
}

func (g G2) String() string { return fmt.Sprintf("((%s, %s), (%s, %s))", g.V, g.W, g.X, g.Y) }

// Digest is a message digest output.
type Digest []byte

func (d Digest) Kind() Kind { return KindDigest }

func (d Digest) Equal(other Value) bool {
	o, ok := other.(Digest)
	return ok && bytes.Equal(d, o)
}

func (d Digest) String() string { return hex.EncodeToString(d) }

// Bool is the outcome of a verify-style operation.
type Bool bool

func (b Bool) Kind() Kind { return KindBool }

func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
