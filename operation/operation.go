// Package operation defines the typed operations exercised against backends,
// their binary wire encoding, the envelope persisted to the corpus, and the
// structured key/value description used to author cases by hand.
//
// Decoding treats its input as untrusted: every failure is reported as an
// *Error in the Underrun or Malformed category and no partially decoded
// operation is ever returned.
package operation

import (
	"bytes"

	"xdao.co/cryptodiff/cursor"
	"xdao.co/cryptodiff/repository"
)

// Header carries the fields shared by every operation.
//
// Modifier is opaque per-module entropy. A backend may use it to choose an
// internal code path; it never changes the operation's meaning.
type Header struct {
	Modifier []byte
}

func (h *Header) header() *Header { return h }

// Operation is one fully parameterized computation. The set of
// implementations is closed; use a type switch on the concrete pointer types.
type Operation interface {
	Kind() Kind
	header() *Header
	fields() []field
}

// ModifierOf returns op's modifier bytes.
func ModifierOf(op Operation) []byte { return op.header().Modifier }

// SetModifier replaces op's modifier bytes.
func SetModifier(op Operation, m []byte) { op.header().Modifier = m }

type Digest struct {
	Header
	Cleartext  []byte
	DigestType repository.DigestID
}

func (*Digest) Kind() Kind { return KindDigest }

func (o *Digest) fields() []field {
	return []field{
		bytesField("cleartext", &o.Cleartext),
		idField("digestType", digestTable, (*uint64)(&o.DigestType)),
	}
}

// ECDSAVerify checks signature (SigR, SigS) over Cleartext, hashed with
// DigestType, against public key (PubX, PubY).
type ECDSAVerify struct {
	Header
	CurveType  repository.CurveID
	Cleartext  []byte
	PubX, PubY string
	SigR, SigS string
	DigestType repository.DigestID
}

func (*ECDSAVerify) Kind() Kind { return KindECDSAVerify }

func (o *ECDSAVerify) fields() []field {
	return []field{
		idField("curveType", curveTable, (*uint64)(&o.CurveType)),
		bytesField("cleartext", &o.Cleartext),
		bignumField("signature.pub[0]", &o.PubX),
		bignumField("signature.pub[1]", &o.PubY),
		bignumField("signature.signature[0]", &o.SigR),
		bignumField("signature.signature[1]", &o.SigS),
		idField("digestType", digestTable, (*uint64)(&o.DigestType)),
	}
}

type ECCPrivateToPublic struct {
	Header
	CurveType repository.CurveID
	Priv      string
}

func (*ECCPrivateToPublic) Kind() Kind { return KindECCPrivateToPublic }

func (o *ECCPrivateToPublic) fields() []field {
	return []field{
		idField("curveType", curveTable, (*uint64)(&o.CurveType)),
		bignumField("priv", &o.Priv),
	}
}

type ECCValidatePubkey struct {
	Header
	CurveType  repository.CurveID
	PubX, PubY string
}

func (*ECCValidatePubkey) Kind() Kind { return KindECCValidatePubkey }

func (o *ECCValidatePubkey) fields() []field {
	return []field{
		idField("curveType", curveTable, (*uint64)(&o.CurveType)),
		bignumField("pub_x", &o.PubX),
		bignumField("pub_y", &o.PubY),
	}
}

// BignumCalc applies CalcOp to up to four operands. Operands an operator does
// not read are still carried. Modulo selects the ring and thereby the kind;
// it is not written to the wire.
type BignumCalc struct {
	Header
	Modulo Modulo
	CalcOp repository.CalcOpID
	BN     [4]string
}

func (o *BignumCalc) Kind() Kind { return o.Modulo.Kind() }

func (o *BignumCalc) fields() []field {
	return []field{
		idField("calcOp", calcTable, (*uint64)(&o.CalcOp)),
		bignumField("bn1", &o.BN[0]),
		bignumField("bn2", &o.BN[1]),
		bignumField("bn3", &o.BN[2]),
		bignumField("bn4", &o.BN[3]),
	}
}

type ECCPointAdd struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
	BX, BY    string
}

func (*ECCPointAdd) Kind() Kind { return KindECCPointAdd }

func (o *ECCPointAdd) fields() []field {
	return pointPairFields(&o.CurveType, &o.AX, &o.AY, &o.BX, &o.BY)
}

type ECCPointMul struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
	B         string
}

func (*ECCPointMul) Kind() Kind { return KindECCPointMul }

func (o *ECCPointMul) fields() []field {
	return pointScalarFields(&o.CurveType, &o.AX, &o.AY, &o.B)
}

type ECCPointDbl struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
}

func (*ECCPointDbl) Kind() Kind { return KindECCPointDbl }

func (o *ECCPointDbl) fields() []field {
	return pointFields(&o.CurveType, &o.AX, &o.AY)
}

type BLSG1Add struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
	BX, BY    string
}

func (*BLSG1Add) Kind() Kind { return KindBLSG1Add }

func (o *BLSG1Add) fields() []field {
	return pointPairFields(&o.CurveType, &o.AX, &o.AY, &o.BX, &o.BY)
}

type BLSG1Mul struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
	B         string
}

func (*BLSG1Mul) Kind() Kind { return KindBLSG1Mul }

func (o *BLSG1Mul) fields() []field {
	return pointScalarFields(&o.CurveType, &o.AX, &o.AY, &o.B)
}

type BLSG1Neg struct {
	Header
	CurveType repository.CurveID
	AX, AY    string
}

func (*BLSG1Neg) Kind() Kind { return KindBLSG1Neg }

func (o *BLSG1Neg) fields() []field {
	return pointFields(&o.CurveType, &o.AX, &o.AY)
}

// G2Point is an affine G2 element in the (V, W, X, Y) layout of component.G2.
type G2Point struct {
	V, W, X, Y string
}

func (p *G2Point) fields(prefix string) []field {
	return []field{
		bignumField(prefix+"_v", &p.V),
		bignumField(prefix+"_w", &p.W),
		bignumField(prefix+"_x", &p.X),
		bignumField(prefix+"_y", &p.Y),
	}
}

type BLSG2Add struct {
	Header
	CurveType repository.CurveID
	A, B      G2Point
}

func (*BLSG2Add) Kind() Kind { return KindBLSG2Add }

func (o *BLSG2Add) fields() []field {
	fs := []field{idField("curveType", curveTable, (*uint64)(&o.CurveType))}
	fs = append(fs, o.A.fields("a")...)
	return append(fs, o.B.fields("b")...)
}

type BLSG2Mul struct {
	Header
	CurveType repository.CurveID
	A         G2Point
	B         string
}

func (*BLSG2Mul) Kind() Kind { return KindBLSG2Mul }

func (o *BLSG2Mul) fields() []field {
	fs := []field{idField("curveType", curveTable, (*uint64)(&o.CurveType))}
	fs = append(fs, o.A.fields("a")...)
	return append(fs, bignumField("b", &o.B))
}

type BLSG2Neg struct {
	Header
	CurveType repository.CurveID
	A         G2Point
}

func (*BLSG2Neg) Kind() Kind { return KindBLSG2Neg }

func (o *BLSG2Neg) fields() []field {
	fs := []field{idField("curveType", curveTable, (*uint64)(&o.CurveType))}
	return append(fs, o.A.fields("a")...)
}

func pointFields(curve *repository.CurveID, ax, ay *string) []field {
	return []field{
		idField("curveType", curveTable, (*uint64)(curve)),
		bignumField("a_x", ax),
		bignumField("a_y", ay),
	}
}

func pointPairFields(curve *repository.CurveID, ax, ay, bx, by *string) []field {
	return append(pointFields(curve, ax, ay),
		bignumField("b_x", bx),
		bignumField("b_y", by),
	)
}

func pointScalarFields(curve *repository.CurveID, ax, ay, b *string) []field {
	return append(pointFields(curve, ax, ay), bignumField("b", b))
}

// New returns a zero operation of kind k.
func New(k Kind) (Operation, bool) {
	switch k {
	case KindDigest:
		return &Digest{}, true
	case KindECDSAVerify:
		return &ECDSAVerify{}, true
	case KindECCPrivateToPublic:
		return &ECCPrivateToPublic{}, true
	case KindECCValidatePubkey:
		return &ECCValidatePubkey{}, true
	case KindECCPointAdd:
		return &ECCPointAdd{}, true
	case KindECCPointMul:
		return &ECCPointMul{}, true
	case KindECCPointDbl:
		return &ECCPointDbl{}, true
	case KindBLSG1Add:
		return &BLSG1Add{}, true
	case KindBLSG1Mul:
		return &BLSG1Mul{}, true
	case KindBLSG1Neg:
		return &BLSG1Neg{}, true
	case KindBLSG2Add:
		return &BLSG2Add{}, true
	case KindBLSG2Mul:
		return &BLSG2Mul{}, true
	case KindBLSG2Neg:
		return &BLSG2Neg{}, true
	}
	if m, ok := ModuloOf(k); ok {
		return &BignumCalc{Modulo: m}, true
	}
	return nil, false
}

// Bignums returns every bignum parameter of op in wire order.
func Bignums(op Operation) []string {
	var out []string
	for _, f := range op.fields() {
		if f.kind == fieldBignum {
			out = append(out, *f.str)
		}
	}
	return out
}

// Equal reports whether a and b have the same kind, modifier and parameters,
// field by field. Bignum text is compared literally.
func Equal(a, b Operation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if !bytes.Equal(ModifierOf(a), ModifierOf(b)) {
		return false
	}
	wa, wb := cursor.NewWriter(), cursor.NewWriter()
	Encode(a, wa)
	Encode(b, wb)
	return bytes.Equal(wa.Out(), wb.Out())
}
