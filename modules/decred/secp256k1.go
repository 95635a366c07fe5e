package decred

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

var curve = secp256k1.Params()

// fieldVal converts v in [0, p) to a normalized field element.
func fieldVal(v *big.Int) (secp256k1.FieldVal, bool) {
	var f secp256k1.FieldVal
	b, ok := modutil.FixedBytes(v, 32)
	if !ok {
		return f, false
	}
	if overflow := f.SetByteSlice(b); overflow {
		return f, false
	}
	return f, true
}

func fieldInt(f *secp256k1.FieldVal) *big.Int {
	f.Normalize()
	return new(big.Int).SetBytes(f.Bytes()[:])
}

// jacobian parses an affine point. (0, 0) yields the point at infinity.
func jacobian(xs, ys string) (secp256k1.JacobianPoint, bool) {
	var p secp256k1.JacobianPoint
	x, err := modutil.Coord(xs, curve.P)
	if err != nil {
		return p, false
	}
	y, err := modutil.Coord(ys, curve.P)
	if err != nil {
		return p, false
	}
	if modutil.IsInfinity(x, y) {
		return p, true
	}
	fx, ok := fieldVal(x)
	if !ok {
		return p, false
	}
	fy, ok := fieldVal(y)
	if !ok {
		return p, false
	}
	pub := secp256k1.NewPublicKey(&fx, &fy)
	if !pub.IsOnCurve() {
		return p, false
	}
	pub.AsJacobian(&p)
	return p, true
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

func affine(p *secp256k1.JacobianPoint) component.ECCPoint {
	if isInfinity(p) {
		return modutil.Point(nil, nil)
	}
	p.ToAffine()
	return modutil.Point(fieldInt(&p.X), fieldInt(&p.Y))
}

// scalar reduces v modulo the group order.
func scalar(v *big.Int) secp256k1.ModNScalar {
	var s secp256k1.ModNScalar
	r := new(big.Int).Mod(v, curve.N)
	b, _ := modutil.FixedBytes(r, 32)
	s.SetByteSlice(b)
	return s
}

func verify(o *operation.ECDSAVerify) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	msg := o.Cleartext
	if o.DigestType != repository.DigestNULL {
		newHash, ok := verifyDigests[o.DigestType]
		if !ok {
			return module.Unsupportedf("digest %d", o.DigestType)
		}
		msg = modutil.HashInChunks(newHash(), o.Cleartext, o.Modifier)
	}
	v, err := modutil.Ints(o.PubX, o.PubY, o.SigR, o.SigS)
	if err != nil {
		return modutil.Unparseable("signature", err)
	}
	x, y, r, s := v[0], v[1], v[2], v[3]

	fx, okx := fieldValChecked(x)
	fy, oky := fieldValChecked(y)
	if !okx || !oky {
		return module.Value(component.Bool(false))
	}
	pub := secp256k1.NewPublicKey(&fx, &fy)
	if !pub.IsOnCurve() {
		return module.Value(component.Bool(false))
	}

	var sr, ss secp256k1.ModNScalar
	if !setScalarStrict(&sr, r) || !setScalarStrict(&ss, s) {
		return module.Value(component.Bool(false))
	}
	return module.Value(component.Bool(ecdsa.NewSignature(&sr, &ss).Verify(msg, pub)))
}

func fieldValChecked(v *big.Int) (secp256k1.FieldVal, bool) {
	if v.Sign() < 0 || v.Cmp(curve.P) >= 0 {
		return secp256k1.FieldVal{}, false
	}
	return fieldVal(v)
}

// setScalarStrict sets s to v when v is in [1, n-1].
func setScalarStrict(s *secp256k1.ModNScalar, v *big.Int) bool {
	if v.Sign() <= 0 {
		return false
	}
	b, ok := modutil.FixedBytes(v, 32)
	if !ok {
		return false
	}
	return !s.SetByteSlice(b)
}

func privateToPublic(o *operation.ECCPrivateToPublic) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	k, err := modutil.PrivateKey(o.Priv, curve.N)
	if err != nil {
		return modutil.Unparseable("private key", err)
	}
	var s secp256k1.ModNScalar
	if !setScalarStrict(&s, k) {
		return module.Unsupported("private key out of range")
	}
	var p secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&s, &p)
	return module.Value(affine(&p))
}

func validate(o *operation.ECCValidatePubkey) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	v, err := modutil.Ints(o.PubX, o.PubY)
	if err != nil {
		return modutil.Unparseable("public key", err)
	}
	fx, okx := fieldValChecked(v[0])
	fy, oky := fieldValChecked(v[1])
	if !okx || !oky {
		return module.Value(component.Bool(false))
	}
	return module.Value(component.Bool(secp256k1.NewPublicKey(&fx, &fy).IsOnCurve()))
}

func pointAdd(o *operation.ECCPointAdd) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	a, ok := jacobian(o.AX, o.AY)
	if !ok {
		return module.Unsupported("point A invalid")
	}
	b, ok := jacobian(o.BX, o.BY)
	if !ok {
		return module.Unsupported("point B invalid")
	}
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a, &b, &r)
	return module.Value(affine(&r))
}

func pointMul(o *operation.ECCPointMul) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	p, ok := jacobian(o.AX, o.AY)
	if !ok {
		return module.Unsupported("point invalid")
	}
	k, err := modutil.Scalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	if isInfinity(&p) {
		return module.Value(modutil.Point(nil, nil))
	}
	s := scalar(k)
	if s.IsZero() {
		return module.Value(modutil.Point(nil, nil))
	}
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s, &p, &r)
	return module.Value(affine(&r))
}

func pointDbl(o *operation.ECCPointDbl) module.Result {
	if o.CurveType != repository.Secp256k1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	p, ok := jacobian(o.AX, o.AY)
	if !ok {
		return module.Unsupported("point invalid")
	}
	if isInfinity(&p) {
		return module.Value(modutil.Point(nil, nil))
	}
	var r secp256k1.JacobianPoint
	secp256k1.DoubleNonConst(&p, &r)
	return module.Value(affine(&r))
}
