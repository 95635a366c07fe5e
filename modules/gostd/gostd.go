// Package gostd is the backend built on the Go standard library: crypto/*
// digests, crypto/ecdsa and crypto/elliptic for the NIST prime curves, and
// math/big for the bignum calculator.
package gostd

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"math/big"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func init() {
	module.MustRegister(module.Backend{
		ID:          repository.ModuleGoStd,
		Name:        "gostd",
		Description: "Go standard library (crypto/*, math/big)",
		New:         func(*repository.Registry) (module.Module, error) { return New(), nil },
	})
}

var digests = map[repository.DigestID]func() hash.Hash{
	repository.DigestMD5:        md5.New,
	repository.DigestSHA1:       sha1.New,
	repository.DigestSHA224:     sha256.New224,
	repository.DigestSHA256:     sha256.New,
	repository.DigestSHA384:     sha512.New384,
	repository.DigestSHA512:     sha512.New,
	repository.DigestSHA512_224: sha512.New512_224,
	repository.DigestSHA512_256: sha512.New512_256,
}

var curves = map[repository.CurveID]elliptic.Curve{
	repository.Secp224r1: elliptic.P224(),
	repository.Secp256r1: elliptic.P256(),
	repository.Secp384r1: elliptic.P384(),
	repository.Secp521r1: elliptic.P521(),
}

type Module struct {
	caps module.Capabilities
}

func New() *Module {
	return &Module{caps: module.NewCapabilities(
		operation.KindDigest,
		operation.KindECDSAVerify,
		operation.KindECCPrivateToPublic,
		operation.KindECCValidatePubkey,
		operation.KindECCPointAdd,
		operation.KindECCPointMul,
		operation.KindECCPointDbl,
		operation.KindBignumCalc,
		operation.KindBignumCalcMod2Exp256,
		operation.KindBignumCalcMod25519,
		operation.KindBignumCalcModBLS12381P,
		operation.KindBignumCalcModBLS12381R,
		operation.KindBignumCalcModSecp256k1,
	)}
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleGoStd }
func (*Module) Name() string                        { return "gostd" }
func (m *Module) Capabilities() module.Capabilities { return m.caps }
func (*Module) SupportsModularBignumCalc() bool     { return true }

func (m *Module) Attempt(ctx context.Context, op operation.Operation) module.Result {
	if err := ctx.Err(); err != nil {
		return module.Unsupported(err.Error())
	}
	switch o := op.(type) {
	case *operation.Digest:
		newHash, ok := digests[o.DigestType]
		if !ok {
			return module.Unsupportedf("digest %d", o.DigestType)
		}
		return module.Value(component.Digest(modutil.HashInChunks(newHash(), o.Cleartext, o.Modifier)))
	case *operation.ECDSAVerify:
		return verify(o)
	case *operation.ECCPrivateToPublic:
		return privateToPublic(o)
	case *operation.ECCValidatePubkey:
		return validate(o)
	case *operation.ECCPointAdd:
		return pointAdd(o)
	case *operation.ECCPointMul:
		return pointMul(o)
	case *operation.ECCPointDbl:
		return pointDbl(o)
	case *operation.BignumCalc:
		return calc(o)
	}
	return module.Unsupportedf("operation %s", op.Kind())
}

// point parses an affine input point. (0, 0) is accepted as infinity; any
// other point must be on the curve since crypto/elliptic panics otherwise.
func point(c elliptic.Curve, xs, ys string) (*big.Int, *big.Int, bool) {
	p := c.Params().P
	x, err := modutil.Coord(xs, p)
	if err != nil {
		return nil, nil, false
	}
	y, err := modutil.Coord(ys, p)
	if err != nil {
		return nil, nil, false
	}
	if !modutil.IsInfinity(x, y) && !c.IsOnCurve(x, y) {
		return nil, nil, false
	}
	return x, y, true
}

func verify(o *operation.ECDSAVerify) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	msg := o.Cleartext
	if o.DigestType != repository.DigestNULL {
		newHash, ok := digests[o.DigestType]
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
	if x.Sign() < 0 || y.Sign() < 0 || !c.IsOnCurve(x, y) {
		return module.Value(component.Bool(false))
	}
	pub := &ecdsa.PublicKey{Curve: c, X: x, Y: y}
	return module.Value(component.Bool(ecdsa.Verify(pub, msg, r, s)))
}

func privateToPublic(o *operation.ECCPrivateToPublic) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	k, err := modutil.PrivateKey(o.Priv, c.Params().N)
	if err != nil {
		return modutil.Unparseable("private key", err)
	}
	return module.Value(modutil.Point(c.ScalarBaseMult(k.Bytes())))
}

func validate(o *operation.ECCValidatePubkey) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	v, err := modutil.Ints(o.PubX, o.PubY)
	if err != nil {
		return modutil.Unparseable("public key", err)
	}
	if v[0].Sign() < 0 || v[1].Sign() < 0 {
		return module.Value(component.Bool(false))
	}
	return module.Value(component.Bool(c.IsOnCurve(v[0], v[1])))
}

func pointAdd(o *operation.ECCPointAdd) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	ax, ay, ok := point(c, o.AX, o.AY)
	if !ok {
		return module.Unsupported("point A invalid")
	}
	bx, by, ok := point(c, o.BX, o.BY)
	if !ok {
		return module.Unsupported("point B invalid")
	}
	return module.Value(modutil.Point(c.Add(ax, ay, bx, by)))
}

func pointMul(o *operation.ECCPointMul) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	x, y, ok := point(c, o.AX, o.AY)
	if !ok {
		return module.Unsupported("point invalid")
	}
	k, err := modutil.Scalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	k.Mod(k, c.Params().N)
	return module.Value(modutil.Point(c.ScalarMult(x, y, k.Bytes())))
}

func pointDbl(o *operation.ECCPointDbl) module.Result {
	c, ok := curves[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	x, y, ok := point(c, o.AX, o.AY)
	if !ok {
		return module.Unsupported("point invalid")
	}
	return module.Value(modutil.Point(c.Double(x, y)))
}
