package circl

import (
	"math/big"

	"github.com/cloudflare/circl/ecc/p384"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

var (
	curve  = p384.P384()
	params = curve.Params()
)

// point parses an affine P-384 point. (0, 0) is accepted as the identity.
func point(id repository.CurveID, xs, ys string) (x, y *big.Int, res module.Result, ok bool) {
	if id != repository.Secp384r1 {
		return nil, nil, module.Unsupportedf("curve %d", id), false
	}
	x, err := modutil.Coord(xs, params.P)
	if err != nil {
		return nil, nil, modutil.Unparseable("x", err), false
	}
	y, err = modutil.Coord(ys, params.P)
	if err != nil {
		return nil, nil, modutil.Unparseable("y", err), false
	}
	if !curve.IsAtInfinity(x, y) && !curve.IsOnCurve(x, y) {
		return nil, nil, module.Unsupported("point not on curve"), false
	}
	return x, y, module.Result{}, true
}

func affine(x, y *big.Int) module.Result {
	if curve.IsAtInfinity(x, y) {
		return module.Value(modutil.Point(nil, nil))
	}
	return module.Value(modutil.Point(x, y))
}

func privateToPublic(o *operation.ECCPrivateToPublic) module.Result {
	if o.CurveType != repository.Secp384r1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	k, err := modutil.PrivateKey(o.Priv, params.N)
	if err != nil {
		return modutil.Unparseable("private key", err)
	}
	return affine(curve.ScalarBaseMult(k.Bytes()))
}

func validate(o *operation.ECCValidatePubkey) module.Result {
	if o.CurveType != repository.Secp384r1 {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	v, err := modutil.Ints(o.PubX, o.PubY)
	if err != nil {
		return modutil.Unparseable("public key", err)
	}
	x, y := v[0], v[1]
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(params.P) >= 0 || y.Cmp(params.P) >= 0 {
		return module.Value(component.Bool(false))
	}
	return module.Value(component.Bool(curve.IsOnCurve(x, y)))
}

func pointAdd(o *operation.ECCPointAdd) module.Result {
	ax, ay, res, ok := point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	bx, by, res, ok := point(o.CurveType, o.BX, o.BY)
	if !ok {
		return res
	}
	return affine(curve.Add(ax, ay, bx, by))
}

func pointMul(o *operation.ECCPointMul) module.Result {
	x, y, res, ok := point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	k, err := modutil.Scalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	if curve.IsAtInfinity(x, y) {
		return affine(x, y)
	}
	return affine(curve.ScalarMult(x, y, k.Bytes()))
}

func pointDbl(o *operation.ECCPointDbl) module.Result {
	x, y, res, ok := point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	if curve.IsAtInfinity(x, y) {
		return affine(x, y)
	}
	return affine(curve.Double(x, y))
}
