package circl

import (
	"math/big"

	"github.com/cloudflare/circl/ecc/bls12381"
	"github.com/cloudflare/circl/ecc/bls12381/ff"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

var (
	fpOrder     = new(big.Int).SetBytes(ff.FpOrder())
	scalarOrder = new(big.Int).SetBytes(ff.ScalarOrder())
)

// The serialized header bits live in the top three bits of the first byte.
const (
	headerMask   = 0x1f
	infinityFlag = 0x40
	fpSize       = ff.FpSize
	notInGroup   = "point not in group"
)

// fpBytes parses a base field element into its 48-byte big-endian encoding.
func fpBytes(s string) ([]byte, bool, error) {
	v, err := modutil.Coord(s, fpOrder)
	if err != nil {
		return nil, false, err
	}
	b, _ := modutil.FixedBytes(v, fpSize)
	return b, v.Sign() == 0, nil
}

func fpText(b []byte) component.Bignum {
	return component.BignumFromInt(new(big.Int).SetBytes(b))
}

// blsScalar reduces a non-negative scalar modulo the group order.
func blsScalar(s string) (*bls12381.Scalar, error) {
	k, err := modutil.Scalar(s)
	if err != nil {
		return nil, err
	}
	b, _ := modutil.FixedBytes(modutil.Reduce(k, scalarOrder), ff.ScalarSize)
	sc := new(bls12381.Scalar)
	sc.SetBytes(b)
	return sc, nil
}

func g1Point(curve repository.CurveID, xs, ys string) (*bls12381.G1, module.Result, bool) {
	if curve != repository.BLS12_381 {
		return nil, module.Unsupportedf("curve %d", curve), false
	}
	x, xZero, err := fpBytes(xs)
	if err != nil {
		return nil, modutil.Unparseable("x", err), false
	}
	y, yZero, err := fpBytes(ys)
	if err != nil {
		return nil, modutil.Unparseable("y", err), false
	}
	g := new(bls12381.G1)
	if xZero && yZero {
		g.SetIdentity()
		return g, module.Result{}, true
	}
	if err := g.SetBytes(append(x, y...)); err != nil {
		return nil, module.Unsupported(notInGroup), false
	}
	return g, module.Result{}, true
}

func g1Result(g *bls12381.G1) module.Result {
	b := g.Bytes()
	if b[0]&infinityFlag != 0 {
		return module.Value(component.G1{X: "0", Y: "0"})
	}
	b[0] &= headerMask
	return module.Value(component.G1{X: fpText(b[:fpSize]), Y: fpText(b[fpSize:])})
}

func g1Add(o *operation.BLSG1Add) module.Result {
	a, res, ok := g1Point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	b, res, ok := g1Point(o.CurveType, o.BX, o.BY)
	if !ok {
		return res
	}
	var r bls12381.G1
	r.Add(a, b)
	return g1Result(&r)
}

func g1Mul(o *operation.BLSG1Mul) module.Result {
	a, res, ok := g1Point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	k, err := blsScalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	var r bls12381.G1
	r.ScalarMult(k, a)
	return g1Result(&r)
}

func g1Neg(o *operation.BLSG1Neg) module.Result {
	a, res, ok := g1Point(o.CurveType, o.AX, o.AY)
	if !ok {
		return res
	}
	a.Neg()
	return g1Result(a)
}

// g2Point builds a G2 element. CIRCL serializes an Fp2 element as the
// imaginary part followed by the real part.
func g2Point(curve repository.CurveID, p operation.G2Point) (*bls12381.G2, module.Result, bool) {
	if curve != repository.BLS12_381 {
		return nil, module.Unsupportedf("curve %d", curve), false
	}
	var (
		buf  = make([]byte, 0, 4*fpSize)
		zero = true
	)
	for _, s := range []string{p.W, p.V, p.Y, p.X} {
		b, isZero, err := fpBytes(s)
		if err != nil {
			return nil, modutil.Unparseable("coordinate", err), false
		}
		buf = append(buf, b...)
		zero = zero && isZero
	}
	g := new(bls12381.G2)
	if zero {
		g.SetIdentity()
		return g, module.Result{}, true
	}
	if err := g.SetBytes(buf); err != nil {
		return nil, module.Unsupported(notInGroup), false
	}
	return g, module.Result{}, true
}

func g2Result(g *bls12381.G2) module.Result {
	b := g.Bytes()
	if b[0]&infinityFlag != 0 {
		return module.Value(component.G2{V: "0", W: "0", X: "0", Y: "0"})
	}
	b[0] &= headerMask
	return module.Value(component.G2{
		W: fpText(b[:fpSize]),
		V: fpText(b[fpSize : 2*fpSize]),
		Y: fpText(b[2*fpSize : 3*fpSize]),
		X: fpText(b[3*fpSize:]),
	})
}

func g2Add(o *operation.BLSG2Add) module.Result {
	a, res, ok := g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	b, res, ok := g2Point(o.CurveType, o.B)
	if !ok {
		return res
	}
	var r bls12381.G2
	r.Add(a, b)
	return g2Result(&r)
}

func g2Mul(o *operation.BLSG2Mul) module.Result {
	a, res, ok := g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	k, err := blsScalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	var r bls12381.G2
	r.ScalarMult(k, a)
	return g2Result(&r)
}

func g2Neg(o *operation.BLSG2Neg) module.Result {
	a, res, ok := g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	a.Neg()
	return g2Result(a)
}
