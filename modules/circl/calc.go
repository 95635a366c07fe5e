package circl

import (
	"math/big"
	"slices"

	"github.com/cloudflare/circl/ecc/bls12381/ff"
	"github.com/cloudflare/circl/math/fp25519"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// field adapts one CIRCL field element type to the calculator.
type field[E any] struct {
	modulus *big.Int
	load    func(v *big.Int) E
	store   func(e *E) *big.Int
	add     func(z, x, y *E)
	sub     func(z, x, y *E)
	mul     func(z, x, y *E)
	inv     func(z, x *E)
}

var p25519 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

var curve25519Field = field[fp25519.Elt]{
	modulus: p25519,
	load: func(v *big.Int) fp25519.Elt {
		var e fp25519.Elt
		b, _ := modutil.FixedBytes(v, fp25519.Size)
		slices.Reverse(b)
		copy(e[:], b)
		return e
	},
	store: func(e *fp25519.Elt) *big.Int {
		b := make([]byte, fp25519.Size)
		_ = fp25519.ToBytes(b, e)
		slices.Reverse(b)
		return new(big.Int).SetBytes(b)
	},
	add: fp25519.Add,
	sub: fp25519.Sub,
	mul: fp25519.Mul,
	inv: fp25519.Inv,
}

var blsBaseField = field[ff.Fp]{
	modulus: fpOrder,
	load: func(v *big.Int) ff.Fp {
		var e ff.Fp
		e.SetBytes(v.Bytes())
		return e
	},
	store: func(e *ff.Fp) *big.Int {
		b, _ := e.MarshalBinary()
		return new(big.Int).SetBytes(b)
	},
	add: func(z, x, y *ff.Fp) { z.Add(x, y) },
	sub: func(z, x, y *ff.Fp) { z.Sub(x, y) },
	mul: func(z, x, y *ff.Fp) { z.Mul(x, y) },
	inv: func(z, x *ff.Fp) { z.Inv(x) },
}

var blsScalarField = field[ff.Scalar]{
	modulus: scalarOrder,
	load: func(v *big.Int) ff.Scalar {
		var e ff.Scalar
		e.SetBytes(v.Bytes())
		return e
	},
	store: func(e *ff.Scalar) *big.Int {
		b, _ := e.MarshalBinary()
		return new(big.Int).SetBytes(b)
	},
	add: func(z, x, y *ff.Scalar) { z.Add(x, y) },
	sub: func(z, x, y *ff.Scalar) { z.Sub(x, y) },
	mul: func(z, x, y *ff.Scalar) { z.Mul(x, y) },
	inv: func(z, x *ff.Scalar) { z.Inv(x) },
}

func calc(op *operation.BignumCalc) module.Result {
	bn, err := modutil.Ints(op.BN[:]...)
	if err != nil {
		return modutil.Unparseable("operand", err)
	}
	switch op.Modulo {
	case operation.Mod25519:
		return calcIn(curve25519Field, op.CalcOp, bn)
	case operation.ModBLS12381P:
		return calcIn(blsBaseField, op.CalcOp, bn)
	case operation.ModBLS12381R:
		return calcIn(blsScalarField, op.CalcOp, bn)
	}
	return module.Unsupportedf("modulus %s", op.Kind())
}

// calcIn evaluates op in the field f. Operands are reduced first; the
// exponent of ExpMod is used unreduced. Outputs never alias inputs.
func calcIn[E any](f field[E], op repository.CalcOpID, bn []*big.Int) module.Result {
	ai := modutil.Reduce(bn[0], f.modulus)
	bi := modutil.Reduce(bn[1], f.modulus)
	a, b := f.load(ai), f.load(bi)
	var z E

	switch op {
	case repository.CalcAdd:
		f.add(&z, &a, &b)
	case repository.CalcSub:
		f.sub(&z, &a, &b)
	case repository.CalcMul:
		f.mul(&z, &a, &b)
	case repository.CalcSqr:
		f.mul(&z, &a, &a)
	case repository.CalcNeg:
		zero := f.load(new(big.Int))
		f.sub(&z, &zero, &a)
	case repository.CalcSet:
		z = a
	case repository.CalcDiv:
		if bi.Sign() == 0 {
			return module.Unsupported("divisor not invertible")
		}
		var inv E
		f.inv(&inv, &b)
		f.mul(&z, &a, &inv)
	case repository.CalcInvMod:
		// Inversion by exponentiation maps zero to zero.
		f.inv(&z, &a)
	case repository.CalcExpMod:
		e := bn[1]
		if e.Sign() < 0 {
			return module.Unsupported("negative exponent")
		}
		acc := f.load(big.NewInt(1))
		for i := e.BitLen() - 1; i >= 0; i-- {
			f.mul(&z, &acc, &acc)
			if e.Bit(i) == 1 {
				f.mul(&acc, &z, &a)
			} else {
				acc = z
			}
		}
		z = acc
	case repository.CalcIsEq:
		return module.Value(modutil.Bool(ai.Cmp(bi) == 0))
	case repository.CalcIsZero:
		return module.Value(modutil.Bool(ai.Sign() == 0))
	case repository.CalcIsOne:
		return module.Value(modutil.Bool(ai.Cmp(big.NewInt(1)) == 0))
	default:
		return module.Unsupportedf("calc op %d in modular arithmetic", op)
	}
	return module.Value(component.BignumFromInt(f.store(&z)))
}
