package decred

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/math/uint256"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

var (
	two256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// word parses an operand that must fit in an unsigned 256-bit integer.
func word(s string) (*uint256.Uint256, bool) {
	v, err := modutil.Int(s)
	if err != nil || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, false
	}
	return new(uint256.Uint256).SetBig(v), true
}

func wordResult(n *uint256.Uint256) module.Result {
	return module.Value(component.BignumFromInt(n.ToBig()))
}

func boolResult(b bool) module.Result { return module.Value(modutil.Bool(b)) }

// calc evaluates the subset of plain integer arithmetic expressible in 256
// unsigned bits. Negative operands and overflowing results are unsupported;
// modular results never overflow.
func calc(op *operation.BignumCalc) module.Result {
	var w [3]*uint256.Uint256
	for i := range w {
		v, ok := word(op.BN[i])
		if !ok {
			return module.Unsupported("operand outside uint256")
		}
		w[i] = v
	}
	a, b, c := w[0], w[1], w[2]
	z := new(uint256.Uint256)

	switch op.CalcOp {
	case repository.CalcAdd:
		z.Add2(a, b)
		if z.Lt(a) {
			return module.Unsupported("overflow")
		}
	case repository.CalcSub:
		if a.Lt(b) {
			return module.Unsupported("negative result")
		}
		z.Sub2(a, b)
	case repository.CalcMul:
		if !mulFits(a, b) {
			return module.Unsupported("overflow")
		}
		z.Mul2(a, b)
	case repository.CalcSqr:
		if !mulFits(a, a) {
			return module.Unsupported("overflow")
		}
		z.SquareVal(a)
	case repository.CalcDiv:
		if b.IsZero() {
			return module.Unsupported("division by zero")
		}
		z.Div2(a, b)
	case repository.CalcMod:
		if b.IsZero() {
			return module.Unsupported("modulus zero")
		}
		z.Set(mod(a, b))
	case repository.CalcSet, repository.CalcAbs:
		z.Set(a)
	case repository.CalcIsEq:
		return boolResult(a.Eq(b))
	case repository.CalcCmp:
		return module.Value(component.BignumFromInt(big.NewInt(int64(a.Cmp(b)))))
	case repository.CalcIsZero:
		return boolResult(a.IsZero())
	case repository.CalcIsOne:
		return boolResult(a.EqUint64(1))
	case repository.CalcIsOdd:
		return boolResult(a.IsOdd())
	case repository.CalcIsEven:
		return boolResult(!a.IsOdd())
	case repository.CalcIsNeg:
		return boolResult(false)
	case repository.CalcLShift1:
		if a.BitLen() == 256 {
			return module.Unsupported("overflow")
		}
		z.LshVal(a, 1)
	case repository.CalcRShift:
		if b.GtEq(new(uint256.Uint256).SetUint64(uint64(a.BitLen()))) {
			break
		}
		z.RshVal(a, b.Uint32())
	case repository.CalcAnd:
		z.Set(a).And(b)
	case repository.CalcOr:
		z.Set(a).Or(b)
	case repository.CalcXor:
		z.Set(a).Xor(b)
	case repository.CalcNumBits:
		z.SetUint64(uint64(a.BitLen()))
	case repository.CalcBit:
		if b.GtEq(new(uint256.Uint256).SetUint64(uint64(a.BitLen()))) {
			break
		}
		t := new(uint256.Uint256).RshVal(a, b.Uint32())
		if t.IsOdd() {
			z.SetUint64(1)
		}
	case repository.CalcAddMod, repository.CalcSubMod, repository.CalcMulMod:
		if c.IsZero() {
			return module.Unsupported("modulus out of range")
		}
		return modArith(op.CalcOp, a, b, c)
	case repository.CalcSqrMod:
		if b.IsZero() {
			return module.Unsupported("modulus out of range")
		}
		return modArith(repository.CalcMulMod, a, a, b)
	case repository.CalcExpMod:
		if c.IsZero() {
			return module.Unsupported("modulus out of range")
		}
		z.Set(expMod(mod(a, c), b, c))
	case repository.CalcInvMod:
		if b.IsZero() {
			return module.Unsupported("modulus out of range")
		}
		z.Set(invMod(a, b))
	case repository.CalcGCD:
		z.Set(gcd(a, b))
	default:
		return module.Unsupportedf("calc op %d", op.CalcOp)
	}
	return wordResult(z)
}

func mulFits(a, b *uint256.Uint256) bool {
	return int(a.BitLen())+int(b.BitLen()) <= 256 || a.IsZero() || b.IsZero()
}

// mod returns a mod b for b != 0.
func mod(a, b *uint256.Uint256) *uint256.Uint256 {
	q := new(uint256.Uint256).Div2(a, b)
	q.Mul(b)
	return new(uint256.Uint256).Sub2(a, q)
}

// modArith handles the three-operand modular ops.
func modArith(op repository.CalcOpID, a, b, c *uint256.Uint256) module.Result {
	a, b = mod(a, c), mod(b, c)
	var z *uint256.Uint256
	switch op {
	case repository.CalcAddMod:
		z = addMod(a, b, c)
	case repository.CalcSubMod:
		z = subMod(a, b, c)
	default:
		z = mulMod(a, b, c)
	}
	return wordResult(z)
}

// addMod returns a+b mod c for a, b < c. The sum wraps at most once.
func addMod(a, b, c *uint256.Uint256) *uint256.Uint256 {
	z := new(uint256.Uint256).Add2(a, b)
	if z.Lt(a) || z.GtEq(c) {
		z.Sub(c)
	}
	return z
}

// subMod returns a-b mod c for a, b < c.
func subMod(a, b, c *uint256.Uint256) *uint256.Uint256 {
	z := new(uint256.Uint256)
	if a.Lt(b) {
		return z.Sub2(c, b).Add(a)
	}
	return z.Sub2(a, b)
}

// mulMod returns a*b mod c for a, b < c. Products wider than 256 bits are
// accumulated by double-and-add so nothing overflows.
func mulMod(a, b, c *uint256.Uint256) *uint256.Uint256 {
	if mulFits(a, b) {
		return mod(new(uint256.Uint256).Mul2(a, b), c)
	}
	z := new(uint256.Uint256)
	for i := int(b.BitLen()) - 1; i >= 0; i-- {
		z = addMod(z, z, c)
		if bit(b, i) {
			z = addMod(z, a, c)
		}
	}
	return z
}

// expMod returns a^e mod c for a < c by square-and-multiply. Like math/big,
// any power mod 1 is zero.
func expMod(a, e, c *uint256.Uint256) *uint256.Uint256 {
	z := new(uint256.Uint256)
	if c.EqUint64(1) {
		return z
	}
	z.SetUint64(1)
	for i := int(e.BitLen()) - 1; i >= 0; i-- {
		z = mulMod(z, z, c)
		if bit(e, i) {
			z = mulMod(z, a, c)
		}
	}
	return z
}

// invMod returns the inverse of a modulo m != 0 by the extended Euclidean
// algorithm, with the coefficients kept reduced mod m. It returns zero when
// no inverse exists or m is 1.
func invMod(a, m *uint256.Uint256) *uint256.Uint256 {
	if m.EqUint64(1) {
		return new(uint256.Uint256)
	}
	r0, r1 := new(uint256.Uint256).Set(m), mod(a, m)
	t0, t1 := new(uint256.Uint256), new(uint256.Uint256).SetUint64(1)
	for !r1.IsZero() {
		q := new(uint256.Uint256).Div2(r0, r1)
		r0, r1 = r1, new(uint256.Uint256).Sub2(r0, new(uint256.Uint256).Mul2(q, r1))
		t0, t1 = t1, subMod(t0, mulMod(mod(q, m), t1, m), m)
	}
	if !r0.EqUint64(1) {
		return new(uint256.Uint256)
	}
	return t0
}

func gcd(a, b *uint256.Uint256) *uint256.Uint256 {
	x, y := new(uint256.Uint256).Set(a), new(uint256.Uint256).Set(b)
	for !y.IsZero() {
		x, y = y, mod(x, y)
	}
	return x
}

func bit(n *uint256.Uint256, i int) bool {
	return new(uint256.Uint256).RshVal(n, uint32(i)).IsOdd()
}

// calc2Exp256 evaluates modular arithmetic in Z/2^256Z, which is the native
// wrapping behaviour of Uint256.
func calc2Exp256(op *operation.BignumCalc) module.Result {
	bn, err := modutil.Ints(op.BN[:]...)
	if err != nil {
		return modutil.Unparseable("operand", err)
	}
	a := new(uint256.Uint256).SetBig(modutil.Reduce(bn[0], two256))
	b := new(uint256.Uint256).SetBig(modutil.Reduce(bn[1], two256))
	z := new(uint256.Uint256)

	switch op.CalcOp {
	case repository.CalcAdd:
		z.Add2(a, b)
	case repository.CalcSub:
		z.Sub2(a, b)
	case repository.CalcMul:
		z.Mul2(a, b)
	case repository.CalcSqr:
		z.SquareVal(a)
	case repository.CalcNeg:
		z.NegateVal(a)
	case repository.CalcSet:
		z.Set(a)
	case repository.CalcDiv:
		inv, ok := inverse2Exp256(b)
		if !ok {
			return module.Unsupported("divisor not invertible")
		}
		z.Mul2(a, inv)
	case repository.CalcInvMod:
		if inv, ok := inverse2Exp256(a); ok {
			z.Set(inv)
		}
	case repository.CalcExpMod:
		e := bn[1]
		if e.Sign() < 0 {
			return module.Unsupported("negative exponent")
		}
		z.SetUint64(1)
		for i := e.BitLen() - 1; i >= 0; i-- {
			z.Square()
			if e.Bit(i) == 1 {
				z.Mul(a)
			}
		}
	case repository.CalcIsEq:
		return boolResult(a.Eq(b))
	case repository.CalcIsZero:
		return boolResult(a.IsZero())
	case repository.CalcIsOne:
		return boolResult(a.EqUint64(1))
	default:
		return module.Unsupportedf("calc op %d in modular arithmetic", op.CalcOp)
	}
	return wordResult(z)
}

// inverse2Exp256 returns the multiplicative inverse of an odd a modulo 2^256
// by Newton iteration. Each step doubles the number of correct low bits.
func inverse2Exp256(a *uint256.Uint256) (*uint256.Uint256, bool) {
	if !a.IsOdd() {
		return nil, false
	}
	// a*a == 1 mod 8, so x starts with three correct bits.
	x := new(uint256.Uint256).Set(a)
	two := new(uint256.Uint256).SetUint64(2)
	for i := 0; i < 7; i++ {
		t := new(uint256.Uint256).Mul2(a, x)
		t.Sub2(two, t)
		x.Mul(t)
	}
	return x, true
}

// calcField evaluates modular arithmetic in the secp256k1 base field.
func calcField(op *operation.BignumCalc) module.Result {
	bn, err := modutil.Ints(op.BN[:]...)
	if err != nil {
		return modutil.Unparseable("operand", err)
	}
	a, _ := fieldVal(modutil.Reduce(bn[0], curve.P))
	b, _ := fieldVal(modutil.Reduce(bn[1], curve.P))
	var z secp256k1.FieldVal

	switch op.CalcOp {
	case repository.CalcAdd:
		z.Add2(&a, &b)
	case repository.CalcSub:
		z.NegateVal(&b, 1).Add(&a)
	case repository.CalcMul:
		z.Mul2(&a, &b)
	case repository.CalcSqr:
		z.SquareVal(&a)
	case repository.CalcNeg:
		z.NegateVal(&a, 1)
	case repository.CalcSet:
		z.Set(&a)
	case repository.CalcDiv:
		if b.IsZero() {
			return module.Unsupported("divisor not invertible")
		}
		z.Set(&b).Inverse().Mul(&a)
	case repository.CalcInvMod:
		// The inverse of zero is zero.
		z.Set(&a).Inverse()
	case repository.CalcExpMod:
		e := bn[1]
		if e.Sign() < 0 {
			return module.Unsupported("negative exponent")
		}
		z.SetInt(1)
		for i := e.BitLen() - 1; i >= 0; i-- {
			z.Square()
			if e.Bit(i) == 1 {
				z.Mul(&a)
			}
			z.Normalize()
		}
	case repository.CalcIsEq:
		return boolResult(a.Equals(&b))
	case repository.CalcIsZero:
		return boolResult(a.IsZero())
	case repository.CalcIsOne:
		return boolResult(a.IsOne())
	default:
		return module.Unsupportedf("calc op %d in modular arithmetic", op.CalcOp)
	}
	return module.Value(component.BignumFromInt(fieldInt(&z)))
}
