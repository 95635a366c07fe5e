package gostd

import (
	"math/big"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

var one = big.NewInt(1)

func calc(op *operation.BignumCalc) module.Result {
	bn, err := modutil.Ints(op.BN[:]...)
	if err != nil {
		return modutil.Unparseable("operand", err)
	}
	if m := op.Modulo.Modulus(); m != nil {
		return calcMod(op.CalcOp, bn, m)
	}
	a, b, c := bn[0], bn[1], bn[2]
	z := new(big.Int)

	switch op.CalcOp {
	case repository.CalcAdd:
		z.Add(a, b)
	case repository.CalcSub:
		z.Sub(a, b)
	case repository.CalcMul:
		z.Mul(a, b)
	case repository.CalcDiv:
		if b.Sign() == 0 {
			return module.Unsupported("division by zero")
		}
		z.Quo(a, b)
	case repository.CalcMod:
		if b.Sign() == 0 {
			return module.Unsupported("modulus zero")
		}
		z.Mod(a, b)
	case repository.CalcExpMod:
		if c.Sign() <= 0 || b.Sign() < 0 {
			return module.Unsupported("exponent or modulus out of range")
		}
		z.Exp(new(big.Int).Mod(a, c), b, c)
	case repository.CalcInvMod:
		if b.Sign() <= 0 {
			return module.Unsupported("modulus out of range")
		}
		if b.Cmp(one) == 0 || z.ModInverse(new(big.Int).Mod(a, b), b) == nil {
			z.SetInt64(0)
		}
	case repository.CalcGCD:
		z.GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	case repository.CalcSqr:
		z.Mul(a, a)
	case repository.CalcNeg:
		z.Neg(a)
	case repository.CalcAbs:
		z.Abs(a)
	case repository.CalcSet:
		z.Set(a)
	case repository.CalcIsEq:
		return module.Value(modutil.Bool(a.Cmp(b) == 0))
	case repository.CalcCmp:
		z.SetInt64(int64(a.Cmp(b)))
	case repository.CalcIsZero:
		return module.Value(modutil.Bool(a.Sign() == 0))
	case repository.CalcIsOne:
		return module.Value(modutil.Bool(a.Cmp(one) == 0))
	case repository.CalcIsOdd:
		return module.Value(modutil.Bool(new(big.Int).Abs(a).Bit(0) == 1))
	case repository.CalcIsEven:
		return module.Value(modutil.Bool(new(big.Int).Abs(a).Bit(0) == 0))
	case repository.CalcIsNeg:
		return module.Value(modutil.Bool(a.Sign() < 0))
	case repository.CalcLShift1:
		z.Lsh(a, 1)
	case repository.CalcRShift:
		if a.Sign() < 0 || b.Sign() < 0 {
			return module.Unsupported("negative shift operand")
		}
		if b.Cmp(big.NewInt(int64(a.BitLen()))) >= 0 {
			break
		}
		z.Rsh(a, uint(b.Uint64()))
	case repository.CalcAnd, repository.CalcOr, repository.CalcXor:
		if a.Sign() < 0 || b.Sign() < 0 {
			return module.Unsupported("bitwise operation on negative operand")
		}
		switch op.CalcOp {
		case repository.CalcAnd:
			z.And(a, b)
		case repository.CalcOr:
			z.Or(a, b)
		default:
			z.Xor(a, b)
		}
	case repository.CalcSqrt:
		if a.Sign() < 0 {
			return module.Unsupported("square root of negative operand")
		}
		z.Sqrt(a)
	case repository.CalcNumBits:
		if a.Sign() < 0 {
			return module.Unsupported("bit length of negative operand")
		}
		z.SetInt64(int64(a.BitLen()))
	case repository.CalcBit:
		if a.Sign() < 0 || b.Sign() < 0 {
			return module.Unsupported("negative bit operand")
		}
		if b.Cmp(big.NewInt(int64(a.BitLen()))) >= 0 {
			break
		}
		z.SetUint64(uint64(a.Bit(int(b.Int64()))))
	case repository.CalcAddMod, repository.CalcSubMod, repository.CalcMulMod:
		if c.Sign() <= 0 {
			return module.Unsupported("modulus out of range")
		}
		switch op.CalcOp {
		case repository.CalcAddMod:
			z.Add(a, b)
		case repository.CalcSubMod:
			z.Sub(a, b)
		default:
			z.Mul(a, b)
		}
		z.Mod(z, c)
	case repository.CalcSqrMod:
		if b.Sign() <= 0 {
			return module.Unsupported("modulus out of range")
		}
		z.Mul(a, a)
		z.Mod(z, b)
	default:
		return module.Unsupportedf("calc op %d", op.CalcOp)
	}
	return module.Value(component.BignumFromInt(z))
}

// calcMod evaluates op in Z/mZ. Operands are reduced first.
func calcMod(op repository.CalcOpID, bn []*big.Int, m *big.Int) module.Result {
	a := modutil.Reduce(bn[0], m)
	b := modutil.Reduce(bn[1], m)
	z := new(big.Int)

	switch op {
	case repository.CalcAdd:
		z.Add(a, b)
	case repository.CalcSub:
		z.Sub(a, b)
	case repository.CalcMul:
		z.Mul(a, b)
	case repository.CalcSqr:
		z.Mul(a, a)
	case repository.CalcNeg:
		z.Neg(a)
	case repository.CalcSet:
		z.Set(a)
	case repository.CalcDiv:
		inv := new(big.Int).ModInverse(b, m)
		if b.Sign() == 0 || inv == nil {
			return module.Unsupported("divisor not invertible")
		}
		z.Mul(a, inv)
	case repository.CalcInvMod:
		if a.Sign() == 0 || z.ModInverse(a, m) == nil {
			z.SetInt64(0)
		}
	case repository.CalcExpMod:
		if bn[1].Sign() < 0 {
			return module.Unsupported("negative exponent")
		}
		z.Exp(a, bn[1], m)
	case repository.CalcIsEq:
		return module.Value(modutil.Bool(a.Cmp(b) == 0))
	case repository.CalcIsZero:
		return module.Value(modutil.Bool(a.Sign() == 0))
	case repository.CalcIsOne:
		return module.Value(modutil.Bool(a.Cmp(one) == 0))
	default:
		return module.Unsupportedf("calc op %d in modular arithmetic", op)
	}
	return module.Value(component.BignumFromInt(z.Mod(z, m)))
}
