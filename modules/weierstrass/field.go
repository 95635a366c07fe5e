package weierstrass

import "math/big"

// field is arithmetic over elements of type E. Elements are immutable:
// every operation returns a fresh value.
type field[E any] interface {
	zero() E
	fromInt(v int64) E
	add(a, b E) E
	sub(a, b E) E
	mul(a, b E) E
	// inv returns the inverse of a non-zero a.
	inv(a E) E
	isZero(a E) bool
	equal(a, b E) bool
}

// fp is the prime field GF(p).
type fp struct{ p *big.Int }

func (f fp) zero() *big.Int           { return new(big.Int) }
func (f fp) fromInt(v int64) *big.Int { return f.reduce(big.NewInt(v)) }
func (f fp) reduce(v *big.Int) *big.Int {
	return v.Mod(v, f.p)
}
func (f fp) add(a, b *big.Int) *big.Int { return f.reduce(new(big.Int).Add(a, b)) }
func (f fp) sub(a, b *big.Int) *big.Int { return f.reduce(new(big.Int).Sub(a, b)) }
func (f fp) mul(a, b *big.Int) *big.Int { return f.reduce(new(big.Int).Mul(a, b)) }
func (f fp) inv(a *big.Int) *big.Int    { return new(big.Int).ModInverse(a, f.p) }
func (f fp) isZero(a *big.Int) bool     { return a.Sign() == 0 }
func (f fp) equal(a, b *big.Int) bool   { return a.Cmp(b) == 0 }

// fp2elt is c0 + c1*u in GF(p^2) = GF(p)[u]/(u^2 + 1).
type fp2elt struct{ c0, c1 *big.Int }

type fp2 struct{ base fp }

func (f fp2) zero() fp2elt { return fp2elt{new(big.Int), new(big.Int)} }
func (f fp2) fromInt(v int64) fp2elt {
	return fp2elt{f.base.fromInt(v), new(big.Int)}
}

func (f fp2) add(a, b fp2elt) fp2elt {
	return fp2elt{f.base.add(a.c0, b.c0), f.base.add(a.c1, b.c1)}
}

func (f fp2) sub(a, b fp2elt) fp2elt {
	return fp2elt{f.base.sub(a.c0, b.c0), f.base.sub(a.c1, b.c1)}
}

func (f fp2) mul(a, b fp2elt) fp2elt {
	b0 := f.base
	return fp2elt{
		b0.sub(b0.mul(a.c0, b.c0), b0.mul(a.c1, b.c1)),
		b0.add(b0.mul(a.c0, b.c1), b0.mul(a.c1, b.c0)),
	}
}

// inv uses 1/(c0 + c1*u) = (c0 - c1*u)/(c0^2 + c1^2).
func (f fp2) inv(a fp2elt) fp2elt {
	b0 := f.base
	norm := b0.inv(b0.add(b0.mul(a.c0, a.c0), b0.mul(a.c1, a.c1)))
	return fp2elt{b0.mul(a.c0, norm), b0.mul(b0.sub(b0.zero(), a.c1), norm)}
}

func (f fp2) isZero(a fp2elt) bool { return a.c0.Sign() == 0 && a.c1.Sign() == 0 }
func (f fp2) equal(a, b fp2elt) bool {
	return a.c0.Cmp(b.c0) == 0 && a.c1.Cmp(b.c1) == 0
}
