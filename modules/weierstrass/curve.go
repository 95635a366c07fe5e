package weierstrass

import "math/big"

// point is an affine point. inf marks the point at infinity.
type point[E any] struct {
	x, y E
	inf  bool
}

// curve is y^2 = x^3 + a*x + b over f, computed in affine coordinates with
// the textbook chord-and-tangent formulas.
type curve[E any] struct {
	f    field[E]
	a, b E
}

func (c curve[E]) infinity() point[E] { return point[E]{inf: true} }

func (c curve[E]) onCurve(p point[E]) bool {
	if p.inf {
		return true
	}
	f := c.f
	lhs := f.mul(p.y, p.y)
	rhs := f.add(f.add(f.mul(f.mul(p.x, p.x), p.x), f.mul(c.a, p.x)), c.b)
	return f.equal(lhs, rhs)
}

func (c curve[E]) neg(p point[E]) point[E] {
	if p.inf {
		return p
	}
	return point[E]{x: p.x, y: c.f.sub(c.f.zero(), p.y)}
}

func (c curve[E]) add(p, q point[E]) point[E] {
	f := c.f
	switch {
	case p.inf:
		return q
	case q.inf:
		return p
	case f.equal(p.x, q.x):
		if f.equal(p.y, q.y) {
			return c.double(p)
		}
		return c.infinity()
	}
	l := f.mul(f.sub(q.y, p.y), f.inv(f.sub(q.x, p.x)))
	return c.chord(l, p, q)
}

func (c curve[E]) double(p point[E]) point[E] {
	f := c.f
	if p.inf || f.isZero(p.y) {
		return c.infinity()
	}
	xx := f.mul(p.x, p.x)
	num := f.add(f.add(f.add(xx, xx), xx), c.a)
	l := f.mul(num, f.inv(f.add(p.y, p.y)))
	return c.chord(l, p, p)
}

// chord completes an addition given the slope l through p and q.
func (c curve[E]) chord(l E, p, q point[E]) point[E] {
	f := c.f
	x := f.sub(f.sub(f.mul(l, l), p.x), q.x)
	y := f.sub(f.mul(l, f.sub(p.x, x)), p.y)
	return point[E]{x: x, y: y}
}

// mul computes k*p for k >= 0 by left-to-right double-and-add.
func (c curve[E]) mul(p point[E], k *big.Int) point[E] {
	r := c.infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = c.double(r)
		if k.Bit(i) == 1 {
			r = c.add(r, p)
		}
	}
	return r
}
