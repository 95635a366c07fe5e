package weierstrass

import (
	"math/big"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func (m *Module) g2Point(id repository.CurveID, g operation.G2Point) (point[fp2elt], module.Result, bool) {
	d, ok := m.domains[id]
	if !ok || id != repository.BLS12_381 {
		return point[fp2elt]{}, module.Unsupportedf("curve %d", id), false
	}
	var c [4]*big.Int
	for i, s := range []string{g.V, g.W, g.X, g.Y} {
		v, err := modutil.Coord(s, d.p)
		if err != nil {
			return point[fp2elt]{}, modutil.Unparseable("coordinate", err), false
		}
		c[i] = v
	}
	p := point[fp2elt]{x: fp2elt{c[0], c[1]}, y: fp2elt{c[2], c[3]}}
	if m.g2.f.isZero(p.x) && m.g2.f.isZero(p.y) {
		return m.g2.infinity(), module.Result{}, true
	}
	if !m.g2.onCurve(p) {
		return point[fp2elt]{}, module.Unsupported("point not on twist"), false
	}
	return p, module.Result{}, true
}

func g2Result(p point[fp2elt]) module.Result {
	if p.inf {
		return module.Value(component.G2{V: "0", W: "0", X: "0", Y: "0"})
	}
	return module.Value(component.G2{
		V: component.BignumFromInt(p.x.c0),
		W: component.BignumFromInt(p.x.c1),
		X: component.BignumFromInt(p.y.c0),
		Y: component.BignumFromInt(p.y.c1),
	})
}

func (m *Module) g2Add(o *operation.BLSG2Add) module.Result {
	a, res, ok := m.g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	b, res, ok := m.g2Point(o.CurveType, o.B)
	if !ok {
		return res
	}
	return g2Result(m.g2.add(a, b))
}

func (m *Module) g2Mul(o *operation.BLSG2Mul) module.Result {
	a, res, ok := m.g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	k, err := modutil.Scalar(o.B)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	return g2Result(m.g2.mul(a, k))
}

func (m *Module) g2Neg(o *operation.BLSG2Neg) module.Result {
	a, res, ok := m.g2Point(o.CurveType, o.A)
	if !ok {
		return res
	}
	return g2Result(m.g2.neg(a))
}
