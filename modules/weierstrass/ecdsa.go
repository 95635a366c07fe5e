package weierstrass

import (
	"math/big"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// hashToInt takes the leftmost bits of hash, as many as the order has.
func hashToInt(hash []byte, n *big.Int) *big.Int {
	e := new(big.Int).SetBytes(hash)
	if excess := len(hash)*8 - n.BitLen(); excess > 0 {
		e.Rsh(e, uint(excess))
	}
	return e
}

func (m *Module) verify(o *operation.ECDSAVerify) module.Result {
	d, ok := m.domains[o.CurveType]
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
	return module.Value(component.Bool(d.verify(msg, v[0], v[1], v[2], v[3])))
}

func (d *domain) verify(hash []byte, x, y, r, s *big.Int) bool {
	if !d.validKey(x, y) {
		return false
	}
	for _, v := range []*big.Int{r, s} {
		if v.Sign() <= 0 || v.Cmp(d.n) >= 0 {
			return false
		}
	}
	e := hashToInt(hash, d.n)
	w := new(big.Int).ModInverse(s, d.n)
	if w == nil {
		return false
	}
	u1 := e.Mul(e, w)
	u1.Mod(u1, d.n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, d.n)

	q := point[*big.Int]{x: x, y: y}
	rp := d.add(d.mul(d.g, u1), d.mul(q, u2))
	if rp.inf {
		return false
	}
	v := new(big.Int).Mod(rp.x, d.n)
	return v.Cmp(r) == 0
}
