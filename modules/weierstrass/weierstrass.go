// Package weierstrass is a reference backend that evaluates elliptic curve
// operations with plain affine arithmetic over math/big. It serves every
// curve whose domain parameters are complete in the registry, and the
// BLS12-381 G1 and G2 groups.
//
// Nothing here is optimized or constant time. The value of the backend is
// that it shares no code with the libraries it is compared against.
package weierstrass

import (
	"context"
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
		ID:          repository.ModuleWeierstrass,
		Name:        "weierstrass",
		Description: "reference affine arithmetic over math/big",
		New: func(reg *repository.Registry) (module.Module, error) {
			return New(reg), nil
		},
	})
}

var digests = map[repository.DigestID]func() hash.Hash{
	repository.DigestSHA1:       sha1.New,
	repository.DigestSHA224:     sha256.New224,
	repository.DigestSHA256:     sha256.New,
	repository.DigestSHA384:     sha512.New384,
	repository.DigestSHA512:     sha512.New,
	repository.DigestSHA512_224: sha512.New512_224,
	repository.DigestSHA512_256: sha512.New512_256,
}

// domain is a curve with a base point of prime order n.
type domain struct {
	curve[*big.Int]
	p, n *big.Int
	g    point[*big.Int]
}

type Module struct {
	caps    module.Capabilities
	domains map[repository.CurveID]*domain
	g2      curve[fp2elt]
}

// New builds the backend from the curves in reg that carry complete domain
// parameters. A nil reg means repository.Default.
func New(reg *repository.Registry) *Module {
	if reg == nil {
		reg = repository.Default()
	}
	m := &Module{
		caps: module.NewCapabilities(
			operation.KindECDSAVerify,
			operation.KindECCPrivateToPublic,
			operation.KindECCValidatePubkey,
			operation.KindECCPointAdd,
			operation.KindECCPointMul,
			operation.KindECCPointDbl,
			operation.KindBLSG1Add,
			operation.KindBLSG1Mul,
			operation.KindBLSG1Neg,
			operation.KindBLSG2Add,
			operation.KindBLSG2Mul,
			operation.KindBLSG2Neg,
		),
		domains: make(map[repository.CurveID]*domain),
	}
	for _, c := range reg.Curves() {
		d, ok := c.Domain()
		if !ok {
			continue
		}
		f := fp{p: d.P}
		m.domains[c.ID] = &domain{
			curve: curve[*big.Int]{f: f, a: f.reduce(new(big.Int).Set(d.A)), b: f.reduce(new(big.Int).Set(d.B))},
			p:     d.P,
			n:     d.N,
			g:     point[*big.Int]{x: d.Gx, y: d.Gy},
		}
	}
	if d, ok := m.domains[repository.BLS12_381]; ok {
		// The G2 twist is y^2 = x^3 + b*(1 + u).
		f2 := fp2{base: fp{p: d.p}}
		m.g2 = curve[fp2elt]{f: f2, a: f2.zero(), b: fp2elt{d.b, d.b}}
	}
	return m
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleWeierstrass }
func (*Module) Name() string                        { return "weierstrass" }
func (m *Module) Capabilities() module.Capabilities { return m.caps }
func (*Module) SupportsModularBignumCalc() bool     { return false }

func (m *Module) Attempt(ctx context.Context, op operation.Operation) module.Result {
	if err := ctx.Err(); err != nil {
		return module.Unsupported(err.Error())
	}
	switch o := op.(type) {
	case *operation.ECDSAVerify:
		return m.verify(o)
	case *operation.ECCPrivateToPublic:
		return m.privateToPublic(o)
	case *operation.ECCValidatePubkey:
		return m.validate(o)
	case *operation.ECCPointAdd:
		return m.binary(o.CurveType, o.AX, o.AY, o.BX, o.BY)
	case *operation.ECCPointMul:
		return m.scalarMul(o.CurveType, o.AX, o.AY, o.B)
	case *operation.ECCPointDbl:
		d, p, res, ok := m.point(o.CurveType, o.AX, o.AY)
		if !ok {
			return res
		}
		return eccResult(d.double(p))
	case *operation.BLSG1Add:
		if o.CurveType != repository.BLS12_381 {
			return module.Unsupportedf("curve %d", o.CurveType)
		}
		return g1(m.binary(o.CurveType, o.AX, o.AY, o.BX, o.BY))
	case *operation.BLSG1Mul:
		if o.CurveType != repository.BLS12_381 {
			return module.Unsupportedf("curve %d", o.CurveType)
		}
		return g1(m.scalarMul(o.CurveType, o.AX, o.AY, o.B))
	case *operation.BLSG1Neg:
		if o.CurveType != repository.BLS12_381 {
			return module.Unsupportedf("curve %d", o.CurveType)
		}
		d, p, res, ok := m.point(o.CurveType, o.AX, o.AY)
		if !ok {
			return res
		}
		return g1(eccResult(d.neg(p)))
	case *operation.BLSG2Add:
		return m.g2Add(o)
	case *operation.BLSG2Mul:
		return m.g2Mul(o)
	case *operation.BLSG2Neg:
		return m.g2Neg(o)
	}
	return module.Unsupportedf("operation %s", op.Kind())
}

// point parses an affine point on a known curve. (0, 0) is the identity.
func (m *Module) point(id repository.CurveID, xs, ys string) (*domain, point[*big.Int], module.Result, bool) {
	d, ok := m.domains[id]
	if !ok {
		return nil, point[*big.Int]{}, module.Unsupportedf("curve %d", id), false
	}
	x, err := modutil.Coord(xs, d.p)
	if err != nil {
		return nil, point[*big.Int]{}, modutil.Unparseable("x", err), false
	}
	y, err := modutil.Coord(ys, d.p)
	if err != nil {
		return nil, point[*big.Int]{}, modutil.Unparseable("y", err), false
	}
	if modutil.IsInfinity(x, y) {
		return d, d.infinity(), module.Result{}, true
	}
	p := point[*big.Int]{x: x, y: y}
	if !d.onCurve(p) {
		return nil, point[*big.Int]{}, module.Unsupported("point not on curve"), false
	}
	return d, p, module.Result{}, true
}

func eccResult(p point[*big.Int]) module.Result {
	if p.inf {
		return module.Value(modutil.Point(nil, nil))
	}
	return module.Value(modutil.Point(p.x, p.y))
}

// g1 converts an ECC_Point result into a G1 result.
func g1(r module.Result) module.Result {
	if r.Status != module.StatusValue {
		return r
	}
	p := r.Value.(component.ECCPoint)
	return module.Value(component.G1{X: p.X, Y: p.Y})
}

func (m *Module) binary(id repository.CurveID, ax, ay, bx, by string) module.Result {
	d, a, res, ok := m.point(id, ax, ay)
	if !ok {
		return res
	}
	_, b, res, ok := m.point(id, bx, by)
	if !ok {
		return res
	}
	return eccResult(d.add(a, b))
}

func (m *Module) scalarMul(id repository.CurveID, ax, ay, ks string) module.Result {
	d, p, res, ok := m.point(id, ax, ay)
	if !ok {
		return res
	}
	k, err := modutil.Scalar(ks)
	if err != nil {
		return modutil.Unparseable("scalar", err)
	}
	return eccResult(d.mul(p, k))
}

func (m *Module) privateToPublic(o *operation.ECCPrivateToPublic) module.Result {
	d, ok := m.domains[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	k, err := modutil.PrivateKey(o.Priv, d.n)
	if err != nil {
		return modutil.Unparseable("private key", err)
	}
	return eccResult(d.mul(d.g, k))
}

func (m *Module) validate(o *operation.ECCValidatePubkey) module.Result {
	d, ok := m.domains[o.CurveType]
	if !ok {
		return module.Unsupportedf("curve %d", o.CurveType)
	}
	v, err := modutil.Ints(o.PubX, o.PubY)
	if err != nil {
		return modutil.Unparseable("public key", err)
	}
	return module.Value(component.Bool(d.validKey(v[0], v[1])))
}

// validKey reports whether (x, y) is a finite point on the curve with
// coordinates in [0, p).
func (d *domain) validKey(x, y *big.Int) bool {
	for _, c := range []*big.Int{x, y} {
		if c.Sign() < 0 || c.Cmp(d.p) >= 0 {
			return false
		}
	}
	if modutil.IsInfinity(x, y) {
		return false
	}
	return d.onCurve(point[*big.Int]{x: x, y: y})
}
