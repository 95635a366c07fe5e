// Package repository holds the identifier tables shared by the operation codec,
// the backends and the corpus generator: curves, digests, calculator operators
// and module identifiers.
//
// A Registry is built once and never mutated. It is passed explicitly to the
// components that need it rather than consulted as global state.
package repository

import (
	"fmt"
	"math/big"
	"sort"
)

type (
	CurveID  uint64
	DigestID uint64
	CalcOpID uint64
	ModuleID uint64
)

// Curve describes an elliptic curve. Numeric fields are decimal text; an empty
// field means the value is not known to the registry. Bits is 0 when unknown.
type Curve struct {
	ID    CurveID
	Name  string
	Bits  int
	P     string
	A     string
	B     string
	Gx    string
	Gy    string
	Order string
}

// HasGenerator reports whether the generator coordinates and bit length are known.
func (c Curve) HasGenerator() bool {
	return c.Gx != "" && c.Gy != "" && c.Bits > 0
}

// Domain is the short-Weierstrass domain y^2 = x^3 + Ax + B over GF(P) with
// base point (Gx, Gy) of order N.
type Domain struct {
	P, A, B, Gx, Gy, N *big.Int
	Bits               int
}

// Domain parses the curve's parameters. ok is false when any is missing.
func (c Curve) Domain() (Domain, bool) {
	fields := []string{c.P, c.A, c.B, c.Gx, c.Gy, c.Order}
	ints := make([]*big.Int, len(fields))
	for i, s := range fields {
		if s == "" {
			return Domain{}, false
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Domain{}, false
		}
		ints[i] = v
	}
	return Domain{P: ints[0], A: ints[1], B: ints[2], Gx: ints[3], Gy: ints[4], N: ints[5], Bits: c.Bits}, true
}

// Digest describes a message digest. Size is the output length in bytes; 0 for NULL.
type Digest struct {
	ID   DigestID
	Name string
	Size int
}

// CalcOp describes a bignum calculator operator and how many operands it reads.
type CalcOp struct {
	ID    CalcOpID
	Name  string
	Arity int
}

// Module names a backend identifier.
type Module struct {
	ID   ModuleID
	Name string
}

// Registry is an immutable set of lookup tables.
type Registry struct {
	curves  []Curve
	digests []Digest
	calcOps []CalcOp
	modules []Module

	curveByID    map[CurveID]int
	curveByName  map[string]int
	digestByID   map[DigestID]int
	digestByName map[string]int
	calcByID     map[CalcOpID]int
	calcByName   map[string]int
	moduleByID   map[ModuleID]int
	moduleByName map[string]int
}

// Tables is the raw input to NewRegistry.
type Tables struct {
	Curves  []Curve
	Digests []Digest
	CalcOps []CalcOp
	Modules []Module
}

// NewRegistry validates t and builds a Registry. IDs and names must be unique
// within each table.
func NewRegistry(t Tables) (*Registry, error) {
	r := &Registry{
		curves:       append([]Curve(nil), t.Curves...),
		digests:      append([]Digest(nil), t.Digests...),
		calcOps:      append([]CalcOp(nil), t.CalcOps...),
		modules:      append([]Module(nil), t.Modules...),
		curveByID:    map[CurveID]int{},
		curveByName:  map[string]int{},
		digestByID:   map[DigestID]int{},
		digestByName: map[string]int{},
		calcByID:     map[CalcOpID]int{},
		calcByName:   map[string]int{},
		moduleByID:   map[ModuleID]int{},
		moduleByName: map[string]int{},
	}
	sort.Slice(r.curves, func(i, j int) bool { return r.curves[i].ID < r.curves[j].ID })
	sort.Slice(r.digests, func(i, j int) bool { return r.digests[i].ID < r.digests[j].ID })
	sort.Slice(r.calcOps, func(i, j int) bool { return r.calcOps[i].ID < r.calcOps[j].ID })
	sort.Slice(r.modules, func(i, j int) bool { return r.modules[i].ID < r.modules[j].ID })

	for i, c := range r.curves {
		if err := index(r.curveByID, r.curveByName, c.ID, c.Name, i, "curve"); err != nil {
			return nil, err
		}
	}
	for i, d := range r.digests {
		if err := index(r.digestByID, r.digestByName, d.ID, d.Name, i, "digest"); err != nil {
			return nil, err
		}
	}
	for i, c := range r.calcOps {
		if err := index(r.calcByID, r.calcByName, c.ID, c.Name, i, "calc op"); err != nil {
			return nil, err
		}
	}
	for i, m := range r.modules {
		if err := index(r.moduleByID, r.moduleByName, m.ID, m.Name, i, "module"); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func index[K comparable](byID map[K]int, byName map[string]int, id K, name string, i int, what string) error {
	if name == "" {
		return fmt.Errorf("repository: %s %v has no name", what, id)
	}
	if _, dup := byID[id]; dup {
		return fmt.Errorf("repository: duplicate %s id %v", what, id)
	}
	if _, dup := byName[name]; dup {
		return fmt.Errorf("repository: duplicate %s name %q", what, name)
	}
	byID[id] = i
	byName[name] = i
	return nil
}

func (r *Registry) Curve(id CurveID) (Curve, bool) {
	i, ok := r.curveByID[id]
	if !ok {
		return Curve{}, false
	}
	return r.curves[i], true
}

func (r *Registry) CurveByName(name string) (Curve, bool) {
	i, ok := r.curveByName[name]
	if !ok {
		return Curve{}, false
	}
	return r.curves[i], true
}

// Curves returns every curve in ID order.
func (r *Registry) Curves() []Curve { return append([]Curve(nil), r.curves...) }

func (r *Registry) Digest(id DigestID) (Digest, bool) {
	i, ok := r.digestByID[id]
	if !ok {
		return Digest{}, false
	}
	return r.digests[i], true
}

func (r *Registry) DigestByName(name string) (Digest, bool) {
	i, ok := r.digestByName[name]
	if !ok {
		return Digest{}, false
	}
	return r.digests[i], true
}

// Digests returns every digest in ID order.
func (r *Registry) Digests() []Digest { return append([]Digest(nil), r.digests...) }

func (r *Registry) CalcOp(id CalcOpID) (CalcOp, bool) {
	i, ok := r.calcByID[id]
	if !ok {
		return CalcOp{}, false
	}
	return r.calcOps[i], true
}

func (r *Registry) CalcOpByName(name string) (CalcOp, bool) {
	i, ok := r.calcByName[name]
	if !ok {
		return CalcOp{}, false
	}
	return r.calcOps[i], true
}

// CalcOps returns every calculator operator in ID order.
func (r *Registry) CalcOps() []CalcOp { return append([]CalcOp(nil), r.calcOps...) }

func (r *Registry) Module(id ModuleID) (Module, bool) {
	i, ok := r.moduleByID[id]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

func (r *Registry) ModuleByName(name string) (Module, bool) {
	i, ok := r.moduleByName[name]
	if !ok {
		return Module{}, false
	}
	return r.modules[i], true
}

// Modules returns every module identifier in ID order.
func (r *Registry) Modules() []Module { return append([]Module(nil), r.modules...) }
