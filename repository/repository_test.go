package repository

import (
	"math/big"
	"testing"
)

func TestDefaultRegistryLookups(t *testing.T) {
	r := Default()

	c, ok := r.CurveByName("secp256k1")
	if !ok || c.ID != Secp256k1 {
		t.Fatalf("CurveByName(secp256k1) = %+v, %v", c, ok)
	}
	if c.Bits != 256 {
		t.Fatalf("secp256k1 bits = %d", c.Bits)
	}
	if c.Gx != "55066263022277343669578718895168534326250603453777594175500187360389116729240" {
		t.Fatalf("secp256k1 Gx = %s", c.Gx)
	}

	d, ok := r.Digest(DigestSHA256)
	if !ok || d.Name != "SHA256" || d.Size != 32 {
		t.Fatalf("Digest(SHA256) = %+v, %v", d, ok)
	}
	op, ok := r.CalcOpByName("InvMod(A,B)")
	if !ok || op.ID != CalcInvMod || op.Arity != 2 {
		t.Fatalf("CalcOpByName(InvMod) = %+v, %v", op, ok)
	}
	m, ok := r.Module(ModuleCircl)
	if !ok || m.Name != "circl" {
		t.Fatalf("Module(circl) = %+v, %v", m, ok)
	}
	if _, ok := r.Curve(CurveID(9999)); ok {
		t.Fatalf("unknown curve resolved")
	}
}

func TestCurvesSortedAndCopied(t *testing.T) {
	r := Default()
	cs := r.Curves()
	for i := 1; i < len(cs); i++ {
		if cs[i-1].ID >= cs[i].ID {
			t.Fatalf("curves not in ID order at %d", i)
		}
	}
	cs[0].Name = "mutated"
	if c, _ := r.Curve(cs[0].ID); c.Name == "mutated" {
		t.Fatalf("Curves exposed internal storage")
	}
}

func TestGeneratorsOnCurve(t *testing.T) {
	for _, c := range Default().Curves() {
		d, ok := c.Domain()
		if !ok {
			if c.HasGenerator() {
				t.Fatalf("%s has generator but incomplete domain", c.Name)
			}
			continue
		}
		// y^2 == x^3 + ax + b (mod p)
		lhs := new(big.Int).Mul(d.Gy, d.Gy)
		lhs.Mod(lhs, d.P)
		rhs := new(big.Int).Exp(d.Gx, big.NewInt(3), d.P)
		rhs.Add(rhs, new(big.Int).Mul(d.A, d.Gx))
		rhs.Add(rhs, d.B)
		rhs.Mod(rhs, d.P)
		if lhs.Cmp(rhs) != 0 {
			t.Fatalf("%s generator not on curve", c.Name)
		}
		if d.P.BitLen() != c.Bits {
			t.Fatalf("%s bits = %d, p has %d", c.Name, c.Bits, d.P.BitLen())
		}
	}
}

func TestCompleteMetadataCount(t *testing.T) {
	n := 0
	for _, c := range Default().Curves() {
		if c.HasGenerator() {
			n++
		}
	}
	if n != 7 {
		t.Fatalf("curves with generator metadata = %d, want 7", n)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(Tables{Curves: []Curve{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}})
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
	_, err = NewRegistry(Tables{Digests: []Digest{{ID: 1, Name: "a"}, {ID: 2, Name: "a"}}})
	if err == nil {
		t.Fatalf("expected duplicate name error")
	}
	_, err = NewRegistry(Tables{CalcOps: []CalcOp{{ID: 1}}})
	if err == nil {
		t.Fatalf("expected missing name error")
	}
}
