package decred

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"math/big"
	"math/rand"
	"testing"

	"github.com/decred/dcrd/crypto/blake256"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/gostd"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

const (
	gx  = "55066263022277343669578718895168534326250603453777594175500187360389116729240"
	gy  = "32670510020758816978083085130507043184471273380659243275938904335757337482424"
	g2x = "89565891926547004231252920425935692360644145829622209833684329913297188986597"
	g2y = "12158399299693830322967808612713398636155367887041628176798871954788371653930"
)

func attempt(t *testing.T, op operation.Operation) module.Result {
	t.Helper()
	return New().Attempt(context.Background(), op)
}

func mustValue(t *testing.T, r module.Result) component.Value {
	t.Helper()
	if r.Status != module.StatusValue {
		t.Fatalf("status = %s (%s)", r.Status, r.Reason)
	}
	return r.Value
}

func TestDigests(t *testing.T) {
	tests := []struct {
		digest repository.DigestID
		want   string
	}{
		{repository.DigestBLAKE256, "716f6e863f744b9ac22c97ec7b76ea5f5908bc5b2f67c61510bfc4751384ea7a"},
		{repository.DigestRIPEMD160, "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
	}
	for _, test := range tests {
		op := &operation.Digest{DigestType: test.digest}
		got := mustValue(t, attempt(t, op))
		if got.String() != test.want {
			t.Errorf("digest %d: got %s, want %s", test.digest, got, test.want)
		}
	}

	msg := []byte("the quick brown fox jumps over the lazy dog")
	whole := blake256.Sum256(msg)
	op := &operation.Digest{Header: operation.Header{Modifier: []byte{5, 0, 7}}, Cleartext: msg, DigestType: repository.DigestBLAKE256}
	if got := mustValue(t, attempt(t, op)); !got.Equal(component.Digest(whole[:])) {
		t.Fatalf("chunked digest = %s", got)
	}

	op.DigestType = repository.DigestSHA256
	if r := attempt(t, op); r.Status != module.StatusUnsupported {
		t.Fatalf("sha256 digest status = %s", r.Status)
	}
}

func TestPrivateToPublic(t *testing.T) {
	for priv, want := range map[string]component.ECCPoint{
		"1": {X: gx, Y: gy},
		"2": {X: g2x, Y: g2y},
	} {
		op := &operation.ECCPrivateToPublic{CurveType: repository.Secp256k1, Priv: priv}
		if got := mustValue(t, attempt(t, op)); !got.Equal(want) {
			t.Errorf("priv %s: got %s", priv, got)
		}
	}
	n := curve.N.String()
	for _, priv := range []string{"0", "-1", n} {
		op := &operation.ECCPrivateToPublic{CurveType: repository.Secp256k1, Priv: priv}
		if r := attempt(t, op); r.Status != module.StatusUnsupported {
			t.Errorf("priv %s: status = %s", priv, r.Status)
		}
	}
	op := &operation.ECCPrivateToPublic{CurveType: repository.Secp256r1, Priv: "1"}
	if r := attempt(t, op); r.Status != module.StatusUnsupported {
		t.Errorf("P-256 status = %s", r.Status)
	}
}

func TestPointOps(t *testing.T) {
	two := component.ECCPoint{X: g2x, Y: g2y}
	inf := component.ECCPoint{X: "0", Y: "0"}
	k1 := repository.Secp256k1

	add := &operation.ECCPointAdd{CurveType: k1, AX: gx, AY: gy, BX: gx, BY: gy}
	if got := mustValue(t, attempt(t, add)); !got.Equal(two) {
		t.Errorf("G+G = %s", got)
	}
	dbl := &operation.ECCPointDbl{CurveType: k1, AX: gx, AY: gy}
	if got := mustValue(t, attempt(t, dbl)); !got.Equal(two) {
		t.Errorf("2G = %s", got)
	}
	mul := &operation.ECCPointMul{CurveType: k1, AX: gx, AY: gy, B: "2"}
	if got := mustValue(t, attempt(t, mul)); !got.Equal(two) {
		t.Errorf("G*2 = %s", got)
	}
	mul.B = curve.N.String()
	if got := mustValue(t, attempt(t, mul)); !got.Equal(inf) {
		t.Errorf("G*n = %s", got)
	}
	withInf := &operation.ECCPointAdd{CurveType: k1, AX: gx, AY: gy, BX: "0", BY: "0"}
	if got := mustValue(t, attempt(t, withInf)); !got.Equal(component.ECCPoint{X: gx, Y: gy}) {
		t.Errorf("G+O = %s", got)
	}
	negY := new(big.Int).Sub(curve.P, mustInt(t, gy)).String()
	cancel := &operation.ECCPointAdd{CurveType: k1, AX: gx, AY: gy, BX: gx, BY: negY}
	if got := mustValue(t, attempt(t, cancel)); !got.Equal(inf) {
		t.Errorf("G-G = %s", got)
	}

	offCurve := &operation.ECCPointDbl{CurveType: k1, AX: gx, AY: "1"}
	if r := attempt(t, offCurve); r.Status != module.StatusUnsupported {
		t.Errorf("off-curve status = %s", r.Status)
	}
	outOfField := &operation.ECCPointDbl{CurveType: k1, AX: curve.P.String(), AY: gy}
	if r := attempt(t, outOfField); r.Status != module.StatusUnsupported {
		t.Errorf("x = p status = %s", r.Status)
	}
}

func TestValidatePubkey(t *testing.T) {
	tests := []struct {
		x, y string
		want bool
	}{
		{gx, gy, true},
		{g2x, g2y, true},
		{gx, g2y, false},
		{"0", "0", false},
		{curve.P.String(), gy, false},
	}
	for _, test := range tests {
		op := &operation.ECCValidatePubkey{CurveType: repository.Secp256k1, PubX: test.x, PubY: test.y}
		if got := mustValue(t, attempt(t, op)); !got.Equal(component.Bool(test.want)) {
			t.Errorf("(%s, %s): got %s", test.x, test.y, got)
		}
	}
}

func TestECDSAVerify(t *testing.T) {
	keyBytes, _ := hex.DecodeString("9e0d1a8f4c0b3b2e3d6b8a1c8b1f4f0e7a9c5d3e2b1a0f9e8d7c6b5a49382716")
	priv := secp256k1.PrivKeyFromBytes(keyBytes)
	pub := priv.PubKey()
	msg := []byte("cryptodiff")
	hash := blake256.Sum256(msg)
	sig := ecdsa.Sign(priv, hash[:])
	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()

	op := &operation.ECDSAVerify{
		CurveType:  repository.Secp256k1,
		Cleartext:  msg,
		PubX:       pub.X().String(),
		PubY:       pub.Y().String(),
		SigR:       new(big.Int).SetBytes(rb[:]).String(),
		SigS:       new(big.Int).SetBytes(sb[:]).String(),
		DigestType: repository.DigestBLAKE256,
	}
	if got := mustValue(t, attempt(t, op)); !got.Equal(component.Bool(true)) {
		t.Fatal("valid signature rejected")
	}

	null := *op
	null.Cleartext = hash[:]
	null.DigestType = repository.DigestNULL
	if got := mustValue(t, attempt(t, &null)); !got.Equal(component.Bool(true)) {
		t.Fatal("valid signature over NULL digest rejected")
	}

	tampered := *op
	tampered.Cleartext = []byte("cryptodifF")
	if got := mustValue(t, attempt(t, &tampered)); !got.Equal(component.Bool(false)) {
		t.Fatal("tampered message accepted")
	}

	for _, sv := range []string{"0", "-1", curve.N.String()} {
		bad := *op
		bad.SigS = sv
		if got := mustValue(t, attempt(t, &bad)); !got.Equal(component.Bool(false)) {
			t.Errorf("s = %s accepted", sv)
		}
	}

	off := *op
	off.PubY = "1"
	if got := mustValue(t, attempt(t, &off)); !got.Equal(component.Bool(false)) {
		t.Fatal("off-curve key accepted")
	}

	unsupported := *op
	unsupported.DigestType = repository.DigestSHA3_256
	if r := attempt(t, &unsupported); r.Status != module.StatusUnsupported {
		t.Fatalf("sha3 status = %s", r.Status)
	}
}

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad integer %q", s)
	}
	return v
}

func TestCalcModular(t *testing.T) {
	two256 := new(big.Int).Lsh(big.NewInt(1), 256)
	tests := []struct {
		name string
		mod  operation.Modulo
		op   repository.CalcOpID
		bn   [4]string
		want string
	}{
		{"wrap add", operation.Mod2Exp256, repository.CalcAdd, [4]string{new(big.Int).Sub(two256, big.NewInt(1)).String(), "2"}, "1"},
		{"neg", operation.Mod2Exp256, repository.CalcNeg, [4]string{"1"}, new(big.Int).Sub(two256, big.NewInt(1)).String()},
		{"inverse of 3", operation.Mod2Exp256, repository.CalcInvMod, [4]string{"3"}, "77194726158210796949047323339125271902179989777093709359638389338608753093291"},
		{"inverse of even", operation.Mod2Exp256, repository.CalcInvMod, [4]string{"4"}, "0"},
		{"div", operation.Mod2Exp256, repository.CalcDiv, [4]string{"21", "7"}, "3"},
		{"exp", operation.Mod2Exp256, repository.CalcExpMod, [4]string{"2", "255"}, new(big.Int).Lsh(big.NewInt(1), 255).String()},
		{"exp overflow", operation.Mod2Exp256, repository.CalcExpMod, [4]string{"2", "256"}, "0"},
		{"field inverse", operation.ModSecp256k1, repository.CalcInvMod, [4]string{"7"}, "99250362203413881791632272864589635302802843999120483462392214863921858289997"},
		{"field inverse of zero", operation.ModSecp256k1, repository.CalcInvMod, [4]string{"0"}, "0"},
		{"field exp", operation.ModSecp256k1, repository.CalcExpMod, [4]string{"5", "100000000000000000000"}, "29554557524070831700453212329860864627960628983653197936699198496421225504428"},
		{"field sub", operation.ModSecp256k1, repository.CalcSub, [4]string{"1", "2"}, new(big.Int).Sub(curve.P, big.NewInt(1)).String()},
		{"field reduce", operation.ModSecp256k1, repository.CalcSet, [4]string{"-1"}, new(big.Int).Sub(curve.P, big.NewInt(1)).String()},
	}
	for _, test := range tests {
		op := &operation.BignumCalc{Modulo: test.mod, CalcOp: test.op, BN: test.bn}
		got := mustValue(t, attempt(t, op))
		if !got.Equal(component.Bignum(test.want)) {
			t.Errorf("%s: got %s, want %s", test.name, got, test.want)
		}
	}

	div := &operation.BignumCalc{Modulo: operation.Mod2Exp256, CalcOp: repository.CalcDiv, BN: [4]string{"1", "2"}}
	if r := attempt(t, div); r.Status != module.StatusUnsupported {
		t.Errorf("even divisor status = %s", r.Status)
	}
	gcd := &operation.BignumCalc{Modulo: operation.ModSecp256k1, CalcOp: repository.CalcGCD, BN: [4]string{"1", "2"}}
	if r := attempt(t, gcd); r.Status != module.StatusUnsupported {
		t.Errorf("modular gcd status = %s", r.Status)
	}
}

// TestCalcAgreesWithBig checks every value this backend produces against the
// math/big backend over random operands of assorted widths.
func TestCalcAgreesWithBig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	operand := func() string {
		bits := []int{0, 1, 8, 64, 128, 255, 256, 257}[rng.Intn(8)]
		v := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
		if bits > 0 && rng.Intn(10) == 0 {
			v.Neg(v)
		}
		return v.String()
	}
	ref := gostd.New()
	mods := []operation.Modulo{operation.ModNone, operation.Mod2Exp256, operation.ModSecp256k1}
	for i := 0; i < 3000; i++ {
		op := &operation.BignumCalc{
			Modulo: mods[rng.Intn(len(mods))],
			CalcOp: repository.CalcOpID(1 + rng.Intn(int(repository.CalcSqrMod))),
			BN:     [4]string{operand(), operand(), operand(), operand()},
		}
		got := attempt(t, op)
		if got.Status != module.StatusValue {
			continue
		}
		want := ref.Attempt(context.Background(), op)
		if want.Status != module.StatusValue {
			t.Fatalf("%s %d %v: reference status = %s", op.Kind(), op.CalcOp, op.BN, want.Status)
		}
		if !got.Value.Equal(want.Value) {
			t.Fatalf("%s %d %v: got %s, want %s", op.Kind(), op.CalcOp, op.BN, got.Value, want.Value)
		}
	}
}

func TestCalcModularPlain(t *testing.T) {
	top := new(big.Int).Sub(two256, big.NewInt(1)).String()
	tests := []struct {
		name string
		op   repository.CalcOpID
		bn   [4]string
		want string
	}{
		{"gcrypt-invmod", repository.CalcInvMod, [4]string{"18446744073709551615", "340282366762482138434845932244680310781"}, "0"},
		{"inverse", repository.CalcInvMod, [4]string{"3", "7"}, "5"},
		{"inverse reduces first", repository.CalcInvMod, [4]string{"10", "7"}, "5"},
		{"inverse mod one", repository.CalcInvMod, [4]string{"3", "1"}, "0"},
		{"inverse of zero", repository.CalcInvMod, [4]string{"", "7"}, "0"},
		{"inverse wide", repository.CalcInvMod, [4]string{"2", top}, new(big.Int).Rsh(two256, 1).String()},
		{"gcd", repository.CalcGCD, [4]string{"12", "18"}, "6"},
		{"gcd of zeros", repository.CalcGCD, [4]string{"0", "0"}, "0"},
		{"gcd with zero", repository.CalcGCD, [4]string{"0", "9"}, "9"},
		{"exp", repository.CalcExpMod, [4]string{"4", "13", "497"}, "445"},
		{"exp zero power", repository.CalcExpMod, [4]string{"4", "0", "497"}, "1"},
		{"exp mod one", repository.CalcExpMod, [4]string{"4", "0", "1"}, "0"},
		{"exp wide", repository.CalcExpMod, [4]string{"2", "256", top}, "1"},
		{"mulmod wide", repository.CalcMulMod, [4]string{top, top, "1000000007"}, new(big.Int).Mod(new(big.Int).Mul(mustInt(t, top), mustInt(t, top)), big.NewInt(1000000007)).String()},
	}
	for _, test := range tests {
		op := &operation.BignumCalc{CalcOp: test.op, BN: test.bn}
		got := mustValue(t, attempt(t, op))
		if !got.Equal(component.Bignum(test.want)) {
			t.Errorf("%s: got %s, want %s", test.name, got, test.want)
		}
	}

	for _, bn := range [][4]string{{"3", "0"}, {"-3", "7"}} {
		op := &operation.BignumCalc{CalcOp: repository.CalcInvMod, BN: bn}
		if r := attempt(t, op); r.Status != module.StatusUnsupported {
			t.Errorf("InvMod %v status = %s", bn, r.Status)
		}
	}
	zero := &operation.BignumCalc{CalcOp: repository.CalcExpMod, BN: [4]string{"2", "3", "0"}}
	if r := attempt(t, zero); r.Status != module.StatusUnsupported {
		t.Errorf("ExpMod by zero status = %s", r.Status)
	}
}

// TestCalcModularPlainAgreesWithBig compares the plain modular ops against
// math/big over full-width operands, where products no longer fit a word.
func TestCalcModularPlainAgreesWithBig(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	operand := func() *big.Int {
		bits := []int{1, 2, 17, 128, 255, 256}[rng.Intn(6)]
		return new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	ops := []repository.CalcOpID{repository.CalcInvMod, repository.CalcGCD, repository.CalcExpMod, repository.CalcMulMod}
	for i := 0; i < 500; i++ {
		a, b, c := operand(), operand(), operand()
		var want *big.Int
		op := ops[i%len(ops)]
		switch op {
		case repository.CalcInvMod:
			if b.Sign() == 0 {
				continue
			}
			want = new(big.Int)
			if b.Cmp(big.NewInt(1)) == 0 || want.ModInverse(new(big.Int).Mod(a, b), b) == nil {
				want.SetInt64(0)
			}
		case repository.CalcGCD:
			want = new(big.Int).GCD(nil, nil, a, b)
		case repository.CalcExpMod:
			if c.Sign() == 0 {
				continue
			}
			want = new(big.Int).Exp(new(big.Int).Mod(a, c), b, c)
		case repository.CalcMulMod:
			if c.Sign() == 0 {
				continue
			}
			want = new(big.Int).Mod(new(big.Int).Mul(a, b), c)
		}
		calc := &operation.BignumCalc{CalcOp: op, BN: [4]string{a.String(), b.String(), c.String()}}
		got := mustValue(t, attempt(t, calc))
		if !got.Equal(component.BignumFromInt(want)) {
			t.Fatalf("op %d %v: got %s, want %s", op, calc.BN, got, want)
		}
	}
}

func TestECDSAVerifySHA1(t *testing.T) {
	priv := secp256k1.PrivKeyFromBytes([]byte{1})
	pub := priv.PubKey()
	msg := []byte("cryptodiff")
	hash := sha1.Sum(msg)
	sig := ecdsa.Sign(priv, hash[:])
	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()

	op := &operation.ECDSAVerify{
		CurveType:  repository.Secp256k1,
		Cleartext:  msg,
		PubX:       pub.X().String(),
		PubY:       pub.Y().String(),
		SigR:       new(big.Int).SetBytes(rb[:]).String(),
		SigS:       new(big.Int).SetBytes(sb[:]).String(),
		DigestType: repository.DigestSHA1,
	}
	if got := mustValue(t, attempt(t, op)); !got.Equal(component.Bool(true)) {
		t.Fatal("valid SHA-1 signature rejected")
	}

	null := *op
	null.SigR, null.SigS = "0", "0"
	got := mustValue(t, attempt(t, &null))
	want := mustValue(t, gostd.New().Attempt(context.Background(), &null))
	if !got.Equal(want) || !got.Equal(component.Bool(false)) {
		t.Fatalf("null signature: got %s, reference %s", got, want)
	}
}
