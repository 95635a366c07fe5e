package operation

import (
	"bytes"
	"encoding/hex"
	"testing"

	"xdao.co/cryptodiff/cursor"
	"xdao.co/cryptodiff/repository"
)

func sampleOps() []Operation {
	g2 := G2Point{V: "1", W: "2", X: "3", Y: "4"}
	return []Operation{
		&Digest{Header: Header{Modifier: []byte{1, 2, 3}}, Cleartext: []byte("abc"), DigestType: repository.DigestSHA256},
		&ECDSAVerify{CurveType: repository.Secp256k1, Cleartext: []byte{0x11}, PubX: "1", PubY: "2", SigR: "3", SigS: "-4", DigestType: repository.DigestNULL},
		&ECCPrivateToPublic{CurveType: repository.Secp256r1, Priv: "0042"},
		&ECCValidatePubkey{CurveType: repository.Secp384r1, PubX: "", PubY: "7"},
		&BignumCalc{CalcOp: repository.CalcInvMod, BN: [4]string{"18446744073709551615", "340282366762482138434845932244680310781", "", ""}},
		&BignumCalc{Modulo: Mod2Exp256, CalcOp: repository.CalcAdd, BN: [4]string{"1", "2", "3", "4"}},
		&BignumCalc{Modulo: Mod25519, CalcOp: repository.CalcMul},
		&BignumCalc{Modulo: ModBLS12381P, CalcOp: repository.CalcSqr, BN: [4]string{"9"}},
		&BignumCalc{Modulo: ModBLS12381R, CalcOp: repository.CalcSub, BN: [4]string{"0", "1"}},
		&BignumCalc{Modulo: ModSecp256k1, CalcOp: repository.CalcInvMod, BN: [4]string{"5"}},
		&ECCPointAdd{CurveType: repository.Secp256r1, AX: "1", AY: "2", BX: "3", BY: "4"},
		&ECCPointMul{CurveType: repository.Secp256k1, AX: "1", AY: "2", B: "3"},
		&ECCPointDbl{CurveType: repository.Secp521r1, AX: "1", AY: "2"},
		&BLSG1Add{CurveType: repository.BLS12_381, AX: "1", AY: "2", BX: "3", BY: "4"},
		&BLSG1Mul{CurveType: repository.BLS12_381, AX: "1", AY: "2", B: "5"},
		&BLSG1Neg{CurveType: repository.BLS12_381, AX: "1", AY: "2"},
		&BLSG2Add{CurveType: repository.BLS12_381, A: g2, B: G2Point{V: "5", W: "6", X: "7", Y: "8"}},
		&BLSG2Mul{CurveType: repository.BLS12_381, A: g2, B: "9"},
		&BLSG2Neg{CurveType: repository.BLS12_381, A: g2},
	}
}

func TestEveryKindHasSample(t *testing.T) {
	seen := map[Kind]bool{}
	for _, op := range sampleOps() {
		seen[op.Kind()] = true
	}
	for _, k := range Kinds() {
		if !seen[k] {
			t.Fatalf("no sample for %s", k)
		}
	}
}

func TestParamsRoundTrip(t *testing.T) {
	for _, op := range sampleOps() {
		w := cursor.NewWriter()
		Encode(op, w)
		b := w.Out()

		r := cursor.NewReader(b)
		got, err := Decode(op.Kind(), r)
		if err != nil {
			t.Fatalf("%s: Decode: %v", op.Kind(), err)
		}
		if r.Remaining() != 0 {
			t.Fatalf("%s: %d bytes left after decode", op.Kind(), r.Remaining())
		}
		SetModifier(got, ModifierOf(op))
		if !Equal(op, got) {
			t.Fatalf("%s: round trip mismatch", op.Kind())
		}
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	for _, op := range sampleOps() {
		env := Envelope{Op: op, Module: repository.ModuleDecred}
		b := env.Encode()
		got, err := DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("%s: DecodeEnvelope: %v", op.Kind(), err)
		}
		if got.Module != repository.ModuleDecred {
			t.Fatalf("%s: module = %d", op.Kind(), got.Module)
		}
		if !Equal(op, got.Op) {
			t.Fatalf("%s: envelope round trip mismatch", op.Kind())
		}
		if !bytes.Equal(got.Encode(), b) {
			t.Fatalf("%s: re-encoding is not byte identical", op.Kind())
		}
	}
}

func TestDigestEnvelopeLayout(t *testing.T) {
	msg, _ := hex.DecodeString("b9d751533593ac10cdfb7b8e03cad8babc67d8eaeac0a3699b82857dacac9390")
	op := &Digest{Cleartext: msg, DigestType: repository.DigestSHA256}
	b := Envelope{Op: op}.Encode()

	w := cursor.NewWriter()
	w.PutUint64(uint64(KindDigest))
	w.PutData(msg)
	w.PutUint64(uint64(repository.DigestSHA256))
	w.PutData(nil)
	w.PutUint64(0)
	w.PutBool(false)
	if want := w.Out(); !bytes.Equal(b, want) {
		t.Fatalf("layout mismatch:\n got %x\nwant %x", b, want)
	}

	got, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	d, ok := got.Op.(*Digest)
	if !ok || !bytes.Equal(d.Cleartext, msg) || d.DigestType != repository.DigestSHA256 {
		t.Fatalf("decoded %#v", got.Op)
	}
}

func TestEmptyOperandPreserved(t *testing.T) {
	op := &BignumCalc{CalcOp: repository.CalcInvMod, BN: [4]string{"18446744073709551615", "340282366762482138434845932244680310781", "", ""}}
	zero := &BignumCalc{CalcOp: repository.CalcInvMod, BN: [4]string{"18446744073709551615", "340282366762482138434845932244680310781", "0", ""}}
	a := Envelope{Op: op}.Encode()
	if bytes.Equal(a, Envelope{Op: zero}.Encode()) {
		t.Fatalf("empty operand encoded like \"0\"")
	}
	got, err := DecodeEnvelope(a)
	if err != nil {
		t.Fatal(err)
	}
	bc := got.Op.(*BignumCalc)
	if bc.BN[2] != "" || bc.BN[3] != "" {
		t.Fatalf("empty operands not preserved: %q", bc.BN)
	}
}

func TestTruncatedEnvelopeRejected(t *testing.T) {
	for _, op := range sampleOps() {
		b := Envelope{Op: op}.Encode()
		for n := 0; n < len(b); n++ {
			_, err := DecodeEnvelope(b[:n])
			if err == nil {
				t.Fatalf("%s: prefix of %d/%d bytes decoded", op.Kind(), n, len(b))
			}
			if !IsDecodeFailure(err) {
				t.Fatalf("%s: prefix %d: unexpected error class %v", op.Kind(), n, err)
			}
		}
	}
}

func TestEnvelopeRejects(t *testing.T) {
	b := Envelope{Op: &ECCPointDbl{AX: "1", AY: "2"}}.Encode()

	set := append([]byte(nil), b...)
	set[len(set)-1] = 1
	if _, err := DecodeEnvelope(set); !Is(err, Malformed) || RuleID(err) != RuleTerminator {
		t.Fatalf("set terminator: %v", err)
	}

	bad := append([]byte(nil), b...)
	bad[len(bad)-1] = 7
	if _, err := DecodeEnvelope(bad); !Is(err, Malformed) || RuleID(err) != RuleBadBool {
		t.Fatalf("bad terminator byte: %v", err)
	}

	trailing := append(append([]byte(nil), b...), 0)
	if _, err := DecodeEnvelope(trailing); !Is(err, Malformed) || RuleID(err) != RuleTrailingBytes {
		t.Fatalf("trailing bytes: %v", err)
	}

	unknown := append([]byte(nil), b...)
	unknown[0] = 0xee
	if _, err := DecodeEnvelope(unknown); !Is(err, Malformed) || RuleID(err) != RuleUnknownKind {
		t.Fatalf("unknown kind: %v", err)
	}
}

func TestDecodeRejectsNonDecimalBignum(t *testing.T) {
	w := cursor.NewWriter()
	w.PutUint64(uint64(repository.Secp256r1))
	w.PutString("12a")
	_, err := Decode(KindECCPrivateToPublic, cursor.NewReader(w.Out()))
	if !Is(err, Malformed) || RuleID(err) != RuleBadBignum {
		t.Fatalf("got %v", err)
	}
}

func TestEqual(t *testing.T) {
	a := &ECCPrivateToPublic{CurveType: repository.Secp256r1, Priv: "1"}
	b := &ECCPrivateToPublic{CurveType: repository.Secp256r1, Priv: "1", Header: Header{Modifier: []byte{}}}
	if !Equal(a, b) {
		t.Fatalf("nil and empty modifier should compare equal")
	}
	c := &ECCPrivateToPublic{CurveType: repository.Secp256r1, Priv: "01"}
	if Equal(a, c) {
		t.Fatalf("field-by-field equality must be textual")
	}
	if Equal(a, &ECCPointDbl{CurveType: repository.Secp256r1, AX: "1"}) {
		t.Fatalf("different kinds compared equal")
	}
}

func TestBignums(t *testing.T) {
	op := &ECDSAVerify{PubX: "1", PubY: "2", SigR: "3", SigS: "4"}
	got := Bignums(op)
	want := []string{"1", "2", "3", "4"}
	if len(got) != len(want) {
		t.Fatalf("Bignums = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bignums = %v", got)
		}
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%s) = %v, %v", k, got, ok)
		}
	}
	if Kind(999).Valid() {
		t.Fatalf("Kind(999) valid")
	}
	if Mod25519.Modulus().BitLen() != 255 {
		t.Fatalf("25519 modulus bit length")
	}
	if ModNone.Modulus() != nil {
		t.Fatalf("ModNone has a modulus")
	}
}

func FuzzDecodeEnvelope(f *testing.F) {
	for _, op := range sampleOps() {
		f.Add(Envelope{Op: op}.Encode())
	}
	f.Fuzz(func(t *testing.T, b []byte) {
		env, err := DecodeEnvelope(b)
		if err != nil {
			if !IsDecodeFailure(err) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		if !bytes.Equal(env.Encode(), b) {
			t.Fatalf("accepted envelope does not re-encode identically")
		}
	})
}
