package component

import (
	"math/big"
	"testing"
)

func TestNormalizeBignum(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"", "0", true},
		{"0", "0", true},
		{"000", "0", true},
		{"-0", "0", true},
		{"-000", "0", true},
		{"0012", "12", true},
		{"-0012", "-12", true},
		{"18446744073709551615", "18446744073709551615", true},
		{"-", "", false},
		{"+1", "", false},
		{"1e3", "", false},
		{" 1", "", false},
		{"--1", "", false},
	}
	for _, c := range cases {
		got, err := NormalizeBignum(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("NormalizeBignum(%q) err=%v, want ok=%v", c.in, err, c.ok)
		}
		if c.ok && got != c.want {
			t.Fatalf("NormalizeBignum(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseBignum(t *testing.T) {
	v, err := ParseBignum("")
	if err != nil || v.Sign() != 0 {
		t.Fatalf("ParseBignum(\"\") = %v, %v", v, err)
	}
	v, err = ParseBignum("-007")
	if err != nil || v.Cmp(big.NewInt(-7)) != 0 {
		t.Fatalf("ParseBignum(-007) = %v, %v", v, err)
	}
	if _, err := ParseBignum("x"); err == nil {
		t.Fatalf("ParseBignum(x) accepted")
	}
}

func TestBignumEquality(t *testing.T) {
	if !Bignum("").Equal(Bignum("0")) {
		t.Fatalf("empty != 0")
	}
	if !Bignum("-0").Equal(Bignum("00")) {
		t.Fatalf("-0 != 00")
	}
	if Bignum("1").Equal(Bignum("-1")) {
		t.Fatalf("1 == -1")
	}
	if Bignum("1").Equal(Bool(true)) {
		t.Fatalf("cross-kind equality")
	}
}

func TestPointEquality(t *testing.T) {
	a := ECCPoint{X: "01", Y: "2"}
	b := ECCPoint{X: "1", Y: "002"}
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatalf("normalized points differ")
	}
	if a.Equal(G1{X: "1", Y: "2"}) {
		t.Fatalf("ECC point equal to G1")
	}
	g := G2{V: "1", W: "2", X: "3", Y: "4"}
	if !g.Equal(G2{V: "01", W: "2", X: "3", Y: "04"}) {
		t.Fatalf("G2 normalization")
	}
	if g.Equal(G2{V: "1", W: "2", X: "4", Y: "3"}) {
		t.Fatalf("G2 swapped coordinates compared equal")
	}
}

func TestDigestAndBool(t *testing.T) {
	if !(Digest{1, 2}).Equal(Digest{1, 2}) {
		t.Fatalf("digest equality")
	}
	if (Digest{1, 2}).Equal(Digest{1, 2, 0}) {
		t.Fatalf("digest length ignored")
	}
	if s := (Digest{0xab}).String(); s != "ab" {
		t.Fatalf("digest String = %s", s)
	}
	if Bool(true).Equal(Bool(false)) {
		t.Fatalf("bool equality")
	}
}
