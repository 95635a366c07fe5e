package modutil

import (
	"crypto/sha256"
	"math/big"
	"testing"
)

func TestCoord(t *testing.T) {
	p := big.NewInt(7)
	if _, err := Coord("6", p); err != nil {
		t.Fatalf("Coord(6): %v", err)
	}
	if _, err := Coord("7", p); err == nil {
		t.Fatalf("Coord(p) accepted")
	}
	if _, err := Coord("-1", p); err == nil {
		t.Fatalf("negative coordinate accepted")
	}
	if v, err := Coord("", p); err != nil || v.Sign() != 0 {
		t.Fatalf("Coord(\"\") = %v, %v", v, err)
	}
}

func TestPrivateKey(t *testing.T) {
	n := big.NewInt(11)
	for _, s := range []string{"0", "11", "-1", "12"} {
		if _, err := PrivateKey(s, n); err == nil {
			t.Fatalf("PrivateKey(%s) accepted", s)
		}
	}
	if _, err := PrivateKey("10", n); err != nil {
		t.Fatalf("PrivateKey(10): %v", err)
	}
}

func TestFixedBytes(t *testing.T) {
	b, ok := FixedBytes(big.NewInt(0x0102), 4)
	if !ok || len(b) != 4 || b[2] != 1 || b[3] != 2 {
		t.Fatalf("FixedBytes = %x, %v", b, ok)
	}
	if _, ok := FixedBytes(big.NewInt(0x010203), 2); ok {
		t.Fatalf("oversized value fit")
	}
}

func TestHashInChunks(t *testing.T) {
	data := []byte("the quick brown fox")
	want := sha256.Sum256(data)
	got := HashInChunks(sha256.New(), data, []byte{1, 0, 5, 200})
	if string(got) != string(want[:]) {
		t.Fatalf("chunked digest differs")
	}
}

func TestPointInfinity(t *testing.T) {
	p := Point(nil, nil)
	if p.X != "0" || p.Y != "0" {
		t.Fatalf("infinity = %v", p)
	}
	if !IsInfinity(big.NewInt(0), new(big.Int)) {
		t.Fatalf("(0,0) not infinity")
	}
}
