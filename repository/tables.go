package repository

import (
	"crypto/elliptic"
	"math/big"
	"sync"

	"github.com/cloudflare/circl/ecc/bls12381"
	"github.com/cloudflare/circl/ecc/bls12381/ff"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Curve identifiers. These values are part of the wire format.
const (
	Secp192r1 CurveID = 1
	Secp224r1 CurveID = 2
	Secp256r1 CurveID = 3
	Secp384r1 CurveID = 4
	Secp521r1 CurveID = 5
	Secp256k1 CurveID = 6
	BLS12_381 CurveID = 7
	X25519    CurveID = 8
	Ed25519   CurveID = 9
	X448      CurveID = 10
	Ed448     CurveID = 11
)

// Digest identifiers. These values are part of the wire format.
const (
	DigestNULL       DigestID = 1
	DigestMD4        DigestID = 2
	DigestMD5        DigestID = 3
	DigestSHA1       DigestID = 4
	DigestSHA224     DigestID = 5
	DigestSHA256     DigestID = 6
	DigestSHA384     DigestID = 7
	DigestSHA512     DigestID = 8
	DigestSHA512_224 DigestID = 9
	DigestSHA512_256 DigestID = 10
	DigestSHA3_224   DigestID = 11
	DigestSHA3_256   DigestID = 12
	DigestSHA3_384   DigestID = 13
	DigestSHA3_512   DigestID = 14
	DigestKECCAK256  DigestID = 15
	DigestKECCAK512  DigestID = 16
	DigestBLAKE2B256 DigestID = 17
	DigestBLAKE2B384 DigestID = 18
	DigestBLAKE2B512 DigestID = 19
	DigestBLAKE2S256 DigestID = 20
	DigestRIPEMD160  DigestID = 21
	DigestBLAKE256   DigestID = 22
	DigestBLAKE224   DigestID = 23
	DigestBLAKE3     DigestID = 24
)

// Calculator operator identifiers. These values are part of the wire format.
const (
	CalcAdd     CalcOpID = 1
	CalcSub     CalcOpID = 2
	CalcMul     CalcOpID = 3
	CalcDiv     CalcOpID = 4
	CalcMod     CalcOpID = 5
	CalcExpMod  CalcOpID = 6
	CalcInvMod  CalcOpID = 7
	CalcGCD     CalcOpID = 8
	CalcSqr     CalcOpID = 9
	CalcNeg     CalcOpID = 10
	CalcAbs     CalcOpID = 11
	CalcIsEq    CalcOpID = 12
	CalcCmp     CalcOpID = 13
	CalcIsZero  CalcOpID = 14
	CalcIsOne   CalcOpID = 15
	CalcIsOdd   CalcOpID = 16
	CalcIsEven  CalcOpID = 17
	CalcIsNeg   CalcOpID = 18
	CalcLShift1 CalcOpID = 19
	CalcRShift  CalcOpID = 20
	CalcAnd     CalcOpID = 21
	CalcOr      CalcOpID = 22
	CalcXor     CalcOpID = 23
	CalcSqrt    CalcOpID = 24
	CalcNumBits CalcOpID = 25
	CalcBit     CalcOpID = 26
	CalcSet     CalcOpID = 27
	CalcAddMod  CalcOpID = 28
	CalcSubMod  CalcOpID = 29
	CalcMulMod  CalcOpID = 30
	CalcSqrMod  CalcOpID = 31
)

// Module identifiers. ModuleWildcard addresses every capable module.
const (
	ModuleWildcard    ModuleID = 0
	ModuleGoStd       ModuleID = 1
	ModuleDecred      ModuleID = 2
	ModuleCircl       ModuleID = 3
	ModuleXCrypto     ModuleID = 4
	ModuleSIMD        ModuleID = 5
	ModuleWeierstrass ModuleID = 6
)

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(DefaultTables())
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the registry built from DefaultTables. It is constructed on
// first use and shared thereafter; it is never mutated.
func Default() *Registry { return defaultRegistry() }

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Curves:  defaultCurves(),
		Digests: defaultDigests(),
		CalcOps: defaultCalcOps(),
		Modules: []Module{
			{ModuleGoStd, "gostd"},
			{ModuleDecred, "decred"},
			{ModuleCircl, "circl"},
			{ModuleXCrypto, "xcrypto"},
			{ModuleSIMD, "simd"},
			{ModuleWeierstrass, "weierstrass"},
		},
	}
}

func defaultCurves() []Curve {
	k1 := secp256k1.Params()

	fpOrder := new(big.Int).SetBytes(ff.FpOrder())
	scOrder := new(big.Int).SetBytes(ff.ScalarOrder())
	g1 := bls12381.G1Generator().Bytes()
	half := len(g1) / 2

	return []Curve{
		{
			ID: Secp192r1, Name: "secp192r1", Bits: 192,
			P:     "6277101735386680763835789423207666416083908700390324961279",
			A:     "6277101735386680763835789423207666416083908700390324961276",
			B:     "2455155546008943817740293915197451784769108058161191238065",
			Gx:    "602046282375688656758213480587526111916698976636884684818",
			Gy:    "174050332293622031404857552280219410364023488927386650641",
			Order: "6277101735386680763835789423176059013767194773182842284081",
		},
		nist(Secp224r1, "secp224r1", elliptic.P224()),
		nist(Secp256r1, "secp256r1", elliptic.P256()),
		nist(Secp384r1, "secp384r1", elliptic.P384()),
		nist(Secp521r1, "secp521r1", elliptic.P521()),
		{
			ID: Secp256k1, Name: "secp256k1", Bits: k1.BitSize,
			P:     k1.P.String(),
			A:     "0",
			B:     "7",
			Gx:    k1.Gx.String(),
			Gy:    k1.Gy.String(),
			Order: k1.N.String(),
		},
		{
			ID: BLS12_381, Name: "BLS12_381", Bits: fpOrder.BitLen(),
			P:     fpOrder.String(),
			A:     "0",
			B:     "4",
			Gx:    new(big.Int).SetBytes(g1[:half]).String(),
			Gy:    new(big.Int).SetBytes(g1[half:]).String(),
			Order: scOrder.String(),
		},
		{ID: X25519, Name: "x25519", Bits: 255},
		{ID: Ed25519, Name: "ed25519", Bits: 255},
		{ID: X448, Name: "x448", Bits: 448},
		{ID: Ed448, Name: "ed448", Bits: 448},
	}
}

func nist(id CurveID, name string, c elliptic.Curve) Curve {
	p := c.Params()
	a := new(big.Int).Sub(p.P, big.NewInt(3))
	return Curve{
		ID: id, Name: name, Bits: p.BitSize,
		P:     p.P.String(),
		A:     a.String(),
		B:     p.B.String(),
		Gx:    p.Gx.String(),
		Gy:    p.Gy.String(),
		Order: p.N.String(),
	}
}

func defaultDigests() []Digest {
	return []Digest{
		{DigestNULL, "NULL", 0},
		{DigestMD4, "MD4", 16},
		{DigestMD5, "MD5", 16},
		{DigestSHA1, "SHA1", 20},
		{DigestSHA224, "SHA224", 28},
		{DigestSHA256, "SHA256", 32},
		{DigestSHA384, "SHA384", 48},
		{DigestSHA512, "SHA512", 64},
		{DigestSHA512_224, "SHA512-224", 28},
		{DigestSHA512_256, "SHA512-256", 32},
		{DigestSHA3_224, "SHA3-224", 28},
		{DigestSHA3_256, "SHA3-256", 32},
		{DigestSHA3_384, "SHA3-384", 48},
		{DigestSHA3_512, "SHA3-512", 64},
		{DigestKECCAK256, "KECCAK256", 32},
		{DigestKECCAK512, "KECCAK512", 64},
		{DigestBLAKE2B256, "BLAKE2B256", 32},
		{DigestBLAKE2B384, "BLAKE2B384", 48},
		{DigestBLAKE2B512, "BLAKE2B512", 64},
		{DigestBLAKE2S256, "BLAKE2S256", 32},
		{DigestRIPEMD160, "RIPEMD160", 20},
		{DigestBLAKE256, "BLAKE256", 32},
		{DigestBLAKE224, "BLAKE224", 28},
		{DigestBLAKE3, "BLAKE3", 32},
	}
}

func defaultCalcOps() []CalcOp {
	return []CalcOp{
		{CalcAdd, "Add(A,B)", 2},
		{CalcSub, "Sub(A,B)", 2},
		{CalcMul, "Mul(A,B)", 2},
		{CalcDiv, "Div(A,B)", 2},
		{CalcMod, "Mod(A,B)", 2},
		{CalcExpMod, "ExpMod(A,B,C)", 3},
		{CalcInvMod, "InvMod(A,B)", 2},
		{CalcGCD, "GCD(A,B)", 2},
		{CalcSqr, "Sqr(A)", 1},
		{CalcNeg, "Neg(A)", 1},
		{CalcAbs, "Abs(A)", 1},
		{CalcIsEq, "IsEq(A,B)", 2},
		{CalcCmp, "Cmp(A,B)", 2},
		{CalcIsZero, "IsZero(A)", 1},
		{CalcIsOne, "IsOne(A)", 1},
		{CalcIsOdd, "IsOdd(A)", 1},
		{CalcIsEven, "IsEven(A)", 1},
		{CalcIsNeg, "IsNeg(A)", 1},
		{CalcLShift1, "LShift1(A)", 1},
		{CalcRShift, "RShift(A,B)", 2},
		{CalcAnd, "And(A,B)", 2},
		{CalcOr, "Or(A,B)", 2},
		{CalcXor, "Xor(A,B)", 2},
		{CalcSqrt, "Sqrt(A)", 1},
		{CalcNumBits, "NumBits(A)", 1},
		{CalcBit, "Bit(A,B)", 2},
		{CalcSet, "Set(A)", 1},
		{CalcAddMod, "AddMod(A,B,C)", 3},
		{CalcSubMod, "SubMod(A,B,C)", 3},
		{CalcMulMod, "MulMod(A,B,C)", 3},
		{CalcSqrMod, "SqrMod(A,B)", 2},
	}
}
