package operation

import (
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/cloudflare/circl/ecc/bls12381/ff"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Kind identifies an operation variant. The numeric values are written to the
// wire and must never be renumbered.
type Kind uint64

const (
	KindDigest                 Kind = 1
	KindECDSAVerify            Kind = 2
	KindECCPrivateToPublic     Kind = 3
	KindECCValidatePubkey      Kind = 4
	KindBignumCalc             Kind = 5
	KindBignumCalcMod2Exp256   Kind = 6
	KindBignumCalcMod25519     Kind = 7
	KindBignumCalcModBLS12381P Kind = 8
	KindBignumCalcModBLS12381R Kind = 9
	KindBignumCalcModSecp256k1 Kind = 10
	KindECCPointAdd            Kind = 11
	KindECCPointMul            Kind = 12
	KindECCPointDbl            Kind = 13
	KindBLSG1Add               Kind = 14
	KindBLSG1Mul               Kind = 15
	KindBLSG1Neg               Kind = 16
	KindBLSG2Add               Kind = 17
	KindBLSG2Mul               Kind = 18
	KindBLSG2Neg               Kind = 19
)

var kindNames = map[Kind]string{
	KindDigest:                 "Digest",
	KindECDSAVerify:            "ECDSA_Verify",
	KindECCPrivateToPublic:     "ECC_PrivateToPublic",
	KindECCValidatePubkey:      "ECC_ValidatePubkey",
	KindBignumCalc:             "BignumCalc",
	KindBignumCalcMod2Exp256:   "BignumCalc_Mod_2Exp256",
	KindBignumCalcMod25519:     "BignumCalc_Mod_25519",
	KindBignumCalcModBLS12381P: "BignumCalc_Mod_BLS12_381_P",
	KindBignumCalcModBLS12381R: "BignumCalc_Mod_BLS12_381_R",
	KindBignumCalcModSecp256k1: "BignumCalc_Mod_SECP256K1",
	KindECCPointAdd:            "ECC_Point_Add",
	KindECCPointMul:            "ECC_Point_Mul",
	KindECCPointDbl:            "ECC_Point_Dbl",
	KindBLSG1Add:               "BLS_G1_Add",
	KindBLSG1Mul:               "BLS_G1_Mul",
	KindBLSG1Neg:               "BLS_G1_Neg",
	KindBLSG2Add:               "BLS_G2_Add",
	KindBLSG2Mul:               "BLS_G2_Mul",
	KindBLSG2Neg:               "BLS_G2_Neg",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint64(k))
}

// Valid reports whether k is a known operation kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Kinds returns every known kind in ascending order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := range kindNames {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseKind resolves a kind by name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Modulo selects the ring a BignumCalc operation is evaluated in.
type Modulo uint8

const (
	ModNone Modulo = iota
	Mod2Exp256
	Mod25519
	ModBLS12381P
	ModBLS12381R
	ModSecp256k1
)

var moduloKinds = map[Modulo]Kind{
	ModNone:      KindBignumCalc,
	Mod2Exp256:   KindBignumCalcMod2Exp256,
	Mod25519:     KindBignumCalcMod25519,
	ModBLS12381P: KindBignumCalcModBLS12381P,
	ModBLS12381R: KindBignumCalcModBLS12381R,
	ModSecp256k1: KindBignumCalcModSecp256k1,
}

// Kind returns the operation kind carrying this modulus.
func (m Modulo) Kind() Kind { return moduloKinds[m] }

// ModuloOf returns the modulus selector for a BignumCalc-family kind.
func ModuloOf(k Kind) (Modulo, bool) {
	for m, mk := range moduloKinds {
		if mk == k {
			return m, true
		}
	}
	return 0, false
}

var moduli = sync.OnceValue(func() map[Modulo]*big.Int {
	p25519 := new(big.Int).Lsh(big.NewInt(1), 255)
	p25519.Sub(p25519, big.NewInt(19))
	return map[Modulo]*big.Int{
		Mod2Exp256:   new(big.Int).Lsh(big.NewInt(1), 256),
		Mod25519:     p25519,
		ModBLS12381P: new(big.Int).SetBytes(ff.FpOrder()),
		ModBLS12381R: new(big.Int).SetBytes(ff.ScalarOrder()),
		ModSecp256k1: new(big.Int).Set(secp256k1.Params().P),
	}
})

// Modulus returns a fresh copy of the modulus, or nil for ModNone.
func (m Modulo) Modulus() *big.Int {
	v, ok := moduli()[m]
	if !ok {
		return nil
	}
	return new(big.Int).Set(v)
}
