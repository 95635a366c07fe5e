// Package decred is the backend built on the Decred cryptography packages:
// dcrec/secp256k1 for curve operations, blake256 and ripemd160 digests, and
// math/uint256 for fixed-width bignum arithmetic.
package decred

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"hash"

	"github.com/decred/dcrd/crypto/blake256"
	"github.com/decred/dcrd/crypto/ripemd160"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func init() {
	module.MustRegister(module.Backend{
		ID:          repository.ModuleDecred,
		Name:        "decred",
		Description: "Decred secp256k1, blake256, ripemd160 and uint256",
		New:         func(*repository.Registry) (module.Module, error) { return New(), nil },
	})
}

var digests = map[repository.DigestID]func() hash.Hash{
	repository.DigestBLAKE256:  blake256.New,
	repository.DigestBLAKE224:  blake256.New224,
	repository.DigestRIPEMD160: ripemd160.New,
}

// verifyDigests are the message hashes ECDSA verification accepts. SHA-1 and
// SHA-256 come from the standard library, as they do throughout dcrd.
var verifyDigests = map[repository.DigestID]func() hash.Hash{
	repository.DigestSHA1:      sha1.New,
	repository.DigestSHA256:    sha256.New,
	repository.DigestBLAKE256:  blake256.New,
	repository.DigestRIPEMD160: ripemd160.New,
}

type Module struct {
	caps module.Capabilities
}

func New() *Module {
	return &Module{caps: module.NewCapabilities(
		operation.KindDigest,
		operation.KindECDSAVerify,
		operation.KindECCPrivateToPublic,
		operation.KindECCValidatePubkey,
		operation.KindECCPointAdd,
		operation.KindECCPointMul,
		operation.KindECCPointDbl,
		operation.KindBignumCalc,
		operation.KindBignumCalcMod2Exp256,
		operation.KindBignumCalcModSecp256k1,
	)}
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleDecred }
func (*Module) Name() string                        { return "decred" }
func (m *Module) Capabilities() module.Capabilities { return m.caps }
func (*Module) SupportsModularBignumCalc() bool     { return true }

func (m *Module) Attempt(ctx context.Context, op operation.Operation) module.Result {
	if err := ctx.Err(); err != nil {
		return module.Unsupported(err.Error())
	}
	switch o := op.(type) {
	case *operation.Digest:
		newHash, ok := digests[o.DigestType]
		if !ok {
			return module.Unsupportedf("digest %d", o.DigestType)
		}
		return module.Value(component.Digest(modutil.HashInChunks(newHash(), o.Cleartext, o.Modifier)))
	case *operation.ECDSAVerify:
		return verify(o)
	case *operation.ECCPrivateToPublic:
		return privateToPublic(o)
	case *operation.ECCValidatePubkey:
		return validate(o)
	case *operation.ECCPointAdd:
		return pointAdd(o)
	case *operation.ECCPointMul:
		return pointMul(o)
	case *operation.ECCPointDbl:
		return pointDbl(o)
	case *operation.BignumCalc:
		switch o.Modulo {
		case operation.ModNone:
			return calc(o)
		case operation.Mod2Exp256:
			return calc2Exp256(o)
		case operation.ModSecp256k1:
			return calcField(o)
		}
		return module.Unsupportedf("modulus %s", o.Kind())
	}
	return module.Unsupportedf("operation %s", op.Kind())
}
