// Package xcrypto is the digest backend built on golang.org/x/crypto.
package xcrypto

import (
	"context"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func init() {
	module.MustRegister(module.Backend{
		ID:          repository.ModuleXCrypto,
		Name:        "xcrypto",
		Description: "golang.org/x/crypto digests",
		New:         func(*repository.Registry) (module.Module, error) { return New(), nil },
	})
}

// unkeyed adapts the keyed BLAKE2 constructors. A nil key never fails.
func unkeyed(f func([]byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := f(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

var digests = map[repository.DigestID]func() hash.Hash{
	repository.DigestMD4:        md4.New,
	repository.DigestSHA3_224:   sha3.New224,
	repository.DigestSHA3_256:   sha3.New256,
	repository.DigestSHA3_384:   sha3.New384,
	repository.DigestSHA3_512:   sha3.New512,
	repository.DigestKECCAK256:  sha3.NewLegacyKeccak256,
	repository.DigestKECCAK512:  sha3.NewLegacyKeccak512,
	repository.DigestBLAKE2B256: unkeyed(blake2b.New256),
	repository.DigestBLAKE2B384: unkeyed(blake2b.New384),
	repository.DigestBLAKE2B512: unkeyed(blake2b.New512),
	repository.DigestBLAKE2S256: unkeyed(blake2s.New256),
	repository.DigestRIPEMD160:  ripemd160.New,
}

type Module struct {
	caps module.Capabilities
}

func New() *Module {
	return &Module{caps: module.NewCapabilities(operation.KindDigest)}
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleXCrypto }
func (*Module) Name() string                        { return "xcrypto" }
func (m *Module) Capabilities() module.Capabilities { return m.caps }
func (*Module) SupportsModularBignumCalc() bool     { return false }

func (m *Module) Attempt(ctx context.Context, op operation.Operation) module.Result {
	if err := ctx.Err(); err != nil {
		return module.Unsupported(err.Error())
	}
	o, ok := op.(*operation.Digest)
	if !ok {
		return module.Unsupportedf("operation %s", op.Kind())
	}
	newHash, ok := digests[o.DigestType]
	if !ok {
		return module.Unsupportedf("digest %d", o.DigestType)
	}
	return module.Value(component.Digest(modutil.HashInChunks(newHash(), o.Cleartext, o.Modifier)))
}
