// Package simd is the digest backend built on the SIMD-accelerated hash
// implementations: minio/sha256-simd and lukechampine.com/blake3.
package simd

import (
	"context"
	"hash"

	"github.com/minio/sha256-simd"
	"lukechampine.com/blake3"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/modules/modutil"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func init() {
	module.MustRegister(module.Backend{
		ID:          repository.ModuleSIMD,
		Name:        "simd",
		Description: "sha256-simd and BLAKE3",
		New:         func(*repository.Registry) (module.Module, error) { return New(), nil },
	})
}

var digests = map[repository.DigestID]func() hash.Hash{
	repository.DigestSHA256: sha256.New,
	repository.DigestBLAKE3: func() hash.Hash { return blake3.New(32, nil) },
}

type Module struct {
	caps module.Capabilities
}

func New() *Module {
	return &Module{caps: module.NewCapabilities(operation.KindDigest)}
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleSIMD }
func (*Module) Name() string                        { return "simd" }
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
