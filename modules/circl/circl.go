// Package circl is the backend built on Cloudflare's CIRCL library. It covers
// BLS12-381 group arithmetic, the optimized P-384 implementation, and modular
// arithmetic in the fields CIRCL implements natively.
package circl

import (
	"context"

	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func init() {
	module.MustRegister(module.Backend{
		ID:          repository.ModuleCircl,
		Name:        "circl",
		Description: "Cloudflare CIRCL BLS12-381, P-384 and prime fields",
		New:         func(*repository.Registry) (module.Module, error) { return New(), nil },
	})
}

type Module struct {
	caps module.Capabilities
}

func New() *Module {
	return &Module{caps: module.NewCapabilities(
		operation.KindECCPrivateToPublic,
		operation.KindECCValidatePubkey,
		operation.KindECCPointAdd,
		operation.KindECCPointMul,
		operation.KindECCPointDbl,
		operation.KindBLSG1Add,
		operation.KindBLSG1Mul,
		operation.KindBLSG1Neg,
		operation.KindBLSG2Add,
		operation.KindBLSG2Mul,
		operation.KindBLSG2Neg,
		operation.KindBignumCalcMod25519,
		operation.KindBignumCalcModBLS12381P,
		operation.KindBignumCalcModBLS12381R,
	)}
}

func (*Module) ID() repository.ModuleID             { return repository.ModuleCircl }
func (*Module) Name() string                        { return "circl" }
func (m *Module) Capabilities() module.Capabilities { return m.caps }
func (*Module) SupportsModularBignumCalc() bool     { return true }

func (m *Module) Attempt(ctx context.Context, op operation.Operation) module.Result {
	if err := ctx.Err(); err != nil {
		return module.Unsupported(err.Error())
	}
	switch o := op.(type) {
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
	case *operation.BLSG1Add:
		return g1Add(o)
	case *operation.BLSG1Mul:
		return g1Mul(o)
	case *operation.BLSG1Neg:
		return g1Neg(o)
	case *operation.BLSG2Add:
		return g2Add(o)
	case *operation.BLSG2Mul:
		return g2Mul(o)
	case *operation.BLSG2Neg:
		return g2Neg(o)
	case *operation.BignumCalc:
		return calc(o)
	}
	return module.Unsupportedf("operation %s", op.Kind())
}
