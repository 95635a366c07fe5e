package operation

import (
	"errors"
	"fmt"

	"xdao.co/cryptodiff/cursor"
	"xdao.co/cryptodiff/repository"
)

// Envelope is the unit persisted to and replayed from the corpus:
//
//	u64 kind | parameters | data modifier | u64 module | bool terminator
//
// The parameter region has no outer length prefix; its extent follows from
// the kind. The terminator is always false.
type Envelope struct {
	Op     Operation
	Module repository.ModuleID
}

// Encode returns the canonical bytes of e. The buffer is fully assembled
// before it is returned.
func (e Envelope) Encode() []byte {
	w := cursor.NewWriter()
	w.PutUint64(uint64(e.Op.Kind()))
	Encode(e.Op, w)
	w.PutData(ModifierOf(e.Op))
	w.PutUint64(uint64(e.Module))
	w.PutBool(false)
	return w.Out()
}

// DecodeEnvelope parses a complete envelope. Trailing bytes after the
// terminator and a set terminator are Malformed.
func DecodeEnvelope(b []byte) (Envelope, error) {
	r := cursor.NewReader(b)
	k, err := r.GetUint64()
	if err != nil {
		return Envelope{}, wireError("envelope: kind", err)
	}
	op, err := Decode(Kind(k), r)
	if err != nil {
		return Envelope{}, err
	}
	mod, err := r.GetData(cursor.DefaultMaxData)
	if err != nil {
		return Envelope{}, wireError("envelope: modifier", err)
	}
	SetModifier(op, mod)
	module, err := r.GetUint64()
	if err != nil {
		return Envelope{}, wireError("envelope: module", err)
	}
	more, err := r.GetBool()
	if err != nil {
		if errors.Is(err, cursor.ErrUnderrun) {
			return Envelope{}, wireError("envelope: terminator", err)
		}
		return Envelope{}, &Error{Category: Malformed, RuleID: RuleBadBool, Message: "envelope: terminator", Cause: err}
	}
	if more {
		return Envelope{}, newError(Malformed, RuleTerminator, "envelope: chained operations are not supported")
	}
	if r.Remaining() != 0 {
		return Envelope{}, newError(Malformed, RuleTrailingBytes, fmt.Sprintf("envelope: %d trailing bytes", r.Remaining()))
	}
	return Envelope{Op: op, Module: repository.ModuleID(module)}, nil
}
