// Package module defines the contract a backend satisfies to take part in a
// differential comparison, and the process-wide backend registry.
//
// A backend declares up front which operation kinds it implements. Every call
// to Attempt must be independent of previous calls: backends may allocate
// per-call state but must not retain it.
package module

import (
	"context"
	"fmt"
	"sort"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// Status classifies a Result.
type Status int

const (
	// StatusValue: the module computed a value.
	StatusValue Status = iota
	// StatusUnsupported: the module has no opinion on this operation.
	StatusUnsupported
	// StatusFatal: the module could not process parameters it should have
	// handled. This is a harness defect, not a disagreement.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusValue:
		return "value"
	case StatusUnsupported:
		return "unsupported"
	case StatusFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one Attempt.
type Result struct {
	Status Status
	Value  component.Value
	// Reason explains an unsupported result. Informational only.
	Reason string
	Err    error
}

// Value wraps a computed value.
func Value(v component.Value) Result { return Result{Status: StatusValue, Value: v} }

// Unsupported returns the no-opinion result.
func Unsupported(reason string) Result { return Result{Status: StatusUnsupported, Reason: reason} }

// Unsupportedf is Unsupported with formatting.
func Unsupportedf(format string, args ...any) Result {
	return Unsupported(fmt.Sprintf(format, args...))
}

// Fatal reports a harness-level defect.
func Fatal(err error) Result { return Result{Status: StatusFatal, Err: err} }

// Capabilities is the set of operation kinds a module implements.
type Capabilities struct {
	kinds map[operation.Kind]struct{}
}

func NewCapabilities(kinds ...operation.Kind) Capabilities {
	c := Capabilities{kinds: make(map[operation.Kind]struct{}, len(kinds))}
	for _, k := range kinds {
		c.kinds[k] = struct{}{}
	}
	return c
}

func (c Capabilities) Has(k operation.Kind) bool {
	_, ok := c.kinds[k]
	return ok
}

// Kinds returns the set in ascending order.
func (c Capabilities) Kinds() []operation.Kind {
	out := make([]operation.Kind, 0, len(c.kinds))
	for k := range c.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Module is a backend wrapping one cryptographic library.
type Module interface {
	ID() repository.ModuleID
	Name() string
	Capabilities() Capabilities
	// SupportsModularBignumCalc reports whether the module accepts the
	// BignumCalc_Mod_* kinds in its capability set.
	SupportsModularBignumCalc() bool
	// Attempt computes op. It must not panic on a well-formed operation and
	// must return Unsupported rather than a fabricated value when it cannot
	// compute. Implementations should return promptly once ctx is done.
	Attempt(ctx context.Context, op operation.Operation) Result
}

// Supports reports whether m should be dispatched an operation of kind k.
func Supports(m Module, k operation.Kind) bool {
	if !m.Capabilities().Has(k) {
		return false
	}
	if mod, ok := operation.ModuloOf(k); ok && mod != operation.ModNone {
		return m.SupportsModularBignumCalc()
	}
	return true
}

// Chunks splits data into the pieces a streaming implementation should be
// fed. Each modifier byte gives the length of the next piece; whatever is
// left after the modifier is exhausted forms the final piece. The
// concatenation of the pieces is always data.
func Chunks(data, modifier []byte) [][]byte {
	var out [][]byte
	for _, n := range modifier {
		if len(data) == 0 {
			break
		}
		size := int(n)
		if size > len(data) {
			size = len(data)
		}
		out = append(out, data[:size])
		data = data[size:]
	}
	if len(data) > 0 || len(out) == 0 {
		out = append(out, data)
	}
	return out
}
