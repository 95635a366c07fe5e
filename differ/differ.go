// Package differ runs one operation against a set of backend modules and
// decides whether their answers agree.
//
// Modules that return Unsupported take no part in the decision. Concrete
// values are partitioned into equivalence classes under the value type's
// equality; more than one class is a finding. Fewer than two concrete values
// is inconclusive, never a finding.
package differ

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xdao.co/cryptodiff/compliance"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

const (
	// DefaultTimeout bounds a single module call.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxBignumDigits bounds the length of any bignum parameter.
	DefaultMaxBignumDigits = 10000
)

// ErrFault is returned, wrapped, by Compare in strict mode when a module
// panicked or returned a fatal result.
var ErrFault = errors.New("differ: module fault")

// Options configures an Executor. Zero values select the defaults.
type Options struct {
	Timeout         time.Duration
	MaxBignumDigits int
	Mode            compliance.Mode
}

// Executor compares operations across a fixed set of modules. It holds no
// per-comparison state and is safe for concurrent use.
type Executor struct {
	modules   []module.Module
	timeout   time.Duration
	maxDigits int
	mode      compliance.Mode
}

// New returns an Executor over mods. Dispatch order follows mods, except that
// an envelope's target module goes first.
func New(mods []module.Module, opts Options) *Executor {
	e := &Executor{
		modules:   append([]module.Module(nil), mods...),
		timeout:   opts.Timeout,
		maxDigits: opts.MaxBignumDigits,
		mode:      opts.Mode,
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.maxDigits <= 0 {
		e.maxDigits = DefaultMaxBignumDigits
	}
	return e
}

// Modules returns the modules in registry order.
func (e *Executor) Modules() []module.Module {
	return append([]module.Module(nil), e.modules...)
}

// candidates returns the modules dispatched for env, target first.
func (e *Executor) candidates(env operation.Envelope) []module.Module {
	k := env.Op.Kind()
	var first, rest []module.Module
	for _, m := range e.modules {
		if !module.Supports(m, k) {
			continue
		}
		if env.Module != repository.ModuleWildcard && m.ID() == env.Module {
			first = append(first, m)
			continue
		}
		rest = append(rest, m)
	}
	return append(first, rest...)
}

// oversized reports the first bignum parameter longer than the limit.
func (e *Executor) oversized(op operation.Operation) (int, bool) {
	for _, s := range operation.Bignums(op) {
		if len(s) > e.maxDigits {
			return len(s), true
		}
	}
	return 0, false
}

// Compare dispatches env to every capable module and classifies the answers.
// The returned error is non-nil when ctx ends before the comparison
// completes, or in strict mode when a fault was recorded; the verdict is
// returned in both cases.
func (e *Executor) Compare(ctx context.Context, env operation.Envelope) (*Verdict, error) {
	if env.Op == nil {
		return nil, errors.New("differ: envelope has no operation")
	}
	v := &Verdict{
		Kind:     env.Op.Kind(),
		op:       env.Op,
		envelope: env.Encode(),
	}
	mods := e.candidates(env)

	if n, big := e.oversized(env.Op); big {
		for _, m := range mods {
			v.Outcomes = append(v.Outcomes, Outcome{
				Module:   m.Name(),
				ModuleID: m.ID(),
				Result:   module.Unsupportedf("bignum parameter of %d digits exceeds %d", n, e.maxDigits),
			})
		}
		v.State = StateInconclusive
		log.Debugf("%s: inconclusive, %d-digit operand", v.Kind, n)
		return v, nil
	}

	for _, m := range mods {
		out := e.attempt(ctx, m, env.Op)
		if err := ctx.Err(); err != nil {
			return v, err
		}
		if out.Result.Status == module.StatusFatal {
			v.Faults = append(v.Faults, Fault{Module: m.Name(), Err: out.Result.Err})
			log.Warnf("%s: module %s fault: %v", v.Kind, m.Name(), out.Result.Err)
		}
		v.Outcomes = append(v.Outcomes, out)
	}

	v.Classes = classify(v.Outcomes)
	v.State = decide(v.Classes)
	switch v.State {
	case StateInconclusive:
		log.Debugf("%s: inconclusive, %d of %d modules answered", v.Kind, countValues(v.Classes), len(mods))
	case StateAgree:
		log.Tracef("%s: %d modules agree", v.Kind, len(v.Classes[0].Modules))
	case StateDisagree:
		log.Warnf("%s: %d modules disagree in %d classes", v.Kind, countValues(v.Classes), len(v.Classes))
	}

	if len(v.Faults) > 0 && e.mode == compliance.Strict {
		return v, fmt.Errorf("%w: %s", ErrFault, v.Faults[0])
	}
	return v, nil
}

func countValues(classes []Class) int {
	n := 0
	for _, c := range classes {
		n += len(c.Modules)
	}
	return n
}

// attempt runs one module call under the per-call bound. A module still
// running at the deadline counts as Unsupported; its goroutine is abandoned
// and its eventual answer discarded. Panics and empty values become fatal
// results.
func (e *Executor) attempt(ctx context.Context, m module.Module, op operation.Operation) Outcome {
	out := Outcome{Module: m.Name(), ModuleID: m.ID()}
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan module.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- module.Fatal(fmt.Errorf("panic: %v", r))
			}
		}()
		done <- m.Attempt(callCtx, op)
	}()

	select {
	case out.Result = <-done:
		if out.Result.Status == module.StatusValue && out.Result.Value == nil {
			out.Result = module.Fatal(errors.New("module returned an empty value"))
		}
	case <-callCtx.Done():
		out.Result = module.Unsupportedf("no answer within %s", e.timeout)
		out.TimedOut = true
		if ctx.Err() == nil {
			log.Warnf("%s: module %s timed out after %s", op.Kind(), m.Name(), e.timeout)
		}
	}
	return out
}
