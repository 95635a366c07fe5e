package differ

import (
	"encoding/hex"
	"fmt"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

// State is the outcome of one comparison.
type State int

const (
	// StateInconclusive: fewer than two modules produced a value.
	StateInconclusive State = iota
	// StateAgree: every produced value is equivalent.
	StateAgree
	// StateDisagree: at least two values are not equivalent. This is a finding.
	StateDisagree
)

func (s State) String() string {
	switch s {
	case StateInconclusive:
		return "inconclusive"
	case StateAgree:
		return "agree"
	case StateDisagree:
		return "disagree"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is one module's answer.
type Outcome struct {
	Module   string
	ModuleID repository.ModuleID
	Result   module.Result
	// TimedOut is set when the module did not answer within the per-call
	// bound. Result is then Unsupported.
	TimedOut bool
}

// Class is a set of modules whose values are equivalent. Value is the
// representative: the value of the first module in dispatch order.
type Class struct {
	Value   component.Value
	Modules []string
}

// Fault is a harness defect observed during a comparison.
type Fault struct {
	Module string
	Err    error
}

func (f Fault) String() string { return fmt.Sprintf("%s: %v", f.Module, f.Err) }

// Verdict is the full record of one comparison.
type Verdict struct {
	Kind     operation.Kind
	State    State
	Outcomes []Outcome
	Classes  []Class
	Faults   []Fault

	op       operation.Operation
	envelope []byte
}

// Finding is the reproduction record of a disagreement.
type Finding struct {
	Kind        operation.Kind
	Description operation.Description
	// Envelope is the hex encoding of the envelope that reproduces the case.
	Envelope string
	Classes  []Class
}

// Finding returns the reproduction record, or nil unless the modules
// disagreed.
func (v *Verdict) Finding() *Finding {
	if v == nil || v.State != StateDisagree {
		return nil
	}
	return &Finding{
		Kind:        v.Kind,
		Description: operation.Describe(v.op),
		Envelope:    hex.EncodeToString(v.envelope),
		Classes:     append([]Class(nil), v.Classes...),
	}
}

// Envelope returns the encoded envelope that was compared.
func (v *Verdict) Envelope() []byte { return append([]byte(nil), v.envelope...) }

func (f *Finding) String() string {
	s := fmt.Sprintf("%s disagreement, envelope %s", f.Kind, f.Envelope)
	for _, c := range f.Classes {
		s += fmt.Sprintf("\n  %v: %s", c.Modules, c.Value)
	}
	return s
}

// classify partitions the concrete results into equivalence classes.
func classify(outcomes []Outcome) []Class {
	var classes []Class
next:
	for _, o := range outcomes {
		if o.Result.Status != module.StatusValue {
			continue
		}
		for i := range classes {
			if classes[i].Value.Equal(o.Result.Value) {
				classes[i].Modules = append(classes[i].Modules, o.Module)
				continue next
			}
		}
		classes = append(classes, Class{Value: o.Result.Value, Modules: []string{o.Module}})
	}
	return classes
}

// decide maps the classes to a State. A single value is inconclusive.
func decide(classes []Class) State {
	values := 0
	for _, c := range classes {
		values += len(c.Modules)
	}
	switch {
	case values < 2:
		return StateInconclusive
	case len(classes) == 1:
		return StateAgree
	default:
		return StateDisagree
	}
}
