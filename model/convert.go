package model

import (
	"encoding/hex"
	"strconv"

	"xdao.co/cryptodiff/cidutil"

	"xdao.co/cryptodiff/corpus"
	"xdao.co/cryptodiff/differ"
	"xdao.co/cryptodiff/module"
	"xdao.co/cryptodiff/operation"
	"xdao.co/cryptodiff/repository"
)

func fromClasses(cs []differ.Class) []Class {
	out := make([]Class, 0, len(cs))
	for _, c := range cs {
		out = append(out, Class{
			Kind:    string(c.Value.Kind()),
			Value:   c.Value.String(),
			Modules: append([]string{}, c.Modules...),
		})
	}
	return out
}

// FromVerdict projects a comparison.
func FromVerdict(v *differ.Verdict) Verdict {
	out := Verdict{
		Operation: v.Kind.String(),
		State:     v.State.String(),
		Envelope:  hex.EncodeToString(v.Envelope()),
		Outcomes:  make([]Outcome, 0, len(v.Outcomes)),
		Classes:   fromClasses(v.Classes),
		Faults:    make([]string, 0, len(v.Faults)),
	}
	for _, o := range v.Outcomes {
		m := Outcome{
			Module:   o.Module,
			Status:   o.Result.Status.String(),
			Reason:   o.Result.Reason,
			TimedOut: o.TimedOut,
		}
		if o.Result.Value != nil {
			m.Kind = string(o.Result.Value.Kind())
			m.Value = o.Result.Value.String()
		}
		if o.Result.Err != nil {
			m.Error = o.Result.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, m)
	}
	for _, f := range v.Faults {
		out.Faults = append(out.Faults, f.String())
	}
	return out
}

// FromFinding projects a disagreement. name may be empty.
func FromFinding(name string, f *differ.Finding) Finding {
	return Finding{
		Name:        name,
		Operation:   f.Kind.String(),
		Description: map[string]any(f.Description),
		Envelope:    f.Envelope,
		Classes:     fromClasses(f.Classes),
	}
}

// FromReport projects a corpus replay.
func FromReport(r *corpus.Report, mode ComplianceMode) ReplayReport {
	out := ReplayReport{
		Entries:      len(r.Entries),
		Agree:        r.Agree,
		Disagree:     r.Disagree,
		Inconclusive: r.Inconclusive,
		Rejected:     r.Rejected,
		Failed:       r.Failed,
		Compliance:   string(mode),
		Findings:     []Finding{},
		Rejections:   []Rejection{},
	}
	for _, f := range r.Findings() {
		out.Findings = append(out.Findings, FromFinding(f.Name, f.Finding))
	}
	for _, e := range r.Entries {
		if e.Err == nil || !operation.IsDecodeFailure(e.Err) {
			continue
		}
		out.Rejections = append(out.Rejections, Rejection{
			Name:   e.Name,
			RuleID: operation.RuleID(e.Err),
			Error:  e.Err.Error(),
		})
	}
	return out
}

// FromWritten projects the result of a corpus import.
func FromWritten(ws []corpus.Written) []CaseFile {
	out := make([]CaseFile, 0, len(ws))
	for _, w := range ws {
		out = append(out, CaseFile{
			Name:      w.Case.Name,
			Ref:       w.Case.Ref,
			Operation: w.Case.Op.Kind().String(),
			File:      w.Name,
		})
	}
	return out
}

// FromCases describes generated cases without writing them.
func FromCases(cases []corpus.Case) []CaseFile {
	out := make([]CaseFile, 0, len(cases))
	for _, c := range cases {
		out = append(out, CaseFile{
			Name:        c.Name,
			Ref:         c.Ref,
			Operation:   c.Op.Kind().String(),
			File:        cidutil.Filename(c.Envelope().Encode()),
			Description: map[string]any(operation.Describe(c.Op)),
		})
	}
	return out
}

// FromEnvelope describes a decoded entry. Module ids missing from reg are
// printed numerically.
func FromEnvelope(reg *repository.Registry, file string, env operation.Envelope) Entry {
	e := Entry{
		File:        file,
		Operation:   env.Op.Kind().String(),
		Description: map[string]any(operation.Describe(env.Op)),
	}
	if env.Module != repository.ModuleWildcard {
		if m, ok := reg.Module(env.Module); ok {
			e.Module = m.Name
		} else {
			e.Module = strconv.FormatUint(uint64(env.Module), 10)
		}
	}
	return e
}

// FromModules lists modules with the operations they accept.
func FromModules(mods []module.Module) []ModuleInfo {
	out := make([]ModuleInfo, 0, len(mods))
	for _, m := range mods {
		info := ModuleInfo{
			ID:         uint64(m.ID()),
			Name:       m.Name(),
			Operations: []string{},
			Modular:    m.SupportsModularBignumCalc(),
		}
		for _, k := range m.Capabilities().Kinds() {
			if module.Supports(m, k) {
				info.Operations = append(info.Operations, k.String())
			}
		}
		out = append(out, info)
	}
	return out
}
