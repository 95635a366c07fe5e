package model

type ComplianceMode string

const (
	CompliancePermissive ComplianceMode = "permissive"
	ComplianceStrict     ComplianceMode = "strict"
)

// Outcome is one module's answer.
type Outcome struct {
	Module   string `json:"module"`
	Status   string `json:"status"`
	Kind     string `json:"kind,omitempty"`
	Value    string `json:"value,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
	TimedOut bool   `json:"timedOut,omitempty"`
}

// Class is a set of modules that returned equivalent values.
type Class struct {
	Kind    string   `json:"kind"`
	Value   string   `json:"value"`
	Modules []string `json:"modules"`
}

type Verdict struct {
	Operation string    `json:"operation"`
	State     string    `json:"state"`
	Envelope  string    `json:"envelope"`
	Outcomes  []Outcome `json:"outcomes"`
	Classes   []Class   `json:"classes"`
	Faults    []string  `json:"faults"`
}

// Finding is the reproduction record of a disagreement. Envelope is hex and
// replays the case exactly.
type Finding struct {
	Name        string         `json:"name,omitempty"`
	Operation   string         `json:"operation"`
	Description map[string]any `json:"description"`
	Envelope    string         `json:"envelope"`
	Classes     []Class        `json:"classes"`
}

// Rejection is a corpus entry that does not decode.
type Rejection struct {
	Name   string `json:"name"`
	RuleID string `json:"ruleID,omitempty"`
	Error  string `json:"error"`
}

type ReplayReport struct {
	Entries      int         `json:"entries"`
	Agree        int         `json:"agree"`
	Disagree     int         `json:"disagree"`
	Inconclusive int         `json:"inconclusive"`
	Rejected     int         `json:"rejected"`
	Failed       int         `json:"failed"`
	Compliance   string      `json:"compliance"`
	Findings     []Finding   `json:"findings"`
	Rejections   []Rejection `json:"rejections"`
}

// CaseFile records where an imported case was written.
type CaseFile struct {
	Name        string         `json:"name"`
	Ref         string         `json:"ref,omitempty"`
	Operation   string         `json:"operation"`
	File        string         `json:"file"`
	Description map[string]any `json:"description,omitempty"`
}

// Entry is a decoded corpus entry.
type Entry struct {
	File        string         `json:"file"`
	Operation   string         `json:"operation"`
	Module      string         `json:"module,omitempty"`
	Description map[string]any `json:"description"`
}

type ModuleInfo struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Operations []string `json:"operations"`
	Modular    bool     `json:"modular"`
}
