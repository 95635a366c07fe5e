package compliance

import "fmt"

// Mode selects how the comparator treats harness faults: a module that
// panicked, or that reported it could not process parameters it claims to
// support.
//
// Permissive mode records faults on the verdict and carries on. Strict mode
// fails the comparison so the fault cannot go unnoticed in a long replay.
// Neither mode changes which results count as a disagreement.
type Mode int

const (
	Permissive Mode = iota
	Strict
)

func (m Mode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names printed by String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "permissive", "":
		return Permissive, nil
	case "strict":
		return Strict, nil
	}
	return Permissive, fmt.Errorf("compliance: unknown mode %q", s)
}

// UnmarshalFlag lets a Mode be used directly as a command-line option.
func (m *Mode) UnmarshalFlag(value string) error {
	v, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalFlag is the inverse of UnmarshalFlag.
func (m Mode) MarshalFlag() (string, error) { return m.String(), nil }
