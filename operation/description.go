package operation

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/cursor"
	"xdao.co/cryptodiff/repository"
)

// Description is the structured key/value form of an operation.
//
// Byte strings (modifier, cleartext) are hex text, bignums are decimal text
// and identifiers (curveType, digestType, calcOp) are the decimal text of
// their numeric ID. Nested keys such as signature.pub[0] are held as nested
// objects and arrays.
type Description map[string]any

const modifierKey = "modifier"

// Describe returns the description of op. Identifiers are rendered as
// decimal IDs.
func Describe(op Operation) Description {
	d := Description{modifierKey: hex.EncodeToString(ModifierOf(op))}
	for _, f := range op.fields() {
		var v string
		switch f.kind {
		case fieldID:
			v = strconv.FormatUint(*f.id, 10)
		case fieldBignum:
			v = *f.str
		case fieldBytes:
			v = hex.EncodeToString(*f.data)
		}
		setPath(d, f.key, v)
	}
	return d
}

// FromDescription builds a kind-k operation from d. Every key the kind
// requires must be present and no other key may appear.
//
// Identifier values may be given as decimal IDs or, when reg is non-nil, as
// names known to reg (for example "secp256k1" or "InvMod(A,B)").
func FromDescription(reg *repository.Registry, k Kind, d Description) (Operation, error) {
	op, ok := New(k)
	if !ok {
		return nil, newError(InvalidDescription, RuleUnknownIdentity, fmt.Sprintf("description: unknown operation kind %d", uint64(k)))
	}

	flat := map[string]any{}
	flatten("", map[string]any(d), flat)

	fields := op.fields()
	want := map[string]bool{modifierKey: true}
	for _, f := range fields {
		want[f.key] = true
	}
	var unknown []string
	for key := range flat {
		if !want[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, newError(InvalidDescription, RuleUnknownKey, fmt.Sprintf("description: %s: unknown keys %s", k, strings.Join(unknown, ", ")))
	}

	mod, err := hexValue(flat, modifierKey)
	if err != nil {
		return nil, err
	}
	SetModifier(op, mod)

	for _, f := range fields {
		switch f.kind {
		case fieldID:
			v, err := idValue(reg, flat, f)
			if err != nil {
				return nil, err
			}
			*f.id = v
		case fieldBignum:
			v, err := bignumValue(flat, f.key)
			if err != nil {
				return nil, err
			}
			*f.str = v
		case fieldBytes:
			v, err := hexValue(flat, f.key)
			if err != nil {
				return nil, err
			}
			*f.data = v
		}
	}
	return op, nil
}

// ParseDescription decodes a JSON description. Numbers are kept as
// json.Number so large identifiers survive.
func ParseDescription(b []byte) (Description, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var d Description
	if err := dec.Decode(&d); err != nil {
		return nil, &Error{Category: InvalidDescription, RuleID: RuleBadValue, Message: "description: invalid JSON", Cause: err}
	}
	if d == nil {
		return nil, newError(InvalidDescription, RuleBadValue, "description: not an object")
	}
	return d, nil
}

// MarshalDescription renders d as JSON with sorted keys.
func MarshalDescription(d Description) ([]byte, error) {
	return json.Marshal(map[string]any(d))
}

func lookup(flat map[string]any, key string) (any, error) {
	v, ok := flat[key]
	if !ok {
		return nil, newError(InvalidDescription, RuleMissingKey, fmt.Sprintf("description: missing key %q", key))
	}
	return v, nil
}

func badValue(key string, v any, why string) error {
	return newError(InvalidDescription, RuleBadValue, fmt.Sprintf("description: %s: %s (got %T %v)", key, why, v, v))
}

// tooLong rejects values the envelope decoder would refuse.
func tooLong(key string, n int) error {
	return newError(InvalidDescription, RuleTooLong, fmt.Sprintf("description: %s: %d bytes exceeds limit %d", key, n, cursor.DefaultMaxData))
}

func hexValue(flat map[string]any, key string) ([]byte, error) {
	v, err := lookup(flat, key)
	if err != nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, badValue(key, v, "want hex string")
	}
	if len(s) > 2*cursor.DefaultMaxData {
		return nil, tooLong(key, len(s)/2)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, badValue(key, v, "want hex string")
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

func bignumValue(flat map[string]any, key string) (string, error) {
	v, err := lookup(flat, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if ok && len(s) > cursor.DefaultMaxData {
		return "", tooLong(key, len(s))
	}
	if !ok || !component.ValidBignum(s) {
		return "", badValue(key, v, "want decimal integer text")
	}
	return s, nil
}

func idValue(reg *repository.Registry, flat map[string]any, f field) (uint64, error) {
	v, err := lookup(flat, f.key)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case string:
		if n, err := strconv.ParseUint(x, 10, 64); err == nil {
			return n, nil
		}
		if id, ok := resolveName(reg, f.table, x); ok {
			return id, nil
		}
		return 0, newError(InvalidDescription, RuleUnknownIdentity, fmt.Sprintf("description: %s: unknown identifier %q", f.key, x))
	case json.Number:
		if n, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return n, nil
		}
	case float64:
		if x >= 0 && x == math.Trunc(x) && x < 1<<53 {
			return uint64(x), nil
		}
	case int:
		if x >= 0 {
			return uint64(x), nil
		}
	case uint64:
		return x, nil
	case repository.CurveID:
		return uint64(x), nil
	case repository.DigestID:
		return uint64(x), nil
	case repository.CalcOpID:
		return uint64(x), nil
	}
	return 0, badValue(f.key, v, "want identifier")
}

func resolveName(reg *repository.Registry, table idTable, name string) (uint64, bool) {
	if reg == nil {
		return 0, false
	}
	switch table {
	case curveTable:
		c, ok := reg.CurveByName(name)
		return uint64(c.ID), ok
	case digestTable:
		d, ok := reg.DigestByName(name)
		return uint64(d.ID), ok
	case calcTable:
		c, ok := reg.CalcOpByName(name)
		return uint64(c.ID), ok
	}
	return 0, false
}

// flatten maps every leaf of v to a dotted key with [i] array suffixes.
// Empty objects and arrays are kept as leaves so they are reported as
// unknown keys rather than silently ignored.
func flatten(prefix string, v any, out map[string]any) {
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 0 && prefix != "" {
			out[prefix] = x
			return
		}
		for k, child := range x {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case Description:
		flatten(prefix, map[string]any(x), out)
	case []any:
		if len(x) == 0 {
			out[prefix] = x
			return
		}
		for i, child := range x {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, out)
		}
	case []string:
		if len(x) == 0 {
			out[prefix] = x
			return
		}
		for i, child := range x {
			out[fmt.Sprintf("%s[%d]", prefix, i)] = child
		}
	default:
		out[prefix] = v
	}
}

// setPath is the inverse of flatten for a single key.
func setPath(root map[string]any, key string, v any) {
	parts := strings.Split(key, ".")
	m := root
	for i, p := range parts {
		last := i == len(parts)-1
		name, idx, indexed := splitIndex(p)
		if !indexed {
			if last {
				m[name] = v
				return
			}
			next, _ := m[name].(map[string]any)
			if next == nil {
				next = map[string]any{}
				m[name] = next
			}
			m = next
			continue
		}
		arr, _ := m[name].([]any)
		for len(arr) <= idx {
			arr = append(arr, nil)
		}
		m[name] = arr
		if last {
			arr[idx] = v
			return
		}
		next, _ := arr[idx].(map[string]any)
		if next == nil {
			next = map[string]any{}
			arr[idx] = next
		}
		m = next
	}
}

func splitIndex(p string) (string, int, bool) {
	open := strings.IndexByte(p, '[')
	if open < 0 || !strings.HasSuffix(p, "]") {
		return p, 0, false
	}
	n, err := strconv.Atoi(p[open+1 : len(p)-1])
	if err != nil || n < 0 {
		return p, 0, false
	}
	return p[:open], n, true
}
