package operation

import (
	"fmt"

	"xdao.co/cryptodiff/component"
	"xdao.co/cryptodiff/cursor"
)

type fieldKind int

const (
	fieldID fieldKind = iota
	fieldBignum
	fieldBytes
)

type idTable int

const (
	curveTable idTable = iota + 1
	digestTable
	calcTable
)

// field binds one parameter to its description key and wire form. The order
// of an operation's fields is its wire order.
type field struct {
	key   string
	kind  fieldKind
	table idTable
	id    *uint64
	str   *string
	data  *[]byte
}

func idField(key string, table idTable, p *uint64) field {
	return field{key: key, kind: fieldID, table: table, id: p}
}

func bignumField(key string, p *string) field {
	return field{key: key, kind: fieldBignum, str: p}
}

func bytesField(key string, p *[]byte) field {
	return field{key: key, kind: fieldBytes, data: p}
}

// Encode writes op's parameters in wire order. The modifier is not part of
// the parameter region; see Envelope.
func Encode(op Operation, w *cursor.Writer) {
	for _, f := range op.fields() {
		switch f.kind {
		case fieldID:
			w.PutUint64(*f.id)
		case fieldBignum:
			w.PutString(*f.str)
		case fieldBytes:
			w.PutData(*f.data)
		}
	}
}

// Decode reads the parameters of a kind-k operation from r.
//
// Exactly the fields k requires are consumed. On failure no operation is
// returned and the error is in the Underrun or Malformed category.
func Decode(k Kind, r *cursor.Reader) (Operation, error) {
	op, ok := New(k)
	if !ok {
		return nil, newError(Malformed, RuleUnknownKind, fmt.Sprintf("operation: unknown kind %d", uint64(k)))
	}
	for _, f := range op.fields() {
		switch f.kind {
		case fieldID:
			v, err := r.GetUint64()
			if err != nil {
				return nil, wireError(fmt.Sprintf("operation: %s: %s", k, f.key), err)
			}
			*f.id = v
		case fieldBignum:
			s, err := r.GetString(cursor.DefaultMaxData)
			if err != nil {
				return nil, wireError(fmt.Sprintf("operation: %s: %s", k, f.key), err)
			}
			if !component.ValidBignum(s) {
				return nil, newError(Malformed, RuleBadBignum, fmt.Sprintf("operation: %s: %s is not a decimal integer", k, f.key))
			}
			*f.str = s
		case fieldBytes:
			b, err := r.GetData(cursor.DefaultMaxData)
			if err != nil {
				return nil, wireError(fmt.Sprintf("operation: %s: %s", k, f.key), err)
			}
			*f.data = b
		}
	}
	return op, nil
}
