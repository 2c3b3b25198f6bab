package lang

import (
	"reflect"
	"strings"
)

// Kind discriminates the two shapes of an evaluated block result.
type Kind uint8

const (
	KindScalar   Kind = iota // a single value substituted or bound as-is
	KindSequence             // an ordered list of candidate values
)

func (k Kind) String() string {
	if k == KindSequence {
		return "sequence"
	}

	return "scalar"
}

// Value is the tagged result of evaluating a block.
//
// A scalar wraps one arbitrary Go value. A sequence holds an ordered list of
// scalars, one per candidate value; a branch is forked for each of them.
// The zero Value is the scalar nil.
type Value struct {
	scalar any
	items  []Value
	kind   Kind
}

// Scalar returns a scalar Value holding v.
func Scalar(v any) Value {
	if val, ok := v.(Value); ok {
		return val
	}

	return Value{kind: KindScalar, scalar: v}
}

// Sequence returns a sequence Value with the given items.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

// Classify wraps an arbitrary evaluation result.
//
// The rule is closed: a slice or array is a sequence, unless it is a byte
// slice. Strings, maps, numbers, booleans, nil, and everything else are
// scalars. Each element of a sequence becomes a scalar, so nested lists are
// not flattened.
func Classify(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case nil, string, []byte:
		return Scalar(v)
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = Scalar(rv.Index(i).Interface())
		}

		return Sequence(items...)

	default:
		return Scalar(v)
	}
}

// Values returns a sequence of scalars built from vs.
func Values[T any](vs ...T) Value {
	items := make([]Value, len(vs))
	for i, v := range vs {
		items[i] = Scalar(v)
	}

	return Sequence(items...)
}

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsSequence reports whether v is a sequence.
func (v Value) IsSequence() bool { return v.kind == KindSequence }

// Len returns the number of candidate values: the item count of a sequence,
// or 1 for a scalar.
func (v Value) Len() int {
	if v.kind == KindSequence {
		return len(v.items)
	}

	return 1
}

// Items returns the candidate values of v in order.
// A scalar yields itself.
func (v Value) Items() []Value {
	if v.kind == KindSequence {
		return append([]Value(nil), v.items...)
	}

	return []Value{v}
}

// Any returns the underlying Go value: the wrapped value of a scalar, or a
// []any of the item values of a sequence.
func (v Value) Any() any {
	if v.kind != KindSequence {
		return v.scalar
	}

	out := make([]any, len(v.items))
	for i, item := range v.items {
		out[i] = item.Any()
	}

	return out
}

// String returns the text substituted into a template for v.
func (v Value) String() string {
	if v.kind != KindSequence {
		return Format(v.scalar)
	}

	var sb strings.Builder

	sb.WriteByte('[')

	for i, item := range v.items {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(item.String())
	}

	sb.WriteByte(']')

	return sb.String()
}
