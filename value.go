package shapeguard

import "fmt"

// Kind identifies a Value node type. The set is closed; every dispatch in
// the engine switches exhaustively over it.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

// String returns the stable tag used in diagnostic messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "array"
	case KindMapping:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the common substrate for both shape and subject trees: a closed
// union over null, opaque scalars, ordered sequences and string-keyed
// mappings. Trees must be finite and acyclic; the engine additionally
// depth-limits recursion so that out-of-contract input cannot exhaust the
// stack.
type Value interface {
	Kind() Kind
}

// Null is the absent-value node. In a shape it means "key must be present,
// any value".
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Scalar wraps an opaque payload (string, bool, number, ...). The engine
// never inspects the payload; scalars only matter for their kind tag.
type Scalar struct {
	V any
}

func (Scalar) Kind() Kind { return KindScalar }

// Sequence is an ordered list of values.
type Sequence []Value

func (Sequence) Kind() Kind { return KindSequence }

// Mapping maps string keys to values. Keys are unique; the decoder enforces
// this (see DecodeOpt.OnDuplicateKey), the engine assumes it.
type Mapping map[string]Value

func (Mapping) Kind() Kind { return KindMapping }

// FromAny converts a decoded any-tree (map[string]any / []any / nil /
// scalar) into a Value. Values pass through unchanged, so mixed trees built
// in tests are fine.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case map[string]any:
		m := make(Mapping, len(t))
		for k, vv := range t {
			m[k] = FromAny(vv)
		}
		return m
	case map[any]any:
		// Older YAML decoders produce any-keyed maps.
		m := make(Mapping, len(t))
		for k, vv := range t {
			m[fmt.Sprint(k)] = FromAny(vv)
		}
		return m
	case []any:
		s := make(Sequence, 0, len(t))
		for _, e := range t {
			s = append(s, FromAny(e))
		}
		return s
	default:
		return Scalar{V: t}
	}
}

// ToAny converts a Value back into the plain any-tree representation used
// by encoders and the reporter.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Scalar:
		return t.V
	case Sequence:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, ToAny(e))
		}
		return out
	case Mapping:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = ToAny(e)
		}
		return out
	default:
		return nil
	}
}
