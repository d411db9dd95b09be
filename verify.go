package shapeguard

import (
	"sort"

	"github.com/reoring/shapeguard/i18n"
)

// DefaultMaxDepth bounds engine recursion when VerifyOpt.MaxDepth is zero.
// Finite acyclic trees this deep do not occur in practice; the limit exists
// so out-of-contract (cyclic or adversarially deep) input degrades into a
// depth_exceeded issue instead of exhausting the stack.
const DefaultMaxDepth = 10000

// VerifyOpt bundles verification options.
type VerifyOpt struct {
	// MaxDepth limits mapping/sequence nesting; 0 means DefaultMaxDepth.
	MaxDepth int
}

// Verify checks that subject conforms to shape and returns the accumulated
// Report. shape must be a Mapping at the top level.
//
// Shape semantics per mapping entry:
//   - a plain key requires the subject mapping to contain that key;
//   - WildcardKey ("[*:key]") applies the entry's sub-shape to every key of
//     the subject mapping, which must have at least one entry;
//   - "[opt:key:<name>]" makes <name> optional: absence is fine, presence
//     is validated exactly like a plain key;
//   - a Sequence shape value validates every subject element against the
//     first template element (additional template elements are ignored);
//     an empty shape sequence checks the array type only, a non-empty one
//     additionally rejects empty subject arrays;
//   - an empty Mapping shape value means "must be an object, contents
//     ignored"; a Null or Scalar shape value means presence alone suffices.
//
// The engine never stops at the first problem: it records every issue it
// finds in one pre-order pass, in deterministic (sorted-key) order. The
// returned Report is owned by the caller; concurrent Verify calls share no
// state.
func Verify(shape, subject Value, opts ...VerifyOpt) *Report {
	var opt VerifyOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	v := &verifier{rep: &Report{}, path: &pathStack{}, maxDepth: opt.MaxDepth}
	v.walkMapping(shape, subject, 0)
	return v.rep
}

// verifier carries the per-call state threaded through the recursive walk.
type verifier struct {
	rep      *Report
	path     *pathStack
	maxDepth int
}

// add records one issue at the current path, rendering the message through
// the translator. data doubles as the structured Params payload.
func (v *verifier) add(code string, data map[string]string) {
	var params map[string]any
	if len(data) > 0 {
		params = make(map[string]any, len(data))
		for k, s := range data {
			params[k] = s
		}
	}
	v.rep.Add(Issue{Path: v.path.Pointer(), Code: code, Message: i18n.T(code, data), Params: params})
}

// walkMapping verifies one shape mapping against a subject node. Non-Mapping
// shape nodes (null/scalar array templates) constrain nothing and return
// immediately.
func (v *verifier) walkMapping(shape, subject Value, depth int) {
	sm, ok := shape.(Mapping)
	if !ok {
		return
	}
	if depth >= v.maxDepth {
		v.add(CodeDepthExceeded, nil)
		return
	}

	keys := sortedMappingKeys(sm)

	wildcards := 0
	for _, k := range keys {
		if ClassifyKey(k).Kind == KeyWildcard {
			wildcards++
		}
	}
	if wildcards > 1 {
		// Hard authoring error; the conflicting entries are skipped rather
		// than racing each other for the same subject keys.
		v.add(CodeWildcardConflict, nil)
	}

	for _, raw := range keys {
		tok := ClassifyKey(raw)
		if tok.Kind == KeyWildcard {
			if wildcards > 1 {
				continue
			}
			v.checkWildcard(tok, sm[raw], subject, depth)
			continue
		}
		v.checkNamed(tok, sm[raw], subject, depth)
	}
}

// checkNamed handles Exact and Optional shape entries.
func (v *verifier) checkNamed(tok KeyToken, shapeVal, subject Value, depth int) {
	subjMap, _ := subject.(Mapping)
	target, present := subjMap[tok.Name]
	if !present {
		if tok.Kind == KeyOptional {
			return
		}
		v.add(CodeMissingRequiredKey, map[string]string{"key": tok.Name})
		return
	}

	v.path.push(tok.Name)
	switch sv := shapeVal.(type) {
	case Sequence:
		v.checkSequence(sv, target, depth)
	case Mapping:
		if tm, ok := target.(Mapping); !ok {
			v.add(CodeInvalidType, map[string]string{
				"expected": KindMapping.String(),
				"found":    kindOf(target).String(),
			})
		} else if len(sv) > 0 {
			// An empty-object shape means "must be an object, contents
			// ignored"; only non-empty shapes recurse.
			v.walkMapping(sv, tm, depth+1)
		}
	default:
		// Null or Scalar shape value: presence alone suffices.
	}
	v.path.pop()
}

// checkWildcard handles the wildcard entry of a shape mapping. The subject
// node itself is what the wildcard ranges over: its own keys are iterated
// for mapping sub-shapes, and it is the checked sequence for array
// sub-shapes.
func (v *verifier) checkWildcard(tok KeyToken, shapeVal, subject Value, depth int) {
	satisfied := false
	switch s := subject.(type) {
	case Mapping:
		// An empty mapping never satisfies a wildcard requirement.
		satisfied = len(s) > 0
	case Sequence:
		satisfied = true
	}
	if !satisfied {
		v.add(CodeMissingRequiredKey, map[string]string{"key": tok.Name})
		return
	}

	v.path.push(tok.Name)
	switch sv := shapeVal.(type) {
	case Sequence:
		v.checkSequence(sv, subject, depth)
	case Mapping:
		if sm, ok := subject.(Mapping); !ok {
			v.add(CodeInvalidType, map[string]string{
				"expected": KindMapping.String(),
				"found":    kindOf(subject).String(),
			})
		} else {
			for _, k := range sortedMappingKeys(sm) {
				// Overwrite, not append: iterations are siblings and must
				// not see each other's segment.
				v.path.setTop(k)
				v.walkMapping(sv, sm[k], depth+1)
			}
		}
	default:
		// Presence of at least one key was all the shape asked for.
	}
	v.path.pop()
}

// checkSequence validates a subject node against a shape sequence.
func (v *verifier) checkSequence(shapeSeq Sequence, target Value, depth int) {
	ts, ok := target.(Sequence)
	if !ok {
		v.add(CodeInvalidType, map[string]string{
			"expected": KindSequence.String(),
			"found":    kindOf(target).String(),
		})
		return
	}
	if len(shapeSeq) == 0 {
		// Empty shape sequence: the array type is the whole requirement.
		return
	}
	// Only the first element drives validation; extra template elements are
	// ignored, which shape authors may rely on.
	template := shapeSeq[0]
	if len(ts) == 0 {
		v.add(CodeEmptyArray, nil)
		return
	}
	for _, elem := range ts {
		// All elements share the same path; indices are not appended.
		v.walkMapping(template, elem, depth+1)
	}
}

func sortedMappingKeys(m Mapping) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// kindOf tolerates nil interface values in hand-built trees.
func kindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
