package shapeguard_test

import (
	"reflect"
	"sync"
	"testing"

	shapeguard "github.com/reoring/shapeguard"
)

func mustDecode(t *testing.T, src string) shapeguard.Value {
	t.Helper()
	v, err := shapeguard.DecodeJSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("decode %q: %v", src, err)
	}
	return v
}

func TestVerify_PresenceOnly(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"key": null}`),
		mustDecode(t, `{"key": "value"}`),
	)
	if !rep.OK() || len(rep.Issues) != 0 {
		t.Fatalf("expected ok with no issues, got %+v", rep)
	}
	if len(rep.Messages()) != 0 {
		t.Fatalf("expected no messages, got %v", rep.Messages())
	}
}

func TestVerify_NullShapeAcceptsAnyValue(t *testing.T) {
	for _, subj := range []string{
		`{"key": "s"}`,
		`{"key": 42}`,
		`{"key": true}`,
		`{"key": null}`,
		`{"key": [1,2]}`,
		`{"key": {"nested": 1}}`,
	} {
		rep := shapeguard.Verify(mustDecode(t, `{"key": null}`), mustDecode(t, subj))
		if !rep.OK() {
			t.Fatalf("subject %s: expected ok, got %v", subj, rep.Messages())
		}
	}
}

func TestVerify_MissingKeyAtRoot(t *testing.T) {
	rep := shapeguard.Verify(mustDecode(t, `{"key": null}`), mustDecode(t, `{}`))
	if rep.OK() {
		t.Fatalf("expected failure")
	}
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %v", rep.Issues)
	}
	is := rep.Issues[0]
	if is.Code != shapeguard.CodeMissingRequiredKey {
		t.Fatalf("expected %s, got %s", shapeguard.CodeMissingRequiredKey, is.Code)
	}
	if is.Path != "/" {
		t.Fatalf("expected root path, got %q", is.Path)
	}
	if is.Params["key"] != "key" {
		t.Fatalf("expected key param, got %v", is.Params)
	}
}

func TestVerify_MatchingSiblingsReportNothing(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"a": null, "b": null, "c": null}`),
		mustDecode(t, `{"a": 1, "c": true}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %v", rep.Issues)
	}
	if got := rep.Issues[0].Params["key"]; got != "b" {
		t.Fatalf("expected missing b, got %v", got)
	}
}

func TestVerify_EmptyArrayViolation(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"items": [{"id": null}]}`),
		mustDecode(t, `{"items": []}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	is := rep.Issues[0]
	if is.Code != shapeguard.CodeEmptyArray || is.Path != "/items" {
		t.Fatalf("expected empty_array at /items, got %s at %s", is.Code, is.Path)
	}
}

func TestVerify_ArrayTemplateAppliesToEveryElement(t *testing.T) {
	shape := mustDecode(t, `{"items": [{"id": null}]}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `{"items": [{"id": 1}, {"id": 2}]}`))
	if !rep.OK() {
		t.Fatalf("expected ok, got %v", rep.Messages())
	}

	rep = shapeguard.Verify(shape, mustDecode(t, `{"items": [{"id": 1}, {}]}`))
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	// Array indices are not appended to the path.
	if rep.Issues[0].Path != "/items" {
		t.Fatalf("expected /items, got %q", rep.Issues[0].Path)
	}
}

func TestVerify_EmptyShapeArrayChecksTypeOnly(t *testing.T) {
	shape := mustDecode(t, `{"items": []}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `{"items": [1, {"x": 1}, null]}`))
	if !rep.OK() {
		t.Fatalf("expected ok, got %v", rep.Messages())
	}
	rep = shapeguard.Verify(shape, mustDecode(t, `{"items": []}`))
	if !rep.OK() {
		t.Fatalf("expected ok for empty subject array, got %v", rep.Messages())
	}

	rep = shapeguard.Verify(shape, mustDecode(t, `{"items": {"a": 1}}`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", rep.Issues)
	}
	if rep.Issues[0].Params["expected"] != "array" || rep.Issues[0].Params["found"] != "object" {
		t.Fatalf("expected array/object tags, got %v", rep.Issues[0].Params)
	}
}

func TestVerify_ObjectTypeMismatch(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"meta": {"v": null}}`),
		mustDecode(t, `{"meta": 3}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	is := rep.Issues[0]
	if is.Code != shapeguard.CodeInvalidType || is.Path != "/meta" {
		t.Fatalf("expected invalid_type at /meta, got %s at %s", is.Code, is.Path)
	}
	if is.Params["expected"] != "object" || is.Params["found"] != "scalar" {
		t.Fatalf("expected object/scalar tags, got %v", is.Params)
	}
}

func TestVerify_EmptyObjectShapeChecksTypeOnly(t *testing.T) {
	shape := mustDecode(t, `{"meta": {}}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `{"meta": {"anything": [1]}}`))
	if !rep.OK() {
		t.Fatalf("expected ok, got %v", rep.Messages())
	}

	rep = shapeguard.Verify(shape, mustDecode(t, `{"meta": []}`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", rep.Issues)
	}
}

func TestVerify_NestedPath(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"a": {"b": {"c": null}}}`),
		mustDecode(t, `{"a": {"b": {}}}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	if rep.Issues[0].Path != "/a/b" {
		t.Fatalf("expected /a/b, got %q", rep.Issues[0].Path)
	}
}

func TestVerify_PointerEscaping(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"a/b": {"x~y": null}}`),
		mustDecode(t, `{"a/b": {}}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	if rep.Issues[0].Path != "/a~1b" {
		t.Fatalf("expected RFC6901 escaping, got %q", rep.Issues[0].Path)
	}
}

func TestVerify_Wildcard(t *testing.T) {
	shape := mustDecode(t, `{"[*:key]": {"sex": null}}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `{"a": {"sex": "m"}, "b": {"sex": "f"}}`))
	if !rep.OK() {
		t.Fatalf("expected ok, got %v", rep.Messages())
	}

	// Empty mapping never satisfies a wildcard.
	rep = shapeguard.Verify(shape, mustDecode(t, `{}`))
	if rep.OK() || len(rep.Issues) != 1 {
		t.Fatalf("expected one failure, got %+v", rep)
	}
	if rep.Issues[0].Code != shapeguard.CodeMissingRequiredKey {
		t.Fatalf("expected missing_required_key, got %s", rep.Issues[0].Code)
	}
}

func TestVerify_WildcardPathNamesSubjectKey(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"[*:key]": {"sex": null}}`),
		mustDecode(t, `{"a": {"sex": "m"}, "b": {}}`),
	)
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	if rep.Issues[0].Path != "/b" {
		t.Fatalf("expected path /b, got %q", rep.Issues[0].Path)
	}
}

func TestVerify_WildcardSiblingsDoNotAccumulatePath(t *testing.T) {
	// Both subject entries fail; each path names its own key only.
	rep := shapeguard.Verify(
		mustDecode(t, `{"[*:key]": {"sex": null}}`),
		mustDecode(t, `{"a": {}, "b": {}}`),
	)
	if len(rep.Issues) != 2 {
		t.Fatalf("expected two issues, got %v", rep.Issues)
	}
	if rep.Issues[0].Path != "/a" || rep.Issues[1].Path != "/b" {
		t.Fatalf("expected /a then /b, got %q %q", rep.Issues[0].Path, rep.Issues[1].Path)
	}
}

func TestVerify_WildcardOverSequence(t *testing.T) {
	shape := mustDecode(t, `{"[*:key]": [{"id": null}]}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `[{"id": 1}, {"id": 2}]`))
	if !rep.OK() {
		t.Fatalf("expected ok, got %v", rep.Messages())
	}

	rep = shapeguard.Verify(shape, mustDecode(t, `[{}]`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeMissingRequiredKey {
		t.Fatalf("expected missing id, got %v", rep.Issues)
	}
}

func TestVerify_WildcardConflict(t *testing.T) {
	// Two whitespace variants of the wildcard marker survive decoding as
	// distinct mapping keys; the engine rejects the shape.
	shape := shapeguard.Mapping{
		"[*:key]":  shapeguard.Mapping{},
		" [*:key]": shapeguard.Mapping{},
	}
	rep := shapeguard.Verify(shape, mustDecode(t, `{"a": {"b": 1}}`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeWildcardConflict {
		t.Fatalf("expected single wildcard_conflict, got %v", rep.Issues)
	}
}

func TestVerify_Optional(t *testing.T) {
	shape := mustDecode(t, `{"[opt:key:extra]": [{"v": null}]}`)

	rep := shapeguard.Verify(shape, mustDecode(t, `{}`))
	if !rep.OK() {
		t.Fatalf("optional absent should pass, got %v", rep.Messages())
	}

	// Present, so it is validated exactly like a plain key.
	rep = shapeguard.Verify(shape, mustDecode(t, `{"extra": [{}]}`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeMissingRequiredKey {
		t.Fatalf("expected missing v, got %v", rep.Issues)
	}
	if rep.Issues[0].Path != "/extra" {
		t.Fatalf("expected /extra, got %q", rep.Issues[0].Path)
	}
}

func TestVerify_OptionalPresentWrongType(t *testing.T) {
	rep := shapeguard.Verify(
		mustDecode(t, `{"[opt:key:cfg]": {"v": null}}`),
		mustDecode(t, `{"cfg": 5}`),
	)
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", rep.Issues)
	}
}

func TestVerify_MalformedOptionalTreatedAsExact(t *testing.T) {
	rep := shapeguard.Verify(mustDecode(t, `{"[opt:key:]": null}`), mustDecode(t, `{}`))
	if len(rep.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", rep.Issues)
	}
	if got := rep.Issues[0].Params["key"]; got != "[opt:key:]" {
		t.Fatalf("expected raw key verbatim, got %v", got)
	}
}

func TestVerify_DeterministicMessageOrder(t *testing.T) {
	shape := mustDecode(t, `{"b": null, "a": null, "c": null}`)
	subject := mustDecode(t, `{}`)

	rep := shapeguard.Verify(shape, subject)
	if len(rep.Issues) != 3 {
		t.Fatalf("expected three issues, got %v", rep.Issues)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := rep.Issues[i].Params["key"]; got != want {
			t.Fatalf("issue %d: expected %s, got %v", i, want, got)
		}
	}
}

func TestVerify_Idempotent(t *testing.T) {
	shape := mustDecode(t, `{"a": null, "items": [{"id": null}], "[opt:key:x]": null}`)
	subject := mustDecode(t, `{"items": []}`)

	first := shapeguard.Verify(shape, subject)
	second := shapeguard.Verify(shape, subject)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reports differ:\n%+v\n%+v", first, second)
	}
}

func TestVerify_ConcurrentCallsDoNotInterfere(t *testing.T) {
	shapeA := mustDecode(t, `{"a": {"b": null}}`)
	subjectA := mustDecode(t, `{"a": {}}`)
	shapeB := mustDecode(t, `{"items": [{"id": null}]}`)
	subjectB := mustDecode(t, `{"items": [{"id": 1}, {}]}`)

	wantA := shapeguard.Verify(shapeA, subjectA)
	wantB := shapeguard.Verify(shapeB, subjectB)

	const rounds = 50
	var wg sync.WaitGroup
	gotA := make([]*shapeguard.Report, rounds)
	gotB := make([]*shapeguard.Report, rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			gotA[i] = shapeguard.Verify(shapeA, subjectA)
		}(i)
		go func(i int) {
			defer wg.Done()
			gotB[i] = shapeguard.Verify(shapeB, subjectB)
		}(i)
	}
	wg.Wait()

	for i := 0; i < rounds; i++ {
		if !reflect.DeepEqual(wantA, gotA[i]) || !reflect.DeepEqual(wantB, gotB[i]) {
			t.Fatalf("round %d: concurrent reports diverged", i)
		}
	}
}

func TestVerify_DepthLimit(t *testing.T) {
	shape := shapeguard.Mapping{}
	subject := shapeguard.Mapping{}
	cur, curSub := shape, subject
	for i := 0; i < 6; i++ {
		nextShape, nextSub := shapeguard.Mapping{}, shapeguard.Mapping{}
		cur["n"], curSub["n"] = nextShape, nextSub
		cur, curSub = nextShape, nextSub
	}
	cur["leaf"] = shapeguard.Null{}
	curSub["leaf"] = shapeguard.Scalar{V: 1}

	rep := shapeguard.Verify(shape, subject, shapeguard.VerifyOpt{MaxDepth: 3})
	if rep.OK() {
		t.Fatalf("expected depth failure")
	}
	if rep.Issues[0].Code != shapeguard.CodeDepthExceeded {
		t.Fatalf("expected depth_exceeded, got %v", rep.Issues)
	}

	rep = shapeguard.Verify(shape, subject)
	if !rep.OK() {
		t.Fatalf("default limit should allow shallow trees, got %v", rep.Messages())
	}
}

func TestVerify_NonMappingSubjectForExactKey(t *testing.T) {
	// A non-mapping subject cannot satisfy a named key.
	rep := shapeguard.Verify(mustDecode(t, `{"key": null}`), mustDecode(t, `[1, 2]`))
	if len(rep.Issues) != 1 || rep.Issues[0].Code != shapeguard.CodeMissingRequiredKey {
		t.Fatalf("expected missing key, got %v", rep.Issues)
	}
}
