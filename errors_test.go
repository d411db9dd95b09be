package shapeguard_test

import (
	"fmt"
	"strings"
	"testing"

	shapeguard "github.com/reoring/shapeguard"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := shapeguard.Issues{
		{Path: "/a", Code: shapeguard.CodeMissingRequiredKey},
		{Path: "/b", Code: shapeguard.CodeInvalidType},
		{Path: "/c", Code: shapeguard.CodeEmptyArray},
		{Path: "/d", Code: shapeguard.CodeMissingRequiredKey},
	}
	s := iss.Error()
	if s == "" {
		t.Fatalf("expected non-empty error summary")
	}
	if !strings.Contains(s, "total 4") {
		t.Fatalf("expected truncation note, got %q", s)
	}
	if shapeguard.Issues(nil).Error() != "" {
		t.Fatalf("empty issues should stringify empty")
	}
}

func TestAsIssues(t *testing.T) {
	iss := shapeguard.Issues{{Path: "/", Code: shapeguard.CodeParseError}}
	wrapped := fmt.Errorf("decode: %w", iss)
	got, ok := shapeguard.AsIssues(wrapped)
	if !ok || len(got) != 1 {
		t.Fatalf("expected unwrap, got %v %v", got, ok)
	}
	if _, ok := shapeguard.AsIssues(nil); ok {
		t.Fatalf("nil error must not unwrap")
	}
	if _, ok := shapeguard.AsIssues(fmt.Errorf("plain")); ok {
		t.Fatalf("plain error must not unwrap")
	}
}

func TestReport_LatchAndMessages(t *testing.T) {
	var rep shapeguard.Report
	if !rep.OK() || rep.Status.String() != "ok" {
		t.Fatalf("fresh report must be ok")
	}
	if rep.Err() != nil {
		t.Fatalf("ok report must have nil Err")
	}

	rep.Add(shapeguard.Issue{Path: "/a", Code: shapeguard.CodeMissingRequiredKey, Message: "required key \"a\" is missing"})
	rep.Add(shapeguard.Issue{Path: "/b", Code: shapeguard.CodeInvalidType, Message: "should be array (found scalar)"})

	if rep.OK() || rep.Status.String() != "failed" {
		t.Fatalf("status must latch to failed")
	}
	msgs := rep.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected two messages, got %v", msgs)
	}
	if msgs[0] != "required key \"a\" is missing at /a" {
		t.Fatalf("unexpected rendering: %q", msgs[0])
	}
	if rep.Err() == nil {
		t.Fatalf("failed report must expose Err")
	}
}
