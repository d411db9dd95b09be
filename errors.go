package shapeguard

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeMissingRequiredKey = "missing_required_key"
	CodeInvalidType        = "invalid_type"
	CodeEmptyArray         = "empty_array"
	CodeWildcardConflict   = "wildcard_conflict"
	CodeDepthExceeded      = "depth_exceeded"
	// Decoder-side codes (duplicate keys, depth/size enforcement, parse failures)
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Issue represents a single diagnostic entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/price).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"key":"id"} or
	// {"expected":"array","found":"scalar"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_required_key at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice
// when needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Status is the two-valued outcome of a verification run. It latches: Ok
// until the first recorded issue, Failed thereafter, never back.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusFailed {
		return "failed"
	}
	return "ok"
}

// Report is the sole output of a verification run: the latched status plus
// every issue recorded during the walk, in traversal order. Status is
// Failed if and only if Issues is non-empty; all writes go through Add so
// the two cannot disagree.
type Report struct {
	Status Status
	Issues Issues
}

// Add records one issue and latches the status to Failed.
func (r *Report) Add(is Issue) {
	r.Issues = append(r.Issues, is)
	r.Status = StatusFailed
}

// OK reports whether the run recorded no issues.
func (r *Report) OK() bool { return r.Status == StatusOK }

// Messages renders one human-readable line per issue, in traversal order.
func (r *Report) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		out = append(out, fmt.Sprintf("%s at %s", is.Message, is.Path))
	}
	return out
}

// Err returns the accumulated Issues as an error, or nil when the run
// passed. Convenience for callers that thread reports through error paths.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return r.Issues
}
