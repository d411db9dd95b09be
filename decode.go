package shapeguard

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/shapeguard/internal/engine"
)

// Severity expresses how strictly a decoder condition is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles decoding options.
type DecodeOpt struct {
	// OnDuplicateKey controls duplicate mapping keys, which break the
	// Value invariant the engine relies on. Error rejects the input; Warn
	// returns the decoded tree together with Issues (last key wins).
	OnDuplicateKey Severity
	// MaxDepth limits container nesting during decoding; 0 disables.
	MaxDepth int
	// MaxBytes limits consumed input; 0 disables. Needs an offset-reporting
	// source (see StdJSONDriver).
	MaxBytes int64
}

func (o DecodeOpt) enforced() bool {
	return o.OnDuplicateKey != Ignore || o.MaxDepth > 0 || o.MaxBytes > 0
}

// DecodeValue consumes the Source and builds a Value tree. With
// OnDuplicateKey set to Warn the tree is returned alongside a non-nil
// Issues error; callers that only care about hard failures can check
// whether the returned Value is nil.
func DecodeValue(src Source, opts ...DecodeOpt) (Value, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}

	var warns Issues
	engSrc := engineTokenSource(src)
	if opt.enforced() {
		engSrc = eng.WrapWithEnforcement(engSrc, eng.EnforceOptions{
			OnDuplicate: toEngineDup(opt.OnDuplicateKey),
			MaxDepth:    opt.MaxDepth,
			MaxBytes:    opt.MaxBytes,
			IssueSink: func(si eng.SimpleIssue) {
				warns = AppendIssues(warns, Issue{Path: si.Path, Code: si.Code, Message: si.Message})
			},
		})
	}

	raw, err := eng.DecodeAny(engSrc)
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return nil, Issues{Issue{Path: ie.Path, Code: ie.Code, Message: ie.Message}}
		}
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error()}}
	}
	v := FromAny(raw)
	if len(warns) > 0 {
		return v, warns
	}
	return v, nil
}

// DecodeJSON parses JSON from r into a Value using the current JSON driver.
func DecodeJSON(r io.Reader, opts ...DecodeOpt) (Value, error) {
	return DecodeValue(JSONReader(r), opts...)
}

// DecodeJSONBytes parses a JSON byte slice into a Value.
func DecodeJSONBytes(b []byte, opts ...DecodeOpt) (Value, error) {
	return DecodeValue(JSONBytes(b), opts...)
}

// DecodeYAML parses YAML from r into a Value. yaml.v3 resolves duplicate
// keys itself (last wins), so DecodeOpt enforcement does not apply here.
func DecodeYAML(r io.Reader) (Value, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Null{}, nil
		}
		return nil, Issues{Issue{Path: "/", Code: CodeParseError, Message: err.Error()}}
	}
	return FromAny(raw), nil
}

// DecodeYAMLBytes parses a YAML byte slice into a Value.
func DecodeYAMLBytes(b []byte) (Value, error) { return DecodeYAML(bytes.NewReader(b)) }

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}
