package shapeguard

import "strings"

// WildcardKey is the reserved shape key that matches every key of the
// corresponding subject mapping, applying the same sub-shape to each.
// Comparison is whitespace-insensitive at the ends. At most one wildcard
// key is allowed per mapping level; Verify reports a wildcard_conflict
// issue otherwise.
const WildcardKey = "[*:key]"

// Optional keys use the marker form "[opt:key:<name>]"; the inner name is
// the real key looked up in the subject.
const (
	optionalPrefix = "[opt:key:"
	optionalSuffix = "]"
)

// KeyKind classifies a raw shape-mapping key.
type KeyKind int

const (
	KeyExact KeyKind = iota
	KeyWildcard
	KeyOptional
)

// KeyToken is the classification of one raw shape key. For KeyOptional,
// Name is the inner name captured from the marker; for KeyExact it is the
// raw key verbatim; for KeyWildcard it is the raw wildcard token itself
// (never looked up in the subject).
type KeyToken struct {
	Name string
	Kind KeyKind
}

// ClassifyKey derives a KeyToken from a raw shape key. Malformed optional
// marker syntax degrades to KeyExact with the raw key verbatim; it is not
// an error.
func ClassifyKey(raw string) KeyToken {
	trimmed := strings.TrimSpace(raw)
	if trimmed == strings.TrimSpace(WildcardKey) {
		return KeyToken{Name: raw, Kind: KeyWildcard}
	}
	if inner, ok := cutOptionalMarker(trimmed); ok {
		return KeyToken{Name: inner, Kind: KeyOptional}
	}
	return KeyToken{Name: raw, Kind: KeyExact}
}

// cutOptionalMarker scans for the fixed optional prefix/suffix and extracts
// the inner name. A hand-written scanner keeps the two-pattern grammar free
// of a regexp dependency.
func cutOptionalMarker(s string) (string, bool) {
	if !strings.HasPrefix(s, optionalPrefix) || !strings.HasSuffix(s, optionalSuffix) {
		return "", false
	}
	inner := s[len(optionalPrefix) : len(s)-len(optionalSuffix)]
	if inner == "" || strings.ContainsAny(inner, "[]") {
		return "", false
	}
	return inner, true
}
