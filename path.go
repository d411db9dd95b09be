package shapeguard

import "strings"

// pathStack is the breadcrumb of shape keys traversed so far. One instance
// is owned by a single Verify call and mutated in place: a segment is
// pushed before descending into a matched key and popped right after, so
// siblings never see each other's segment. It feeds diagnostics only;
// matching never consults it.
type pathStack struct {
	parts []string
}

func (p *pathStack) push(seg string) { p.parts = append(p.parts, seg) }

func (p *pathStack) pop() { p.parts = p.parts[:len(p.parts)-1] }

// setTop overwrites the innermost segment. Wildcard iteration uses it so
// each reported location names the concrete subject key instead of the
// wildcard marker.
func (p *pathStack) setTop(seg string) { p.parts[len(p.parts)-1] = seg }

// escape '~' -> '~0', '/' -> '~1' per RFC 6901
var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the current location as a JSON Pointer. The root renders
// as "/".
func (p *pathStack) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p.parts {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}
