// Package reporter renders verification reports for humans. The core
// exposes Report as plain data; everything about presentation lives here.
package reporter

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	shapeguard "github.com/reoring/shapeguard"
)

// Reporter writes rendered reports to a sink.
type Reporter struct {
	w io.Writer
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter { return &Reporter{w: w} }

// Render writes the status line followed by one line per message, in
// traversal order.
func (r *Reporter) Render(rep *shapeguard.Report) error {
	if _, err := fmt.Fprintf(r.w, "status: %s\n", rep.Status); err != nil {
		return err
	}
	for _, m := range rep.Messages() {
		if _, err := fmt.Fprintf(r.w, "  - %s\n", m); err != nil {
			return err
		}
	}
	return nil
}

// RenderWithTrees renders the report and then pretty-prints the shape and
// subject trees, so a failing run can be read without the original inputs
// at hand.
func (r *Reporter) RenderWithTrees(rep *shapeguard.Report, shape, subject shapeguard.Value) error {
	if err := r.Render(rep); err != nil {
		return err
	}
	if err := r.dump("shape", shape); err != nil {
		return err
	}
	return r.dump("subject", subject)
}

func (r *Reporter) dump(label string, v shapeguard.Value) error {
	b, err := json.MarshalIndent(shapeguard.ToAny(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.w, "%s:\n%s\n", label, b)
	return err
}
