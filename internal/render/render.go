// Package render is the display side of the wrapper: it turns scraped
// records back into colored, highlighted, optionally diffed output.
//
// The emit wire format is deliberately plain so the in-build library stays
// free of display dependencies; everything a human looks at happens here.
// Rendering degrades to plain text when color is off, so piping the
// wrapper's output stays clean.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/genprobe/genprobe/internal/condense"
	"github.com/genprobe/genprobe/internal/record"
)

// Options configure a Renderer.
type Options struct {
	// Color enables the banner and syntax highlighting.
	Color bool

	// Diff appends a word diff of input vs output after each completed
	// pair.
	Diff bool

	// Condense collapses payload blocks nested deeper than this level.
	// Zero means off.
	Condense int
}

// Renderer writes human-readable record output. Records arrive in stream
// order; when diffing is on, the input half of each pair is held until its
// output half completes the pair.
//
// Not thread-safe; the wrapper drives it from one consumer goroutine.
type Renderer struct {
	w      io.Writer
	opts   Options
	banner *color.Color
	marker *color.Color

	// pending input payloads keyed by identity#sequence, for diffing.
	pending map[string]string
}

// New creates a renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{
		w:       w,
		opts:    opts,
		banner:  color.New(color.BgCyan, color.FgBlack),
		marker:  color.New(color.FgYellow),
		pending: make(map[string]string),
	}
	if !opts.Color {
		r.banner.DisableColor()
		r.marker.DisableColor()
	}
	return r
}

// Passthrough writes one non-record build output line unchanged.
func (r *Renderer) Passthrough(line string) error {
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// Record renders one record half: banner header, payload, omission marker.
// With diffing on, completing an output half also renders the pair's diff.
func (r *Renderer) Record(rec record.Record) error {
	header := fmt.Sprintf(" %s of %s (%s:%d) [depth %d, call %d] ",
		rec.Label, rec.Identity, rec.File, rec.Line, rec.Depth, rec.Sequence)
	if _, err := fmt.Fprintln(r.w, r.banner.Sprint(header)); err != nil {
		return err
	}

	text := rec.Text
	if r.opts.Condense > 0 {
		if condensed, err := condense.Apply(text, r.opts.Condense); err == nil {
			text = condensed
		}
	}
	if err := r.payload(text); err != nil {
		return err
	}
	if rec.OmittedLines > 0 || rec.OmittedBytes > 0 {
		omitted := fmt.Sprintf("  … %d lines, %d bytes omitted", rec.OmittedLines, rec.OmittedBytes)
		if _, err := fmt.Fprintln(r.w, r.marker.Sprint(omitted)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(r.w); err != nil {
		return err
	}

	if r.opts.Diff {
		return r.diff(rec)
	}
	return nil
}

// payload writes the record text, syntax highlighted when color is on,
// indented two spaces either way.
func (r *Renderer) payload(text string) error {
	if text == "" {
		return nil
	}
	if r.opts.Color {
		var hl strings.Builder
		if err := quick.Highlight(&hl, text, "go", "terminal256", "monokai"); err == nil {
			text = strings.TrimRight(hl.String(), "\n")
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if _, err := fmt.Fprintf(r.w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// diff tracks pair halves and renders the word diff once both are seen.
func (r *Renderer) diff(rec record.Record) error {
	key := fmt.Sprintf("%s#%d", rec.Identity, rec.Sequence)
	switch rec.Label {
	case record.LabelInput:
		r.pending[key] = rec.Text
		return nil
	case record.LabelOutput:
		input, ok := r.pending[key]
		if !ok {
			// Output without its input half: the input was filtered or
			// lost upstream. Nothing to diff.
			return nil
		}
		delete(r.pending, key)
		return r.writeDiff(input, rec.Text)
	}
	return nil
}

func (r *Renderer) writeDiff(input, output string) error {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(input, output, true))

	if _, err := fmt.Fprintln(r.w, r.marker.Sprint("  --- input -> output")); err != nil {
		return err
	}
	var body string
	if r.opts.Color {
		body = dmp.DiffPrettyText(diffs)
	} else {
		body = diffPlainText(diffs)
	}
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		if _, err := fmt.Fprintf(r.w, "  %s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.w)
	return err
}

// diffPlainText renders diffs without ANSI codes, marking insertions and
// deletions inline.
func diffPlainText(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+")
			b.WriteString(d.Text)
			b.WriteString("+}")
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-")
			b.WriteString(d.Text)
			b.WriteString("-]")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}
