package emit

import (
	"io"
	"strings"
	"sync"

	"github.com/genprobe/genprobe/internal/record"
)

// Emitter writes accepted calls to the diagnostic stream in wire form.
//
// Thread-safe: a mutex keeps each input/output pair contiguous when
// transformations run on several goroutines at once. The emitter holds no
// other state; descriptors and payloads come from the caller on every call.
type Emitter struct {
	mu       sync.Mutex
	w        io.Writer
	maxLines int
	maxBytes int
}

// New creates an emitter writing to w with the default display limits.
func New(w io.Writer) *Emitter {
	return &Emitter{w: w, maxLines: DefaultMaxLines, maxBytes: DefaultMaxBytes}
}

// NewWithLimits creates an emitter with explicit display limits.
// Limits of zero or below mean "no limit", same as verbose.
func NewWithLimits(w io.Writer, maxLines, maxBytes int) *Emitter {
	return &Emitter{w: w, maxLines: maxLines, maxBytes: maxBytes}
}

// EmitPair writes the input record then the output record for one accepted
// call, in that order. The ordering is load-bearing: the wrapper's diff view
// reads the pair in stream order, input first.
//
// When verbose is false, payloads past the display limits are cut with an
// omission marker; when true they pass through whole.
func (e *Emitter) EmitPair(d record.CallDescriptor, input, output string, verbose bool) error {
	in := e.Build(d, record.LabelInput, input, verbose)
	out := e.Build(d, record.LabelOutput, output, verbose)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := io.WriteString(e.w, FormatRecord(in)); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, FormatRecord(out))
	return err
}

// Build assembles one record half from a descriptor and its payload,
// applying the emitter's truncation policy. The record carries no session
// or ID; those are assigned on the wrapper side when the stream is scraped
// into the capture store.
func (e *Emitter) Build(d record.CallDescriptor, label record.Label, text string, verbose bool) record.Record {
	text = strings.TrimRight(text, "\n")

	rec := record.Record{
		Identity: d.Identity.String(),
		File:     d.Location.File,
		Line:     d.Location.Line,
		Depth:    d.Depth,
		Sequence: d.Sequence,
		Label:    label,
		Text:     text,
	}
	if !verbose && e.maxLines > 0 && e.maxBytes > 0 {
		rec.Text, rec.OmittedLines, rec.OmittedBytes = truncate(text, e.maxLines, e.maxBytes)
	}
	return rec
}
