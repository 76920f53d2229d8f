package emit

import (
	"fmt"
	"strings"

	"github.com/genprobe/genprobe/internal/record"
)

// Wire format constants, shared with the scrape package.
const (
	// HeaderPrefix opens every record header line.
	HeaderPrefix = "👉 "

	// PayloadIndent prefixes every payload line under a header.
	PayloadIndent = "  "
)

// FormatHeader renders the record's header line, without trailing newline.
func FormatHeader(rec record.Record) string {
	return fmt.Sprintf("%s%s of %s (%s:%d) [depth %d, call %d]",
		HeaderPrefix, rec.Label, rec.Identity, rec.File, rec.Line, rec.Depth, rec.Sequence)
}

// FormatMarker renders the omission marker payload line, without indent or
// trailing newline.
func FormatMarker(omittedLines, omittedBytes int) string {
	return fmt.Sprintf("... (%d lines, %d bytes omitted)", omittedLines, omittedBytes)
}

// FormatRecord renders one record in wire form: header, indented payload,
// marker when text was cut, and the blank terminator line.
func FormatRecord(rec record.Record) string {
	var b strings.Builder
	b.WriteString(FormatHeader(rec))
	b.WriteByte('\n')
	if rec.Text != "" {
		for _, line := range strings.Split(rec.Text, "\n") {
			b.WriteString(PayloadIndent)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if rec.OmittedLines > 0 || rec.OmittedBytes > 0 {
		b.WriteString(PayloadIndent)
		b.WriteString(FormatMarker(rec.OmittedLines, rec.OmittedBytes))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
