package filter

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/genprobe/genprobe/internal/record"
)

// subject is the NFC-normalized match text for one descriptor. Both sides of
// every comparison are normalized so a precomposed fragment matches a
// decomposed identifier and vice versa; Go source identifiers may carry
// either form.
type subject struct {
	rendering string // identity as "pkg/path.Name"
	file      string // declaring source file
}

func newSubject(d record.CallDescriptor) subject {
	return subject{
		rendering: norm.NFC.String(d.Identity.String()),
		file:      norm.NFC.String(d.Location.File),
	}
}

// containsFragment implements keyword and exclude matching: a plain,
// case-sensitive substring test against the identity rendering or the source
// file path. The rendering embeds the declared name, so a bare name fragment
// matches without special casing.
func (s subject) containsFragment(frag string) bool {
	if frag == "" {
		return false
	}
	frag = norm.NFC.String(frag)
	return strings.Contains(s.rendering, frag) || strings.Contains(s.file, frag)
}

// pathMatches implements --path matching: the fragment must cover the whole
// identity, a leading run of its segments, or a trailing run. Segment
// boundaries are "/" and ".". Source text never participates; --path is the
// identity-only channel.
//
//	text/template.Expand  matched by  "text/template.Expand" (exact)
//	                                  "text/template"        (leading run)
//	                                  "template.Expand"      (trailing run)
//	                                  "Expand"               (trailing run)
//	                      but not by  "emplate.Exp"          (no boundary)
func (s subject) pathMatches(frag string) bool {
	if frag == "" {
		return false
	}
	frag = norm.NFC.String(frag)
	r := s.rendering

	if frag == r {
		return true
	}
	if strings.HasPrefix(r, frag) && isSegmentBoundary(r[len(frag)]) {
		return true
	}
	if strings.HasSuffix(r, frag) && isSegmentBoundary(r[len(r)-len(frag)-1]) {
		return true
	}
	return false
}

func isSegmentBoundary(c byte) bool {
	return c == '/' || c == '.'
}
