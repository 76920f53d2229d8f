package record

import (
	"fmt"
	"strings"
)

// Identity names a declared transformation, independent of how many times it
// runs. PkgPath is the import path of the package declaring the
// transformation; Name is its declared name within that package.
//
// The zero Identity is invalid; both fields must be non-empty for a usable
// identity.
type Identity struct {
	PkgPath string `json:"pkg_path"`
	Name    string `json:"name"`
}

// String renders the identity the way Go names functions:
// "text/template.Expand".
func (id Identity) String() string {
	if id.PkgPath == "" {
		return id.Name
	}
	return id.PkgPath + "." + id.Name
}

// Segments returns the identity's path segments: the package path split on
// "/" followed by the declared name. Used for segment-aligned path matching.
func (id Identity) Segments() []string {
	if id.PkgPath == "" {
		if id.Name == "" {
			return nil
		}
		return []string{id.Name}
	}
	return append(strings.Split(id.PkgPath, "/"), id.Name)
}

// IsZero reports whether the identity is unset.
func (id Identity) IsZero() bool {
	return id.PkgPath == "" && id.Name == ""
}

// ParseIdentity splits a rendered identity back into its parts. The name is
// everything after the last "." that follows the last "/", matching the
// String rendering. A string with no "." becomes a bare name.
func ParseIdentity(s string) Identity {
	slash := strings.LastIndex(s, "/")
	dot := strings.Index(s[slash+1:], ".")
	if dot < 0 {
		return Identity{Name: s}
	}
	dot += slash + 1
	return Identity{PkgPath: s[:dot], Name: s[dot+1:]}
}

// Location is the source position where a transformation is declared.
// It is stable across calls to the same transformation.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// String renders the location as "file:line".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// CallDescriptor identifies one transformation invocation.
//
// Depth is the nesting level within a single goroutine's interception chain
// (0 = top level). Sequence is the ordinal of calls observed to this identity
// within the current process, starting at 1 and strictly increasing.
type CallDescriptor struct {
	Identity Identity `json:"identity"`
	Location Location `json:"location"`
	Depth    int      `json:"depth"`
	Sequence int64    `json:"sequence"`
}

// Label distinguishes the two halves of an emitted pair.
type Label string

const (
	// LabelInput marks the transformation's input payload.
	LabelInput Label = "input"

	// LabelOutput marks the transformation's output payload.
	LabelOutput Label = "output"
)

// Valid reports whether the label is one of the two known values.
func (l Label) Valid() bool {
	return l == LabelInput || l == LabelOutput
}

// Record is one emitted half of an input/output pair, as carried through the
// diagnostic stream, the capture store, and reports.
//
// Text holds the possibly-truncated payload. OmittedLines and OmittedBytes
// are zero when the payload was passed through whole.
type Record struct {
	ID           string `json:"id"`
	Session      string `json:"session"`
	Identity     string `json:"identity"`
	File         string `json:"file"`
	Line         int    `json:"line"`
	Depth        int    `json:"depth"`
	Sequence     int64  `json:"sequence"`
	Label        Label  `json:"label"`
	Text         string `json:"text"`
	OmittedLines int    `json:"omitted_lines"`
	OmittedBytes int    `json:"omitted_bytes"`
}

// Descriptor reconstructs the CallDescriptor the record was emitted for.
func (r Record) Descriptor() CallDescriptor {
	return CallDescriptor{
		Identity: ParseIdentity(r.Identity),
		Location: Location{File: r.File, Line: r.Line},
		Depth:    r.Depth,
		Sequence: r.Sequence,
	}
}

// Session describes one wrapper run: the build command it spawned and the
// filter configuration it ran under.
type Session struct {
	ID        string `json:"id"`
	StartedAt int64  `json:"started_at"`
	Flags     string `json:"flags"`
	Command   string `json:"command"`
}
