package emit

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genprobe/genprobe/internal/record"
)

func testDescriptor() record.CallDescriptor {
	return record.CallDescriptor{
		Identity: record.Identity{PkgPath: "text/template", Name: "Expand"},
		Location: record.Location{File: "expand.go", Line: 42},
		Depth:    0,
		Sequence: 3,
	}
}

// TestTruncate_UnderLimitsPassesThrough tests that text within both limits
// comes back untouched with zero omission counts.
func TestTruncate_UnderLimitsPassesThrough(t *testing.T) {
	kept, lines, bytes := truncate("a\nb\nc", 10, 100)
	assert.Equal(t, "a\nb\nc", kept)
	assert.Zero(t, lines)
	assert.Zero(t, bytes)
}

// TestTruncate_LineLimit tests the line cut and its omission accounting.
func TestTruncate_LineLimit(t *testing.T) {
	kept, lines, bytes := truncate("a\nb\nc\nd\ne", 3, 1000)
	assert.Equal(t, "a\nb\nc", kept)
	assert.Equal(t, 2, lines)
	assert.Equal(t, 4, bytes)
}

// TestTruncate_ByteLimitBacksUpToLineEnd tests that a byte cut lands on the
// previous complete line when one exists.
func TestTruncate_ByteLimitBacksUpToLineEnd(t *testing.T) {
	kept, lines, bytes := truncate("ab\ncdef", 100, 5)
	assert.Equal(t, "ab", kept)
	assert.Equal(t, 1, lines)
	assert.Equal(t, 5, bytes)
}

// TestTruncate_SingleEnormousLine tests the one case where truncated output
// is not whole lines: a single line larger than the byte limit.
func TestTruncate_SingleEnormousLine(t *testing.T) {
	kept, lines, bytes := truncate("abcdef\nxyz", 100, 4)
	assert.Equal(t, "abcd", kept)
	assert.Equal(t, 1, lines)
	assert.Equal(t, 6, bytes)
}

// TestTruncate_ByteCutRespectsRuneBoundary tests that a cut never splits a
// multi-byte rune.
func TestTruncate_ByteCutRespectsRuneBoundary(t *testing.T) {
	// "héllo" is 6 bytes; a 3-byte limit lands mid-é and must back up.
	kept, _, _ := truncate("héllo", 100, 3)
	assert.True(t, strings.HasPrefix("héllo", kept))
	for _, r := range kept {
		assert.NotEqual(t, '�', r)
	}
}

// TestBuild_VerbosePassesThrough tests that verbose mode bypasses both
// display limits.
func TestBuild_VerbosePassesThrough(t *testing.T) {
	e := NewWithLimits(&bytes.Buffer{}, 1, 4)
	text := "line one\nline two\nline three"

	rec := e.Build(testDescriptor(), record.LabelInput, text, true)
	assert.Equal(t, text, rec.Text)
	assert.Zero(t, rec.OmittedLines)
	assert.Zero(t, rec.OmittedBytes)
}

// TestBuild_TrimsTrailingNewline tests that a trailing newline in the
// payload does not produce an empty final wire line.
func TestBuild_TrimsTrailingNewline(t *testing.T) {
	e := New(&bytes.Buffer{})
	rec := e.Build(testDescriptor(), record.LabelOutput, "x\n", false)
	assert.Equal(t, "x", rec.Text)
}

// TestFormatRecord_WireShape tests the full wire rendering of a record with
// an omission marker.
func TestFormatRecord_WireShape(t *testing.T) {
	rec := record.Record{
		Identity:     "text/template.Expand",
		File:         "expand.go",
		Line:         42,
		Depth:        1,
		Sequence:     7,
		Label:        record.LabelInput,
		Text:         "a\nb",
		OmittedLines: 3,
		OmittedBytes: 120,
	}

	want := "👉 input of text/template.Expand (expand.go:42) [depth 1, call 7]\n" +
		"  a\n" +
		"  b\n" +
		"  ... (3 lines, 120 bytes omitted)\n" +
		"\n"
	assert.Equal(t, want, FormatRecord(rec))
}

// TestFormatRecord_EmptyPayload tests that an empty payload renders as
// header plus terminator with no indented lines.
func TestFormatRecord_EmptyPayload(t *testing.T) {
	rec := record.Record{
		Identity: "p.F",
		File:     "f.go",
		Line:     1,
		Label:    record.LabelOutput,
		Sequence: 1,
	}
	want := "👉 output of p.F (f.go:1) [depth 0, call 1]\n\n"
	assert.Equal(t, want, FormatRecord(rec))
}

// TestEmitPair_InputBeforeOutput tests the load-bearing pair ordering on
// the wire.
func TestEmitPair_InputBeforeOutput(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)

	err := e.EmitPair(testDescriptor(), "in-payload", "out-payload", false)
	require.NoError(t, err)

	out := buf.String()
	in := strings.Index(out, "👉 input of text/template.Expand")
	outIdx := strings.Index(out, "👉 output of text/template.Expand")
	require.GreaterOrEqual(t, in, 0)
	require.Greater(t, outIdx, in)
	assert.Contains(t, out, "  in-payload\n")
	assert.Contains(t, out, "  out-payload\n")
}

// TestEmitPair_ConcurrentPairsStayContiguous tests that pairs from
// concurrent goroutines never interleave halves.
func TestEmitPair_ConcurrentPairsStayContiguous(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d := testDescriptor()
			d.Sequence = int64(n + 1)
			_ = e.EmitPair(d, fmt.Sprintf("in-%d", n), fmt.Sprintf("out-%d", n), false)
		}(i)
	}
	wg.Wait()

	// Every input header must be followed by the output header for the
	// same call before any other header appears.
	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, HeaderPrefix) {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 32)
	for i := 0; i < len(lines); i += 2 {
		assert.Contains(t, lines[i], "input of")
		assert.Contains(t, lines[i+1], "output of")
		inCall := lines[i][strings.Index(lines[i], "[depth"):]
		outCall := lines[i+1][strings.Index(lines[i+1], "[depth"):]
		assert.Equal(t, inCall, outCall)
	}
}
