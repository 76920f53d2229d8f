package scrape

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/genprobe/genprobe/internal/emit"
	"github.com/genprobe/genprobe/internal/record"
)

// EventType distinguishes the two kinds of stream content.
type EventType int

const (
	// EventPassthrough is a build output line that is not record wire text.
	EventPassthrough EventType = iota + 1

	// EventRecord is one reassembled diagnostic record.
	EventRecord
)

// Event is one unit of scraped stream content, in stream order.
type Event struct {
	Type   EventType
	Line   string // passthrough line, without trailing newline
	Record record.Record
}

// headerRE matches the emit package's record header line. The location
// group is paren-free, so the greedy identity match stops at the final
// parenthesized location even when the identity itself contains spaces.
var headerRE = regexp.MustCompile(
	`^👉 (input|output) of (.+) \(([^()]+):(\d+)\) \[depth (\d+), call (\d+)\]$`)

// markerRE matches the omission marker payload line.
var markerRE = regexp.MustCompile(`^\.\.\. \((\d+) lines, (\d+) bytes omitted\)$`)

// Parser reassembles records from a line stream. Feed lines in order with
// Line, then call Flush at end of stream to close any open record.
//
// Not thread-safe; one parser per stream.
type Parser struct {
	open    bool
	rec     record.Record
	payload []string
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{}
}

// Line consumes one stream line (without its trailing newline) and returns
// the events it completes, possibly none.
//
// A header line opens a record; indented lines under it accumulate as
// payload; the blank terminator closes it. Any other line closes an open
// record early and passes through. A payload line that happens to look like
// the omission marker is read as the marker; the emitter never produces
// both, so ambiguity only arises for payloads crafted to imitate the wire
// format.
func (p *Parser) Line(line string) []Event {
	if m := headerRE.FindStringSubmatch(line); m != nil {
		events := p.Flush()
		lineNo, _ := strconv.Atoi(m[4])
		depth, _ := strconv.Atoi(m[5])
		seq, _ := strconv.ParseInt(m[6], 10, 64)
		p.open = true
		p.rec = record.Record{
			Label:    record.Label(m[1]),
			Identity: m[2],
			File:     m[3],
			Line:     lineNo,
			Depth:    depth,
			Sequence: seq,
		}
		p.payload = p.payload[:0]
		return events
	}

	if p.open {
		if line == "" {
			return p.Flush()
		}
		if body, ok := strings.CutPrefix(line, emit.PayloadIndent); ok {
			if m := markerRE.FindStringSubmatch(body); m != nil {
				p.rec.OmittedLines, _ = strconv.Atoi(m[1])
				p.rec.OmittedBytes, _ = strconv.Atoi(m[2])
				return nil
			}
			p.payload = append(p.payload, body)
			return nil
		}
		// Foreign line inside a record: the build wrote to stderr
		// between our lines. Close the record, keep the line.
		events := p.Flush()
		return append(events, Event{Type: EventPassthrough, Line: line})
	}

	return []Event{{Type: EventPassthrough, Line: line}}
}

// Flush closes any open record and returns it. Safe to call when no record
// is open.
func (p *Parser) Flush() []Event {
	if !p.open {
		return nil
	}
	p.open = false
	p.rec.Text = strings.Join(p.payload, "\n")
	p.payload = p.payload[:0]
	return []Event{{Type: EventRecord, Record: p.rec}}
}

// Scan reads r line by line, invoking fn for every event in stream order.
// Stops at the first fn error. The reader is consumed to EOF.
func Scan(r io.Reader, fn func(Event) error) error {
	p := NewParser()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		for _, ev := range p.Line(sc.Text()) {
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	for _, ev := range p.Flush() {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}
