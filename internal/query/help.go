package query

import "strings"

const helpHeader = `genprobe filter configuration (GENPROBE_FLAGS)

Decides which intercepted transformation calls get their input and output
shown. Without a positive filter (--all, --path, or a bare keyword) nothing
is shown.

Usage: GENPROBE_FLAGS="[flags] [keyword ...]"

      keyword              show calls whose identity or source path contains it
`

const helpFooter = `  -h, --help           print this help and disable filtering for the run
`

// HelpText renders the fixed options table. The flag lines come from the
// same flag set Parse uses, so help and parser stay in sync.
func HelpText() string {
	fs, _ := newFlagSet()
	var b strings.Builder
	b.WriteString(helpHeader)
	b.WriteString(fs.FlagUsages())
	b.WriteString(helpFooter)
	return b.String()
}
