// Package condense structurally elides deeply nested Go payload blocks for
// display.
//
// Long generated functions drown the interesting part of a record in inner
// loops. Condensing keeps the shape of the code while collapsing every
// block nested deeper than the requested level to "{ … }", so a reader
// sees signatures and top-level flow at a glance and reruns with a higher
// level when the detail matters.
//
// Parsing uses tree-sitter's error-tolerant Go grammar: payload text that
// is not valid Go simply has no blocks to collapse and passes through
// unchanged. Condensing is display-side only; stored records keep the full
// text.
package condense

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

const placeholder = "{ … }"

// Apply collapses blocks nested deeper than maxDepth. A function body is
// depth 1, so maxDepth 1 keeps signatures and elides every body's inner
// blocks, and maxDepth 0 elides bodies themselves. Negative maxDepth
// returns src unchanged.
func Apply(src string, maxDepth int) (string, error) {
	if maxDepth < 0 || src == "" {
		return src, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(src))
	if err != nil {
		return "", err
	}
	defer tree.Close()

	var cuts []span
	collect(tree.RootNode(), 0, maxDepth, &cuts)
	return splice(src, cuts), nil
}

type span struct {
	start, end int
}

// collect finds the outermost blocks past the depth limit. Descendants of
// a collapsed block are covered by the parent's cut, so recursion stops
// there.
func collect(n *sitter.Node, depth, maxDepth int, cuts *[]span) {
	if n.Type() == "block" {
		depth++
		if depth > maxDepth {
			*cuts = append(*cuts, span{start: int(n.StartByte()), end: int(n.EndByte())})
			return
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collect(n.Child(i), depth, maxDepth, cuts)
	}
}

func splice(src string, cuts []span) string {
	if len(cuts) == 0 {
		return src
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].start < cuts[j].start })

	var out []byte
	prev := 0
	for _, c := range cuts {
		if c.start < prev {
			continue
		}
		out = append(out, src[prev:c.start]...)
		out = append(out, placeholder...)
		prev = c.end
	}
	out = append(out, src[prev:]...)
	return string(out)
}
