// Package markdown wraps Goldmark parsing for the docweave pipeline and
// provides the small set of AST helpers the passes share.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse parses a Markdown body into a Goldmark AST.
func Parse(source []byte) gmast.Node {
	md := goldmark.New()
	return md.Parser().Parse(text.NewReader(source))
}

// TopLevelBlocks returns the document's direct children in order. The
// expansion engine dispatches handlers over exactly this sequence.
func TopLevelBlocks(doc gmast.Node) []gmast.Node {
	blocks := make([]gmast.Node, 0, doc.ChildCount())
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		blocks = append(blocks, c)
	}
	return blocks
}

// PlainText renders a node's textual content with all inline markup stripped.
func PlainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

// CodeBlockLiteral returns the raw line content of a fenced or indented code
// block, exactly as written (trailing newlines preserved).
func CodeBlockLiteral(n gmast.Node, source []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// CodeBlockInfo returns the info string (language tag) of a fenced code
// block, or "" when absent or the block is not fenced.
func CodeBlockInfo(n gmast.Node, source []byte) string {
	fcb, ok := n.(*gmast.FencedCodeBlock)
	if !ok || fcb.Info == nil {
		return ""
	}
	return strings.TrimSpace(string(fcb.Info.Segment.Value(source)))
}

// InlineChildren returns a node's direct inline children in order.
func InlineChildren(n gmast.Node) []gmast.Node {
	kids := make([]gmast.Node, 0, n.ChildCount())
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		kids = append(kids, c)
	}
	return kids
}
