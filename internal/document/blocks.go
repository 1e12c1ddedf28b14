package document

import (
	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/registry"
)

// Block is one element of a page's expanded block sequence. Exactly one
// expansion handler claims each top-level source block and emits one of the
// variants below.
type Block interface{ block() }

// Passthrough carries an unclaimed source block verbatim.
type Passthrough struct {
	Node   gmast.Node
	Source []byte
}

// Header is a header block with its assigned id. Display holds the inline
// content to render (the link's inner text when a custom-id wrapper was
// stripped); the original tree node is never mutated.
type Header struct {
	Level   int
	ID      string
	Display []gmast.Node
	Source  []byte
}

// CodeBlock is a non-directive fenced code block. Info is the language tag;
// Literal the raw body. The doctest pass classifies and verifies these.
type CodeBlock struct {
	Info    string
	Literal string
	Node    gmast.Node
	Source  []byte
}

// Meta is a snapshot of page metadata at the point the {meta} directive ran.
// It renders to nothing; the resolver reads it to track module context.
type Meta struct {
	Values map[string]lang.Value
}

// Docs carries the documentation entries a {docs} directive registered, in
// source order.
type Docs struct {
	Entries []*registry.DocEntry
}

// Index is a deferred {index} directive: its configuration captured verbatim
// for evaluation against the completed registry at render time.
type Index struct {
	Filters  map[string]lang.Value
	DestPath string // destination path of the page holding the directive
}

// Contents is a deferred {contents} directive, resolved at render time like
// Index.
type Contents struct {
	Filters  map[string]lang.Value
	DestPath string
}

func (*Passthrough) block() {}
func (*Header) block()      {}
func (*CodeBlock) block()   {}
func (*Meta) block()        {}
func (*Docs) block()        {}
func (*Index) block()       {}
func (*Contents) block()    {}
