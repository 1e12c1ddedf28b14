// Package expand implements the block expansion engine: the first pipeline
// pass. For each top-level block of a parsed page an ordered handler chain is
// consulted; the first handler whose predicate matches claims the block,
// performs its effect (registering headers and documentation entries,
// accumulating metadata) and emits the expanded block. Exactly one handler
// claims a given block.
package expand

import (
	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/markdown"
	"git.home.luguber.info/inful/docweave/internal/registry"
)

// Directive markers. A fenced code block whose first line is one of these
// literals is claimed by the matching directive handler; anything else falls
// through to the passthrough handler.
const (
	markerMeta     = "{meta}"
	markerDocs     = "{docs}"
	markerIndex    = "{index}"
	markerContents = "{contents}"
)

type handler struct {
	name   string
	match  func(b gmast.Node, source []byte) bool
	expand func(e *Engine, st *document.PageState, b gmast.Node) error
}

// Engine expands pages against a shared registry. The handler order is fixed:
// header first (always claims headings), then the directive handlers, then
// plain code blocks, then passthrough.
type Engine struct {
	rt       lang.Runtime
	reg      *registry.Registry
	handlers []handler
}

// New creates an expansion engine writing into reg.
func New(rt lang.Runtime, reg *registry.Registry) *Engine {
	e := &Engine{rt: rt, reg: reg}
	e.handlers = []handler{
		{name: "header", match: matchHeading, expand: (*Engine).expandHeader},
		{name: "meta", match: matchDirective(markerMeta), expand: (*Engine).expandMeta},
		{name: "docs", match: matchDirective(markerDocs), expand: (*Engine).expandDocs},
		{name: "index", match: matchDirective(markerIndex), expand: (*Engine).expandIndex},
		{name: "contents", match: matchDirective(markerContents), expand: (*Engine).expandContents},
		{name: "code", match: matchCodeBlock, expand: (*Engine).expandCodeBlock},
		{name: "default", match: matchAny, expand: (*Engine).expandPassthrough},
	}
	return e
}

// ExpandPage runs the handler chain over every top-level block of the page,
// returning the populated page state. Registry writes happen as a side
// effect; any fatal condition aborts immediately.
func (e *Engine) ExpandPage(p *document.Page) (*document.PageState, error) {
	st := document.NewPageState(p)
	for _, b := range markdown.TopLevelBlocks(p.Root) {
		for _, h := range e.handlers {
			if !h.match(b, p.Source) {
				continue
			}
			if err := h.expand(e, st, b); err != nil {
				return nil, err
			}
			break
		}
	}
	return st, nil
}

func matchHeading(b gmast.Node, _ []byte) bool {
	_, ok := b.(*gmast.Heading)
	return ok
}

func matchDirective(marker string) func(gmast.Node, []byte) bool {
	return func(b gmast.Node, source []byte) bool {
		return directiveMarker(b, source) == marker
	}
}

func matchCodeBlock(b gmast.Node, _ []byte) bool {
	switch b.(type) {
	case *gmast.FencedCodeBlock, *gmast.CodeBlock:
		return true
	}
	return false
}

func matchAny(gmast.Node, []byte) bool { return true }

// directiveMarker returns the directive marker when the block is a fenced
// code block whose first line is one of the recognized literals, else "".
func directiveMarker(b gmast.Node, source []byte) string {
	fcb, ok := b.(*gmast.FencedCodeBlock)
	if !ok || fcb.Lines().Len() == 0 {
		return ""
	}
	seg := fcb.Lines().At(0)
	first := trimEOL(string(seg.Value(source)))
	switch first {
	case markerMeta, markerDocs, markerIndex, markerContents:
		return first
	}
	return ""
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func (e *Engine) expandCodeBlock(st *document.PageState, b gmast.Node) error {
	st.Append(&document.CodeBlock{
		Info:    markdown.CodeBlockInfo(b, st.Page.Source),
		Literal: markdown.CodeBlockLiteral(b, st.Page.Source),
		Node:    b,
		Source:  st.Page.Source,
	})
	return nil
}

func (e *Engine) expandPassthrough(st *document.PageState, b gmast.Node) error {
	st.Append(&document.Passthrough{Node: b, Source: st.Page.Source})
	return nil
}

// directiveContext creates a fresh evaluation context bound to the page's
// current module.
func (e *Engine) directiveContext(st *document.PageState) lang.Context {
	return e.rt.NewContext(st.CurrentModule(e.rt.DefaultModule()))
}

// evalAssignments evaluates the assignment-shaped statements of a directive
// body into dst. Non-assignment statements are ignored.
func (e *Engine) evalAssignments(st *document.PageState, b gmast.Node, directive string, dst map[string]lang.Value) error {
	literal := markdown.CodeBlockLiteral(b, st.Page.Source)
	stmts, err := e.rt.Split(literal, 1)
	if err != nil {
		return derrors.WrapPage(err, derrors.KindInternal, st.Page.SourcePath,
			"parsing %s directive body", directive)
	}
	ctx := e.directiveContext(st)
	for _, stmt := range stmts {
		name, ok := e.rt.AssignmentTarget(stmt)
		if !ok {
			continue
		}
		v, err := ctx.Eval(stmt)
		if err != nil {
			return derrors.WrapPage(err, derrors.KindInternal, st.Page.SourcePath,
				"evaluating %q in %s directive", stmt.Source, directive)
		}
		dst[name] = v
	}
	return nil
}

func (e *Engine) expandMeta(st *document.PageState, b gmast.Node) error {
	if err := e.evalAssignments(st, b, markerMeta, st.Metadata); err != nil {
		return err
	}
	st.Append(&document.Meta{Values: st.MetadataSnapshot()})
	return nil
}

func (e *Engine) expandIndex(st *document.PageState, b gmast.Node) error {
	filters := make(map[string]lang.Value)
	if err := e.evalAssignments(st, b, markerIndex, filters); err != nil {
		return err
	}
	st.Append(&document.Index{Filters: filters, DestPath: st.Page.DestPath})
	return nil
}

func (e *Engine) expandContents(st *document.PageState, b gmast.Node) error {
	filters := make(map[string]lang.Value)
	if err := e.evalAssignments(st, b, markerContents, filters); err != nil {
		return err
	}
	st.Append(&document.Contents{Filters: filters, DestPath: st.Page.DestPath})
	return nil
}
