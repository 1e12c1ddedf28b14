// Package xref implements the cross-reference resolution pass. It walks
// every page's expanded blocks after the registry is complete, rewriting
// @ref link targets to relative paths with anchors. An unresolvable
// reference fails the whole build.
package xref

import (
	"path"
	"path/filepath"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/markdown"
	"git.home.luguber.info/inful/docweave/internal/registry"
	"git.home.luguber.info/inful/docweave/internal/slug"
)

// refMarker is the literal link target identifying a cross-reference link.
// An explicit header id may follow as "@ref#<id>".
const refMarker = "@ref"

// Resolver rewrites reference links against a frozen registry.
type Resolver struct {
	rt  lang.Runtime
	reg *registry.Registry
}

// New creates a resolver. The registry must be fully populated.
func New(rt lang.Runtime, reg *registry.Registry) *Resolver {
	return &Resolver{rt: rt, reg: reg}
}

// ResolveAll resolves every page's expanded blocks, in page order.
func (r *Resolver) ResolveAll(states []*document.PageState) error {
	for _, st := range states {
		if err := r.resolvePage(st); err != nil {
			return err
		}
	}
	return nil
}

// resolvePage walks the page's blocks tracking the inherited module context.
// Meta snapshots update the page-level module; a documentation entry's tree
// resolves against the module its symbol was defined in, not the page's.
func (r *Resolver) resolvePage(st *document.PageState) error {
	module := r.rt.DefaultModule()
	for _, b := range st.Blocks {
		switch t := b.(type) {
		case *document.Meta:
			if m, ok := lang.String(t.Values["CurrentModule"]); ok && m != "" {
				module = m
			}
		case *document.Passthrough:
			if err := r.walk(t.Node, t.Source, st.Page, module); err != nil {
				return err
			}
		case *document.Header:
			for _, d := range t.Display {
				if err := r.walk(d, t.Source, st.Page, module); err != nil {
					return err
				}
			}
		case *document.Docs:
			for _, entry := range t.Entries {
				if err := r.walk(entry.Doc, entry.DocSource, st.Page, entry.Module); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Resolver) walk(root gmast.Node, source []byte, page *document.Page, module string) error {
	return gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		link, ok := n.(*gmast.Link)
		if !ok {
			return gmast.WalkContinue, nil
		}
		dest := string(link.Destination)
		switch {
		case dest == refMarker:
			if span, ok := soleCodeSpan(link); ok {
				return gmast.WalkSkipChildren, r.resolveSymbolRef(link, span, source, page, module)
			}
			id := slug.Make(markdown.PlainText(link, source))
			return gmast.WalkSkipChildren, r.resolveHeaderRef(link, id, page)
		case strings.HasPrefix(dest, refMarker+"#"):
			id := strings.TrimPrefix(dest, refMarker+"#")
			return gmast.WalkSkipChildren, r.resolveHeaderRef(link, id, page)
		}
		return gmast.WalkContinue, nil
	})
}

// resolveSymbolRef evaluates the code span as a symbol-referring expression
// in the current module and rewrites the link to the registered entry.
func (r *Resolver) resolveSymbolRef(link *gmast.Link, span *gmast.CodeSpan, source []byte, page *document.Page, module string) error {
	expr := markdown.PlainText(span, source)
	symbolID, err := r.rt.SymbolID(expr, module)
	if err != nil {
		return derrors.WrapPage(err, derrors.KindUnresolvedSymbolRef, page.SourcePath,
			"cannot resolve symbol expression %q", expr)
	}
	entry, ok := r.reg.Doc(symbolID)
	if !ok {
		return derrors.NewPage(derrors.KindUnresolvedSymbolRef, page.SourcePath,
			"no documentation entry for %q (symbol %s, module %s)", expr, symbolID, module)
	}
	link.Destination = []byte(RelTarget(page.DestPath, entry.DestPath, entry.Anchor))
	return nil
}

func (r *Resolver) resolveHeaderRef(link *gmast.Link, id string, page *document.Page) error {
	entry, ok := r.reg.Header(id)
	if !ok {
		return derrors.NewPage(derrors.KindUnresolvedHeaderRef, page.SourcePath,
			"no header registered under id %q", id)
	}
	link.Destination = []byte(RelTarget(page.DestPath, entry.DestPath, entry.ID))
	return nil
}

// soleCodeSpan reports the link's display content when it is exactly one
// inline code span.
func soleCodeSpan(link *gmast.Link) (*gmast.CodeSpan, bool) {
	if link.ChildCount() != 1 {
		return nil, false
	}
	span, ok := link.FirstChild().(*gmast.CodeSpan)
	return span, ok
}

// RelTarget computes the link target from one destination path to another:
// the relative path from fromDest's directory joined with the anchor.
func RelTarget(fromDest, toDest, anchor string) string {
	rel, err := filepath.Rel(path.Dir(fromDest), toDest)
	if err != nil {
		rel = toDest
	}
	return filepath.ToSlash(rel) + "#" + anchor
}
