// Package render serializes expanded pages to HTML: the final pipeline pass.
// Passthrough content delegates to Goldmark's renderer; headers,
// documentation entries and the deferred {index}/{contents} directives are
// special-cased against the completed registry.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	gmrenderer "github.com/yuin/goldmark/renderer"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/registry"
	"git.home.luguber.info/inful/docweave/internal/xref"
)

// defaultContentsDepth is the deepest header level a {contents} directive
// lists when it sets no Depth filter.
const defaultContentsDepth = 2

// Renderer serializes page states against a frozen registry.
type Renderer struct {
	reg *registry.Registry
	md  gmrenderer.Renderer
}

// New creates a renderer.
func New(reg *registry.Registry) *Renderer {
	return &Renderer{reg: reg, md: goldmark.New().Renderer()}
}

// RenderPage serializes one page's expanded blocks to HTML.
func (r *Renderer) RenderPage(st *document.PageState) ([]byte, error) {
	var buf bytes.Buffer
	for _, b := range st.Blocks {
		var err error
		switch t := b.(type) {
		case *document.Passthrough:
			err = r.md.Render(&buf, t.Source, t.Node)
		case *document.CodeBlock:
			err = r.md.Render(&buf, t.Source, t.Node)
		case *document.Header:
			err = r.writeHeader(&buf, t)
		case *document.Docs:
			err = r.writeDocs(&buf, t)
		case *document.Index:
			err = r.writeIndex(&buf, t)
		case *document.Contents:
			err = r.writeContents(&buf, t)
		case *document.Meta:
			// Metadata snapshots produce no output.
		}
		if err != nil {
			return nil, derrors.WrapPage(err, derrors.KindInternal, st.Page.SourcePath, "rendering page")
		}
	}
	return buf.Bytes(), nil
}

// writeInlines renders a sequence of inline nodes.
func (r *Renderer) writeInlines(w io.Writer, nodes []gmast.Node, source []byte) error {
	for _, n := range nodes {
		if err := r.md.Render(w, source, n); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader emits the named anchor, then the heading with its display
// content.
func (r *Renderer) writeHeader(w *bytes.Buffer, h *document.Header) error {
	fmt.Fprintf(w, "<a id=%q></a>\n<h%d>", h.ID, h.Level)
	if err := r.writeInlines(w, h.Display, h.Source); err != nil {
		return err
	}
	fmt.Fprintf(w, "</h%d>\n", h.Level)
	return nil
}

// writeDocs emits one anchored entry per documented symbol: a self-linked
// anchor, the category label, the documentation tree and a separator.
func (r *Renderer) writeDocs(w *bytes.Buffer, d *document.Docs) error {
	for _, e := range d.Entries {
		fmt.Fprintf(w, "<section class=\"docstring\">\n<a id=%q href=\"#%s\"><code>%s</code></a>",
			e.Anchor, e.Anchor, html.EscapeString(e.RefText))
		fmt.Fprintf(w, " <span class=\"docstring-category\">%s</span>\n", e.Category)
		if err := r.md.Render(w, e.DocSource, e.Doc); err != nil {
			return err
		}
		w.WriteString("<hr/>\n</section>\n")
	}
	return nil
}

// writeIndex resolves an {index} directive: all documentation entries
// matching the optional Pages destination-prefix filter, sorted by
// (destination, anchor).
func (r *Renderer) writeIndex(w *bytes.Buffer, idx *document.Index) error {
	prefixes, _ := lang.Strings(idx.Filters["Pages"])

	entries := make([]*registry.DocEntry, 0, len(r.reg.Docs()))
	for _, e := range r.reg.Docs() {
		if matchesPages(e.DestPath, prefixes) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DestPath != entries[j].DestPath {
			return entries[i].DestPath < entries[j].DestPath
		}
		return entries[i].Anchor < entries[j].Anchor
	})

	w.WriteString("<ul class=\"index\">\n")
	for _, e := range entries {
		target := xref.RelTarget(idx.DestPath, e.DestPath, e.Anchor)
		fmt.Fprintf(w, "<li><a href=%q><code>%s</code></a></li>\n", target, html.EscapeString(e.RefText))
	}
	w.WriteString("</ul>\n")
	return nil
}

// writeContents resolves a {contents} directive: registered headers matching
// the Pages and Depth filters in global registration order, one item per
// header, indented by (level - 1) steps.
func (r *Renderer) writeContents(w *bytes.Buffer, toc *document.Contents) error {
	prefixes, _ := lang.Strings(toc.Filters["Pages"])
	depth := defaultContentsDepth
	if d, ok := lang.Int(toc.Filters["Depth"]); ok {
		depth = d
	}

	w.WriteString("<ul class=\"contents\">\n")
	for _, h := range r.reg.Headers() {
		if h.Level > depth || !matchesPages(h.DestPath, prefixes) {
			continue
		}
		target := xref.RelTarget(toc.DestPath, h.DestPath, h.ID)
		fmt.Fprintf(w, "%s<li class=\"toc-level-%d\"><a href=%q>",
			strings.Repeat("  ", h.Level-1), h.Level, target)
		if err := r.writeInlines(w, h.Display, h.Source); err != nil {
			return err
		}
		w.WriteString("</a></li>\n")
	}
	w.WriteString("</ul>\n")
	return nil
}

// matchesPages reports whether a destination path passes the Pages filter.
// No filter admits everything.
func matchesPages(destPath string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(destPath, p) {
			return true
		}
	}
	return false
}
