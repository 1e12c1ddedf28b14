package expand

import (
	"regexp"
	"strings"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docweave/internal/document"
	"git.home.luguber.info/inful/docweave/internal/markdown"
	"git.home.luguber.info/inful/docweave/internal/registry"
	"git.home.luguber.info/inful/docweave/internal/slug"
)

var (
	// Custom-id link target: the whole destination is {#identifier}.
	customIDTarget = regexp.MustCompile(`^\{#([A-Za-z_][\w-]*)\}$`)
	// Custom-id text suffix: "Title {#identifier}".
	customIDSuffix = regexp.MustCompile(`^(.*?)\s*\{#([A-Za-z_][\w-]*)\}$`)
)

// expandHeader assigns the header's id, registers it globally and emits a new
// Header block. The parsed source tree is never mutated: when a custom-id
// wrapper is stripped, the display content is rebuilt from the wrapper's
// inner nodes.
func (e *Engine) expandHeader(st *document.PageState, b gmast.Node) error {
	heading := b.(*gmast.Heading)
	id, display := headerIDAndDisplay(heading, st.Page.Source)

	entry := &registry.HeaderEntry{
		ID:         id,
		SourcePath: st.Page.SourcePath,
		DestPath:   st.Page.DestPath,
		Level:      heading.Level,
		Display:    display,
		Source:     st.Page.Source,
	}
	if err := e.reg.AddHeader(entry); err != nil {
		return err
	}

	st.Append(&document.Header{
		Level:   heading.Level,
		ID:      id,
		Display: display,
		Source:  st.Page.Source,
	})
	return nil
}

// headerIDAndDisplay resolves a heading's id and display content.
//
// Recognized custom-id spellings, checked in order:
//  1. the heading's sole content is a link targeting {#id} — the id is taken
//     and the link wrapper is stripped from the display;
//  2. the heading text ends with a literal {#id} — the suffix is removed
//     from the display.
//
// Otherwise the id is the slug of the heading's plain-text rendering.
func headerIDAndDisplay(heading *gmast.Heading, source []byte) (string, []gmast.Node) {
	if heading.ChildCount() == 1 {
		if link, ok := heading.FirstChild().(*gmast.Link); ok {
			if m := customIDTarget.FindStringSubmatch(string(link.Destination)); m != nil {
				return m[1], markdown.InlineChildren(link)
			}
		}
	}

	if last, ok := lastTextChild(heading); ok {
		text := string(last.Segment.Value(source))
		if m := customIDSuffix.FindStringSubmatch(text); m != nil {
			display := markdown.InlineChildren(heading)
			display = display[:len(display)-1]
			if trimmed := strings.TrimRight(m[1], " \t"); trimmed != "" {
				display = append(display, gmast.NewString([]byte(trimmed)))
			}
			return m[2], display
		}
	}

	return slug.Make(markdown.PlainText(heading, source)), markdown.InlineChildren(heading)
}

func lastTextChild(heading *gmast.Heading) (*gmast.Text, bool) {
	last := heading.LastChild()
	if last == nil {
		return nil, false
	}
	t, ok := last.(*gmast.Text)
	return t, ok
}
