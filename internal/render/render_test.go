package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"

	"git.home.luguber.info/inful/docweave/internal/document"
	"git.home.luguber.info/inful/docweave/internal/expand"
	"git.home.luguber.info/inful/docweave/internal/lang"
	"git.home.luguber.info/inful/docweave/internal/lang/minilang"
	"git.home.luguber.info/inful/docweave/internal/markdown"
	"git.home.luguber.info/inful/docweave/internal/registry"
)

func testRuntime() *minilang.Runtime {
	return minilang.New(
		minilang.WithDocs("Main",
			minilang.SymbolDoc{Name: "greet", Category: lang.CategoryFunction, Doc: "Says hello.\n"},
			minilang.SymbolDoc{Name: "MAX", Category: lang.CategoryConstant, Doc: "Upper bound.\n"},
		),
		minilang.WithDocs("API",
			minilang.SymbolDoc{Name: "run", Category: lang.CategoryMethod, Doc: "Runs it.\n"},
		),
	)
}

type page struct {
	src, dest, body string
}

// renderAll expands the pages against a shared registry and renders each,
// returning HTML keyed by source path.
func renderAll(t *testing.T, pages ...page) map[string]string {
	t.Helper()
	reg := registry.New()
	e := expand.New(testRuntime(), reg)
	var states []*document.PageState
	for _, p := range pages {
		source := []byte(p.body)
		st, err := e.ExpandPage(&document.Page{
			SourcePath: p.src,
			DestPath:   p.dest,
			Source:     source,
			Root:       markdown.Parse(source),
		})
		require.NoError(t, err)
		states = append(states, st)
	}
	reg.Freeze()

	r := New(reg)
	out := make(map[string]string, len(states))
	for _, st := range states {
		html, err := r.RenderPage(st)
		require.NoError(t, err)
		out[st.Page.SourcePath] = string(html)
	}
	return out
}

type anchor struct {
	id, href, text string
}

// anchors parses rendered HTML and collects every <a> element.
func anchors(t *testing.T, rendered string) []anchor {
	t.Helper()
	root, err := xhtml.Parse(strings.NewReader(rendered))
	require.NoError(t, err)

	var out []anchor
	var visit func(*xhtml.Node)
	visit = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "a" {
			a := anchor{text: nodeText(n)}
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id":
					a.id = attr.Val
				case "href":
					a.href = attr.Val
				}
			}
			out = append(out, a)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return out
}

func nodeText(n *xhtml.Node) string {
	var b strings.Builder
	var visit func(*xhtml.Node)
	visit = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func TestRenderHeader_AnchorAndHeading(t *testing.T) {
	out := renderAll(t, page{"a.md", "a.html", "## Getting Started\n"})
	html := out["a.md"]

	require.Contains(t, html, "<h2>Getting Started</h2>")
	as := anchors(t, html)
	require.Len(t, as, 1)
	require.Equal(t, "getting-started", as[0].id)
}

func TestRenderHeader_CustomIDShowsCleanTitle(t *testing.T) {
	out := renderAll(t, page{"a.md", "a.html", "## [Title]({#custom-id})\n"})
	html := out["a.md"]

	require.Contains(t, html, "<h2>Title</h2>")
	require.NotContains(t, html, "{#custom-id}")
	require.Equal(t, "custom-id", anchors(t, html)[0].id)
}

func TestRenderMeta_ProducesNoOutput(t *testing.T) {
	out := renderAll(t, page{"a.md", "a.html", "```\n{meta}\nTitle = \"X\"\n```\n"})
	require.Equal(t, "", out["a.md"])
}

func TestRenderDocs_EntryAnchorCategoryAndSeparator(t *testing.T) {
	out := renderAll(t, page{"ref.md", "ref.html", "```\n{docs}\ngreet\n```\n"})
	html := out["ref.md"]

	require.Contains(t, html, "Function")
	require.Contains(t, html, "Says hello.")
	require.Contains(t, html, "<hr/>")

	as := anchors(t, html)
	require.Len(t, as, 1)
	require.Equal(t, "maingreet", as[0].id)
	require.Equal(t, "#maingreet", as[0].href)
	require.Equal(t, "greet", as[0].text)
}

func TestRenderIndex_SortedAndLinked(t *testing.T) {
	out := renderAll(t,
		page{"b.md", "b.html", "```\n{docs}\ngreet\nMAX\n```\n"},
		page{"a.md", "a.html", "```\n{docs}\nAPI.run\n```\n"},
		page{"idx.md", "idx.html", "```\n{index}\n```\n"},
	)
	as := anchors(t, out["idx.md"])
	require.Len(t, as, 3)
	// Sorted by (destPath, anchor): a.html before b.html, then anchors.
	require.Equal(t, "a.html#apirun", as[0].href)
	require.Equal(t, "b.html#maingreet", as[1].href)
	require.Equal(t, "b.html#mainmax", as[2].href)
	require.Equal(t, "API.run", as[0].text)
}

func TestRenderIndex_PagesPrefixFilter(t *testing.T) {
	out := renderAll(t,
		page{"api/b.md", "api/b.html", "```\n{docs}\ngreet\n```\n"},
		page{"guide/c.md", "guide/c.html", "```\n{docs}\nMAX\n```\n"},
		page{"idx.md", "idx.html", "```\n{index}\nPages = [\"api\"]\n```\n"},
	)
	as := anchors(t, out["idx.md"])
	require.Len(t, as, 1)
	require.Equal(t, "api/b.html#maingreet", as[0].href)
}

func TestRenderContents_DefaultDepthExcludesLevelThree(t *testing.T) {
	out := renderAll(t,
		page{"a.md", "a.html", "# One\n\n## Two\n\n### Three\n"},
		page{"toc.md", "toc.html", "```\n{contents}\n```\n"},
	)
	as := anchors(t, out["toc.md"])
	require.Len(t, as, 2)
	require.Equal(t, "a.html#one", as[0].href)
	require.Equal(t, "a.html#two", as[1].href)
}

func TestRenderContents_ExplicitDepthIncludesDeeperHeaders(t *testing.T) {
	out := renderAll(t,
		page{"a.md", "a.html", "# One\n\n### Three\n"},
		page{"toc.md", "toc.html", "```\n{contents}\nDepth = 3\n```\n"},
	)
	as := anchors(t, out["toc.md"])
	require.Len(t, as, 2)
	require.Equal(t, "a.html#three", as[1].href)
	require.Equal(t, "Three", as[1].text)
}

func TestRenderContents_GlobalRegistrationOrder(t *testing.T) {
	out := renderAll(t,
		page{"b.md", "b.html", "# Beta\n"},
		page{"a.md", "a.html", "# Alpha\n"},
		page{"toc.md", "toc.html", "```\n{contents}\n```\n"},
	)
	as := anchors(t, out["toc.md"])
	require.Len(t, as, 2)
	// Page-walk order, not alphabetical: b.md was expanded first.
	require.Equal(t, "b.html#beta", as[0].href)
	require.Equal(t, "a.html#alpha", as[1].href)
}

func TestRenderPassthroughAndCode(t *testing.T) {
	out := renderAll(t, page{"a.md", "a.html", "Plain *text*.\n\n```mini\n1 + 1\n```\n"})
	html := out["a.md"]
	require.Contains(t, html, "<em>text</em>")
	require.Contains(t, html, "1 + 1")
	require.Contains(t, html, "language-mini")
}
