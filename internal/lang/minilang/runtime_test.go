package minilang

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docweave/internal/lang"
)

func evalSource(t *testing.T, ctx lang.Context, src string) (lang.Value, error) {
	t.Helper()
	return ctx.Eval(lang.Statement{Source: src})
}

func TestEval_Arithmetic(t *testing.T) {
	ctx := New().NewContext("Main")

	v, err := evalSource(t, ctx, "1 + 2 * 3")
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	v, err = evalSource(t, ctx, "-(2 + 3)")
	require.NoError(t, err)
	require.Equal(t, int64(-5), v)
}

func TestEval_BindingsPersistWithinContext(t *testing.T) {
	rt := New()
	ctx := rt.NewContext("Main")

	_, err := evalSource(t, ctx, "x = 20")
	require.NoError(t, err)

	v, err := evalSource(t, ctx, "x + 1")
	require.NoError(t, err)
	require.Equal(t, int64(21), v)

	// A fresh context must not see x.
	_, err = evalSource(t, rt.NewContext("Main"), "x")
	require.Error(t, err)
}

func TestEval_StringsAndLists(t *testing.T) {
	ctx := New().NewContext("Main")

	v, err := evalSource(t, ctx, `"doc" + "weave"`)
	require.NoError(t, err)
	require.Equal(t, "docweave", v)

	v, err = evalSource(t, ctx, `["a", "b"]`)
	require.NoError(t, err)
	require.Equal(t, []lang.Value{"a", "b"}, v)

	v, err = evalSource(t, ctx, `len("abc")`)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestEval_FailSignalsTypedFailure(t *testing.T) {
	ctx := New().NewContext("Main")

	_, err := evalSource(t, ctx, `fail("BoundsError")`)
	require.Error(t, err)
	var f *lang.Failure
	require.ErrorAs(t, err, &f)
	require.Equal(t, "BoundsError", f.Kind)
}

func TestFormat(t *testing.T) {
	rt := New()
	require.Equal(t, "7", rt.Format(lang.Outcome{Value: int64(7)}, false))
	require.Equal(t, `"s"`, rt.Format(lang.Outcome{Value: "s"}, false))
	require.Equal(t, `[1, 2]`, rt.Format(lang.Outcome{Value: []lang.Value{int64(1), int64(2)}}, false))
	require.Equal(t, "", rt.Format(lang.Outcome{Value: int64(7)}, true))
	require.Equal(t, "raised failure of type BoundsError",
		rt.Format(lang.Outcome{Failed: true, Kind: "BoundsError"}, false))
}

func TestSplit_SkipsMarkerLineAndComments(t *testing.T) {
	rt := New()
	stmts, err := rt.Split("{meta}\nTitle = \"Guide\"\n# comment\nDepth = 3\n", 1)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	require.Equal(t, `Title = "Guide"`, stmts[0].Source)
	require.Equal(t, "Depth = 3", stmts[1].Source)
}

func TestSplit_MultilineBrackets(t *testing.T) {
	rt := New()
	stmts, err := rt.Split("Pages = [\n  \"a\",\n  \"b\"\n]\n", 0)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, "Pages = [\n  \"a\",\n  \"b\"\n]", stmts[0].Source)
}

func TestSplitFirst(t *testing.T) {
	rt := New()
	st, rest, err := rt.SplitFirst("1 + 1\n2\nsome trailing text")
	require.NoError(t, err)
	require.Equal(t, "1 + 1", st.Source)
	require.Equal(t, "2\nsome trailing text", rest)
}

func TestAssignmentTarget(t *testing.T) {
	rt := New()
	stmts, err := rt.Split(`x = 1`, 0)
	require.NoError(t, err)
	name, ok := rt.AssignmentTarget(stmts[0])
	require.True(t, ok)
	require.Equal(t, "x", name)

	stmts, err = rt.Split(`x + 1`, 0)
	require.NoError(t, err)
	_, ok = rt.AssignmentTarget(stmts[0])
	require.False(t, ok)
}

func TestSymbolID(t *testing.T) {
	rt := New()

	id, err := rt.SymbolID("greet", "Guide")
	require.NoError(t, err)
	require.Equal(t, "Guide.greet", id)

	id, err = rt.SymbolID("Other.greet", "Guide")
	require.NoError(t, err)
	require.Equal(t, "Other.greet", id)

	_, err = rt.SymbolID("  ", "Guide")
	require.Error(t, err)
}

func TestDoc(t *testing.T) {
	rt := New(WithDocs("Guide",
		SymbolDoc{Name: "greet", Category: lang.CategoryFunction, Doc: "Greets a person.\n"},
	))

	res, err := rt.Doc("greet", "Guide")
	require.NoError(t, err)
	require.Equal(t, "Guide.greet", res.SymbolID)
	require.Equal(t, lang.CategoryFunction, res.Category)
	require.NotNil(t, res.Doc)

	_, err = rt.Doc("missing", "Guide")
	require.ErrorIs(t, err, lang.ErrNoDocumentation)
}
