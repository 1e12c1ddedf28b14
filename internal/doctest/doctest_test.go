package doctest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang/minilang"
)

// pageWithBlocks builds a page state holding executable code blocks directly,
// the shape the expansion pass hands to verification.
func pageWithBlocks(literals ...string) *document.PageState {
	st := document.NewPageState(&document.Page{SourcePath: "examples.md", DestPath: "examples.html"})
	for _, lit := range literals {
		st.Append(&document.CodeBlock{Info: "mini", Literal: lit})
	}
	return st
}

func verify(literals ...string) error {
	v := New(minilang.New())
	return v.VerifyAll([]*document.PageState{pageWithBlocks(literals...)})
}

func TestSession_Passes(t *testing.T) {
	require.NoError(t, verify("mini> 1 + 1\n2\n"))
}

func TestSession_MismatchIsFatal(t *testing.T) {
	err := verify("mini> 1 + 1\n3\n")
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindDoctestMismatch))
	require.Contains(t, err.Error(), "examples.md")
}

func TestSession_BindingsPersistAcrossChunks(t *testing.T) {
	require.NoError(t, verify("mini> x = 5\n5\nmini> x + 1\n6\n"))
}

func TestSession_PreviousResultBinding(t *testing.T) {
	require.NoError(t, verify("mini> 3 * 3\n9\nmini> ans + 1\n10\n"))
}

func TestSession_SuppressingTerminator(t *testing.T) {
	// "x = 5;" suppresses value display, so no expected text is required.
	require.NoError(t, verify("mini> x = 5;\nmini> x\n5\n"))
}

func TestSession_FailureRendersTypedMarker(t *testing.T) {
	require.NoError(t, verify("mini> fail(\"BoundsError\")\nraised failure of type BoundsError\n"))

	err := verify("mini> fail(\"BoundsError\")\nraised failure of type KeyError\n")
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindDoctestMismatch))
}

func TestSession_PrefixMatchIgnoresTrailingExpected(t *testing.T) {
	require.NoError(t, verify("mini> 1 + 1\n2 (the answer)\n"))
}

func TestScript_Passes(t *testing.T) {
	require.NoError(t, verify("x = 1\nx + 1\n# output:\n2\n"))
}

func TestScript_MismatchOnFirstCharacter(t *testing.T) {
	err := verify("x = 1\nx + 1\n# output:\n3\n")
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindDoctestMismatch))
}

func TestScript_KeepsOnlyFinalOutcome(t *testing.T) {
	require.NoError(t, verify("a = 2\nb = 3\na * b\n# output:\n6\n"))
}

func TestScript_FailureShortCircuits(t *testing.T) {
	require.NoError(t, verify("fail(\"KeyError\")\n99\n# output:\nraised failure of type KeyError\n"))
}

func TestScript_MultipleMarkersMalformed(t *testing.T) {
	err := verify("x = 1\n# output:\n1\n# output:\n1\n")
	require.Error(t, err)
	require.True(t, derrors.IsKind(err, derrors.KindMalformedScriptDoctest))
}

func TestIllustrativeBlocksSkipped(t *testing.T) {
	// No prompt, no output marker: never executed, never fails.
	require.NoError(t, verify("this is not even parseable ±±\n"))
}

func TestNonExecutableTagSkipped(t *testing.T) {
	st := document.NewPageState(&document.Page{SourcePath: "a.md", DestPath: "a.html"})
	st.Append(&document.CodeBlock{Info: "text", Literal: "mini> 1 + 1\n3\n"})
	v := New(minilang.New())
	require.NoError(t, v.VerifyAll([]*document.PageState{st}))
}
