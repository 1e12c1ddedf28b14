// Package doctest implements example verification: the third pipeline pass.
// Executable code blocks come in two shapes — interactive session transcripts
// and scripts with an explicit output marker — and both are checked by prefix
// match against the author's recorded expectation. Verification never mutates
// the document tree; a mismatch aborts the run.
package doctest

import (
	"strings"

	"git.home.luguber.info/inful/docweave/internal/document"
	derrors "git.home.luguber.info/inful/docweave/internal/errors"
	"git.home.luguber.info/inful/docweave/internal/lang"
)

// outputMarker separates code from expected output in script-format examples.
const outputMarker = "# output:"

// Verifier executes and checks example blocks against a runtime.
type Verifier struct {
	rt lang.Runtime
}

// New creates a verifier.
func New(rt lang.Runtime) *Verifier {
	return &Verifier{rt: rt}
}

// VerifyAll verifies every executable code block of every page, in page
// order. Blocks matching neither example shape are illustrative and skipped.
func (v *Verifier) VerifyAll(states []*document.PageState) error {
	for _, st := range states {
		if err := v.verifyPage(st); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) verifyPage(st *document.PageState) error {
	module := st.CurrentModule(v.rt.DefaultModule())
	blockNum := 0
	for _, b := range st.Blocks {
		cb, ok := b.(*document.CodeBlock)
		if !ok || !v.executable(cb) {
			continue
		}
		blockNum++
		switch {
		case v.isSession(cb.Literal):
			if err := v.verifySession(st.Page, blockNum, module, cb.Literal); err != nil {
				return err
			}
		case strings.Contains(cb.Literal, outputMarker):
			if err := v.verifyScript(st.Page, blockNum, module, cb.Literal); err != nil {
				return err
			}
		}
	}
	return nil
}

// executable reports whether the block's language tag marks it for
// verification: the tag's first word is the runtime's name.
func (v *Verifier) executable(cb *document.CodeBlock) bool {
	fields := strings.Fields(cb.Info)
	return len(fields) > 0 && fields[0] == v.rt.Name()
}

func (v *Verifier) isSession(literal string) bool {
	for _, line := range strings.Split(literal, "\n") {
		if strings.HasPrefix(line, v.rt.Prompt()) {
			return true
		}
	}
	return false
}

// verifySession checks a prompt transcript chunk by chunk. One sandbox serves
// the whole block so bindings accumulate; each chunk's result is additionally
// bound to the runtime's implicit previous-result name.
func (v *Verifier) verifySession(page *document.Page, blockNum int, module, literal string) error {
	ctx := v.rt.NewContext(module)
	for _, chunk := range splitChunks(literal, v.rt.Prompt()) {
		stmt, expected, err := v.rt.SplitFirst(chunk)
		if err != nil {
			return derrors.WrapPage(err, derrors.KindInternal, page.SourcePath,
				"parsing session example (block %d)", blockNum)
		}

		out := lang.OutcomeOf(ctx.Eval(stmt))
		if !out.Failed {
			ctx.BindResult(out.Value)
		}

		suppress := strings.HasSuffix(strings.TrimSpace(stmt.Source), v.rt.SuppressingTerminator())
		actual := v.rt.Format(out, suppress)
		if !prefixMatch(expected, actual) {
			return derrors.NewPage(derrors.KindDoctestMismatch, page.SourcePath,
				"session example (block %d): evaluated %q, rendered %q, expected prefix of %q",
				blockNum, stmt.Source, actual, strings.TrimSpace(expected))
		}
	}
	return nil
}

// verifyScript checks a script example: everything before the output marker
// is evaluated in order in one fresh sandbox, and the final unit's outcome
// (or the first failure) is matched against the text after the marker.
func (v *Verifier) verifyScript(page *document.Page, blockNum int, module, literal string) error {
	code, expected, err := splitScript(literal)
	if err != nil {
		return derrors.WrapPage(err, derrors.KindMalformedScriptDoctest, page.SourcePath,
			"script example (block %d)", blockNum)
	}

	stmts, err := v.rt.Split(code, 0)
	if err != nil {
		return derrors.WrapPage(err, derrors.KindInternal, page.SourcePath,
			"parsing script example (block %d)", blockNum)
	}

	ctx := v.rt.NewContext(module)
	var out lang.Outcome
	for _, stmt := range stmts {
		out = lang.OutcomeOf(ctx.Eval(stmt))
		if out.Failed {
			break
		}
	}

	// Value display is never suppressed in script format.
	actual := v.rt.Format(out, false)
	if !prefixMatch(expected, actual) {
		return derrors.NewPage(derrors.KindDoctestMismatch, page.SourcePath,
			"script example (block %d): rendered %q, expected prefix of %q",
			blockNum, actual, strings.TrimSpace(expected))
	}
	return nil
}

// splitChunks cuts a session transcript into prompt-delimited chunks. Each
// chunk starts at a prompt line (prompt stripped) and runs until the next
// prompt line; leading lines before the first prompt are ignored.
func splitChunks(literal, prompt string) []string {
	var chunks []string
	var cur []string
	inChunk := false
	for _, line := range strings.Split(literal, "\n") {
		if strings.HasPrefix(line, prompt) {
			if inChunk {
				chunks = append(chunks, strings.Join(cur, "\n"))
			}
			cur = []string{strings.TrimPrefix(line, prompt)}
			inChunk = true
			continue
		}
		if inChunk {
			cur = append(cur, line)
		}
	}
	if inChunk {
		chunks = append(chunks, strings.Join(cur, "\n"))
	}
	return chunks
}

// splitScript separates code from expected output at the single marker line.
func splitScript(literal string) (code, expected string, err error) {
	lines := strings.Split(literal, "\n")
	markerAt := -1
	count := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == outputMarker {
			count++
			markerAt = i
		}
	}
	if count != 1 {
		return "", "", derrors.New(derrors.KindMalformedScriptDoctest,
			"expected exactly one %q marker, found %d", outputMarker, count)
	}
	return strings.Join(lines[:markerAt], "\n"), strings.Join(lines[markerAt+1:], "\n"), nil
}

// prefixMatch implements the acceptance rule: the expected text must start
// with the rendered actual; trailing expected text is ignored. A suppressed
// (empty) rendering always matches.
func prefixMatch(expected, actual string) bool {
	return strings.HasPrefix(strings.TrimSpace(expected), strings.TrimSpace(actual))
}
