package minilang

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docweave/internal/lang"
)

// bracketDelta returns the net open-bracket depth change of a line, ignoring
// brackets inside string literals and after a comment marker.
func bracketDelta(line string) int {
	depth := 0
	inString := false
	escaped := false
	for _, r := range line {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '#':
			return depth
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
	}
	return depth
}

// splitFrom scans src for logical statements starting after skip lines.
// When max > 0 scanning stops after that many statements; nextLine reports
// the index of the first unconsumed line.
func splitFrom(src string, skip, max int) (stmts []lang.Statement, nextLine int, err error) {
	lines := strings.Split(src, "\n")
	if skip > len(lines) {
		skip = len(lines)
	}

	var cur []string
	depth := 0
	i := skip
	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if len(cur) == 0 && (trimmed == "" || strings.HasPrefix(trimmed, "#")) {
			continue
		}
		cur = append(cur, line)
		depth += bracketDelta(line)
		if depth > 0 {
			continue
		}
		depth = 0
		source := strings.Join(cur, "\n")
		expr, perr := parse(source)
		if perr != nil {
			return nil, 0, fmt.Errorf("parse %q: %w", source, perr)
		}
		stmts = append(stmts, lang.Statement{Expr: expr, Source: source})
		cur = nil
		if max > 0 && len(stmts) == max {
			i++
			break
		}
	}
	if len(cur) > 0 {
		return nil, 0, fmt.Errorf("incomplete statement %q", strings.Join(cur, "\n"))
	}
	return stmts, i, nil
}

// Split parses raw text into ordered statements, skipping skipLines leading
// lines first (the directive marker line in practice).
func (r *Runtime) Split(src string, skipLines int) ([]lang.Statement, error) {
	stmts, _, err := splitFrom(src, skipLines, 0)
	return stmts, err
}

// SplitFirst splits off the first complete syntactic unit and returns the
// text that follows it.
func (r *Runtime) SplitFirst(src string) (lang.Statement, string, error) {
	stmts, next, err := splitFrom(src, 0, 1)
	if err != nil {
		return lang.Statement{}, "", err
	}
	if len(stmts) == 0 {
		return lang.Statement{}, "", fmt.Errorf("no statement found")
	}
	lines := strings.Split(src, "\n")
	rest := ""
	if next < len(lines) {
		rest = strings.Join(lines[next:], "\n")
	}
	return stmts[0], rest, nil
}

// AssignmentTarget reports the bound name for `name = value` statements.
func (r *Runtime) AssignmentTarget(st lang.Statement) (string, bool) {
	if a, ok := st.Expr.(assignNode); ok {
		return a.name, true
	}
	return "", false
}
