package minilang

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docweave/internal/lang"
)

// formatValue renders a value the way the mini REPL displays it.
func formatValue(v lang.Value) string {
	switch t := v.(type) {
	case nil:
		return "nothing"
	case int64:
		return strconv.FormatInt(t, 10)
	case string:
		return strconv.Quote(t)
	case []lang.Value:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			parts = append(parts, formatValue(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "?"
	}
}

// Format implements the value-display capability. A suppressed outcome
// renders empty; a failure renders the fixed marker doctest authors record.
func (r *Runtime) Format(out lang.Outcome, suppress bool) string {
	if suppress {
		return ""
	}
	if out.Failed {
		return "raised failure of type " + out.Kind
	}
	return formatValue(out.Value)
}
