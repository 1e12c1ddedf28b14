package lang

// Coercions from opaque runtime values to the Go types directive
// configuration needs (`Pages` lists, `Depth` limits, module names).

// String coerces a value to a Go string.
func String(v Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Int coerces a value to a Go int, accepting the numeric representations
// runtimes commonly hand back.
func Int(v Value) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Strings coerces a value to a string slice. Accepts []string directly or a
// generic list whose elements are all strings.
func Strings(v Value) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []Value:
		out := make([]string, 0, len(list))
		for _, el := range list {
			s, ok := el.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
