package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyDest       = "dest"
	KeySymbol     = "symbol"
	KeyHeaderID   = "header_id"
	KeyModule     = "module"
	KeyBlock      = "block"
	KeyStage      = "stage"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dest(p string) slog.Attr         { return slog.String(KeyDest, p) }
func Symbol(s string) slog.Attr       { return slog.String(KeySymbol, s) }
func HeaderID(id string) slog.Attr    { return slog.String(KeyHeaderID, id) }
func Module(m string) slog.Attr       { return slog.String(KeyModule, m) }
func Block(n int) slog.Attr           { return slog.Int(KeyBlock, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
