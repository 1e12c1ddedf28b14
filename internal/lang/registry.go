package lang

import "sort"

var runtimes = map[string]Runtime{}

// Register installs a runtime under its Name. Later registrations replace
// earlier ones; called from runtime package init functions.
func Register(rt Runtime) {
	runtimes[rt.Name()] = rt
}

// Get returns the runtime registered under name, or nil.
func Get(name string) Runtime {
	return runtimes[name]
}

// Names lists registered runtime names, sorted.
func Names() []string {
	names := make([]string, 0, len(runtimes))
	for n := range runtimes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
