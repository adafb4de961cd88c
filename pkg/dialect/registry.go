package dialect

import (
	"sort"
	"strings"
	"sync"
)

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Get returns a dialect by name (case-insensitive).
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Register adds d under its name. Dialect packages call it from init().
// It panics on a nil or unnamed dialect, or a name registered twice.
func Register(d *Dialect) {
	if d == nil || d.Name == "" {
		panic("dialect: Register needs a named dialect")
	}

	dialectsMu.Lock()
	defer dialectsMu.Unlock()

	key := strings.ToLower(d.Name)
	if _, dup := dialects[key]; dup {
		panic("dialect: Register called twice for dialect " + key)
	}
	dialects[key] = d
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
