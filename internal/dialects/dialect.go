// Package dialects describes how a database driver expects placeholders and
// identifiers, keyed by driver name.
package dialects

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnsupportedDialect is returned for a driver name without a registered dialect.
var ErrUnsupportedDialect = errors.New("unsupported database dialect")

// Dialect defines driver-specific syntax.
type Dialect interface {
	// Name returns the canonical dialect name.
	Name() string
	// QuoteIdentifier quotes a possibly schema-qualified identifier.
	QuoteIdentifier(string) string
	// Placeholder returns the bind marker for the 1-based parameter index.
	Placeholder(int) string
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Dialect)
)

// Register registers a dialect under a driver name.
func Register(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = d
}

// Get returns the dialect registered for a driver name.
func Get(name string) (Dialect, error) {
	mu.RLock()
	defer mu.RUnlock()
	if d, ok := registry[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, name)
}

// MustGet is like Get but panics for an unknown driver name.
func MustGet(name string) Dialect {
	d, err := Get(name)
	if err != nil {
		panic(err)
	}
	return d
}

// quoteParts quotes every dot-separated part of ident with quote.
func quoteParts(ident string, quote func(string) string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}
