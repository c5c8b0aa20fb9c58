// Package warnonce de-duplicates repeated runtime warnings (e.g. "q-value
// unit looked ambiguous, assuming Angstrom") so a long-running fit doesn't
// flood stderr with the same message once per iteration.
package warnonce

import (
	"log"
	"sync"
)

var (
	mu   sync.Mutex
	seen = map[string]bool{}
)

// Warn logs msg via log.Printf, but only the first time a given key is
// seen in the process lifetime.
func Warn(key, msg string) {
	mu.Lock()
	already := seen[key]
	seen[key] = true
	mu.Unlock()
	if !already {
		log.Printf("warning: %s", msg)
	}
}

// Reset clears the seen set; exposed for tests that need to assert a
// warning fires exactly once per process rather than per test.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	seen = map[string]bool{}
}
