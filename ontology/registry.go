package ontology

import (
	"strconv"
	"strings"
	"sync"
)

// Registry holds the single active Schema behind a reader-writer lock:
// readers (Validator, Reasoner, Engine) take RLock; a replacement takes
// Lock and only becomes visible once every outstanding reader has
// released, so no caller ever observes a mix of old and new schema state.
type Registry struct {
	mu     sync.RWMutex
	active *Schema
}

// NewRegistry returns an empty registry (no schema loaded yet).
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the active schema, or nil if none has been loaded.
func (r *Registry) Current() *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// WithSchema runs fn with a consistent read-locked view of the active
// schema. Use this instead of Current()+use when the caller must not
// observe a schema replacement mid-operation.
func (r *Registry) WithSchema(fn func(*Schema) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.active)
}

// Replace atomically swaps in a newly-built Schema, enforcing the
// version-monotonicity policy: the candidate's version
// must compare strictly greater than the active schema's version, unless no
// schema is currently active. The exclusive lock ordering makes the outcome
// of concurrent equal-version uploads deterministic: whichever goroutine
// acquires the lock first wins, and the loser always observes a
// version_not_monotonic rejection, never a race.
func (r *Registry) Replace(next *Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && !versionGreater(next.Metadata.Version, r.active.Metadata.Version) {
		return &SchemaInvalidError{Reason: ReasonVersionNotMonotonic}
	}
	r.active = next
	return nil
}

// versionGreater compares two version strings component-wise: numeric
// segments compare numerically, everything else falls back to lexicographic
// comparison of the segment. This mirrors loose semver ordering without
// requiring strict semver syntax, since version strings are caller-defined
// and not guaranteed to follow any fixed format.
func versionGreater(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		if av == bv {
			continue
		}
		an, aerr := strconv.Atoi(av)
		bn, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			return an > bn
		}
		return av > bv
	}
	return false
}
