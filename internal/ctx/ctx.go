// Package ctx provides the CompilationContext that every core component
// threads through its operations instead of reaching into package-level
// globals. A CompilationContext owns the monotonic id allocator used by
// the Type Registry and Kind System, mints the resource tracker's uuid
// ids, and carries the cancellation token observed by the constraint
// solver and analysis passes.
package ctx

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// CompilationContext is the explicit, per-unit state every component
// operates against. There is exactly one per compilation unit; nothing
// in the core reads from a package-level global.
type CompilationContext struct {
	counter atomic.Uint64
	cancel  CancellationToken

	mu       sync.RWMutex
	modules  map[string]any // populated lazily by internal/modgraph; any avoids an import cycle
	Verbose  bool
}

// New creates a fresh CompilationContext with a zeroed id allocator.
func New() *CompilationContext {
	return &CompilationContext{
		modules: make(map[string]any),
	}
}

// NextID returns the next value from the single monotonically increasing
// allocator for this compilation unit. Type variables, kind variables
// and freshened binder names draw from this one allocator so that ids
// are comparable for ordering. Resource ids are uuids (NewResourceID),
// and the constraint solver numbers its constraints with its own
// per-Solver counter.
func (c *CompilationContext) NextID() uint64 {
	return c.counter.Add(1)
}

// NewResourceID mints a fresh externally-unique identifier for a linear/
// affine resource descriptor, using uuid rather than the monotonic
// counter since resource ids may need to be stable across serialized
// diagnostic output independent of allocation order.
func (c *CompilationContext) NewResourceID() string {
	return uuid.NewString()
}

// Cancel sets the global cancellation token. Once set it cannot be
// cleared: cancellation is terminal for a compilation unit.
func (c *CompilationContext) Cancel() {
	c.cancel.set()
}

// Cancelled reports whether cancellation has been requested.
func (c *CompilationContext) Cancelled() bool {
	return c.cancel.isSet()
}

// StoreModuleTable installs the module-graph's backing map so that
// concurrent read access after loading (the one concurrency guarantee
// §5 requires) is mediated through this context's RWMutex rather than a
// lock owned by internal/modgraph itself.
func (c *CompilationContext) StoreModuleTable(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules[key] = v
}

// LoadModuleTable retrieves a value installed by StoreModuleTable.
func (c *CompilationContext) LoadModuleTable(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.modules[key]
	return v, ok
}

// CancellationToken is a one-shot, concurrency-safe flag. A pass or
// solver iteration checks Cancelled between units of work (statement
// granularity for passes, worklist-iteration granularity for the
// solver, per §5) and, if set, stops without mutating shared state.
type CancellationToken struct {
	flag atomic.Bool
}

func (t *CancellationToken) set() {
	t.flag.Store(true)
}

func (t *CancellationToken) isSet() bool {
	return t.flag.Load()
}
