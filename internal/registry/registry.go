package registry

import (
	"sort"
	"sync"

	"github.com/petermattis/goid"

	"github.com/genprobe/genprobe/internal/record"
)

// Registry tracks per-identity invocation counters and per-goroutine nesting
// stacks for the lifetime of the process.
//
// Counters are monotonic and never reset while the process runs; each
// identity's sequence starts at 1 on its first call. Nesting stacks are
// keyed by goroutine id because nesting depth is only meaningful within a
// single goroutine's call chain; interleaved calls from other goroutines
// must not disturb it. A goroutine's stack entry is removed once its last
// frame pops, so finished goroutines leave nothing behind.
//
// Thread-safe: all methods may be called concurrently. A single mutex
// guards both maps; interception frequency is low relative to the build
// work around it, so contention is not a concern here.
type Registry struct {
	mu       sync.Mutex
	counters map[string]int64   // identity rendering -> calls observed
	stacks   map[int64][]string // goroutine id -> identities entered, innermost last
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		counters: make(map[string]int64),
		stacks:   make(map[int64][]string),
	}
}

// Enter records one call to id declared at loc and returns its descriptor.
//
// The descriptor's sequence is the new per-identity total; its depth is the
// calling goroutine's stack length before this call was pushed, so a
// top-level call reports depth 0. Enter must be paired with exactly one Exit
// for the same identity on the same goroutine; callers guarantee the pair
// with a defer around the wrapped transformation.
//
// Panics with *InvariantError when id is zero: an unnamed call site is a bug
// in the interception wrapper, not a runtime condition.
func (r *Registry) Enter(id record.Identity, loc record.Location) record.CallDescriptor {
	if id.IsZero() {
		panic(&InvariantError{Op: "enter", Detail: "identity is empty"})
	}
	key := id.String()
	gid := goid.Get()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[key]++
	depth := len(r.stacks[gid])
	r.stacks[gid] = append(r.stacks[gid], key)

	return record.CallDescriptor{
		Identity: id,
		Location: loc,
		Depth:    depth,
		Sequence: r.counters[key],
	}
}

// Exit pops the calling goroutine's innermost frame, which must be id.
//
// Panics with *InvariantError when there is no frame to pop or the top frame
// belongs to a different identity. Either case means the interception
// wrapper broke the enter/exit pairing; failing loudly beats silently
// corrupted depth accounting, which would make every later record lie.
func (r *Registry) Exit(id record.Identity) {
	key := id.String()
	gid := goid.Get()

	r.mu.Lock()
	defer r.mu.Unlock()

	stack := r.stacks[gid]
	if len(stack) == 0 {
		panic(&InvariantError{
			Op:       "exit",
			Identity: key,
			Detail:   "exit without a matching enter on this goroutine",
		})
	}
	if top := stack[len(stack)-1]; top != key {
		panic(&InvariantError{
			Op:       "exit",
			Identity: key,
			Detail:   "innermost enter on this goroutine is " + top,
		})
	}

	if len(stack) == 1 {
		delete(r.stacks, gid)
	} else {
		r.stacks[gid] = stack[:len(stack)-1]
	}
}

// Count returns the number of calls observed for id so far.
//
// Used for testing and introspection.
func (r *Registry) Count(id record.Identity) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[id.String()]
}

// LiveDepth returns the calling goroutine's current nesting depth: the
// number of enters without a matching exit.
//
// Used for testing and introspection.
func (r *Registry) LiveDepth() int {
	gid := goid.Get()
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stacks[gid])
}

// LiveGoroutines returns how many goroutines currently hold open frames.
// A nonzero value after all wrapped calls returned indicates a leaked enter.
//
// Used for testing and introspection.
func (r *Registry) LiveGoroutines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stacks)
}

// Identities returns the identities observed so far, sorted.
func (r *Registry) Identities() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.counters))
	for key := range r.counters {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Reset drops all counters and stacks.
//
// Counters never reset during real operation; this exists so the test
// harness can replay scenarios against a fresh process state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = make(map[string]int64)
	r.stacks = make(map[int64][]string)
}
