// Package gc implements the tracing mark-and-sweep collector from
// spec.md §4.I, grounded on atom/script/gc/{gc.h,gc.cpp}'s
// GarbageCollector: an allocation-threshold trigger (nextGC, doubling
// after each cycle), a flat list of every live heap object, and a
// mark/sweep pass driven by a caller-supplied root set. The VM owns one
// Collector and calls Track for every heap object it creates, exactly
// as the original's allocateObject<T> template does before returning the
// freshly new'd object.
package gc

import "github.com/tsxscript/tsx/internal/bytecode"

// initialThreshold is the collector's starting nextGC, matching the
// original's `nextGC(1024 * 1024)`.
const initialThreshold = 1024 * 1024

// RootFunc is supplied by the VM and must call mark once for every Value
// directly reachable as a root: every stack slot in use, every global,
// the current closure, and the closed-or-about-to-close Value of every
// open upvalue (spec.md §4.I "Roots").
type RootFunc func(mark func(bytecode.Value))

// Collector owns every live heap object and triggers a collection when
// allocation would push bytesAllocated past nextGC.
type Collector struct {
	objects        []bytecode.HeapObject
	bytesAllocated int
	nextGC         int
	roots          RootFunc

	// cycles counts completed collections, exposed for diagnostics/tests
	// (e.g. scenario 5's "the GC has run at least once").
	cycles int
}

// New creates a Collector. roots is called at the start of every
// collection to seed the mark worklist.
func New(roots RootFunc) *Collector {
	return &Collector{nextGC: initialThreshold, roots: roots}
}

// BytesAllocated reports the live-object byte total after the most recent
// sweep (or running total if no sweep has happened yet).
func (c *Collector) BytesAllocated() int { return c.bytesAllocated }

// NextGC reports the current collection threshold.
func (c *Collector) NextGC() int { return c.nextGC }

// Cycles reports how many collections have run.
func (c *Collector) Cycles() int { return c.cycles }

// Track registers a freshly allocated heap object with the collector and
// runs a collection first if the allocation would exceed nextGC — the
// "Allocation is the only suspension point" rule of spec.md §5.
func (c *Collector) Track(obj bytecode.HeapObject) {
	if c.bytesAllocated+obj.ByteSize() > c.nextGC {
		c.Collect()
	}
	c.objects = append(c.objects, obj)
	c.bytesAllocated += obj.ByteSize()
}

// Collect runs one mark-and-sweep cycle unconditionally.
func (c *Collector) Collect() {
	marked := make(map[bytecode.HeapObject]struct{}, len(c.objects))
	var grey []bytecode.HeapObject

	mark := func(v bytecode.Value) {
		obj := v.AsObject()
		if obj == nil {
			return
		}
		if _, ok := marked[obj]; ok {
			return
		}
		marked[obj] = struct{}{}
		grey = append(grey, obj)
	}

	if c.roots != nil {
		c.roots(mark)
	}

	// Worklist: a grey object is popped, its references are greyed, and it
	// becomes black implicitly (it's already in `marked` and won't be
	// re-pushed). Fixed point is reached when the worklist empties.
	for len(grey) > 0 {
		obj := grey[len(grey)-1]
		grey = grey[:len(grey)-1]
		obj.MarkReferences(mark)
	}

	kept := c.objects[:0]
	bytes := 0
	for _, obj := range c.objects {
		if _, ok := marked[obj]; ok {
			kept = append(kept, obj)
			bytes += obj.ByteSize()
		}
	}
	c.objects = kept
	c.bytesAllocated = bytes
	c.nextGC = bytes * 2
	if c.nextGC < initialThreshold {
		c.nextGC = initialThreshold
	}
	c.cycles++
}

// LiveCount returns the number of objects the collector currently
// considers live, for tests asserting that unreachable allocations were
// actually swept (scenario 5).
func (c *Collector) LiveCount() int { return len(c.objects) }
