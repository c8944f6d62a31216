package gc

import (
	"testing"

	"github.com/tsxscript/tsx/internal/bytecode"
)

// node is a minimal HeapObject for exercising the collector directly,
// without needing a full VM: it optionally points at one other node.
type node struct {
	size int
	next *node
}

func (n *node) String() string { return "<node>" }
func (n *node) ByteSize() int  { return n.size }
func (n *node) MarkReferences(mark func(bytecode.Value)) {
	if n.next != nil {
		mark(bytecode.Object(n.next))
	}
}

func TestUnreachableObjectIsSwept(t *testing.T) {
	var root *node
	c := New(func(mark func(bytecode.Value)) {
		if root != nil {
			mark(bytecode.Object(root))
		}
	})

	kept := &node{size: 16}
	c.Track(kept)
	root = kept

	garbage := &node{size: 16}
	c.Track(garbage)

	if c.LiveCount() != 2 {
		t.Fatalf("expected both objects tracked before a collection, got %d", c.LiveCount())
	}

	c.Collect()

	if c.LiveCount() != 1 {
		t.Fatalf("expected only the rooted object to survive, got %d live", c.LiveCount())
	}
}

func TestReachableChainSurvives(t *testing.T) {
	tail := &node{size: 8}
	mid := &node{size: 8, next: tail}
	head := &node{size: 8, next: mid}

	c := New(func(mark func(bytecode.Value)) {
		mark(bytecode.Object(head))
	})
	c.Track(tail)
	c.Track(mid)
	c.Track(head)

	c.Collect()

	if c.LiveCount() != 3 {
		t.Fatalf("expected the whole chain to survive via transitive marking, got %d", c.LiveCount())
	}
}

func TestCollectRunsAutomaticallyPastThreshold(t *testing.T) {
	c := New(func(func(bytecode.Value)) {}) // no roots: everything is garbage

	for i := 0; i < 10; i++ {
		c.Track(&node{size: initialThreshold})
	}

	if c.Cycles() == 0 {
		t.Fatalf("expected Track to trigger at least one automatic collection past nextGC")
	}
	if c.LiveCount() != 1 {
		t.Fatalf("expected only the most recently tracked (unswept-yet) object to remain live, got %d", c.LiveCount())
	}
}

func TestNextGCFloorsAtInitialThreshold(t *testing.T) {
	c := New(func(func(bytecode.Value)) {})
	c.Track(&node{size: 8})
	c.Collect() // everything unreachable: bytesAllocated drops to 0

	if c.NextGC() != initialThreshold {
		t.Fatalf("expected nextGC to floor at %d after collecting down to zero live bytes, got %d", initialThreshold, c.NextGC())
	}
}

func TestCyclesIncrementsPerCollectCall(t *testing.T) {
	c := New(func(func(bytecode.Value)) {})
	c.Collect()
	c.Collect()
	c.Collect()
	if c.Cycles() != 3 {
		t.Fatalf("expected 3 cycles, got %d", c.Cycles())
	}
}
