// Package rfence coordinates remote fence shootdowns: broadcasting a
// synchronizing instruction to a selected set of harts and blocking until
// every target has accepted the request.
//
// Each hart owns a bounded queue of pending fence operations. A broadcast
// enqueues the operation on every target, rings the platform's IPI
// doorbell, and waits; the targets drain their queues from their IPI
// handlers via Process. The coordinator specifies only the acknowledgment
// contract — the doorbell transport belongs to the platform.
package rfence

import (
	"sync"

	"github.com/rvcore/sbi/internal/fifo"
	"github.com/rvcore/sbi/spec"
)

// Kind identifies the synchronizing instruction to execute.
type Kind int

const (
	FenceI Kind = iota
	SFenceVMA
	SFenceVMAASID
	HFenceGVMAVMID
	HFenceGVMA
	HFenceVVMAASID
	HFenceVVMA
)

func (k Kind) String() string {
	switch k {
	case FenceI:
		return "fence.i"
	case SFenceVMA:
		return "sfence.vma"
	case SFenceVMAASID:
		return "sfence.vma.asid"
	case HFenceGVMAVMID:
		return "hfence.gvma.vmid"
	case HFenceGVMA:
		return "hfence.gvma"
	case HFenceVVMAASID:
		return "hfence.vvma.asid"
	case HFenceVVMA:
		return "hfence.vvma"
	}
	return "unknown"
}

// hypervisor reports whether the kind requires the hypervisor extension
// on the executing hart.
func (k Kind) hypervisor() bool { return k >= HFenceGVMAVMID }

// Op is one fence request. Guest-physical addresses for the GVMA kinds
// are carried pre-shifted right by 2 bits, exactly as the caller encoded
// them.
type Op struct {
	Kind      Kind
	StartAddr spec.Word
	Size      spec.Word
	ASID      spec.Word
	VMID      spec.Word
}

// Scope describes what a single hart must flush. When Global is set the
// whole scope is flushed with one instruction and the range fields are
// meaningless.
type Scope struct {
	Global    bool
	StartAddr spec.Word
	Size      spec.Word
	HasASID   bool
	ASID      spec.Word
	HasVMID   bool
	VMID      spec.Word
}

// Flusher executes synchronizing instructions on the hart it belongs to.
type Flusher interface {
	FenceI()
	SFenceVMA(scope Scope)
}

// HypervisorFlusher marks a hart as having the hypervisor extension and
// able to execute the HFENCE variants.
type HypervisorFlusher interface {
	Flusher
	HFenceGVMA(scope Scope)
	HFenceVVMA(scope Scope)
}

// Transport rings the platform's inter-processor doorbell. SendIPI returns
// once the interrupt is raised on every listed hart; delivery failure is
// reported as an error and surfaces to the caller as spec.Failed.
type Transport interface {
	SendIPI(harts []spec.Word) error
}

// collapseLimit is the range size above which a per-page walk would cost
// more than a full flush. Mirrors the common firmware threshold of 2 MiB.
const collapseLimit spec.Word = 2 << 20

const queueDepth = 16

type request struct {
	op   Op
	done *sync.WaitGroup
}

type cell struct {
	mu      sync.Mutex
	notFull sync.Cond
	queue   *fifo.Queue[request]
}

func (c *cell) push(r request) {
	c.mu.Lock()
	for c.queue.Full() {
		c.notFull.Wait()
	}
	// Push cannot fail after the capacity wait.
	_ = c.queue.Push(r)
	c.mu.Unlock()
}

func (c *cell) pop() (request, bool) {
	c.mu.Lock()
	r, err := c.queue.Pop()
	if err == nil {
		c.notFull.Signal()
	}
	c.mu.Unlock()
	return r, err == nil
}

// drop removes queued requests belonging to wg that were not yet
// processed, reporting how many were removed.
func (c *cell) drop(wg *sync.WaitGroup) int {
	removed := 0
	c.mu.Lock()
	c.queue.Filter(func(r request) bool {
		if r.done == wg {
			removed++
			return false
		}
		return true
	})
	if removed > 0 {
		c.notFull.Broadcast()
	}
	c.mu.Unlock()
	return removed
}

// Coordinator owns the per-hart fence queues for one platform.
type Coordinator struct {
	transport Transport
	flushers  []Flusher
	cells     []cell
}

// New builds a coordinator for the given harts. flushers[i] executes
// fences on hart i; a flusher that also implements HypervisorFlusher
// marks its hart as hypervisor-capable.
func New(transport Transport, flushers []Flusher) *Coordinator {
	c := &Coordinator{
		transport: transport,
		flushers:  flushers,
		cells:     make([]cell, len(flushers)),
	}
	for i := range c.cells {
		c.cells[i].queue = fifo.New[request](queueDepth)
		c.cells[i].notFull.L = &c.cells[i].mu
	}
	return c
}

// Harts reports the number of harts the coordinator manages.
func (c *Coordinator) Harts() int { return len(c.flushers) }

// targets expands a hart mask against the platform hart set. It reports
// false when the mask selects a hart that does not exist.
func (c *Coordinator) targets(mask spec.HartMask) ([]spec.Word, bool) {
	n := spec.Word(len(c.flushers))
	if mask.IsAll() {
		ids := make([]spec.Word, n)
		for i := range ids {
			ids[i] = spec.Word(i)
		}
		return ids, true
	}
	var ids []spec.Word
	for id := range mask.IDs() {
		if id >= n {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Broadcast delivers op to every hart selected by mask and blocks until
// each target has accepted it. self is the calling hart, which executes
// its share locally without a doorbell. The success value is always 0.
func (c *Coordinator) Broadcast(self spec.Word, mask spec.HartMask, op Op) spec.SbiRet {
	if self >= spec.Word(len(c.flushers)) {
		return spec.InvalidParam()
	}
	targets, ok := c.targets(mask)
	if !ok {
		return spec.InvalidParam()
	}
	if op.Size != ^spec.Word(0) && op.StartAddr+op.Size < op.StartAddr {
		return spec.InvalidAddress()
	}
	if op.Kind.hypervisor() {
		for _, id := range targets {
			if _, ok := c.flushers[id].(HypervisorFlusher); !ok {
				return spec.NotSupported()
			}
		}
	}

	var wg sync.WaitGroup
	var remote []spec.Word
	selfTargeted := false
	for _, id := range targets {
		if id == self {
			selfTargeted = true
			continue
		}
		remote = append(remote, id)
	}

	wg.Add(len(remote))
	for _, id := range remote {
		c.cells[id].push(request{op: op, done: &wg})
	}

	if len(remote) > 0 {
		if err := c.transport.SendIPI(remote); err != nil {
			// Pull back whatever no target picked up yet, then fail.
			for _, id := range remote {
				for range c.cells[id].drop(&wg) {
					wg.Done()
				}
			}
			wg.Wait()
			return spec.Failed()
		}
	}

	if selfTargeted {
		c.execute(self, op)
	}
	wg.Wait()
	return spec.Success(0)
}

// Process drains the queue of the given hart, executing each pending
// operation and acknowledging its source. Platforms call this from the
// hart's IPI handler.
func (c *Coordinator) Process(hart spec.Word) {
	if hart >= spec.Word(len(c.cells)) {
		return
	}
	for {
		r, ok := c.cells[hart].pop()
		if !ok {
			return
		}
		c.execute(hart, r.op)
		r.done.Done()
	}
}

func (c *Coordinator) execute(hart spec.Word, op Op) {
	fl := c.flushers[hart]
	scope := scopeFor(op)
	switch op.Kind {
	case FenceI:
		fl.FenceI()
	case SFenceVMA, SFenceVMAASID:
		fl.SFenceVMA(scope)
	case HFenceGVMA, HFenceGVMAVMID:
		fl.(HypervisorFlusher).HFenceGVMA(scope)
	case HFenceVVMA, HFenceVVMAASID:
		fl.(HypervisorFlusher).HFenceVVMA(scope)
	}
}

// scopeFor applies the range-collapsing rule: an all-zero range or an
// all-ones size means "flush everything", and ranges past collapseLimit
// fall back to a full flush rather than a per-page walk.
func scopeFor(op Op) Scope {
	s := Scope{
		StartAddr: op.StartAddr,
		Size:      op.Size,
	}
	switch op.Kind {
	case SFenceVMAASID, HFenceVVMAASID:
		s.HasASID = true
		s.ASID = op.ASID
	case HFenceGVMAVMID:
		s.HasVMID = true
		s.VMID = op.VMID
	}
	if op.StartAddr == 0 && op.Size == 0 {
		s.Global = true
	}
	if op.Size == ^spec.Word(0) || op.Size >= collapseLimit {
		s.Global = true
	}
	return s
}
