// Package hsm tracks per-hart lifecycle state for the hart state
// management extension: a fixed-size table of atomically-updated cells,
// usable before any dynamic-memory subsystem exists, plus a Machine that
// implements the extension contract on top of platform hooks.
package hsm

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/rvcore/sbi/spec"
)

// StartParams is the register image handed from the starting hart to the
// started one: the supervisor entry point and the opaque value placed in
// the second argument register. The hart id goes in the first; the
// page-table base and supervisor interrupt enable are cleared by the
// platform's entry stub.
type StartParams struct {
	Entry  spec.Word
	Opaque spec.Word
}

// stateLocked is a transient value published while start parameters are
// being written, so a concurrent Status never observes a torn cell. It is
// reported to observers as StartPending.
const stateLocked = ^uint32(0)

type cell struct {
	status atomic.Uint32

	// entry and opaque are written only inside the stateLocked window and
	// read only by the hart that wins the matching Take transition.
	entry  spec.Word
	opaque spec.Word
}

// Table holds the lifecycle state of every hart in the platform. It is
// created once at firmware initialization and shared by all harts; all
// state transitions go through its methods, each a single atomic step.
type Table struct {
	cells []cell
}

// NewTable builds a table for harts harts with every hart Stopped except
// the boot hart, which begins Started.
func NewTable(harts int, bootHart spec.Word) (*Table, error) {
	if harts <= 0 {
		return nil, fmt.Errorf("hsm: hart count %d is not positive", harts)
	}
	if bootHart >= spec.Word(harts) {
		return nil, fmt.Errorf("hsm: boot hart %d outside hart set of %d", bootHart, harts)
	}
	t := &Table{cells: make([]cell, harts)}
	for i := range t.cells {
		t.cells[i].status.Store(uint32(spec.HartStopped))
	}
	t.cells[bootHart].status.Store(uint32(spec.HartStarted))
	return t, nil
}

// Harts reports the number of harts the table tracks.
func (t *Table) Harts() int { return len(t.cells) }

// Valid reports whether hartID exists in the platform's hart set.
func (t *Table) Valid(hartID spec.Word) bool {
	return hartID < spec.Word(len(t.cells))
}

// Status returns the last known state of a hart. The transient parameter
// hand-off state reports as StartPending.
func (t *Table) Status(hartID spec.Word) spec.Word {
	s := t.cells[hartID].status.Load()
	if s == stateLocked {
		return spec.HartStartPending
	}
	return spec.Word(s)
}

// Start moves a Stopped hart to StartPending, publishing the start
// parameters for it to pick up. It reports false, without touching any
// state, when the hart is not Stopped.
func (t *Table) Start(hartID spec.Word, p StartParams) bool {
	c := &t.cells[hartID]
	if !c.status.CompareAndSwap(uint32(spec.HartStopped), stateLocked) {
		return false
	}
	c.entry = p.Entry
	c.opaque = p.Opaque
	c.status.Store(uint32(spec.HartStartPending))
	return true
}

// TakeStart is called by the target hart itself: it claims the pending
// start, moving StartPending to Started and returning the published
// parameters. It reports false when no start is pending.
func (t *Table) TakeStart(hartID spec.Word) (StartParams, bool) {
	c := &t.cells[hartID]
	for {
		if c.status.CompareAndSwap(uint32(spec.HartStartPending), uint32(spec.HartStarted)) {
			return StartParams{Entry: c.entry, Opaque: c.opaque}, true
		}
		if c.status.Load() != stateLocked {
			return StartParams{}, false
		}
		// The starter is mid-publish; its second store is imminent.
		runtime.Gosched()
	}
}

// Stop moves the hart through StopPending to Stopped. Only the hart
// itself may call it.
func (t *Table) Stop(hartID spec.Word) {
	c := &t.cells[hartID]
	c.status.Store(uint32(spec.HartStopPending))
	c.status.Store(uint32(spec.HartStopped))
}

// Suspend moves the hart from Started through SuspendPending to
// Suspended, recording where a non-retentive resume should continue.
// Only the hart itself may call it.
func (t *Table) Suspend(hartID spec.Word, resume StartParams) {
	c := &t.cells[hartID]
	c.status.Store(uint32(spec.HartSuspendPending))
	c.entry = resume.Entry
	c.opaque = resume.Opaque
	c.status.Store(uint32(spec.HartSuspended))
}

// Resume moves a Suspended hart through ResumePending back to Started,
// returning the recorded resume parameters. Platforms call it from the
// wakeup path. It reports false when the hart is not Suspended.
func (t *Table) Resume(hartID spec.Word) (StartParams, bool) {
	c := &t.cells[hartID]
	if !c.status.CompareAndSwap(uint32(spec.HartSuspended), uint32(spec.HartResumePending)) {
		return StartParams{}, false
	}
	p := StartParams{Entry: c.entry, Opaque: c.opaque}
	c.status.Store(uint32(spec.HartStarted))
	return p, true
}

// AllowIPI reports whether the hart is in a state that can receive
// inter-processor interrupts.
func (t *Table) AllowIPI(hartID spec.Word) bool {
	switch spec.Word(t.cells[hartID].status.Load()) {
	case spec.HartStarted, spec.HartSuspended:
		return true
	}
	return false
}
