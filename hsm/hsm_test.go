package hsm

import (
	"errors"
	"sync"
	"testing"

	"github.com/rvcore/sbi/spec"
)

func TestInitialStates(t *testing.T) {
	table, err := NewTable(4, 2)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for id := range spec.Word(4) {
		want := spec.HartStopped
		if id == 2 {
			want = spec.HartStarted
		}
		if got := table.Status(id); got != want {
			t.Errorf("hart %d initial status = %d, want %d", id, got, want)
		}
	}
}

func TestNewTableValidation(t *testing.T) {
	if _, err := NewTable(0, 0); err == nil {
		t.Errorf("NewTable(0, 0) succeeded")
	}
	if _, err := NewTable(2, 2); err == nil {
		t.Errorf("NewTable with boot hart outside set succeeded")
	}
}

func TestStartHandoff(t *testing.T) {
	table, _ := NewTable(2, 0)

	if !table.Start(1, StartParams{Entry: 0x8020_0000, Opaque: 0x1234}) {
		t.Fatalf("Start on stopped hart refused")
	}
	if got := table.Status(1); got != spec.HartStartPending {
		t.Fatalf("status after Start = %d, want StartPending", got)
	}
	if table.Start(1, StartParams{}) {
		t.Fatalf("second Start on pending hart accepted")
	}

	p, ok := table.TakeStart(1)
	if !ok {
		t.Fatalf("TakeStart found no pending start")
	}
	if p.Entry != 0x8020_0000 || p.Opaque != 0x1234 {
		t.Fatalf("TakeStart params = %+v", p)
	}
	if got := table.Status(1); got != spec.HartStarted {
		t.Fatalf("status after TakeStart = %d, want Started", got)
	}
}

func TestStartOnRunningHart(t *testing.T) {
	table, _ := NewTable(2, 0)
	if table.Start(0, StartParams{}) {
		t.Fatalf("Start on the running boot hart accepted")
	}
	if got := table.Status(0); got != spec.HartStarted {
		t.Fatalf("boot hart status mutated to %d", got)
	}
}

func TestStopAndRestart(t *testing.T) {
	table, _ := NewTable(1, 0)
	table.Stop(0)
	if got := table.Status(0); got != spec.HartStopped {
		t.Fatalf("status after Stop = %d", got)
	}
	if !table.Start(0, StartParams{Entry: 4096}) {
		t.Fatalf("restart of stopped hart refused")
	}
}

func TestSuspendResume(t *testing.T) {
	table, _ := NewTable(1, 0)
	table.Suspend(0, StartParams{Entry: 0x1000, Opaque: 9})
	if got := table.Status(0); got != spec.HartSuspended {
		t.Fatalf("status after Suspend = %d", got)
	}
	if !table.AllowIPI(0) {
		t.Fatalf("suspended hart refuses IPIs")
	}

	p, ok := table.Resume(0)
	if !ok || p.Entry != 0x1000 || p.Opaque != 9 {
		t.Fatalf("Resume = %+v, %v", p, ok)
	}
	if got := table.Status(0); got != spec.HartStarted {
		t.Fatalf("status after Resume = %d", got)
	}
	if _, ok := table.Resume(0); ok {
		t.Fatalf("Resume on running hart succeeded")
	}
}

func TestConcurrentStatusNeverTorn(t *testing.T) {
	table, _ := NewTable(1, 0)

	valid := map[spec.Word]bool{
		spec.HartStarted: true, spec.HartStopped: true,
		spec.HartStartPending: true, spec.HartStopPending: true,
		spec.HartSuspended: true, spec.HartSuspendPending: true,
		spec.HartResumePending: true,
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if !valid[table.Status(0)] {
				t.Errorf("observed invalid state %d", table.Status(0))
				return
			}
		}
	}()

	table.Stop(0)
	for range 1000 {
		if table.Start(0, StartParams{Entry: 0x2000}) {
			if _, ok := table.TakeStart(0); ok {
				table.Stop(0)
			}
		}
	}
	close(done)
	wg.Wait()
}

// hooks for Machine tests

type fakeWaker struct {
	woken []spec.Word
	err   error
}

func (w *fakeWaker) Wake(hartID spec.Word) error {
	if w.err != nil {
		return w.err
	}
	w.woken = append(w.woken, hartID)
	return nil
}

type fakeGuard struct {
	bad map[spec.Word]bool
}

func (g *fakeGuard) Executable(addr spec.Word) bool { return !g.bad[addr] }

type fakeSuspender struct {
	types []uint32
	err   error
}

func (s *fakeSuspender) Suspend(suspendType uint32) error {
	s.types = append(s.types, suspendType)
	return s.err
}

func newTestMachine(t *testing.T, harts int) (*Machine, *fakeWaker, *fakeGuard, *fakeSuspender) {
	t.Helper()
	table, err := NewTable(harts, 0)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	waker := &fakeWaker{}
	guard := &fakeGuard{bad: map[spec.Word]bool{0xBAD: true}}
	susp := &fakeSuspender{}
	m, err := NewMachine(MachineConfig{
		Table:       table,
		Waker:       waker,
		Guard:       guard,
		CurrentHart: func() spec.Word { return 0 },
		Suspender:   susp,
	})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	return m, waker, guard, susp
}

func TestMachineHartStart(t *testing.T) {
	m, waker, _, _ := newTestMachine(t, 2)

	ret := m.HartStart(1, 0x8020_0000, 7)
	if ret.IsErr() {
		t.Fatalf("HartStart = %v", ret)
	}
	if len(waker.woken) != 1 || waker.woken[0] != 1 {
		t.Fatalf("woken harts = %v", waker.woken)
	}
	if got := m.Table().Status(1); got != spec.HartStartPending {
		t.Fatalf("target status = %d, want StartPending", got)
	}

	if ret := m.HartStart(1, 0x8020_0000, 7); ret.Err() != spec.ErrAlreadyAvailable {
		t.Fatalf("second HartStart = %v, want AlreadyAvailable", ret)
	}
}

func TestMachineHartStartInvalidHart(t *testing.T) {
	m, _, _, _ := newTestMachine(t, 2)
	if ret := m.HartStart(5, 0x8000_0000, 0); ret.Err() != spec.ErrInvalidParam {
		t.Fatalf("HartStart(5) = %v, want InvalidParam", ret)
	}
}

func TestMachineHartStartBadAddress(t *testing.T) {
	m, waker, _, _ := newTestMachine(t, 2)
	ret := m.HartStart(1, 0xBAD, 0)
	if ret.Err() != spec.ErrInvalidAddress {
		t.Fatalf("HartStart(bad addr) = %v, want InvalidAddress", ret)
	}
	if got := m.Table().Status(1); got != spec.HartStopped {
		t.Fatalf("hart 1 status mutated to %d", got)
	}
	if len(waker.woken) != 0 {
		t.Fatalf("hart woken despite rejected start")
	}
}

func TestMachineHartStartWakeFailure(t *testing.T) {
	m, waker, _, _ := newTestMachine(t, 2)
	waker.err = errors.New("ipi line dead")
	if ret := m.HartStart(1, 0x8000_0000, 0); ret.Err() != spec.ErrFailed {
		t.Fatalf("HartStart with dead waker = %v, want Failed", ret)
	}
	if got := m.Table().Status(1); got != spec.HartStopped {
		t.Fatalf("hart 1 left in state %d after wake failure", got)
	}
}

func TestMachineHartStop(t *testing.T) {
	m, _, _, _ := newTestMachine(t, 1)
	// Without a Park hook control returns, which must read as a failure.
	if ret := m.HartStop(); ret.Err() != spec.ErrFailed {
		t.Fatalf("HartStop = %v, want Failed", ret)
	}
	if got := m.Table().Status(0); got != spec.HartStopped {
		t.Fatalf("status after HartStop = %d", got)
	}
}

func TestMachineGetStatus(t *testing.T) {
	m, _, _, _ := newTestMachine(t, 2)
	ret := m.HartGetStatus(0)
	if v, err := ret.Result(); err != nil || v != spec.HartStarted {
		t.Fatalf("HartGetStatus(0) = %v", ret)
	}
	if ret := m.HartGetStatus(9); ret.Err() != spec.ErrInvalidParam {
		t.Fatalf("HartGetStatus(9) = %v, want InvalidParam", ret)
	}
}

func TestMachineSuspendRetentive(t *testing.T) {
	m, _, _, susp := newTestMachine(t, 1)
	ret := m.HartSuspend(spec.SuspendRetentive, 0, 0)
	if ret.IsErr() {
		t.Fatalf("retentive suspend = %v", ret)
	}
	if len(susp.types) != 1 || susp.types[0] != spec.SuspendRetentive {
		t.Fatalf("suspender saw %v", susp.types)
	}
	if got := m.Table().Status(0); got != spec.HartStarted {
		t.Fatalf("status after retentive resume = %d", got)
	}
}

func TestMachineSuspendBadResumeAddress(t *testing.T) {
	m, _, _, susp := newTestMachine(t, 1)
	ret := m.HartSuspend(spec.SuspendNonRetentive, 0xBAD, 0)
	if ret.Err() != spec.ErrInvalidAddress {
		t.Fatalf("non-retentive suspend to bad addr = %v, want InvalidAddress", ret)
	}
	if len(susp.types) != 0 {
		t.Fatalf("suspender invoked despite rejected address")
	}
	if got := m.Table().Status(0); got != spec.HartStarted {
		t.Fatalf("status mutated to %d", got)
	}
}

func TestMachineSuspendWithoutHook(t *testing.T) {
	table, _ := NewTable(1, 0)
	m, err := NewMachine(MachineConfig{
		Table:       table,
		Waker:       &fakeWaker{},
		CurrentHart: func() spec.Word { return 0 },
	})
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if ret := m.HartSuspend(spec.SuspendRetentive, 0, 0); ret.Err() != spec.ErrNotSupported {
		t.Fatalf("suspend without hook = %v, want NotSupported", ret)
	}
}
