package hsm

import (
	"fmt"

	"github.com/rvcore/sbi/spec"
)

// Waker signals a stopped or suspended hart so it leaves its low-power
// wait and inspects the state table. The transport (CLINT software
// interrupt, platform mailbox) belongs to the platform.
type Waker interface {
	Wake(hartID spec.Word) error
}

// Guard answers whether an address is executable under the current
// physical memory protection settings. Start and non-retentive suspend
// entry points are validated against it before any state changes.
type Guard interface {
	Executable(addr spec.Word) bool
}

// Suspender performs the platform side of a hart suspend: dropping the
// calling hart into the requested low-power state. For retentive types it
// returns nil after the hart resumes; for non-retentive types it does not
// return on success, because the hart re-enters at the recorded resume
// address.
type Suspender interface {
	Suspend(suspendType uint32) error
}

// MachineConfig assembles a Machine.
type MachineConfig struct {
	Table       *Table
	Waker       Waker
	Guard       Guard
	CurrentHart func() spec.Word

	// Park halts the calling hart after a stop; it must not return.
	// Optional: without it HartStop marks the hart Stopped and reports
	// Failed, since control observably came back.
	Park func()

	// Suspender implements platform suspend types. Optional: without it
	// HartSuspend answers NotSupported.
	Suspender Suspender
}

// Machine implements the hart state management extension over a Table and
// the platform hooks in MachineConfig.
type Machine struct {
	table       *Table
	waker       Waker
	guard       Guard
	currentHart func() spec.Word
	park        func()
	suspender   Suspender
}

// NewMachine validates the configuration and returns a Machine.
func NewMachine(cfg MachineConfig) (*Machine, error) {
	if cfg.Table == nil {
		return nil, fmt.Errorf("hsm: table is nil")
	}
	if cfg.Waker == nil {
		return nil, fmt.Errorf("hsm: waker is nil")
	}
	if cfg.CurrentHart == nil {
		return nil, fmt.Errorf("hsm: current hart callback is nil")
	}
	return &Machine{
		table:       cfg.Table,
		waker:       cfg.Waker,
		guard:       cfg.Guard,
		currentHart: cfg.CurrentHart,
		park:        cfg.Park,
		suspender:   cfg.Suspender,
	}, nil
}

// Table returns the state table the machine drives.
func (m *Machine) Table() *Table { return m.table }

// HartStart accepts a start request for a stopped hart. Success means the
// request was accepted and the target was signaled; the target may not be
// running yet when the call returns.
func (m *Machine) HartStart(hartID, startAddr, opaque spec.Word) spec.SbiRet {
	if !m.table.Valid(hartID) {
		return spec.InvalidParam()
	}
	if m.guard != nil && !m.guard.Executable(startAddr) {
		return spec.InvalidAddress()
	}
	if !m.table.Start(hartID, StartParams{Entry: startAddr, Opaque: opaque}) {
		return spec.AlreadyAvailable()
	}
	if err := m.waker.Wake(hartID); err != nil {
		// The target never saw the request; put the hart back.
		if _, ok := m.table.TakeStart(hartID); ok {
			m.table.Stop(hartID)
		}
		return spec.Failed()
	}
	return spec.Success(0)
}

// HartStop stops the calling hart. The caller must have supervisor
// interrupts disabled. On success control never returns; reaching the
// return statement means the platform failed to park the hart.
func (m *Machine) HartStop() spec.SbiRet {
	self := m.currentHart()
	m.table.Stop(self)
	if m.park != nil {
		m.park()
	}
	return spec.Failed()
}

// HartGetStatus reports the best-effort snapshot of a hart's state.
func (m *Machine) HartGetStatus(hartID spec.Word) spec.SbiRet {
	if !m.table.Valid(hartID) {
		return spec.InvalidParam()
	}
	return spec.Success(m.table.Status(hartID))
}

// HartSuspend suspends the calling hart. Retentive suspends return
// success here after the hart resumes; non-retentive suspends re-enter at
// resumeAddr and only errors are ever observed as return values.
func (m *Machine) HartSuspend(suspendType uint32, resumeAddr, opaque spec.Word) spec.SbiRet {
	if m.suspender == nil {
		return spec.NotSupported()
	}
	retentive := suspendType < spec.SuspendNonRetentive
	if !retentive && m.guard != nil && !m.guard.Executable(resumeAddr) {
		return spec.InvalidAddress()
	}

	self := m.currentHart()
	m.table.Suspend(self, StartParams{Entry: resumeAddr, Opaque: opaque})
	err := m.suspender.Suspend(suspendType)

	// For retentive suspends (and any failure) execution continues here,
	// so the hart is running again.
	m.table.Resume(self)
	if err != nil {
		return spec.Failed()
	}
	return spec.Success(0)
}
