package sbi

// Hsm is the hart state management extension. It tracks each hart through
// the Stopped / Started / Suspended lifecycle and validates transitions.
type Hsm interface {
	// HartStart asks the platform to start a stopped hart at startAddr in
	// supervisor mode with translation disabled, the hart id in the first
	// argument register and opaque in the second. The call is
	// asynchronous: success means the start was accepted, not that the
	// target is already running. A hart that is not Stopped yields
	// spec.AlreadyAvailable; a non-executable startAddr yields
	// spec.InvalidAddress; an unknown hart id yields spec.InvalidParam.
	HartStart(hartID, startAddr, opaque Word) SbiRet

	// HartStop stops the calling hart. It must be invoked by the hart on
	// itself with supervisor interrupts disabled. On success it does not
	// return to the caller; the only possible return is an error.
	HartStop() SbiRet

	// HartGetStatus reports the last known state of a hart. Because start,
	// stop and suspend are asynchronous with respect to other harts, the
	// answer is a best-effort snapshot, never a transactional guarantee.
	HartGetStatus(hartID Word) SbiRet

	// HartSuspend puts the calling hart into a platform-defined suspend
	// state. Non-retentive suspends resume at resumeAddr with opaque in
	// the second argument register, mirroring HartStart entry state.
	HartSuspend(suspendType uint32, resumeAddr, opaque Word) SbiRet
}
