package sbi

// Timer programs the supervisor timer event.
type Timer interface {
	// SetTimer arms the next timer event for stimeValue ticks. The
	// implementation must clear any pending supervisor timer interrupt,
	// even when stimeValue lies in the past.
	SetTimer(stimeValue uint64)
}

// Ipi sends inter-processor interrupts.
type Ipi interface {
	// SendIPI raises a supervisor software interrupt on every hart
	// selected by the mask. A hart id outside the platform's hart set
	// must be rejected with spec.InvalidParam.
	SendIPI(mask HartMask) SbiRet
}

// Reset is the system reset (SRST) extension.
type Reset interface {
	// SystemReset performs shutdown, cold reboot or warm reboot for the
	// whole system. On success it does not return; the only observable
	// results are error codes for unsupported or failed requests.
	SystemReset(resetType, resetReason uint32) SbiRet
}

// Susp is the system suspend (SUSP) extension.
type Susp interface {
	// SystemSuspend puts the whole system into the given sleep state.
	// Resumption re-enters the supervisor at resumeAddr with the hart id
	// and opaque in the first two argument registers.
	SystemSuspend(sleepType uint32, resumeAddr, opaque Word) SbiRet
}
