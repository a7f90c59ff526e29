package sbi

import "github.com/rvcore/sbi/spec"

// Pmu is the performance monitoring unit extension.
type Pmu interface {
	// NumCounters reports how many counters, hardware and firmware
	// combined, the platform exposes.
	NumCounters() Word

	// CounterGetInfo describes one counter: for hardware counters the CSR
	// number and width, for firmware counters the firmware-counter flag.
	// An index outside [0, NumCounters) yields spec.InvalidParam.
	CounterGetInfo(counterIdx Word) SbiRet

	// CounterConfigMatching finds and configures a counter from the
	// selected set able to monitor the given event.
	CounterConfigMatching(counters spec.CounterMask, configFlags, eventIdx Word, eventData uint64) SbiRet

	// CounterStart starts the selected counters, optionally loading an
	// initial value.
	CounterStart(counters spec.CounterMask, startFlags Word, initialValue uint64) SbiRet

	// CounterStop stops the selected counters.
	CounterStop(counters spec.CounterMask, stopFlags Word) SbiRet

	// CounterFwRead returns the current value of a firmware counter.
	CounterFwRead(counterIdx Word) SbiRet

	// CounterFwReadHi returns the upper 32 bits of a firmware counter for
	// 32-bit supervisors; on 64-bit platforms it reports zero.
	CounterFwReadHi(counterIdx Word) SbiRet
}

// PmuSnapshot is an optional upgrade for Pmu adding the counter snapshot
// shared memory call. Without it the snapshot call answers
// spec.NotSupported.
type PmuSnapshot interface {
	SnapshotSetShmem(shmem SharedPtr, flags Word) SbiRet
}
