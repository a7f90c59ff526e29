package sbi

// Nacl is the nested acceleration extension: a shared-memory fast path
// that lets an L1 hypervisor batch CSR accesses and HFENCE requests
// instead of trapping for each one.
type Nacl interface {
	// ProbeFeature reports 1 if the given nested acceleration feature is
	// available and 0 otherwise.
	ProbeFeature(featureID uint32) SbiRet

	// SetShmem registers (or with the disable sentinel, unregisters) the
	// per-hart nested acceleration shared memory.
	SetShmem(shmem SharedPtr, flags Word) SbiRet

	// SyncCSR synchronizes one CSR, or all CSRs when csrNum is all-ones,
	// from the shared memory scratch space.
	SyncCSR(csrNum Word) SbiRet

	// SyncHFence processes one queued HFENCE entry, or all entries when
	// entryIndex is all-ones.
	SyncHFence(entryIndex Word) SbiRet

	// SyncSRET synchronizes CSRs and HFENCEs, then performs the nested
	// SRET. On success it does not return.
	SyncSRET() SbiRet
}

// Sta is the steal-time accounting extension.
type Sta interface {
	// SetShmem registers a 64-byte shared memory region where the SBI
	// implementation publishes how much time the hart was not running,
	// or unregisters it with the disable sentinel.
	SetShmem(shmem SharedPtr, flags Word) SbiRet
}
