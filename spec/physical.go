package spec

// Physical describes a caller-owned buffer in physical memory. The address
// is split into low and high register halves so RV32 supervisors can pass
// addresses wider than one register; on RV64 the high half is zero.
//
// A Physical is only a description. Consumers must validate that the range
// is usable before touching it; the caller is never trusted.
type Physical struct {
	NumBytes Word
	AddrLo   Word
	AddrHi   Word
}

// NewPhysical builds a descriptor for numBytes of memory at the split
// physical address (hi, lo).
func NewPhysical(numBytes, addrLo, addrHi Word) Physical {
	return Physical{NumBytes: numBytes, AddrLo: addrLo, AddrHi: addrHi}
}

// Addr returns the full physical base address.
func (p Physical) Addr() uint64 {
	return uint64(p.AddrHi)<<32 | uint64(p.AddrLo)
}

// End returns the exclusive end address and whether it overflowed.
func (p Physical) End() (uint64, bool) {
	end := p.Addr() + uint64(p.NumBytes)
	return end, end < p.Addr()
}

// SharedPtr describes a shared-memory region registered by the supervisor
// for extensions such as NACL and STA. The all-ones address pair is the
// conventional encoding for "disable shared memory".
type SharedPtr struct {
	AddrLo Word
	AddrHi Word
}

// NewSharedPtr builds a shared-memory pointer from the split address.
func NewSharedPtr(addrLo, addrHi Word) SharedPtr {
	return SharedPtr{AddrLo: addrLo, AddrHi: addrHi}
}

// IsDisable reports whether the pointer is the disable sentinel.
func (p SharedPtr) IsDisable() bool {
	return p.AddrLo == ^Word(0) && p.AddrHi == ^Word(0)
}

// Addr returns the full physical base address.
func (p SharedPtr) Addr() uint64 {
	return uint64(p.AddrHi)<<32 | uint64(p.AddrLo)
}
