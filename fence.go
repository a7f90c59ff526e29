package sbi

// Fence is the remote fence (RFNC) extension: broadcast of synchronizing
// instructions to a selected set of harts. Calls block until every target
// hart has accepted the request, though the instruction itself may retire
// asynchronously on the remote hart.
//
// Range semantics shared by all ranged operations: a (startAddr, size) of
// (0, 0), or a size of all-ones, requests a single full flush instead of a
// per-page walk. Implementations may also collapse very large ranges into
// a full flush; that is an optimization, not an observable guarantee.
type Fence interface {
	// FenceI executes FENCE.I on the selected harts.
	FenceI(mask HartMask) SbiRet

	// SFenceVMA executes SFENCE.VMA for the given virtual address range on
	// the selected harts, covering all address spaces.
	SFenceVMA(mask HartMask, startAddr, size Word) SbiRet

	// SFenceVMAASID is SFenceVMA restricted to one address space id.
	SFenceVMAASID(mask HartMask, startAddr, size, asid Word) SbiRet
}

// HypervisorFence extends Fence with the hypervisor-extension variants.
// A Fence implementation without this upgrade answers the HFENCE calls
// with spec.NotSupported.
//
// Guest-physical addresses arrive pre-shifted right by 2 bits (the
// instruction's 4-byte addressing granularity); implementations must use
// them as-is and never shift again.
type HypervisorFence interface {
	// HFenceGVMAVMID executes HFENCE.GVMA for one virtual machine id.
	HFenceGVMAVMID(mask HartMask, startAddr, size, vmid Word) SbiRet

	// HFenceGVMA executes HFENCE.GVMA covering all virtual machines.
	HFenceGVMA(mask HartMask, startAddr, size Word) SbiRet

	// HFenceVVMAASID executes HFENCE.VVMA for one guest address space id.
	HFenceVVMAASID(mask HartMask, startAddr, size, asid Word) SbiRet

	// HFenceVVMA executes HFENCE.VVMA covering all guest address spaces.
	HFenceVVMA(mask HartMask, startAddr, size Word) SbiRet
}
