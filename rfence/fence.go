package rfence

import "github.com/rvcore/sbi/spec"

// Fence adapts a Coordinator to the RFNC extension contract. The
// currentHart callback identifies the calling hart, letting one adapter
// serve every hart of the platform.
//
// Fence implements both the base and the hypervisor fence interfaces of
// the sbi package; HFENCE calls targeting a hart whose flusher lacks the
// hypervisor extension fail with spec.NotSupported.
type Fence struct {
	c           *Coordinator
	currentHart func() spec.Word
}

// NewFence binds a coordinator to the calling-hart callback.
func NewFence(c *Coordinator, currentHart func() spec.Word) *Fence {
	return &Fence{c: c, currentHart: currentHart}
}

func (f *Fence) broadcast(mask spec.HartMask, op Op) spec.SbiRet {
	return f.c.Broadcast(f.currentHart(), mask, op)
}

// FenceI broadcasts FENCE.I to the selected harts.
func (f *Fence) FenceI(mask spec.HartMask) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: FenceI})
}

// SFenceVMA broadcasts SFENCE.VMA over the given range.
func (f *Fence) SFenceVMA(mask spec.HartMask, startAddr, size spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: SFenceVMA, StartAddr: startAddr, Size: size})
}

// SFenceVMAASID broadcasts SFENCE.VMA scoped to one address space.
func (f *Fence) SFenceVMAASID(mask spec.HartMask, startAddr, size, asid spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: SFenceVMAASID, StartAddr: startAddr, Size: size, ASID: asid})
}

// HFenceGVMAVMID broadcasts HFENCE.GVMA scoped to one virtual machine.
// startAddr is a guest-physical address pre-shifted right by 2 bits.
func (f *Fence) HFenceGVMAVMID(mask spec.HartMask, startAddr, size, vmid spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: HFenceGVMAVMID, StartAddr: startAddr, Size: size, VMID: vmid})
}

// HFenceGVMA broadcasts HFENCE.GVMA covering all virtual machines.
// startAddr is a guest-physical address pre-shifted right by 2 bits.
func (f *Fence) HFenceGVMA(mask spec.HartMask, startAddr, size spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: HFenceGVMA, StartAddr: startAddr, Size: size})
}

// HFenceVVMAASID broadcasts HFENCE.VVMA scoped to one guest address space.
func (f *Fence) HFenceVVMAASID(mask spec.HartMask, startAddr, size, asid spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: HFenceVVMAASID, StartAddr: startAddr, Size: size, ASID: asid})
}

// HFenceVVMA broadcasts HFENCE.VVMA covering all guest address spaces.
func (f *Fence) HFenceVVMA(mask spec.HartMask, startAddr, size spec.Word) spec.SbiRet {
	return f.broadcast(mask, Op{Kind: HFenceVVMA, StartAddr: startAddr, Size: size})
}
