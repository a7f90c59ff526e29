package sbi

import (
	"log/slog"
	"math/bits"

	"github.com/rvcore/sbi/spec"
)

// Firmware routes supervisor environment calls to the extension
// implementations composed by a Builder. It is immutable after Build:
// every hart may call HandleEcall concurrently with no synchronization.
type Firmware struct {
	console Console
	timer   Timer
	ipi     Ipi
	fence   Fence
	hfence  HypervisorFence
	hsm     Hsm
	reset   Reset
	pmu     Pmu
	susp    Susp
	cppc    Cppc
	nacl    Nacl
	sta     Sta

	pmuSnapshot PmuSnapshot
	info        EnvInfo
	legacy      LegacyConsole
	implID      Word
	implVersion Word
	log         *slog.Logger

	custom map[Word]Extension
}

// HandleEcall dispatches one environment call. The extension id arrives in
// a7, the function id in a6 and the arguments in a0-a5; the result goes
// back in a0 (error) and a1 (value).
//
// Calls to unknown or absent extensions return spec.NotSupported. A panic
// inside an extension implementation is contained and surfaces as
// spec.Failed; it never corrupts routing or crosses the privilege
// boundary.
func (f *Firmware) HandleEcall(eid, fid Word, param [6]Word) (ret SbiRet) {
	defer func() {
		if r := recover(); r != nil {
			if f.log != nil {
				f.log.Error("sbi: extension panicked", "eid", eid, "fid", fid, "panic", r)
			}
			ret = spec.Failed()
		}
	}()

	ret = f.route(eid, fid, param)

	if f.log != nil {
		f.log.Debug("sbi: ecall", "eid", eid, "fid", fid, "error", int(ret.Error), "value", ret.Value)
	}
	return ret
}

func (f *Firmware) route(eid, fid Word, param [6]Word) SbiRet {
	switch eid {
	case spec.EIDBase:
		return f.handleBase(fid, param)
	case spec.EIDTime:
		return f.handleTime(fid, param)
	case spec.EIDIpi:
		return f.handleIpi(fid, param)
	case spec.EIDRfnc:
		return f.handleRfnc(fid, param)
	case spec.EIDHsm:
		return f.handleHsm(fid, param)
	case spec.EIDSrst:
		return f.handleSrst(fid, param)
	case spec.EIDPmu:
		return f.handlePmu(fid, param)
	case spec.EIDDbcn:
		return f.handleDbcn(fid, param)
	case spec.EIDSusp:
		return f.handleSusp(fid, param)
	case spec.EIDCppc:
		return f.handleCppc(fid, param)
	case spec.EIDNacl:
		return f.handleNacl(fid, param)
	case spec.EIDSta:
		return f.handleSta(fid, param)
	}
	if f.legacy != nil && eid <= spec.LegacyShutdown {
		return f.handleLegacy(eid, param)
	}
	if ext, ok := f.custom[eid]; ok {
		return ext.Handle(fid, param)
	}
	return spec.NotSupported()
}

func (f *Firmware) handleBase(fid Word, param [6]Word) SbiRet {
	var value Word
	switch fid {
	case spec.BaseGetSpecVersion:
		value = SpecVersionMajor<<24 | SpecVersionMinor
	case spec.BaseGetImplID:
		value = f.implID
	case spec.BaseGetImplVersion:
		value = f.implVersion
	case spec.BaseProbeExtension:
		value = f.probeExtension(param[0])
	case spec.BaseGetMvendorID:
		if f.info != nil {
			value = f.info.Mvendorid()
		}
	case spec.BaseGetMarchID:
		if f.info != nil {
			value = f.info.Marchid()
		}
	case spec.BaseGetMimpID:
		if f.info != nil {
			value = f.info.Mimpid()
		}
	default:
		return spec.NotSupported()
	}
	return spec.Success(value)
}

// probeExtension answers the base extension's probe query for any
// extension id. The answer depends only on the immutable registry, so
// repeated probes always agree.
func (f *Firmware) probeExtension(eid Word) Word {
	present := false
	switch eid {
	case spec.EIDBase:
		present = true
	case spec.EIDTime:
		present = f.timer != nil
	case spec.EIDIpi:
		present = f.ipi != nil
	case spec.EIDRfnc:
		present = f.fence != nil
	case spec.EIDHsm:
		present = f.hsm != nil
	case spec.EIDSrst:
		present = f.reset != nil
	case spec.EIDPmu:
		present = f.pmu != nil
	case spec.EIDDbcn:
		present = f.console != nil
	case spec.EIDSusp:
		present = f.susp != nil
	case spec.EIDCppc:
		present = f.cppc != nil
	case spec.EIDNacl:
		present = f.nacl != nil
	case spec.EIDSta:
		present = f.sta != nil
	default:
		if f.legacy != nil && eid <= spec.LegacyShutdown {
			present = true
		} else if ext, ok := f.custom[eid]; ok {
			if prober, ok := ext.(ExtensionProber); ok {
				return prober.ProbeValue()
			}
			present = true
		}
	}
	if present {
		return 1
	}
	return spec.UnavailableExtension
}

func (f *Firmware) handleTime(fid Word, param [6]Word) SbiRet {
	if f.timer == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.TimeSetTimer:
		f.timer.SetTimer(joinWords(param[0], param[1]))
		return spec.Success(0)
	}
	return spec.NotSupported()
}

func (f *Firmware) handleIpi(fid Word, param [6]Word) SbiRet {
	if f.ipi == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.IpiSendIPI:
		return f.ipi.SendIPI(spec.NewHartMask(param[0], param[1]))
	}
	return spec.NotSupported()
}

func (f *Firmware) handleRfnc(fid Word, param [6]Word) SbiRet {
	if f.fence == nil {
		return spec.NotSupported()
	}
	mask := spec.NewHartMask(param[0], param[1])
	switch fid {
	case spec.RfncFenceI:
		return f.fence.FenceI(mask)
	case spec.RfncSFenceVMA:
		return f.fence.SFenceVMA(mask, param[2], param[3])
	case spec.RfncSFenceVMAASID:
		return f.fence.SFenceVMAASID(mask, param[2], param[3], param[4])
	case spec.RfncHFenceGVMAVMID:
		if f.hfence == nil {
			return spec.NotSupported()
		}
		return f.hfence.HFenceGVMAVMID(mask, param[2], param[3], param[4])
	case spec.RfncHFenceGVMA:
		if f.hfence == nil {
			return spec.NotSupported()
		}
		return f.hfence.HFenceGVMA(mask, param[2], param[3])
	case spec.RfncHFenceVVMAASID:
		if f.hfence == nil {
			return spec.NotSupported()
		}
		return f.hfence.HFenceVVMAASID(mask, param[2], param[3], param[4])
	case spec.RfncHFenceVVMA:
		if f.hfence == nil {
			return spec.NotSupported()
		}
		return f.hfence.HFenceVVMA(mask, param[2], param[3])
	}
	return spec.NotSupported()
}

func (f *Firmware) handleHsm(fid Word, param [6]Word) SbiRet {
	if f.hsm == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.HsmHartStart:
		return f.hsm.HartStart(param[0], param[1], param[2])
	case spec.HsmHartStop:
		return f.hsm.HartStop()
	case spec.HsmHartGetStatus:
		return f.hsm.HartGetStatus(param[0])
	case spec.HsmHartSuspend:
		suspendType, ok := wordToU32(param[0])
		if !ok {
			return spec.InvalidParam()
		}
		return f.hsm.HartSuspend(suspendType, param[1], param[2])
	}
	return spec.NotSupported()
}

func (f *Firmware) handleSrst(fid Word, param [6]Word) SbiRet {
	if f.reset == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.SrstSystemReset:
		resetType, ok1 := wordToU32(param[0])
		resetReason, ok2 := wordToU32(param[1])
		if !ok1 || !ok2 {
			return spec.InvalidParam()
		}
		return f.reset.SystemReset(resetType, resetReason)
	}
	return spec.NotSupported()
}

func (f *Firmware) handlePmu(fid Word, param [6]Word) SbiRet {
	if f.pmu == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.PmuNumCounters:
		return spec.Success(f.pmu.NumCounters())
	case spec.PmuCounterGetInfo:
		return f.pmu.CounterGetInfo(param[0])
	case spec.PmuCounterConfigMatching:
		counters := spec.NewCounterMask(param[1], param[0])
		return f.pmu.CounterConfigMatching(counters, param[2], param[3], joinWords(param[4], param[5]))
	case spec.PmuCounterStart:
		counters := spec.NewCounterMask(param[1], param[0])
		return f.pmu.CounterStart(counters, param[2], joinWords(param[3], param[4]))
	case spec.PmuCounterStop:
		counters := spec.NewCounterMask(param[1], param[0])
		return f.pmu.CounterStop(counters, param[2])
	case spec.PmuCounterFwRead:
		return f.pmu.CounterFwRead(param[0])
	case spec.PmuCounterFwReadHi:
		return f.pmu.CounterFwReadHi(param[0])
	case spec.PmuSnapshotSetShmem:
		if f.pmuSnapshot == nil {
			return spec.NotSupported()
		}
		return f.pmuSnapshot.SnapshotSetShmem(spec.NewSharedPtr(param[0], param[1]), param[2])
	}
	return spec.NotSupported()
}

func (f *Firmware) handleDbcn(fid Word, param [6]Word) SbiRet {
	if f.console == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.DbcnConsoleWrite:
		return f.console.Write(spec.NewPhysical(param[0], param[1], param[2]))
	case spec.DbcnConsoleRead:
		return f.console.Read(spec.NewPhysical(param[0], param[1], param[2]))
	case spec.DbcnConsoleWriteByte:
		return f.console.WriteByte(byte(param[0]))
	}
	return spec.NotSupported()
}

func (f *Firmware) handleSusp(fid Word, param [6]Word) SbiRet {
	if f.susp == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.SuspSystemSuspend:
		sleepType, ok := wordToU32(param[0])
		if !ok {
			return spec.InvalidParam()
		}
		return f.susp.SystemSuspend(sleepType, param[1], param[2])
	}
	return spec.NotSupported()
}

func (f *Firmware) handleCppc(fid Word, param [6]Word) SbiRet {
	if f.cppc == nil {
		return spec.NotSupported()
	}
	regID, ok := wordToU32(param[0])
	if !ok {
		return spec.InvalidParam()
	}
	switch fid {
	case spec.CppcProbe:
		return f.cppc.Probe(regID)
	case spec.CppcRead:
		return f.cppc.Read(regID)
	case spec.CppcReadHi:
		return f.cppc.ReadHi(regID)
	case spec.CppcWrite:
		return f.cppc.Write(regID, joinWords(param[1], param[2]))
	}
	return spec.NotSupported()
}

func (f *Firmware) handleNacl(fid Word, param [6]Word) SbiRet {
	if f.nacl == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.NaclProbeFeature:
		featureID, ok := wordToU32(param[0])
		if !ok {
			return spec.InvalidParam()
		}
		return f.nacl.ProbeFeature(featureID)
	case spec.NaclSetShmem:
		return f.nacl.SetShmem(spec.NewSharedPtr(param[0], param[1]), param[2])
	case spec.NaclSyncCSR:
		return f.nacl.SyncCSR(param[0])
	case spec.NaclSyncHFence:
		return f.nacl.SyncHFence(param[0])
	case spec.NaclSyncSRET:
		return f.nacl.SyncSRET()
	}
	return spec.NotSupported()
}

func (f *Firmware) handleSta(fid Word, param [6]Word) SbiRet {
	if f.sta == nil {
		return spec.NotSupported()
	}
	switch fid {
	case spec.StaSetShmem:
		return f.sta.SetShmem(spec.NewSharedPtr(param[0], param[1]), param[2])
	}
	return spec.NotSupported()
}

// handleLegacy serves the deprecated extensions. Legacy calls return a
// single register: the error slot carries the result and the value slot
// echoes a1, matching what legacy-aware supervisors expect.
func (f *Firmware) handleLegacy(eid Word, param [6]Word) SbiRet {
	switch eid {
	case spec.LegacySetTimer:
		if f.timer != nil {
			f.timer.SetTimer(joinWords(param[0], param[1]))
			return SbiRet{Error: 0, Value: param[1]}
		}
	case spec.LegacyConsolePutchar:
		f.legacy.PutChar(byte(param[0]))
		return SbiRet{Error: 0, Value: param[1]}
	case spec.LegacyConsoleGetchar:
		return SbiRet{Error: Word(f.legacy.GetChar()), Value: param[1]}
	case spec.LegacySendIPI:
		if f.ipi != nil {
			// The legacy call passes a virtual address of the mask; that
			// translation is the trap handler's job. By the time the call
			// reaches the dispatcher the mask has been read into param[0].
			f.ipi.SendIPI(spec.NewHartMask(param[0], 0))
			return SbiRet{Error: 0, Value: param[1]}
		}
	case spec.LegacyShutdown:
		if f.reset != nil {
			return f.reset.SystemReset(spec.ResetTypeShutdown, spec.ResetReasonNoReason)
		}
	}
	return spec.NotSupported()
}

// joinWords reassembles a 64-bit argument. RV32 supervisors pass it split
// across two registers; on RV64 the first register holds the whole value.
func joinWords(lo, hi Word) uint64 {
	if bits.UintSize == 32 {
		return uint64(hi)<<32 | uint64(lo)
	}
	return uint64(lo)
}

func wordToU32(w Word) (uint32, bool) {
	if uint64(w) > 0xffffffff {
		return 0, false
	}
	return uint32(w), true
}
