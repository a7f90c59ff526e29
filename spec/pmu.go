package spec

// PMU extension function IDs.
const (
	PmuNumCounters           Word = 0
	PmuCounterGetInfo        Word = 1
	PmuCounterConfigMatching Word = 2
	PmuCounterStart          Word = 3
	PmuCounterStop           Word = 4
	PmuCounterFwRead         Word = 5
	PmuCounterFwReadHi       Word = 6
	PmuSnapshotSetShmem      Word = 7
)

// PMU event types.
const (
	EventHardwareGeneral Word = 0
	EventHardwareCache   Word = 1
	EventHardwareRaw     Word = 2
	EventFirmware        Word = 15
)

// Hardware general event codes.
const (
	HwNoEvent               Word = 0
	HwCPUCycles             Word = 1
	HwInstructions          Word = 2
	HwCacheReferences       Word = 3
	HwCacheMisses           Word = 4
	HwBranchInstructions    Word = 5
	HwBranchMisses          Word = 6
	HwBusCycles             Word = 7
	HwStalledCyclesFrontend Word = 8
	HwStalledCyclesBackend  Word = 9
	HwRefCPUCycles          Word = 10
)

// Firmware event codes.
const (
	FwMisalignedLoad       Word = 0
	FwMisalignedStore      Word = 1
	FwAccessLoad           Word = 2
	FwAccessStore          Word = 3
	FwIllegalInsn          Word = 4
	FwSetTimer             Word = 5
	FwIPISent              Word = 6
	FwIPIReceived          Word = 7
	FwFenceISent           Word = 8
	FwFenceIReceived       Word = 9
	FwSFenceVMASent        Word = 10
	FwSFenceVMAReceived    Word = 11
	FwSFenceVMAASIDSent    Word = 12
	FwSFenceVMAASIDRecv    Word = 13
	FwHFenceGVMASent       Word = 14
	FwHFenceGVMAReceived   Word = 15
	FwHFenceGVMAVMIDSent   Word = 16
	FwHFenceGVMAVMIDRecv   Word = 17
	FwHFenceVVMASent       Word = 18
	FwHFenceVVMAReceived   Word = 19
	FwHFenceVVMAASIDSent   Word = 20
	FwHFenceVVMAASIDRecv   Word = 21
)

// Counter config_matching flags.
const (
	PmuCfgFlagSkipMatch    Word = 1 << 0
	PmuCfgFlagClearValue   Word = 1 << 1
	PmuCfgFlagAutoStart    Word = 1 << 2
	PmuCfgFlagSetVUInh     Word = 1 << 3
	PmuCfgFlagSetVSInh     Word = 1 << 4
	PmuCfgFlagSetUInh      Word = 1 << 5
	PmuCfgFlagSetSInh      Word = 1 << 6
	PmuCfgFlagSetMInh      Word = 1 << 7
)

// Counter start/stop flags.
const (
	PmuStartFlagSetInitValue Word = 1 << 0
	PmuStartFlagInitSnapshot Word = 1 << 1
	PmuStopFlagReset         Word = 1 << 0
	PmuStopFlagTakeSnapshot  Word = 1 << 1
)
