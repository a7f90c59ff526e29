package spec

// Extension IDs from the published SBI numbering. The letter-soup values
// spell the extension name in ASCII.
const (
	EIDBase Word = 0x10
	EIDTime Word = 0x54494D45 // "TIME"
	EIDIpi  Word = 0x735049   // "sPI"
	EIDRfnc Word = 0x52464E43 // "RFNC"
	EIDHsm  Word = 0x48534D   // "HSM"
	EIDSrst Word = 0x53525354 // "SRST"
	EIDPmu  Word = 0x504D55   // "PMU"
	EIDDbcn Word = 0x4442434E // "DBCN"
	EIDSusp Word = 0x53555350 // "SUSP"
	EIDCppc Word = 0x43505043 // "CPPC"
	EIDNacl Word = 0x4E41434C // "NACL"
	EIDSta  Word = 0x535441   // "STA"
)

// Vendor and firmware specific extension ranges. Extensions in these
// ranges are opaque to the core beyond routing.
const (
	ExperimentalLo Word = 0x08000000
	ExperimentalHi Word = 0x08FFFFFF
	VendorLo       Word = 0x09000000
	VendorHi       Word = 0x09FFFFFF
	FirmwareLo     Word = 0x0A000000
	FirmwareHi     Word = 0x0AFFFFFF
)

// UnavailableExtension is the probe result for an absent extension.
const UnavailableExtension Word = 0

// Base extension function IDs.
const (
	BaseGetSpecVersion Word = 0
	BaseGetImplID      Word = 1
	BaseGetImplVersion Word = 2
	BaseProbeExtension Word = 3
	BaseGetMvendorID   Word = 4
	BaseGetMarchID     Word = 5
	BaseGetMimpID      Word = 6
)

// Implementation IDs registered with the SBI specification.
const (
	ImplBBL          Word = 0
	ImplOpenSBI      Word = 1
	ImplXvisor       Word = 2
	ImplKVM          Word = 3
	ImplRustSBI      Word = 4
	ImplDiosix       Word = 5
	ImplCoffer       Word = 6
	ImplXenProject   Word = 7
	ImplPolarFireHSS Word = 8
)

// Timer extension function IDs.
const (
	TimeSetTimer Word = 0
)

// IPI extension function IDs.
const (
	IpiSendIPI Word = 0
)

// Remote fence extension function IDs.
const (
	RfncFenceI         Word = 0
	RfncSFenceVMA      Word = 1
	RfncSFenceVMAASID  Word = 2
	RfncHFenceGVMAVMID Word = 3
	RfncHFenceGVMA     Word = 4
	RfncHFenceVVMAASID Word = 5
	RfncHFenceVVMA     Word = 6
)

// Hart state management function IDs.
const (
	HsmHartStart     Word = 0
	HsmHartStop      Word = 1
	HsmHartGetStatus Word = 2
	HsmHartSuspend   Word = 3
)

// Hart states reported by HSM hart_get_status.
const (
	HartStarted        Word = 0
	HartStopped        Word = 1
	HartStartPending   Word = 2
	HartStopPending    Word = 3
	HartSuspended      Word = 4
	HartSuspendPending Word = 5
	HartResumePending  Word = 6
)

// Hart suspend types. Values below NonRetentive are reserved for retentive
// platform-specific types; values above it for non-retentive ones.
const (
	SuspendRetentive    uint32 = 0
	SuspendNonRetentive uint32 = 0x80000000
)

// System reset function IDs, types and reasons.
const (
	SrstSystemReset Word = 0
)

const (
	ResetTypeShutdown   uint32 = 0
	ResetTypeColdReboot uint32 = 1
	ResetTypeWarmReboot uint32 = 2
)

const (
	ResetReasonNoReason      uint32 = 0
	ResetReasonSystemFailure uint32 = 1
)

// Debug console extension function IDs.
const (
	DbcnConsoleWrite     Word = 0
	DbcnConsoleRead      Word = 1
	DbcnConsoleWriteByte Word = 2
)

// System suspend function IDs and sleep types.
const (
	SuspSystemSuspend Word = 0
)

const (
	SleepSuspendToRAM uint32 = 0
)

// CPPC extension function IDs.
const (
	CppcProbe  Word = 0
	CppcRead   Word = 1
	CppcReadHi Word = 2
	CppcWrite  Word = 3
)

// NACL extension function IDs and feature IDs.
const (
	NaclProbeFeature Word = 0
	NaclSetShmem     Word = 1
	NaclSyncCSR      Word = 2
	NaclSyncHFence   Word = 3
	NaclSyncSRET     Word = 4
)

const (
	NaclFeatureSyncCSR     Word = 0
	NaclFeatureSyncHFence  Word = 1
	NaclFeatureSyncSRET    Word = 2
	NaclFeatureAutoswapCSR Word = 3
)

// STA extension function IDs.
const (
	StaSetShmem Word = 0
)

// Legacy extension IDs. These use the deprecated single-register return
// convention and exist only for backward compatibility.
const (
	LegacySetTimer          Word = 0x00
	LegacyConsolePutchar    Word = 0x01
	LegacyConsoleGetchar    Word = 0x02
	LegacyClearIPI          Word = 0x03
	LegacySendIPI           Word = 0x04
	LegacyRemoteFenceI      Word = 0x05
	LegacyRemoteSFenceVMA   Word = 0x06
	LegacyRemoteSFenceASID  Word = 0x07
	LegacyShutdown          Word = 0x08
)
