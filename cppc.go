package sbi

// Cppc is the collaborative processor performance control extension,
// exposing ACPI CPPC registers to the supervisor.
type Cppc interface {
	// Probe reports the width in bits (32 or 64) of an implemented
	// register, 0 if the register is unimplemented, and
	// spec.InvalidParam for reserved register ids.
	Probe(regID uint32) SbiRet

	// Read returns the low register word.
	Read(regID uint32) SbiRet

	// ReadHi returns the upper 32 bits of a 64-bit register for 32-bit
	// supervisors; on 64-bit platforms it reports zero.
	ReadHi(regID uint32) SbiRet

	// Write stores val into the register. Read-only registers yield
	// spec.Denied; unimplemented ones spec.NotSupported.
	Write(regID uint32, val uint64) SbiRet
}
