// Package sbi implements the core of a RISC-V Supervisor Binary Interface
// firmware: capability interfaces for each SBI extension, and a composer
// that assembles a platform's chosen subset of implementations into a
// single environment-call dispatcher.
//
// A platform supplies drivers implementing any of the extension interfaces,
// registers them on a Builder, and calls Build to obtain an immutable
// Firmware. The platform's trap handler then routes every supervisor ecall
// through Firmware.HandleEcall and writes the two returned registers back
// into the trap frame:
//
//	ret := fw.HandleEcall(frame.A7, frame.A6, [6]spec.Word{
//		frame.A0, frame.A1, frame.A2, frame.A3, frame.A4, frame.A5,
//	})
//	frame.A0, frame.A1 = ret.Error, ret.Value
//
// The dispatcher is pure routing logic: it touches no hardware, is safe to
// call concurrently from every hart, and never lets a panic escape across
// the privilege boundary.
package sbi

import "github.com/rvcore/sbi/spec"

// Word is the native supervisor register width.
type Word = spec.Word

// SbiRet is the two-register SBI return value.
type SbiRet = spec.SbiRet

// HartMask selects a set of harts in an SBI call.
type HartMask = spec.HartMask

// Physical describes a caller-owned physical memory buffer.
type Physical = spec.Physical

// SharedPtr describes a supervisor-registered shared memory region.
type SharedPtr = spec.SharedPtr

// SBI specification version implemented by this library.
const (
	SpecVersionMajor Word = 2
	SpecVersionMinor Word = 0
)

// Extension handles calls for a vendor, firmware or experimental extension
// id that the core routes but does not interpret.
type Extension interface {
	// Handle processes one call. Unknown function ids must return
	// spec.NotSupported().
	Handle(function Word, param [6]Word) SbiRet
}

// ExtensionProber is an optional upgrade for Extension. Implementations
// can report a non-default probe value for the base extension's
// probe_extension query; without it a registered extension probes as 1.
type ExtensionProber interface {
	ProbeValue() Word
}

// EnvInfo supplies the machine identity registers reported by the base
// extension. Platforms not running on a real machine-mode hart (emulators,
// hypervisor-provided environments) implement this to forward or fabricate
// the values; absent an EnvInfo the base extension reports zero, the
// specified "not available" encoding.
type EnvInfo interface {
	Mvendorid() Word
	Marchid() Word
	Mimpid() Word
}
