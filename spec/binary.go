// Package spec defines the binary encoding of the RISC-V Supervisor Binary
// Interface: the two-register return value, the stable error code numbering,
// hart and counter selection masks, physical memory descriptors, and the
// published extension and function identifiers.
//
// Everything in this package is a pure value type. Word arithmetic uses the
// native register width, so the same code serves RV32 and RV64 targets.
package spec

import (
	"fmt"
	"iter"
)

// Word is a value held in a single supervisor register. It is 32 bits wide
// on RV32 targets and 64 bits wide on RV64 targets.
type Word = uint

// Error is an SBI error code. The numeric values are fixed by the SBI
// specification and must never be renumbered.
type Error int

const (
	ErrFailed           Error = -1
	ErrNotSupported     Error = -2
	ErrInvalidParam     Error = -3
	ErrDenied           Error = -4
	ErrInvalidAddress   Error = -5
	ErrAlreadyAvailable Error = -6
	ErrAlreadyStarted   Error = -7
	ErrAlreadyStopped   Error = -8
	ErrNoShmem          Error = -9
	ErrInvalidState     Error = -10
	ErrBadRange         Error = -11
	ErrTimeout          Error = -12
	ErrIO               Error = -13
	ErrDeniedLocked     Error = -14
)

func (e Error) Error() string {
	switch e {
	case ErrFailed:
		return "sbi: call failed"
	case ErrNotSupported:
		return "sbi: not supported"
	case ErrInvalidParam:
		return "sbi: invalid parameter"
	case ErrDenied:
		return "sbi: denied"
	case ErrInvalidAddress:
		return "sbi: invalid address"
	case ErrAlreadyAvailable:
		return "sbi: already available"
	case ErrAlreadyStarted:
		return "sbi: already started"
	case ErrAlreadyStopped:
		return "sbi: already stopped"
	case ErrNoShmem:
		return "sbi: shared memory not available"
	case ErrInvalidState:
		return "sbi: invalid state"
	case ErrBadRange:
		return "sbi: bad range"
	case ErrTimeout:
		return "sbi: timeout"
	case ErrIO:
		return "sbi: I/O error"
	case ErrDeniedLocked:
		return "sbi: denied (locked)"
	default:
		return fmt.Sprintf("sbi: unknown error %d", int(e))
	}
}

// RetSuccess is the error register value for a successful call.
const RetSuccess Word = 0

// SbiRet is the universal SBI return value: an error code and a value, one
// per return register. On error the value register is conventionally zero.
type SbiRet struct {
	Error Word
	Value Word
}

// Success returns a successful SbiRet carrying value.
func Success(value Word) SbiRet {
	return SbiRet{Error: RetSuccess, Value: value}
}

func ret(e Error) SbiRet {
	// Negative error codes are stored two's-complement in the register.
	return SbiRet{Error: Word(e)}
}

// Failed reports an unspecified failure.
func Failed() SbiRet { return ret(ErrFailed) }

// NotSupported reports that the extension or function is not implemented.
func NotSupported() SbiRet { return ret(ErrNotSupported) }

// InvalidParam reports a malformed parameter such as an unknown hart id.
func InvalidParam() SbiRet { return ret(ErrInvalidParam) }

// Denied reports that the platform disallows the operation.
func Denied() SbiRet { return ret(ErrDenied) }

// InvalidAddress reports an address that is not valid or not usable under
// the current protection settings.
func InvalidAddress() SbiRet { return ret(ErrInvalidAddress) }

// AlreadyAvailable reports that the requested resource is already present.
func AlreadyAvailable() SbiRet { return ret(ErrAlreadyAvailable) }

// AlreadyStarted reports that the requested resource was already started.
func AlreadyStarted() SbiRet { return ret(ErrAlreadyStarted) }

// AlreadyStopped reports that the requested resource was already stopped.
func AlreadyStopped() SbiRet { return ret(ErrAlreadyStopped) }

// NoShmem reports that no shared memory is registered.
func NoShmem() SbiRet { return ret(ErrNoShmem) }

// InvalidState reports an operation issued in an incompatible state.
func InvalidState() SbiRet { return ret(ErrInvalidState) }

// BadRange reports an index or range outside the valid set.
func BadRange() SbiRet { return ret(ErrBadRange) }

// Timeout reports that the operation did not complete in time.
func Timeout() SbiRet { return ret(ErrTimeout) }

// IOError reports a failure in the underlying I/O path.
func IOError() SbiRet { return ret(ErrIO) }

// DeniedLocked reports that the operation is disallowed while locked.
func DeniedLocked() SbiRet { return ret(ErrDeniedLocked) }

// IsOk reports whether r carries a successful result.
func (r SbiRet) IsOk() bool { return r.Error == RetSuccess }

// IsErr reports whether r carries an error code.
func (r SbiRet) IsErr() bool { return r.Error != RetSuccess }

// Err returns the error code as a Go error, or nil on success.
func (r SbiRet) Err() error {
	if r.Error == RetSuccess {
		return nil
	}
	return Error(int(r.Error))
}

// Result splits r into its payload and error.
func (r SbiRet) Result() (Word, error) {
	return r.Value, r.Err()
}

// And returns other if r is successful, otherwise r.
func (r SbiRet) And(other SbiRet) SbiRet {
	if r.IsOk() {
		return other
	}
	return r
}

// IsOkAnd reports whether r is successful and its value satisfies f.
func (r SbiRet) IsOkAnd(f func(Word) bool) bool {
	return r.IsOk() && f(r.Value)
}

// Inspect calls f with the payload if r is successful and returns r.
func (r SbiRet) Inspect(f func(Word)) SbiRet {
	if r.IsOk() {
		f(r.Value)
	}
	return r
}

// InspectErr calls f with the error if r failed and returns r.
func (r SbiRet) InspectErr(f func(error)) SbiRet {
	if err := r.Err(); err != nil {
		f(err)
	}
	return r
}

// Values yields the payload exactly once on success and nothing on error.
func (r SbiRet) Values() iter.Seq[Word] {
	return func(yield func(Word) bool) {
		if r.IsOk() {
			yield(r.Value)
		}
	}
}

func (r SbiRet) String() string {
	if r.IsOk() {
		return fmt.Sprintf("SbiRet(%#x)", r.Value)
	}
	return fmt.Sprintf("SbiRet(%v)", Error(int(r.Error)))
}
