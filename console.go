package sbi

// Console is the debug console (DBCN) extension: a generic byte transport
// for boot-time prints and debugging, meant to be replaced by a real driver
// once the supervisor has one.
type Console interface {
	// Write sends bytes from the described physical buffer to the console.
	// It must not block: it may write only part of the buffer, or nothing,
	// and reports the number of bytes accepted in the return value.
	Write(bytes Physical) SbiRet

	// Read fills the described physical buffer with available console
	// input. It must not block: with no input pending it returns success
	// with value 0. The return value is the number of bytes stored.
	Read(bytes Physical) SbiRet

	// WriteByte sends a single byte. Unlike Write it blocks until the byte
	// is accepted or an I/O error occurs; the success value is zero.
	WriteByte(b byte) SbiRet
}

// LegacyConsole serves the deprecated single-register console calls.
// Registering one on the Builder enables legacy call routing.
type LegacyConsole interface {
	// PutChar blocks until the byte is accepted.
	PutChar(b byte)
	// GetChar returns the next input byte, or -1 if none is pending.
	GetChar() int
}
