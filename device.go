package serialport

// device is one open OS communication handle that has already been switched
// to raw mode. Each platform provides an implementation through
// openPlatformDevice; tests substitute openDevice with a fake.
type device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	// Drain blocks until everything written has left the transmitter.
	Drain() error
	// SetParams changes speed, character size and parity only. It must
	// leave the previous configuration in place when it fails.
	SetParams(p Params) error
	Fd() uintptr
	Close() error
}

// openDevice opens name, applies raw mode and returns the device. Errors are
// *Error values with Op "open" or "configure". The handle is never leaked on
// failure.
var openDevice = openPlatformDevice
