package serialport

import (
	"errors"
	"io/fs"
)

// Error kinds. Every error returned by this package is an *Error whose Kind
// is one of these, so errors.Is(err, ErrDeviceNotFound) works as expected.
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConfiguration    = errors.New("serial configuration rejected")
	ErrIO               = errors.New("serial i/o error")
	ErrClosed           = errors.New("serial connection is closed")
	ErrUnsupported      = errors.New("serial ports are not supported on this platform")
)

// Detail errors, wrapped inside an ErrInvalidArgument *Error.
var (
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidCharSize = errors.New("invalid character size")
	ErrInvalidParity   = errors.New("invalid parity")
	ErrInvalidName     = errors.New("invalid device name")
)

// Error records a failed operation on a serial device.
type Error struct {
	Op   string // "open", "configure", "set params", "read", "write", "flush"
	Name string // device name
	Kind error  // one of the Err* kinds above
	Err  error  // underlying cause, usually an OS error
}

func (e *Error) Error() string {
	s := "serialport: " + e.Op
	if e.Name != "" {
		s += " " + e.Name
	}
	s += ": " + e.Kind.Error()
	if e.Err != nil && e.Err != e.Kind {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(op, name string, kind, err error) *Error {
	return &Error{Op: op, Name: name, Kind: kind, Err: err}
}

// classifyOpenError maps an OS error from the open call to an error kind.
func classifyOpenError(err error) error {
	switch {
	case isBusy(err):
		return ErrDeviceInUse
	case errors.Is(err, fs.ErrNotExist):
		return ErrDeviceNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermissionDenied
	default:
		return ErrIO
	}
}
