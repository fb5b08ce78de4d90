// Package serialport provides a small, blocking byte stream over a serial
// device.
//
// Opening a device switches it to raw binary mode: no echo, no line
// editing, no signal characters and no newline or carriage return
// translation in either direction. Every byte written reaches the wire
// unchanged and every byte received is returned unchanged.
//
// # Basic Usage
//
//	port, err := serialport.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if err := port.SetParams(serialport.Params{
//	    BaudRate: serialport.Baud9600,
//	    CharSize: serialport.CharSize8,
//	    Parity:   serialport.ParityNone,
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
//	port.Write([]byte("ABC"))
//	port.Flush() // returns once the bytes have left the transmitter
//
// Parameters can also be applied as part of the open:
//
//	port, err := serialport.Open("/dev/ttyUSB0",
//	    serialport.WithBaudRate(115200),
//	    serialport.WithParity(serialport.ParityEven),
//	)
//
// SetParams changes only speed, character size and parity. Any other
// attribute, including ones changed directly through the handle returned
// by NativeConnection().Fd(), is kept. If the device refuses a setting the
// previous configuration stays in effect.
//
// A descriptor opened elsewhere can be adopted with NewConnection, which
// leaves its attributes untouched:
//
//	port := serialport.New(serialport.NewConnection(fd, "/dev/ttyS0"))
//
// # Reads and Writes
//
// Read and Write are single blocking system calls and may transfer fewer
// bytes than requested. Use io.ReadFull or a write loop when an exact
// count is needed. Read returns 0 bytes only for an empty buffer or with
// an error; a device that has hung up reads as ErrIO wrapping io.EOF.
//
// A Port is not safe for concurrent use.
//
// # Error Handling
//
// Every error is an *Error carrying the operation, the device name, one of
// the kinds below and the underlying OS error:
//
//	ErrDeviceNotFound, ErrPermissionDenied, ErrDeviceInUse,
//	ErrInvalidArgument, ErrConfiguration, ErrIO, ErrClosed, ErrUnsupported
//
// Use errors.Is for both the kind and the OS error:
//
//	if errors.Is(err, serialport.ErrDeviceInUse) {
//	    // someone else has the port
//	}
//
// # Platform Support
//
// Linux (any baud rate the driver accepts, via BOTHER), macOS and FreeBSD
// use termios. Windows uses the DCB comm API. Open fails with
// ErrUnsupported elsewhere.
//
// Logging goes through logrus at debug level; pass WithLogger to route it.
package serialport
