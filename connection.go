package serialport

import (
	"errors"
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Connection owns exactly one open, raw-mode OS handle for a serial device.
//
// A Connection is not safe for concurrent use; callers sharing one between
// goroutines must serialize access themselves. The handle is released by
// Close, exactly once. A Connection that becomes unreachable without being
// closed is released by a finalizer.
type Connection struct {
	dev    device
	name   string
	closed atomic.Bool
	log    *logrus.Entry
}

// OpenConnection opens the named device for reading and writing without
// making it the controlling terminal, and switches it to raw binary mode.
// If the options carry Params they are applied before returning.
func OpenConnection(name string, opts ...Option) (*Connection, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, newError("open", name, ErrInvalidArgument, err)
		}
	}

	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return nil, newError("open", name, ErrInvalidArgument, ErrInvalidName)
	}

	log := config.Logger.WithField("device", name)

	dev, err := openDevice(name)
	if err != nil {
		log.WithError(err).Debug("open failed")
		return nil, err
	}

	c := newConnection(dev, name, log)
	log.Debug("opened in raw mode")

	if config.Params != nil {
		if err := c.setParams(*config.Params); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

// NewConnection takes ownership of an already open serial handle (a file
// descriptor on Unix, a HANDLE on Windows) and wraps it as it is. Nothing
// is reconfigured: apply raw mode yourself or through Port.SetParams,
// which changes only speed and framing. Closing the Connection closes fd.
func NewConnection(fd uintptr, name string) *Connection {
	log := DefaultConfig().Logger.WithField("device", name)
	return newConnection(wrapPlatformDevice(fd), name, log)
}

func newConnection(dev device, name string, log *logrus.Entry) *Connection {
	c := &Connection{
		dev:  dev,
		name: name,
		log:  log,
	}
	runtime.SetFinalizer(c, (*Connection).Close)
	return c
}

// Name returns the device name the connection was opened with.
func (c *Connection) Name() string {
	return c.name
}

// Fd returns the raw OS handle (file descriptor on Unix, HANDLE on Windows)
// for registration with readiness facilities. The caller must not close or
// duplicate it, and must keep the Connection alive while using it.
func (c *Connection) Fd() uintptr {
	return c.dev.Fd()
}

// Read performs one blocking read. It may return fewer bytes than len(p);
// it returns 0 only when p is empty. Once the device has hung up (a USB
// adapter unplugged, the other side of a pty closed) Read fails with
// ErrIO wrapping io.EOF.
func (c *Connection) Read(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, newError("read", c.name, ErrClosed, nil)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.dev.Read(p)
	if err != nil {
		return n, newError("read", c.name, ErrIO, err)
	}
	// a tty that has been hung up reads as end of file
	if n == 0 {
		return 0, newError("read", c.name, ErrIO, io.EOF)
	}
	return n, nil
}

// Write performs one blocking write and reports how many bytes the OS
// accepted, which may be fewer than len(p).
func (c *Connection) Write(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, newError("write", c.name, ErrClosed, nil)
	}

	n, err := c.dev.Write(p)
	if err != nil {
		return n, newError("write", c.name, ErrIO, err)
	}
	return n, nil
}

// Flush blocks until every byte previously written has been transmitted.
// There is no user-space buffer; this is a drain of the OS output queue.
func (c *Connection) Flush() error {
	if c.closed.Load() {
		return newError("flush", c.name, ErrClosed, nil)
	}

	if err := c.dev.Drain(); err != nil {
		return newError("flush", c.name, ErrIO, err)
	}
	return nil
}

// Close releases the handle. Only the first call does anything; close
// failures are logged, never returned.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(c, nil)

	if err := c.dev.Close(); err != nil {
		c.log.WithError(err).Warn("close failed")
		return nil
	}
	c.log.Debug("closed")
	return nil
}

func (c *Connection) setParams(p Params) error {
	if c.closed.Load() {
		return newError("set params", c.name, ErrClosed, nil)
	}
	if err := p.Validate(); err != nil {
		return newError("set params", c.name, ErrInvalidArgument, err)
	}

	if err := c.dev.SetParams(p); err != nil {
		kind := ErrIO
		switch {
		case errors.Is(err, ErrInvalidBaudRate), errors.Is(err, ErrInvalidCharSize), errors.Is(err, ErrInvalidParity):
			kind = ErrInvalidArgument
		case errors.Is(err, errNotApplied), isRejected(err):
			kind = ErrConfiguration
		}
		c.log.WithError(err).WithField("params", p.String()).Debug("set params failed")
		return newError("set params", c.name, kind, err)
	}

	c.log.WithField("params", p.String()).Debug("params applied")
	return nil
}

// errNotApplied is returned by a device whose driver accepted new settings
// but reports different ones on read back. The previous settings have been
// restored by the time it is returned.
var errNotApplied = errors.New("device did not apply the requested settings")
