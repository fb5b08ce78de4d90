package serialport

import "io"

// Port is the public handle on an open serial device. It owns one
// Connection and passes Read, Write and Flush straight through to it, with
// no buffering, translation or retries.
type Port struct {
	conn *Connection
}

// Ensure Port is a byte stream at compile time
var _ io.ReadWriteCloser = (*Port)(nil)

// New wraps an already opened Connection. The Port takes ownership of it.
func New(conn *Connection) *Port {
	return &Port{conn: conn}
}

// Open opens and configures the named device and wraps it in a Port.
func Open(name string, opts ...Option) (*Port, error) {
	conn, err := OpenConnection(name, opts...)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// SetParams applies baud rate, character size and parity to the open device.
// Only those settings change; the raw mode flags already in force, and any
// other flag changed through the exported handle, are kept. Pending input
// and output are discarded as part of the switch.
//
// On failure the previous configuration is still in effect. Values no
// platform can represent fail with ErrInvalidArgument; values the device
// refuses fail with ErrConfiguration. The settings are read back after
// applying and must match exactly: a driver that reports an achieved rate
// other than the one requested (common for non-standard rates on USB
// adapters) counts as a refusal.
func (p *Port) SetParams(params Params) error {
	return p.conn.setParams(params)
}

// NativeConnection returns the underlying Connection, for example to
// register its Fd with a poller. It must not be closed through this view.
func (p *Port) NativeConnection() *Connection {
	return p.conn
}

// Read reads data from the serial port
func (p *Port) Read(buf []byte) (int, error) {
	return p.conn.Read(buf)
}

// Write writes data to the serial port
func (p *Port) Write(data []byte) (int, error) {
	return p.conn.Write(data)
}

// Flush waits until all output written to the port has been transmitted
func (p *Port) Flush() error {
	return p.conn.Flush()
}

// Close closes the serial port
func (p *Port) Close() error {
	return p.conn.Close()
}
