//go:build linux || darwin || freebsd

package serialport

import (
	"errors"

	"golang.org/x/sys/unix"
)

// termiosIO reads and writes a handle's attribute set. set must discard
// pending input and output before applying (TCSAFLUSH semantics).
type termiosIO interface {
	get(fd int) (*unix.Termios, error)
	set(fd int, t *unix.Termios) error
}

type ioctlTermios struct{}

func (ioctlTermios) get(fd int) (*unix.Termios, error) {
	return unix.IoctlGetTermios(fd, ioctlGetAttr)
}

func (ioctlTermios) set(fd int, t *unix.Termios) error {
	return unix.IoctlSetTermios(fd, ioctlSetAttrFlush, t)
}

// termiosDevice is a tty file descriptor driven through termios
type termiosDevice struct {
	fd    int
	attrs termiosIO
}

func openPlatformDevice(name string) (device, error) {
	// O_NONBLOCK keeps open from waiting for carrier; blocking mode is
	// restored once CLOCAL is set.
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, newError("open", name, classifyOpenError(err), err)
	}

	d := &termiosDevice{fd: fd, attrs: ioctlTermios{}}
	if err := d.configureRaw(); err != nil {
		unix.Close(fd)
		return nil, newError("configure", name, ErrConfiguration, err)
	}
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, newError("configure", name, ErrConfiguration, err)
	}

	return d, nil
}

func wrapPlatformDevice(fd uintptr) device {
	return &termiosDevice{fd: int(fd), attrs: ioctlTermios{}}
}

// configureRaw reads the current attributes and applies makeRaw on top
func (d *termiosDevice) configureRaw() error {
	current, err := d.attrs.get(d.fd)
	if err != nil {
		return err
	}
	raw := makeRaw(*current)
	return d.attrs.set(d.fd, &raw)
}

// makeRaw returns t switched to raw binary mode: receiver on, modem control
// lines ignored, no line editing, echo or signal generation, no output
// post-processing and no input translation. Reads block until at least one
// byte is available.
func makeRaw(t unix.Termios) unix.Termios {
	t.Cflag |= unix.CREAD | unix.CLOCAL
	t.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ECHOK | unix.ECHONL | unix.ISIG | unix.IEXTEN
	t.Oflag &^= unix.OPOST
	t.Iflag &^= unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IGNBRK
	// 8-bit clean, no XON/XOFF bytes swallowed or injected
	t.Iflag &^= unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.IXON | unix.IXOFF

	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return t
}

// applyParams returns t with speed, character size and parity replaced by p.
// Every other flag is left untouched.
func applyParams(t unix.Termios, p Params) (unix.Termios, error) {
	if err := p.Validate(); err != nil {
		return t, err
	}

	t.Cflag &^= unix.CSIZE
	switch p.CharSize {
	case CharSize5:
		t.Cflag |= unix.CS5
	case CharSize6:
		t.Cflag |= unix.CS6
	case CharSize7:
		t.Cflag |= unix.CS7
	case CharSize8:
		t.Cflag |= unix.CS8
	}

	t.Cflag &^= unix.PARENB | unix.PARODD
	switch p.Parity {
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	case ParityEven:
		t.Cflag |= unix.PARENB
	}

	if err := setSpeed(&t, p.BaudRate); err != nil {
		return t, err
	}
	return t, nil
}

// paramsMatch reports whether got carries the framing and speed of want
func paramsMatch(got, want unix.Termios) bool {
	const mask = unix.CSIZE | unix.PARENB | unix.PARODD
	if got.Cflag&mask != want.Cflag&mask {
		return false
	}
	return speedOf(got) == speedOf(want)
}

// SetParams does read, modify, apply, verify. Input and output speed travel
// in the same attribute set, so one apply call commits both or neither. If
// the driver silently adjusts anything the previous set is restored.
func (d *termiosDevice) SetParams(p Params) error {
	prev, err := d.attrs.get(d.fd)
	if err != nil {
		return err
	}

	next, err := applyParams(*prev, p)
	if err != nil {
		return err
	}

	if err := d.attrs.set(d.fd, &next); err != nil {
		return err
	}

	got, err := d.attrs.get(d.fd)
	if err == nil && paramsMatch(*got, next) {
		return nil
	}

	if rerr := d.attrs.set(d.fd, prev); rerr != nil {
		return errors.Join(errNotApplied, rerr)
	}
	if err != nil {
		return err
	}
	return errNotApplied
}

func (d *termiosDevice) Read(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}

func (d *termiosDevice) Write(p []byte) (int, error) {
	return unix.Write(d.fd, p)
}

func (d *termiosDevice) Drain() error {
	return drain(d.fd)
}

func (d *termiosDevice) Fd() uintptr {
	return uintptr(d.fd)
}

func (d *termiosDevice) Close() error {
	return unix.Close(d.fd)
}

func isBusy(err error) bool {
	return errors.Is(err, unix.EBUSY)
}

// isRejected reports whether the driver refused an attribute set as invalid
func isRejected(err error) bool {
	return errors.Is(err, unix.EINVAL)
}
