//go:build darwin || freebsd

package serialport

import "golang.org/x/sys/unix"

const (
	ioctlGetAttr      = unix.TIOCGETA
	ioctlSetAttrFlush = unix.TIOCSETAF
)

// setSpeed stores rate in both speed fields. BSD termios keeps speeds as
// plain integers, so any rate the driver accepts can be requested.
func setSpeed(t *unix.Termios, rate BaudRate) error {
	if rate <= 0 || uint64(rate) > maxSpeed {
		return ErrInvalidBaudRate
	}
	t.Ispeed = speedT(rate)
	t.Ospeed = speedT(rate)
	return nil
}

func speedOf(t unix.Termios) int {
	return int(t.Ospeed)
}

func drain(fd int) error {
	return unix.IoctlSetInt(fd, unix.TIOCDRAIN, 0)
}
