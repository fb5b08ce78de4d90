package serialport

import (
	"math"

	"golang.org/x/sys/unix"
)

// termios2 carries the speed in Ispeed/Ospeed, which is what makes
// arbitrary rates possible through BOTHER.
const (
	ioctlGetAttr      = unix.TCGETS2
	ioctlSetAttrFlush = unix.TCSETSF2
)

// getBaudRate converts a standard baud rate to its CBAUD code
func getBaudRate(rate BaudRate) (uint32, bool) {
	switch rate {
	case Baud50:
		return unix.B50, true
	case Baud75:
		return unix.B75, true
	case Baud110:
		return unix.B110, true
	case Baud134:
		return unix.B134, true
	case Baud150:
		return unix.B150, true
	case Baud200:
		return unix.B200, true
	case Baud300:
		return unix.B300, true
	case Baud600:
		return unix.B600, true
	case Baud1200:
		return unix.B1200, true
	case Baud1800:
		return unix.B1800, true
	case Baud2400:
		return unix.B2400, true
	case Baud4800:
		return unix.B4800, true
	case Baud9600:
		return unix.B9600, true
	case Baud19200:
		return unix.B19200, true
	case Baud38400:
		return unix.B38400, true
	case Baud57600:
		return unix.B57600, true
	case Baud115200:
		return unix.B115200, true
	case Baud230400:
		return unix.B230400, true
	case Baud460800:
		return unix.B460800, true
	case Baud500000:
		return unix.B500000, true
	case Baud576000:
		return unix.B576000, true
	case Baud921600:
		return unix.B921600, true
	case Baud1000000:
		return unix.B1000000, true
	case Baud1152000:
		return unix.B1152000, true
	case Baud1500000:
		return unix.B1500000, true
	case Baud2000000:
		return unix.B2000000, true
	case Baud2500000:
		return unix.B2500000, true
	case Baud3000000:
		return unix.B3000000, true
	case Baud3500000:
		return unix.B3500000, true
	case Baud4000000:
		return unix.B4000000, true
	default:
		return 0, false
	}
}

// setSpeed sets input and output speed to rate. Non-standard rates use
// BOTHER. CIBAUD is cleared so the input speed follows the output speed.
func setSpeed(t *unix.Termios, rate BaudRate) error {
	if rate <= 0 || uint64(rate) > math.MaxUint32 {
		return ErrInvalidBaudRate
	}

	code, ok := getBaudRate(rate)
	if !ok {
		code = unix.BOTHER
	}

	t.Cflag &^= unix.CBAUD | unix.CIBAUD
	t.Cflag |= code
	t.Ispeed = uint32(rate)
	t.Ospeed = uint32(rate)
	return nil
}

// speedOf returns the output speed encoded in t
func speedOf(t unix.Termios) int {
	return int(t.Ospeed)
}

// drain is tcdrain(3): TCSBRK with a non-zero argument waits for the output
// queue to empty and sends no break.
func drain(fd int) error {
	return unix.IoctlSetInt(fd, unix.TCSBRK, 1)
}
