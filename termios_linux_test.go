package serialport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    BaudRate
		standard bool
	}{
		{Baud115200, true},
		{Baud9600, true},
		{Baud57600, true},
		{Baud4000000, true},
		{123456, false},
		{250000, false},
	}

	for _, test := range tests {
		result, ok := getBaudRate(test.input)
		if ok != test.standard {
			t.Errorf("Expected standard=%v for baud rate %d", test.standard, test.input)
		}
		if ok && result == 0 {
			t.Errorf("Got zero code for standard baud rate %d", test.input)
		}
	}
}

func TestSetSpeedNonStandardUsesBOTHER(t *testing.T) {
	var tio unix.Termios
	tio.Cflag = unix.B9600 | unix.CS8

	if err := setSpeed(&tio, 250000); err != nil {
		t.Fatalf("setSpeed failed: %v", err)
	}
	if tio.Cflag&unix.CBAUD != unix.BOTHER {
		t.Errorf("Expected BOTHER, got cbaud %#x", tio.Cflag&unix.CBAUD)
	}
	if tio.Ispeed != 250000 || tio.Ospeed != 250000 {
		t.Errorf("Expected both speeds 250000, got %d/%d", tio.Ispeed, tio.Ospeed)
	}
	if tio.Cflag&unix.CSIZE != unix.CS8 {
		t.Error("Expected CSIZE untouched")
	}
}

func TestSetSpeedStandardClearsInputBaud(t *testing.T) {
	var tio unix.Termios
	tio.Cflag = unix.CIBAUD | unix.BOTHER

	if err := setSpeed(&tio, Baud115200); err != nil {
		t.Fatalf("setSpeed failed: %v", err)
	}
	if tio.Cflag&unix.CBAUD != unix.B115200 {
		t.Errorf("Expected B115200, got %#x", tio.Cflag&unix.CBAUD)
	}
	if tio.Cflag&unix.CIBAUD != 0 {
		t.Error("Expected CIBAUD cleared")
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/__does_not_exist__")
	if err == nil {
		t.Fatal("Expected error when opening non-existent device")
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
	if !errors.Is(err, unix.ENOENT) {
		t.Errorf("Expected ENOENT in chain, got %v", err)
	}
}

func countFds(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot list open descriptors: %v", err)
	}
	return len(entries)
}

func TestFailedOpenLeaksNoDescriptor(t *testing.T) {
	before := countFds(t)

	for i := 0; i < 5; i++ {
		if _, err := Open("/dev/__does_not_exist__"); !errors.Is(err, ErrDeviceNotFound) {
			t.Fatalf("Expected ErrDeviceNotFound, got %v", err)
		}
		// /dev/null opens fine but is not a tty, so configuring fails
		// after the descriptor exists.
		if _, err := Open("/dev/null"); !errors.Is(err, ErrConfiguration) {
			t.Fatalf("Expected ErrConfiguration for /dev/null, got %v", err)
		}
	}

	if after := countFds(t); after != before {
		t.Errorf("Expected %d open descriptors, got %d", before, after)
	}
}

func TestPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	path := t.TempDir() + "/ttyLOCKED"
	if err := os.WriteFile(path, nil, 0); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}

// openPty returns the master side of a new pseudo terminal and the path of
// its slave, which behaves like a serial tty.
func openPty(t *testing.T) (*os.File, string) {
	t.Helper()
	fd, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Skipf("no pseudo terminals: %v", err)
	}
	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		unix.Close(fd)
		t.Skipf("unlockpt failed: %v", err)
	}
	n, err := unix.IoctlGetUint32(fd, unix.TIOCGPTN)
	if err != nil {
		unix.Close(fd)
		t.Skipf("ptsname failed: %v", err)
	}

	master := os.NewFile(uintptr(fd), "ptmx")
	t.Cleanup(func() { master.Close() })
	return master, fmt.Sprintf("/dev/pts/%d", n)
}

func readN(t *testing.T, r func([]byte) (int, error), n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := r(buf[got:])
		if err != nil {
			t.Fatalf("read after %d of %d bytes: %v", got, n, err)
		}
		got += m
	}
	return buf
}

func TestPtyRawModeAttributes(t *testing.T) {
	_, slave := openPty(t)

	port, err := Open(slave)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	defer port.Close()

	tio, err := unix.IoctlGetTermios(int(port.NativeConnection().Fd()), unix.TCGETS2)
	if err != nil {
		t.Fatalf("TCGETS2 failed: %v", err)
	}
	if tio.Lflag&(unix.ICANON|unix.ECHO|unix.ISIG|unix.IEXTEN) != 0 {
		t.Errorf("Expected canonical mode, echo and signals off, lflag=%#x", tio.Lflag)
	}
	if tio.Oflag&unix.OPOST != 0 {
		t.Error("Expected OPOST off")
	}
	if tio.Iflag&(unix.ICRNL|unix.INLCR|unix.IGNCR|unix.IGNBRK) != 0 {
		t.Errorf("Expected input translation off, iflag=%#x", tio.Iflag)
	}
	if tio.Cflag&(unix.CREAD|unix.CLOCAL) != unix.CREAD|unix.CLOCAL {
		t.Errorf("Expected CREAD|CLOCAL, cflag=%#x", tio.Cflag)
	}

	flags, err := unix.FcntlInt(port.NativeConnection().Fd(), unix.F_GETFL, 0)
	if err != nil {
		t.Fatalf("F_GETFL failed: %v", err)
	}
	if flags&unix.O_NONBLOCK != 0 {
		t.Error("Expected a blocking descriptor")
	}
}

func TestPtyControlBytesPassUnaltered(t *testing.T) {
	master, slave := openPty(t)

	port, err := Open(slave, WithParams(DefaultParams()))
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	defer port.Close()

	payload := []byte{'\r', '\n', 0x04, 0x03, 0x1a, 0x7f, 0x00, 0xff, '\r', '\r', '\n'}

	// device to host: input processing must not translate
	if _, err := master.Write(payload); err != nil {
		t.Fatalf("master write failed: %v", err)
	}
	got := readN(t, port.Read, len(payload))
	if !bytes.Equal(got, payload) {
		t.Errorf("input path altered bytes: sent % x, got % x", payload, got)
	}

	// host to device: output processing must not translate
	if n, err := port.Write(payload); err != nil || n != len(payload) {
		t.Fatalf("Write returned %d, %v", n, err)
	}
	if err := port.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	got = readN(t, master.Read, len(payload))
	if !bytes.Equal(got, payload) {
		t.Errorf("output path altered bytes: sent % x, got % x", payload, got)
	}
}

func TestPtyRoundTripSizes(t *testing.T) {
	for _, size := range []int{1, 4096} {
		master, slave := openPty(t)

		port, err := Open(slave)
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", slave, err)
		}

		data := bytes.Repeat([]byte{0x00, 0x55, 0xaa, 0xff, '\n'}, size/5+1)[:size]

		done := make(chan []byte, 1)
		go func() {
			buf := make([]byte, size)
			got := 0
			for got < size {
				n, err := master.Read(buf[got:])
				if err != nil {
					break
				}
				got += n
			}
			done <- buf[:got]
		}()

		written := 0
		for written < size {
			n, err := port.Write(data[written:])
			if err != nil {
				t.Fatalf("size %d: Write failed: %v", size, err)
			}
			written += n
		}

		if got := <-done; !bytes.Equal(got, data) {
			t.Errorf("size %d: got %d bytes back, data mismatch", size, len(got))
		}
		port.Close()
	}
}

func TestPtySetParams(t *testing.T) {
	_, slave := openPty(t)

	port, err := Open(slave)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	defer port.Close()
	fd := int(port.NativeConnection().Fd())

	if err := port.SetParams(Params{Baud57600, CharSize8, ParityNone}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	before, err := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if err != nil {
		t.Fatalf("TCGETS2 failed: %v", err)
	}
	if before.Ospeed != 57600 || before.Ispeed != 57600 {
		t.Errorf("Expected 57600 both ways, got %d/%d", before.Ispeed, before.Ospeed)
	}
	if before.Lflag&unix.ICANON != 0 {
		t.Error("Expected raw mode kept after SetParams")
	}

	// Pseudo terminals may force 8N framing. Either the request is applied
	// exactly or it fails and the previous setup is still in place.
	err = port.SetParams(Params{Baud19200, CharSize7, ParityEven})
	after, gerr := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if gerr != nil {
		t.Fatalf("TCGETS2 failed: %v", gerr)
	}

	if err == nil {
		if after.Cflag&unix.CSIZE != unix.CS7 || after.Cflag&(unix.PARENB|unix.PARODD) != unix.PARENB {
			t.Errorf("SetParams reported success but cflag=%#x", after.Cflag)
		}
		if after.Ospeed != 19200 {
			t.Errorf("SetParams reported success but speed=%d", after.Ospeed)
		}
		return
	}

	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("Expected ErrConfiguration, got %v", err)
	}
	if *after != *before {
		t.Errorf("Expected previous configuration restored:\nbefore %+v\nafter  %+v", *before, *after)
	}
}

func TestPtyReadAfterHangup(t *testing.T) {
	_, slave := openPty(t)

	port, err := Open(slave)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", slave, err)
	}
	defer port.Close()

	fd := int(port.NativeConnection().Fd())
	if err := unix.IoctlSetInt(fd, unix.TIOCVHANGUP, 0); err != nil {
		t.Skipf("TIOCVHANGUP not permitted: %v", err)
	}

	_, err = port.Read(make([]byte, 16))
	if !errors.Is(err, ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF in chain, got %v", err)
	}
}

func TestPtyNewConnectionAdoptsDescriptor(t *testing.T) {
	master, slave := openPty(t)

	fd, err := unix.Open(slave, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("open %s failed: %v", slave, err)
	}
	before, err := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if err != nil {
		unix.Close(fd)
		t.Fatalf("TCGETS2 failed: %v", err)
	}

	conn := NewConnection(uintptr(fd), slave)
	if conn.Fd() != uintptr(fd) {
		t.Errorf("Expected fd %d, got %d", fd, conn.Fd())
	}
	if conn.Name() != slave {
		t.Errorf("Expected name %s, got %s", slave, conn.Name())
	}

	after, err := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if err != nil {
		t.Fatalf("TCGETS2 failed: %v", err)
	}
	if *after != *before {
		t.Errorf("Expected attributes untouched:\nbefore %+v\nafter  %+v", *before, *after)
	}

	port := New(conn)
	if err := port.SetParams(Params{Baud57600, CharSize8, ParityNone}); err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}

	if _, err := port.Write([]byte("ping")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := readN(t, master.Read, 4); string(got) != "ping" {
		t.Errorf("Expected ping on master, got %q", got)
	}

	if _, err := master.Write([]byte("pong\n")); err != nil {
		t.Fatalf("master Write failed: %v", err)
	}
	if got := readN(t, port.Read, 5); string(got) != "pong\n" {
		t.Errorf("Expected pong line, got %q", got)
	}

	port.Close()
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); !errors.Is(err, unix.EBADF) {
		t.Errorf("Expected descriptor closed, got %v", err)
	}
}
